package dto

import "time"

// RegisterRequest defines the data needed to register a new customer login.
type RegisterRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required,min=6"`
	Email    string `json:"email" binding:"required,email"`
	Name     string `json:"name" binding:"required"`
	Phone    string `json:"phone"`
}

// LoginRequest defines the credentials for a login attempt.
type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// LoginResponse carries the issued token and its expiry.
type LoginResponse struct {
	Token      string    `json:"token"`
	ExpiresAt  time.Time `json:"expiresAt"`
	UserID     int64     `json:"userID"`
	CustomerID int64     `json:"customerID"`
}

// RegisterResponse defines the data returned after registration.
type RegisterResponse struct {
	UserID     int64  `json:"userID"`
	Username   string `json:"username"`
	Email      string `json:"email"`
	CustomerID int64  `json:"customerID"`
}
