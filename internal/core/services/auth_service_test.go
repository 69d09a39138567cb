package services_test

import (
	"context"
	"testing"

	"github.com/corebank/banking_backend/internal/apperrors"
	"github.com/corebank/banking_backend/internal/core/domain"
	portssvc "github.com/corebank/banking_backend/internal/core/ports/services"
	"github.com/corebank/banking_backend/internal/core/services"
	"github.com/corebank/banking_backend/internal/dto"
	"github.com/corebank/banking_backend/internal/repositories/memory"
	"github.com/corebank/banking_backend/internal/utils"
	"github.com/stretchr/testify/suite"
)

type AuthServiceTestSuite struct {
	suite.Suite
	store   *memory.Store
	service portssvc.AuthSvcFacade
}

func (suite *AuthServiceTestSuite) SetupTest() {
	suite.store = memory.NewStore()
	suite.service = services.NewAuthService(suite.store, suite.store)
}

func (suite *AuthServiceTestSuite) register(username, password, email string) dto.RegisterRequest {
	return dto.RegisterRequest{
		Username: username,
		Password: password,
		Email:    email,
		Name:     "Test Customer",
		Phone:    "555-0100",
	}
}

func (suite *AuthServiceTestSuite) TestRegister_Success() {
	user, err := suite.service.Register(context.Background(), suite.register("ada", "s3cret!", "ada@example.com"))

	suite.Require().NoError(err)
	suite.Require().NotNil(user)
	suite.Equal("ada", user.Username)
	suite.Equal("CUSTOMER", user.Role)
	suite.True(user.IsActive)
	suite.NotZero(user.CustomerID)
	suite.NotEqual("s3cret!", user.PasswordHash)
}

func (suite *AuthServiceTestSuite) TestRegister_ValidationFailures() {
	ctx := context.Background()

	cases := []dto.RegisterRequest{
		suite.register("", "s3cret!", "ada@example.com"),
		suite.register("ada", "short", "ada@example.com"),
		suite.register("ada", "s3cret!", "not-an-email"),
	}
	for _, req := range cases {
		user, err := suite.service.Register(ctx, req)
		suite.Require().Error(err)
		suite.ErrorIs(err, apperrors.ErrValidation)
		suite.Nil(user)
	}
}

func (suite *AuthServiceTestSuite) TestRegister_DuplicateEmail() {
	ctx := context.Background()
	_, err := suite.service.Register(ctx, suite.register("ada", "s3cret!", "ada@example.com"))
	suite.Require().NoError(err)

	user, err := suite.service.Register(ctx, suite.register("other", "s3cret!", "ada@example.com"))

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrDuplicate)
	suite.Nil(user)
}

func (suite *AuthServiceTestSuite) TestLogin_Success() {
	ctx := context.Background()
	registered, err := suite.service.Register(ctx, suite.register("ada", "s3cret!", "ada@example.com"))
	suite.Require().NoError(err)

	user, err := suite.service.Login(ctx, "ada", "s3cret!")

	suite.Require().NoError(err)
	suite.Equal(registered.UserID, user.UserID)
	suite.Equal(registered.CustomerID, user.CustomerID)
}

func (suite *AuthServiceTestSuite) TestLogin_WrongPasswordIndistinguishableFromUnknownUser() {
	ctx := context.Background()
	_, err := suite.service.Register(ctx, suite.register("ada", "s3cret!", "ada@example.com"))
	suite.Require().NoError(err)

	_, wrongPassErr := suite.service.Login(ctx, "ada", "wrong-password")
	_, unknownUserErr := suite.service.Login(ctx, "nobody", "s3cret!")

	suite.ErrorIs(wrongPassErr, apperrors.ErrNotFound)
	suite.ErrorIs(unknownUserErr, apperrors.ErrNotFound)
	suite.Equal(wrongPassErr.Error(), unknownUserErr.Error())
}

func (suite *AuthServiceTestSuite) TestLogin_InactiveUser() {
	ctx := context.Background()
	hash, err := utils.HashPassword("s3cret!")
	suite.Require().NoError(err)
	_, err = suite.store.SaveUser(ctx, domain.User{
		Username:     "dormant",
		PasswordHash: hash,
		Email:        "dormant@example.com",
		Role:         "CUSTOMER",
		IsActive:     false,
	})
	suite.Require().NoError(err)

	user, err := suite.service.Login(ctx, "dormant", "s3cret!")

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.Nil(user)
}

func (suite *AuthServiceTestSuite) TestLogin_MissingCredentials() {
	_, err := suite.service.Login(context.Background(), "", "")

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
}

func TestAuthService(t *testing.T) {
	suite.Run(t, new(AuthServiceTestSuite))
}
