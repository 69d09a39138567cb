package utils

import (
	"crypto/rand"
	"fmt"
	"math/big"
)

const (
	accountNumberPrefix = "ACC"
	accountNumberMin    = 1_000_000_000
	accountNumberSpan   = 9_000_000_000
)

// GenerateAccountNumber produces a human-facing account identifier of the
// form "ACC" + 10 digits, drawn from crypto/rand. Uniqueness against the
// existing population is enforced by the store's unique index; callers
// re-draw on conflict.
func GenerateAccountNumber() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(accountNumberSpan))
	if err != nil {
		return "", fmt.Errorf("failed to read random bytes: %w", err)
	}
	return fmt.Sprintf("%s%d", accountNumberPrefix, accountNumberMin+n.Int64()), nil
}
