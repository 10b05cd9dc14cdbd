// Package sessiontest mints bearer tokens for tests.
package sessiontest

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const signingKey = "sessiontest-key"

// Token signs claims with a throwaway HS256 key. Decoding never checks the
// signature, so any key works.
func Token(t testing.TB, claims jwt.MapClaims) string {
	t.Helper()
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(signingKey))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return tok
}

// UserToken returns a token for sub with the given role claim, expiring ttl
// from now. role may be a string or a []string.
func UserToken(t testing.TB, sub string, role any, ttl time.Duration) string {
	t.Helper()
	return Token(t, jwt.MapClaims{
		"sub":      sub,
		"FullName": "Test " + sub,
		"role":     role,
		"exp":      time.Now().Add(ttl).Unix(),
	})
}
