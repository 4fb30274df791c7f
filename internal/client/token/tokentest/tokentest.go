// Package tokentest mints signed tokens for tests of code that consumes
// tokens from the remote authentication service.
package tokentest

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// SecretKey signs every token produced by this package.
var SecretKey = []byte("tokentest-secret")

// Sign returns an HS256 token carrying claims.
func Sign(t testing.TB, claims map[string]any) string {
	t.Helper()

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims(claims))

	tokenString, err := token.SignedString(SecretKey)
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}

	return tokenString
}

// Expiring returns a token for role that expires at now+validity. Negative
// validity yields an already expired token.
func Expiring(t testing.TB, role string, validity time.Duration) string {
	t.Helper()

	return Sign(t, map[string]any{
		"sub":  "42",
		"role": role,
		"exp":  time.Now().Add(validity).Unix(),
	})
}
