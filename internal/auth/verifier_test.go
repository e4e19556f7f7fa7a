package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"
)

func signToken(t *testing.T, secret string, claims jwt.MapClaims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	require.NoError(t, err)
	return token
}

func TestVerifyTokenResolvesSubject(t *testing.T) {
	verifier := NewJWTVerifier("secret")
	token := signToken(t, "secret", jwt.MapClaims{"sub": "uid-42", "exp": time.Now().Add(time.Hour).Unix()})

	uid, err := verifier.VerifyToken(token)
	require.NoError(t, err)
	require.Equal(t, "uid-42", uid)
}

func TestVerifyTokenRejectsWrongSecret(t *testing.T) {
	verifier := NewJWTVerifier("secret")
	token := signToken(t, "other", jwt.MapClaims{"sub": "uid-42"})

	_, err := verifier.VerifyToken(token)
	require.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerifyTokenRejectsExpired(t *testing.T) {
	verifier := NewJWTVerifier("secret")
	token := signToken(t, "secret", jwt.MapClaims{"sub": "uid-42", "exp": time.Now().Add(-time.Hour).Unix()})

	_, err := verifier.VerifyToken(token)
	require.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerifyTokenRejectsMissingSubject(t *testing.T) {
	verifier := NewJWTVerifier("secret")
	token := signToken(t, "secret", jwt.MapClaims{"exp": time.Now().Add(time.Hour).Unix()})

	_, err := verifier.VerifyToken(token)
	require.ErrorIs(t, err, ErrInvalidToken)
}
