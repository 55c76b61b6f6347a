package jwtinfra_test

import (
	"crypto/rand"
	"crypto/rsa"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/studybuddy-api/internal/config"
	jwtinfra "github.com/studybuddy-api/internal/infrastructure/jwt"
	"github.com/studybuddy-api/internal/infrastructure/jwt/jwttest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProvider_SignVerifyRoundTrip(t *testing.T) {
	p := jwttest.NewProvider(t)

	signed, err := p.Sign("01HX", "a@m.nthu.edu.tw")
	require.NoError(t, err)

	claims, err := p.Verify(signed)
	require.NoError(t, err)
	assert.Equal(t, "01HX", claims.StudentID)
	assert.Equal(t, "01HX", claims.Subject)
	assert.Equal(t, "a@m.nthu.edu.tw", claims.Email)
	assert.WithinDuration(t, time.Now().Add(24*time.Hour), claims.ExpiresAt.Time, time.Minute)
}

func TestProvider_RejectsForeignKey(t *testing.T) {
	other, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)
	signed, err := jwt.NewWithClaims(jwt.SigningMethodRS256, jwtinfra.Claims{StudentID: "x"}).SignedString(other)
	require.NoError(t, err)

	_, err = jwttest.NewProvider(t).Verify(signed)
	assert.Error(t, err)
}

func TestProvider_RejectsHMAC(t *testing.T) {
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwtinfra.Claims{StudentID: "x"}).SignedString([]byte("secret"))
	require.NoError(t, err)

	_, err = jwttest.NewProvider(t).Verify(signed)
	assert.Error(t, err)
}

func TestNewProvider_MissingKey(t *testing.T) {
	_, err := jwtinfra.NewProvider(&config.Config{JWTPrivateKeyPath: "/nonexistent/key.pem"})
	assert.ErrorContains(t, err, "read private key")
}
