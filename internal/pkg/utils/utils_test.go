package utils

import (
	"regexp"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSanitizeFileName(t *testing.T) {
	cases := map[string]string{
		"report.pdf":        "report.pdf",
		`a/b\c?d%e*f:g|h"i`: "a-b-c-d-e-f-g-h-i",
		"<script>.txt":      "-script-.txt",
		"  padded.txt  ":    "padded.txt",
		"///":               "---",
	}
	for input, want := range cases {
		assert.Equal(t, want, SanitizeFileName(input), "input: %q", input)
	}
}

func TestGenerateShareLink(t *testing.T) {
	pattern := regexp.MustCompile(`^[A-Za-z0-9]{32}$`)

	seen := make(map[string]bool)
	for i := 0; i < 50; i++ {
		link, err := GenerateShareLink()
		require.NoError(t, err)
		assert.Regexp(t, pattern, link)
		assert.False(t, seen[link], "duplicate link generated")
		seen[link] = true
	}
}

func TestGenerateTokenRoundTrip(t *testing.T) {
	tokenString, err := GenerateToken(42, "e0042", true, "test-secret", "teamdisk", time.Hour)
	require.NoError(t, err)

	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		return []byte("test-secret"), nil
	})
	require.NoError(t, err)
	require.True(t, token.Valid)
	assert.Equal(t, uint64(42), claims.UserID)
	assert.Equal(t, "e0042", claims.EmployeeID)
	assert.True(t, claims.IsAdmin)
	assert.Equal(t, "teamdisk", claims.Issuer)
}

func TestHashPassword(t *testing.T) {
	hash, err := HashPassword("secret123")
	require.NoError(t, err)
	assert.NotEqual(t, "secret123", hash)
	assert.True(t, CheckPasswordHash("secret123", hash))
	assert.False(t, CheckPasswordHash("wrong", hash))
}
