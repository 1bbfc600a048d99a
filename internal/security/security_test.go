package security

import (
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	testSecret   = "test-secret"
	testIssuer   = "bottle"
	testAudience = "bottle-admin"
)

func TestAccessToken_RoundTrip(t *testing.T) {
	tok, err := GenerateAccess(testSecret, "mod-1", "keeper", testIssuer, testAudience, time.Hour, time.Now())
	require.NoError(t, err)

	claims, err := ParseAccess(tok, testSecret, testIssuer, testAudience)
	require.NoError(t, err)
	assert.Equal(t, "mod-1", claims.Subject)
	assert.Equal(t, "keeper", claims.Name)
}

func TestParseAccess_Rejects(t *testing.T) {
	valid, err := GenerateAccess(testSecret, "mod-1", "keeper", testIssuer, testAudience, time.Hour, time.Now())
	require.NoError(t, err)
	expired, err := GenerateAccess(testSecret, "mod-1", "keeper", testIssuer, testAudience, time.Hour, time.Now().Add(-2*time.Hour))
	require.NoError(t, err)
	none, err := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.MapClaims{"sub": "mod-1", "iss": testIssuer, "aud": testAudience, "exp": time.Now().Add(time.Hour).Unix()}).
		SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	tests := []struct {
		name     string
		token    string
		secret   string
		issuer   string
		audience string
	}{
		{"Wrong secret", valid, "other", testIssuer, testAudience},
		{"Wrong issuer", valid, testSecret, "someone-else", testAudience},
		{"Wrong audience", valid, testSecret, testIssuer, "clients"},
		{"Expired", expired, testSecret, testIssuer, testAudience},
		{"Unsigned", none, testSecret, testIssuer, testAudience},
		{"Garbage", "not-a-token", testSecret, testIssuer, testAudience},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseAccess(tt.token, tt.secret, tt.issuer, tt.audience)
			assert.ErrorIs(t, err, ErrInvalidToken)
		})
	}
}

func TestPassword(t *testing.T) {
	hash, err := HashPassword("driftwood")
	require.NoError(t, err)

	assert.True(t, PasswordMatches(hash, "driftwood"))
	assert.False(t, PasswordMatches(hash, "seaweed"))
	assert.False(t, PasswordMatches("not-a-hash", "driftwood"))

	_, err = HashPassword(strings.Repeat("a", MaxPasswordBytes+1))
	assert.ErrorIs(t, err, ErrPasswordTooLong)
}

func TestRandomToken(t *testing.T) {
	a, err := RandomToken(12)
	require.NoError(t, err)
	b, err := RandomToken(12)
	require.NoError(t, err)

	assert.Len(t, a, 16)
	assert.NotEqual(t, a, b)

	_, err = RandomToken(0)
	assert.Error(t, err)
}

func TestEqualSecret(t *testing.T) {
	assert.True(t, EqualSecret("abc", "abc"))
	assert.False(t, EqualSecret("abc", "abd"))
	assert.False(t, EqualSecret("abc", ""))
}
