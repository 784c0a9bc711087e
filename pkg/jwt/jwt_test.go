package jwt

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret-key-at-least-32-bytes!"

func TestGenerateAndValidate(t *testing.T) {
	g, err := NewGenerator(testSecret, "taskhive", time.Hour)
	require.NoError(t, err)

	tenants := []TenantMembership{
		{TenantID: "t1", Role: "director"},
		{TenantID: "t2", Role: "staff"}, // legacy spelling survives the round trip
	}

	token, err := g.GenerateAccessToken("user-1", "Ada", tenants)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := g.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.UserID)
	assert.Equal(t, "Ada", claims.Name)
	assert.Equal(t, tenants, claims.Tenants)
}

func TestGenerateAccessToken_EmptyUserID(t *testing.T) {
	g, err := NewGenerator(testSecret, "taskhive", time.Hour)
	require.NoError(t, err)

	_, err = g.GenerateAccessToken("", "Ada", nil)
	assert.ErrorIs(t, err, ErrEmptyUserID)
}

func TestValidateToken_WrongSecret(t *testing.T) {
	g1, err := NewGenerator(testSecret, "taskhive", time.Hour)
	require.NoError(t, err)
	g2, err := NewGenerator("another-secret-also-32-bytes-long!", "taskhive", time.Hour)
	require.NoError(t, err)

	token, err := g1.GenerateAccessToken("user-1", "", nil)
	require.NoError(t, err)

	_, err = g2.ValidateToken(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestValidateToken_Expired(t *testing.T) {
	g, err := NewGenerator(testSecret, "taskhive", -time.Minute)
	require.NoError(t, err)

	token, err := g.GenerateAccessToken("user-1", "", nil)
	require.NoError(t, err)

	_, err = g.ValidateToken(token)
	assert.ErrorIs(t, err, ErrExpiredToken)
}

func TestValidateToken_Garbage(t *testing.T) {
	g, err := NewGenerator(testSecret, "taskhive", time.Hour)
	require.NoError(t, err)

	_, err = g.ValidateToken("not.a.token")
	assert.ErrorIs(t, err, ErrInvalidToken)
}
