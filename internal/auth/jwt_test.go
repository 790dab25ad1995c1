package auth_test

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/verdantworks/crm-api/internal/auth"
	"github.com/verdantworks/crm-api/internal/config"
)

const testSecret = "test-signing-secret"

func newValidator() *auth.TokenValidator {
	return auth.NewTokenValidator(&config.AuthConfig{
		JWTSecret: testSecret,
		Issuer:    "verdantworks",
		Audience:  "crm-api",
	})
}

func signToken(t *testing.T, secret string, claims jwt.MapClaims) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(secret))
	require.NoError(t, err)
	return signed
}

func TestValidateToken_RoundTrip(t *testing.T) {
	userID := uuid.New()
	tokenString := signToken(t, testSecret, jwt.MapClaims{
		"sub":   userID.String(),
		"iss":   "verdantworks",
		"aud":   "crm-api",
		"name":  "Dana Reyes",
		"email": "dana@verdantlandscapes.com",
		"roles": []string{"estimator", "crew_lead"},
		"exp":   time.Now().Add(time.Hour).Unix(),
	})

	userCtx, err := newValidator().ValidateToken(tokenString)
	require.NoError(t, err)

	assert.Equal(t, userID, userCtx.UserID)
	assert.Equal(t, "Dana Reyes", userCtx.DisplayName)
	assert.Equal(t, "dana@verdantlandscapes.com", userCtx.Email)
	assert.True(t, userCtx.HasRole(auth.RoleEstimator))
	assert.True(t, userCtx.HasRole(auth.RoleCrewLead))
	assert.False(t, userCtx.IsAdmin())
}

func TestValidateToken_Expired(t *testing.T) {
	tokenString := signToken(t, testSecret, jwt.MapClaims{
		"sub": uuid.New().String(),
		"iss": "verdantworks",
		"aud": "crm-api",
		"exp": time.Now().Add(-time.Minute).Unix(),
	})

	_, err := newValidator().ValidateToken(tokenString)
	assert.ErrorIs(t, err, auth.ErrExpiredToken)
}

func TestValidateToken_WrongSecret(t *testing.T) {
	tokenString := signToken(t, "some-other-secret", jwt.MapClaims{
		"sub": uuid.New().String(),
		"iss": "verdantworks",
		"aud": "crm-api",
		"exp": time.Now().Add(time.Hour).Unix(),
	})

	_, err := newValidator().ValidateToken(tokenString)
	assert.ErrorIs(t, err, auth.ErrInvalidToken)
}

func TestValidateToken_WrongIssuer(t *testing.T) {
	tokenString := signToken(t, testSecret, jwt.MapClaims{
		"sub": uuid.New().String(),
		"iss": "someone-else",
		"aud": "crm-api",
		"exp": time.Now().Add(time.Hour).Unix(),
	})

	_, err := newValidator().ValidateToken(tokenString)
	assert.ErrorIs(t, err, auth.ErrInvalidToken)
}

func TestValidateToken_RejectsUnsignedToken(t *testing.T) {
	token := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.MapClaims{
		"sub": uuid.New().String(),
		"iss": "verdantworks",
		"aud": "crm-api",
		"exp": time.Now().Add(time.Hour).Unix(),
	})
	tokenString, err := token.SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = newValidator().ValidateToken(tokenString)
	assert.ErrorIs(t, err, auth.ErrInvalidToken)
}

func TestValidateToken_EmailFallbackIdentity(t *testing.T) {
	tokenString := signToken(t, testSecret, jwt.MapClaims{
		"iss":   "verdantworks",
		"aud":   "crm-api",
		"email": "crew@verdantlandscapes.com",
		"exp":   time.Now().Add(time.Hour).Unix(),
	})

	userCtx, err := newValidator().ValidateToken(tokenString)
	require.NoError(t, err)

	assert.NotEqual(t, uuid.Nil, userCtx.UserID)

	// Same email yields the same identity across tokens
	again, err := newValidator().ValidateToken(tokenString)
	require.NoError(t, err)
	assert.Equal(t, userCtx.UserID, again.UserID)
}

func TestExtractRoles_SingleStringClaim(t *testing.T) {
	roles := auth.ExtractRoles(jwt.MapClaims{"role": "admin"})
	assert.Equal(t, []auth.Role{auth.RoleAdmin}, roles)
}
