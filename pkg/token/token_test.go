package token

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateAndValidate(t *testing.T) {
	svc := NewService("test-secret", time.Hour)
	userID := uuid.New()

	tokenString, err := svc.Generate(userID, "Alice Perera", "alice@example.com", "0771234567")
	require.NoError(t, err)
	require.NotEmpty(t, tokenString)

	claims, err := svc.Validate(tokenString)
	require.NoError(t, err)
	assert.Equal(t, userID, claims.UserID)
	assert.Equal(t, "Alice Perera", claims.Name)
	assert.Equal(t, "alice@example.com", claims.Email)
	assert.Equal(t, "0771234567", claims.Mobile)
	assert.False(t, svc.IsExpired(tokenString))
}

func TestValidate_WrongSecret(t *testing.T) {
	issuer := NewService("issuer-secret", time.Hour)
	verifier := NewService("other-secret", time.Hour)

	tokenString, err := issuer.Generate(uuid.New(), "Bob", "bob@example.com", "")
	require.NoError(t, err)

	_, err = verifier.Validate(tokenString)
	assert.Error(t, err)
}

func TestValidate_Expired(t *testing.T) {
	svc := NewService("test-secret", -time.Minute)

	tokenString, err := svc.Generate(uuid.New(), "Carol", "carol@example.com", "")
	require.NoError(t, err)

	_, err = svc.Validate(tokenString)
	assert.Error(t, err)
	assert.True(t, svc.IsExpired(tokenString))
}

func TestValidate_Garbage(t *testing.T) {
	svc := NewService("test-secret", time.Hour)

	_, err := svc.Validate("not.a.token")
	assert.Error(t, err)
	assert.True(t, svc.IsExpired("not.a.token"))
}
