package auth_test

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/moneybook/internal/auth"
)

func TestGenerateAndParseToken(t *testing.T) {
	userID := uuid.New()

	token, err := auth.GenerateToken("secret", userID, time.Minute)
	require.NoError(t, err)

	got, err := auth.ParseToken("secret", token)
	require.NoError(t, err)
	assert.Equal(t, userID, got)
}

func TestParseToken_Invalid(t *testing.T) {
	valid, err := auth.GenerateToken("secret", uuid.New(), time.Minute)
	require.NoError(t, err)

	expired, err := auth.GenerateToken("secret", uuid.New(), -time.Minute)
	require.NoError(t, err)

	noneAlg, err := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.RegisteredClaims{
		Subject:   uuid.NewString(),
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	badSubject, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   "user-1",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}).SignedString([]byte("secret"))
	require.NoError(t, err)

	tests := []struct {
		name   string
		secret string
		token  string
	}{
		{name: "Garbage", secret: "secret", token: "invalid"},
		{name: "WrongSecret", secret: "other", token: valid},
		{name: "Expired", secret: "secret", token: expired},
		{name: "NoneAlgorithm", secret: "secret", token: noneAlg},
		{name: "NonUUIDSubject", secret: "secret", token: badSubject},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			id, err := auth.ParseToken(tt.secret, tt.token)
			require.ErrorIs(t, err, auth.ErrInvalidToken)
			assert.Equal(t, uuid.Nil, id)
		})
	}
}
