package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/moneybook/internal/auth"
	"github.com/MrJamesThe3rd/moneybook/internal/http/middleware"
)

func TestAuth_Rejects(t *testing.T) {
	tests := []struct {
		name   string
		header string
	}{
		{name: "MissingHeader", header: ""},
		{name: "WrongScheme", header: "Token abc"},
		{name: "EmptyToken", header: "Bearer "},
		{name: "InvalidToken", header: "Bearer invalid"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := middleware.Auth("secret")(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				t.Fatalf("handler should not be called")
			}))

			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}

			rr := httptest.NewRecorder()
			handler.ServeHTTP(rr, req)
			assert.Equal(t, http.StatusUnauthorized, rr.Code)
		})
	}
}

func TestAuth_ValidToken(t *testing.T) {
	userID := uuid.New()

	token, err := auth.GenerateToken("secret", userID, time.Minute)
	require.NoError(t, err)

	handler := middleware.Auth("secret")(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got, ok := middleware.UserIDFromContext(r.Context())
		assert.True(t, ok)
		assert.Equal(t, userID, got)
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "bearer "+token)

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusOK, rr.Code)
}

func TestUserIDFromContext_Missing(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)

	_, ok := middleware.UserIDFromContext(req.Context())
	assert.False(t, ok)
}
