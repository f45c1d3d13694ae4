package http_test

import (
	"bytes"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	moneybookHttp "github.com/MrJamesThe3rd/moneybook/internal/http"
	authHandler "github.com/MrJamesThe3rd/moneybook/internal/http/auth"
	ledgerHandler "github.com/MrJamesThe3rd/moneybook/internal/http/ledger"
	"github.com/MrJamesThe3rd/moneybook/internal/ledger"
	"github.com/MrJamesThe3rd/moneybook/internal/user"
)

func newRouter(t *testing.T) http.Handler {
	ctrl := gomock.NewController(t)

	return moneybookHttp.New(
		moneybookHttp.Options{JWTSecret: "secret", AllowedOrigins: []string{"*"}},
		authHandler.NewHandler(user.NewService(user.NewMockRepository(ctrl)), "secret", time.Minute),
		ledgerHandler.NewHandler(ledger.NewService(ledger.NewMockRepository(ctrl))),
	)
}

func TestRouter_Health(t *testing.T) {
	rr := httptest.NewRecorder()
	newRouter(t).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/health", nil))

	require.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rr.Body.String())
}

func TestRouter_EntriesRequireToken(t *testing.T) {
	rr := httptest.NewRecorder()
	newRouter(t).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/v1/entries/", nil))

	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}

type failingWriter struct {
	*httptest.ResponseRecorder
}

func (failingWriter) Write([]byte) (int, error) {
	return 0, errors.New("connection reset")
}

func TestRouter_HealthLogsEncodeFailure(t *testing.T) {
	var buf bytes.Buffer

	prev := slog.Default()
	slog.SetDefault(slog.New(slog.NewTextHandler(&buf, nil)))
	t.Cleanup(func() { slog.SetDefault(prev) })

	w := failingWriter{httptest.NewRecorder()}
	newRouter(t).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Contains(t, buf.String(), "failed to encode response")
	assert.Contains(t, buf.String(), "connection reset")
}
