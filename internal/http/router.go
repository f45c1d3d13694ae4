package http

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/MrJamesThe3rd/moneybook/internal/http/auth"
	"github.com/MrJamesThe3rd/moneybook/internal/http/ledger"
	authMiddleware "github.com/MrJamesThe3rd/moneybook/internal/http/middleware"
)

type Options struct {
	JWTSecret      string
	AllowedOrigins []string
}

func New(
	opts Options,
	authV1 *auth.Handler,
	entriesV1 *ledger.Handler,
) http.Handler {
	router := chi.NewRouter()

	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins: opts.AllowedOrigins,
		AllowedMethods: []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type"},
		MaxAge:         300,
	}))

	router.Get("/health", health)

	router.Route("/api/v1", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			r.Use(middleware.AllowContentType("application/json"))
			authV1.Routes(r)
		})

		r.Route("/entries", func(r chi.Router) {
			r.Use(authMiddleware.Auth(opts.JWTSecret))
			r.Use(middleware.AllowContentType("application/json"))
			entriesV1.Routes(r)
		})
	})

	return router
}

func health(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(map[string]string{"status": "ok"}); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}
