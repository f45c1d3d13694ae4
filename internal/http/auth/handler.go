package auth

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/moneybook/internal/auth"
	"github.com/MrJamesThe3rd/moneybook/internal/http/middleware"
	"github.com/MrJamesThe3rd/moneybook/internal/user"
)

type Handler struct {
	svc      *user.Service
	secret   string
	tokenTTL time.Duration
}

func NewHandler(svc *user.Service, secret string, tokenTTL time.Duration) *Handler {
	return &Handler{svc: svc, secret: secret, tokenTTL: tokenTTL}
}

func (h *Handler) Routes(r chi.Router) {
	r.Post("/register", h.register)
	r.Post("/login", h.login)
	r.With(middleware.Auth(h.secret)).Get("/me", h.me)
}

type credentialsRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type userResponse struct {
	ID        uuid.UUID `json:"id"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
}

type tokenResponse struct {
	Token string       `json:"token"`
	User  userResponse `json:"user"`
}

func toUserResponse(u *user.User) userResponse {
	return userResponse{ID: u.ID, Email: u.Email, CreatedAt: u.CreatedAt}
}

func (h *Handler) register(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid payload", http.StatusBadRequest)
		return
	}

	u, err := h.svc.Register(r.Context(), req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, user.ErrInvalidEmail), errors.Is(err, user.ErrInvalidPassword):
			http.Error(w, err.Error(), http.StatusBadRequest)
		case errors.Is(err, user.ErrEmailTaken):
			http.Error(w, err.Error(), http.StatusConflict)
		default:
			slog.Error("registration failed", "error", err)
			http.Error(w, "registration failed", http.StatusInternalServerError)
		}

		return
	}

	h.respondWithToken(w, http.StatusCreated, u)
}

func (h *Handler) login(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid payload", http.StatusBadRequest)
		return
	}

	u, err := h.svc.Authenticate(r.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, user.ErrInvalidCredentials) {
			http.Error(w, "invalid credentials", http.StatusUnauthorized)
			return
		}

		slog.Error("login failed", "error", err)
		http.Error(w, "login failed", http.StatusInternalServerError)

		return
	}

	h.respondWithToken(w, http.StatusOK, u)
}

func (h *Handler) me(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	u, err := h.svc.Get(r.Context(), userID)
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		slog.Error("loading user failed", "error", err, "user_id", userID)
		http.Error(w, "internal error", http.StatusInternalServerError)

		return
	}

	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(toUserResponse(u)); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

func (h *Handler) respondWithToken(w http.ResponseWriter, status int, u *user.User) {
	token, err := auth.GenerateToken(h.secret, u.ID, h.tokenTTL)
	if err != nil {
		slog.Error("failed to generate token", "error", err)
		http.Error(w, "failed to generate token", http.StatusInternalServerError)

		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(tokenResponse{Token: token, User: toUserResponse(u)}); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}
