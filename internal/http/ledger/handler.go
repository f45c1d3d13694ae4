package ledger

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/moneybook/internal/http/middleware"
	"github.com/MrJamesThe3rd/moneybook/internal/ledger"
)

var (
	errTooPrecise    = errors.New("money has more than two decimal places")
	errMoneyTooLarge = errors.New("money is too large")
	errMissingType   = errors.New("type is required")
)

var maxCents = decimal.NewFromInt(math.MaxInt64)

// typeField tells an absent "type" key apart from an explicit null.
type typeField struct {
	Set   bool
	Value *int
}

func (f *typeField) UnmarshalJSON(b []byte) error {
	f.Set = true
	return json.Unmarshal(b, &f.Value)
}

// entryType returns nil when the key was absent. An explicit null is an
// invalid type rather than a missing one.
func (f typeField) entryType() (*ledger.Type, error) {
	if !f.Set {
		return nil, nil
	}

	if f.Value == nil {
		return nil, fmt.Errorf("%w: null", ledger.ErrInvalidType)
	}

	t := ledger.Type(*f.Value)

	return &t, nil
}

type Handler struct {
	svc *ledger.Service
}

func NewHandler(svc *ledger.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) Routes(r chi.Router) {
	r.Post("/", h.create)
	r.Get("/", h.list)
	r.Get("/balance", h.balance)
	r.Get("/trash", h.trash)
	r.Get("/{id}", h.get)
	r.Patch("/{id}", h.modify)
	r.Delete("/{id}", h.delete)
	r.Post("/{id}/restore", h.restore)
}

type createEntryRequest struct {
	Description string          `json:"description"`
	Money       decimal.Decimal `json:"money"`
	Type        typeField       `json:"type"`
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	var req createEntryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	typ, err := req.Type.entryType()
	if err != nil {
		writeError(w, r, err)
		return
	}

	if typ == nil {
		http.Error(w, errMissingType.Error(), http.StatusBadRequest)
		return
	}

	money, err := toCents(req.Money)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	e, err := h.svc.Create(r.Context(), userID, ledger.CreateParams{
		Description: req.Description,
		Money:       money,
		Type:        *typ,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, toResponse(e))
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	entries, err := h.svc.List(r.Context(), userID)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, toResponseList(entries))
}

func (h *Handler) trash(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	entries, err := h.svc.ListDeleted(r.Context(), userID)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, toResponseList(entries))
}

func (h *Handler) balance(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	balance, err := h.svc.Balance(r.Context(), userID)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, balanceResponse{Balance: formatCents(balance)})
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	key, ok := entryKey(w, r)
	if !ok {
		return
	}

	e, err := h.svc.Get(r.Context(), key)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, toResponse(e))
}

type modifyEntryRequest struct {
	Description *string          `json:"description,omitempty"`
	Money       *decimal.Decimal `json:"money,omitempty"`
	Type        typeField        `json:"type"`
}

func (h *Handler) modify(w http.ResponseWriter, r *http.Request) {
	key, ok := entryKey(w, r)
	if !ok {
		return
	}

	var req modifyEntryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	typ, err := req.Type.entryType()
	if err != nil {
		writeError(w, r, err)
		return
	}

	params := ledger.ModifyParams{Type: typ, Description: req.Description}

	if req.Money != nil {
		money, err := toCents(*req.Money)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		params.Money = &money
	}

	e, err := h.svc.Modify(r.Context(), key, params)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, toResponse(e))
}

func (h *Handler) delete(w http.ResponseWriter, r *http.Request) {
	key, ok := entryKey(w, r)
	if !ok {
		return
	}

	id, err := h.svc.Delete(r.Context(), key)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, deleteResponse{ID: id})
}

func (h *Handler) restore(w http.ResponseWriter, r *http.Request) {
	key, ok := entryKey(w, r)
	if !ok {
		return
	}

	e, err := h.svc.Restore(r.Context(), key)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, toResponse(e))
}

// entryKey builds the lookup key from the authenticated user and the {id}
// path parameter, writing the error response itself when either is missing.
func entryKey(w http.ResponseWriter, r *http.Request) (ledger.Key, bool) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return ledger.Key{}, false
	}

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return ledger.Key{}, false
	}

	return ledger.Key{UserID: userID, EntryID: id}, true
}

// toCents converts a decimal amount to cents. Amounts with fractional cents
// or outside the int64 range are rejected instead of being truncated.
func toCents(d decimal.Decimal) (int64, error) {
	cents := d.Shift(2)
	if !cents.IsInteger() {
		return 0, errTooPrecise
	}

	if cents.Abs().GreaterThan(maxCents) {
		return 0, errMoneyTooLarge
	}

	return cents.IntPart(), nil
}

func writeError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, ledger.ErrNotFound):
		http.Error(w, "entry not found", http.StatusNotFound)
	case ledger.IsBadRequest(err):
		http.Error(w, err.Error(), http.StatusBadRequest)
	default:
		slog.Error("ledger request failed", "error", err, "method", r.Method, "path", r.URL.Path)
		http.Error(w, "internal error", http.StatusInternalServerError)
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}
