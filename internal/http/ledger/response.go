package ledger

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/moneybook/internal/ledger"
)

type entryResponse struct {
	ID          uuid.UUID  `json:"id"`
	Description string     `json:"description"`
	Money       string     `json:"money"`
	Type        string     `json:"type"`
	Total       string     `json:"total"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
	DeletedAt   *time.Time `json:"deleted_at,omitempty"`
}

type balanceResponse struct {
	Balance string `json:"balance"`
}

type deleteResponse struct {
	ID uuid.UUID `json:"id"`
}

// formatCents renders an amount in cents with two decimal places.
func formatCents(cents int64) string {
	return decimal.New(cents, -2).StringFixed(2)
}

func toResponse(e *ledger.Entry) entryResponse {
	return entryResponse{
		ID:          e.ID,
		Description: e.Description,
		Money:       formatCents(e.Money),
		Type:        e.Type.String(),
		Total:       formatCents(e.Total),
		CreatedAt:   e.CreatedAt,
		UpdatedAt:   e.UpdatedAt,
		DeletedAt:   e.DeletedAt,
	}
}

func toResponseList(entries []*ledger.Entry) []entryResponse {
	resp := make([]entryResponse, len(entries))
	for i, e := range entries {
		resp[i] = toResponse(e)
	}

	return resp
}
