package ledger

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Type tells whether an entry adds to or subtracts from the balance.
// The numeric values are the ones clients send.
type Type int

const (
	TypeIncome Type = iota
	TypeExpense
)

func (t Type) String() string {
	switch t {
	case TypeIncome:
		return "INCOME"
	case TypeExpense:
		return "EXPENSE"
	default:
		return fmt.Sprintf("Type(%d)", int(t))
	}
}

func (t Type) Valid() bool {
	return t == TypeIncome || t == TypeExpense
}

// ParseType converts the stored column value back into a Type.
func ParseType(s string) (Type, error) {
	switch s {
	case "INCOME":
		return TypeIncome, nil
	case "EXPENSE":
		return TypeExpense, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrInvalidType, s)
	}
}

// Signed returns money with the sign the given type applies to a balance.
func Signed(t Type, money int64) int64 {
	if t == TypeExpense {
		return -money
	}

	return money
}

// Entry is a single income or expense line in a user's money book.
type Entry struct {
	ID          uuid.UUID
	UserID      uuid.UUID
	Description string
	Money       int64 // Magnitude in cents, never negative
	Type        Type
	Total       int64 // Running balance in cents after this entry
	CreatedAt   time.Time
	UpdatedAt   time.Time
	DeletedAt   *time.Time
}

func (e *Entry) Deleted() bool {
	return e.DeletedAt != nil
}

// Key addresses one entry of one user. Lookups always match both fields.
type Key struct {
	UserID  uuid.UUID
	EntryID uuid.UUID
}
