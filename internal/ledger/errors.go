package ledger

import "errors"

var (
	ErrNotFound = errors.New("ledger entry not found")

	ErrMissingType  = errors.New("update must include a type")
	ErrNotDeleted   = errors.New("ledger entry is not deleted")
	ErrInvalidType  = errors.New("invalid entry type")
	ErrInvalidMoney = errors.New("money must be a positive amount")

	ErrBalanceOverflow = errors.New("running total out of range")
)

// IsBadRequest reports whether err was caused by the caller's input rather
// than by storage.
func IsBadRequest(err error) bool {
	return errors.Is(err, ErrMissingType) ||
		errors.Is(err, ErrNotDeleted) ||
		errors.Is(err, ErrInvalidType) ||
		errors.Is(err, ErrInvalidMoney) ||
		errors.Is(err, ErrBalanceOverflow)
}
