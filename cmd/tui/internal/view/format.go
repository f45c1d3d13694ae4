package view

import (
	"context"
	"errors"
	"math"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

const dbTimeout = 5 * time.Second

var (
	errAmountNotPositive = errors.New("amount must be greater than zero")
	errAmountTooPrecise  = errors.New("amount has more than two decimal places")
	errAmountTooLarge    = errors.New("amount is too large")
)

var maxCents = decimal.NewFromInt(math.MaxInt64)

// FormatAmount formats an amount stored as cents into a human-readable string.
func FormatAmount(cents int64) string {
	return decimal.New(cents, -2).StringFixed(2)
}

// ParseAmount turns user input such as "12.5" into cents.
func ParseAmount(s string) (int64, error) {
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return 0, err
	}

	if !d.IsPositive() {
		return 0, errAmountNotPositive
	}

	cents := d.Shift(2)
	if !cents.IsInteger() {
		return 0, errAmountTooPrecise
	}

	if cents.GreaterThan(maxCents) {
		return 0, errAmountTooLarge
	}

	return cents.IntPart(), nil
}

// FormatDate formats a time.Time into YYYY-MM-DD HH:MM.
func FormatDate(t time.Time) string {
	return t.Local().Format("2006-01-02 15:04")
}

// DbCtx returns a context with a standard timeout for database operations.
func DbCtx() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), dbTimeout)
}
