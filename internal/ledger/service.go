package ledger

import (
	"context"
	"fmt"

	"github.com/google/uuid"
)

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=ledger
type Repository interface {
	// GetEntry returns ErrNotFound when no row matches the key. Soft-deleted
	// rows are only considered when withDeleted is set.
	GetEntry(ctx context.Context, key Key, withDeleted bool) (*Entry, error)
	// LatestEntry returns nil without error when the user has no live entry
	// other than excludeID. Pass uuid.Nil to exclude nothing.
	LatestEntry(ctx context.Context, userID, excludeID uuid.UUID) (*Entry, error)
	CreateEntry(ctx context.Context, e *Entry) error
	UpdateEntry(ctx context.Context, e *Entry) error

	ListEntries(ctx context.Context, userID uuid.UUID) ([]*Entry, error)
	ListDeletedEntries(ctx context.Context, userID uuid.UUID) ([]*Entry, error)
	SoftDeleteEntry(ctx context.Context, key Key) error
	RestoreEntry(ctx context.Context, key Key) error
}

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

type CreateParams struct {
	Description string
	Money       int64
	Type        Type
}

// ModifyParams is a partial update. Nil fields keep their current value.
// Type is required.
type ModifyParams struct {
	Type        *Type
	Money       *int64
	Description *string
}

// Total is the outcome of applying an amount to the user's current balance.
type Total struct {
	NewTotal int64
	Signed   int64
	Type     Type
}

func (s *Service) Get(ctx context.Context, key Key) (*Entry, error) {
	return s.repo.GetEntry(ctx, key, false)
}

// Latest returns the user's most recently written live entry, or nil if
// there is none.
func (s *Service) Latest(ctx context.Context, userID uuid.UUID) (*Entry, error) {
	return s.repo.LatestEntry(ctx, userID, uuid.Nil)
}

// ComputeTotal returns the balance the user would have after applying money
// of the given type. It does not write anything.
func (s *Service) ComputeTotal(ctx context.Context, userID uuid.UUID, money int64, t Type) (Total, error) {
	return s.computeTotal(ctx, userID, uuid.Nil, money, t)
}

func (s *Service) computeTotal(ctx context.Context, userID, excludeID uuid.UUID, money int64, t Type) (Total, error) {
	signed := Signed(t, money)

	latest, err := s.repo.LatestEntry(ctx, userID, excludeID)
	if err != nil {
		return Total{}, fmt.Errorf("getting latest entry: %w", err)
	}

	if latest == nil {
		return Total{NewTotal: signed, Signed: signed, Type: t}, nil
	}

	total, ok := addTotal(latest.Total, signed)
	if !ok {
		return Total{}, fmt.Errorf("%w: %d%+d", ErrBalanceOverflow, latest.Total, signed)
	}

	return Total{NewTotal: total, Signed: signed, Type: t}, nil
}

// addTotal adds signed to total, reporting false when the sum leaves the
// int64 range.
func addTotal(total, signed int64) (int64, bool) {
	sum := total + signed
	if (signed > 0 && sum < total) || (signed < 0 && sum > total) {
		return 0, false
	}

	return sum, true
}

// Balance is the running total of the latest live entry, zero for a user
// with no entries.
func (s *Service) Balance(ctx context.Context, userID uuid.UUID) (int64, error) {
	latest, err := s.Latest(ctx, userID)
	if err != nil {
		return 0, err
	}

	if latest == nil {
		return 0, nil
	}

	return latest.Total, nil
}

func (s *Service) Create(ctx context.Context, userID uuid.UUID, params CreateParams) (*Entry, error) {
	if err := validate(params.Money, params.Type); err != nil {
		return nil, err
	}

	total, err := s.ComputeTotal(ctx, userID, params.Money, params.Type)
	if err != nil {
		return nil, err
	}

	e := &Entry{
		UserID:      userID,
		Description: params.Description,
		Money:       params.Money,
		Type:        params.Type,
		Total:       total.NewTotal,
	}
	if err := s.repo.CreateEntry(ctx, e); err != nil {
		return nil, err
	}

	return e, nil
}

// List returns the user's live entries, newest first.
func (s *Service) List(ctx context.Context, userID uuid.UUID) ([]*Entry, error) {
	entries, err := s.repo.ListEntries(ctx, userID)
	if err != nil {
		return nil, err
	}

	if entries == nil {
		entries = []*Entry{}
	}

	return entries, nil
}

// ListDeleted returns the user's soft-deleted entries, most recently deleted
// first.
func (s *Service) ListDeleted(ctx context.Context, userID uuid.UUID) ([]*Entry, error) {
	entries, err := s.repo.ListDeletedEntries(ctx, userID)
	if err != nil {
		return nil, err
	}

	if entries == nil {
		entries = []*Entry{}
	}

	return entries, nil
}

// Modify applies params over the stored entry and recomputes its total from
// the latest other live entry of the user.
func (s *Service) Modify(ctx context.Context, key Key, params ModifyParams) (*Entry, error) {
	if params.Type == nil {
		return nil, ErrMissingType
	}

	e, err := s.repo.GetEntry(ctx, key, false)
	if err != nil {
		return nil, err
	}

	e.Type = *params.Type
	if params.Money != nil {
		e.Money = *params.Money
	}

	if params.Description != nil {
		e.Description = *params.Description
	}

	if err := validate(e.Money, e.Type); err != nil {
		return nil, err
	}

	total, err := s.computeTotal(ctx, key.UserID, key.EntryID, e.Money, e.Type)
	if err != nil {
		return nil, err
	}

	e.Total = total.NewTotal

	if err := s.repo.UpdateEntry(ctx, e); err != nil {
		return nil, err
	}

	return s.repo.GetEntry(ctx, key, false)
}

func (s *Service) Delete(ctx context.Context, key Key) (uuid.UUID, error) {
	if _, err := s.repo.GetEntry(ctx, key, false); err != nil {
		return uuid.Nil, err
	}

	if err := s.repo.SoftDeleteEntry(ctx, key); err != nil {
		return uuid.Nil, err
	}

	return key.EntryID, nil
}

func (s *Service) Restore(ctx context.Context, key Key) (*Entry, error) {
	e, err := s.repo.GetEntry(ctx, key, true)
	if err != nil {
		return nil, err
	}

	if !e.Deleted() {
		return nil, ErrNotDeleted
	}

	if err := s.repo.RestoreEntry(ctx, key); err != nil {
		return nil, err
	}

	return s.repo.GetEntry(ctx, key, false)
}

func validate(money int64, t Type) error {
	if !t.Valid() {
		return fmt.Errorf("%w: %d", ErrInvalidType, int(t))
	}

	if money <= 0 {
		return ErrInvalidMoney
	}

	return nil
}
