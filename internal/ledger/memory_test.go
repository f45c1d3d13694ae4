package ledger_test

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/moneybook/internal/ledger"
)

// memRepo is an in-memory Repository with a logical clock so that ordering
// by timestamps is deterministic.
type memRepo struct {
	clock   time.Time
	entries map[uuid.UUID]*ledger.Entry
}

func newMemRepo() *memRepo {
	return &memRepo{
		clock:   time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		entries: make(map[uuid.UUID]*ledger.Entry),
	}
}

func (r *memRepo) tick() time.Time {
	r.clock = r.clock.Add(time.Second)
	return r.clock
}

func (r *memRepo) find(key ledger.Key, withDeleted bool) *ledger.Entry {
	e, ok := r.entries[key.EntryID]
	if !ok || e.UserID != key.UserID {
		return nil
	}

	if e.Deleted() && !withDeleted {
		return nil
	}

	return e
}

func (r *memRepo) GetEntry(_ context.Context, key ledger.Key, withDeleted bool) (*ledger.Entry, error) {
	e := r.find(key, withDeleted)
	if e == nil {
		return nil, ledger.ErrNotFound
	}

	cp := *e

	return &cp, nil
}

func (r *memRepo) LatestEntry(_ context.Context, userID, excludeID uuid.UUID) (*ledger.Entry, error) {
	var latest *ledger.Entry

	for _, e := range r.entries {
		if e.UserID != userID || e.ID == excludeID || e.Deleted() {
			continue
		}

		if latest == nil ||
			e.UpdatedAt.After(latest.UpdatedAt) ||
			(e.UpdatedAt.Equal(latest.UpdatedAt) && e.CreatedAt.After(latest.CreatedAt)) {
			latest = e
		}
	}

	if latest == nil {
		return nil, nil
	}

	cp := *latest

	return &cp, nil
}

func (r *memRepo) CreateEntry(_ context.Context, e *ledger.Entry) error {
	now := r.tick()
	e.ID = uuid.New()
	e.CreatedAt = now
	e.UpdatedAt = now

	cp := *e
	r.entries[e.ID] = &cp

	return nil
}

func (r *memRepo) UpdateEntry(_ context.Context, e *ledger.Entry) error {
	stored := r.find(ledger.Key{UserID: e.UserID, EntryID: e.ID}, false)
	if stored == nil {
		return ledger.ErrNotFound
	}

	stored.Money = e.Money
	stored.Description = e.Description
	stored.Type = e.Type
	stored.Total = e.Total
	stored.UpdatedAt = r.tick()

	return nil
}

func (r *memRepo) ListEntries(_ context.Context, userID uuid.UUID) ([]*ledger.Entry, error) {
	var out []*ledger.Entry

	for _, e := range r.entries {
		if e.UserID == userID && !e.Deleted() {
			cp := *e
			out = append(out, &cp)
		}
	}

	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })

	return out, nil
}

func (r *memRepo) ListDeletedEntries(_ context.Context, userID uuid.UUID) ([]*ledger.Entry, error) {
	var out []*ledger.Entry

	for _, e := range r.entries {
		if e.UserID == userID && e.Deleted() {
			cp := *e
			out = append(out, &cp)
		}
	}

	sort.Slice(out, func(i, j int) bool { return out[i].DeletedAt.After(*out[j].DeletedAt) })

	return out, nil
}

func (r *memRepo) SoftDeleteEntry(_ context.Context, key ledger.Key) error {
	e := r.find(key, false)
	if e == nil {
		return ledger.ErrNotFound
	}

	now := r.tick()
	e.DeletedAt = &now

	return nil
}

func (r *memRepo) RestoreEntry(_ context.Context, key ledger.Key) error {
	e := r.find(key, true)
	if e == nil || !e.Deleted() {
		return ledger.ErrNotFound
	}

	e.DeletedAt = nil
	e.UpdatedAt = r.tick()

	return nil
}
