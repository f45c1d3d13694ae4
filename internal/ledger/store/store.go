package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/moneybook/internal/ledger"
)

type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

// scanner is satisfied by both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

// scanEntry reads a ledger row from the scanner.
// Expected column order: id, user_id, description, money, type, total, created_at, updated_at, deleted_at
func scanEntry(s scanner) (*ledger.Entry, error) {
	var e ledger.Entry

	var typeStr string

	if err := s.Scan(
		&e.ID, &e.UserID, &e.Description, &e.Money, &typeStr, &e.Total,
		&e.CreatedAt, &e.UpdatedAt, &e.DeletedAt,
	); err != nil {
		return nil, err
	}

	t, err := ledger.ParseType(typeStr)
	if err != nil {
		return nil, err
	}

	e.Type = t

	return &e, nil
}

const selectEntryColumns = `
	id, user_id, description, money, type, total, created_at, updated_at, deleted_at
`

func (s *Store) GetEntry(ctx context.Context, key ledger.Key, withDeleted bool) (*ledger.Entry, error) {
	query := `SELECT ` + selectEntryColumns + `
		FROM ledger_entries
		WHERE id = $1 AND user_id = $2`

	if !withDeleted {
		query += ` AND deleted_at IS NULL`
	}

	e, err := scanEntry(s.db.QueryRowContext(ctx, query, key.EntryID, key.UserID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ledger.ErrNotFound
		}

		return nil, fmt.Errorf("getting entry: %w", err)
	}

	return e, nil
}

func (s *Store) LatestEntry(ctx context.Context, userID, excludeID uuid.UUID) (*ledger.Entry, error) {
	query := `SELECT ` + selectEntryColumns + `
		FROM ledger_entries
		WHERE user_id = $1 AND id <> $2 AND deleted_at IS NULL
		ORDER BY updated_at DESC, created_at DESC
		LIMIT 1`

	e, err := scanEntry(s.db.QueryRowContext(ctx, query, userID, excludeID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}

		return nil, fmt.Errorf("getting latest entry: %w", err)
	}

	return e, nil
}

func (s *Store) CreateEntry(ctx context.Context, e *ledger.Entry) error {
	query := `
		INSERT INTO ledger_entries (user_id, description, money, type, total, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, NOW(), NOW())
		RETURNING id, created_at, updated_at
	`

	err := s.db.QueryRowContext(ctx, query,
		e.UserID,
		e.Description,
		e.Money,
		e.Type.String(),
		e.Total,
	).Scan(&e.ID, &e.CreatedAt, &e.UpdatedAt)
	if err != nil {
		return fmt.Errorf("creating entry: %w", err)
	}

	return nil
}

func (s *Store) UpdateEntry(ctx context.Context, e *ledger.Entry) error {
	query := `
		UPDATE ledger_entries
		SET money = $1, description = $2, type = $3, total = $4, updated_at = NOW()
		WHERE id = $5 AND user_id = $6 AND deleted_at IS NULL
	`

	res, err := s.db.ExecContext(ctx, query,
		e.Money,
		e.Description,
		e.Type.String(),
		e.Total,
		e.ID,
		e.UserID,
	)
	if err != nil {
		return fmt.Errorf("updating entry: %w", err)
	}

	return requireAffected(res)
}

func (s *Store) ListEntries(ctx context.Context, userID uuid.UUID) ([]*ledger.Entry, error) {
	query := `SELECT ` + selectEntryColumns + `
		FROM ledger_entries
		WHERE user_id = $1 AND deleted_at IS NULL
		ORDER BY created_at DESC`

	return s.list(ctx, query, userID)
}

func (s *Store) ListDeletedEntries(ctx context.Context, userID uuid.UUID) ([]*ledger.Entry, error) {
	query := `SELECT ` + selectEntryColumns + `
		FROM ledger_entries
		WHERE user_id = $1 AND deleted_at IS NOT NULL
		ORDER BY deleted_at DESC`

	return s.list(ctx, query, userID)
}

func (s *Store) list(ctx context.Context, query string, args ...any) ([]*ledger.Entry, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing entries: %w", err)
	}
	defer rows.Close()

	var entries []*ledger.Entry

	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning entry: %w", err)
		}

		entries = append(entries, e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating entry rows: %w", err)
	}

	return entries, nil
}

func (s *Store) SoftDeleteEntry(ctx context.Context, key ledger.Key) error {
	query := `
		UPDATE ledger_entries
		SET deleted_at = NOW()
		WHERE id = $1 AND user_id = $2 AND deleted_at IS NULL
	`

	res, err := s.db.ExecContext(ctx, query, key.EntryID, key.UserID)
	if err != nil {
		return fmt.Errorf("deleting entry: %w", err)
	}

	return requireAffected(res)
}

// RestoreEntry also bumps updated_at, so a restored entry counts as the
// user's most recent write.
func (s *Store) RestoreEntry(ctx context.Context, key ledger.Key) error {
	query := `
		UPDATE ledger_entries
		SET deleted_at = NULL, updated_at = NOW()
		WHERE id = $1 AND user_id = $2 AND deleted_at IS NOT NULL
	`

	res, err := s.db.ExecContext(ctx, query, key.EntryID, key.UserID)
	if err != nil {
		return fmt.Errorf("restoring entry: %w", err)
	}

	return requireAffected(res)
}

func requireAffected(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("reading affected rows: %w", err)
	}

	if n == 0 {
		return ledger.ErrNotFound
	}

	return nil
}
