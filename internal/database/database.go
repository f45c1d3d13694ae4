package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
)

// Pool sizes the connection pool. Zero values keep the database/sql defaults.
type Pool struct {
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

// New opens the pgx-backed pool and checks it with a ping bounded by ctx.
func New(ctx context.Context, connStr string, pool Pool) (*sql.DB, error) {
	db, err := open(connStr, pool)
	if err != nil {
		return nil, err
	}

	if err := db.PingContext(ctx); err != nil {
		return nil, errors.Join(fmt.Errorf("pinging database: %w", err), db.Close())
	}

	return db, nil
}

func open(connStr string, pool Pool) (*sql.DB, error) {
	db, err := sql.Open("pgx", connStr)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	db.SetMaxOpenConns(pool.MaxOpenConns)
	db.SetMaxIdleConns(pool.MaxIdleConns)
	db.SetConnMaxLifetime(pool.ConnMaxLifetime)

	return db, nil
}
