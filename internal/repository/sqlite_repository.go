package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

type sqliteRepository struct {
	db *sql.DB
}

func NewSQLiteRepository(db *sql.DB) SecretRepository {
	return &sqliteRepository{db: db}
}

func (r *sqliteRepository) Get(ctx context.Context, name string) ([]byte, error) {
	query := "SELECT value FROM credentials WHERE name = ?"
	var value []byte
	err := r.db.QueryRowContext(ctx, query, name).Scan(&value)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("could not read credential: %w", err)
	}
	return value, nil
}

func (r *sqliteRepository) Put(ctx context.Context, name string, value []byte) error {
	query := `
		INSERT INTO credentials (name, value, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(name) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at
	`
	if _, err := r.db.ExecContext(ctx, query, name, value, time.Now().UTC()); err != nil {
		return fmt.Errorf("could not write credential: %w", err)
	}
	return nil
}

func (r *sqliteRepository) Delete(ctx context.Context, name string) error {
	query := "DELETE FROM credentials WHERE name = ?"
	if _, err := r.db.ExecContext(ctx, query, name); err != nil {
		return fmt.Errorf("could not delete credential: %w", err)
	}
	return nil
}

func (r *sqliteRepository) DeleteAll(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, "DELETE FROM credentials"); err != nil {
		return fmt.Errorf("could not delete credentials: %w", err)
	}
	return nil
}
