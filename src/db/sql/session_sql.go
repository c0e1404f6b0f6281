package db

import (
	"context"
	"errors"
	"fmt"
	"time"

	"horizon-server/src/models"

	"github.com/jackc/pgx/v5"
)

func (s *Store) CreateSession(ctx context.Context, accountID string, expiresAt time.Time) (*models.Session, error) {
	var session models.Session
	query := `
		INSERT INTO sessions (account_id, expires_at)
		VALUES ($1, $2)
		RETURNING id, account_id, expires_at, created_at
	`
	err := s.pool.QueryRow(ctx, query, accountID, expiresAt).Scan(
		&session.ID,
		&session.AccountID,
		&session.ExpiresAt,
		&session.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("create session: %w", err)
	}
	return &session, nil
}

func (s *Store) GetSession(ctx context.Context, id string) (*models.Session, error) {
	var session models.Session
	query := `
		SELECT id, account_id, expires_at, created_at
		FROM sessions
		WHERE id = $1
	`
	err := s.pool.QueryRow(ctx, query, id).Scan(
		&session.ID,
		&session.AccountID,
		&session.ExpiresAt,
		&session.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("query session: %w", err)
	}
	return &session, nil
}

func (s *Store) DeleteSession(ctx context.Context, id string) error {
	_, err := s.pool.Exec(ctx, `DELETE FROM sessions WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}
