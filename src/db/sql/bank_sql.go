package db

import (
	"context"
	"errors"
	"fmt"

	cache "horizon-server/src/db"
	"horizon-server/src/models"

	"github.com/jackc/pgx/v5"
)

func (s *Store) CreateBank(ctx context.Context, bank *models.Bank) (string, error) {
	query := `
		INSERT INTO banks (user_id, item_id, account_id, access_token, funding_source_url, shareable_id)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id
	`
	var id string
	err := s.pool.QueryRow(ctx, query,
		bank.UserID,
		bank.ItemID,
		bank.AccountID,
		bank.AccessToken,
		bank.FundingSourceURL,
		bank.ShareableID,
	).Scan(&id)
	if err != nil {
		return "", fmt.Errorf("create bank: %w", err)
	}
	if cache.Cache != nil {
		cache.DelBankCache("banks:" + bank.UserID)
	}
	return id, nil
}

func (s *Store) GetBanksByUserID(ctx context.Context, userID string) ([]models.Bank, error) {
	cacheKey := "banks:" + userID
	if cache.Cache != nil {
		if cached, found := cache.Cache.Get(cacheKey); found {
			if banks, ok := cached.([]models.Bank); ok {
				return banks, nil
			}
		}
	}

	query := `
		SELECT id, user_id, item_id, account_id, access_token, funding_source_url, shareable_id, created_at
		FROM banks
		WHERE user_id = $1
		ORDER BY created_at
	`
	rows, err := s.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("query banks: %w", err)
	}
	defer rows.Close()

	var banks []models.Bank
	for rows.Next() {
		var bank models.Bank
		if err := rows.Scan(
			&bank.ID,
			&bank.UserID,
			&bank.ItemID,
			&bank.AccountID,
			&bank.AccessToken,
			&bank.FundingSourceURL,
			&bank.ShareableID,
			&bank.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan bank: %w", err)
		}
		banks = append(banks, bank)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("read banks: %w", err)
	}

	if cache.Cache != nil {
		cache.SetBankCache(cacheKey, banks)
	}
	return banks, nil
}

func (s *Store) GetBankByID(ctx context.Context, id string) (*models.Bank, error) {
	var bank models.Bank
	query := `
		SELECT id, user_id, item_id, account_id, access_token, funding_source_url, shareable_id, created_at
		FROM banks
		WHERE id = $1
	`
	err := s.pool.QueryRow(ctx, query, id).Scan(
		&bank.ID,
		&bank.UserID,
		&bank.ItemID,
		&bank.AccountID,
		&bank.AccessToken,
		&bank.FundingSourceURL,
		&bank.ShareableID,
		&bank.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("query bank: %w", err)
	}
	return &bank, nil
}

// GetBanksByAccountID returns every bank row matching an aggregator account
// id. The exactly-one rule lives with the caller.
func (s *Store) GetBanksByAccountID(ctx context.Context, accountID string) ([]models.Bank, error) {
	query := `
		SELECT id, user_id, item_id, account_id, access_token, funding_source_url, shareable_id, created_at
		FROM banks
		WHERE account_id = $1
	`
	rows, err := s.pool.Query(ctx, query, accountID)
	if err != nil {
		return nil, fmt.Errorf("query banks by account id: %w", err)
	}
	defer rows.Close()

	var banks []models.Bank
	for rows.Next() {
		var bank models.Bank
		if err := rows.Scan(
			&bank.ID,
			&bank.UserID,
			&bank.ItemID,
			&bank.AccountID,
			&bank.AccessToken,
			&bank.FundingSourceURL,
			&bank.ShareableID,
			&bank.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan bank: %w", err)
		}
		banks = append(banks, bank)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("read banks: %w", err)
	}
	return banks, nil
}
