package db

import (
	"context"
	"errors"
	"fmt"

	cache "horizon-server/src/db"
	"horizon-server/src/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

func (s *Store) CreateAuthAccount(ctx context.Context, email string, passwordHash []byte, name string) (string, error) {
	query := `
		INSERT INTO auth_accounts (email, name, password_hash)
		VALUES ($1, $2, $3)
		RETURNING id
	`
	var id string
	err := s.pool.QueryRow(ctx, query, email, name, passwordHash).Scan(&id)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return "", ErrDuplicate
		}
		return "", fmt.Errorf("create auth account: %w", err)
	}
	return id, nil
}

func (s *Store) GetAuthAccountByEmail(ctx context.Context, email string) (*models.AuthAccount, error) {
	var acct models.AuthAccount
	query := `
		SELECT id, email, name, password_hash, created_at
		FROM auth_accounts
		WHERE email = $1
	`
	err := s.pool.QueryRow(ctx, query, email).Scan(
		&acct.ID,
		&acct.Email,
		&acct.Name,
		&acct.PasswordHash,
		&acct.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("query auth account: %w", err)
	}
	return &acct, nil
}

func (s *Store) DeleteAuthAccount(ctx context.Context, id string) error {
	_, err := s.pool.Exec(ctx, `DELETE FROM auth_accounts WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete auth account: %w", err)
	}
	if cache.Cache != nil {
		cache.DelUserCache("user:" + id)
		// The delete cascades to the user's banks; their owner is unknown
		// here, so drop every cached bank listing.
		cache.ClearAllBankCaches()
	}
	return nil
}

func (s *Store) CreateUser(ctx context.Context, user *models.User) (string, error) {
	query := `
		INSERT INTO users (
			account_id, email, first_name, last_name, address1, city, state,
			postal_code, date_of_birth, ssn, dwolla_customer_id, dwolla_customer_url
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		RETURNING id
	`
	var id string
	err := s.pool.QueryRow(ctx, query,
		user.AccountID,
		user.Email,
		user.FirstName,
		user.LastName,
		user.Address1,
		user.City,
		user.State,
		user.PostalCode,
		user.DateOfBirth,
		user.SSN,
		user.DwollaCustomerID,
		user.DwollaCustomerURL,
	).Scan(&id)
	if err != nil {
		return "", fmt.Errorf("create user: %w", err)
	}
	if cache.Cache != nil {
		cache.DelUserCache("user:" + user.AccountID)
	}
	return id, nil
}

func (s *Store) GetUserByID(ctx context.Context, id string) (*models.User, error) {
	return s.getUser(ctx, `WHERE id = $1`, id)
}

// GetUserByAccountID is hit on every authenticated request, so results are
// cached until the account changes.
func (s *Store) GetUserByAccountID(ctx context.Context, accountID string) (*models.User, error) {
	cacheKey := "user:" + accountID
	if cache.Cache != nil {
		if cached, found := cache.Cache.Get(cacheKey); found {
			if user, ok := cached.(*models.User); ok {
				return user, nil
			}
		}
	}

	user, err := s.getUser(ctx, `WHERE account_id = $1`, accountID)
	if err != nil {
		return nil, err
	}
	if cache.Cache != nil {
		cache.SetUserCache(cacheKey, user)
	}
	return user, nil
}

func (s *Store) getUser(ctx context.Context, where string, arg any) (*models.User, error) {
	var user models.User
	query := `
		SELECT id, account_id, email, first_name, last_name, address1, city, state,
			postal_code, date_of_birth, ssn, dwolla_customer_id, dwolla_customer_url, created_at
		FROM users
	` + where
	err := s.pool.QueryRow(ctx, query, arg).Scan(
		&user.ID,
		&user.AccountID,
		&user.Email,
		&user.FirstName,
		&user.LastName,
		&user.Address1,
		&user.City,
		&user.State,
		&user.PostalCode,
		&user.DateOfBirth,
		&user.SSN,
		&user.DwollaCustomerID,
		&user.DwollaCustomerURL,
		&user.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("query user: %w", err)
	}
	return &user, nil
}
