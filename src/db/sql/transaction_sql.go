package db

import (
	"context"
	"fmt"

	"horizon-server/src/models"
)

func (s *Store) CreateTransaction(ctx context.Context, tx *models.Transaction) (string, error) {
	query := `
		INSERT INTO transactions (name, amount, sender_id, sender_bank_id, receiver_id, receiver_bank_id, email, transfer_url)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id
	`
	var id string
	err := s.pool.QueryRow(ctx, query,
		tx.Name,
		tx.Amount,
		tx.SenderID,
		tx.SenderBankID,
		tx.ReceiverID,
		tx.ReceiverBankID,
		tx.Email,
		tx.TransferURL,
	).Scan(&id)
	if err != nil {
		return "", fmt.Errorf("create transaction: %w", err)
	}
	return id, nil
}

func (s *Store) ListTransactionsByBank(ctx context.Context, bankID string) ([]models.Transaction, error) {
	query := `
		SELECT id, name, amount, sender_id, sender_bank_id, receiver_id, receiver_bank_id, email, transfer_url, created_at
		FROM transactions
		WHERE sender_bank_id = $1 OR receiver_bank_id = $1
		ORDER BY created_at DESC
	`
	rows, err := s.pool.Query(ctx, query, bankID)
	if err != nil {
		return nil, fmt.Errorf("query transactions: %w", err)
	}
	defer rows.Close()

	var transactions []models.Transaction
	for rows.Next() {
		var tx models.Transaction
		if err := rows.Scan(
			&tx.ID,
			&tx.Name,
			&tx.Amount,
			&tx.SenderID,
			&tx.SenderBankID,
			&tx.ReceiverID,
			&tx.ReceiverBankID,
			&tx.Email,
			&tx.TransferURL,
			&tx.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan transaction: %w", err)
		}
		transactions = append(transactions, tx)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("read transactions: %w", err)
	}
	return transactions, nil
}
