package models

import "time"

// Transaction records a completed fund transfer. Rows are written only after
// the payment processor accepts the transfer and are never mutated.
type Transaction struct {
	ID             string    `json:"id"`
	Name           string    `json:"name"`
	Amount         string    `json:"amount"`
	SenderID       string    `json:"sender_id"`
	SenderBankID   string    `json:"sender_bank_id"`
	ReceiverID     string    `json:"receiver_id"`
	ReceiverBankID string    `json:"receiver_bank_id"`
	Email          string    `json:"email"`
	TransferURL    string    `json:"transfer_url"`
	CreatedAt      time.Time `json:"created_at"`
}
