package models

import "time"

// Bank ties a user to one linked account: the aggregator item and account
// ids, the access token, the processor funding-source URL, and the encrypted
// shareable id handed out to receive transfers.
type Bank struct {
	ID               string    `json:"id"`
	UserID           string    `json:"user_id"`
	ItemID           string    `json:"item_id"`
	AccountID        string    `json:"account_id"`
	AccessToken      string    `json:"-"`
	FundingSourceURL string    `json:"-"`
	ShareableID      string    `json:"shareable_id"`
	CreatedAt        time.Time `json:"created_at"`
}

// LinkedAccount is account metadata as reported by the aggregator.
type LinkedAccount struct {
	AccountID        string  `json:"account_id"`
	Name             string  `json:"name"`
	OfficialName     string  `json:"official_name"`
	Mask             string  `json:"mask"`
	Type             string  `json:"type"`
	Subtype          string  `json:"subtype"`
	CurrentBalance   float64 `json:"current_balance"`
	AvailableBalance float64 `json:"available_balance"`
}

// AccountView joins a persisted bank with its live aggregator metadata for
// the dashboard and my-banks listings.
type AccountView struct {
	BankID      string `json:"bank_id"`
	ShareableID string `json:"shareable_id"`
	LinkedAccount
}
