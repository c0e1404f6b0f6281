package actions

import (
	"context"
	"time"

	"horizon-server/src/crypt"
	"horizon-server/src/dwolla"
	"horizon-server/src/models"
)

// Store is the identity/persistence contract backing every action.
type Store interface {
	CreateAuthAccount(ctx context.Context, email string, passwordHash []byte, name string) (string, error)
	GetAuthAccountByEmail(ctx context.Context, email string) (*models.AuthAccount, error)
	DeleteAuthAccount(ctx context.Context, id string) error

	CreateSession(ctx context.Context, accountID string, expiresAt time.Time) (*models.Session, error)
	GetSession(ctx context.Context, id string) (*models.Session, error)
	DeleteSession(ctx context.Context, id string) error

	CreateUser(ctx context.Context, user *models.User) (string, error)
	GetUserByID(ctx context.Context, id string) (*models.User, error)
	GetUserByAccountID(ctx context.Context, accountID string) (*models.User, error)

	CreateBank(ctx context.Context, bank *models.Bank) (string, error)
	GetBanksByUserID(ctx context.Context, userID string) ([]models.Bank, error)
	GetBankByID(ctx context.Context, id string) (*models.Bank, error)
	GetBanksByAccountID(ctx context.Context, accountID string) ([]models.Bank, error)

	CreateTransaction(ctx context.Context, tx *models.Transaction) (string, error)
	ListTransactionsByBank(ctx context.Context, bankID string) ([]models.Transaction, error)
}

// Aggregator is the account-aggregation contract (Plaid in production).
type Aggregator interface {
	CreateLinkToken(ctx context.Context, clientUserID, name string) (string, error)
	ExchangePublicToken(ctx context.Context, publicToken string) (accessToken, itemID string, err error)
	GetAccounts(ctx context.Context, accessToken string) ([]models.LinkedAccount, error)
	CreateProcessorToken(ctx context.Context, accessToken, accountID string) (string, error)
}

// Processor is the payment-processor contract (Dwolla in production).
type Processor interface {
	CreateCustomer(ctx context.Context, params dwolla.CustomerParams) (string, error)
	DeactivateCustomer(ctx context.Context, customerURL string) error
	CreateFundingSource(ctx context.Context, customerURL, processorToken, name string) (string, error)
	RemoveFundingSource(ctx context.Context, fundingSourceURL string) error
	CreateTransfer(ctx context.Context, sourceURL, destinationURL, amount string) (string, error)
}

// Service orchestrates the store, the aggregator, and the processor into the
// user-facing operations.
type Service struct {
	store      Store
	aggregator Aggregator
	processor  Processor
	cipher     *crypt.Cipher
	sessionTTL time.Duration
}

func NewService(store Store, aggregator Aggregator, processor Processor, cipher *crypt.Cipher, sessionTTL time.Duration) *Service {
	return &Service{
		store:      store,
		aggregator: aggregator,
		processor:  processor,
		cipher:     cipher,
		sessionTTL: sessionTTL,
	}
}
