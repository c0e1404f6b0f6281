package actions

import (
	"context"
	"errors"
	"fmt"

	db "horizon-server/src/db/sql"
	"horizon-server/src/models"
)

func (s *Service) GetBanks(ctx context.Context, user *models.User) ([]models.Bank, error) {
	banks, err := s.store.GetBanksByUserID(ctx, user.ID)
	if err != nil {
		return nil, E("get-banks", KindStore, err)
	}
	return banks, nil
}

func (s *Service) GetBank(ctx context.Context, user *models.User, bankID string) (*models.Bank, error) {
	const op = "get-bank"

	bank, err := s.store.GetBankByID(ctx, bankID)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return nil, E(op, KindNotFound, errors.New("bank not found"))
		}
		return nil, E(op, KindStore, err)
	}
	if bank.UserID != user.ID {
		return nil, E(op, KindNotFound, errors.New("bank not found"))
	}
	return bank, nil
}

// GetBankByAccountID resolves an aggregator account id to its single bank
// record. Zero matches is not-found; more than one is reported as ambiguous
// rather than silently collapsed to not-found.
func (s *Service) GetBankByAccountID(ctx context.Context, accountID string) (*models.Bank, error) {
	const op = "get-bank-by-account-id"

	banks, err := s.store.GetBanksByAccountID(ctx, accountID)
	if err != nil {
		return nil, E(op, KindStore, err)
	}
	switch len(banks) {
	case 0:
		return nil, E(op, KindNotFound, errors.New("no bank matches account id"))
	case 1:
		return &banks[0], nil
	default:
		return nil, E(op, KindAmbiguous, fmt.Errorf("%d banks match account id", len(banks)))
	}
}

// GetAccounts joins each persisted bank with its live aggregator metadata.
func (s *Service) GetAccounts(ctx context.Context, user *models.User) ([]models.AccountView, error) {
	const op = "get-accounts"

	banks, err := s.store.GetBanksByUserID(ctx, user.ID)
	if err != nil {
		return nil, E(op, KindStore, err)
	}

	var views []models.AccountView
	for _, bank := range banks {
		accounts, err := s.aggregator.GetAccounts(ctx, bank.AccessToken)
		if err != nil {
			return nil, E(op, KindAggregator, err)
		}
		for _, account := range accounts {
			if account.AccountID != bank.AccountID {
				continue
			}
			views = append(views, models.AccountView{
				BankID:        bank.ID,
				ShareableID:   bank.ShareableID,
				LinkedAccount: account,
			})
		}
	}
	return views, nil
}

func (s *Service) ListBankTransactions(ctx context.Context, user *models.User, bankID string) ([]models.Transaction, error) {
	bank, err := s.GetBank(ctx, user, bankID)
	if err != nil {
		return nil, err
	}
	transactions, err := s.store.ListTransactionsByBank(ctx, bank.ID)
	if err != nil {
		return nil, E("list-bank-transactions", KindStore, err)
	}
	return transactions, nil
}
