package actions

import (
	"context"
	"errors"
	"log"

	"horizon-server/src/models"
)

var errNoLinkableAccounts = errors.New("aggregator returned no linkable accounts")

func (s *Service) CreateLinkToken(ctx context.Context, user *models.User) (string, error) {
	token, err := s.aggregator.CreateLinkToken(ctx, user.ID, user.FirstName+" "+user.LastName)
	if err != nil {
		return "", E("create-link-token", KindAggregator, err)
	}
	return token, nil
}

// ExchangePublicToken completes an account link: exchange the public token,
// pick the account to fund transfers from, mint a processor token, attach the
// funding source, and persist the bank record. A persistence failure removes
// the funding source again; the access token itself cannot be revoked here
// and is reported through the error.
func (s *Service) ExchangePublicToken(ctx context.Context, user *models.User, publicToken string) (*models.Bank, error) {
	const op = "exchange-public-token"

	accessToken, itemID, err := s.aggregator.ExchangePublicToken(ctx, publicToken)
	if err != nil {
		return nil, E(op, KindAggregator, err)
	}

	accounts, err := s.aggregator.GetAccounts(ctx, accessToken)
	if err != nil {
		return nil, E(op, KindAggregator, err)
	}

	account, err := selectLinkableAccount(accounts)
	if err != nil {
		return nil, E(op, KindNotFound, err)
	}

	processorToken, err := s.aggregator.CreateProcessorToken(ctx, accessToken, account.AccountID)
	if err != nil {
		return nil, E(op, KindAggregator, err)
	}

	comp := &compensator{}
	fundingSourceURL, err := s.processor.CreateFundingSource(ctx, user.DwollaCustomerURL, processorToken, account.Name)
	if err != nil {
		return nil, E(op, KindProcessor, err)
	}
	comp.add("remove funding source", func(ctx context.Context) error {
		return s.processor.RemoveFundingSource(ctx, fundingSourceURL)
	})

	shareableID, err := s.cipher.Encrypt(account.AccountID)
	if err != nil {
		e := E(op, KindInternal, err)
		e.Compensation = comp.run(ctx)
		return nil, e
	}

	bank := &models.Bank{
		UserID:           user.ID,
		ItemID:           itemID,
		AccountID:        account.AccountID,
		AccessToken:      accessToken,
		FundingSourceURL: fundingSourceURL,
		ShareableID:      shareableID,
	}
	bankID, err := s.store.CreateBank(ctx, bank)
	if err != nil {
		e := E(op, KindStore, err)
		e.Compensation = comp.run(ctx)
		return nil, e
	}
	bank.ID = bankID

	log.Printf("INFO: linked bank %s (item %s) for user %s", bank.ID, itemID, user.ID)
	return bank, nil
}

// selectLinkableAccount picks the account used as the funding source: the
// first depository checking account, falling back to the first account. An
// empty list is a defined failure, not an index error.
func selectLinkableAccount(accounts []models.LinkedAccount) (models.LinkedAccount, error) {
	if len(accounts) == 0 {
		return models.LinkedAccount{}, errNoLinkableAccounts
	}
	for _, a := range accounts {
		if a.Type == "depository" && a.Subtype == "checking" {
			return a, nil
		}
	}
	return accounts[0], nil
}
