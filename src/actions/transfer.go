package actions

import (
	"context"
	"errors"
	"fmt"
	"log"

	db "horizon-server/src/db/sql"
	"horizon-server/src/models"
	"horizon-server/src/util"
)

// CreateTransfer moves funds between two linked banks and records the
// transaction. The record is written only after the processor accepts the
// transfer; a processor failure writes nothing.
func (s *Service) CreateTransfer(ctx context.Context, user *models.User, req models.TransferRequest) (*models.Transaction, error) {
	const op = "create-transfer"

	amount, err := util.NormalizeAmount(req.Amount)
	if err != nil {
		return nil, E(op, KindInvalidInput, err)
	}

	receiverAccountID, err := s.cipher.Decrypt(req.SharableID)
	if err != nil {
		return nil, E(op, KindInvalidInput, err)
	}

	receiver, err := s.GetBankByAccountID(ctx, receiverAccountID)
	if err != nil {
		return nil, err
	}

	sender, err := s.store.GetBankByID(ctx, req.SenderBank)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return nil, E(op, KindNotFound, errors.New("sender bank not found"))
		}
		return nil, E(op, KindStore, err)
	}
	if sender.UserID != user.ID {
		return nil, E(op, KindUnauthorized, errors.New("sender bank does not belong to user"))
	}

	transferURL, err := s.processor.CreateTransfer(ctx, sender.FundingSourceURL, receiver.FundingSourceURL, amount)
	if err != nil {
		return nil, E(op, KindProcessor, err)
	}

	tx := &models.Transaction{
		Name:           req.Name,
		Amount:         amount,
		SenderID:       sender.UserID,
		SenderBankID:   sender.ID,
		ReceiverID:     receiver.UserID,
		ReceiverBankID: receiver.ID,
		Email:          req.Email,
		TransferURL:    transferURL,
	}
	txID, err := s.store.CreateTransaction(ctx, tx)
	if err != nil {
		// Money has moved; only the record is missing. Surface that instead
		// of pretending the transfer failed.
		return nil, E(op, KindStore, fmt.Errorf("transfer %s completed but record not persisted: %w", transferURL, err))
	}
	tx.ID = txID

	log.Printf("INFO: transfer %s recorded (%s from bank %s to bank %s)", tx.ID, amount, sender.ID, receiver.ID)
	return tx, nil
}
