package actions

import (
	"context"
	"errors"
	"log"
	"time"

	db "horizon-server/src/db/sql"
	"horizon-server/src/dwolla"
	"horizon-server/src/models"

	"golang.org/x/crypto/bcrypt"
)

// SignUp runs the account-creation chain: auth account, processor customer,
// profile document, session. Completed steps are reversed if a later one
// fails, so a processor failure does not leave a dangling identity.
func (s *Service) SignUp(ctx context.Context, req models.SignUpRequest) (*models.User, *models.Session, error) {
	const op = "sign-up"

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, nil, E(op, KindInternal, err)
	}

	comp := &compensator{}
	name := req.FirstName + " " + req.LastName

	accountID, err := s.store.CreateAuthAccount(ctx, req.Email, hash, name)
	if err != nil {
		if errors.Is(err, db.ErrDuplicate) {
			return nil, nil, E(op, KindConflict, errors.New("email already registered"))
		}
		return nil, nil, E(op, KindStore, err)
	}
	comp.add("delete auth account", func(ctx context.Context) error {
		return s.store.DeleteAuthAccount(ctx, accountID)
	})

	customerURL, err := s.processor.CreateCustomer(ctx, dwolla.CustomerParams{
		FirstName:   req.FirstName,
		LastName:    req.LastName,
		Email:       req.Email,
		Type:        "personal",
		Address1:    req.Address1,
		City:        req.City,
		State:       req.State,
		PostalCode:  req.PostalCode,
		DateOfBirth: req.DateOfBirth,
		SSN:         req.SSN,
	})
	if err != nil {
		e := E(op, KindProcessor, err)
		e.Compensation = comp.run(ctx)
		return nil, nil, e
	}
	comp.add("deactivate processor customer", func(ctx context.Context) error {
		return s.processor.DeactivateCustomer(ctx, customerURL)
	})

	user := &models.User{
		AccountID:         accountID,
		Email:             req.Email,
		FirstName:         req.FirstName,
		LastName:          req.LastName,
		Address1:          req.Address1,
		City:              req.City,
		State:             req.State,
		PostalCode:        req.PostalCode,
		DateOfBirth:       req.DateOfBirth,
		SSN:               req.SSN,
		DwollaCustomerID:  dwolla.CustomerIDFromURL(customerURL),
		DwollaCustomerURL: customerURL,
	}
	userID, err := s.store.CreateUser(ctx, user)
	if err != nil {
		e := E(op, KindStore, err)
		e.Compensation = comp.run(ctx)
		return nil, nil, e
	}
	user.ID = userID

	// The account is durable from here on. A session failure is reported but
	// not compensated; the user can sign in normally.
	session, err := s.store.CreateSession(ctx, accountID, time.Now().Add(s.sessionTTL))
	if err != nil {
		return nil, nil, E(op, KindStore, err)
	}

	log.Printf("INFO: sign-up complete for user %s", user.ID)
	return user, session, nil
}

func (s *Service) SignIn(ctx context.Context, email, password string) (*models.User, *models.Session, error) {
	const op = "sign-in"

	acct, err := s.store.GetAuthAccountByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return nil, nil, E(op, KindUnauthorized, errors.New("invalid credentials"))
		}
		return nil, nil, E(op, KindStore, err)
	}

	if err := bcrypt.CompareHashAndPassword(acct.PasswordHash, []byte(password)); err != nil {
		return nil, nil, E(op, KindUnauthorized, errors.New("invalid credentials"))
	}

	session, err := s.store.CreateSession(ctx, acct.ID, time.Now().Add(s.sessionTTL))
	if err != nil {
		return nil, nil, E(op, KindStore, err)
	}

	user, err := s.store.GetUserByAccountID(ctx, acct.ID)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return nil, nil, E(op, KindNotFound, errors.New("user profile missing"))
		}
		return nil, nil, E(op, KindStore, err)
	}

	return user, session, nil
}

// SignOut deletes the session exactly once. The caller clears the cookie
// regardless of the outcome.
func (s *Service) SignOut(ctx context.Context, sessionID string) error {
	if err := s.store.DeleteSession(ctx, sessionID); err != nil {
		return E("sign-out", KindStore, err)
	}
	return nil
}

// CurrentUser resolves a session id to its user, rejecting expired sessions.
func (s *Service) CurrentUser(ctx context.Context, sessionID string) (*models.User, *models.Session, error) {
	const op = "current-user"

	session, err := s.store.GetSession(ctx, sessionID)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return nil, nil, E(op, KindUnauthorized, errors.New("session not found"))
		}
		return nil, nil, E(op, KindStore, err)
	}
	if session.Expired(time.Now()) {
		if err := s.store.DeleteSession(ctx, session.ID); err != nil {
			log.Printf("ERROR: failed to delete expired session %s: %v", session.ID, err)
		}
		return nil, nil, E(op, KindUnauthorized, errors.New("session expired"))
	}

	user, err := s.store.GetUserByAccountID(ctx, session.AccountID)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return nil, nil, E(op, KindUnauthorized, errors.New("user profile missing"))
		}
		return nil, nil, E(op, KindStore, err)
	}
	return user, session, nil
}
