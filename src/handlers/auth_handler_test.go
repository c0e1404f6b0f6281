package handlers_test

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"horizon-server/src/actions"
	"horizon-server/src/api"
	"horizon-server/src/crypt"
	db "horizon-server/src/db/sql"
	"horizon-server/src/dwolla"
	"horizon-server/src/middleware"
	"horizon-server/src/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

type stubStore struct {
	authAccounts map[string]*models.AuthAccount
	users        map[string]*models.User
	sessions     map[string]*models.Session

	failCreateSession  bool
	failDeleteSession  bool
	deleteSessionCalls int
	nextID             int
}

func (s *stubStore) CreateAuthAccount(ctx context.Context, email string, passwordHash []byte, name string) (string, error) {
	return "", errors.New("not used")
}

func (s *stubStore) GetAuthAccountByEmail(ctx context.Context, email string) (*models.AuthAccount, error) {
	acct, ok := s.authAccounts[email]
	if !ok {
		return nil, db.ErrNotFound
	}
	return acct, nil
}

func (s *stubStore) DeleteAuthAccount(ctx context.Context, id string) error { return nil }

func (s *stubStore) CreateSession(ctx context.Context, accountID string, expiresAt time.Time) (*models.Session, error) {
	if s.failCreateSession {
		return nil, errors.New("session insert failed")
	}
	s.nextID++
	session := &models.Session{ID: fmt.Sprintf("sess-%d", s.nextID), AccountID: accountID, ExpiresAt: expiresAt}
	s.sessions[session.ID] = session
	return session, nil
}

func (s *stubStore) GetSession(ctx context.Context, id string) (*models.Session, error) {
	session, ok := s.sessions[id]
	if !ok {
		return nil, db.ErrNotFound
	}
	return session, nil
}

func (s *stubStore) DeleteSession(ctx context.Context, id string) error {
	s.deleteSessionCalls++
	if s.failDeleteSession {
		return errors.New("session delete failed")
	}
	delete(s.sessions, id)
	return nil
}

func (s *stubStore) CreateUser(ctx context.Context, user *models.User) (string, error) {
	return "", errors.New("not used")
}

func (s *stubStore) GetUserByID(ctx context.Context, id string) (*models.User, error) {
	return nil, db.ErrNotFound
}

func (s *stubStore) GetUserByAccountID(ctx context.Context, accountID string) (*models.User, error) {
	user, ok := s.users[accountID]
	if !ok {
		return nil, db.ErrNotFound
	}
	return user, nil
}

func (s *stubStore) CreateBank(ctx context.Context, bank *models.Bank) (string, error) {
	return "", errors.New("not used")
}

func (s *stubStore) GetBanksByUserID(ctx context.Context, userID string) ([]models.Bank, error) {
	return nil, nil
}

func (s *stubStore) GetBankByID(ctx context.Context, id string) (*models.Bank, error) {
	return nil, db.ErrNotFound
}

func (s *stubStore) GetBanksByAccountID(ctx context.Context, accountID string) ([]models.Bank, error) {
	return nil, nil
}

func (s *stubStore) CreateTransaction(ctx context.Context, tx *models.Transaction) (string, error) {
	return "", errors.New("not used")
}

func (s *stubStore) ListTransactionsByBank(ctx context.Context, bankID string) ([]models.Transaction, error) {
	return nil, nil
}

type stubAggregator struct{}

func (stubAggregator) CreateLinkToken(ctx context.Context, clientUserID, name string) (string, error) {
	return "", errors.New("not used")
}

func (stubAggregator) ExchangePublicToken(ctx context.Context, publicToken string) (string, string, error) {
	return "", "", errors.New("not used")
}

func (stubAggregator) GetAccounts(ctx context.Context, accessToken string) ([]models.LinkedAccount, error) {
	return nil, errors.New("not used")
}

func (stubAggregator) CreateProcessorToken(ctx context.Context, accessToken, accountID string) (string, error) {
	return "", errors.New("not used")
}

type stubProcessor struct{}

func (stubProcessor) CreateCustomer(ctx context.Context, params dwolla.CustomerParams) (string, error) {
	return "", errors.New("not used")
}

func (stubProcessor) DeactivateCustomer(ctx context.Context, customerURL string) error {
	return errors.New("not used")
}

func (stubProcessor) CreateFundingSource(ctx context.Context, customerURL, processorToken, name string) (string, error) {
	return "", errors.New("not used")
}

func (stubProcessor) RemoveFundingSource(ctx context.Context, fundingSourceURL string) error {
	return errors.New("not used")
}

func (stubProcessor) CreateTransfer(ctx context.Context, sourceURL, destinationURL, amount string) (string, error) {
	return "", errors.New("not used")
}

func newAuthEnv(t *testing.T) (http.Handler, *stubStore) {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte("Secret123"), bcrypt.MinCost)
	require.NoError(t, err)

	store := &stubStore{
		authAccounts: map[string]*models.AuthAccount{
			"a@b.com": {ID: "acct-1", Email: "a@b.com", Name: "Ada Lovelace", PasswordHash: hash},
		},
		users: map[string]*models.User{
			"acct-1": {ID: "user-1", AccountID: "acct-1", Email: "a@b.com", FirstName: "Ada", LastName: "Lovelace"},
		},
		sessions: make(map[string]*models.Session),
	}

	cipher, err := crypt.NewCipher(strings.Repeat("ab", 32))
	require.NoError(t, err)

	svc := actions.NewService(store, stubAggregator{}, stubProcessor{}, cipher, time.Hour)
	router := api.NewRouter(svc, []byte("test-secret"), "http://localhost:3000")
	return router, store
}

func sessionCookie(resp *http.Response) *http.Cookie {
	for _, c := range resp.Cookies() {
		if c.Name == middleware.SessionCookieName {
			return c
		}
	}
	return nil
}

func signIn(t *testing.T, router http.Handler, email, password string) *httptest.ResponseRecorder {
	t.Helper()
	body := fmt.Sprintf(`{"email":%q,"password":%q}`, email, password)
	req := httptest.NewRequest(http.MethodPost, "/api/sign-in", strings.NewReader(body))
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	return rr
}

func TestSignIn_SetsSessionCookie(t *testing.T) {
	router, _ := newAuthEnv(t)

	rr := signIn(t, router, "a@b.com", "Secret123")
	require.Equal(t, http.StatusOK, rr.Code)

	cookie := sessionCookie(rr.Result())
	require.NotNil(t, cookie, "session cookie set on successful sign-in")
	assert.NotEmpty(t, cookie.Value)
	assert.True(t, cookie.HttpOnly)
	assert.Equal(t, "/", cookie.Path)
}

func TestSignIn_NoCookieOnWrongPassword(t *testing.T) {
	router, _ := newAuthEnv(t)

	rr := signIn(t, router, "a@b.com", "wrong-password")
	require.Equal(t, http.StatusUnauthorized, rr.Code)
	assert.Nil(t, sessionCookie(rr.Result()), "no session cookie without a session")
}

func TestSignIn_NoCookieWhenSessionCreationFails(t *testing.T) {
	router, store := newAuthEnv(t)
	store.failCreateSession = true

	rr := signIn(t, router, "a@b.com", "Secret123")
	require.Equal(t, http.StatusInternalServerError, rr.Code)
	assert.Nil(t, sessionCookie(rr.Result()), "cookie is set only after session creation succeeds")
}

func TestSignOut_ClearsCookieEvenWhenDeletionFails(t *testing.T) {
	router, store := newAuthEnv(t)

	rr := signIn(t, router, "a@b.com", "Secret123")
	require.Equal(t, http.StatusOK, rr.Code)
	cookie := sessionCookie(rr.Result())
	require.NotNil(t, cookie)

	store.failDeleteSession = true
	req := httptest.NewRequest(http.MethodPost, "/api/sign-out", nil)
	req.AddCookie(cookie)
	out := httptest.NewRecorder()
	router.ServeHTTP(out, req)

	require.Equal(t, http.StatusNoContent, out.Code)
	assert.Equal(t, 1, store.deleteSessionCalls, "deletion attempted exactly once")

	cleared := sessionCookie(out.Result())
	require.NotNil(t, cleared, "cookie is cleared regardless of the deletion outcome")
	assert.Empty(t, cleared.Value)
	assert.Less(t, cleared.MaxAge, 0)
}
