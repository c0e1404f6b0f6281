package actions

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"horizon-server/src/crypt"
	db "horizon-server/src/db/sql"
	"horizon-server/src/dwolla"
	"horizon-server/src/models"
)

// recorder keeps the order of every mock call so tests can assert the
// sequencing of the multi-service flows.
type recorder struct {
	calls []string
}

func (r *recorder) record(name string) {
	r.calls = append(r.calls, name)
}

func (r *recorder) count(name string) int {
	n := 0
	for _, c := range r.calls {
		if c == name {
			n++
		}
	}
	return n
}

func (r *recorder) indexOf(name string) int {
	for i, c := range r.calls {
		if c == name {
			return i
		}
	}
	return -1
}

type mockStore struct {
	rec *recorder

	authAccounts     map[string]*models.AuthAccount
	usersByAccountID map[string]*models.User
	usersByID        map[string]*models.User
	sessions         map[string]*models.Session
	banksByID        map[string]*models.Bank
	banksByUserID    map[string][]models.Bank
	banksByAccountID map[string][]models.Bank
	transactions     []*models.Transaction

	failCreateAuthAccount bool
	failCreateUser        bool
	failCreateSession     bool
	failCreateBank        bool
	failCreateTransaction bool
	failDeleteSession     bool

	nextID int
}

func newMockStore(rec *recorder) *mockStore {
	return &mockStore{
		rec:              rec,
		authAccounts:     make(map[string]*models.AuthAccount),
		usersByAccountID: make(map[string]*models.User),
		usersByID:        make(map[string]*models.User),
		sessions:         make(map[string]*models.Session),
		banksByID:        make(map[string]*models.Bank),
		banksByUserID:    make(map[string][]models.Bank),
		banksByAccountID: make(map[string][]models.Bank),
	}
}

func (m *mockStore) id(prefix string) string {
	m.nextID++
	return fmt.Sprintf("%s-%d", prefix, m.nextID)
}

func (m *mockStore) CreateAuthAccount(ctx context.Context, email string, passwordHash []byte, name string) (string, error) {
	m.rec.record("store.CreateAuthAccount")
	if m.failCreateAuthAccount {
		return "", errors.New("auth account insert failed")
	}
	if _, exists := m.authAccounts[email]; exists {
		return "", db.ErrDuplicate
	}
	id := m.id("acct")
	m.authAccounts[email] = &models.AuthAccount{ID: id, Email: email, Name: name, PasswordHash: passwordHash}
	return id, nil
}

func (m *mockStore) GetAuthAccountByEmail(ctx context.Context, email string) (*models.AuthAccount, error) {
	m.rec.record("store.GetAuthAccountByEmail")
	acct, ok := m.authAccounts[email]
	if !ok {
		return nil, db.ErrNotFound
	}
	return acct, nil
}

func (m *mockStore) DeleteAuthAccount(ctx context.Context, id string) error {
	m.rec.record("store.DeleteAuthAccount")
	for email, acct := range m.authAccounts {
		if acct.ID == id {
			delete(m.authAccounts, email)
		}
	}
	return nil
}

func (m *mockStore) CreateSession(ctx context.Context, accountID string, expiresAt time.Time) (*models.Session, error) {
	m.rec.record("store.CreateSession")
	if m.failCreateSession {
		return nil, errors.New("session insert failed")
	}
	session := &models.Session{ID: m.id("sess"), AccountID: accountID, ExpiresAt: expiresAt}
	m.sessions[session.ID] = session
	return session, nil
}

func (m *mockStore) GetSession(ctx context.Context, id string) (*models.Session, error) {
	m.rec.record("store.GetSession")
	session, ok := m.sessions[id]
	if !ok {
		return nil, db.ErrNotFound
	}
	return session, nil
}

func (m *mockStore) DeleteSession(ctx context.Context, id string) error {
	m.rec.record("store.DeleteSession")
	if m.failDeleteSession {
		return errors.New("session delete failed")
	}
	delete(m.sessions, id)
	return nil
}

func (m *mockStore) CreateUser(ctx context.Context, user *models.User) (string, error) {
	m.rec.record("store.CreateUser")
	if m.failCreateUser {
		return "", errors.New("user insert failed")
	}
	id := m.id("user")
	stored := *user
	stored.ID = id
	m.usersByAccountID[user.AccountID] = &stored
	m.usersByID[id] = &stored
	return id, nil
}

func (m *mockStore) GetUserByID(ctx context.Context, id string) (*models.User, error) {
	m.rec.record("store.GetUserByID")
	user, ok := m.usersByID[id]
	if !ok {
		return nil, db.ErrNotFound
	}
	return user, nil
}

func (m *mockStore) GetUserByAccountID(ctx context.Context, accountID string) (*models.User, error) {
	m.rec.record("store.GetUserByAccountID")
	user, ok := m.usersByAccountID[accountID]
	if !ok {
		return nil, db.ErrNotFound
	}
	return user, nil
}

func (m *mockStore) CreateBank(ctx context.Context, bank *models.Bank) (string, error) {
	m.rec.record("store.CreateBank")
	if m.failCreateBank {
		return "", errors.New("bank insert failed")
	}
	id := m.id("bank")
	stored := *bank
	stored.ID = id
	m.banksByID[id] = &stored
	m.banksByUserID[bank.UserID] = append(m.banksByUserID[bank.UserID], stored)
	m.banksByAccountID[bank.AccountID] = append(m.banksByAccountID[bank.AccountID], stored)
	return id, nil
}

func (m *mockStore) GetBanksByUserID(ctx context.Context, userID string) ([]models.Bank, error) {
	m.rec.record("store.GetBanksByUserID")
	return m.banksByUserID[userID], nil
}

func (m *mockStore) GetBankByID(ctx context.Context, id string) (*models.Bank, error) {
	m.rec.record("store.GetBankByID")
	bank, ok := m.banksByID[id]
	if !ok {
		return nil, db.ErrNotFound
	}
	return bank, nil
}

func (m *mockStore) GetBanksByAccountID(ctx context.Context, accountID string) ([]models.Bank, error) {
	m.rec.record("store.GetBanksByAccountID")
	return m.banksByAccountID[accountID], nil
}

func (m *mockStore) CreateTransaction(ctx context.Context, tx *models.Transaction) (string, error) {
	m.rec.record("store.CreateTransaction")
	if m.failCreateTransaction {
		return "", errors.New("transaction insert failed")
	}
	id := m.id("tx")
	stored := *tx
	stored.ID = id
	m.transactions = append(m.transactions, &stored)
	return id, nil
}

func (m *mockStore) ListTransactionsByBank(ctx context.Context, bankID string) ([]models.Transaction, error) {
	m.rec.record("store.ListTransactionsByBank")
	var out []models.Transaction
	for _, tx := range m.transactions {
		if tx.SenderBankID == bankID || tx.ReceiverBankID == bankID {
			out = append(out, *tx)
		}
	}
	return out, nil
}

type mockAggregator struct {
	rec      *recorder
	accounts []models.LinkedAccount

	failExchange       bool
	failGetAccounts    bool
	failProcessorToken bool
}

func (m *mockAggregator) CreateLinkToken(ctx context.Context, clientUserID, name string) (string, error) {
	m.rec.record("aggregator.CreateLinkToken")
	return "link-token", nil
}

func (m *mockAggregator) ExchangePublicToken(ctx context.Context, publicToken string) (string, string, error) {
	m.rec.record("aggregator.ExchangePublicToken")
	if m.failExchange {
		return "", "", errors.New("exchange failed")
	}
	return "access-token", "item-1", nil
}

func (m *mockAggregator) GetAccounts(ctx context.Context, accessToken string) ([]models.LinkedAccount, error) {
	m.rec.record("aggregator.GetAccounts")
	if m.failGetAccounts {
		return nil, errors.New("accounts fetch failed")
	}
	return m.accounts, nil
}

func (m *mockAggregator) CreateProcessorToken(ctx context.Context, accessToken, accountID string) (string, error) {
	m.rec.record("aggregator.CreateProcessorToken")
	if m.failProcessorToken {
		return "", errors.New("processor token failed")
	}
	return "processor-token-" + accountID, nil
}

type mockProcessor struct {
	rec *recorder

	failCreateCustomer      bool
	failCreateFundingSource bool
	failCreateTransfer      bool
	failDeactivateCustomer  bool
}

func (m *mockProcessor) CreateCustomer(ctx context.Context, params dwolla.CustomerParams) (string, error) {
	m.rec.record("processor.CreateCustomer")
	if m.failCreateCustomer {
		return "", errors.New("customer creation declined")
	}
	return "https://api-sandbox.dwolla.com/customers/cust-1", nil
}

func (m *mockProcessor) DeactivateCustomer(ctx context.Context, customerURL string) error {
	m.rec.record("processor.DeactivateCustomer")
	if m.failDeactivateCustomer {
		return errors.New("deactivate failed")
	}
	return nil
}

func (m *mockProcessor) CreateFundingSource(ctx context.Context, customerURL, processorToken, name string) (string, error) {
	m.rec.record("processor.CreateFundingSource")
	if m.failCreateFundingSource {
		return "", errors.New("funding source rejected")
	}
	return "https://api-sandbox.dwolla.com/funding-sources/fs-1", nil
}

func (m *mockProcessor) RemoveFundingSource(ctx context.Context, fundingSourceURL string) error {
	m.rec.record("processor.RemoveFundingSource")
	return nil
}

func (m *mockProcessor) CreateTransfer(ctx context.Context, sourceURL, destinationURL, amount string) (string, error) {
	m.rec.record("processor.CreateTransfer")
	if m.failCreateTransfer {
		return "", errors.New("transfer declined")
	}
	return "https://api-sandbox.dwolla.com/transfers/tr-1", nil
}

type testEnv struct {
	svc        *Service
	rec        *recorder
	store      *mockStore
	aggregator *mockAggregator
	processor  *mockProcessor
	cipher     *crypt.Cipher
}

func newTestEnv() *testEnv {
	rec := &recorder{}
	store := newMockStore(rec)
	aggregator := &mockAggregator{rec: rec}
	processor := &mockProcessor{rec: rec}
	cipher, err := crypt.NewCipher(strings.Repeat("ab", 32))
	if err != nil {
		panic(err)
	}
	return &testEnv{
		svc:        NewService(store, aggregator, processor, cipher, time.Hour),
		rec:        rec,
		store:      store,
		aggregator: aggregator,
		processor:  processor,
		cipher:     cipher,
	}
}

func signUpFixture() models.SignUpRequest {
	return models.SignUpRequest{
		Email:       "a@b.com",
		Password:    "Secret123",
		FirstName:   "Ada",
		LastName:    "Lovelace",
		Address1:    "1 Main St",
		City:        "Springfield",
		State:       "NY",
		PostalCode:  "10001",
		DateOfBirth: "1990-01-02",
		SSN:         "1234",
	}
}
