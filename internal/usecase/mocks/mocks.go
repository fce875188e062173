// Package mocks provides hand-rolled fakes for the usecase interfaces.
// Defaults behave like an in-memory bank; every method can be overridden
// through its Func field.
package mocks

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/corebank/ledger/internal/domain"
	"github.com/corebank/ledger/internal/usecase"
)

// MockAccountRepository is a mock implementation of usecase.AccountRepository.
type MockAccountRepository struct {
	mu         sync.RWMutex
	accounts   map[int64]*domain.Account
	nextNumber int64

	CreateFunc                func(ctx context.Context, tx usecase.Transaction, account *domain.Account) (*domain.Account, error)
	GetByNumberFunc           func(ctx context.Context, number int64) (*domain.Account, error)
	GetByNumberForUpdateFunc  func(ctx context.Context, tx usecase.Transaction, number int64) (*domain.Account, error)
	GetByNumbersForUpdateFunc func(ctx context.Context, tx usecase.Transaction, numbers []int64) ([]*domain.Account, error)
	UpdateBalanceFunc         func(ctx context.Context, tx usecase.Transaction, number int64, balance decimal.Decimal) error
	UpdateProfileFunc         func(ctx context.Context, number int64, phone, address string) error
	CloseFunc                 func(ctx context.Context, tx usecase.Transaction, number int64, closedAt time.Time) error
	ExistsFunc                func(ctx context.Context, number int64) (bool, error)
	ListFunc                  func(ctx context.Context, limit, offset int) ([]*domain.Account, error)
}

func NewMockAccountRepository() *MockAccountRepository {
	return &MockAccountRepository{accounts: make(map[int64]*domain.Account)}
}

// Seed inserts an account directly, assigning the next number.
func (m *MockAccountRepository) Seed(account *domain.Account) *domain.Account {
	m.mu.Lock()
	defer m.mu.Unlock()

	if account.Number == 0 {
		m.nextNumber++
		account.Number = m.nextNumber
	} else if account.Number > m.nextNumber {
		m.nextNumber = account.Number
	}

	if account.CreatedAt.IsZero() {
		account.CreatedAt = time.Now().UTC()
	}

	m.accounts[account.Number] = account

	return account
}

func (m *MockAccountRepository) Create(ctx context.Context, tx usecase.Transaction, account *domain.Account) (*domain.Account, error) {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, tx, account)
	}

	copied := *account
	m.Seed(&copied)

	return &copied, nil
}

func (m *MockAccountRepository) GetByNumber(ctx context.Context, number int64) (*domain.Account, error) {
	if m.GetByNumberFunc != nil {
		return m.GetByNumberFunc(ctx, number)
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	if acc, ok := m.accounts[number]; ok {
		copied := *acc
		return &copied, nil
	}

	return nil, domain.ErrAccountNotFound
}

func (m *MockAccountRepository) GetByNumberForUpdate(ctx context.Context, tx usecase.Transaction, number int64) (*domain.Account, error) {
	if m.GetByNumberForUpdateFunc != nil {
		return m.GetByNumberForUpdateFunc(ctx, tx, number)
	}

	return m.GetByNumber(ctx, number)
}

func (m *MockAccountRepository) GetByNumbersForUpdate(ctx context.Context, tx usecase.Transaction, numbers []int64) ([]*domain.Account, error) {
	if m.GetByNumbersForUpdateFunc != nil {
		return m.GetByNumbersForUpdateFunc(ctx, tx, numbers)
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	var accounts []*domain.Account

	for _, number := range numbers {
		if acc, ok := m.accounts[number]; ok {
			copied := *acc
			accounts = append(accounts, &copied)
		}
	}

	return accounts, nil
}

func (m *MockAccountRepository) UpdateBalance(ctx context.Context, tx usecase.Transaction, number int64, balance decimal.Decimal) error {
	if m.UpdateBalanceFunc != nil {
		return m.UpdateBalanceFunc(ctx, tx, number, balance)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if acc, ok := m.accounts[number]; ok {
		acc.Balance = balance
	}

	return nil
}

func (m *MockAccountRepository) UpdateProfile(ctx context.Context, number int64, phone, address string) error {
	if m.UpdateProfileFunc != nil {
		return m.UpdateProfileFunc(ctx, number, phone, address)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if acc, ok := m.accounts[number]; ok {
		acc.Profile.Phone = phone
		acc.Profile.Address = address
	}

	return nil
}

func (m *MockAccountRepository) Close(ctx context.Context, tx usecase.Transaction, number int64, closedAt time.Time) error {
	if m.CloseFunc != nil {
		return m.CloseFunc(ctx, tx, number, closedAt)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if acc, ok := m.accounts[number]; ok {
		acc.ClosedAt = &closedAt
	}

	return nil
}

func (m *MockAccountRepository) Exists(ctx context.Context, number int64) (bool, error) {
	if m.ExistsFunc != nil {
		return m.ExistsFunc(ctx, number)
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	_, ok := m.accounts[number]

	return ok, nil
}

func (m *MockAccountRepository) List(ctx context.Context, limit, offset int) ([]*domain.Account, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx, limit, offset)
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	var accounts []*domain.Account
	for _, acc := range m.accounts {
		copied := *acc
		accounts = append(accounts, &copied)
	}

	sort.Slice(accounts, func(i, j int) bool { return accounts[i].Number < accounts[j].Number })

	if offset >= len(accounts) {
		return nil, nil
	}

	accounts = accounts[offset:]
	if limit > 0 && limit < len(accounts) {
		accounts = accounts[:limit]
	}

	return accounts, nil
}

// MockEntryRepository is a mock implementation of usecase.EntryRepository.
type MockEntryRepository struct {
	mu      sync.RWMutex
	entries []*domain.Entry
	nextID  int64

	AppendFunc        func(ctx context.Context, tx usecase.Transaction, entry *domain.Entry) (*domain.Entry, error)
	ListByAccountFunc func(ctx context.Context, accountNumber int64, limit int) ([]*domain.Entry, error)
}

func NewMockEntryRepository() *MockEntryRepository {
	return &MockEntryRepository{}
}

func (m *MockEntryRepository) Append(ctx context.Context, tx usecase.Transaction, entry *domain.Entry) (*domain.Entry, error) {
	if m.AppendFunc != nil {
		return m.AppendFunc(ctx, tx, entry)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.nextID++

	stored := *entry
	stored.EntryID = m.nextID
	stored.RecordedAt = time.Now().UTC()
	m.entries = append(m.entries, &stored)

	copied := stored

	return &copied, nil
}

func (m *MockEntryRepository) ListByAccount(ctx context.Context, accountNumber int64, limit int) ([]*domain.Entry, error) {
	if m.ListByAccountFunc != nil {
		return m.ListByAccountFunc(ctx, accountNumber, limit)
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	var entries []*domain.Entry

	for _, e := range m.entries {
		if e.AccountNumber == accountNumber {
			copied := *e
			entries = append(entries, &copied)
		}
	}

	sort.Slice(entries, func(i, j int) bool {
		if entries[i].RecordedAt.Equal(entries[j].RecordedAt) {
			return entries[i].EntryID > entries[j].EntryID
		}

		return entries[i].RecordedAt.After(entries[j].RecordedAt)
	})

	if limit > 0 && limit < len(entries) {
		entries = entries[:limit]
	}

	return entries, nil
}

// All returns every stored entry, oldest first.
func (m *MockEntryRepository) All() []*domain.Entry {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]*domain.Entry, len(m.entries))
	copy(out, m.entries)

	return out
}

// MockCredentialRepository is a mock implementation of usecase.CredentialRepository.
type MockCredentialRepository struct {
	mu          sync.RWMutex
	credentials map[string]*domain.Credential
	nextID      int64

	CreateFunc              func(ctx context.Context, tx usecase.Transaction, cred *domain.Credential) (*domain.Credential, error)
	GetByUsernameFunc       func(ctx context.Context, username string) (*domain.Credential, error)
	DeactivateByAccountFunc func(ctx context.Context, tx usecase.Transaction, accountNumber int64) error
}

func NewMockCredentialRepository() *MockCredentialRepository {
	return &MockCredentialRepository{credentials: make(map[string]*domain.Credential)}
}

func (m *MockCredentialRepository) Create(ctx context.Context, tx usecase.Transaction, cred *domain.Credential) (*domain.Credential, error) {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, tx, cred)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.credentials[cred.Username]; ok {
		return nil, domain.ErrUsernameTaken
	}

	m.nextID++

	stored := *cred
	stored.ID = m.nextID
	m.credentials[cred.Username] = &stored

	copied := stored

	return &copied, nil
}

func (m *MockCredentialRepository) GetByUsername(ctx context.Context, username string) (*domain.Credential, error) {
	if m.GetByUsernameFunc != nil {
		return m.GetByUsernameFunc(ctx, username)
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	if cred, ok := m.credentials[username]; ok {
		copied := *cred
		return &copied, nil
	}

	return nil, domain.ErrInvalidCredentials
}

func (m *MockCredentialRepository) DeactivateByAccount(ctx context.Context, tx usecase.Transaction, accountNumber int64) error {
	if m.DeactivateByAccountFunc != nil {
		return m.DeactivateByAccountFunc(ctx, tx, accountNumber)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	for _, cred := range m.credentials {
		if cred.AccountNumber != nil && *cred.AccountNumber == accountNumber {
			cred.Active = false
		}
	}

	return nil
}

// MockReportRepository is a mock implementation of usecase.ReportRepository.
type MockReportRepository struct {
	OverviewFunc         func(ctx context.Context) (*usecase.OverviewReport, error)
	ConservationSumsFunc func(ctx context.Context) (decimal.Decimal, decimal.Decimal, error)
}

func NewMockReportRepository() *MockReportRepository {
	return &MockReportRepository{}
}

func (m *MockReportRepository) Overview(ctx context.Context) (*usecase.OverviewReport, error) {
	if m.OverviewFunc != nil {
		return m.OverviewFunc(ctx)
	}

	return &usecase.OverviewReport{TotalBalance: decimal.Zero}, nil
}

func (m *MockReportRepository) ConservationSums(ctx context.Context) (decimal.Decimal, decimal.Decimal, error) {
	if m.ConservationSumsFunc != nil {
		return m.ConservationSumsFunc(ctx)
	}

	return decimal.Zero, decimal.Zero, nil
}

// MockTransaction is a mock implementation of usecase.Transaction.
type MockTransaction struct {
	CommitFunc   func(ctx context.Context) error
	RollbackFunc func(ctx context.Context) error

	release func()
	done    bool
	mu      sync.Mutex
}

func (t *MockTransaction) Commit(ctx context.Context) error {
	t.finish()

	if t.CommitFunc != nil {
		return t.CommitFunc(ctx)
	}

	return nil
}

func (t *MockTransaction) Rollback(ctx context.Context) error {
	t.finish()

	if t.RollbackFunc != nil {
		return t.RollbackFunc(ctx)
	}

	return nil
}

func (t *MockTransaction) finish() {
	t.mu.Lock()
	defer t.mu.Unlock()

	if !t.done && t.release != nil {
		t.release()
	}

	t.done = true
}

// MockTransactionManager is a mock implementation of usecase.TransactionManager.
// With Serialize set, Begin blocks until the previous transaction commits or
// rolls back, modelling the storage layer's locking domain.
type MockTransactionManager struct {
	Serialize bool

	BeginFunc func(ctx context.Context) (usecase.Transaction, error)

	lock sync.Mutex
}

func NewMockTransactionManager() *MockTransactionManager {
	return &MockTransactionManager{}
}

func (m *MockTransactionManager) Begin(ctx context.Context) (usecase.Transaction, error) {
	if m.BeginFunc != nil {
		return m.BeginFunc(ctx)
	}

	tx := &MockTransaction{}

	if m.Serialize {
		m.lock.Lock()
		tx.release = m.lock.Unlock
	}

	return tx, nil
}

// MockIDGenerator is a mock implementation of usecase.IDGenerator.
type MockIDGenerator struct {
	GenerateFunc func() string

	mu      sync.Mutex
	counter int
}

func NewMockIDGenerator() *MockIDGenerator {
	return &MockIDGenerator{}
}

func (m *MockIDGenerator) Generate() string {
	if m.GenerateFunc != nil {
		return m.GenerateFunc()
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.counter++

	return "transfer-" + time.Now().UTC().Format("150405") + "-" + string(rune('a'+m.counter%26))
}

// MockRetrier invokes the operation once, without retries.
type MockRetrier struct {
	RetryFunc func(ctx context.Context, operation func() error) error
}

func NewMockRetrier() *MockRetrier {
	return &MockRetrier{}
}

func (m *MockRetrier) Retry(ctx context.Context, operation func() error) error {
	if m.RetryFunc != nil {
		return m.RetryFunc(ctx, operation)
	}

	return operation()
}

// MockCache is an in-memory usecase.Cache.
type MockCache struct {
	mu     sync.RWMutex
	values map[string][]byte

	GetFunc func(ctx context.Context, key string) ([]byte, error)
	SetFunc func(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

func NewMockCache() *MockCache {
	return &MockCache{values: make(map[string][]byte)}
}

func (m *MockCache) Get(ctx context.Context, key string) ([]byte, error) {
	if m.GetFunc != nil {
		return m.GetFunc(ctx, key)
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	if v, ok := m.values[key]; ok {
		return v, nil
	}

	return nil, domain.ErrStorageUnavailable
}

func (m *MockCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if m.SetFunc != nil {
		return m.SetFunc(ctx, key, value, ttl)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.values[key] = value

	return nil
}

func (m *MockCache) Delete(ctx context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.values, key)

	return nil
}
