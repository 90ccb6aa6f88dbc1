package ledger

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"
	"github.com/udithaR/Alitheia-Core/internal/contract"
	"github.com/udithaR/Alitheia-Core/schema"
)

// MockLedgerManager is a mock implementation of LedgerManager for testing.
type MockLedgerManager struct {
	mock.Mock
}

var _ contract.LedgerManager = &MockLedgerManager{} // Compile-time check

// GetLedger implements the LedgerManager interface.
func (m *MockLedgerManager) GetLedger() contract.Ledger {
	ret := m.Called()
	store, _ := ret.Get(0).(contract.Ledger)
	return store
}

// GetDiffCache implements the LedgerManager interface.
func (m *MockLedgerManager) GetDiffCache() contract.DiffCache {
	ret := m.Called()
	cache, _ := ret.Get(0).(contract.DiffCache)
	return cache
}

// mockReader holds the mocked read side shared by MockLedger and MockLedgerTx.
type mockReader struct {
	mock.Mock
}

// Exists implements the LedgerReader interface.
func (m *mockReader) Exists(ctx context.Context, project, resourceID string, category schema.ActionCategory) (bool, error) {
	args := m.Called(ctx, project, resourceID, category)
	return args.Bool(0), args.Error(1)
}

// ResourceTotal implements the LedgerReader interface.
func (m *mockReader) ResourceTotal(ctx context.Context, project, resourceID string, t schema.ActionType) (int64, error) {
	args := m.Called(ctx, project, resourceID, t)
	return args.Get(0).(int64), args.Error(1)
}

// Totals implements the LedgerReader interface.
func (m *mockReader) Totals(ctx context.Context) (schema.ActionTotals, error) {
	args := m.Called(ctx)
	return args.Get(0).(schema.ActionTotals), args.Error(1)
}

// DeveloperTotals implements the LedgerReader interface.
func (m *mockReader) DeveloperTotals(ctx context.Context, project, developer string) (map[schema.ActionType]int64, error) {
	args := m.Called(ctx, project, developer)
	totals, _ := args.Get(0).(map[schema.ActionType]int64)
	return totals, args.Error(1)
}

// Developers implements the LedgerReader interface.
func (m *mockReader) Developers(ctx context.Context, project string) ([]string, error) {
	args := m.Called(ctx, project)
	devs, _ := args.Get(0).([]string)
	return devs, args.Error(1)
}

// Weights implements the LedgerReader interface.
func (m *mockReader) Weights(ctx context.Context) ([]schema.Weight, error) {
	args := m.Called(ctx)
	weights, _ := args.Get(0).([]schema.Weight)
	return weights, args.Error(1)
}

// IsEvaluated implements the LedgerReader interface.
func (m *mockReader) IsEvaluated(ctx context.Context, project string) (bool, error) {
	args := m.Called(ctx, project)
	return args.Bool(0), args.Error(1)
}

// MockLedger is a mock implementation of Ledger for testing.
type MockLedger struct {
	mockReader
}

var _ contract.Ledger = &MockLedger{} // Compile-time check

// Begin implements the Ledger interface.
func (m *MockLedger) Begin(ctx context.Context) (contract.LedgerTx, error) {
	args := m.Called(ctx)
	tx, _ := args.Get(0).(contract.LedgerTx)
	return tx, args.Error(1)
}

// DeleteActions implements the Ledger interface.
func (m *MockLedger) DeleteActions(ctx context.Context, project string, resourceIDs []string) (int64, error) {
	args := m.Called(ctx, project, resourceIDs)
	return args.Get(0).(int64), args.Error(1)
}

// DeleteWeights implements the Ledger interface.
func (m *MockLedger) DeleteWeights(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

// ClearEvaluation implements the Ledger interface.
func (m *MockLedger) ClearEvaluation(ctx context.Context, project string) error {
	return m.Called(ctx, project).Error(0)
}

// BeginRun implements the Ledger interface.
func (m *MockLedger) BeginRun(ctx context.Context, runID, project string, startTime time.Time, configParams map[string]any) error {
	return m.Called(ctx, runID, project, startTime, configParams).Error(0)
}

// EndRun implements the Ledger interface.
func (m *MockLedger) EndRun(ctx context.Context, runID string, endTime time.Time, processed, skipped, failed int) error {
	return m.Called(ctx, runID, endTime, processed, skipped, failed).Error(0)
}

// GetStatus implements the Ledger interface.
func (m *MockLedger) GetStatus(ctx context.Context) (schema.LedgerStatus, error) {
	args := m.Called(ctx)
	return args.Get(0).(schema.LedgerStatus), args.Error(1)
}

// AllActions implements the Ledger interface.
func (m *MockLedger) AllActions(ctx context.Context) ([]schema.Action, error) {
	args := m.Called(ctx)
	actions, _ := args.Get(0).([]schema.Action)
	return actions, args.Error(1)
}

// AllRuns implements the Ledger interface.
func (m *MockLedger) AllRuns(ctx context.Context) ([]schema.RunRecord, error) {
	args := m.Called(ctx)
	runs, _ := args.Get(0).([]schema.RunRecord)
	return runs, args.Error(1)
}

// Close implements the Ledger interface.
func (m *MockLedger) Close() error {
	return m.Called().Error(0)
}

// MockLedgerTx is a mock implementation of LedgerTx for testing.
type MockLedgerTx struct {
	mockReader
}

var _ contract.LedgerTx = &MockLedgerTx{} // Compile-time check

// Upsert implements the LedgerTx interface.
func (m *MockLedgerTx) Upsert(ctx context.Context, action schema.Action) error {
	return m.Called(ctx, action).Error(0)
}

// SaveWeight implements the LedgerTx interface.
func (m *MockLedgerTx) SaveWeight(ctx context.Context, weight schema.Weight) error {
	return m.Called(ctx, weight).Error(0)
}

// MarkEvaluated implements the LedgerTx interface.
func (m *MockLedgerTx) MarkEvaluated(ctx context.Context, project string, at time.Time) error {
	return m.Called(ctx, project, at).Error(0)
}

// Commit implements the LedgerTx interface.
func (m *MockLedgerTx) Commit() error {
	return m.Called().Error(0)
}

// Rollback implements the LedgerTx interface.
func (m *MockLedgerTx) Rollback() error {
	return m.Called().Error(0)
}

// MockDiffCache is a mock implementation of DiffCache for testing.
type MockDiffCache struct {
	mock.Mock
}

var _ contract.DiffCache = &MockDiffCache{} // Compile-time check

// Get implements the DiffCache interface.
func (m *MockDiffCache) Get(key string) ([]byte, int, int64, error) {
	args := m.Called(key)
	data, _ := args.Get(0).([]byte)
	return data, args.Int(1), args.Get(2).(int64), args.Error(3)
}

// Set implements the DiffCache interface.
func (m *MockDiffCache) Set(key string, value []byte, version int, timestamp int64) error {
	return m.Called(key, value, version, timestamp).Error(0)
}

// GetStatus implements the DiffCache interface.
func (m *MockDiffCache) GetStatus() (schema.CacheStatus, error) {
	args := m.Called()
	return args.Get(0).(schema.CacheStatus), args.Error(1)
}

// Close implements the DiffCache interface.
func (m *MockDiffCache) Close() error {
	return m.Called().Error(0)
}
