package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"salesiq/internal/domain"
)

// MockTransactionStore is a mock implementation of port.TransactionStore.
type MockTransactionStore struct {
	mock.Mock
}

func (m *MockTransactionStore) EnsureSchema(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockTransactionStore) DistinctInvoiceNos(ctx context.Context, tenantID string) (map[string]struct{}, error) {
	args := m.Called(ctx, tenantID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]struct{}), args.Error(1)
}

func (m *MockTransactionStore) Append(ctx context.Context, tenantID string, rows []domain.Transaction) (int64, error) {
	args := m.Called(ctx, tenantID, rows)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockTransactionStore) FetchByTenant(ctx context.Context, tenantID string) ([]domain.Transaction, error) {
	args := m.Called(ctx, tenantID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Transaction), args.Error(1)
}

func (m *MockTransactionStore) DeleteByTenant(ctx context.Context, tenantID string) (int64, error) {
	args := m.Called(ctx, tenantID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockTransactionStore) WithTenantLock(ctx context.Context, tenantID string, fn func(context.Context) error) error {
	args := m.Called(ctx, tenantID, fn)
	if args.Error(0) != nil {
		return args.Error(0)
	}
	return fn(ctx)
}
