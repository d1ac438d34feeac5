package importapp

import (
	"context"

	"github.com/google/uuid"
	"github.com/storefront/backend/internal/domain/catalog"
	"github.com/storefront/backend/internal/domain/importing"
	"github.com/stretchr/testify/mock"
)

// MockJobRepository is a mock implementation of importing.JobRepository
type MockJobRepository struct {
	mock.Mock
}

func (m *MockJobRepository) Create(ctx context.Context, job *importing.ImportJob) error {
	args := m.Called(ctx, job)
	return args.Error(0)
}

func (m *MockJobRepository) FindByID(ctx context.Context, id uuid.UUID) (*importing.ImportJob, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*importing.ImportJob), args.Error(1)
}

func (m *MockJobRepository) FindRecent(ctx context.Context, limit int) ([]importing.ImportJob, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]importing.ImportJob), args.Error(1)
}

func (m *MockJobRepository) FindLatestCommitted(ctx context.Context) (*importing.ImportJob, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*importing.ImportJob), args.Error(1)
}

func (m *MockJobRepository) UpdateRowStatuses(ctx context.Context, rowIDs []uuid.UUID, status importing.RowStatus, message string) error {
	args := m.Called(ctx, rowIDs, status, message)
	return args.Error(0)
}

func (m *MockJobRepository) SaveCommitOutcome(ctx context.Context, job *importing.ImportJob) error {
	args := m.Called(ctx, job)
	return args.Error(0)
}

func (m *MockJobRepository) MarkFailed(ctx context.Context, id uuid.UUID, note string) error {
	args := m.Called(ctx, id, note)
	return args.Error(0)
}

// MockCatalog is a mock implementation of catalog.Catalog
type MockCatalog struct {
	mock.Mock
}

func (m *MockCatalog) FindCategoryByName(ctx context.Context, name string) (*catalog.Category, error) {
	args := m.Called(ctx, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.Category), args.Error(1)
}

func (m *MockCatalog) FindCategoryByID(ctx context.Context, id uuid.UUID) (*catalog.Category, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.Category), args.Error(1)
}

func (m *MockCatalog) FindProductsByCategory(ctx context.Context, categoryID uuid.UUID) ([]catalog.Product, error) {
	args := m.Called(ctx, categoryID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]catalog.Product), args.Error(1)
}

func (m *MockCatalog) FindProductByID(ctx context.Context, id uuid.UUID) (*catalog.Product, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.Product), args.Error(1)
}

func (m *MockCatalog) FindVariantBySKU(ctx context.Context, sku string) (*catalog.Variant, error) {
	args := m.Called(ctx, sku)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.Variant), args.Error(1)
}

func (m *MockCatalog) FindVariantsByProduct(ctx context.Context, productID uuid.UUID) ([]catalog.Variant, error) {
	args := m.Called(ctx, productID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]catalog.Variant), args.Error(1)
}

func (m *MockCatalog) CreateCategory(ctx context.Context, category *catalog.Category) error {
	args := m.Called(ctx, category)
	return args.Error(0)
}

func (m *MockCatalog) CreateProduct(ctx context.Context, product *catalog.Product) error {
	args := m.Called(ctx, product)
	return args.Error(0)
}

func (m *MockCatalog) UpdateProduct(ctx context.Context, product *catalog.Product) error {
	args := m.Called(ctx, product)
	return args.Error(0)
}

func (m *MockCatalog) CreateVariant(ctx context.Context, variant *catalog.Variant) error {
	args := m.Called(ctx, variant)
	return args.Error(0)
}

func (m *MockCatalog) UpdateVariant(ctx context.Context, variant *catalog.Variant) error {
	args := m.Called(ctx, variant)
	return args.Error(0)
}

func (m *MockCatalog) DeactivateCategory(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockCatalog) DeactivateProduct(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockCatalog) DeactivateVariant(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockAuditSink records audit calls for assertions
type MockAuditSink struct {
	mock.Mock
}

func (m *MockAuditSink) Record(ctx context.Context, event string, actor string, attrs map[string]string) {
	m.Called(ctx, event, actor, attrs)
}

// fakeTxContext hands the mocks out as transaction-bound repositories
type fakeTxContext struct {
	catalog catalog.Catalog
	jobs    importing.JobRepository
}

func (f *fakeTxContext) Catalog() catalog.Catalog      { return f.catalog }
func (f *fakeTxContext) Jobs() importing.JobRepository { return f.jobs }

// fakeUnitOfWork runs the closure against the fake transaction context.
// The returned error stands in for a rollback.
type fakeUnitOfWork struct {
	tx    importing.TxContext
	calls int
}

func (f *fakeUnitOfWork) Do(ctx context.Context, fn func(tx importing.TxContext) error) error {
	f.calls++
	return fn(f.tx)
}
