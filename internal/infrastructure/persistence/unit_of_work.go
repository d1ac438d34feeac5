package persistence

import (
	"context"

	"github.com/storefront/backend/internal/domain/catalog"
	"github.com/storefront/backend/internal/domain/importing"
	"gorm.io/gorm"
)

// GormUnitOfWork implements importing.UnitOfWork on top of a GORM
// transaction. Every repository handed out by the TxContext shares the
// same open transaction, so either all mutations commit or none do.
type GormUnitOfWork struct {
	db *gorm.DB
}

// NewUnitOfWork creates a unit of work over the given database
func NewUnitOfWork(database *Database) *GormUnitOfWork {
	return &GormUnitOfWork{db: database.DB}
}

// Do runs fn inside a single transaction
func (u *GormUnitOfWork) Do(ctx context.Context, fn func(tx importing.TxContext) error) error {
	return u.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&txContext{
			catalog: NewCatalogRepository(tx),
			jobs:    NewImportJobRepository(tx),
		})
	})
}

type txContext struct {
	catalog *CatalogRepository
	jobs    *ImportJobRepository
}

func (t *txContext) Catalog() catalog.Catalog {
	return t.catalog
}

func (t *txContext) Jobs() importing.JobRepository {
	return t.jobs
}
