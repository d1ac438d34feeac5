package catalog

import (
	"context"

	"github.com/google/uuid"
)

// Catalog defines the read/write interface the import pipeline uses to
// mutate the catalog mirror. Implementations must honour the ambient
// transaction when obtained through a unit of work.
type Catalog interface {
	// FindCategoryByName finds an active category by its exact name
	FindCategoryByName(ctx context.Context, name string) (*Category, error)

	// FindCategoryByID finds a category by ID
	FindCategoryByID(ctx context.Context, id uuid.UUID) (*Category, error)

	// FindProductsByCategory finds all active products in a category
	FindProductsByCategory(ctx context.Context, categoryID uuid.UUID) ([]Product, error)

	// FindProductByID finds a product by ID
	FindProductByID(ctx context.Context, id uuid.UUID) (*Product, error)

	// FindVariantBySKU finds an active variant by SKU
	FindVariantBySKU(ctx context.Context, sku string) (*Variant, error)

	// FindVariantsByProduct finds all active variants under a product
	FindVariantsByProduct(ctx context.Context, productID uuid.UUID) ([]Variant, error)

	// CreateCategory persists a new category
	CreateCategory(ctx context.Context, category *Category) error

	// CreateProduct persists a new product
	CreateProduct(ctx context.Context, product *Product) error

	// UpdateProduct persists changes to an existing product
	UpdateProduct(ctx context.Context, product *Product) error

	// CreateVariant persists a new variant
	CreateVariant(ctx context.Context, variant *Variant) error

	// UpdateVariant persists changes to an existing variant
	UpdateVariant(ctx context.Context, variant *Variant) error

	// DeactivateCategory soft-deletes a category by ID
	DeactivateCategory(ctx context.Context, id uuid.UUID) error

	// DeactivateProduct soft-deletes a product by ID
	DeactivateProduct(ctx context.Context, id uuid.UUID) error

	// DeactivateVariant soft-deletes a variant by ID
	DeactivateVariant(ctx context.Context, id uuid.UUID) error
}
