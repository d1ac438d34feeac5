package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/storefront/backend/internal/domain/catalog"
	"github.com/storefront/backend/internal/domain/shared"
	"gorm.io/gorm"
)

// CatalogRepository is the GORM implementation of catalog.Catalog
type CatalogRepository struct {
	db *gorm.DB
}

// NewCatalogRepository creates a catalog repository bound to the given
// DB handle, which may be an open transaction
func NewCatalogRepository(db *gorm.DB) *CatalogRepository {
	return &CatalogRepository{db: db}
}

// FindCategoryByName finds an active category by name. Matching is
// case-insensitive so batches that spell a category differently reuse
// the existing one instead of creating a double.
func (r *CatalogRepository) FindCategoryByName(ctx context.Context, name string) (*catalog.Category, error) {
	var category catalog.Category
	err := r.db.WithContext(ctx).
		Where("LOWER(name) = LOWER(?) AND active = ?", name, true).
		First(&category).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &category, nil
}

// FindCategoryByID finds a category by ID
func (r *CatalogRepository) FindCategoryByID(ctx context.Context, id uuid.UUID) (*catalog.Category, error) {
	var category catalog.Category
	err := r.db.WithContext(ctx).First(&category, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &category, nil
}

// FindProductsByCategory finds all active products in a category
func (r *CatalogRepository) FindProductsByCategory(ctx context.Context, categoryID uuid.UUID) ([]catalog.Product, error) {
	var products []catalog.Product
	err := r.db.WithContext(ctx).
		Where("category_id = ? AND active = ?", categoryID, true).
		Order("name").
		Find(&products).Error
	return products, err
}

// FindProductByID finds a product by ID
func (r *CatalogRepository) FindProductByID(ctx context.Context, id uuid.UUID) (*catalog.Product, error) {
	var product catalog.Product
	err := r.db.WithContext(ctx).First(&product, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &product, nil
}

// FindVariantBySKU finds an active variant by SKU
func (r *CatalogRepository) FindVariantBySKU(ctx context.Context, sku string) (*catalog.Variant, error) {
	var variant catalog.Variant
	err := r.db.WithContext(ctx).
		Where("sku = ? AND active = ?", sku, true).
		First(&variant).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &variant, nil
}

// FindVariantsByProduct finds all active variants under a product
func (r *CatalogRepository) FindVariantsByProduct(ctx context.Context, productID uuid.UUID) ([]catalog.Variant, error) {
	var variants []catalog.Variant
	err := r.db.WithContext(ctx).
		Where("product_id = ? AND active = ?", productID, true).
		Order("sku").
		Find(&variants).Error
	return variants, err
}

// CreateCategory persists a new category
func (r *CatalogRepository) CreateCategory(ctx context.Context, category *catalog.Category) error {
	return r.db.WithContext(ctx).Create(category).Error
}

// CreateProduct persists a new product
func (r *CatalogRepository) CreateProduct(ctx context.Context, product *catalog.Product) error {
	return r.db.WithContext(ctx).Create(product).Error
}

// UpdateProduct persists changes to an existing product
func (r *CatalogRepository) UpdateProduct(ctx context.Context, product *catalog.Product) error {
	return r.db.WithContext(ctx).Save(product).Error
}

// CreateVariant persists a new variant
func (r *CatalogRepository) CreateVariant(ctx context.Context, variant *catalog.Variant) error {
	return r.db.WithContext(ctx).Create(variant).Error
}

// UpdateVariant persists changes to an existing variant
func (r *CatalogRepository) UpdateVariant(ctx context.Context, variant *catalog.Variant) error {
	return r.db.WithContext(ctx).Save(variant).Error
}

// DeactivateCategory soft-deletes a category by ID
func (r *CatalogRepository) DeactivateCategory(ctx context.Context, id uuid.UUID) error {
	return r.deactivate(ctx, &catalog.Category{}, id)
}

// DeactivateProduct soft-deletes a product by ID
func (r *CatalogRepository) DeactivateProduct(ctx context.Context, id uuid.UUID) error {
	return r.deactivate(ctx, &catalog.Product{}, id)
}

// DeactivateVariant soft-deletes a variant by ID
func (r *CatalogRepository) DeactivateVariant(ctx context.Context, id uuid.UUID) error {
	return r.deactivate(ctx, &catalog.Variant{}, id)
}

func (r *CatalogRepository) deactivate(ctx context.Context, model interface{}, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Model(model).
		Where("id = ?", id).
		Update("active", false)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}
