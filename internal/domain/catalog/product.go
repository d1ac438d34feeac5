package catalog

import (
	"time"

	"github.com/google/uuid"
	"github.com/storefront/backend/internal/domain/shared"
)

// Product represents a catalog product. Variants carry the sellable
// SKUs; the product groups them under one display name and category.
type Product struct {
	shared.BaseEntity
	CategoryID  uuid.UUID `gorm:"type:uuid;not null;index"`
	Name        string    `gorm:"type:varchar(300);not null"`
	Slug        string    `gorm:"type:varchar(300);not null;index"`
	Description string    `gorm:"type:text"`
	ImageURL    string    `gorm:"type:varchar(500)"`
	Active      bool      `gorm:"not null;default:true"`
}

// TableName returns the table name for GORM
func (Product) TableName() string {
	return "products"
}

// NewProduct creates a new product in a category
func NewProduct(categoryID uuid.UUID, name, slug string) (*Product, error) {
	if categoryID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_CATEGORY", "Product requires a category")
	}
	if err := validateProductName(name); err != nil {
		return nil, err
	}

	return &Product{
		BaseEntity: shared.NewBaseEntity(),
		CategoryID: categoryID,
		Name:       name,
		Slug:       slug,
		Active:     true,
	}, nil
}

// Update updates the product's display fields
func (p *Product) Update(name, slug, description string) error {
	if err := validateProductName(name); err != nil {
		return err
	}
	p.Name = name
	p.Slug = slug
	p.Description = description
	p.UpdatedAt = time.Now()
	return nil
}

// SetImage sets the product image reference
func (p *Product) SetImage(url string) {
	p.ImageURL = url
	p.UpdatedAt = time.Now()
}

// MoveToCategory reassigns the product to another category
func (p *Product) MoveToCategory(categoryID uuid.UUID) error {
	if categoryID == uuid.Nil {
		return shared.NewDomainError("INVALID_CATEGORY", "Product requires a category")
	}
	p.CategoryID = categoryID
	p.UpdatedAt = time.Now()
	return nil
}

// Deactivate soft-deletes the product
func (p *Product) Deactivate() {
	p.Active = false
	p.UpdatedAt = time.Now()
}

func validateProductName(name string) error {
	if name == "" {
		return shared.NewDomainError("INVALID_PRODUCT_NAME", "Product name is required")
	}
	if len(name) > 300 {
		return shared.NewDomainError("INVALID_PRODUCT_NAME", "Product name cannot exceed 300 characters")
	}
	return nil
}
