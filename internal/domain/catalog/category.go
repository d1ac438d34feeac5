package catalog

import (
	"time"

	"github.com/storefront/backend/internal/domain/shared"
)

// Category represents a catalog category mirrored from the commerce platform
type Category struct {
	shared.BaseEntity
	Name      string `gorm:"type:varchar(200);not null;uniqueIndex:idx_category_name"`
	Slug      string `gorm:"type:varchar(200);not null;index"`
	SortOrder int    `gorm:"not null;default:0"`
	Active    bool   `gorm:"not null;default:true"`
}

// TableName returns the table name for GORM
func (Category) TableName() string {
	return "categories"
}

// NewCategory creates a new category
func NewCategory(name, slug string) (*Category, error) {
	if name == "" {
		return nil, shared.NewDomainError("INVALID_CATEGORY_NAME", "Category name is required")
	}
	if len(name) > 200 {
		return nil, shared.NewDomainError("INVALID_CATEGORY_NAME", "Category name cannot exceed 200 characters")
	}

	return &Category{
		BaseEntity: shared.NewBaseEntity(),
		Name:       name,
		Slug:       slug,
		Active:     true,
	}, nil
}

// Rename changes the category name and slug
func (c *Category) Rename(name, slug string) error {
	if name == "" {
		return shared.NewDomainError("INVALID_CATEGORY_NAME", "Category name is required")
	}
	c.Name = name
	c.Slug = slug
	c.UpdatedAt = time.Now()
	return nil
}

// Deactivate soft-deletes the category
func (c *Category) Deactivate() {
	c.Active = false
	c.UpdatedAt = time.Now()
}
