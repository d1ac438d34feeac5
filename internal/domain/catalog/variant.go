package catalog

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/storefront/backend/internal/domain/shared"
)

// Variant represents a sellable SKU under a product
type Variant struct {
	shared.BaseEntity
	ProductID      uuid.UUID        `gorm:"type:uuid;not null;index"`
	SKU            string           `gorm:"type:varchar(64);not null;uniqueIndex:idx_variant_sku"`
	Label          string           `gorm:"type:varchar(200)"`
	Price          decimal.Decimal  `gorm:"type:decimal(18,4);not null;default:0"`
	WholesalePrice *decimal.Decimal `gorm:"type:decimal(18,4)"`
	Attributes     string           `gorm:"type:jsonb;default:'{}'"`
	ImageURL       string           `gorm:"type:varchar(500)"`
	Active         bool             `gorm:"not null;default:true"`
}

// TableName returns the table name for GORM
func (Variant) TableName() string {
	return "variants"
}

// NewVariant creates a new variant under a product
func NewVariant(productID uuid.UUID, sku, label string, price decimal.Decimal) (*Variant, error) {
	if productID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_PRODUCT", "Variant requires a product")
	}
	if err := validateSKU(sku); err != nil {
		return nil, err
	}
	if price.IsNegative() {
		return nil, shared.NewDomainError("INVALID_PRICE", "Variant price cannot be negative")
	}

	return &Variant{
		BaseEntity: shared.NewBaseEntity(),
		ProductID:  productID,
		SKU:        strings.ToUpper(sku),
		Label:      label,
		Price:      price,
		Attributes: "{}",
		Active:     true,
	}, nil
}

// Update updates the variant's label and price
func (v *Variant) Update(label string, price decimal.Decimal) error {
	if price.IsNegative() {
		return shared.NewDomainError("INVALID_PRICE", "Variant price cannot be negative")
	}
	v.Label = label
	v.Price = price
	v.UpdatedAt = time.Now()
	return nil
}

// SetWholesalePrice sets the optional wholesale price
func (v *Variant) SetWholesalePrice(price *decimal.Decimal) error {
	if price != nil && price.IsNegative() {
		return shared.NewDomainError("INVALID_PRICE", "Wholesale price cannot be negative")
	}
	v.WholesalePrice = price
	v.UpdatedAt = time.Now()
	return nil
}

// SetAttributes stores the free-form attribute map as JSON
func (v *Variant) SetAttributes(attributes string) {
	if attributes == "" {
		attributes = "{}"
	}
	v.Attributes = attributes
	v.UpdatedAt = time.Now()
}

// SetImage sets the variant image reference
func (v *Variant) SetImage(url string) {
	v.ImageURL = url
	v.UpdatedAt = time.Now()
}

// Deactivate soft-deletes the variant
func (v *Variant) Deactivate() {
	v.Active = false
	v.UpdatedAt = time.Now()
}

func validateSKU(sku string) error {
	if sku == "" {
		return shared.NewDomainError("INVALID_SKU", "SKU is required")
	}
	if len(sku) > 64 {
		return shared.NewDomainError("INVALID_SKU", "SKU cannot exceed 64 characters")
	}
	return nil
}
