package store

import (
	"github.com/google/uuid"
	"github.com/storefront/backend/internal/domain/shared"
)

// Favorite marks a product as saved by a user. One per user/product pair.
type Favorite struct {
	shared.BaseEntity
	UserID    string    `gorm:"type:varchar(64);not null;uniqueIndex:idx_favorites_user_product"`
	ProductID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_favorites_user_product"`
}

// TableName returns the table name for GORM
func (Favorite) TableName() string {
	return "favorites"
}

// NewFavorite creates a favorite for a user
func NewFavorite(userID string, productID uuid.UUID) (*Favorite, error) {
	if userID == "" {
		return nil, shared.NewDomainError("INVALID_USER", "Favorite requires a user")
	}
	if productID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_PRODUCT", "Favorite requires a product")
	}

	return &Favorite{
		BaseEntity: shared.NewBaseEntity(),
		UserID:     userID,
		ProductID:  productID,
	}, nil
}
