package store

import (
	"context"

	"github.com/google/uuid"
)

// ReviewRepository is the persistence contract for product reviews
type ReviewRepository interface {
	Create(ctx context.Context, review *Review) error
	FindByProduct(ctx context.Context, productID uuid.UUID) ([]Review, error)
}

// FavoriteRepository is the persistence contract for favorites
type FavoriteRepository interface {
	Create(ctx context.Context, favorite *Favorite) error
	Delete(ctx context.Context, userID string, productID uuid.UUID) error
	FindByUser(ctx context.Context, userID string) ([]Favorite, error)
	Exists(ctx context.Context, userID string, productID uuid.UUID) (bool, error)
}
