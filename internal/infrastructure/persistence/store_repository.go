package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/storefront/backend/internal/domain/shared"
	"github.com/storefront/backend/internal/domain/store"
	"gorm.io/gorm"
)

// ReviewRepository is the GORM implementation of store.ReviewRepository
type ReviewRepository struct {
	db *gorm.DB
}

// NewReviewRepository creates a review repository
func NewReviewRepository(db *gorm.DB) *ReviewRepository {
	return &ReviewRepository{db: db}
}

// Create persists a new review
func (r *ReviewRepository) Create(ctx context.Context, review *store.Review) error {
	return r.db.WithContext(ctx).Create(review).Error
}

// FindByProduct lists reviews for a product, newest first
func (r *ReviewRepository) FindByProduct(ctx context.Context, productID uuid.UUID) ([]store.Review, error) {
	var reviews []store.Review
	err := r.db.WithContext(ctx).
		Where("product_id = ?", productID).
		Order("created_at DESC").
		Find(&reviews).Error
	return reviews, err
}

// FavoriteRepository is the GORM implementation of store.FavoriteRepository
type FavoriteRepository struct {
	db *gorm.DB
}

// NewFavoriteRepository creates a favorite repository
func NewFavoriteRepository(db *gorm.DB) *FavoriteRepository {
	return &FavoriteRepository{db: db}
}

// Create persists a new favorite
func (r *FavoriteRepository) Create(ctx context.Context, favorite *store.Favorite) error {
	err := r.db.WithContext(ctx).Create(favorite).Error
	if err != nil && errors.Is(err, gorm.ErrDuplicatedKey) {
		return shared.ErrAlreadyExists
	}
	return err
}

// Delete removes a favorite by user and product
func (r *FavoriteRepository) Delete(ctx context.Context, userID string, productID uuid.UUID) error {
	result := r.db.WithContext(ctx).
		Where("user_id = ? AND product_id = ?", userID, productID).
		Delete(&store.Favorite{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// FindByUser lists a user's favorites, newest first
func (r *FavoriteRepository) FindByUser(ctx context.Context, userID string) ([]store.Favorite, error) {
	var favorites []store.Favorite
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&favorites).Error
	return favorites, err
}

// Exists checks whether a user has favorited a product
func (r *FavoriteRepository) Exists(ctx context.Context, userID string, productID uuid.UUID) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&store.Favorite{}).
		Where("user_id = ? AND product_id = ?", userID, productID).
		Count(&count).Error
	return count > 0, err
}
