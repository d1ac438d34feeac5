package storeapp

import (
	"context"

	"github.com/google/uuid"
	"github.com/storefront/backend/internal/domain/catalog"
	"github.com/storefront/backend/internal/domain/shared"
	"github.com/storefront/backend/internal/domain/store"
)

// StoreService handles the storefront's review and favorite operations
type StoreService struct {
	reviews   store.ReviewRepository
	favorites store.FavoriteRepository
	catalog   catalog.Catalog
}

// NewStoreService creates a new StoreService
func NewStoreService(
	reviews store.ReviewRepository,
	favorites store.FavoriteRepository,
	cat catalog.Catalog,
) *StoreService {
	return &StoreService{
		reviews:   reviews,
		favorites: favorites,
		catalog:   cat,
	}
}

// AddReview creates a review on an existing product
func (s *StoreService) AddReview(ctx context.Context, productID uuid.UUID, author string, rating int, comment string) (*store.Review, error) {
	if _, err := s.catalog.FindProductByID(ctx, productID); err != nil {
		return nil, err
	}

	review, err := store.NewReview(productID, author, rating, comment)
	if err != nil {
		return nil, err
	}
	if err := s.reviews.Create(ctx, review); err != nil {
		return nil, err
	}
	return review, nil
}

// ListReviews returns all reviews for a product
func (s *StoreService) ListReviews(ctx context.Context, productID uuid.UUID) ([]store.Review, error) {
	return s.reviews.FindByProduct(ctx, productID)
}

// ToggleFavorite flips the favorite state for a user/product pair and
// returns the new state
func (s *StoreService) ToggleFavorite(ctx context.Context, userID string, productID uuid.UUID) (bool, error) {
	if userID == "" {
		return false, shared.NewDomainError("INVALID_USER", "Favorite requires a user")
	}
	if _, err := s.catalog.FindProductByID(ctx, productID); err != nil {
		return false, err
	}

	exists, err := s.favorites.Exists(ctx, userID, productID)
	if err != nil {
		return false, err
	}
	if exists {
		if err := s.favorites.Delete(ctx, userID, productID); err != nil {
			return false, err
		}
		return false, nil
	}

	favorite, err := store.NewFavorite(userID, productID)
	if err != nil {
		return false, err
	}
	if err := s.favorites.Create(ctx, favorite); err != nil {
		return false, err
	}
	return true, nil
}

// ListFavorites returns the user's favorites, newest first
func (s *StoreService) ListFavorites(ctx context.Context, userID string) ([]store.Favorite, error) {
	return s.favorites.FindByUser(ctx, userID)
}
