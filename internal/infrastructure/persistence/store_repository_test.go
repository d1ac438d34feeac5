package persistence

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/storefront/backend/internal/domain/shared"
	"github.com/storefront/backend/internal/domain/store"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupStoreTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	err = db.AutoMigrate(&store.Review{}, &store.Favorite{})
	require.NoError(t, err)

	return db
}

func TestReviewRepository_CreateAndList(t *testing.T) {
	repo := NewReviewRepository(setupStoreTestDB(t))
	ctx := context.Background()
	productID := uuid.New()

	review, err := store.NewReview(productID, "alex", 5, "great")
	require.NoError(t, err)
	require.NoError(t, repo.Create(ctx, review))

	reviews, err := repo.FindByProduct(ctx, productID)
	require.NoError(t, err)
	require.Len(t, reviews, 1)
	assert.Equal(t, "alex", reviews[0].Author)

	other, err := repo.FindByProduct(ctx, uuid.New())
	require.NoError(t, err)
	assert.Empty(t, other)
}

func TestFavoriteRepository_Lifecycle(t *testing.T) {
	repo := NewFavoriteRepository(setupStoreTestDB(t))
	ctx := context.Background()
	productID := uuid.New()

	favorite, err := store.NewFavorite("user-1", productID)
	require.NoError(t, err)
	require.NoError(t, repo.Create(ctx, favorite))

	exists, err := repo.Exists(ctx, "user-1", productID)
	require.NoError(t, err)
	assert.True(t, exists)

	favorites, err := repo.FindByUser(ctx, "user-1")
	require.NoError(t, err)
	assert.Len(t, favorites, 1)

	require.NoError(t, repo.Delete(ctx, "user-1", productID))

	exists, err = repo.Exists(ctx, "user-1", productID)
	require.NoError(t, err)
	assert.False(t, exists)

	err = repo.Delete(ctx, "user-1", productID)
	assert.ErrorIs(t, err, shared.ErrNotFound)
}
