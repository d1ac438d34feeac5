package store

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewReview(t *testing.T) {
	productID := uuid.New()

	review, err := NewReview(productID, "alex", 4, "solid bolts")
	require.NoError(t, err)
	assert.Equal(t, productID, review.ProductID)
	assert.Equal(t, 4, review.Rating)
	assert.NotEqual(t, uuid.Nil, review.ID)
}

func TestNewReview_Validation(t *testing.T) {
	productID := uuid.New()

	_, err := NewReview(uuid.Nil, "alex", 4, "")
	assert.Error(t, err)

	_, err = NewReview(productID, "", 4, "")
	assert.Error(t, err)

	_, err = NewReview(productID, "alex", 0, "")
	assert.Error(t, err)

	_, err = NewReview(productID, "alex", 6, "")
	assert.Error(t, err)
}

func TestNewFavorite(t *testing.T) {
	productID := uuid.New()

	favorite, err := NewFavorite("user-1", productID)
	require.NoError(t, err)
	assert.Equal(t, "user-1", favorite.UserID)
	assert.Equal(t, productID, favorite.ProductID)

	_, err = NewFavorite("", productID)
	assert.Error(t, err)

	_, err = NewFavorite("user-1", uuid.Nil)
	assert.Error(t, err)
}
