package handler

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	storeapp "github.com/storefront/backend/internal/application/store"
	"github.com/storefront/backend/internal/domain/store"
	"github.com/storefront/backend/internal/interfaces/http/middleware"
)

// StoreHandler handles the storefront review and favorite endpoints
type StoreHandler struct {
	BaseHandler
	service *storeapp.StoreService
}

// NewStoreHandler creates a new StoreHandler
func NewStoreHandler(service *storeapp.StoreService) *StoreHandler {
	return &StoreHandler{service: service}
}

// RegisterRoutes registers the storefront routes. Favorites require an
// authenticated user; the router attaches the auth middleware.
func (h *StoreHandler) RegisterRoutes(public, authed *gin.RouterGroup) {
	public.GET("/products/:id/reviews", h.ListReviews)
	public.POST("/products/:id/reviews", h.AddReview)
	authed.POST("/products/:id/favorite", h.ToggleFavorite)
	authed.GET("/favorites", h.ListFavorites)
}

// AddReviewRequest is the JSON body of a new review
type AddReviewRequest struct {
	Author  string `json:"author" binding:"required,max=120"`
	Rating  int    `json:"rating" binding:"required,min=1,max=5"`
	Comment string `json:"comment" binding:"max=2000"`
}

// ReviewResponse is one review on the wire
type ReviewResponse struct {
	ID        uuid.UUID `json:"id"`
	ProductID uuid.UUID `json:"product_id"`
	Author    string    `json:"author"`
	Rating    int       `json:"rating"`
	Comment   string    `json:"comment,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// FavoriteResponse is one favorite on the wire
type FavoriteResponse struct {
	ProductID uuid.UUID `json:"product_id"`
	CreatedAt time.Time `json:"created_at"`
}

func toReviewResponse(r *store.Review) ReviewResponse {
	return ReviewResponse{
		ID:        r.ID,
		ProductID: r.ProductID,
		Author:    r.Author,
		Rating:    r.Rating,
		Comment:   r.Comment,
		CreatedAt: r.CreatedAt,
	}
}

// AddReview creates a review on a product
func (h *StoreHandler) AddReview(c *gin.Context) {
	productID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid product ID")
		return
	}

	var req AddReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	review, err := h.service.AddReview(c.Request.Context(), productID, req.Author, req.Rating, req.Comment)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, toReviewResponse(review))
}

// ListReviews returns all reviews for a product
func (h *StoreHandler) ListReviews(c *gin.Context) {
	productID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid product ID")
		return
	}

	reviews, err := h.service.ListReviews(c.Request.Context(), productID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	responses := make([]ReviewResponse, 0, len(reviews))
	for i := range reviews {
		responses = append(responses, toReviewResponse(&reviews[i]))
	}
	h.Success(c, responses)
}

// ToggleFavorite flips the favorite state for the authenticated user
func (h *StoreHandler) ToggleFavorite(c *gin.Context) {
	productID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid product ID")
		return
	}

	favorited, err := h.service.ToggleFavorite(c.Request.Context(), getUserID(c), productID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, gin.H{"favorited": favorited})
}

// ListFavorites returns the authenticated user's favorites
func (h *StoreHandler) ListFavorites(c *gin.Context) {
	favorites, err := h.service.ListFavorites(c.Request.Context(), getUserID(c))
	if err != nil {
		h.HandleError(c, err)
		return
	}

	responses := make([]FavoriteResponse, 0, len(favorites))
	for _, f := range favorites {
		responses = append(responses, FavoriteResponse{ProductID: f.ProductID, CreatedAt: f.CreatedAt})
	}
	h.Success(c, responses)
}
