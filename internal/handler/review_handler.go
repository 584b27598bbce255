package handler

import (
	"errors"
	"net/http"

	"github.com/immedha/firstlight/internal/dto"
	"github.com/immedha/firstlight/internal/models"
	"github.com/immedha/firstlight/internal/service"

	"github.com/gin-gonic/gin"
)

type ReviewHandler struct {
	reviewService service.ReviewService
}

func NewReviewHandler(reviewService service.ReviewService) *ReviewHandler {
	return &ReviewHandler{reviewService: reviewService}
}

// RegisterRoutes registers review routes on the authenticated group
func (h *ReviewHandler) RegisterRoutes(authed *gin.RouterGroup) {
	authed.POST("/products/:id/reviews", h.Submit)
	authed.GET("/reviews/mine", h.Mine)
	authed.POST("/reviews/:id/quality", h.Rate)
}

// Submit creates a review for a published product
// POST /api/products/:id/reviews
func (h *ReviewHandler) Submit(c *gin.Context) {
	userID, exists := c.Get("userID")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var req dto.SubmitReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	answers := make([]models.FilledQuestion, 0, len(req.Answers))
	for _, a := range req.Answers {
		answers = append(answers, models.FilledQuestion{
			QuestionSpec: models.QuestionSpec{Question: a.Question, Type: a.Type, Choices: a.Choices},
			Answer:       a.Answer,
			Answers:      a.Answers,
		})
	}

	review, err := h.reviewService.Submit(userID.(string), c.Param("id"), answers)
	if err != nil {
		respondReviewError(c, err)
		return
	}

	c.JSON(http.StatusCreated, review)
}

// Mine lists reviews the caller wrote plus reviews received on their products
// GET /api/reviews/mine
func (h *ReviewHandler) Mine(c *gin.Context) {
	userID, exists := c.Get("userID")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	reviews, err := h.reviewService.ListForUser(userID.(string))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"reviews": reviews,
		"total":   len(reviews),
	})
}

// Rate sets the quality rating on a review. Founder-only; re-rating is
// allowed and adjusts the reviewer's karma by the rating difference.
// POST /api/reviews/:id/quality
func (h *ReviewHandler) Rate(c *gin.Context) {
	userID, exists := c.Get("userID")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var req dto.RateReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	review, err := h.reviewService.Rate(userID.(string), c.Param("id"), req.Quality)
	if err != nil {
		respondReviewError(c, err)
		return
	}

	c.JSON(http.StatusOK, review)
}

func respondReviewError(c *gin.Context, err error) {
	switch {
	case service.IsValidationError(err):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrProductNotFound), errors.Is(err, service.ErrReviewNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrNotProductFounder):
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrDuplicateReview):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrAuthenticationRequired):
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}
