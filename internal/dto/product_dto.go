package dto

import (
	"github.com/immedha/firstlight/internal/models"
)

// Data Transfer Objects for product requests and responses

// ProductImageDTO: one uploaded image reference
type ProductImageDTO struct {
	URL       string `json:"url" binding:"required"`
	IsPrimary bool   `json:"is_primary"`
}

// QuestionSpecDTO: one review schema entry
type QuestionSpecDTO struct {
	Question string   `json:"question"`
	Type     string   `json:"type" binding:"required,oneof=short-answer single-choice multiple-choice"`
	Choices  []string `json:"choices,omitempty"`
}

// SaveProductRequest: payload for creating or updating a product.
// Drafts may be incomplete, so only the name is demanded up front;
// full completeness is checked at publish time.
type SaveProductRequest struct {
	Name              string            `json:"name" binding:"required,max=200"`
	Description       string            `json:"description"`
	Link              string            `json:"link"`
	ImageURL          string            `json:"image_url"`
	Images            []ProductImageDTO `json:"images,omitempty"`
	ReviewSchema      []QuestionSpecDTO `json:"review_schema"`
	FeedbackObjective string            `json:"feedback_objective"`
}

// ProductResponse: product plus derived display fields
type ProductResponse struct {
	Product      *models.Product `json:"product"`
	DisplayImage string          `json:"display_image,omitempty"`
	FounderName  string          `json:"founder_name,omitempty"`
	ReviewCount  int64           `json:"review_count"`
}

// ProductListResponse: ordered listing for a viewer
type ProductListResponse struct {
	Products []models.Product `json:"products"`
	Total    int              `json:"total"`
}
