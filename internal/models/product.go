package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Product lifecycle states. A product is created as a draft, becomes
// published exactly once and never leaves that state.
const (
	StatusDraft     = "draft"
	StatusPublished = "published"
)

// Question types a founder can put in a review schema.
const (
	QuestionShortAnswer    = "short-answer"
	QuestionSingleChoice   = "single-choice"
	QuestionMultipleChoice = "multiple-choice"
)

// QuestionSpec is one entry of a product's review schema. Choices is only
// populated for the choice types and must keep at least two non-empty
// entries after save-time filtering.
type QuestionSpec struct {
	Question string   `json:"question"`
	Type     string   `json:"type"`
	Choices  []string `json:"choices,omitempty"`
}

// ProductImage is one uploaded image; at most one entry per product is
// marked primary.
type ProductImage struct {
	URL       string `json:"url"`
	IsPrimary bool   `json:"is_primary"`
}

type Product struct {
	ID                string         `gorm:"primaryKey;type:uuid" json:"id"`
	FounderID         string         `gorm:"type:uuid;index;not null" json:"founder_id"`
	Name              string         `gorm:"not null" json:"name"`
	Description       string         `json:"description"`
	Link              string         `json:"link"`
	ImageURL          string         `json:"image_url"` // legacy flat field, kept for older records
	Images            []ProductImage `gorm:"serializer:json;type:jsonb" json:"images,omitempty"`
	ReviewSchema      []QuestionSpec `gorm:"serializer:json;type:jsonb" json:"review_schema"`
	Status            string         `gorm:"default:'draft';not null" json:"status"`
	FeedbackObjective string         `json:"feedback_objective,omitempty"`
	CreatedAt         time.Time      `json:"created_at"`
	UpdatedAt         time.Time      `json:"updated_at"`

	// association
	Founder *User `gorm:"foreignKey:FounderID" json:"founder,omitempty"`
}

// BeforeCreate hook to set UUID before creating a Product
func (product *Product) BeforeCreate(tx *gorm.DB) (err error) {
	if product.ID == "" {
		product.ID = uuid.New().String()
	}
	return
}

func (Product) TableName() string {
	return "products"
}

// IsPublished reports whether the product has left draft state.
func (p *Product) IsPublished() bool {
	return p.Status == StatusPublished
}

// DisplayImage resolves the single effective image for the product:
// the marked-primary entry, else the first image, else the legacy flat
// URL, else empty (caller renders a placeholder).
func (p *Product) DisplayImage() string {
	for _, img := range p.Images {
		if img.IsPrimary {
			return img.URL
		}
	}
	if len(p.Images) > 0 {
		return p.Images[0].URL
	}
	return p.ImageURL
}
