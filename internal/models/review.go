package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// FilledQuestion is a schema entry together with the reviewer's answer.
// Answer holds the reply for short-answer and single-choice questions,
// Answers holds the selections for multiple-choice questions.
type FilledQuestion struct {
	QuestionSpec
	Answer  string   `json:"answer,omitempty"`
	Answers []string `json:"answers,omitempty"`
}

type Review struct {
	ID         string           `gorm:"primaryKey;type:uuid" json:"id"`
	ReviewerID string           `gorm:"type:uuid;index;not null" json:"reviewer_id"`
	ProductID  string           `gorm:"type:uuid;index;not null" json:"product_id"`
	Answers    []FilledQuestion `gorm:"serializer:json;type:jsonb" json:"answers"`
	Quality    int              `gorm:"default:0;not null" json:"quality"` // 0 = not yet rated, 1..5 once rated
	CreatedAt  time.Time        `json:"created_at"`
	UpdatedAt  time.Time        `json:"updated_at"`

	// associations
	Reviewer *User    `gorm:"foreignKey:ReviewerID" json:"reviewer,omitempty"`
	Product  *Product `gorm:"foreignKey:ProductID" json:"product,omitempty"`
}

// BeforeCreate hook to set UUID before creating a Review
func (review *Review) BeforeCreate(tx *gorm.DB) (err error) {
	if review.ID == "" {
		review.ID = uuid.New().String()
	}
	return
}

func (Review) TableName() string {
	return "reviews"
}

// IsRated reports whether the product founder has rated this review yet.
func (r *Review) IsRated() bool {
	return r.Quality > 0
}
