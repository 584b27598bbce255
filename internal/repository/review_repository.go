package repository

import (
	"github.com/immedha/firstlight/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ReviewRepository defines the interface for review data operations.
type ReviewRepository interface {
	Create(review *models.Review) error
	FindByID(id string) (*models.Review, error)
	FindByReviewerAndProduct(reviewerID, productID string) (*models.Review, error)
	FindByReviewer(reviewerID string) ([]models.Review, error)
	FindByProducts(productIDs []string) ([]models.Review, error)
	CountByProduct(productID string) (int64, error)
	RateInTx(reviewID string, newQuality int, newKarma func(prevQuality, karma int) int) (*models.Review, error)
}

// reviewRepository is the GORM implementation of ReviewRepository.
type reviewRepository struct {
	db *gorm.DB
}

// NewReviewRepository creates a new instance of ReviewRepository in a GORM implementation
func NewReviewRepository(db *gorm.DB) ReviewRepository {
	return &reviewRepository{db: db}
}

func (r *reviewRepository) Create(review *models.Review) error {
	return r.db.Create(review).Error
}

func (r *reviewRepository) FindByID(id string) (*models.Review, error) {
	var review models.Review
	if err := r.db.First(&review, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &review, nil
}

// FindByReviewerAndProduct retrieves a reviewer's review for a specific
// product. Used for the duplicate-submission check; there is no unique
// constraint on the pair at the storage level.
func (r *reviewRepository) FindByReviewerAndProduct(reviewerID, productID string) (*models.Review, error) {
	var review models.Review
	err := r.db.Where("reviewer_id = ? AND product_id = ?", reviewerID, productID).
		First(&review).Error
	if err != nil {
		return nil, err
	}
	return &review, nil
}

func (r *reviewRepository) FindByReviewer(reviewerID string) ([]models.Review, error) {
	var reviews []models.Review
	err := r.db.Where("reviewer_id = ?", reviewerID).
		Order("created_at DESC").
		Find(&reviews).Error
	if err != nil {
		return nil, err
	}
	return reviews, nil
}

// FindByProducts returns all reviews received on the given products,
// newest first.
func (r *reviewRepository) FindByProducts(productIDs []string) ([]models.Review, error) {
	if len(productIDs) == 0 {
		return []models.Review{}, nil
	}
	var reviews []models.Review
	err := r.db.Where("product_id IN ?", productIDs).
		Order("created_at DESC").
		Find(&reviews).Error
	if err != nil {
		return nil, err
	}
	return reviews, nil
}

func (r *reviewRepository) CountByProduct(productID string) (int64, error) {
	var count int64
	err := r.db.Model(&models.Review{}).Where("product_id = ?", productID).Count(&count).Error
	return count, err
}

// RateInTx updates a review's quality rating and the reviewer's karma in
// one transaction. The review row and the reviewer row are locked so two
// concurrent re-ratings of the same review cannot read a stale previous
// rating and double-count the rollback. newKarma receives the rating the
// review had before this call and the reviewer's current karma total, and
// returns the karma total to persist.
func (r *reviewRepository) RateInTx(reviewID string, newQuality int, newKarma func(prevQuality, karma int) int) (*models.Review, error) {
	var review models.Review
	err := r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&review, "id = ?", reviewID).Error; err != nil {
			return err
		}

		var reviewer models.User
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&reviewer, "id = ?", review.ReviewerID).Error; err != nil {
			return err
		}

		karma := newKarma(review.Quality, reviewer.KarmaPoints)

		if err := tx.Model(&review).Update("quality", newQuality).Error; err != nil {
			return err
		}
		if err := tx.Model(&reviewer).Update("karma_points", karma).Error; err != nil {
			return err
		}

		review.Quality = newQuality
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &review, nil
}
