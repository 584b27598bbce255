package service

import (
	"errors"
	"strings"

	"github.com/immedha/firstlight/internal/karma"
	"github.com/immedha/firstlight/internal/models"
	"github.com/immedha/firstlight/internal/repository"

	"gorm.io/gorm"
)

// KarmaInvalidator lets the review flow drop cached karma totals after a
// rating changes them. Implementations must tolerate being called with a
// user that has no cache entry.
type KarmaInvalidator interface {
	InvalidateKarma(userID string)
}

type ReviewService interface {
	Submit(reviewerID, productID string, answers []models.FilledQuestion) (*models.Review, error)
	Rate(callerID, reviewID string, quality int) (*models.Review, error)
	ListForUser(userID string) ([]models.Review, error)
	CountForProduct(productID string) (int64, error)
}

type reviewService struct {
	reviewRepo  repository.ReviewRepository
	productRepo repository.ProductRepository
	policy      *karma.Policy
	invalidator KarmaInvalidator
	notifier    ChangeNotifier
}

func NewReviewService(
	reviewRepo repository.ReviewRepository,
	productRepo repository.ProductRepository,
	policy *karma.Policy,
	invalidator KarmaInvalidator,
	notifier ChangeNotifier,
) ReviewService {
	return &reviewService{
		reviewRepo:  reviewRepo,
		productRepo: productRepo,
		policy:      policy,
		invalidator: invalidator,
		notifier:    notifier,
	}
}

// Submit creates a review for a published product. The answers must
// cover the product's schema one-to-one; the review starts unrated.
func (s *reviewService) Submit(reviewerID, productID string, answers []models.FilledQuestion) (*models.Review, error) {
	if reviewerID == "" {
		return nil, ErrAuthenticationRequired
	}

	product, err := s.productRepo.FindByID(productID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, err
	}
	if !product.IsPublished() {
		return nil, newValidationError("product", "reviews can only target published products")
	}

	if err := validateAnswers(product.ReviewSchema, answers); err != nil {
		return nil, err
	}

	// One review per (reviewer, product) pair. This is a query-level
	// check; the storage layer has no unique constraint on the pair.
	if _, err := s.reviewRepo.FindByReviewerAndProduct(reviewerID, productID); err == nil {
		return nil, ErrDuplicateReview
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	review := &models.Review{
		ReviewerID: reviewerID,
		ProductID:  productID,
		Answers:    answers,
		Quality:    0, // not yet rated
	}

	if err := s.reviewRepo.Create(review); err != nil {
		return nil, err
	}

	s.notifyChanged()
	return review, nil
}

// Rate sets the quality rating on a review and adjusts the reviewer's
// karma. Only the founder of the reviewed product may rate, and ratings
// are re-settable: the previous rating's delta is rolled back before the
// new one is applied, so re-rating with the same value nets zero and a
// change from A to B nets exactly delta(B)-delta(A). Rating, rollback
// and karma write happen inside one locked transaction.
func (s *reviewService) Rate(callerID, reviewID string, quality int) (*models.Review, error) {
	if callerID == "" {
		return nil, ErrAuthenticationRequired
	}
	if quality < 1 || quality > 5 {
		return nil, newValidationError("quality", "rating must be between 1 and 5")
	}

	review, err := s.reviewRepo.FindByID(reviewID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrReviewNotFound
		}
		return nil, err
	}

	product, err := s.productRepo.FindByID(review.ProductID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, err
	}
	if product.FounderID != callerID {
		return nil, ErrNotProductFounder
	}

	updated, err := s.reviewRepo.RateInTx(reviewID, quality, func(prevQuality, current int) int {
		if prevQuality > 0 {
			current -= s.policy.DeltaForRating(prevQuality)
		}
		return current + s.policy.DeltaForRating(quality)
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrReviewNotFound
		}
		return nil, err
	}

	if s.invalidator != nil {
		s.invalidator.InvalidateKarma(review.ReviewerID)
	}
	s.notifyChanged()
	return updated, nil
}

// ListForUser returns the reviews relevant to a user: the ones they
// wrote plus the ones received on their products, newest first and
// deduplicated (a founder reviewing their own product would otherwise
// appear twice).
func (s *reviewService) ListForUser(userID string) ([]models.Review, error) {
	if userID == "" {
		return nil, ErrAuthenticationRequired
	}

	given, err := s.reviewRepo.FindByReviewer(userID)
	if err != nil {
		return nil, err
	}

	products, err := s.productRepo.FindByFounder(userID)
	if err != nil {
		return nil, err
	}
	productIDs := make([]string, 0, len(products))
	for _, p := range products {
		productIDs = append(productIDs, p.ID)
	}

	received, err := s.reviewRepo.FindByProducts(productIDs)
	if err != nil {
		return nil, err
	}

	seen := make(map[string]bool, len(given))
	all := make([]models.Review, 0, len(given)+len(received))
	for _, r := range given {
		seen[r.ID] = true
		all = append(all, r)
	}
	for _, r := range received {
		if !seen[r.ID] {
			all = append(all, r)
		}
	}
	return all, nil
}

// CountForProduct returns how many reviews a product has received.
func (s *reviewService) CountForProduct(productID string) (int64, error) {
	return s.reviewRepo.CountByProduct(productID)
}

func (s *reviewService) notifyChanged() {
	if s.notifier != nil {
		s.notifier.ProductsChanged()
	}
}

// validateAnswers checks that the filled answers cover the schema
// one-to-one and that every question actually got answered.
func validateAnswers(schema []models.QuestionSpec, answers []models.FilledQuestion) error {
	if len(answers) != len(schema) {
		return newValidationError("answers", "every question must be answered")
	}
	for i, a := range answers {
		q := schema[i]
		if a.Question != q.Question {
			return newValidationError("answers", "answers must match the product's question schema")
		}
		switch q.Type {
		case models.QuestionMultipleChoice:
			if len(a.Answers) == 0 {
				return newValidationError("answers", "select at least one choice for: "+q.Question)
			}
		default:
			if strings.TrimSpace(a.Answer) == "" {
				return newValidationError("answers", "missing answer for: "+q.Question)
			}
		}
	}
	return nil
}
