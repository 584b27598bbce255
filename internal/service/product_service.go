package service

import (
	"errors"
	"strings"

	"github.com/immedha/firstlight/internal/models"
	"github.com/immedha/firstlight/internal/repository"

	"gorm.io/gorm"
)

// ChangeNotifier receives a signal whenever the published product set
// may have changed, so real-time subscribers can be pushed a fresh
// snapshot. Implementations must not block.
type ChangeNotifier interface {
	ProductsChanged()
}

// ProductInput carries the founder-editable fields of a product.
type ProductInput struct {
	Name              string
	Description       string
	Link              string
	ImageURL          string // legacy flat field
	Images            []models.ProductImage
	ReviewSchema      []models.QuestionSpec
	FeedbackObjective string
}

type ProductService interface {
	Create(founderID string, in ProductInput) (*models.Product, error)
	Update(founderID, productID string, in ProductInput) (*models.Product, error)
	Publish(founderID, productID string) (*models.Product, error)
	Get(productID string) (*models.Product, error)
	ListByFounder(founderID string) ([]models.Product, error)
}

type productService struct {
	productRepo repository.ProductRepository
	notifier    ChangeNotifier
}

func NewProductService(productRepo repository.ProductRepository, notifier ChangeNotifier) ProductService {
	return &productService{
		productRepo: productRepo,
		notifier:    notifier,
	}
}

// Create stores a new product in draft state. Drafts may be incomplete;
// only the empty-choice filtering and primary-image rules are applied.
func (s *productService) Create(founderID string, in ProductInput) (*models.Product, error) {
	if founderID == "" {
		return nil, ErrAuthenticationRequired
	}

	images := normalizeImages(in.Images)
	product := &models.Product{
		FounderID:         founderID,
		Name:              in.Name,
		Description:       in.Description,
		Link:              in.Link,
		ImageURL:          resolveImageURL(in.ImageURL, images),
		Images:            images,
		ReviewSchema:      cleanReviewSchema(in.ReviewSchema),
		Status:            models.StatusDraft,
		FeedbackObjective: strings.TrimSpace(in.FeedbackObjective),
	}

	if err := s.productRepo.Create(product); err != nil {
		return nil, err
	}

	s.notifyChanged()
	return product, nil
}

// Update edits a draft in place. Published products are immutable apart
// from their received reviews.
func (s *productService) Update(founderID, productID string, in ProductInput) (*models.Product, error) {
	product, err := s.findProduct(productID)
	if err != nil {
		return nil, err
	}
	if product.FounderID != founderID {
		return nil, ErrNotProductFounder
	}
	if product.IsPublished() {
		return nil, ErrEditNotAllowed
	}

	images := normalizeImages(in.Images)
	product.Name = in.Name
	product.Description = in.Description
	product.Link = in.Link
	product.Images = images
	product.ImageURL = resolveImageURL(in.ImageURL, images)
	product.ReviewSchema = cleanReviewSchema(in.ReviewSchema)
	product.FeedbackObjective = strings.TrimSpace(in.FeedbackObjective)

	if err := s.productRepo.Save(product); err != nil {
		return nil, err
	}

	s.notifyChanged()
	return product, nil
}

// Publish moves a draft to published. This happens at most once per
// product; there is no transition out of published.
func (s *productService) Publish(founderID, productID string) (*models.Product, error) {
	product, err := s.findProduct(productID)
	if err != nil {
		return nil, err
	}
	if product.FounderID != founderID {
		return nil, ErrNotProductFounder
	}
	if product.IsPublished() {
		return nil, ErrAlreadyPublished
	}

	if err := validateForPublish(product); err != nil {
		return nil, err
	}

	product.Status = models.StatusPublished
	if err := s.productRepo.Save(product); err != nil {
		return nil, err
	}

	s.notifyChanged()
	return product, nil
}

func (s *productService) Get(productID string) (*models.Product, error) {
	return s.findProduct(productID)
}

func (s *productService) ListByFounder(founderID string) ([]models.Product, error) {
	return s.productRepo.FindByFounder(founderID)
}

func (s *productService) findProduct(productID string) (*models.Product, error) {
	product, err := s.productRepo.FindByID(productID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, err
	}
	return product, nil
}

func (s *productService) notifyChanged() {
	if s.notifier != nil {
		s.notifier.ProductsChanged()
	}
}

// validateForPublish checks the field-completeness rules a product must
// satisfy before going live.
func validateForPublish(product *models.Product) error {
	if strings.TrimSpace(product.Name) == "" {
		return newValidationError("name", "must not be empty")
	}
	if strings.TrimSpace(product.Description) == "" {
		return newValidationError("description", "must not be empty")
	}
	if strings.TrimSpace(product.Link) == "" {
		return newValidationError("link", "must not be empty")
	}
	if len(product.ReviewSchema) == 0 {
		return newValidationError("review_schema", "at least one question is required")
	}
	for _, q := range product.ReviewSchema {
		if strings.TrimSpace(q.Question) == "" {
			return newValidationError("review_schema", "question text must not be empty")
		}
		switch q.Type {
		case models.QuestionShortAnswer:
			// no choices to check
		case models.QuestionSingleChoice, models.QuestionMultipleChoice:
			if len(q.Choices) < 2 {
				return newValidationError("review_schema", "choice questions need at least two choices")
			}
		default:
			return newValidationError("review_schema", "unknown question type "+q.Type)
		}
	}
	return nil
}

// cleanReviewSchema strips empty choices from choice-type questions and
// drops the choice list from short-answer questions. Applied on every
// save; full validity is only demanded at publish time.
func cleanReviewSchema(schema []models.QuestionSpec) []models.QuestionSpec {
	cleaned := make([]models.QuestionSpec, 0, len(schema))
	for _, q := range schema {
		if q.Type == models.QuestionShortAnswer {
			q.Choices = nil
			cleaned = append(cleaned, q)
			continue
		}
		choices := make([]string, 0, len(q.Choices))
		for _, c := range q.Choices {
			if strings.TrimSpace(c) != "" {
				choices = append(choices, c)
			}
		}
		q.Choices = choices
		cleaned = append(cleaned, q)
	}
	return cleaned
}

// normalizeImages keeps a caller-designated primary image if there is
// one, otherwise promotes the first image. Exactly one image ends up
// marked primary for a non-empty list.
func normalizeImages(images []models.ProductImage) []models.ProductImage {
	if len(images) == 0 {
		return images
	}
	normalized := make([]models.ProductImage, len(images))
	copy(normalized, images)

	primary := -1
	for i := range normalized {
		if normalized[i].IsPrimary {
			primary = i
			break
		}
	}
	if primary == -1 {
		primary = 0
	}
	for i := range normalized {
		normalized[i].IsPrimary = i == primary
	}
	return normalized
}

// resolveImageURL keeps the legacy flat field pointing at the effective
// display image for older readers.
func resolveImageURL(legacyURL string, images []models.ProductImage) string {
	for _, img := range images {
		if img.IsPrimary {
			return img.URL
		}
	}
	if len(images) > 0 {
		return images[0].URL
	}
	return legacyURL
}
