package service

import (
	"context"
	"log/slog"

	"github.com/immedha/firstlight/internal/karma"
	"github.com/immedha/firstlight/internal/models"
	"github.com/immedha/firstlight/internal/repository"
)

// KarmaSource resolves a user's current karma total. Backed by the
// redis cache with a database fallback; the listing sorter is its main
// consumer.
type KarmaSource interface {
	KarmaFor(ctx context.Context, userID string) (int, error)
}

type ListingService interface {
	ListForViewer(ctx context.Context, viewerID string) ([]models.Product, error)
}

type listingService struct {
	productRepo repository.ProductRepository
	karmaSource KarmaSource
	policy      *karma.Policy
	logger      *slog.Logger
}

func NewListingService(
	productRepo repository.ProductRepository,
	karmaSource KarmaSource,
	policy *karma.Policy,
	logger *slog.Logger,
) ListingService {
	return &listingService{
		productRepo: productRepo,
		karmaSource: karmaSource,
		policy:      policy,
		logger:      logger,
	}
}

// ListForViewer returns the published products ordered for a viewer.
// Anonymous viewers get store order. Known viewers get a stable
// partition: products whose founder shares the viewer's tier first,
// everything else after, relative order preserved within each group.
func (s *listingService) ListForViewer(ctx context.Context, viewerID string) ([]models.Product, error) {
	products, err := s.productRepo.FindPublished()
	if err != nil {
		return nil, err
	}
	if viewerID == "" {
		return products, nil
	}

	viewerKarma, err := s.karmaSource.KarmaFor(ctx, viewerID)
	if err != nil {
		// an unresolvable viewer is treated as anonymous rather than
		// failing the whole listing
		s.logger.Warn("viewer karma lookup failed, serving store order",
			"viewer_id", viewerID, "error", err)
		return products, nil
	}
	viewerTier := s.policy.TierForKarma(viewerKarma)

	return s.partitionByTier(ctx, products, viewerTier), nil
}

// partitionByTier splits products into same-tier-as-viewer and the rest,
// keeping the original relative order inside each group. A founder whose
// karma cannot be resolved counts as the lowest tier instead of failing
// the listing.
func (s *listingService) partitionByTier(ctx context.Context, products []models.Product, viewerTier int) []models.Product {
	founderTiers := make(map[string]int)

	tierFor := func(founderID string) int {
		if tier, ok := founderTiers[founderID]; ok {
			return tier
		}
		tier := karma.TierBad
		founderKarma, err := s.karmaSource.KarmaFor(ctx, founderID)
		if err != nil {
			s.logger.Warn("founder karma lookup failed, defaulting to lowest tier",
				"founder_id", founderID, "error", err)
		} else {
			tier = s.policy.TierForKarma(founderKarma)
		}
		founderTiers[founderID] = tier
		return tier
	}

	sameTier := make([]models.Product, 0, len(products))
	others := make([]models.Product, 0, len(products))
	for _, p := range products {
		if tierFor(p.FounderID) == viewerTier {
			sameTier = append(sameTier, p)
		} else {
			others = append(others, p)
		}
	}
	return append(sameTier, others...)
}
