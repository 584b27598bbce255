package karma

import (
	"github.com/immedha/firstlight/internal/config"
)

// Tier buckets derived from a user's karma total. Only listing order is
// affected by tiers; nothing else reads them.
const (
	TierGreat = 1
	TierMid   = 2
	TierBad   = 3
)

// Policy maps review quality ratings to karma deltas and karma totals to
// tiers. All methods are pure; thresholds and rewards come from config.
type Policy struct {
	startingKarma  int
	tier1Threshold int
	tier2Threshold int
	excellent      int
	neutral        int
	poor           int
}

func NewPolicy(cfg *config.Config) *Policy {
	return &Policy{
		startingKarma:  cfg.StartingKarma,
		tier1Threshold: cfg.Tier1Threshold,
		tier2Threshold: cfg.Tier2Threshold,
		excellent:      cfg.KarmaExcellent,
		neutral:        cfg.KarmaNeutral,
		poor:           cfg.KarmaPoor,
	}
}

// StartingKarma is the karma total assigned to a newly created user.
func (p *Policy) StartingKarma() int {
	return p.startingKarma
}

// DeltaForRating returns the karma change a reviewer earns when one of
// their reviews is rated. Rating must be 1..5; 0 means "unrated" and is
// the caller's responsibility to guard.
func (p *Policy) DeltaForRating(rating int) int {
	if rating >= 4 {
		return p.excellent
	}
	if rating == 3 {
		return p.neutral
	}
	return p.poor
}

// TierForKarma buckets a karma total into a tier. Karma has no floor, a
// deeply negative total still maps to TierBad.
func (p *Policy) TierForKarma(k int) int {
	if k >= p.tier1Threshold {
		return TierGreat
	}
	if k >= p.tier2Threshold {
		return TierMid
	}
	return TierBad
}

// TierName returns the display name for a tier.
func TierName(tier int) string {
	switch tier {
	case TierGreat:
		return "Great"
	case TierMid:
		return "Mid"
	default:
		return "Bad"
	}
}
