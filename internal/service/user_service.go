package service

import (
	"errors"

	"github.com/immedha/firstlight/internal/karma"
	"github.com/immedha/firstlight/internal/models"
	"github.com/immedha/firstlight/internal/repository"

	"gorm.io/gorm"
)

const leaderboardSize = 3

// LeaderboardEntry is one row of the karma leaderboard.
type LeaderboardEntry struct {
	UserID      string `json:"user_id"`
	DisplayName string `json:"display_name"`
	KarmaPoints int    `json:"karma_points"`
	Tier        int    `json:"tier"`
	TierName    string `json:"tier_name"`
}

type UserService interface {
	Get(userID string) (*models.User, error)
	Tier(user *models.User) int
	Leaderboard() ([]LeaderboardEntry, error)
	DisplayName(userID string) string
}

type userService struct {
	userRepo repository.UserRepository
	policy   *karma.Policy
}

func NewUserService(userRepo repository.UserRepository, policy *karma.Policy) UserService {
	return &userService{
		userRepo: userRepo,
		policy:   policy,
	}
}

func (s *userService) Get(userID string) (*models.User, error) {
	user, err := s.userRepo.FindByID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}

func (s *userService) Tier(user *models.User) int {
	return s.policy.TierForKarma(user.KarmaPoints)
}

// Leaderboard returns the top users by karma.
func (s *userService) Leaderboard() ([]LeaderboardEntry, error) {
	users, err := s.userRepo.TopByKarma(leaderboardSize)
	if err != nil {
		return nil, err
	}

	entries := make([]LeaderboardEntry, 0, len(users))
	for _, u := range users {
		tier := s.policy.TierForKarma(u.KarmaPoints)
		entries = append(entries, LeaderboardEntry{
			UserID:      u.ID,
			DisplayName: u.DisplayName,
			KarmaPoints: u.KarmaPoints,
			Tier:        tier,
			TierName:    karma.TierName(tier),
		})
	}
	return entries, nil
}

// DisplayName resolves a user id to a display name, falling back to a
// truncated-id label when the user is missing or has no name set.
func (s *userService) DisplayName(userID string) string {
	fallback := userID
	if len(fallback) > 8 {
		fallback = fallback[:8]
	}
	fallback = "User " + fallback

	user, err := s.userRepo.FindByID(userID)
	if err != nil || user.DisplayName == "" {
		return fallback
	}
	return user.DisplayName
}
