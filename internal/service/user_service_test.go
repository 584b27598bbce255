package service

import (
	"errors"
	"testing"

	"github.com/immedha/firstlight/internal/karma"
	"github.com/immedha/firstlight/internal/models"

	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

func TestGetUnknownUser(t *testing.T) {
	mockUserRepo := new(MockUserRepository)
	mockUserRepo.On("FindByID", "missing").Return(nil, gorm.ErrRecordNotFound)

	svc := NewUserService(mockUserRepo, testPolicy())

	user, err := svc.Get("missing")

	assert.Nil(t, user)
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestTier(t *testing.T) {
	svc := NewUserService(new(MockUserRepository), testPolicy())

	assert.Equal(t, karma.TierGreat, svc.Tier(&models.User{KarmaPoints: 120}))
	assert.Equal(t, karma.TierMid, svc.Tier(&models.User{KarmaPoints: 50}))
	assert.Equal(t, karma.TierBad, svc.Tier(&models.User{KarmaPoints: -10}))
}

func TestLeaderboard(t *testing.T) {
	mockUserRepo := new(MockUserRepository)
	mockUserRepo.On("TopByKarma", 3).Return([]models.User{
		{ID: "u1", DisplayName: "Ada", KarmaPoints: 150},
		{ID: "u2", DisplayName: "Grace", KarmaPoints: 80},
		{ID: "u3", DisplayName: "Linus", KarmaPoints: 20},
	}, nil)

	svc := NewUserService(mockUserRepo, testPolicy())

	entries, err := svc.Leaderboard()

	assert.NoError(t, err)
	assert.Len(t, entries, 3)
	assert.Equal(t, LeaderboardEntry{
		UserID: "u1", DisplayName: "Ada", KarmaPoints: 150,
		Tier: karma.TierGreat, TierName: "Great",
	}, entries[0])
	assert.Equal(t, "Mid", entries[1].TierName)
	assert.Equal(t, "Bad", entries[2].TierName)
}

func TestLeaderboardPropagatesError(t *testing.T) {
	mockUserRepo := new(MockUserRepository)
	mockUserRepo.On("TopByKarma", 3).Return(nil, errors.New("connection refused"))

	svc := NewUserService(mockUserRepo, testPolicy())

	entries, err := svc.Leaderboard()

	assert.Nil(t, entries)
	assert.Error(t, err)
}

func TestDisplayName(t *testing.T) {
	mockUserRepo := new(MockUserRepository)
	mockUserRepo.On("FindByID", "user-1").
		Return(&models.User{ID: "user-1", DisplayName: "Ada"}, nil)
	mockUserRepo.On("FindByID", "user-noname").
		Return(&models.User{ID: "user-noname"}, nil)
	mockUserRepo.On("FindByID", "0123456789abcdef").Return(nil, gorm.ErrRecordNotFound)

	svc := NewUserService(mockUserRepo, testPolicy())

	assert.Equal(t, "Ada", svc.DisplayName("user-1"))
	assert.Equal(t, "User user-non", svc.DisplayName("user-noname"))
	assert.Equal(t, "User 01234567", svc.DisplayName("0123456789abcdef"))
}
