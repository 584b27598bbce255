package service

import (
	"testing"
	"time"

	"github.com/immedha/firstlight/internal/config"
	"github.com/immedha/firstlight/internal/middleware/auth"
	"github.com/immedha/firstlight/internal/models"
	"github.com/immedha/firstlight/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"gorm.io/gorm"
)

func testAuthConfig() *config.Config {
	return &config.Config{
		StartingKarma:   50,
		JWTSecret:       "test-secret",
		AccessTokenTTL:  15 * time.Minute,
		RefreshTokenTTL: 7 * 24 * time.Hour,
	}
}

func TestRegisterNewUser(t *testing.T) {
	mockUserRepo := new(MockUserRepository)
	mockUserRepo.On("FindByEmail", "ada@example.com").Return(nil, gorm.ErrRecordNotFound)
	mockUserRepo.On("Create", mock.AnythingOfType("*models.User")).Return(nil)

	svc := NewAuthService(mockUserRepo, new(MockRefreshTokenRepository), testAuthConfig())

	user, err := svc.Register("ada@example.com", "password123", "Ada")

	assert.NoError(t, err)
	assert.Equal(t, "ada@example.com", user.Email)
	assert.Equal(t, "Ada", user.DisplayName)
	assert.Equal(t, 50, user.KarmaPoints, "new accounts start at the configured karma total")
	assert.NotEqual(t, "password123", user.Password)
	assert.NoError(t, auth.VerifyPassword(user.Password, "password123"))
}

func TestRegisterExistingEmail(t *testing.T) {
	mockUserRepo := new(MockUserRepository)
	mockUserRepo.On("FindByEmail", "ada@example.com").Return(&models.User{Email: "ada@example.com"}, nil)

	svc := NewAuthService(mockUserRepo, new(MockRefreshTokenRepository), testAuthConfig())

	user, err := svc.Register("ada@example.com", "password123", "Ada")

	assert.Nil(t, user)
	assert.ErrorIs(t, err, ErrEmailInUse)
	mockUserRepo.AssertNotCalled(t, "Create", mock.Anything)
}

func TestRegisterConcurrentDuplicate(t *testing.T) {
	mockUserRepo := new(MockUserRepository)
	mockUserRepo.On("FindByEmail", "ada@example.com").Return(nil, gorm.ErrRecordNotFound)
	mockUserRepo.On("Create", mock.AnythingOfType("*models.User")).Return(repository.ErrDuplicateKey)

	svc := NewAuthService(mockUserRepo, new(MockRefreshTokenRepository), testAuthConfig())

	user, err := svc.Register("ada@example.com", "password123", "Ada")

	assert.Nil(t, user)
	assert.ErrorIs(t, err, ErrEmailInUse)
}

func TestLoginAndValidate(t *testing.T) {
	hashed, err := auth.HashPassword("password123")
	assert.NoError(t, err)

	stored := &models.User{ID: "user-1", Email: "ada@example.com", Password: hashed}

	mockUserRepo := new(MockUserRepository)
	mockUserRepo.On("FindByEmail", "ada@example.com").Return(stored, nil)

	mockTokenRepo := new(MockRefreshTokenRepository)
	mockTokenRepo.On("Create", mock.AnythingOfType("*models.RefreshToken")).Return(nil)

	svc := NewAuthService(mockUserRepo, mockTokenRepo, testAuthConfig())

	accessToken, refreshToken, user, err := svc.Login("ada@example.com", "password123")

	assert.NoError(t, err)
	assert.NotEmpty(t, accessToken)
	assert.NotEmpty(t, refreshToken)
	assert.Equal(t, "user-1", user.ID)

	claims, err := svc.ValidateToken(accessToken)
	assert.NoError(t, err)
	assert.Equal(t, "user-1", claims.UserID)
	assert.Equal(t, "ada@example.com", claims.Email)
}

func TestLoginWrongPassword(t *testing.T) {
	hashed, err := auth.HashPassword("password123")
	assert.NoError(t, err)

	mockUserRepo := new(MockUserRepository)
	mockUserRepo.On("FindByEmail", "ada@example.com").
		Return(&models.User{ID: "user-1", Email: "ada@example.com", Password: hashed}, nil)

	svc := NewAuthService(mockUserRepo, new(MockRefreshTokenRepository), testAuthConfig())

	_, _, user, err := svc.Login("ada@example.com", "wrong")

	assert.Nil(t, user)
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestLoginUnknownEmail(t *testing.T) {
	mockUserRepo := new(MockUserRepository)
	mockUserRepo.On("FindByEmail", "ghost@example.com").Return(nil, gorm.ErrRecordNotFound)

	svc := NewAuthService(mockUserRepo, new(MockRefreshTokenRepository), testAuthConfig())

	_, _, user, err := svc.Login("ghost@example.com", "password123")

	assert.Nil(t, user)
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestRefreshAccessToken(t *testing.T) {
	mockTokenRepo := new(MockRefreshTokenRepository)
	mockTokenRepo.On("FindByToken", "refresh-1").Return(&models.RefreshToken{
		ID:        "rt-1",
		UserID:    "user-1",
		Token:     "refresh-1",
		ExpiresAt: time.Now().Add(time.Hour),
	}, nil)

	mockUserRepo := new(MockUserRepository)
	mockUserRepo.On("FindByID", "user-1").
		Return(&models.User{ID: "user-1", Email: "ada@example.com"}, nil)

	svc := NewAuthService(mockUserRepo, mockTokenRepo, testAuthConfig())

	accessToken, err := svc.RefreshAccessToken("refresh-1")

	assert.NoError(t, err)
	claims, err := svc.ValidateToken(accessToken)
	assert.NoError(t, err)
	assert.Equal(t, "user-1", claims.UserID)
}

func TestRefreshRevokedToken(t *testing.T) {
	mockTokenRepo := new(MockRefreshTokenRepository)
	mockTokenRepo.On("FindByToken", "refresh-1").Return(&models.RefreshToken{
		ID:        "rt-1",
		UserID:    "user-1",
		Token:     "refresh-1",
		ExpiresAt: time.Now().Add(time.Hour),
		Revoked:   true,
	}, nil)

	svc := NewAuthService(new(MockUserRepository), mockTokenRepo, testAuthConfig())

	_, err := svc.RefreshAccessToken("refresh-1")

	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestRefreshExpiredTokenIsDeleted(t *testing.T) {
	mockTokenRepo := new(MockRefreshTokenRepository)
	mockTokenRepo.On("FindByToken", "refresh-1").Return(&models.RefreshToken{
		ID:        "rt-1",
		UserID:    "user-1",
		Token:     "refresh-1",
		ExpiresAt: time.Now().Add(-time.Minute),
	}, nil)
	mockTokenRepo.On("Delete", "rt-1").Return(nil)

	svc := NewAuthService(new(MockUserRepository), mockTokenRepo, testAuthConfig())

	_, err := svc.RefreshAccessToken("refresh-1")

	assert.ErrorIs(t, err, ErrExpiredToken)
	mockTokenRepo.AssertCalled(t, "Delete", "rt-1")
}

func TestValidateGarbageToken(t *testing.T) {
	svc := NewAuthService(new(MockUserRepository), new(MockRefreshTokenRepository), testAuthConfig())

	claims, err := svc.ValidateToken("not.a.token")

	assert.Nil(t, claims)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestValidateExpiredToken(t *testing.T) {
	hashed, err := auth.HashPassword("password123")
	assert.NoError(t, err)

	mockUserRepo := new(MockUserRepository)
	mockUserRepo.On("FindByEmail", "ada@example.com").
		Return(&models.User{ID: "user-1", Email: "ada@example.com", Password: hashed}, nil)

	mockTokenRepo := new(MockRefreshTokenRepository)
	mockTokenRepo.On("Create", mock.AnythingOfType("*models.RefreshToken")).Return(nil)

	cfg := testAuthConfig()
	cfg.AccessTokenTTL = -time.Minute // issued already expired
	svc := NewAuthService(mockUserRepo, mockTokenRepo, cfg)

	accessToken, _, _, err := svc.Login("ada@example.com", "password123")
	assert.NoError(t, err)

	claims, err := svc.ValidateToken(accessToken)

	assert.Nil(t, claims)
	assert.ErrorIs(t, err, ErrExpiredToken)
}
