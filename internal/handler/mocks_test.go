package handler

import (
	"context"

	"github.com/immedha/firstlight/internal/models"
	"github.com/immedha/firstlight/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/mock"
)

func setupRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	return gin.New()
}

// fakeAuth stands in for the auth middleware and stamps a fixed user id
// on every request.
func fakeAuth(userID string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set("userID", userID)
		c.Next()
	}
}

// MockAuthService mocks the AuthService interface
type MockAuthService struct {
	mock.Mock
}

func (m *MockAuthService) Register(email, password, displayName string) (*models.User, error) {
	args := m.Called(email, password, displayName)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockAuthService) Login(email, password string) (string, string, *models.User, error) {
	args := m.Called(email, password)
	if args.Get(2) == nil {
		return args.String(0), args.String(1), nil, args.Error(3)
	}
	return args.String(0), args.String(1), args.Get(2).(*models.User), args.Error(3)
}

func (m *MockAuthService) RefreshAccessToken(refreshToken string) (string, error) {
	args := m.Called(refreshToken)
	return args.String(0), args.Error(1)
}

func (m *MockAuthService) ValidateToken(tokenString string) (*service.Claims, error) {
	args := m.Called(tokenString)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.Claims), args.Error(1)
}

// MockProductService mocks the ProductService interface
type MockProductService struct {
	mock.Mock
}

func (m *MockProductService) Create(founderID string, in service.ProductInput) (*models.Product, error) {
	args := m.Called(founderID, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Product), args.Error(1)
}

func (m *MockProductService) Update(founderID, productID string, in service.ProductInput) (*models.Product, error) {
	args := m.Called(founderID, productID, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Product), args.Error(1)
}

func (m *MockProductService) Publish(founderID, productID string) (*models.Product, error) {
	args := m.Called(founderID, productID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Product), args.Error(1)
}

func (m *MockProductService) Get(productID string) (*models.Product, error) {
	args := m.Called(productID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Product), args.Error(1)
}

func (m *MockProductService) ListByFounder(founderID string) ([]models.Product, error) {
	args := m.Called(founderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Product), args.Error(1)
}

// MockListingService mocks the ListingService interface
type MockListingService struct {
	mock.Mock
}

func (m *MockListingService) ListForViewer(ctx context.Context, viewerID string) ([]models.Product, error) {
	args := m.Called(ctx, viewerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Product), args.Error(1)
}

// MockReviewService mocks the ReviewService interface
type MockReviewService struct {
	mock.Mock
}

func (m *MockReviewService) Submit(reviewerID, productID string, answers []models.FilledQuestion) (*models.Review, error) {
	args := m.Called(reviewerID, productID, answers)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Review), args.Error(1)
}

func (m *MockReviewService) Rate(callerID, reviewID string, quality int) (*models.Review, error) {
	args := m.Called(callerID, reviewID, quality)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Review), args.Error(1)
}

func (m *MockReviewService) ListForUser(userID string) ([]models.Review, error) {
	args := m.Called(userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Review), args.Error(1)
}

func (m *MockReviewService) CountForProduct(productID string) (int64, error) {
	args := m.Called(productID)
	return args.Get(0).(int64), args.Error(1)
}

// MockUserService mocks the UserService interface
type MockUserService struct {
	mock.Mock
}

func (m *MockUserService) Get(userID string) (*models.User, error) {
	args := m.Called(userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserService) Tier(user *models.User) int {
	args := m.Called(user)
	return args.Int(0)
}

func (m *MockUserService) Leaderboard() ([]service.LeaderboardEntry, error) {
	args := m.Called()
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]service.LeaderboardEntry), args.Error(1)
}

func (m *MockUserService) DisplayName(userID string) string {
	args := m.Called(userID)
	return args.String(0)
}
