package handler

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/immedha/firstlight/internal/dto"
	"github.com/immedha/firstlight/internal/models"
	"github.com/immedha/firstlight/internal/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func TestListProducts_Anonymous(t *testing.T) {
	mockListingService := new(MockListingService)
	mockListingService.On("ListForViewer", mock.Anything, "").Return([]models.Product{
		{ID: "p1", Name: "First"},
		{ID: "p2", Name: "Second"},
	}, nil)

	handler := NewProductHandler(new(MockProductService), mockListingService, new(MockReviewService), new(MockUserService))
	router := setupRouter()
	router.GET("/products", handler.List)

	req, _ := http.NewRequest("GET", "/products", nil)
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var response dto.ProductListResponse
	json.Unmarshal(w.Body.Bytes(), &response)
	assert.Equal(t, 2, response.Total)
	assert.Equal(t, "p1", response.Products[0].ID)

	mockListingService.AssertExpectations(t)
}

func TestListProducts_KnownViewer(t *testing.T) {
	mockListingService := new(MockListingService)
	mockListingService.On("ListForViewer", mock.Anything, "user-1").Return([]models.Product{}, nil)

	handler := NewProductHandler(new(MockProductService), mockListingService, new(MockReviewService), new(MockUserService))
	router := setupRouter()
	router.GET("/products", fakeAuth("user-1"), handler.List)

	req, _ := http.NewRequest("GET", "/products", nil)
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	mockListingService.AssertExpectations(t)
}

func TestGetProduct_Success(t *testing.T) {
	product := &models.Product{
		ID:        "p1",
		FounderID: "founder-1",
		Name:      "Demo App",
		Status:    models.StatusPublished,
		Images:    []models.ProductImage{{URL: "/img/a.png", IsPrimary: true}},
	}

	mockProductService := new(MockProductService)
	mockProductService.On("Get", "p1").Return(product, nil)

	mockReviewService := new(MockReviewService)
	mockReviewService.On("CountForProduct", "p1").Return(int64(7), nil)

	mockUserService := new(MockUserService)
	mockUserService.On("DisplayName", "founder-1").Return("Ada")

	handler := NewProductHandler(mockProductService, new(MockListingService), mockReviewService, mockUserService)
	router := setupRouter()
	router.GET("/products/:id", handler.Get)

	req, _ := http.NewRequest("GET", "/products/p1", nil)
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var response dto.ProductResponse
	json.Unmarshal(w.Body.Bytes(), &response)
	assert.Equal(t, "p1", response.Product.ID)
	assert.Equal(t, "/img/a.png", response.DisplayImage)
	assert.Equal(t, "Ada", response.FounderName)
	assert.Equal(t, int64(7), response.ReviewCount)
}

func TestGetProduct_NotFound(t *testing.T) {
	mockProductService := new(MockProductService)
	mockProductService.On("Get", "missing").Return(nil, service.ErrProductNotFound)

	handler := NewProductHandler(mockProductService, new(MockListingService), new(MockReviewService), new(MockUserService))
	router := setupRouter()
	router.GET("/products/:id", handler.Get)

	req, _ := http.NewRequest("GET", "/products/missing", nil)
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestCreateProduct_Success(t *testing.T) {
	mockProductService := new(MockProductService)
	mockProductService.On("Create", "user-1", mock.AnythingOfType("service.ProductInput")).
		Return(&models.Product{ID: "p1", FounderID: "user-1", Name: "Demo App", Status: models.StatusDraft}, nil)

	handler := NewProductHandler(mockProductService, new(MockListingService), new(MockReviewService), new(MockUserService))
	router := setupRouter()
	router.POST("/products", fakeAuth("user-1"), handler.Create)

	body, _ := json.Marshal(dto.SaveProductRequest{Name: "Demo App"})

	req, _ := http.NewRequest("POST", "/products", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusCreated, w.Code)
	mockProductService.AssertExpectations(t)
}

func TestCreateProduct_Unauthenticated(t *testing.T) {
	handler := NewProductHandler(new(MockProductService), new(MockListingService), new(MockReviewService), new(MockUserService))
	router := setupRouter()
	router.POST("/products", handler.Create)

	body, _ := json.Marshal(dto.SaveProductRequest{Name: "Demo App"})

	req, _ := http.NewRequest("POST", "/products", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestUpdateProduct_Published(t *testing.T) {
	mockProductService := new(MockProductService)
	mockProductService.On("Update", "user-1", "p1", mock.AnythingOfType("service.ProductInput")).
		Return(nil, service.ErrEditNotAllowed)

	handler := NewProductHandler(mockProductService, new(MockListingService), new(MockReviewService), new(MockUserService))
	router := setupRouter()
	router.PUT("/products/:id", fakeAuth("user-1"), handler.Update)

	body, _ := json.Marshal(dto.SaveProductRequest{Name: "Demo App"})

	req, _ := http.NewRequest("PUT", "/products/p1", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestPublishProduct_IncompleteDraft(t *testing.T) {
	mockProductService := new(MockProductService)
	mockProductService.On("Publish", "user-1", "p1").
		Return(nil, &service.ValidationError{Field: "description", Reason: "must not be empty"})

	handler := NewProductHandler(mockProductService, new(MockListingService), new(MockReviewService), new(MockUserService))
	router := setupRouter()
	router.POST("/products/:id/publish", fakeAuth("user-1"), handler.Publish)

	req, _ := http.NewRequest("POST", "/products/p1/publish", nil)
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestPublishProduct_NotFounder(t *testing.T) {
	mockProductService := new(MockProductService)
	mockProductService.On("Publish", "user-1", "p1").Return(nil, service.ErrNotProductFounder)

	handler := NewProductHandler(mockProductService, new(MockListingService), new(MockReviewService), new(MockUserService))
	router := setupRouter()
	router.POST("/products/:id/publish", fakeAuth("user-1"), handler.Publish)

	req, _ := http.NewRequest("POST", "/products/p1/publish", nil)
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestMineProducts(t *testing.T) {
	mockProductService := new(MockProductService)
	mockProductService.On("ListByFounder", "user-1").Return([]models.Product{
		{ID: "p1", Status: models.StatusDraft},
		{ID: "p2", Status: models.StatusPublished},
	}, nil)

	handler := NewProductHandler(mockProductService, new(MockListingService), new(MockReviewService), new(MockUserService))
	router := setupRouter()
	router.GET("/products/mine", fakeAuth("user-1"), handler.Mine)

	req, _ := http.NewRequest("GET", "/products/mine", nil)
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var response dto.ProductListResponse
	json.Unmarshal(w.Body.Bytes(), &response)
	assert.Equal(t, 2, response.Total)
}
