package handler

import (
	"errors"
	"net/http"

	"github.com/immedha/firstlight/internal/dto"
	"github.com/immedha/firstlight/internal/models"
	"github.com/immedha/firstlight/internal/service"

	"github.com/gin-gonic/gin"
)

type ProductHandler struct {
	productService service.ProductService
	listingService service.ListingService
	reviewService  service.ReviewService
	userService    service.UserService
}

func NewProductHandler(
	productService service.ProductService,
	listingService service.ListingService,
	reviewService service.ReviewService,
	userService service.UserService,
) *ProductHandler {
	return &ProductHandler{
		productService: productService,
		listingService: listingService,
		reviewService:  reviewService,
		userService:    userService,
	}
}

// RegisterRoutes registers product routes. The list and detail routes
// sit behind optional auth (anonymous viewers are allowed); the write
// routes are registered on the authenticated group by the caller.
func (h *ProductHandler) RegisterRoutes(public, authed *gin.RouterGroup) {
	public.GET("/products", h.List)
	public.GET("/products/:id", h.Get)

	authed.POST("/products", h.Create)
	authed.PUT("/products/:id", h.Update)
	authed.POST("/products/:id/publish", h.Publish)
	authed.GET("/products/mine", h.Mine)
}

// List returns published products ordered for the viewer
// GET /api/products
func (h *ProductHandler) List(c *gin.Context) {
	viewerID := ""
	if id, exists := c.Get("userID"); exists {
		viewerID = id.(string)
	}

	products, err := h.listingService.ListForViewer(c.Request.Context(), viewerID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, dto.ProductListResponse{
		Products: products,
		Total:    len(products),
	})
}

// Get returns one product with derived display fields
// GET /api/products/:id
func (h *ProductHandler) Get(c *gin.Context) {
	product, err := h.productService.Get(c.Param("id"))
	if err != nil {
		if errors.Is(err, service.ErrProductNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	count, err := h.reviewService.CountForProduct(product.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, dto.ProductResponse{
		Product:      product,
		DisplayImage: product.DisplayImage(),
		FounderName:  h.userService.DisplayName(product.FounderID),
		ReviewCount:  count,
	})
}

// Create stores a new draft owned by the caller
// POST /api/products
func (h *ProductHandler) Create(c *gin.Context) {
	userID, exists := c.Get("userID")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var req dto.SaveProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	product, err := h.productService.Create(userID.(string), toProductInput(req))
	if err != nil {
		respondProductError(c, err)
		return
	}

	c.JSON(http.StatusCreated, product)
}

// Update edits a draft
// PUT /api/products/:id
func (h *ProductHandler) Update(c *gin.Context) {
	userID, exists := c.Get("userID")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var req dto.SaveProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	product, err := h.productService.Update(userID.(string), c.Param("id"), toProductInput(req))
	if err != nil {
		respondProductError(c, err)
		return
	}

	c.JSON(http.StatusOK, product)
}

// Publish moves a draft to published
// POST /api/products/:id/publish
func (h *ProductHandler) Publish(c *gin.Context) {
	userID, exists := c.Get("userID")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	product, err := h.productService.Publish(userID.(string), c.Param("id"))
	if err != nil {
		respondProductError(c, err)
		return
	}

	c.JSON(http.StatusOK, product)
}

// Mine lists the caller's own products, drafts included
// GET /api/products/mine
func (h *ProductHandler) Mine(c *gin.Context) {
	userID, exists := c.Get("userID")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	products, err := h.productService.ListByFounder(userID.(string))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, dto.ProductListResponse{
		Products: products,
		Total:    len(products),
	})
}

func toProductInput(req dto.SaveProductRequest) service.ProductInput {
	images := make([]models.ProductImage, 0, len(req.Images))
	for _, img := range req.Images {
		images = append(images, models.ProductImage{URL: img.URL, IsPrimary: img.IsPrimary})
	}
	schema := make([]models.QuestionSpec, 0, len(req.ReviewSchema))
	for _, q := range req.ReviewSchema {
		schema = append(schema, models.QuestionSpec{Question: q.Question, Type: q.Type, Choices: q.Choices})
	}
	return service.ProductInput{
		Name:              req.Name,
		Description:       req.Description,
		Link:              req.Link,
		ImageURL:          req.ImageURL,
		Images:            images,
		ReviewSchema:      schema,
		FeedbackObjective: req.FeedbackObjective,
	}
}

// respondProductError maps lifecycle and validation failures onto HTTP
// statuses.
func respondProductError(c *gin.Context, err error) {
	switch {
	case service.IsValidationError(err):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrProductNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrNotProductFounder):
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrAlreadyPublished), errors.Is(err, service.ErrEditNotAllowed):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrAuthenticationRequired):
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}
