package repository

import (
	"github.com/immedha/firstlight/internal/models"

	"gorm.io/gorm"
)

// ProductRepository defines the interface for product data operations.
type ProductRepository interface {
	Create(product *models.Product) error
	Save(product *models.Product) error
	FindByID(id string) (*models.Product, error)
	FindPublished() ([]models.Product, error)
	FindByFounder(founderID string) ([]models.Product, error)
}

// productRepository is the GORM implementation of ProductRepository.
type productRepository struct {
	db *gorm.DB
}

// NewProductRepository creates a new instance of ProductRepository in a GORM implementation
func NewProductRepository(db *gorm.DB) ProductRepository {
	return &productRepository{db: db}
}

func (r *productRepository) Create(product *models.Product) error {
	return r.db.Create(product).Error
}

// Save persists all fields of an existing product, including jsonb
// columns that GORM's Updates would skip when zero-valued.
func (r *productRepository) Save(product *models.Product) error {
	return r.db.Save(product).Error
}

func (r *productRepository) FindByID(id string) (*models.Product, error) {
	var product models.Product
	if err := r.db.First(&product, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &product, nil
}

// FindPublished returns all published products, newest first. This is
// the "store order" the listing sorter partitions for known viewers.
func (r *productRepository) FindPublished() ([]models.Product, error) {
	var products []models.Product
	err := r.db.Where("status = ?", models.StatusPublished).
		Order("created_at DESC").
		Find(&products).Error
	if err != nil {
		return nil, err
	}
	return products, nil
}

// FindByFounder returns every product a founder owns, drafts included,
// newest first.
func (r *productRepository) FindByFounder(founderID string) ([]models.Product, error) {
	var products []models.Product
	err := r.db.Where("founder_id = ?", founderID).
		Order("created_at DESC").
		Find(&products).Error
	if err != nil {
		return nil, err
	}
	return products, nil
}
