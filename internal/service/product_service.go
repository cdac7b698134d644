package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"powermed-api/internal/domain"
	"powermed-api/internal/repository"
	"powermed-api/internal/storage"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

var (
	ErrProductFieldsRequired = errors.New("name, price, and category are required")
	ErrProductImageRequired  = errors.New("product image is required")
	ErrInvalidPrice          = errors.New("price must be a positive number")

	// ErrUploadFailed is the fatal variant of an upload failure. Products
	// require an image, so unlike categories the request fails.
	ErrUploadFailed = errors.New("failed to upload image")
)

// CreateProductInput carries the fields for product creation. Image is
// mandatory.
type CreateProductInput struct {
	Name         string
	Brand        string
	Price        float64
	CategoryID   uuid.UUID
	CategoryType string
	Description  string
	Stock        int
	FAQs         []domain.FAQ
	Image        *ImageUpload
}

// UpdateProductInput carries a partial product update. Nil fields are left
// untouched.
type UpdateProductInput struct {
	Name         *string
	Brand        *string
	Price        *float64
	CategoryID   *uuid.UUID
	CategoryType *string
	Description  *string
	Stock        *int
	FAQs         []domain.FAQ
	IsActive     *bool
	IsFeatured   *bool
	Image        *ImageUpload
}

// ProductService defines the interface for product business logic.
type ProductService interface {
	List(ctx context.Context, filter repository.ProductFilter) ([]*domain.Product, error)
	Get(ctx context.Context, id uuid.UUID) (*domain.Product, error)
	Create(ctx context.Context, input CreateProductInput) (*domain.Product, error)
	Update(ctx context.Context, id uuid.UUID, input UpdateProductInput) (*domain.Product, error)
	Delete(ctx context.Context, id uuid.UUID) error
	IncrementViews(ctx context.Context, id uuid.UUID) (int64, error)
}

type productService struct {
	productRepo  repository.ProductRepository
	categoryRepo repository.CategoryRepository
	uploader     storage.Uploader
	logger       *zap.Logger
}

// NewProductService creates a new instance of ProductService.
func NewProductService(
	productRepo repository.ProductRepository,
	categoryRepo repository.CategoryRepository,
	uploader storage.Uploader,
	logger *zap.Logger,
) ProductService {
	return &productService{
		productRepo:  productRepo,
		categoryRepo: categoryRepo,
		uploader:     uploader,
		logger:       logger,
	}
}

// List returns products newest first with the given filters applied.
func (s *productService) List(ctx context.Context, filter repository.ProductFilter) ([]*domain.Product, error) {
	products, err := s.productRepo.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}
	return products, nil
}

// Get retrieves a single product with its category projected.
func (s *productService) Get(ctx context.Context, id uuid.UUID) (*domain.Product, error) {
	return s.productRepo.FindByID(ctx, id)
}

// Create creates a product. The category must exist at creation time
// (checked synchronously; not enforced by the database) and the image is
// mandatory — here an upload failure IS fatal, unlike category images.
func (s *productService) Create(ctx context.Context, input CreateProductInput) (*domain.Product, error) {
	if input.Name == "" || input.CategoryID == uuid.Nil {
		return nil, ErrProductFieldsRequired
	}
	if input.Price < 0 {
		return nil, ErrInvalidPrice
	}

	if _, err := s.categoryRepo.FindByID(ctx, input.CategoryID); err != nil {
		if err == repository.ErrCategoryNotFound {
			return nil, repository.ErrCategoryNotFound
		}
		return nil, fmt.Errorf("failed to check category: %w", err)
	}

	if input.Image == nil {
		return nil, ErrProductImageRequired
	}

	imageURL, err := s.uploader.Upload(ctx, input.Image.Body, input.Image.ContentType, storage.ProductFolder)
	if err != nil {
		s.logger.Error("Product image upload failed", zap.String("product", input.Name), zap.Error(err))
		return nil, fmt.Errorf("%w: %v", ErrUploadFailed, err)
	}

	brand := input.Brand
	if brand == "" {
		brand = domain.DefaultBrand
	}

	faqs := input.FAQs
	if faqs == nil {
		faqs = []domain.FAQ{}
	}

	now := time.Now()
	product := &domain.Product{
		ID:           uuid.New(),
		Name:         input.Name,
		Brand:        brand,
		Price:        input.Price,
		CategoryID:   input.CategoryID,
		Image:        imageURL,
		CategoryType: input.CategoryType,
		Description:  input.Description,
		Stock:        input.Stock,
		FAQs:         faqs,
		IsActive:     true,
		IsFeatured:   false,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.productRepo.Create(ctx, product); err != nil {
		return nil, fmt.Errorf("failed to create product: %w", err)
	}

	// Re-read so the response carries the category projection.
	return s.productRepo.FindByID(ctx, product.ID)
}

// Update applies a partial update. A changed category is re-validated; a
// new image must upload successfully or the request fails; omitting the
// image keeps the existing one.
func (s *productService) Update(ctx context.Context, id uuid.UUID, input UpdateProductInput) (*domain.Product, error) {
	product, err := s.productRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if input.CategoryID != nil && *input.CategoryID != product.CategoryID {
		if _, err := s.categoryRepo.FindByID(ctx, *input.CategoryID); err != nil {
			if err == repository.ErrCategoryNotFound {
				return nil, repository.ErrCategoryNotFound
			}
			return nil, fmt.Errorf("failed to check category: %w", err)
		}
		product.CategoryID = *input.CategoryID
	}

	if input.Image != nil {
		imageURL, err := s.uploader.Upload(ctx, input.Image.Body, input.Image.ContentType, storage.ProductFolder)
		if err != nil {
			s.logger.Error("Product image upload failed", zap.String("product_id", id.String()), zap.Error(err))
			return nil, fmt.Errorf("%w: %v", ErrUploadFailed, err)
		}
		product.Image = imageURL
	}

	if input.Name != nil && *input.Name != "" {
		product.Name = *input.Name
	}
	if input.Brand != nil && *input.Brand != "" {
		product.Brand = *input.Brand
	}
	if input.Price != nil {
		if *input.Price < 0 {
			return nil, ErrInvalidPrice
		}
		product.Price = *input.Price
	}
	if input.CategoryType != nil {
		product.CategoryType = *input.CategoryType
	}
	if input.Description != nil {
		product.Description = *input.Description
	}
	if input.Stock != nil {
		product.Stock = *input.Stock
	}
	if input.FAQs != nil {
		product.FAQs = input.FAQs
	}
	if input.IsActive != nil {
		product.IsActive = *input.IsActive
	}
	if input.IsFeatured != nil {
		product.IsFeatured = *input.IsFeatured
	}

	product.UpdatedAt = time.Now()

	if err := s.productRepo.Update(ctx, product); err != nil {
		return nil, fmt.Errorf("failed to update product: %w", err)
	}

	return s.productRepo.FindByID(ctx, id)
}

// Delete hard-deletes a product. No cascade cleanup anywhere.
func (s *productService) Delete(ctx context.Context, id uuid.UUID) error {
	return s.productRepo.Delete(ctx, id)
}

// IncrementViews bumps the view counter by one and returns the new count.
// Public and unauthenticated; repeated calls from the same client all
// count — that imprecision is accepted, not a bug.
func (s *productService) IncrementViews(ctx context.Context, id uuid.UUID) (int64, error) {
	return s.productRepo.IncrementViews(ctx, id)
}
