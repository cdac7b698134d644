package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"powermed-api/internal/domain"
	"powermed-api/internal/repository"
	"powermed-api/internal/storage"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

var (
	ErrCategoryNameRequired = errors.New("category name is required")
	ErrCategoryExists       = errors.New("category already exists")
	ErrCategoryNameTaken    = errors.New("category name already exists")
)

// ImageUpload is a pending image file received from a multipart request.
type ImageUpload struct {
	Body        io.Reader
	ContentType string
}

// UpdateCategoryInput carries a partial category update. Nil fields are
// left untouched.
type UpdateCategoryInput struct {
	Name     *string
	IsActive *bool
	Image    *ImageUpload
}

// CategoryService defines the interface for category business logic.
type CategoryService interface {
	List(ctx context.Context) ([]*domain.Category, error)
	Get(ctx context.Context, id uuid.UUID) (*domain.Category, error)
	Create(ctx context.Context, name string, image *ImageUpload) (*domain.Category, error)
	Update(ctx context.Context, id uuid.UUID, input UpdateCategoryInput) (*domain.Category, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type categoryService struct {
	categoryRepo repository.CategoryRepository
	uploader     storage.Uploader
	logger       *zap.Logger
}

// NewCategoryService creates a new instance of CategoryService.
func NewCategoryService(categoryRepo repository.CategoryRepository, uploader storage.Uploader, logger *zap.Logger) CategoryService {
	return &categoryService{
		categoryRepo: categoryRepo,
		uploader:     uploader,
		logger:       logger,
	}
}

// List returns active categories in creation order, oldest first.
func (s *categoryService) List(ctx context.Context) ([]*domain.Category, error) {
	categories, err := s.categoryRepo.ListActive(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}
	return categories, nil
}

// Get retrieves a single category.
func (s *categoryService) Get(ctx context.Context, id uuid.UUID) (*domain.Category, error) {
	return s.categoryRepo.FindByID(ctx, id)
}

// Create creates a category. The name must be unique; the check-then-insert
// is two operations and therefore racy under concurrent identical submits,
// with the unique index as the backstop. Image upload is best-effort: a
// failing upload is logged and the category is created without an image.
func (s *categoryService) Create(ctx context.Context, name string, image *ImageUpload) (*domain.Category, error) {
	if name == "" {
		return nil, ErrCategoryNameRequired
	}

	existing, err := s.categoryRepo.FindByName(ctx, name)
	if err != nil && err != repository.ErrCategoryNotFound {
		return nil, fmt.Errorf("failed to check existing category: %w", err)
	}
	if existing != nil {
		return nil, ErrCategoryExists
	}

	imageURL := s.uploadBestEffort(ctx, image, "create", name)

	now := time.Now()
	category := &domain.Category{
		ID:        uuid.New(),
		Name:      name,
		Slug:      domain.Slugify(name),
		Image:     imageURL,
		IsActive:  true,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.categoryRepo.Create(ctx, category); err != nil {
		if err == repository.ErrCategoryAlreadyExists {
			return nil, ErrCategoryExists
		}
		return nil, fmt.Errorf("failed to create category: %w", err)
	}

	return category, nil
}

// Update applies a partial update. Renaming re-checks uniqueness against
// all other categories and recomputes the slug. Image replacement is
// best-effort like Create: on upload failure the existing image stays.
func (s *categoryService) Update(ctx context.Context, id uuid.UUID, input UpdateCategoryInput) (*domain.Category, error) {
	category, err := s.categoryRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if input.Name != nil && *input.Name != "" && *input.Name != category.Name {
		existing, err := s.categoryRepo.FindByName(ctx, *input.Name)
		if err != nil && err != repository.ErrCategoryNotFound {
			return nil, fmt.Errorf("failed to check existing category: %w", err)
		}
		if existing != nil {
			return nil, ErrCategoryNameTaken
		}
		category.Name = *input.Name
		category.Slug = domain.Slugify(*input.Name)
	}

	if url := s.uploadBestEffort(ctx, input.Image, "update", category.Name); url != "" {
		category.Image = url
	}

	if input.IsActive != nil {
		category.IsActive = *input.IsActive
	}

	category.UpdatedAt = time.Now()

	if err := s.categoryRepo.Update(ctx, category); err != nil {
		if err == repository.ErrCategoryAlreadyExists {
			return nil, ErrCategoryNameTaken
		}
		return nil, fmt.Errorf("failed to update category: %w", err)
	}

	return category, nil
}

// Delete hard-deletes a category. Products referencing it keep their now
// dangling reference; there is no cascade and no referential integrity
// enforcement.
func (s *categoryService) Delete(ctx context.Context, id uuid.UUID) error {
	return s.categoryRepo.Delete(ctx, id)
}

// uploadBestEffort uploads an optional image and returns its URL, or ""
// when no image was given or the collaborator failed. Failures are logged,
// never surfaced.
func (s *categoryService) uploadBestEffort(ctx context.Context, image *ImageUpload, op, name string) string {
	if image == nil {
		return ""
	}

	url, err := s.uploader.Upload(ctx, image.Body, image.ContentType, storage.CategoryFolder)
	if err != nil {
		s.logger.Warn("Category image upload failed, continuing without image",
			zap.String("op", op),
			zap.String("category", name),
			zap.Error(err),
		)
		return ""
	}

	return url
}
