package transport

import (
	"net/http"

	"powermed-api/internal/middleware"
	"powermed-api/internal/repository"
	"powermed-api/internal/service"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// CategoryHandler handles HTTP requests for category operations.
type CategoryHandler struct {
	categoryService service.CategoryService
	logger          *zap.Logger
}

// NewCategoryHandler creates a new CategoryHandler.
func NewCategoryHandler(categoryService service.CategoryService, logger *zap.Logger) *CategoryHandler {
	return &CategoryHandler{
		categoryService: categoryService,
		logger:          logger,
	}
}

// RegisterRoutes registers all category routes. Reads are public; writes
// are admin-only.
func (h *CategoryHandler) RegisterRoutes(r chi.Router, requireAuth, requireAdmin func(http.Handler) http.Handler) {
	r.Route("/api/categories", func(r chi.Router) {
		r.Get("/", h.List)
		r.Get("/{id}", h.Get)

		r.Group(func(r chi.Router) {
			r.Use(requireAuth)
			r.Use(requireAdmin)
			r.Post("/", h.Create)
			r.Put("/{id}", h.Update)
			r.Delete("/{id}", h.Delete)
		})
	})
}

// List returns active categories in creation order.
func (h *CategoryHandler) List(w http.ResponseWriter, r *http.Request) {
	categories, err := h.categoryService.List(r.Context())
	if err != nil {
		h.logger.Error("Failed to list categories", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to list categories")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, categories)
}

// Get returns a single category.
func (h *CategoryHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		middleware.RespondWithError(w, http.StatusNotFound, "Category not found")
		return
	}

	category, err := h.categoryService.Get(r.Context(), id)
	if err != nil {
		if err == repository.ErrCategoryNotFound {
			middleware.RespondWithError(w, http.StatusNotFound, "Category not found")
			return
		}
		h.logger.Error("Failed to get category", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to get category")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, category)
}

// Create creates a category from a multipart form. The image is optional
// and its upload is best-effort.
func (h *CategoryHandler) Create(w http.ResponseWriter, r *http.Request) {
	if err := parseForm(r); err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid form data")
		return
	}

	name, _ := formValue(r, "name")
	if name == "" {
		middleware.RespondWithError(w, http.StatusBadRequest, "Category name is required")
		return
	}

	image, closeImage, err := formImage(r)
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "Only image files are allowed")
		return
	}
	defer closeImage()

	category, err := h.categoryService.Create(r.Context(), name, image)
	if err != nil {
		switch err {
		case service.ErrCategoryNameRequired:
			middleware.RespondWithError(w, http.StatusBadRequest, "Category name is required")
		case service.ErrCategoryExists:
			// Conflict answers 400 here, not 409, by API convention.
			middleware.RespondWithError(w, http.StatusBadRequest, "Category already exists")
		default:
			h.logger.Error("Failed to create category", zap.Error(err))
			middleware.RespondWithError(w, http.StatusInternalServerError, "failed to create category")
		}
		return
	}

	h.logger.Info("Category created",
		zap.String("category_id", category.ID.String()),
		zap.String("slug", category.Slug),
	)
	middleware.RespondWithJSON(w, http.StatusCreated, category)
}

// Update applies a partial category update from a multipart form.
func (h *CategoryHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		middleware.RespondWithError(w, http.StatusNotFound, "Category not found")
		return
	}

	if err := parseForm(r); err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid form data")
		return
	}

	input := service.UpdateCategoryInput{}

	if name, ok := formValue(r, "name"); ok && name != "" {
		input.Name = &name
	}
	if raw, ok := formValue(r, "isActive"); ok {
		active := parseFormBool(raw)
		input.IsActive = &active
	}

	image, closeImage, err := formImage(r)
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "Only image files are allowed")
		return
	}
	defer closeImage()
	input.Image = image

	category, err := h.categoryService.Update(r.Context(), id, input)
	if err != nil {
		switch err {
		case repository.ErrCategoryNotFound:
			middleware.RespondWithError(w, http.StatusNotFound, "Category not found")
		case service.ErrCategoryNameTaken:
			middleware.RespondWithError(w, http.StatusBadRequest, "Category name already exists")
		default:
			h.logger.Error("Failed to update category", zap.Error(err))
			middleware.RespondWithError(w, http.StatusInternalServerError, "failed to update category")
		}
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, category)
}

// Delete hard-deletes a category. Products referencing it are left alone.
func (h *CategoryHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		middleware.RespondWithError(w, http.StatusNotFound, "Category not found")
		return
	}

	if err := h.categoryService.Delete(r.Context(), id); err != nil {
		if err == repository.ErrCategoryNotFound {
			middleware.RespondWithError(w, http.StatusNotFound, "Category not found")
			return
		}
		h.logger.Error("Failed to delete category", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to delete category")
		return
	}

	h.logger.Info("Category deleted", zap.String("category_id", id.String()))
	middleware.RespondWithJSON(w, http.StatusOK, map[string]string{"message": "Category deleted successfully"})
}
