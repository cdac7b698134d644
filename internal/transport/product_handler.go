package transport

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"powermed-api/internal/domain"
	"powermed-api/internal/middleware"
	"powermed-api/internal/repository"
	"powermed-api/internal/service"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ProductHandler handles HTTP requests for product operations.
type ProductHandler struct {
	productService service.ProductService
	logger         *zap.Logger
}

// NewProductHandler creates a new ProductHandler.
func NewProductHandler(productService service.ProductService, logger *zap.Logger) *ProductHandler {
	return &ProductHandler{
		productService: productService,
		logger:         logger,
	}
}

// RegisterRoutes registers all product routes. Reads and the view counter
// are public; writes are admin-only.
func (h *ProductHandler) RegisterRoutes(r chi.Router, requireAuth, requireAdmin func(http.Handler) http.Handler) {
	r.Route("/api/products", func(r chi.Router) {
		r.Get("/", h.List)
		r.Get("/{id}", h.Get)
		r.Post("/{id}/view", h.IncrementView)

		r.Group(func(r chi.Router) {
			r.Use(requireAuth)
			r.Use(requireAdmin)
			r.Post("/", h.Create)
			r.Put("/{id}", h.Update)
			r.Delete("/{id}", h.Delete)
		})
	})
}

// List returns products newest first, optionally filtered by category,
// text search, and active flag.
func (h *ProductHandler) List(w http.ResponseWriter, r *http.Request) {
	filter := repository.ProductFilter{
		Search: r.URL.Query().Get("search"),
	}

	if raw := r.URL.Query().Get("category"); raw != "" {
		categoryID, err := uuid.Parse(raw)
		if err != nil {
			middleware.RespondWithError(w, http.StatusBadRequest, "Invalid category id")
			return
		}
		filter.CategoryID = &categoryID
	}

	if raw := r.URL.Query().Get("isActive"); raw != "" {
		active := parseFormBool(raw)
		filter.IsActive = &active
	}

	products, err := h.productService.List(r.Context(), filter)
	if err != nil {
		h.logger.Error("Failed to list products", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to list products")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, products)
}

// Get returns a single product with its category projected.
func (h *ProductHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		middleware.RespondWithError(w, http.StatusNotFound, "Product not found")
		return
	}

	product, err := h.productService.Get(r.Context(), id)
	if err != nil {
		if err == repository.ErrProductNotFound {
			middleware.RespondWithError(w, http.StatusNotFound, "Product not found")
			return
		}
		h.logger.Error("Failed to get product", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to get product")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, product)
}

// Create creates a product from a multipart form. The image is mandatory
// and its upload failure is fatal, unlike categories.
func (h *ProductHandler) Create(w http.ResponseWriter, r *http.Request) {
	if err := parseForm(r); err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid form data")
		return
	}

	name, _ := formValue(r, "name")
	priceRaw, _ := formValue(r, "price")
	categoryRaw, _ := formValue(r, "category")
	if name == "" || priceRaw == "" || categoryRaw == "" {
		middleware.RespondWithError(w, http.StatusBadRequest, "Name, price, and category are required")
		return
	}

	price, err := strconv.ParseFloat(priceRaw, 64)
	if err != nil || price < 0 {
		middleware.RespondWithError(w, http.StatusBadRequest, "Price must be a positive number")
		return
	}

	categoryID, err := uuid.Parse(categoryRaw)
	if err != nil {
		middleware.RespondWithError(w, http.StatusNotFound, "Category not found")
		return
	}

	input := service.CreateProductInput{
		Name:       name,
		Price:      price,
		CategoryID: categoryID,
	}
	input.Brand, _ = formValue(r, "brand")
	input.CategoryType, _ = formValue(r, "categoryType")
	input.Description, _ = formValue(r, "description")

	if raw, ok := formValue(r, "stock"); ok && raw != "" {
		stock, err := strconv.Atoi(raw)
		if err != nil {
			middleware.RespondWithError(w, http.StatusBadRequest, "Invalid stock value")
			return
		}
		input.Stock = stock
	}

	if raw, ok := formValue(r, "faqs"); ok && raw != "" {
		faqs, err := parseFAQs(raw)
		if err != nil {
			middleware.RespondWithError(w, http.StatusBadRequest, "Invalid faqs value")
			return
		}
		input.FAQs = faqs
	}

	image, closeImage, err := formImage(r)
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "Only image files are allowed")
		return
	}
	defer closeImage()
	if image == nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "Product image is required")
		return
	}
	input.Image = image

	product, err := h.productService.Create(r.Context(), input)
	if err != nil {
		h.respondProductError(w, err, "Failed to create product")
		return
	}

	h.logger.Info("Product created", zap.String("product_id", product.ID.String()))
	middleware.RespondWithJSON(w, http.StatusCreated, product)
}

// Update applies a partial product update from a multipart form. Only
// provided fields are mutated; an omitted image keeps the existing one.
func (h *ProductHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		middleware.RespondWithError(w, http.StatusNotFound, "Product not found")
		return
	}

	if err := parseForm(r); err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid form data")
		return
	}

	input := service.UpdateProductInput{}

	if name, ok := formValue(r, "name"); ok && name != "" {
		input.Name = &name
	}
	if brand, ok := formValue(r, "brand"); ok && brand != "" {
		input.Brand = &brand
	}
	if raw, ok := formValue(r, "price"); ok && raw != "" {
		price, err := strconv.ParseFloat(raw, 64)
		if err != nil || price < 0 {
			middleware.RespondWithError(w, http.StatusBadRequest, "Price must be a positive number")
			return
		}
		input.Price = &price
	}
	if raw, ok := formValue(r, "category"); ok && raw != "" {
		categoryID, err := uuid.Parse(raw)
		if err != nil {
			middleware.RespondWithError(w, http.StatusNotFound, "Category not found")
			return
		}
		input.CategoryID = &categoryID
	}
	if v, ok := formValue(r, "categoryType"); ok {
		input.CategoryType = &v
	}
	if v, ok := formValue(r, "description"); ok {
		input.Description = &v
	}
	if raw, ok := formValue(r, "stock"); ok && raw != "" {
		stock, err := strconv.Atoi(raw)
		if err != nil {
			middleware.RespondWithError(w, http.StatusBadRequest, "Invalid stock value")
			return
		}
		input.Stock = &stock
	}
	if raw, ok := formValue(r, "faqs"); ok && raw != "" {
		faqs, err := parseFAQs(raw)
		if err != nil {
			middleware.RespondWithError(w, http.StatusBadRequest, "Invalid faqs value")
			return
		}
		input.FAQs = faqs
	}
	if raw, ok := formValue(r, "isActive"); ok {
		active := parseFormBool(raw)
		input.IsActive = &active
	}
	if raw, ok := formValue(r, "isFeatured"); ok {
		featured := parseFormBool(raw)
		input.IsFeatured = &featured
	}

	image, closeImage, err := formImage(r)
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "Only image files are allowed")
		return
	}
	defer closeImage()
	input.Image = image

	product, err := h.productService.Update(r.Context(), id, input)
	if err != nil {
		h.respondProductError(w, err, "Failed to update product")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, product)
}

// Delete hard-deletes a product.
func (h *ProductHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		middleware.RespondWithError(w, http.StatusNotFound, "Product not found")
		return
	}

	if err := h.productService.Delete(r.Context(), id); err != nil {
		if err == repository.ErrProductNotFound {
			middleware.RespondWithError(w, http.StatusNotFound, "Product not found")
			return
		}
		h.logger.Error("Failed to delete product", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to delete product")
		return
	}

	h.logger.Info("Product deleted", zap.String("product_id", id.String()))
	middleware.RespondWithJSON(w, http.StatusOK, map[string]string{"message": "Product deleted successfully"})
}

// IncrementView bumps the public view counter. One increment per call,
// no deduplication.
func (h *ProductHandler) IncrementView(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		middleware.RespondWithError(w, http.StatusNotFound, "Product not found")
		return
	}

	views, err := h.productService.IncrementViews(r.Context(), id)
	if err != nil {
		if err == repository.ErrProductNotFound {
			middleware.RespondWithError(w, http.StatusNotFound, "Product not found")
			return
		}
		h.logger.Error("Failed to increment product views", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to increment views")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, map[string]int64{"views": views})
}

// respondProductError maps create/update failures to responses.
func (h *ProductHandler) respondProductError(w http.ResponseWriter, err error, logMsg string) {
	switch {
	case err == service.ErrProductFieldsRequired:
		middleware.RespondWithError(w, http.StatusBadRequest, "Name, price, and category are required")
	case err == service.ErrProductImageRequired:
		middleware.RespondWithError(w, http.StatusBadRequest, "Product image is required")
	case err == service.ErrInvalidPrice:
		middleware.RespondWithError(w, http.StatusBadRequest, "Price must be a positive number")
	case err == repository.ErrCategoryNotFound:
		middleware.RespondWithError(w, http.StatusNotFound, "Category not found")
	case err == repository.ErrProductNotFound:
		middleware.RespondWithError(w, http.StatusNotFound, "Product not found")
	case errors.Is(err, service.ErrUploadFailed):
		h.logger.Error(logMsg, zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "Failed to upload image")
	default:
		h.logger.Error(logMsg, zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "internal server error")
	}
}

// parseFAQs decodes the JSON-encoded faqs form field.
func parseFAQs(raw string) ([]domain.FAQ, error) {
	var faqs []domain.FAQ
	if err := json.Unmarshal([]byte(raw), &faqs); err != nil {
		return nil, err
	}
	return faqs, nil
}
