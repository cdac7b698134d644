package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"powermed-api/internal/domain"

	"github.com/google/uuid"
)

var (
	ErrProductNotFound = errors.New("product not found")
)

// ProductFilter narrows a product listing. Nil fields are not applied.
type ProductFilter struct {
	CategoryID *uuid.UUID
	Search     string
	IsActive   *bool
}

// ProductRepository defines the interface for product data access.
type ProductRepository interface {
	Create(ctx context.Context, product *domain.Product) error
	Update(ctx context.Context, product *domain.Product) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindByID(ctx context.Context, id uuid.UUID) (*domain.Product, error)
	List(ctx context.Context, filter ProductFilter) ([]*domain.Product, error)
	IncrementViews(ctx context.Context, id uuid.UUID) (int64, error)
}

type productRepository struct {
	db *sql.DB
}

// NewProductRepository creates a new instance of ProductRepository.
func NewProductRepository(db *sql.DB) ProductRepository {
	return &productRepository{db: db}
}

// Products are always read with their category projected (name, slug).
// The join is LEFT so products whose category was hard-deleted still come
// back, with the dangling category_id unchanged and no projection.
const productSelect = `
	SELECT p.id, p.name, p.brand, p.price, p.category_id, p.image,
	       p.category_type, p.description, p.stock, p.views, p.faqs,
	       p.is_active, p.is_featured, p.created_at, p.updated_at,
	       c.id, c.name, c.slug
	FROM products p
	LEFT JOIN categories c ON c.id = p.category_id
`

func scanProduct(row interface{ Scan(...any) error }) (*domain.Product, error) {
	product := &domain.Product{}
	var faqsRaw []byte
	var refID uuid.NullUUID
	var refName, refSlug sql.NullString

	err := row.Scan(
		&product.ID,
		&product.Name,
		&product.Brand,
		&product.Price,
		&product.CategoryID,
		&product.Image,
		&product.CategoryType,
		&product.Description,
		&product.Stock,
		&product.Views,
		&faqsRaw,
		&product.IsActive,
		&product.IsFeatured,
		&product.CreatedAt,
		&product.UpdatedAt,
		&refID,
		&refName,
		&refSlug,
	)
	if err != nil {
		return nil, err
	}

	product.FAQs = []domain.FAQ{}
	if len(faqsRaw) > 0 {
		if err := json.Unmarshal(faqsRaw, &product.FAQs); err != nil {
			return nil, fmt.Errorf("failed to decode product faqs: %w", err)
		}
	}

	if refID.Valid {
		product.CategoryRef = &domain.CategoryRef{
			ID:   refID.UUID,
			Name: refName.String,
			Slug: refSlug.String,
		}
	}

	return product, nil
}

// Create inserts a new product using parameterized queries.
func (r *productRepository) Create(ctx context.Context, product *domain.Product) error {
	faqs, err := json.Marshal(product.FAQs)
	if err != nil {
		return fmt.Errorf("failed to encode product faqs: %w", err)
	}

	query := `
		INSERT INTO products (id, name, brand, price, category_id, image,
			category_type, description, stock, views, faqs, is_active,
			is_featured, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
	`

	_, err = r.db.ExecContext(
		ctx,
		query,
		product.ID,
		product.Name,
		product.Brand,
		product.Price,
		product.CategoryID,
		product.Image,
		product.CategoryType,
		product.Description,
		product.Stock,
		product.Views,
		faqs,
		product.IsActive,
		product.IsFeatured,
		product.CreatedAt,
		product.UpdatedAt,
	)

	if err != nil {
		return fmt.Errorf("failed to create product: %w", err)
	}

	return nil
}

// Update replaces the mutable fields of an existing product.
func (r *productRepository) Update(ctx context.Context, product *domain.Product) error {
	faqs, err := json.Marshal(product.FAQs)
	if err != nil {
		return fmt.Errorf("failed to encode product faqs: %w", err)
	}

	query := `
		UPDATE products
		SET name = $2, brand = $3, price = $4, category_id = $5, image = $6,
		    category_type = $7, description = $8, stock = $9, faqs = $10,
		    is_active = $11, is_featured = $12, updated_at = $13
		WHERE id = $1
	`

	result, err := r.db.ExecContext(
		ctx,
		query,
		product.ID,
		product.Name,
		product.Brand,
		product.Price,
		product.CategoryID,
		product.Image,
		product.CategoryType,
		product.Description,
		product.Stock,
		faqs,
		product.IsActive,
		product.IsFeatured,
		product.UpdatedAt,
	)

	if err != nil {
		return fmt.Errorf("failed to update product: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return ErrProductNotFound
	}

	return nil
}

// Delete hard-deletes a product.
func (r *productRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete product: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return ErrProductNotFound
	}

	return nil
}

// FindByID retrieves a product by ID with its category projected.
func (r *productRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Product, error) {
	query := productSelect + ` WHERE p.id = $1`

	product, err := scanProduct(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrProductNotFound
		}
		return nil, fmt.Errorf("failed to find product by ID: %w", err)
	}

	return product, nil
}

// List retrieves products newest first, applying the given filters. Search
// runs against the text index over name and description.
func (r *productRepository) List(ctx context.Context, filter ProductFilter) ([]*domain.Product, error) {
	where := ""
	args := []interface{}{}
	argIndex := 1

	addClause := func(clause string, value interface{}) {
		if where == "" {
			where = "WHERE "
		} else {
			where += " AND "
		}
		where += fmt.Sprintf(clause, argIndex)
		args = append(args, value)
		argIndex++
	}

	if filter.CategoryID != nil {
		addClause("p.category_id = $%d", *filter.CategoryID)
	}
	if filter.IsActive != nil {
		addClause("p.is_active = $%d", *filter.IsActive)
	}
	if filter.Search != "" {
		addClause("to_tsvector('english', p.name || ' ' || p.description) @@ plainto_tsquery('english', $%d)", filter.Search)
	}

	query := fmt.Sprintf("%s %s ORDER BY p.created_at DESC, p.id DESC", productSelect, where)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}
	defer rows.Close()

	products := []*domain.Product{}
	for rows.Next() {
		product, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan product: %w", err)
		}
		products = append(products, product)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating products: %w", err)
	}

	return products, nil
}

// IncrementViews bumps the view counter by exactly one and returns the new
// count. The increment happens in the database so concurrent calls each
// count.
func (r *productRepository) IncrementViews(ctx context.Context, id uuid.UUID) (int64, error) {
	query := `UPDATE products SET views = views + 1 WHERE id = $1 RETURNING views`

	var views int64
	err := r.db.QueryRowContext(ctx, query, id).Scan(&views)
	if err != nil {
		if err == sql.ErrNoRows {
			return 0, ErrProductNotFound
		}
		return 0, fmt.Errorf("failed to increment product views: %w", err)
	}

	return views, nil
}
