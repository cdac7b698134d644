package domain

import (
	"time"

	"github.com/google/uuid"
)

// DefaultBrand is applied when a product is created without a brand.
const DefaultBrand = "PowerMed"

// FAQ is a question/answer pair attached to a product, shown on the
// product detail page in display order.
type FAQ struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

// Product represents a catalog product. Category is a reference by ID only;
// existence is validated at write time, not enforced by the database, so a
// deleted category leaves the reference dangling.
type Product struct {
	ID           uuid.UUID `json:"id" db:"id"`
	Name         string    `json:"name" db:"name"`
	Brand        string    `json:"brand" db:"brand"`
	Price        float64   `json:"price" db:"price"`
	CategoryID   uuid.UUID `json:"category" db:"category_id"`
	Image        string    `json:"image" db:"image"`
	CategoryType string    `json:"categoryType,omitempty" db:"category_type"`
	Description  string    `json:"description,omitempty" db:"description"`
	Stock        int       `json:"stock" db:"stock"`
	Views        int64     `json:"views" db:"views"`
	FAQs         []FAQ     `json:"faqs" db:"faqs"`
	IsActive     bool      `json:"isActive" db:"is_active"`
	IsFeatured   bool      `json:"isFeatured" db:"is_featured"`
	CreatedAt    time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt    time.Time `json:"updatedAt" db:"updated_at"`

	// CategoryRef carries the projected category (name, slug) when the
	// product is read with its category joined. Nil when the reference is
	// dangling.
	CategoryRef *CategoryRef `json:"categoryRef,omitempty"`
}

// CategoryRef is the category projection attached to listed products.
type CategoryRef struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
	Slug string    `json:"slug"`
}
