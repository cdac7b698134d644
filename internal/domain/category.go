package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Category represents a product category in the catalog.
type Category struct {
	ID        uuid.UUID `json:"id" db:"id"`
	Name      string    `json:"name" db:"name"`
	Slug      string    `json:"slug" db:"slug"`
	Image     string    `json:"image,omitempty" db:"image"`
	IsActive  bool      `json:"isActive" db:"is_active"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt time.Time `json:"updatedAt" db:"updated_at"`
}

// Slugify derives the URL slug for a name: lowercase, with every maximal
// run of non-alphanumeric characters collapsed to a single hyphen. The slug
// is a pure function of the name and must be recomputed whenever the name
// changes.
func Slugify(name string) string {
	lower := strings.ToLower(name)

	var b strings.Builder
	b.Grow(len(lower))
	inSeparator := false
	for _, r := range lower {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
			inSeparator = false
			continue
		}
		if !inSeparator {
			b.WriteByte('-')
			inSeparator = true
		}
	}

	return b.String()
}
