// internal/domain/category/entity.go
package category

import (
	"fmt"
	"strings"
	"time"

	"freshmart/internal/domain/common"
)

var (
	ErrInvalidCategory = fmt.Errorf("category: invalid: %w", common.ErrValidation)
	ErrNotFound        = fmt.Errorf("category: %w", common.ErrNotFound)
)

// Category is a catalog grouping, at most two levels deep: a root category
// has an empty ParentID, a sub-category points at its root. Products
// reference a category by id (product.CategoryID).
type Category struct {
	ID   string
	Name string

	// Slug is the URL-safe unique lookup key ("fresh-fruits").
	Slug string

	Description string
	Icon        string
	ImageURL    string

	// ParentID is empty for root categories.
	ParentID string

	// SortOrder drives display ordering within a level.
	SortOrder int

	IsActive bool

	// Sub is assembled by the usecase when building the tree; it is never
	// persisted on the document.
	Sub []Category

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Fields are the mutable fields. ID is fixed; activation flips go through
// Activate/Deactivate.
type Fields struct {
	Name        string
	Slug        string
	Description string
	Icon        string
	ImageURL    string
	ParentID    string
	SortOrder   int
}

func New(id string, f Fields, now time.Time) (Category, error) {
	c := Category{
		ID:        strings.TrimSpace(id),
		IsActive:  true,
		CreatedAt: now.UTC(),
		UpdatedAt: now.UTC(),
	}
	c.applyFields(f)
	if err := c.validate(); err != nil {
		return Category{}, err
	}
	return c, nil
}

// Apply replaces all mutable fields.
func (c *Category) Apply(f Fields, now time.Time) error {
	if c == nil {
		return ErrInvalidCategory
	}
	c.applyFields(f)
	c.touch(now)
	return c.validate()
}

func (c *Category) Activate(now time.Time) {
	c.IsActive = true
	c.touch(now)
}

func (c *Category) Deactivate(now time.Time) {
	c.IsActive = false
	c.touch(now)
}

// IsRoot reports whether the category sits at the top level.
func (c Category) IsRoot() bool {
	return c.ParentID == ""
}

func (c *Category) applyFields(f Fields) {
	c.Name = strings.TrimSpace(f.Name)
	c.Slug = NormalizeSlug(f.Slug)
	c.Description = strings.TrimSpace(f.Description)
	c.Icon = strings.TrimSpace(f.Icon)
	c.ImageURL = strings.TrimSpace(f.ImageURL)
	c.ParentID = strings.TrimSpace(f.ParentID)
	c.SortOrder = f.SortOrder
}

func (c *Category) touch(now time.Time) {
	c.UpdatedAt = now.UTC()
}

func (c Category) validate() error {
	if c.ID == "" {
		return ErrInvalidCategory
	}
	if c.Name == "" {
		return ErrInvalidCategory
	}
	if c.Slug == "" {
		return ErrInvalidCategory
	}
	if c.ParentID == c.ID {
		return ErrInvalidCategory
	}
	if c.CreatedAt.IsZero() {
		return ErrInvalidCategory
	}
	return nil
}

// NormalizeSlug lowercases and trims a slug so lookups are case-insensitive.
func NormalizeSlug(slug string) string {
	return strings.ToLower(strings.TrimSpace(slug))
}
