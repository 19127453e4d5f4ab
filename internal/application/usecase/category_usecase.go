// internal/application/usecase/category_usecase.go
package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"freshmart/internal/domain/category"
	"freshmart/internal/domain/common"
)

var (
	ErrCategoryInvalidArgument = fmt.Errorf("category_usecase: invalid argument: %w", common.ErrValidation)

	ErrSlugTaken = fmt.Errorf("category_usecase: slug already in use: %w", common.ErrInvalidState)
)

// CategoryUsecase maintains the two-level catalog taxonomy that products
// reference through their categoryId.
type CategoryUsecase struct {
	repo  category.Repository
	clock Clock
}

func NewCategoryUsecase(repo category.Repository) *CategoryUsecase {
	return &CategoryUsecase{repo: repo, clock: systemClock{}}
}

// NewCategoryUsecaseWithClock is useful for tests.
func NewCategoryUsecaseWithClock(repo category.Repository, clock Clock) *CategoryUsecase {
	uc := NewCategoryUsecase(repo)
	if clock != nil {
		uc.clock = clock
	}
	return uc
}

// Queries

func (uc *CategoryUsecase) GetByID(ctx context.Context, id string) (category.Category, error) {
	return uc.repo.GetByID(ctx, strings.TrimSpace(id))
}

func (uc *CategoryUsecase) GetBySlug(ctx context.Context, slug string) (category.Category, error) {
	return uc.repo.GetBySlug(ctx, category.NormalizeSlug(slug))
}

// Tree returns the active root categories, sortOrder ascending, each with
// its active sub-categories attached.
func (uc *CategoryUsecase) Tree(ctx context.Context) ([]category.Category, error) {
	roots, err := uc.repo.ListRoots(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]category.Category, 0, len(roots))
	for _, root := range roots {
		sub, err := uc.repo.ListChildren(ctx, root.ID)
		if err != nil {
			return nil, err
		}
		root.Sub = sub
		out = append(out, root)
	}
	return out, nil
}

// ListRoots returns the active top-level categories without children.
func (uc *CategoryUsecase) ListRoots(ctx context.Context) ([]category.Category, error) {
	return uc.repo.ListRoots(ctx)
}

// ListChildren returns the active sub-categories of a parent.
func (uc *CategoryUsecase) ListChildren(ctx context.Context, parentID string) ([]category.Category, error) {
	return uc.repo.ListChildren(ctx, strings.TrimSpace(parentID))
}

// Search returns active categories whose name contains the query,
// case-insensitive.
func (uc *CategoryUsecase) Search(ctx context.Context, query string) ([]category.Category, error) {
	q := strings.TrimSpace(query)
	if q == "" {
		return []category.Category{}, nil
	}
	return uc.repo.SearchByName(ctx, q)
}

// Commands

// Create saves a new active category. The slug must be unique; a parent id,
// when given, must resolve.
func (uc *CategoryUsecase) Create(ctx context.Context, f category.Fields) (category.Category, error) {
	if err := uc.checkSlugFree(ctx, f.Slug, ""); err != nil {
		return category.Category{}, err
	}
	if err := uc.checkParent(ctx, f.ParentID); err != nil {
		return category.Category{}, err
	}

	c, err := category.New(uuid.NewString(), f, uc.clock.Now())
	if err != nil {
		return category.Category{}, err
	}
	return uc.repo.Save(ctx, c)
}

// Update replaces all mutable fields. ErrNotFound when the id does not
// resolve; moving the slug onto another category fails with InvalidState.
func (uc *CategoryUsecase) Update(ctx context.Context, id string, f category.Fields) (category.Category, error) {
	cid := strings.TrimSpace(id)
	if cid == "" {
		return category.Category{}, ErrCategoryInvalidArgument
	}

	c, err := uc.repo.GetByID(ctx, cid)
	if err != nil {
		return category.Category{}, err
	}

	if err := uc.checkSlugFree(ctx, f.Slug, cid); err != nil {
		return category.Category{}, err
	}
	if err := uc.checkParent(ctx, f.ParentID); err != nil {
		return category.Category{}, err
	}

	if err := c.Apply(f, uc.clock.Now()); err != nil {
		return category.Category{}, err
	}
	return uc.repo.Save(ctx, c)
}

func (uc *CategoryUsecase) Activate(ctx context.Context, id string) (category.Category, error) {
	return uc.mutate(ctx, id, func(c *category.Category) error {
		c.Activate(uc.clock.Now())
		return nil
	})
}

func (uc *CategoryUsecase) Deactivate(ctx context.Context, id string) (category.Category, error) {
	return uc.mutate(ctx, id, func(c *category.Category) error {
		c.Deactivate(uc.clock.Now())
		return nil
	})
}

// Delete removes the category (ErrNotFound when absent). Products keep
// their categoryId; a dangling reference only affects catalog navigation.
func (uc *CategoryUsecase) Delete(ctx context.Context, id string) error {
	cid := strings.TrimSpace(id)
	if _, err := uc.repo.GetByID(ctx, cid); err != nil {
		return err
	}
	return uc.repo.Delete(ctx, cid)
}

func (uc *CategoryUsecase) mutate(ctx context.Context, id string, fn func(*category.Category) error) (category.Category, error) {
	c, err := uc.repo.GetByID(ctx, strings.TrimSpace(id))
	if err != nil {
		return category.Category{}, err
	}
	if err := fn(&c); err != nil {
		return category.Category{}, err
	}
	return uc.repo.Save(ctx, c)
}

// checkSlugFree fails with ErrSlugTaken when the slug belongs to a category
// other than selfID.
func (uc *CategoryUsecase) checkSlugFree(ctx context.Context, slug, selfID string) error {
	s := category.NormalizeSlug(slug)
	if s == "" {
		return ErrCategoryInvalidArgument
	}

	cur, err := uc.repo.GetBySlug(ctx, s)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil
		}
		return err
	}
	if cur.ID == selfID {
		return nil
	}
	return ErrSlugTaken
}

// checkParent requires parentID, when set, to resolve to an existing root
// category (the taxonomy is two levels deep).
func (uc *CategoryUsecase) checkParent(ctx context.Context, parentID string) error {
	pid := strings.TrimSpace(parentID)
	if pid == "" {
		return nil
	}

	parent, err := uc.repo.GetByID(ctx, pid)
	if err != nil {
		return err
	}
	if !parent.IsRoot() {
		return ErrCategoryInvalidArgument
	}
	return nil
}
