// internal/adapters/out/firestore/category_repository_fs.go
package firestore

import (
	"context"
	"errors"
	"strings"
	"time"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	catdom "freshmart/internal/domain/category"
)

// CategoryRepositoryFS implements category.Repository using Firestore.
//
// Collection design:
// - collection: categories
// - docId: category id
// - queries: slug (==, Limit 1), (isActive, parentId) ordered by sortOrder
type CategoryRepositoryFS struct {
	Client *firestore.Client
}

func NewCategoryRepositoryFS(client *firestore.Client) *CategoryRepositoryFS {
	return &CategoryRepositoryFS{Client: client}
}

func (r *CategoryRepositoryFS) col() *firestore.CollectionRef {
	return r.Client.Collection("categories")
}

func (r *CategoryRepositoryFS) GetByID(ctx context.Context, id string) (catdom.Category, error) {
	if r == nil || r.Client == nil {
		return catdom.Category{}, errors.New("category_repository_fs: firestore client is nil")
	}

	cid := strings.TrimSpace(id)
	if cid == "" {
		return catdom.Category{}, catdom.ErrNotFound
	}

	snap, err := r.col().Doc(cid).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return catdom.Category{}, catdom.ErrNotFound
		}
		return catdom.Category{}, err
	}
	return docToCategory(snap)
}

func (r *CategoryRepositoryFS) GetBySlug(ctx context.Context, slug string) (catdom.Category, error) {
	if r == nil || r.Client == nil {
		return catdom.Category{}, errors.New("category_repository_fs: firestore client is nil")
	}

	s := catdom.NormalizeSlug(slug)
	if s == "" {
		return catdom.Category{}, catdom.ErrNotFound
	}

	iter := r.col().Where("slug", "==", s).Limit(1).Documents(ctx)
	defer iter.Stop()

	snap, err := iter.Next()
	if err == iterator.Done {
		return catdom.Category{}, catdom.ErrNotFound
	}
	if err != nil {
		return catdom.Category{}, err
	}
	return docToCategory(snap)
}

func (r *CategoryRepositoryFS) ListActive(ctx context.Context) ([]catdom.Category, error) {
	if r == nil || r.Client == nil {
		return nil, errors.New("category_repository_fs: firestore client is nil")
	}
	q := r.col().
		Where("isActive", "==", true).
		OrderBy("sortOrder", firestore.Asc)
	return r.queryAll(ctx, q)
}

func (r *CategoryRepositoryFS) ListRoots(ctx context.Context) ([]catdom.Category, error) {
	if r == nil || r.Client == nil {
		return nil, errors.New("category_repository_fs: firestore client is nil")
	}
	q := r.col().
		Where("isActive", "==", true).
		Where("parentId", "==", "").
		OrderBy("sortOrder", firestore.Asc)
	return r.queryAll(ctx, q)
}

func (r *CategoryRepositoryFS) ListChildren(ctx context.Context, parentID string) ([]catdom.Category, error) {
	if r == nil || r.Client == nil {
		return nil, errors.New("category_repository_fs: firestore client is nil")
	}
	q := r.col().
		Where("isActive", "==", true).
		Where("parentId", "==", strings.TrimSpace(parentID)).
		OrderBy("sortOrder", firestore.Asc)
	return r.queryAll(ctx, q)
}

// SearchByName filters in memory: Firestore has no case-insensitive
// substring operator, and the taxonomy is small enough to scan.
func (r *CategoryRepositoryFS) SearchByName(ctx context.Context, query string) ([]catdom.Category, error) {
	all, err := r.ListActive(ctx)
	if err != nil {
		return nil, err
	}

	q := strings.ToLower(strings.TrimSpace(query))
	out := []catdom.Category{}
	for _, c := range all {
		if strings.Contains(strings.ToLower(c.Name), q) {
			out = append(out, c)
		}
	}
	return out, nil
}

func (r *CategoryRepositoryFS) Exists(ctx context.Context, id string) (bool, error) {
	if r == nil || r.Client == nil {
		return false, errors.New("category_repository_fs: firestore client is nil")
	}

	cid := strings.TrimSpace(id)
	if cid == "" {
		return false, nil
	}

	_, err := r.col().Doc(cid).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

func (r *CategoryRepositoryFS) Save(ctx context.Context, c catdom.Category) (catdom.Category, error) {
	if r == nil || r.Client == nil {
		return catdom.Category{}, errors.New("category_repository_fs: firestore client is nil")
	}

	cid := strings.TrimSpace(c.ID)
	if cid == "" {
		return catdom.Category{}, errors.New("category_repository_fs: Save requires category.ID as docId")
	}

	if _, err := r.col().Doc(cid).Set(ctx, categoryDocFromDomain(c)); err != nil {
		return catdom.Category{}, err
	}
	return c, nil
}

func (r *CategoryRepositoryFS) Delete(ctx context.Context, id string) error {
	if r == nil || r.Client == nil {
		return errors.New("category_repository_fs: firestore client is nil")
	}

	cid := strings.TrimSpace(id)
	if cid == "" {
		return catdom.ErrNotFound
	}

	_, err := r.col().Doc(cid).Delete(ctx)
	return err
}

func (r *CategoryRepositoryFS) queryAll(ctx context.Context, q firestore.Query) ([]catdom.Category, error) {
	iter := q.Documents(ctx)
	defer iter.Stop()

	out := []catdom.Category{}
	for {
		snap, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, err
		}
		c, err := docToCategory(snap)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, nil
}

// -----------------------------------------
// Firestore DTO
// -----------------------------------------

type categoryDoc struct {
	Name        string `firestore:"name"`
	Slug        string `firestore:"slug"`
	Description string `firestore:"description"`
	Icon        string `firestore:"icon"`
	ImageURL    string `firestore:"imageUrl"`
	ParentID    string `firestore:"parentId"`
	SortOrder   int    `firestore:"sortOrder"`
	IsActive    bool   `firestore:"isActive"`

	CreatedAt time.Time `firestore:"createdAt"`
	UpdatedAt time.Time `firestore:"updatedAt"`
}

func categoryDocFromDomain(c catdom.Category) categoryDoc {
	return categoryDoc{
		Name:        c.Name,
		Slug:        c.Slug,
		Description: c.Description,
		Icon:        c.Icon,
		ImageURL:    c.ImageURL,
		ParentID:    c.ParentID,
		SortOrder:   c.SortOrder,
		IsActive:    c.IsActive,
		CreatedAt:   c.CreatedAt,
		UpdatedAt:   c.UpdatedAt,
	}
}

func docToCategory(snap *firestore.DocumentSnapshot) (catdom.Category, error) {
	var d categoryDoc
	if err := snap.DataTo(&d); err != nil {
		return catdom.Category{}, err
	}

	return catdom.Category{
		ID:          snap.Ref.ID,
		Name:        d.Name,
		Slug:        d.Slug,
		Description: d.Description,
		Icon:        d.Icon,
		ImageURL:    d.ImageURL,
		ParentID:    d.ParentID,
		SortOrder:   d.SortOrder,
		IsActive:    d.IsActive,
		CreatedAt:   d.CreatedAt,
		UpdatedAt:   d.UpdatedAt,
	}, nil
}
