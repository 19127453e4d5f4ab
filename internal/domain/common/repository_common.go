// internal/domain/common/repository_common.go
package common

import "time"

// TimeRange is the shared period filter for list queries.
type TimeRange struct {
	From *time.Time
	To   *time.Time
}

// Sort specifies ordering for list queries. Column names are validated by
// each repository against its allowed set.
type Sort struct {
	Column string
	Order  SortOrder
}

type SortOrder string

const (
	SortAsc  SortOrder = "asc"
	SortDesc SortOrder = "desc"
)

// Page is an offset paging request. Number is 1-based; PerPage <= 0 means
// the repository default.
type Page struct {
	Number  int
	PerPage int
}

// PageResult carries one page of items plus totals.
type PageResult[T any] struct {
	Items      []T
	TotalCount int
	TotalPages int
	Page       int
	PerPage    int
}

// SaveOptions carries save preconditions (optimistic locking).
type SaveOptions struct {
	// IfMatchVersion, when set, makes the save succeed only if the stored
	// Version matches; otherwise the repository returns ErrConflict.
	IfMatchVersion *int64
}
