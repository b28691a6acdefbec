package store

import (
	"context"

	"github.com/cockroachdb/errors"
	"gorm.io/gorm"
)

// Pagination limits.
const (
	DefaultPageSize = 10
	MaxPageSize     = 100
)

var (
	// ErrNotFound is returned when no record matches.
	ErrNotFound = errors.New("record not found")
	// ErrDuplicate is returned when a unique constraint is violated.
	ErrDuplicate = errors.New("duplicate record")
)

// Condition is a single WHERE clause with its arguments.
type Condition struct {
	Expr string
	Args []any
}

// Query describes filtering, ordering and paging of a listing.
type Query struct {
	Page       int    // 1-based
	PageSize   int    // Default 10, max 100
	Order      string // e.g. "published_at desc"
	Conditions []Condition
}

// Where returns a copy of the query with an extra condition.
func (q Query) Where(expr string, args ...any) Query {
	conds := make([]Condition, len(q.Conditions), len(q.Conditions)+1)
	copy(conds, q.Conditions)
	q.Conditions = append(conds, Condition{Expr: expr, Args: args})
	return q
}

// Normalize clamps page and page size into their valid ranges.
func (q Query) Normalize() Query {
	if q.Page < 1 {
		q.Page = 1
	}
	if q.PageSize <= 0 {
		q.PageSize = DefaultPageSize
	}
	if q.PageSize > MaxPageSize {
		q.PageSize = MaxPageSize
	}
	return q
}

// Page is one page of a listing.
type Page[T any] struct {
	Items      []T
	Total      int64
	Page       int
	PageSize   int
	TotalPages int
}

// HasNext returns true if more pages follow.
func (p Page[T]) HasNext() bool {
	return p.Page < p.TotalPages
}

// Repository provides CRUD access to one model type.
type Repository[T any] struct {
	db *gorm.DB
}

// NewRepository creates a repository for T.
func NewRepository[T any](db *gorm.DB) *Repository[T] {
	return &Repository[T]{db: db}
}

// DB returns the underlying connection for queries the repository does not cover.
func (r *Repository[T]) DB(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx)
}

func (r *Repository[T]) scoped(ctx context.Context, q Query) *gorm.DB {
	tx := r.db.WithContext(ctx).Model(new(T))
	for _, c := range q.Conditions {
		tx = tx.Where(c.Expr, c.Args...)
	}
	return tx
}

// List returns one page of records matching the query.
func (r *Repository[T]) List(ctx context.Context, q Query) (Page[T], error) {
	q = q.Normalize()

	var total int64
	if err := r.scoped(ctx, q).Count(&total).Error; err != nil {
		return Page[T]{}, errors.Wrap(err, "failed to count records")
	}

	items := make([]T, 0, q.PageSize)
	tx := r.scoped(ctx, q)
	if q.Order != "" {
		tx = tx.Order(q.Order)
	}
	if err := tx.Offset((q.Page - 1) * q.PageSize).Limit(q.PageSize).Find(&items).Error; err != nil {
		return Page[T]{}, errors.Wrap(err, "failed to list records")
	}

	totalPages := int((total + int64(q.PageSize) - 1) / int64(q.PageSize))
	return Page[T]{
		Items:      items,
		Total:      total,
		Page:       q.Page,
		PageSize:   q.PageSize,
		TotalPages: totalPages,
	}, nil
}

// All returns every record matching the query, ignoring paging.
func (r *Repository[T]) All(ctx context.Context, q Query) ([]T, error) {
	var items []T
	tx := r.scoped(ctx, q)
	if q.Order != "" {
		tx = tx.Order(q.Order)
	}
	if err := tx.Find(&items).Error; err != nil {
		return nil, errors.Wrap(err, "failed to list records")
	}
	return items, nil
}

// Get returns the record with the given primary key.
func (r *Repository[T]) Get(ctx context.Context, id string) (*T, error) {
	return r.FindBy(ctx, "id", id)
}

// FindBy returns the first record whose column equals value.
func (r *Repository[T]) FindBy(ctx context.Context, column string, value any) (*T, error) {
	var v T
	err := r.db.WithContext(ctx).Where(map[string]any{column: value}).Take(&v).Error
	if err != nil {
		return nil, translate(err)
	}
	return &v, nil
}

// Create inserts a record.
func (r *Repository[T]) Create(ctx context.Context, v *T) error {
	return translate(r.db.WithContext(ctx).Create(v).Error)
}

// Save updates every column of an existing record.
func (r *Repository[T]) Save(ctx context.Context, v *T) error {
	return translate(r.db.WithContext(ctx).Save(v).Error)
}

// Delete removes the record with the given primary key.
func (r *Repository[T]) Delete(ctx context.Context, id string) error {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(new(T))
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// Count returns the number of records matching the query.
func (r *Repository[T]) Count(ctx context.Context, q Query) (int64, error) {
	var total int64
	if err := r.scoped(ctx, q).Count(&total).Error; err != nil {
		return 0, errors.Wrap(err, "failed to count records")
	}
	return total, nil
}

func translate(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return ErrNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return errors.Mark(errors.Wrap(err, "unique constraint violated"), ErrDuplicate)
	default:
		return errors.Wrap(err, "database error")
	}
}
