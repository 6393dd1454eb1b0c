package domain

import (
	"context"
	"fmt"

	"github.com/wandson/product-ms/pkg/db/pagination"
)

type Service interface {
	Create(ctx context.Context, in ProductInput) (*Product, error)
	Update(ctx context.Context, id int64, in ProductInput) (*Product, error)
	Get(ctx context.Context, id int64) (*Product, error)
	List(ctx context.Context) ([]Product, error)
	Search(ctx context.Context, filter SearchFilter, page pagination.Pagination) (*pagination.Page[Product], error)
	Delete(ctx context.Context, id int64) error
}

// ProductInput carries the mutable fields of a product. The id is always
// server-managed and never part of the input.
type ProductInput struct {
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`
}

// SearchFilter is a per-request conjunction of optional predicates. A nil
// bound imposes no constraint.
type SearchFilter struct {
	Q        string
	MinPrice *float64
	MaxPrice *float64
}

// NotFoundError signals that no product exists with the requested id.
type NotFoundError struct {
	ID int64
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("There is no product registration with id %d", e.ID)
}
