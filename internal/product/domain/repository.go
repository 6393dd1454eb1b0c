package domain

import (
	"context"

	"github.com/wandson/product-ms/pkg/db/pagination"
	"gorm.io/gorm"
)

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, product *Product) error
	FindByID(ctx context.Context, db *gorm.DB, id int64) (*Product, error)
	FindAll(ctx context.Context, db *gorm.DB) ([]Product, error)
	Update(ctx context.Context, db *gorm.DB, product *Product) error
	DeleteByID(ctx context.Context, db *gorm.DB, id int64) (int64, error)
	Search(ctx context.Context, db *gorm.DB, filter SearchFilter, page pagination.Pagination) ([]Product, int64, error)
}
