package repository

import (
	"context"
	"strings"

	"github.com/wandson/product-ms/internal/product/domain"
	"github.com/wandson/product-ms/pkg/db/pagination"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) Insert(ctx context.Context, db *gorm.DB, product *domain.Product) error {
	return db.WithContext(ctx).Exec(
		`INSERT INTO products (id, name, description, price, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		product.ID,
		product.Name,
		product.Description,
		product.Price,
		product.CreatedAt,
		product.UpdatedAt,
	).Error
}

func (r *repo) FindByID(ctx context.Context, db *gorm.DB, id int64) (*domain.Product, error) {
	var p domain.Product
	err := db.WithContext(ctx).Raw(
		`SELECT id, name, description, price, created_at, updated_at
		 FROM products WHERE id = ?`,
		id,
	).Scan(&p).Error
	if err != nil {
		return nil, err
	}
	if p.ID == 0 {
		return nil, nil
	}
	return &p, nil
}

func (r *repo) FindAll(ctx context.Context, db *gorm.DB) ([]domain.Product, error) {
	var items []domain.Product
	err := db.WithContext(ctx).Raw(
		`SELECT id, name, description, price, created_at, updated_at
		 FROM products ORDER BY created_at ASC, id ASC`,
	).Scan(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

func (r *repo) Update(ctx context.Context, db *gorm.DB, product *domain.Product) error {
	if product == nil {
		return gorm.ErrInvalidData
	}
	return db.WithContext(ctx).Exec(
		`UPDATE products
		 SET name = ?, description = ?, price = ?, updated_at = ?
		 WHERE id = ?`,
		product.Name,
		product.Description,
		product.Price,
		product.UpdatedAt,
		product.ID,
	).Error
}

func (r *repo) DeleteByID(ctx context.Context, db *gorm.DB, id int64) (int64, error) {
	stmt := db.WithContext(ctx).Exec(`DELETE FROM products WHERE id = ?`, id)
	return stmt.RowsAffected, stmt.Error
}

// Search runs the page query and the count query against the same predicate
// set, as two separate round trips.
func (r *repo) Search(ctx context.Context, db *gorm.DB, filter domain.SearchFilter, page pagination.Pagination) ([]domain.Product, int64, error) {
	var items []domain.Product
	err := applyFilter(db.WithContext(ctx).Model(&domain.Product{}), filter).
		Order("created_at ASC, id ASC").
		Offset(page.Offset()).
		Limit(page.Size).
		Find(&items).Error
	if err != nil {
		return nil, 0, err
	}

	var total int64
	err = applyFilter(db.WithContext(ctx).Model(&domain.Product{}), filter).
		Count(&total).Error
	if err != nil {
		return nil, 0, err
	}

	return items, total, nil
}

func applyFilter(stmt *gorm.DB, filter domain.SearchFilter) *gorm.DB {
	if q := strings.TrimSpace(filter.Q); q != "" {
		needle := "%" + strings.ToLower(q) + "%"
		stmt = stmt.Where("(LOWER(name) LIKE ? OR LOWER(description) LIKE ?)", needle, needle)
	}
	if filter.MinPrice != nil {
		stmt = stmt.Where("price >= ?", *filter.MinPrice)
	}
	if filter.MaxPrice != nil {
		stmt = stmt.Where("price <= ?", *filter.MaxPrice)
	}
	return stmt
}
