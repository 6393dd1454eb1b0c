package repository

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wandson/product-ms/internal/product/domain"
	pkgdb "github.com/wandson/product-ms/pkg/db"
	"github.com/wandson/product-ms/pkg/db/pagination"
	"gorm.io/gorm"
)

func newTestDB(t *testing.T, name string) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", name)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)

	err = db.Exec(`CREATE TABLE IF NOT EXISTS products (
		id BIGINT PRIMARY KEY,
		name TEXT NOT NULL,
		description TEXT NOT NULL,
		price NUMERIC NOT NULL,
		created_at TIMESTAMP NOT NULL,
		updated_at TIMESTAMP NOT NULL
	)`).Error
	require.NoError(t, err)

	return db
}

func seedProduct(t *testing.T, db *gorm.DB, id int64, name, description string, price float64) {
	t.Helper()

	now := time.Now().UTC()
	err := db.Exec(
		`INSERT INTO products (id, name, description, price, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		id, name, description, price, now, now,
	).Error
	require.NoError(t, err)
}

func TestInsertAndFindByID(t *testing.T) {
	db := newTestDB(t, "repo_insert")
	r := Provide()
	ctx := context.Background()

	now := time.Now().UTC()
	p := &domain.Product{
		ID:          101,
		Name:        "Keyboard",
		Description: "Mechanical keyboard",
		Price:       199.9,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	require.NoError(t, r.Insert(ctx, db, p))

	found, err := r.FindByID(ctx, db, 101)
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, int64(101), found.ID)
	assert.Equal(t, "Keyboard", found.Name)
	assert.Equal(t, "Mechanical keyboard", found.Description)
	assert.InDelta(t, 199.9, found.Price, 0.0001)
}

func TestInsertDuplicateID(t *testing.T) {
	db := newTestDB(t, "repo_duplicate")
	r := Provide()
	ctx := context.Background()

	seedProduct(t, db, 101, "Keyboard", "Mechanical keyboard", 199.9)

	now := time.Now().UTC()
	err := r.Insert(ctx, db, &domain.Product{
		ID:          101,
		Name:        "Mouse",
		Description: "Wireless mouse",
		Price:       49.9,
		CreatedAt:   now,
		UpdatedAt:   now,
	})
	require.Error(t, err)
	assert.True(t, pkgdb.IsDuplicateKeyErr(err))
}

func TestFindByIDMissing(t *testing.T) {
	db := newTestDB(t, "repo_missing")
	r := Provide()

	found, err := r.FindByID(context.Background(), db, 404)
	require.NoError(t, err)
	assert.Nil(t, found)
}

func TestUpdateOverwritesMutableFields(t *testing.T) {
	db := newTestDB(t, "repo_update")
	r := Provide()
	ctx := context.Background()

	seedProduct(t, db, 7, "Old name", "Old description", 10)

	updated := &domain.Product{
		ID:          7,
		Name:        "New name",
		Description: "New description",
		Price:       20,
		UpdatedAt:   time.Now().UTC(),
	}
	require.NoError(t, r.Update(ctx, db, updated))

	found, err := r.FindByID(ctx, db, 7)
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, "New name", found.Name)
	assert.Equal(t, "New description", found.Description)
	assert.InDelta(t, 20, found.Price, 0.0001)
}

func TestDeleteByID(t *testing.T) {
	db := newTestDB(t, "repo_delete")
	r := Provide()
	ctx := context.Background()

	seedProduct(t, db, 11, "Mouse", "Wireless mouse", 49.9)

	affected, err := r.DeleteByID(ctx, db, 11)
	require.NoError(t, err)
	assert.Equal(t, int64(1), affected)

	affected, err = r.DeleteByID(ctx, db, 11)
	require.NoError(t, err)
	assert.Equal(t, int64(0), affected)
}

func seedCatalog(t *testing.T, db *gorm.DB) {
	t.Helper()

	seedProduct(t, db, 1, "Smartphone X", "Flagship phone with OLED display", 450)
	seedProduct(t, db, 2, "Laptop", "Portable computer", 1200)
	seedProduct(t, db, 3, "Phone case", "Silicone cover", 15)
	seedProduct(t, db, 4, "Headset", "Ideal for phone calls", 99)
}

func floatPtr(v float64) *float64 { return &v }

func TestSearchConjunctiveFilters(t *testing.T) {
	db := newTestDB(t, "repo_search_conj")
	r := Provide()
	ctx := context.Background()
	seedCatalog(t, db)

	items, total, err := r.Search(ctx, db, domain.SearchFilter{
		Q:        "phone",
		MinPrice: floatPtr(100),
		MaxPrice: floatPtr(500),
	}, pagination.Pagination{Page: 0, Size: 10})
	require.NoError(t, err)

	require.Len(t, items, 1)
	assert.Equal(t, "Smartphone X", items[0].Name)
	assert.Equal(t, int64(1), total)
}

func TestSearchOmittedBoundsImposeNoConstraint(t *testing.T) {
	db := newTestDB(t, "repo_search_bounds")
	r := Provide()
	ctx := context.Background()
	seedCatalog(t, db)

	items, total, err := r.Search(ctx, db, domain.SearchFilter{
		MinPrice: floatPtr(100),
	}, pagination.Pagination{Page: 0, Size: 10})
	require.NoError(t, err)

	require.Len(t, items, 2)
	assert.Equal(t, int64(2), total)
	for _, item := range items {
		assert.GreaterOrEqual(t, item.Price, 100.0)
	}
}

func TestSearchCaseInsensitiveSubstring(t *testing.T) {
	db := newTestDB(t, "repo_search_ci")
	r := Provide()
	ctx := context.Background()
	seedCatalog(t, db)

	// Matches name ("Smartphone X", "Phone case") and description ("Headset").
	_, total, err := r.Search(ctx, db, domain.SearchFilter{Q: "PHONE"}, pagination.Pagination{Page: 0, Size: 10})
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
}

func TestSearchEmptyFilterReturnsAll(t *testing.T) {
	db := newTestDB(t, "repo_search_all")
	r := Provide()
	ctx := context.Background()
	seedCatalog(t, db)

	items, total, err := r.Search(ctx, db, domain.SearchFilter{}, pagination.Pagination{Page: 0, Size: 10})
	require.NoError(t, err)
	assert.Len(t, items, 4)
	assert.Equal(t, int64(4), total)
}

func TestSearchCountIndependentOfPageSlice(t *testing.T) {
	db := newTestDB(t, "repo_search_count")
	r := Provide()
	ctx := context.Background()
	seedCatalog(t, db)

	items, total, err := r.Search(ctx, db, domain.SearchFilter{Q: "phone"}, pagination.Pagination{Page: 0, Size: 2})
	require.NoError(t, err)
	assert.Len(t, items, 2)
	assert.Equal(t, int64(3), total)

	items, total, err = r.Search(ctx, db, domain.SearchFilter{Q: "phone"}, pagination.Pagination{Page: 1, Size: 2})
	require.NoError(t, err)
	assert.Len(t, items, 1)
	assert.Equal(t, int64(3), total)
}
