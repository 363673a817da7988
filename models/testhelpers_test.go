package models

import (
	"context"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// newTestDB opens a private in-memory SQLite database with the schema applied.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := Open(context.Background(), StoreConfig{Driver: DriverSQLite, URL: dsn}, nil)
	require.NoError(t, err)
	require.NoError(t, Migrate(db))

	t.Cleanup(func() { _ = Close(db) })
	return db
}

func mustCategory(t *testing.T, db *gorm.DB, name string) *Category {
	t.Helper()
	c := &Category{Name: name}
	require.NoError(t, NewCategoriesRepository(db).CreateCategory(context.Background(), c))
	return c
}

func mustUpsert(t *testing.T, db *gorm.DB, name, price string, categoryID uint, delta int) *Product {
	t.Helper()
	p, _, err := NewProductsRepository(db).UpsertByName(context.Background(), UpsertInput{
		Name:       name,
		Price:      decimal.RequireFromString(price),
		CategoryID: categoryID,
		Delta:      delta,
	})
	require.NoError(t, err)
	return p
}

func countRows(t *testing.T, db *gorm.DB, model any) int64 {
	t.Helper()
	var n int64
	require.NoError(t, db.Model(model).Count(&n).Error)
	return n
}
