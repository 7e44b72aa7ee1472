package core

import (
	"context"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/tekashi/storefront/internal/model"
)

func TestProductTypeService_Create(t *testing.T) {
	db := &mockDB{}
	svc := NewProductTypeService(db)
	ctx := context.Background()

	db.On("Exec", ctx, sqlContains("INSERT INTO product_types"), mock.Anything).Return(tag("INSERT 0 1"), nil)

	pt := &model.ProductType{Name: "Running Shoes", Active: true}
	require.NoError(t, svc.Create(ctx, pt))
	assert.NotEmpty(t, pt.ID)
	assert.Equal(t, "running-shoes", pt.Slug)
	assert.Equal(t, []string{}, pt.Keywords)
	db.AssertExpectations(t)
}

func TestProductTypeService_Create_EmptySlug(t *testing.T) {
	svc := NewProductTypeService(&mockDB{})

	err := svc.Create(context.Background(), &model.ProductType{Name: "!!!"})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestProductTypeService_Create_Duplicate(t *testing.T) {
	db := &mockDB{}
	svc := NewProductTypeService(db)

	db.On("Exec", mock.Anything, mock.Anything, mock.Anything).Return(tag(""), uniqueViolation())

	err := svc.Create(context.Background(), &model.ProductType{Name: "Boots"})
	assert.ErrorIs(t, err, ErrConflict)
}

func TestProductTypeService_Delete_InUse(t *testing.T) {
	db := &mockDB{}
	svc := NewProductTypeService(db)
	ctx := context.Background()

	db.On("QueryRow", ctx, sqlContains("count(*) FROM products"), []any{"t1"}).Return(valueRow(3))

	err := svc.Delete(ctx, "t1")
	assert.ErrorIs(t, err, ErrConflict)
	assert.True(t, db.tx.rolledBack)
	db.AssertNotCalled(t, "Exec", mock.Anything, mock.Anything, mock.Anything)
}

func TestProductTypeService_Delete(t *testing.T) {
	db := &mockDB{}
	svc := NewProductTypeService(db)
	ctx := context.Background()

	db.On("QueryRow", ctx, sqlContains("count(*) FROM products"), []any{"t1"}).Return(valueRow(0))
	db.On("Exec", ctx, sqlContains("DELETE FROM product_types"), []any{"t1"}).Return(tag("DELETE 1"), nil)

	require.NoError(t, svc.Delete(ctx, "t1"))
	assert.True(t, db.tx.committed)
	db.AssertExpectations(t)
}

func TestProductTypeService_Recount(t *testing.T) {
	db := &mockDB{}
	svc := NewProductTypeService(db)

	db.On("QueryRow", mock.Anything, sqlContains("RETURNING product_count"), []any{"t1"}).Return(valueRow(7))
	n, err := svc.Recount(context.Background(), "t1")
	require.NoError(t, err)
	assert.Equal(t, 7, n)

	db.On("QueryRow", mock.Anything, sqlContains("RETURNING product_count"), []any{"missing"}).Return(errRow(pgx.ErrNoRows))
	_, err = svc.Recount(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestProductTypeService_List_ActiveOnly(t *testing.T) {
	db := &mockDB{}
	svc := NewProductTypeService(db)
	ctx := context.Background()

	db.On("Query", ctx, sqlContains("WHERE active ORDER BY sort_order, name"), mock.Anything).
		Return(newEmptyMockRows(), nil)

	types, err := svc.List(ctx, true)
	require.NoError(t, err)
	assert.Empty(t, types)
	assert.NotNil(t, types)
	db.AssertExpectations(t)
}
