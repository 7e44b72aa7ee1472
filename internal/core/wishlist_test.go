package core

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/tekashi/storefront/internal/model"
	"github.com/tekashi/storefront/internal/platform"
)

// wishlistRow fills the scan destinations of wishlistColumns.
func wishlistRow(id string, public bool, expires *time.Time, maxUses, uses int) *mockRow {
	return &mockRow{scanFunc: func(dest ...any) error {
		*(dest[0].(*string)) = id
		*(dest[1].(*string)) = "u1"
		*(dest[4].(*bool)) = true
		*(dest[5].(*bool)) = public
		*(dest[6].(*string)) = "ABCDEF12"
		*(dest[7].(**time.Time)) = expires
		*(dest[8].(*int)) = maxUses
		*(dest[9].(*int)) = uses
		return nil
	}}
}

func TestWishlistService_Create(t *testing.T) {
	db := &mockDB{}
	svc := NewWishlistService(db)

	db.On("Exec", mock.Anything, sqlContains("INSERT INTO wishlists"), mock.Anything).Return(tag("INSERT 0 1"), nil)

	w, err := svc.Create(context.Background(), "u1", WishlistInput{Name: "Birthday", Public: true})
	require.NoError(t, err)
	assert.Len(t, w.Share.Code, 8)
	assert.Equal(t, platform.ShareCode(w.ID), w.Share.Code)
	assert.True(t, w.Active)
	assert.NotNil(t, w.Items)
}

func TestWishlistService_Create_NegativeMaxUses(t *testing.T) {
	svc := NewWishlistService(&mockDB{})

	_, err := svc.Create(context.Background(), "u1", WishlistInput{Name: "x", MaxUses: -1})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestWishlistService_GetShared(t *testing.T) {
	db := &mockDB{}
	svc := NewWishlistService(db)
	ctx := context.Background()

	db.On("QueryRow", ctx, sqlContains("WHERE share_code = $1"), []any{"ABCDEF12"}).
		Return(wishlistRow("w1", true, nil, 5, 2))
	db.On("QueryRow", ctx, sqlContains("share_uses < share_max_uses"), mock.Anything).Return(valueRow(1, 3))
	db.On("Query", ctx, sqlContains("FROM wishlist_items"), []any{[]string{"w1"}}).Return(newEmptyMockRows(), nil)

	w, err := svc.GetShared(ctx, "ABCDEF12")
	require.NoError(t, err)
	assert.Equal(t, 3, w.Share.Uses)
	assert.Equal(t, 1, w.Views)
	assert.NotNil(t, w.LastViewedAt)
	db.AssertExpectations(t)
}

func TestWishlistService_GetShared_Forbidden(t *testing.T) {
	past := time.Now().Add(-time.Hour)
	tests := []struct {
		name string
		row  *mockRow
	}{
		{"private", wishlistRow("w1", false, nil, 0, 0)},
		{"expired", wishlistRow("w1", true, &past, 0, 0)},
		{"uses exhausted", wishlistRow("w1", true, nil, 3, 3)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db := &mockDB{}
			svc := NewWishlistService(db)
			db.On("QueryRow", mock.Anything, sqlContains("WHERE share_code = $1"), mock.Anything).Return(tt.row)

			_, err := svc.GetShared(context.Background(), "ABCDEF12")
			assert.ErrorIs(t, err, ErrForbidden)
			db.AssertNumberOfCalls(t, "QueryRow", 1)
		})
	}
}

func TestWishlistService_GetShared_UsesExhaustedConcurrently(t *testing.T) {
	db := &mockDB{}
	svc := NewWishlistService(db)
	ctx := context.Background()

	// Read sees one use left, but another viewer takes it before the update.
	db.On("QueryRow", ctx, sqlContains("WHERE share_code = $1"), []any{"ABCDEF12"}).
		Return(wishlistRow("w1", true, nil, 3, 2))
	db.On("QueryRow", ctx, sqlContains("share_uses < share_max_uses"), mock.Anything).Return(errRow(pgx.ErrNoRows))

	w, err := svc.GetShared(ctx, "ABCDEF12")
	assert.ErrorIs(t, err, ErrForbidden)
	assert.Nil(t, w)
	db.AssertNotCalled(t, "Query", mock.Anything, mock.Anything, mock.Anything)
}

func TestWishlistService_GetShared_UnknownCode(t *testing.T) {
	db := &mockDB{}
	svc := NewWishlistService(db)

	db.On("QueryRow", mock.Anything, mock.Anything, mock.Anything).Return(errRow(pgx.ErrNoRows))

	_, err := svc.GetShared(context.Background(), "NOPE")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestWishlistService_AddItem_Duplicate(t *testing.T) {
	db := &mockDB{}
	svc := NewWishlistService(db)
	ctx := context.Background()

	db.On("QueryRow", ctx, sqlContains("FROM wishlists WHERE id = $1 AND user_id = $2"), []any{"w1", "u1"}).Return(valueRow(true))
	db.On("QueryRow", ctx, sqlContains("FROM products WHERE id = $1"), []any{"p1"}).Return(valueRow(true))
	db.On("Exec", ctx, sqlContains("INSERT INTO wishlist_items"), mock.Anything).Return(tag(""), uniqueViolation())

	_, err := svc.AddItem(ctx, "u1", "w1", model.WishlistItem{ProductID: "p1"})
	assert.ErrorIs(t, err, ErrConflict)
	require.NotNil(t, db.tx)
	assert.True(t, db.tx.rolledBack)
	db.AssertNotCalled(t, "Exec", mock.Anything, sqlContains("UPDATE wishlists SET updated_at"), mock.Anything)
}

func TestWishlistService_AddItem_TouchFailureRollsBack(t *testing.T) {
	db := &mockDB{}
	svc := NewWishlistService(db)
	ctx := context.Background()

	db.On("QueryRow", ctx, sqlContains("FROM wishlists"), mock.Anything).Return(valueRow(true))
	db.On("QueryRow", ctx, sqlContains("FROM products"), mock.Anything).Return(valueRow(true))
	db.On("Exec", ctx, sqlContains("INSERT INTO wishlist_items"), mock.Anything).Return(tag("INSERT 0 1"), nil)
	db.On("Exec", ctx, sqlContains("UPDATE wishlists SET updated_at"), []any{"w1"}).Return(tag(""), errors.New("connection reset"))

	item, err := svc.AddItem(ctx, "u1", "w1", model.WishlistItem{ProductID: "p1"})
	require.Error(t, err)
	assert.Nil(t, item)
	require.NotNil(t, db.tx)
	assert.True(t, db.tx.rolledBack)
	assert.False(t, db.tx.committed)
}

func TestWishlistService_AddItem_Defaults(t *testing.T) {
	db := &mockDB{}
	svc := NewWishlistService(db)
	ctx := context.Background()

	db.On("QueryRow", ctx, sqlContains("FROM wishlists"), mock.Anything).Return(valueRow(true))
	db.On("QueryRow", ctx, sqlContains("FROM products"), mock.Anything).Return(valueRow(true))
	db.On("Exec", ctx, sqlContains("INSERT INTO wishlist_items"), mock.Anything).Return(tag("INSERT 0 1"), nil)
	db.On("Exec", ctx, sqlContains("UPDATE wishlists SET updated_at"), []any{"w1"}).Return(tag("UPDATE 1"), nil)

	item, err := svc.AddItem(ctx, "u1", "w1", model.WishlistItem{ProductID: "p1"})
	require.NoError(t, err)
	assert.Equal(t, 3, item.Priority)
	assert.Equal(t, 1, item.Quantity)
	assert.False(t, item.AddedAt.IsZero())
	require.NotNil(t, db.tx)
	assert.True(t, db.tx.committed)
	db.AssertExpectations(t)
}

func TestWishlistService_RemoveItem_NotOwned(t *testing.T) {
	db := &mockDB{}
	svc := NewWishlistService(db)

	db.On("QueryRow", mock.Anything, sqlContains("FROM wishlists"), mock.Anything).Return(valueRow(false))

	err := svc.RemoveItem(context.Background(), "u2", "w1", "p1")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestWishlistService_RemoveItem_Missing(t *testing.T) {
	db := &mockDB{}
	svc := NewWishlistService(db)

	db.On("QueryRow", mock.Anything, sqlContains("FROM wishlists"), mock.Anything).Return(valueRow(true))
	db.On("Exec", mock.Anything, sqlContains("DELETE FROM wishlist_items"), mock.Anything).Return(tag("DELETE 0"), nil)

	err := svc.RemoveItem(context.Background(), "u1", "w1", "p9")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestWishlistService_RegenerateCode(t *testing.T) {
	db := &mockDB{}
	svc := NewWishlistService(db)

	db.On("Exec", mock.Anything, sqlContains("share_uses = 0"), mock.Anything).Return(tag("UPDATE 1"), nil)

	code, err := svc.RegenerateCode(context.Background(), "u1", "w1")
	require.NoError(t, err)
	assert.Regexp(t, `^[0-9A-F]{8}$`, code)
}

func TestWishlistValue(t *testing.T) {
	items := []model.WishlistItem{
		{Quantity: 2, Product: &model.ProductSummary{Active: true, FinalPrice: 10.25}},
		{Quantity: 1, Product: &model.ProductSummary{Active: false, FinalPrice: 999}},
		{Quantity: 3, Product: &model.ProductSummary{Active: true, FinalPrice: 5}},
		{Quantity: 1},
	}
	assert.Equal(t, 35.5, wishlistValue(items))
}
