package core

import (
	"context"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func reviewRow(id, userID, productID string) *mockRow {
	return &mockRow{scanFunc: func(dest ...any) error {
		*(dest[0].(*string)) = id
		*(dest[1].(*string)) = productID
		*(dest[2].(*string)) = userID
		*(dest[4].(*int)) = 4
		*(dest[11].(*bool)) = true
		return nil
	}}
}

func TestReviewService_Create(t *testing.T) {
	db := &mockDB{}
	svc := NewReviewService(db)
	ctx := context.Background()

	db.On("QueryRow", ctx, sqlContains("FROM products WHERE id = $1 AND active FOR UPDATE"), []any{"p1"}).Return(valueRow("p1"))
	db.On("QueryRow", ctx, sqlContains("SELECT name FROM users"), []any{"u1"}).Return(valueRow("Ana"))
	db.On("QueryRow", ctx, sqlContains("JOIN order_items"), mock.Anything).Return(valueRow(true))
	db.On("Exec", ctx, sqlContains("INSERT INTO reviews"), mock.Anything).Return(tag("INSERT 0 1"), nil)
	db.On("Exec", ctx, sqlContains("rating_avg"), []any{"p1"}).Return(tag("UPDATE 1"), nil)

	r, err := svc.Create(ctx, "u1", "p1", 5, "Great", "Very comfortable")
	require.NoError(t, err)
	assert.Equal(t, "Ana", r.UserName)
	assert.True(t, r.VerifiedPurchase)
	assert.True(t, r.Active)
	assert.True(t, db.tx.committed)
	db.AssertExpectations(t)
}

func TestReviewService_Create_Duplicate(t *testing.T) {
	db := &mockDB{}
	svc := NewReviewService(db)

	db.On("QueryRow", mock.Anything, sqlContains("FROM products"), mock.Anything).Return(valueRow("p1"))
	db.On("QueryRow", mock.Anything, sqlContains("FROM users"), mock.Anything).Return(valueRow("Ana"))
	db.On("QueryRow", mock.Anything, sqlContains("JOIN order_items"), mock.Anything).Return(valueRow(false))
	db.On("Exec", mock.Anything, sqlContains("INSERT INTO reviews"), mock.Anything).Return(tag(""), uniqueViolation())

	_, err := svc.Create(context.Background(), "u1", "p1", 4, "", "ok")
	assert.ErrorIs(t, err, ErrConflict)
	assert.True(t, db.tx.rolledBack)
}

func TestReviewService_Create_UnknownProduct(t *testing.T) {
	db := &mockDB{}
	svc := NewReviewService(db)

	db.On("QueryRow", mock.Anything, sqlContains("FROM products"), mock.Anything).Return(errRow(pgx.ErrNoRows))

	_, err := svc.Create(context.Background(), "u1", "missing", 4, "", "ok")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestReviewService_Create_InvalidRating(t *testing.T) {
	svc := NewReviewService(&mockDB{})

	_, err := svc.Create(context.Background(), "u1", "p1", 6, "", "ok")
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestReviewService_Update_NotAuthor(t *testing.T) {
	db := &mockDB{}
	svc := NewReviewService(db)

	db.On("QueryRow", mock.Anything, sqlContains("FOR UPDATE"), []any{"r1"}).Return(reviewRow("r1", "u1", "p1"))

	_, err := svc.Update(context.Background(), "u2", "r1", ReviewPatch{})
	assert.ErrorIs(t, err, ErrForbidden)
}

func TestReviewService_Update_RecomputesRating(t *testing.T) {
	db := &mockDB{}
	svc := NewReviewService(db)
	ctx := context.Background()
	rating := 2

	db.On("QueryRow", ctx, sqlContains("FOR UPDATE"), []any{"r1"}).Return(reviewRow("r1", "u1", "p1"))
	db.On("Exec", ctx, sqlContains("UPDATE reviews SET rating"), mock.Anything).Return(tag("UPDATE 1"), nil)
	db.On("Exec", ctx, sqlContains("rating_avg"), []any{"p1"}).Return(tag("UPDATE 1"), nil)

	r, err := svc.Update(ctx, "u1", "r1", ReviewPatch{Rating: &rating})
	require.NoError(t, err)
	assert.Equal(t, 2, r.Rating)
	db.AssertExpectations(t)
}

func TestReviewService_Delete_AdminMayDelete(t *testing.T) {
	db := &mockDB{}
	svc := NewReviewService(db)
	ctx := context.Background()

	db.On("QueryRow", ctx, sqlContains("FOR UPDATE"), mock.Anything).Return(reviewRow("r1", "u1", "p1"))
	db.On("Exec", ctx, sqlContains("SET active = false"), []any{"r1"}).Return(tag("UPDATE 1"), nil)
	db.On("Exec", ctx, sqlContains("rating_avg"), []any{"p1"}).Return(tag("UPDATE 1"), nil)

	require.NoError(t, svc.Delete(ctx, "admin-1", true, "r1"))
	db.AssertExpectations(t)
}

func TestReviewService_Delete_Forbidden(t *testing.T) {
	db := &mockDB{}
	svc := NewReviewService(db)

	db.On("QueryRow", mock.Anything, sqlContains("FOR UPDATE"), mock.Anything).Return(reviewRow("r1", "u1", "p1"))

	assert.ErrorIs(t, svc.Delete(context.Background(), "u2", false, "r1"), ErrForbidden)
}

func TestReviewService_Stats(t *testing.T) {
	db := &mockDB{}
	svc := NewReviewService(db)

	db.On("Query", mock.Anything, sqlContains("GROUP BY rating"), []any{"p1"}).Return(valueRows(
		[]any{5, 2, 6, 1, 2},
		[]any{3, 1, 0, 1, 0},
	), nil)

	st, err := svc.Stats(context.Background(), "p1")
	require.NoError(t, err)
	assert.Equal(t, 3, st.Total)
	assert.Equal(t, 4.3, st.Average)
	assert.Equal(t, [5]int{0, 0, 1, 0, 2}, st.Distribution)
	assert.Equal(t, 75.0, st.HelpfulPercentage)
	assert.Equal(t, 2, st.Verified)
}

func TestReviewService_Vote(t *testing.T) {
	db := &mockDB{}
	svc := NewReviewService(db)

	db.On("QueryRow", mock.Anything, sqlContains("SET helpful = helpful + 1"), []any{"r1"}).Return(reviewRow("r1", "u1", "p1"))
	_, err := svc.Vote(context.Background(), "r1", true)
	require.NoError(t, err)

	db.On("QueryRow", mock.Anything, sqlContains("SET not_helpful = not_helpful + 1"), []any{"r1"}).Return(reviewRow("r1", "u1", "p1"))
	_, err = svc.Vote(context.Background(), "r1", false)
	require.NoError(t, err)
	db.AssertExpectations(t)
}
