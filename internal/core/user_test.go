package core

import (
	"context"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/tekashi/storefront/internal/api/request"
	"github.com/tekashi/storefront/internal/model"
)

func TestUserService_GetByID_NotFound(t *testing.T) {
	db := &mockDB{}
	svc := NewUserService(db)
	ctx := context.Background()

	db.On("QueryRow", ctx, mock.AnythingOfType("string"), []any{"missing"}).Return(errRow(pgx.ErrNoRows))

	_, err := svc.GetByID(ctx, "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestUserService_Create_DefaultsToCustomer(t *testing.T) {
	db := &mockDB{}
	svc := NewUserService(db)
	ctx := context.Background()

	db.On("Exec", ctx, sqlContains("INSERT INTO users"), mock.Anything).Return(tag("INSERT 0 1"), nil)

	u, err := svc.Create(ctx, "  Ana  ", "Ana@Example.COM", "password1", "", "", "")
	require.NoError(t, err)
	assert.Equal(t, "Ana", u.Name)
	assert.Equal(t, "ana@example.com", u.Email)
	assert.Equal(t, model.RoleCustomer, u.Role)
	assert.True(t, u.Active)
	db.AssertExpectations(t)
}

func TestUserService_List(t *testing.T) {
	db := &mockDB{}
	svc := NewUserService(db)
	ctx := context.Background()
	active := true

	db.On("Query", ctx, sqlContains("WHERE (name ILIKE $1 OR email ILIKE $1) AND role = $2 AND active = $3"),
		[]any{"%ana%", model.RoleAdmin, true, 51, 0}).
		Return(userRowsOf("u1", "u2"), nil)

	users, hasMore, err := svc.List(ctx, request.ListParams{Limit: 50, Search: "ana", Status: model.RoleAdmin}, &active)
	require.NoError(t, err)
	assert.False(t, hasMore)
	assert.Len(t, users, 2)
	db.AssertExpectations(t)
}

func userRowsOf(ids ...string) *mockRows {
	fns := make([]func(dest ...any) error, len(ids))
	for i, id := range ids {
		fns[i] = func(dest ...any) error {
			*(dest[0].(*string)) = id
			return nil
		}
	}
	return newMockRows(fns...)
}

func TestUserService_SetRole(t *testing.T) {
	db := &mockDB{}
	svc := NewUserService(db)
	ctx := context.Background()

	err := svc.SetRole(ctx, "u1", "superuser")
	assert.ErrorIs(t, err, ErrInvalidInput)

	db.On("Exec", ctx, sqlContains("SET role"), []any{model.RoleAdmin, "u1"}).Return(tag("UPDATE 1"), nil)
	require.NoError(t, svc.SetRole(ctx, "u1", model.RoleAdmin))

	db.On("Exec", ctx, sqlContains("SET role"), []any{model.RoleAdmin, "missing"}).Return(tag("UPDATE 0"), nil)
	assert.ErrorIs(t, svc.SetRole(ctx, "missing", model.RoleAdmin), ErrNotFound)
}

func TestUserService_SetActive_NotFound(t *testing.T) {
	db := &mockDB{}
	svc := NewUserService(db)

	db.On("Exec", mock.Anything, sqlContains("SET active"), mock.Anything).Return(tag("UPDATE 0"), nil)

	assert.ErrorIs(t, svc.SetActive(context.Background(), "missing", false), ErrNotFound)
}

func TestUserService_Stats(t *testing.T) {
	db := &mockDB{}
	svc := NewUserService(db)

	db.On("QueryRow", mock.Anything, sqlContains("FROM users"), mock.Anything).Return(valueRow(10, 8, 2, 3))

	st, err := svc.Stats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, model.UserStats{Total: 10, Active: 8, Admins: 2, NewThisMonth: 3}, *st)
}
