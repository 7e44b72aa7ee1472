package handler

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/tekashi/storefront/internal/core"
)

func TestProductTypeCreate_Validation(t *testing.T) {
	h := NewProductType(nil, nil)
	rec := httptest.NewRecorder()

	h.Create(rec, newRequest(http.MethodPost, "/product-types", map[string]any{"sort_order": -1}))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestProductTypeCreate_DuplicateName(t *testing.T) {
	db := &handlerMockDB{}
	db.On("Exec", mock.Anything, mock.AnythingOfType("string"), mock.Anything).
		Return(pgconn.CommandTag{}, &pgconn.PgError{Code: "23505"})
	h := NewProductType(core.NewProductTypeService(db), nil)
	rec := httptest.NewRecorder()

	h.Create(rec, newRequest(http.MethodPost, "/product-types", map[string]any{"name": "Running"}))

	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestProductTypeList_DatabaseError(t *testing.T) {
	db := &handlerMockDB{}
	db.On("Query", mock.Anything, mock.AnythingOfType("string"), mock.Anything).
		Return(nil, errors.New("connection refused"))
	h := NewProductType(core.NewProductTypeService(db), nil)
	rec := httptest.NewRecorder()

	h.List(rec, newRequest(http.MethodGet, "/product-types", nil))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "internal server error", decodeErrorResponse(rec)["error"])
}

func TestProductTypeSetOrder_RequiresValue(t *testing.T) {
	h := NewProductType(nil, nil)
	rec := httptest.NewRecorder()
	r := withChiURLParam(newRequest(http.MethodPut, "/product-types/t1/order", map[string]any{}), "id", "t1")

	h.SetOrder(rec, r)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestProductTypeBySlug_InvalidSlug(t *testing.T) {
	h := NewProductType(nil, nil)
	rec := httptest.NewRecorder()
	r := withChiURLParam(newRequest(http.MethodGet, "/product-types/slug/Bad%20Slug", nil), "slug", "Bad Slug")

	h.BySlug(rec, r)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "invalid slug", decodeErrorResponse(rec)["error"])
}
