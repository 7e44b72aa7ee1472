package handler

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/tekashi/storefront/internal/core"
)

func TestWishlistRoutes_RequireAuthentication(t *testing.T) {
	h := NewWishlist(nil)
	routes := map[string]http.HandlerFunc{
		"list":       h.List,
		"create":     h.Create,
		"get":        h.Get,
		"update":     h.Update,
		"delete":     h.Delete,
		"add item":   h.AddItem,
		"regenerate": h.RegenerateCode,
		"value":      h.Value,
		"offers":     h.Offers,
	}
	for name, fn := range routes {
		t.Run(name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			fn(rec, newRequest(http.MethodGet, "/wishlists", nil))
			assert.Equal(t, http.StatusUnauthorized, rec.Code)
		})
	}
}

func TestWishlistCreate_Validation(t *testing.T) {
	h := NewWishlist(nil)
	rec := httptest.NewRecorder()

	h.Create(rec, withCustomer(newRequest(http.MethodPost, "/wishlists", map[string]any{"public": true}), "u1"))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestWishlistAddItem_QuantityBounds(t *testing.T) {
	h := NewWishlist(nil)
	rec := httptest.NewRecorder()
	r := withChiURLParam(withCustomer(newRequest(http.MethodPost, "/wishlists/w1/items",
		map[string]any{"product_id": "p1", "quantity": 5000}), "u1"), "id", "w1")

	h.AddItem(rec, r)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestWishlistShared_UnknownCode(t *testing.T) {
	db := &handlerMockDB{}
	db.On("QueryRow", mock.Anything, mock.AnythingOfType("string"), []any{"ABCD1234"}).
		Return(errRow(pgx.ErrNoRows))
	h := NewWishlist(core.NewWishlistService(db))
	rec := httptest.NewRecorder()

	h.Shared(rec, withChiURLParam(newRequest(http.MethodGet, "/wishlists/shared/ABCD1234", nil), "code", "ABCD1234"))

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestNotifySettings(t *testing.T) {
	assert.Nil(t, notifySettings(nil))
}
