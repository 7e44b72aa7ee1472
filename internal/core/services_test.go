package core

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewServices(t *testing.T) {
	db := &mockDB{}

	svcs := NewServices(db, Options{
		JWTSecret:     "0123456789abcdef0123456789abcdef",
		JWTIssuer:     "storefront",
		JWTTTL:        time.Hour,
		TaxRate:       0.19,
		PublicBaseURL: "http://localhost:8080",
	})

	require.NotNil(t, svcs)
	assert.NotNil(t, svcs.Auth)
	assert.NotNil(t, svcs.User)
	assert.NotNil(t, svcs.ProductType)
	assert.NotNil(t, svcs.Product)
	assert.NotNil(t, svcs.Image)
	assert.NotNil(t, svcs.Order)
	assert.NotNil(t, svcs.Favorite)
	assert.NotNil(t, svcs.Wishlist)
	assert.NotNil(t, svcs.Notification)
	assert.NotNil(t, svcs.Review)
	assert.NotNil(t, svcs.Dashboard)
	assert.NotNil(t, svcs.Catalog)
	assert.Same(t, svcs.Notification, svcs.Order.notify)
	assert.Nil(t, svcs.Image.store)
}
