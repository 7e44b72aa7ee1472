package request

import (
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseListParams_Defaults(t *testing.T) {
	r := httptest.NewRequest("GET", "/products", nil)
	p := ParseListParams(r, "created_at")
	assert.Equal(t, DefaultLimit, p.Limit)
	assert.Empty(t, p.Cursor)
	assert.Empty(t, p.Search)
	assert.Empty(t, p.Status)
	assert.Equal(t, "created_at", p.Sort)
	assert.Equal(t, "desc", p.Order)
}

func TestParseListParams_AllParams(t *testing.T) {
	r := httptest.NewRequest("GET", "/orders?limit=25&cursor=50&search=TK17&status=pending&sort=total&order=asc", nil)
	p := ParseListParams(r, "created_at")
	assert.Equal(t, 25, p.Limit)
	assert.Equal(t, "50", p.Cursor)
	assert.Equal(t, "TK17", p.Search)
	assert.Equal(t, "pending", p.Status)
	assert.Equal(t, "total", p.Sort)
	assert.Equal(t, "asc", p.Order)
}

func TestParseListParams_InvalidOrderFallsBack(t *testing.T) {
	r := httptest.NewRequest("GET", "/products?order=sideways", nil)
	p := ParseListParams(r, "created_at")
	assert.Equal(t, "desc", p.Order)
}

func TestParseListParams_LimitClamped(t *testing.T) {
	r := httptest.NewRequest("GET", "/products?limit=500", nil)
	p := ParseListParams(r, "created_at")
	assert.Equal(t, MaxLimit, p.Limit)
}

func TestQueryBool(t *testing.T) {
	r := httptest.NewRequest("GET", "/products?featured=true&in_stock=nope", nil)
	assert.Equal(t, true, *QueryBool(r, "featured"))
	assert.Nil(t, QueryBool(r, "in_stock"))
	assert.Nil(t, QueryBool(r, "missing"))
}

func TestQueryFloat(t *testing.T) {
	r := httptest.NewRequest("GET", "/products?min_price=10.5&max_price=x", nil)
	assert.InDelta(t, 10.5, *QueryFloat(r, "min_price"), 0.0001)
	assert.Nil(t, QueryFloat(r, "max_price"))
}

func TestQueryInt(t *testing.T) {
	r := httptest.NewRequest("GET", "/reviews?rating=4&bad=x", nil)
	assert.Equal(t, 4, *QueryInt(r, "rating"))
	assert.Nil(t, QueryInt(r, "bad"))
}

func TestStringOr(t *testing.T) {
	assert.Equal(t, "hello", stringOr("hello", "world"))
	assert.Equal(t, "world", stringOr("", "world"))
}
