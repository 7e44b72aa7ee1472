package storage

import (
	"context"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestS3Store_PresignGet_CustomEndpoint(t *testing.T) {
	store := NewS3Store("http://localhost:9000", "us-east-1", "images", "AKIDEXAMPLE", "secret")

	signed, err := store.PresignGet(context.Background(), "products/original/shoe.jpg", 15*time.Minute)
	require.NoError(t, err)

	u, err := url.Parse(signed)
	require.NoError(t, err)
	assert.Equal(t, "localhost:9000", u.Host)
	// Path-style addressing puts the bucket in the path.
	assert.True(t, strings.HasPrefix(u.Path, "/images/products/original/shoe.jpg"), u.Path)
	assert.Equal(t, "900", u.Query().Get("X-Amz-Expires"))
	assert.NotEmpty(t, u.Query().Get("X-Amz-Signature"))
}

func TestNewS3Store_DefaultEndpoint(t *testing.T) {
	store := NewS3Store("", "eu-west-1", "images", "AKIDEXAMPLE", "secret")
	require.NotNil(t, store)
	assert.Equal(t, "images", store.bucket)
	assert.False(t, store.client.Options().UsePathStyle)
}
