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
)

type fakeStore struct {
	deleted []string
	err     error
}

func (f *fakeStore) PresignGet(ctx context.Context, key string, ttl time.Duration) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	return "https://s3.example.com/images/" + key + "?X-Amz-Expires=" + ttl.String(), nil
}

func (f *fakeStore) Delete(ctx context.Context, key string) error {
	f.deleted = append(f.deleted, key)
	return f.err
}

func TestOptimizedURLs(t *testing.T) {
	tests := []struct {
		name, url, provider string
		optimized, thumb    string
	}{
		{
			"cloudinary",
			"https://res.cloudinary.com/demo/image/upload/v1/shoe.jpg", model.ProviderCloudinary,
			"https://res.cloudinary.com/demo/image/upload/w_800,h_600,c_fill,q_auto,f_auto/v1/shoe.jpg",
			"https://res.cloudinary.com/demo/image/upload/w_300,h_300,c_fill,q_auto,f_auto/v1/shoe.jpg",
		},
		{
			"s3",
			"https://bucket.s3.amazonaws.com/original/shoe.jpg", model.ProviderS3,
			"https://bucket.s3.amazonaws.com/optimized/shoe.jpg",
			"https://bucket.s3.amazonaws.com/thumbnails/shoe.jpg",
		},
		{"local", "/uploads/shoe.jpg", model.ProviderLocal, "/uploads/shoe.jpg", "/uploads/shoe.jpg"},
		{"cloudinary without upload segment", "https://x/y.jpg", model.ProviderCloudinary, "https://x/y.jpg", "https://x/y.jpg"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opt, thumb := OptimizedURLs(tt.url, tt.provider)
			assert.Equal(t, tt.optimized, opt)
			assert.Equal(t, tt.thumb, thumb)
		})
	}
}

func TestImageService_URLs_Local(t *testing.T) {
	svc := NewImageService(&mockDB{}, nil, "https://shop.example.com/")

	urls, err := svc.URLs(context.Background(), &model.Image{
		URL: "/uploads/shoe.jpg", ThumbnailURL: "uploads/thumb.jpg", Provider: model.ProviderLocal,
	})
	require.NoError(t, err)
	assert.Equal(t, "https://shop.example.com/uploads/shoe.jpg", urls.Original)
	assert.Equal(t, "https://shop.example.com/uploads/shoe.jpg", urls.Optimized)
	assert.Equal(t, "https://shop.example.com/uploads/thumb.jpg", urls.Thumbnail)
}

func TestImageService_URLs_AbsoluteKept(t *testing.T) {
	svc := NewImageService(&mockDB{}, nil, "https://shop.example.com")

	urls, err := svc.URLs(context.Background(), &model.Image{URL: "https://cdn.example.com/a.jpg"})
	require.NoError(t, err)
	assert.Equal(t, "https://cdn.example.com/a.jpg", urls.Original)
}

func TestImageService_URLs_S3Presigned(t *testing.T) {
	svc := NewImageService(&mockDB{}, &fakeStore{}, "https://shop.example.com")

	urls, err := svc.URLs(context.Background(), &model.Image{
		URL: "https://bucket/original/a.jpg", Provider: model.ProviderS3, ExternalID: "original/a.jpg",
	})
	require.NoError(t, err)
	assert.Equal(t, "https://s3.example.com/images/original/a.jpg?X-Amz-Expires=15m0s", urls.Original)
	assert.Equal(t, urls.Original, urls.Thumbnail)
}

func TestImageService_URLs_PresignError(t *testing.T) {
	svc := NewImageService(&mockDB{}, &fakeStore{err: errors.New("no credentials")}, "")

	_, err := svc.URLs(context.Background(), &model.Image{Provider: model.ProviderS3, ExternalID: "k"})
	assert.Error(t, err)
}

func TestImageService_Delete_RemovesS3Object(t *testing.T) {
	db := &mockDB{}
	store := &fakeStore{}
	svc := NewImageService(db, store, "")
	ctx := context.Background()

	db.On("QueryRow", ctx, sqlContains("DELETE FROM images"), []any{"img1"}).
		Return(valueRow(model.ProviderS3, "original/a.jpg"))

	require.NoError(t, svc.Delete(ctx, "img1"))
	assert.Equal(t, []string{"original/a.jpg"}, store.deleted)
}

func TestImageService_Delete_StoreFailureIsNotFatal(t *testing.T) {
	db := &mockDB{}
	store := &fakeStore{err: errors.New("access denied")}
	svc := NewImageService(db, store, "")

	db.On("QueryRow", mock.Anything, sqlContains("DELETE FROM images"), mock.Anything).
		Return(valueRow(model.ProviderS3, "k"))

	assert.NoError(t, svc.Delete(context.Background(), "img1"))
}

func TestImageService_Delete_NotFound(t *testing.T) {
	db := &mockDB{}
	svc := NewImageService(db, nil, "")

	db.On("QueryRow", mock.Anything, sqlContains("DELETE FROM images"), mock.Anything).Return(errRow(pgx.ErrNoRows))

	assert.ErrorIs(t, svc.Delete(context.Background(), "missing"), ErrNotFound)
}

func TestImageService_MarkMain_Product(t *testing.T) {
	db := &mockDB{}
	svc := NewImageService(db, nil, "")
	ctx := context.Background()

	db.On("QueryRow", ctx, sqlContains("FOR UPDATE"), []any{"img1"}).Return(&mockRow{scanFunc: func(dest ...any) error {
		*(dest[0].(*string)) = "img1"
		*(dest[4].(*string)) = "t1"
		pid := "p1"
		*(dest[5].(**string)) = &pid
		*(dest[6].(*string)) = model.ImageGallery
		return nil
	}})
	db.On("Exec", ctx, sqlContains("WHERE product_id = $2"), []any{model.ImageGallery, "p1", model.ImageMain, "img1"}).
		Return(tag("UPDATE 1"), nil)
	db.On("Exec", ctx, sqlContains("WHERE id = $2"), []any{model.ImageMain, "img1"}).Return(tag("UPDATE 1"), nil)

	img, err := svc.MarkMain(ctx, "img1")
	require.NoError(t, err)
	assert.Equal(t, model.ImageMain, img.Kind)
	assert.True(t, db.tx.committed)
	db.AssertExpectations(t)
}

func TestImageService_MarkMain_ProductType(t *testing.T) {
	db := &mockDB{}
	svc := NewImageService(db, nil, "")
	ctx := context.Background()

	db.On("QueryRow", ctx, sqlContains("FOR UPDATE"), mock.Anything).Return(&mockRow{scanFunc: func(dest ...any) error {
		*(dest[0].(*string)) = "img1"
		*(dest[4].(*string)) = "t1"
		return nil
	}})
	db.On("Exec", ctx, sqlContains("product_id IS NULL"), []any{model.ImageGallery, "t1", model.ImageMain, "img1"}).
		Return(tag("UPDATE 0"), nil)
	db.On("Exec", ctx, sqlContains("WHERE id = $2"), mock.Anything).Return(tag("UPDATE 1"), nil)

	_, err := svc.MarkMain(ctx, "img1")
	require.NoError(t, err)
	db.AssertExpectations(t)
}

func TestImageService_Create_Defaults(t *testing.T) {
	db := &mockDB{}
	svc := NewImageService(db, nil, "")

	db.On("Exec", mock.Anything, sqlContains("INSERT INTO images"), mock.Anything).Return(tag("INSERT 0 1"), nil)

	img := &model.Image{URL: "/a.jpg", ProductTypeID: "t1"}
	require.NoError(t, svc.Create(context.Background(), img))
	assert.Equal(t, model.ImageGallery, img.Kind)
	assert.Equal(t, 85, img.Quality)
	assert.Equal(t, model.ProviderLocal, img.Provider)
	assert.True(t, img.Active)
}
