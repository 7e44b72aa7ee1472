package core

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"

	"github.com/tekashi/storefront/internal/api/request"
	"github.com/tekashi/storefront/internal/model"
	"github.com/tekashi/storefront/internal/platform"
)

const imageColumns = `id, url, name, description, product_type_id, product_id, kind, sort_order, active,
	size_bytes, width, height, format, quality, optimized_url, thumbnail_url, provider, external_id,
	alt, title, created_at, updated_at`

const (
	cloudinaryOptimized = "w_800,h_600,c_fill,q_auto,f_auto"
	cloudinaryThumbnail = "w_300,h_300,c_fill,q_auto,f_auto"
	presignTTL          = 15 * time.Minute
)

// ObjectStore signs and removes stored image objects.
type ObjectStore interface {
	PresignGet(ctx context.Context, key string, ttl time.Duration) (string, error)
	Delete(ctx context.Context, key string) error
}

// ImageFilter narrows image listings.
type ImageFilter struct {
	ProductTypeID string
	ProductID     string
	ActiveOnly    bool
}

type ImageService struct {
	db      DB
	store   ObjectStore
	baseURL string
}

// NewImageService creates an ImageService. store may be nil when object
// storage is not configured.
func NewImageService(db DB, store ObjectStore, baseURL string) *ImageService {
	return &ImageService{db: db, store: store, baseURL: strings.TrimRight(baseURL, "/")}
}

func scanImage(row scanner, img *model.Image) error {
	return row.Scan(&img.ID, &img.URL, &img.Name, &img.Description, &img.ProductTypeID,
		&img.ProductID, &img.Kind, &img.SortOrder, &img.Active, &img.SizeBytes, &img.Width,
		&img.Height, &img.Format, &img.Quality, &img.OptimizedURL, &img.ThumbnailURL,
		&img.Provider, &img.ExternalID, &img.Alt, &img.Title, &img.CreatedAt, &img.UpdatedAt)
}

func (s *ImageService) Create(ctx context.Context, img *model.Image) error {
	if img.ID == "" {
		img.ID = platform.NewID()
	}
	if img.Kind == "" {
		img.Kind = model.ImageGallery
	}
	if img.Quality == 0 {
		img.Quality = 85
	}
	if img.Provider == "" {
		img.Provider = model.ProviderLocal
	}
	if img.Format == "" {
		img.Format = "jpeg"
	}
	img.Active = true
	now := time.Now()
	img.CreatedAt, img.UpdatedAt = now, now

	_, err := s.db.Exec(ctx,
		`INSERT INTO images (id, url, name, description, product_type_id, product_id, kind, sort_order,
		 active, size_bytes, width, height, format, quality, optimized_url, thumbnail_url, provider,
		 external_id, alt, title, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21, $22)`,
		img.ID, img.URL, img.Name, img.Description, img.ProductTypeID, img.ProductID, img.Kind,
		img.SortOrder, img.Active, img.SizeBytes, img.Width, img.Height, img.Format, img.Quality,
		img.OptimizedURL, img.ThumbnailURL, img.Provider, img.ExternalID, img.Alt, img.Title,
		img.CreatedAt, img.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("create image: %w", err)
	}
	return nil
}

func (s *ImageService) GetByID(ctx context.Context, id string) (*model.Image, error) {
	var img model.Image
	err := scanImage(s.db.QueryRow(ctx, `SELECT `+imageColumns+` FROM images WHERE id = $1`, id), &img)
	if err != nil {
		return nil, notFound(err, "get image %s", id)
	}
	return &img, nil
}

func (s *ImageService) List(ctx context.Context, imf ImageFilter, params request.ListParams) ([]model.Image, bool, error) {
	var f filter
	if imf.ActiveOnly {
		f.addRaw(`active`)
	}
	if imf.ProductTypeID != "" {
		f.add(`product_type_id = ?`, imf.ProductTypeID)
	}
	if imf.ProductID != "" {
		f.add(`product_id = ?`, imf.ProductID)
	}
	if params.Search != "" {
		f.add(`(name ILIKE ? OR alt ILIKE ?)`, "%"+params.Search+"%")
	}
	if params.Status != "" {
		f.add(`kind = ?`, params.Status)
	}
	query := `SELECT ` + imageColumns + ` FROM images` + f.where() + f.page(params, "sort_order", "created_at", "name")

	rows, err := s.db.Query(ctx, query, f.args...)
	if err != nil {
		return nil, false, fmt.Errorf("list images: %w", err)
	}
	defer rows.Close()

	var images []model.Image
	for rows.Next() {
		var img model.Image
		if err := scanImage(rows, &img); err != nil {
			return nil, false, fmt.Errorf("scan image: %w", err)
		}
		images = append(images, img)
	}
	if err := rows.Err(); err != nil {
		return nil, false, fmt.Errorf("iterate images: %w", err)
	}

	images, hasMore := trimPage(images, params.Limit)
	return images, hasMore, nil
}

func (s *ImageService) Update(ctx context.Context, img *model.Image) error {
	tag, err := s.db.Exec(ctx,
		`UPDATE images SET name = $1, description = $2, product_id = $3, kind = $4, active = $5,
		 alt = $6, title = $7, updated_at = now() WHERE id = $8`,
		img.Name, img.Description, img.ProductID, img.Kind, img.Active, img.Alt, img.Title, img.ID,
	)
	if err != nil {
		return fmt.Errorf("update image %s: %w", img.ID, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("update image %s: %w", img.ID, ErrNotFound)
	}
	return nil
}

// Delete removes the image row and, for S3 images, the stored object. A
// failed object removal is logged and does not fail the delete.
func (s *ImageService) Delete(ctx context.Context, id string) error {
	var provider, externalID string
	err := s.db.QueryRow(ctx,
		`DELETE FROM images WHERE id = $1 RETURNING provider, external_id`, id,
	).Scan(&provider, &externalID)
	if err != nil {
		return notFound(err, "delete image %s", id)
	}

	if provider == model.ProviderS3 && externalID != "" && s.store != nil {
		if err := s.store.Delete(ctx, externalID); err != nil {
			zerolog.Ctx(ctx).Warn().Err(err).Str("image_id", id).Str("key", externalID).
				Msg("failed to remove image object")
		}
	}
	return nil
}

// MarkMain makes the image the main image of its product (or of its product
// type when it has no product). The previous main image becomes a gallery image.
func (s *ImageService) MarkMain(ctx context.Context, id string) (*model.Image, error) {
	var img model.Image
	err := inTx(ctx, s.db, func(tx pgx.Tx) error {
		if err := scanImage(tx.QueryRow(ctx,
			`SELECT `+imageColumns+` FROM images WHERE id = $1 FOR UPDATE`, id), &img); err != nil {
			return notFound(err, "get image %s", id)
		}

		var err error
		if img.ProductID != nil {
			_, err = tx.Exec(ctx,
				`UPDATE images SET kind = $1, updated_at = now()
				 WHERE product_id = $2 AND kind = $3 AND id <> $4`,
				model.ImageGallery, *img.ProductID, model.ImageMain, id)
		} else {
			_, err = tx.Exec(ctx,
				`UPDATE images SET kind = $1, updated_at = now()
				 WHERE product_type_id = $2 AND product_id IS NULL AND kind = $3 AND id <> $4`,
				model.ImageGallery, img.ProductTypeID, model.ImageMain, id)
		}
		if err != nil {
			return fmt.Errorf("demote main images: %w", err)
		}

		if _, err := tx.Exec(ctx,
			`UPDATE images SET kind = $1, updated_at = now() WHERE id = $2`, model.ImageMain, id); err != nil {
			return fmt.Errorf("mark image %s main: %w", id, err)
		}
		img.Kind = model.ImageMain
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &img, nil
}

func (s *ImageService) SetSortOrder(ctx context.Context, id string, order int) error {
	tag, err := s.db.Exec(ctx, `UPDATE images SET sort_order = $1, updated_at = now() WHERE id = $2`, order, id)
	if err != nil {
		return fmt.Errorf("set image order %s: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("set image order %s: %w", id, ErrNotFound)
	}
	return nil
}

// Optimize derives and stores the optimized and thumbnail URLs of an image.
func (s *ImageService) Optimize(ctx context.Context, id string) (*model.Image, error) {
	img, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	img.OptimizedURL, img.ThumbnailURL = OptimizedURLs(img.URL, img.Provider)

	_, err = s.db.Exec(ctx,
		`UPDATE images SET optimized_url = $1, thumbnail_url = $2, updated_at = now() WHERE id = $3`,
		img.OptimizedURL, img.ThumbnailURL, id)
	if err != nil {
		return nil, fmt.Errorf("optimize image %s: %w", id, err)
	}
	return img, nil
}

// URLs resolves the public URLs of an image. S3 images with a stored object
// key are presigned when object storage is configured.
func (s *ImageService) URLs(ctx context.Context, img *model.Image) (*model.ImageURLs, error) {
	if img.Provider == model.ProviderS3 && img.ExternalID != "" && s.store != nil {
		signed, err := s.store.PresignGet(ctx, img.ExternalID, presignTTL)
		if err != nil {
			return nil, fmt.Errorf("presign image %s: %w", img.ID, err)
		}
		return &model.ImageURLs{
			Original:  signed,
			Optimized: s.fullURL(img.OptimizedURL, signed),
			Thumbnail: s.fullURL(img.ThumbnailURL, signed),
		}, nil
	}

	original := s.fullURL(img.URL, "")
	return &model.ImageURLs{
		Original:  original,
		Optimized: s.fullURL(img.OptimizedURL, original),
		Thumbnail: s.fullURL(img.ThumbnailURL, original),
	}, nil
}

// fullURL prefixes relative URLs with the public base URL. Empty URLs
// resolve to fallback.
func (s *ImageService) fullURL(u, fallback string) string {
	if u == "" {
		return fallback
	}
	if strings.HasPrefix(u, "http://") || strings.HasPrefix(u, "https://") {
		return u
	}
	return s.baseURL + "/" + strings.TrimLeft(u, "/")
}

// OptimizedURLs derives the optimized and thumbnail variants of a URL for
// the given provider.
func OptimizedURLs(u, provider string) (optimized, thumbnail string) {
	switch provider {
	case model.ProviderCloudinary:
		if strings.Contains(u, "/upload/") {
			return strings.Replace(u, "/upload/", "/upload/"+cloudinaryOptimized+"/", 1),
				strings.Replace(u, "/upload/", "/upload/"+cloudinaryThumbnail+"/", 1)
		}
	case model.ProviderS3:
		if strings.Contains(u, "/original/") {
			return strings.Replace(u, "/original/", "/optimized/", 1),
				strings.Replace(u, "/original/", "/thumbnails/", 1)
		}
	}
	return u, u
}
