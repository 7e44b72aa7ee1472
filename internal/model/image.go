package model

import "time"

// Image kinds.
const (
	ImageMain      = "main"
	ImageSecondary = "secondary"
	ImageGallery   = "gallery"
	ImageThumbnail = "thumbnail"
)

// Image storage providers.
const (
	ProviderLocal      = "local"
	ProviderCloudinary = "cloudinary"
	ProviderS3         = "s3"
)

type Image struct {
	ID            string    `json:"id" db:"id"`
	URL           string    `json:"url" db:"url"`
	Name          string    `json:"name" db:"name"`
	Description   string    `json:"description" db:"description"`
	ProductTypeID string    `json:"product_type_id" db:"product_type_id"`
	ProductID     *string   `json:"product_id,omitempty" db:"product_id"`
	Kind          string    `json:"kind" db:"kind"`
	SortOrder     int       `json:"sort_order" db:"sort_order"`
	Active        bool      `json:"active" db:"active"`
	SizeBytes     int64     `json:"size_bytes" db:"size_bytes"`
	Width         int       `json:"width" db:"width"`
	Height        int       `json:"height" db:"height"`
	Format        string    `json:"format" db:"format"`
	Quality       int       `json:"quality" db:"quality"`
	OptimizedURL  string    `json:"optimized_url" db:"optimized_url"`
	ThumbnailURL  string    `json:"thumbnail_url" db:"thumbnail_url"`
	Provider      string    `json:"provider" db:"provider"`
	ExternalID    string    `json:"external_id" db:"external_id"`
	Alt           string    `json:"alt" db:"alt"`
	Title         string    `json:"title" db:"title"`
	CreatedAt     time.Time `json:"created_at" db:"created_at"`
	UpdatedAt     time.Time `json:"updated_at" db:"updated_at"`
}

// ImageURLs holds every resolved URL of an image.
type ImageURLs struct {
	Original  string `json:"original"`
	Optimized string `json:"optimized"`
	Thumbnail string `json:"thumbnail"`
}
