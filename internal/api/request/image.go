package request

type CreateImage struct {
	URL           string  `json:"url" validate:"required,max=2048"`
	Name          string  `json:"name" validate:"required,max=200"`
	Description   string  `json:"description" validate:"max=500"`
	ProductTypeID string  `json:"product_type_id" validate:"required"`
	ProductID     *string `json:"product_id" validate:"omitempty,min=1"`
	Kind          string  `json:"kind" validate:"omitempty,oneof=main secondary gallery thumbnail"`
	SortOrder     int     `json:"sort_order" validate:"min=0"`
	SizeBytes     int64   `json:"size_bytes" validate:"min=0"`
	Width         int     `json:"width" validate:"min=0"`
	Height        int     `json:"height" validate:"min=0"`
	Format        string  `json:"format" validate:"omitempty,oneof=jpeg png webp gif svg"`
	Quality       int     `json:"quality" validate:"omitempty,min=1,max=100"`
	Provider      string  `json:"provider" validate:"omitempty,oneof=local cloudinary s3"`
	ExternalID    string  `json:"external_id" validate:"max=500"`
	Alt           string  `json:"alt" validate:"max=200"`
	Title         string  `json:"title" validate:"max=200"`
}

type UpdateImage struct {
	Name        *string `json:"name" validate:"omitempty,min=1,max=200"`
	Description *string `json:"description" validate:"omitempty,max=500"`
	ProductID   *string `json:"product_id" validate:"omitempty,min=1"`
	Kind        *string `json:"kind" validate:"omitempty,oneof=main secondary gallery thumbnail"`
	Active      *bool   `json:"active"`
	Alt         *string `json:"alt" validate:"omitempty,max=200"`
	Title       *string `json:"title" validate:"omitempty,max=200"`
}
