package request

type CreateProductType struct {
	Name            string   `json:"name" validate:"required,max=100"`
	Description     string   `json:"description" validate:"max=500"`
	SortOrder       int      `json:"sort_order" validate:"min=0"`
	MetaDescription string   `json:"meta_description" validate:"max=160"`
	Keywords        []string `json:"keywords" validate:"omitempty,dive,max=50"`
}

type UpdateProductType struct {
	Name            *string  `json:"name" validate:"omitempty,min=1,max=100"`
	Description     *string  `json:"description" validate:"omitempty,max=500"`
	Active          *bool    `json:"active"`
	MetaDescription *string  `json:"meta_description" validate:"omitempty,max=160"`
	Keywords        []string `json:"keywords" validate:"omitempty,dive,max=50"`
}

type SetSortOrder struct {
	SortOrder *int `json:"sort_order" validate:"required,min=0"`
}
