package request

import "time"

type CreateProduct struct {
	Name            string   `json:"name" validate:"required,max=200"`
	Description     string   `json:"description" validate:"required,max=2000"`
	Price           float64  `json:"price" validate:"gt=0"`
	Stock           int      `json:"stock" validate:"min=0"`
	ProductTypeID   string   `json:"product_type_id" validate:"required"`
	Brand           string   `json:"brand" validate:"required,max=100"`
	Model           string   `json:"model" validate:"max=100"`
	Sizes           []string `json:"sizes" validate:"omitempty,dive,max=10"`
	Colors          []string `json:"colors" validate:"omitempty,dive,max=30"`
	Material        string   `json:"material" validate:"max=100"`
	Gender          string   `json:"gender" validate:"omitempty,oneof=men women unisex kids"`
	AgeGroup        string   `json:"age_group" validate:"max=30"`
	Season          string   `json:"season" validate:"max=30"`
	Featured        bool     `json:"featured"`
	MetaDescription string   `json:"meta_description" validate:"max=160"`
	Keywords        []string `json:"keywords" validate:"omitempty,dive,max=50"`
}

type UpdateProduct struct {
	Name            *string  `json:"name" validate:"omitempty,min=1,max=200"`
	Description     *string  `json:"description" validate:"omitempty,max=2000"`
	Price           *float64 `json:"price" validate:"omitempty,gt=0"`
	ProductTypeID   *string  `json:"product_type_id" validate:"omitempty,min=1"`
	Brand           *string  `json:"brand" validate:"omitempty,max=100"`
	Model           *string  `json:"model" validate:"omitempty,max=100"`
	Sizes           []string `json:"sizes" validate:"omitempty,dive,max=10"`
	Colors          []string `json:"colors" validate:"omitempty,dive,max=30"`
	Material        *string  `json:"material" validate:"omitempty,max=100"`
	Gender          *string  `json:"gender" validate:"omitempty,oneof=men women unisex kids"`
	AgeGroup        *string  `json:"age_group" validate:"omitempty,max=30"`
	Season          *string  `json:"season" validate:"omitempty,max=30"`
	Active          *bool    `json:"active"`
	MetaDescription *string  `json:"meta_description" validate:"omitempty,max=160"`
	Keywords        []string `json:"keywords" validate:"omitempty,dive,max=50"`
}

type SetFeatured struct {
	Featured *bool `json:"featured" validate:"required"`
}

type SetOffer struct {
	Active     bool       `json:"active"`
	Discount   float64    `json:"discount" validate:"min=0,max=100"`
	OfferPrice *float64   `json:"offer_price" validate:"omitempty,gt=0"`
	StartsAt   *time.Time `json:"starts_at"`
	EndsAt     *time.Time `json:"ends_at"`
}

type SetStock struct {
	Stock *int `json:"stock" validate:"required,min=0"`
}
