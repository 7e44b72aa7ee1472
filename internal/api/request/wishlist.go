package request

import "time"

type CreateWishlist struct {
	Name        string          `json:"name" validate:"required,max=100"`
	Description string          `json:"description" validate:"max=500"`
	Public      bool            `json:"public"`
	Share       *WishlistShare  `json:"share"`
	Notify      *WishlistNotify `json:"notify"`
}

type UpdateWishlist struct {
	Name        *string         `json:"name" validate:"omitempty,min=1,max=100"`
	Description *string         `json:"description" validate:"omitempty,max=500"`
	Public      *bool           `json:"public"`
	Share       *WishlistShare  `json:"share"`
	Notify      *WishlistNotify `json:"notify"`
}

type WishlistShare struct {
	ExpiresAt *time.Time `json:"expires_at"`
	MaxUses   int        `json:"max_uses" validate:"min=0"`
}

type WishlistNotify struct {
	Offers      bool `json:"offers"`
	Stock       bool `json:"stock"`
	NewProducts bool `json:"new_products"`
}

type AddWishlistItem struct {
	ProductID string `json:"product_id" validate:"required"`
	Notes     string `json:"notes" validate:"max=200"`
	Priority  int    `json:"priority" validate:"omitempty,min=1,max=5"`
	Quantity  int    `json:"quantity" validate:"omitempty,min=1,max=1000"`
}

type UpdateWishlistItem struct {
	Notes    *string `json:"notes" validate:"omitempty,max=200"`
	Priority *int    `json:"priority" validate:"omitempty,min=1,max=5"`
	Quantity *int    `json:"quantity" validate:"omitempty,min=1,max=1000"`
}
