package model

import "time"

type Favorite struct {
	ID           string     `json:"id" db:"id"`
	UserID       string     `json:"user_id" db:"user_id"`
	ProductID    string     `json:"product_id" db:"product_id"`
	Active       bool       `json:"active" db:"active"`
	Notes        string     `json:"notes" db:"notes"`
	Priority     int        `json:"priority" db:"priority"`
	NotifyOffer  bool       `json:"notify_offer" db:"notify_offer"`
	NotifyStock  bool       `json:"notify_stock" db:"notify_stock"`
	ViewCount    int        `json:"view_count" db:"view_count"`
	LastViewedAt *time.Time `json:"last_viewed_at,omitempty" db:"last_viewed_at"`
	CreatedAt    time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at" db:"updated_at"`

	Product *ProductSummary `json:"product,omitempty"`
}

// ProductSummary is the subset of product fields embedded in lists.
type ProductSummary struct {
	ID         string  `json:"id"`
	Name       string  `json:"name"`
	Brand      string  `json:"brand"`
	Price      float64 `json:"price"`
	FinalPrice float64 `json:"final_price"`
	Stock      int     `json:"stock"`
	Active     bool    `json:"active"`
}

// FavoriteStats holds favorite counts.
type FavoriteStats struct {
	Total          int `json:"total"`
	UniqueProducts int `json:"unique_products"`
	UniqueUsers    int `json:"unique_users"`
}
