package model

import "time"

type Wishlist struct {
	ID           string         `json:"id" db:"id"`
	UserID       string         `json:"user_id" db:"user_id"`
	Name         string         `json:"name" db:"name"`
	Description  string         `json:"description" db:"description"`
	Active       bool           `json:"active" db:"active"`
	Public       bool           `json:"public" db:"public"`
	Share        WishlistShare  `json:"share"`
	Notify       WishlistNotify `json:"notify"`
	Views        int            `json:"views" db:"views"`
	LastViewedAt *time.Time     `json:"last_viewed_at,omitempty" db:"last_viewed_at"`
	Items        []WishlistItem `json:"items"`
	CreatedAt    time.Time      `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at" db:"updated_at"`
}

type WishlistShare struct {
	Code      string     `json:"code" db:"share_code"`
	ExpiresAt *time.Time `json:"expires_at,omitempty" db:"share_expires_at"`
	MaxUses   int        `json:"max_uses" db:"share_max_uses"`
	Uses      int        `json:"uses" db:"share_uses"`
}

type WishlistNotify struct {
	Offers      bool `json:"offers" db:"notify_offers"`
	Stock       bool `json:"stock" db:"notify_stock"`
	NewProducts bool `json:"new_products" db:"notify_new_products"`
}

type WishlistItem struct {
	ProductID string          `json:"product_id" db:"product_id"`
	AddedAt   time.Time       `json:"added_at" db:"added_at"`
	Notes     string          `json:"notes" db:"notes"`
	Priority  int             `json:"priority" db:"priority"`
	Quantity  int             `json:"quantity" db:"quantity"`
	Product   *ProductSummary `json:"product,omitempty"`
}

// CanShare reports whether the wishlist may be opened through its share code.
func (w *Wishlist) CanShare(now time.Time) bool {
	if !w.Public || !w.Active {
		return false
	}
	if w.Share.ExpiresAt != nil && !now.Before(*w.Share.ExpiresAt) {
		return false
	}
	if w.Share.MaxUses > 0 && w.Share.Uses >= w.Share.MaxUses {
		return false
	}
	return true
}
