package model

import (
	"math"
	"time"
)

type Product struct {
	ID              string    `json:"id" db:"id"`
	Name            string    `json:"name" db:"name"`
	Description     string    `json:"description" db:"description"`
	Price           float64   `json:"price" db:"price"`
	Stock           int       `json:"stock" db:"stock"`
	ProductTypeID   string    `json:"product_type_id" db:"product_type_id"`
	Brand           string    `json:"brand" db:"brand"`
	Model           string    `json:"model" db:"model"`
	Sizes           []string  `json:"sizes" db:"sizes"`
	Colors          []string  `json:"colors" db:"colors"`
	Material        string    `json:"material" db:"material"`
	Gender          string    `json:"gender" db:"gender"`
	AgeGroup        string    `json:"age_group" db:"age_group"`
	Season          string    `json:"season" db:"season"`
	Active          bool      `json:"active" db:"active"`
	Featured        bool      `json:"featured" db:"featured"`
	Offer           Offer     `json:"offer"`
	Slug            string    `json:"slug" db:"slug"`
	MetaDescription string    `json:"meta_description" db:"meta_description"`
	Keywords        []string  `json:"keywords" db:"keywords"`
	Views           int       `json:"views" db:"views"`
	Sales           int       `json:"sales" db:"sales"`
	RatingAvg       float64   `json:"rating_avg" db:"rating_avg"`
	RatingCount     int       `json:"rating_count" db:"rating_count"`
	CreatedAt       time.Time `json:"created_at" db:"created_at"`
	UpdatedAt       time.Time `json:"updated_at" db:"updated_at"`
}

// Offer is a time-boxed percentage discount on a product.
type Offer struct {
	Active     bool       `json:"active" db:"offer_active"`
	Discount   float64    `json:"discount" db:"offer_discount"`
	OfferPrice *float64   `json:"offer_price,omitempty" db:"offer_price"`
	StartsAt   *time.Time `json:"starts_at,omitempty" db:"offer_starts_at"`
	EndsAt     *time.Time `json:"ends_at,omitempty" db:"offer_ends_at"`
}

// FinalPrice is the price after an active discount, rounded to cents.
func (p *Product) FinalPrice() float64 {
	if p.Offer.Active && p.Offer.Discount > 0 {
		return RoundMoney(p.Price * (1 - p.Offer.Discount/100))
	}
	return p.Price
}

// OnOffer reports whether the offer is active and now falls inside its window.
func (p *Product) OnOffer(now time.Time) bool {
	if !p.Offer.Active {
		return false
	}
	if p.Offer.StartsAt != nil && now.Before(*p.Offer.StartsAt) {
		return false
	}
	if p.Offer.EndsAt != nil && now.After(*p.Offer.EndsAt) {
		return false
	}
	return true
}

// ProductView is a product enriched with derived pricing for responses.
type ProductView struct {
	Product
	FinalPrice float64 `json:"final_price"`
	OnOffer    bool    `json:"on_offer"`
}

// NewProductView computes the derived fields of p at time now.
func NewProductView(p Product, now time.Time) ProductView {
	return ProductView{Product: p, FinalPrice: p.FinalPrice(), OnOffer: p.OnOffer(now)}
}

// RoundMoney rounds to two decimal places.
func RoundMoney(v float64) float64 {
	return math.Round(v*100) / 100
}
