package model

import "time"

type ProductType struct {
	ID              string    `json:"id" db:"id"`
	Name            string    `json:"name" db:"name"`
	Description     string    `json:"description" db:"description"`
	Active          bool      `json:"active" db:"active"`
	SortOrder       int       `json:"sort_order" db:"sort_order"`
	Slug            string    `json:"slug" db:"slug"`
	MetaDescription string    `json:"meta_description" db:"meta_description"`
	Keywords        []string  `json:"keywords" db:"keywords"`
	ProductCount    int       `json:"product_count" db:"product_count"`
	CreatedAt       time.Time `json:"created_at" db:"created_at"`
	UpdatedAt       time.Time `json:"updated_at" db:"updated_at"`
}
