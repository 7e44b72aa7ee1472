package model

import "time"

type Review struct {
	ID               string     `json:"id" db:"id"`
	ProductID        string     `json:"product_id" db:"product_id"`
	UserID           string     `json:"user_id" db:"user_id"`
	UserName         string     `json:"user_name" db:"user_name"`
	Rating           int        `json:"rating" db:"rating"`
	Title            string     `json:"title" db:"title"`
	Comment          string     `json:"comment" db:"comment"`
	Helpful          int        `json:"helpful" db:"helpful"`
	NotHelpful       int        `json:"not_helpful" db:"not_helpful"`
	Verified         bool       `json:"verified" db:"verified"`
	VerifiedPurchase bool       `json:"verified_purchase" db:"verified_purchase"`
	Active           bool       `json:"active" db:"active"`
	Reported         bool       `json:"reported" db:"reported"`
	ReportReason     string     `json:"report_reason,omitempty" db:"report_reason"`
	AdminReply       *string    `json:"admin_reply,omitempty" db:"admin_reply"`
	AdminReplyAt     *time.Time `json:"admin_reply_at,omitempty" db:"admin_reply_at"`
	AdminReplyBy     *string    `json:"admin_reply_by,omitempty" db:"admin_reply_by"`
	CreatedAt        time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt        time.Time  `json:"updated_at" db:"updated_at"`
}

// ReviewStats summarises the active reviews of a product.
type ReviewStats struct {
	Total             int     `json:"total"`
	Average           float64 `json:"average"`
	Distribution      [5]int  `json:"distribution"`
	HelpfulPercentage float64 `json:"helpful_percentage"`
	Verified          int     `json:"verified"`
}
