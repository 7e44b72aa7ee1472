package model

import "time"

// Notification kinds.
const (
	NotificationInfo      = "info"
	NotificationSuccess   = "success"
	NotificationWarning   = "warning"
	NotificationError     = "error"
	NotificationPromotion = "promotion"
	NotificationStock     = "stock"
	NotificationOffer     = "offer"
	NotificationSystem    = "system"
)

// Notification categories.
const (
	CategoryOrder     = "order"
	CategoryProduct   = "product"
	CategoryAccount   = "account"
	CategoryPromotion = "promotion"
	CategorySystem    = "system"
	CategoryOther     = "other"
)

type Notification struct {
	ID            string     `json:"id" db:"id"`
	UserID        string     `json:"user_id" db:"user_id"`
	Title         string     `json:"title" db:"title"`
	Message       string     `json:"message" db:"message"`
	Kind          string     `json:"kind" db:"kind"`
	Read          bool       `json:"read" db:"read"`
	ReadAt        *time.Time `json:"read_at,omitempty" db:"read_at"`
	ActionURL     string     `json:"action_url,omitempty" db:"action_url"`
	ActionText    string     `json:"action_text,omitempty" db:"action_text"`
	Priority      int        `json:"priority" db:"priority"`
	ExpiresAt     *time.Time `json:"expires_at,omitempty" db:"expires_at"`
	Category      string     `json:"category" db:"category"`
	GroupID       *string    `json:"group_id,omitempty" db:"group_id"`
	Clicks        int        `json:"clicks" db:"clicks"`
	LastClickedAt *time.Time `json:"last_clicked_at,omitempty" db:"last_clicked_at"`
	CreatedAt     time.Time  `json:"created_at" db:"created_at"`
}

// NotificationStats holds read/unread counts and a per-kind breakdown.
type NotificationStats struct {
	Total  int            `json:"total"`
	Unread int            `json:"unread"`
	Read   int            `json:"read"`
	ByKind map[string]int `json:"by_kind"`
}
