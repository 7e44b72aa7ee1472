package request

import "time"

type CreateNotification struct {
	UserID     string     `json:"user_id" validate:"required"`
	Title      string     `json:"title" validate:"required,max=200"`
	Message    string     `json:"message" validate:"required,max=1000"`
	Kind       string     `json:"kind" validate:"omitempty,oneof=info success warning error promotion stock offer system"`
	Category   string     `json:"category" validate:"omitempty,oneof=order product account promotion system other"`
	Priority   int        `json:"priority" validate:"omitempty,min=1,max=5"`
	ActionURL  string     `json:"action_url" validate:"omitempty,max=2048"`
	ActionText string     `json:"action_text" validate:"max=50"`
	ExpiresAt  *time.Time `json:"expires_at"`
}

type BulkNotification struct {
	UserIDs    []string   `json:"user_ids" validate:"required,min=1,max=1000,dive,required"`
	Title      string     `json:"title" validate:"required,max=200"`
	Message    string     `json:"message" validate:"required,max=1000"`
	Kind       string     `json:"kind" validate:"omitempty,oneof=info success warning error promotion stock offer system"`
	Category   string     `json:"category" validate:"omitempty,oneof=order product account promotion system other"`
	Priority   int        `json:"priority" validate:"omitempty,min=1,max=5"`
	ActionURL  string     `json:"action_url" validate:"omitempty,max=2048"`
	ActionText string     `json:"action_text" validate:"max=50"`
	ExpiresAt  *time.Time `json:"expires_at"`
}
