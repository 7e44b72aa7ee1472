package request

type AddFavorite struct {
	ProductID   string `json:"product_id" validate:"required"`
	Notes       string `json:"notes" validate:"max=500"`
	Priority    int    `json:"priority" validate:"omitempty,min=1,max=5"`
	NotifyOffer *bool  `json:"notify_offer"`
	NotifyStock *bool  `json:"notify_stock"`
}

type UpdateFavorite struct {
	Notes       *string `json:"notes" validate:"omitempty,max=500"`
	Priority    *int    `json:"priority" validate:"omitempty,min=1,max=5"`
	NotifyOffer *bool   `json:"notify_offer"`
	NotifyStock *bool   `json:"notify_stock"`
}
