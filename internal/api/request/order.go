package request

type PlaceOrder struct {
	Items          []OrderItem     `json:"items" validate:"required,min=1,max=100,dive"`
	Shipping       ShippingAddress `json:"shipping"`
	Payment        Payment         `json:"payment"`
	ShippingMethod string          `json:"shipping_method" validate:"omitempty,oneof=standard express overnight"`
	PointsUsed     int             `json:"points_used" validate:"min=0"`
	Notes          string          `json:"notes" validate:"max=500"`
}

type OrderItem struct {
	ProductID string `json:"product_id" validate:"required"`
	Quantity  int    `json:"quantity" validate:"required,min=1,max=1000"`
}

type ShippingAddress struct {
	Name       string   `json:"name" validate:"required,max=100"`
	Email      string   `json:"email" validate:"required,email"`
	Phone      string   `json:"phone" validate:"required,max=30"`
	Address    string   `json:"address" validate:"required,max=300"`
	City       string   `json:"city" validate:"required,max=100"`
	PostalCode string   `json:"postal_code" validate:"max=20"`
	Country    string   `json:"country" validate:"max=100"`
	Latitude   *float64 `json:"latitude" validate:"omitempty,latitude"`
	Longitude  *float64 `json:"longitude" validate:"omitempty,longitude"`
}

type Payment struct {
	Method        string `json:"method" validate:"required,oneof=credit_card debit_card paypal cash_on_delivery"`
	CardNumber    string `json:"card_number" validate:"omitempty,numeric,min=12,max=19"`
	Holder        string `json:"holder" validate:"max=100"`
	TransactionID string `json:"transaction_id" validate:"max=100"`
}

type UpdateOrderStatus struct {
	Status         string  `json:"status" validate:"required,oneof=pending confirmed processing shipped delivered cancelled refunded"`
	TrackingNumber *string `json:"tracking_number" validate:"omitempty,max=100"`
}
