package model

import "time"

type Order struct {
	ID                  string          `json:"id" db:"id"`
	OrderNumber         string          `json:"order_number" db:"order_number"`
	UserID              *string         `json:"user_id,omitempty" db:"user_id"`
	Items               []OrderItem     `json:"items"`
	Shipping            ShippingAddress `json:"shipping" db:"shipping"`
	Payment             PaymentInfo     `json:"payment" db:"payment"`
	Subtotal            float64         `json:"subtotal" db:"subtotal"`
	Tax                 float64         `json:"tax" db:"tax"`
	ShippingCost        float64         `json:"shipping_cost" db:"shipping_cost"`
	Discount            float64         `json:"discount" db:"discount"`
	Total               float64         `json:"total" db:"total"`
	Status              string          `json:"status" db:"status"`
	TrackingNumber      *string         `json:"tracking_number,omitempty" db:"tracking_number"`
	ShippingMethod      string          `json:"shipping_method" db:"shipping_method"`
	Notes               string          `json:"notes" db:"notes"`
	PointsUsed          int             `json:"points_used" db:"points_used"`
	PointsEarned        int             `json:"points_earned" db:"points_earned"`
	IdempotencyKey      *string         `json:"-" db:"idempotency_key"`
	EstimatedDeliveryAt *time.Time      `json:"estimated_delivery_at,omitempty" db:"estimated_delivery_at"`
	DeliveredAt         *time.Time      `json:"delivered_at,omitempty" db:"delivered_at"`
	PlacedAt            time.Time       `json:"placed_at" db:"placed_at"`
	CreatedAt           time.Time       `json:"created_at" db:"created_at"`
	UpdatedAt           time.Time       `json:"updated_at" db:"updated_at"`
}

type OrderItem struct {
	ProductID   string  `json:"product_id" db:"product_id"`
	ProductName string  `json:"product_name" db:"product_name"`
	Quantity    int     `json:"quantity" db:"quantity"`
	UnitPrice   float64 `json:"unit_price" db:"unit_price"`
	Subtotal    float64 `json:"subtotal" db:"subtotal"`
}

// ShippingAddress is stored as JSONB on the order row.
type ShippingAddress struct {
	Name       string   `json:"name"`
	Email      string   `json:"email"`
	Phone      string   `json:"phone"`
	Address    string   `json:"address"`
	City       string   `json:"city"`
	PostalCode string   `json:"postal_code"`
	Country    string   `json:"country"`
	Latitude   *float64 `json:"latitude,omitempty"`
	Longitude  *float64 `json:"longitude,omitempty"`
}

// PaymentInfo is stored as JSONB on the order row. Only the last four card
// digits are retained.
type PaymentInfo struct {
	Method        string `json:"method"`
	CardLast4     string `json:"card_last4,omitempty"`
	Holder        string `json:"holder,omitempty"`
	TransactionID string `json:"transaction_id,omitempty"`
}

// OrderStats summarises orders for admins.
type OrderStats struct {
	ByStatus     map[string]int `json:"by_status"`
	TotalOrders  int            `json:"total_orders"`
	TotalSales   float64        `json:"total_sales"`
	AverageOrder float64        `json:"average_order"`
}
