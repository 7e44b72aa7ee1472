package model

// Order status constants.
const (
	OrderPending    = "pending"
	OrderConfirmed  = "confirmed"
	OrderProcessing = "processing"
	OrderShipped    = "shipped"
	OrderDelivered  = "delivered"
	OrderCancelled  = "cancelled"
	OrderRefunded   = "refunded"
)

// OrderStatuses lists every order status in lifecycle order.
var OrderStatuses = []string{
	OrderPending, OrderConfirmed, OrderProcessing, OrderShipped,
	OrderDelivered, OrderCancelled, OrderRefunded,
}

// orderTransitions maps a status to the statuses it may move to.
var orderTransitions = map[string][]string{
	OrderPending:    {OrderConfirmed, OrderCancelled},
	OrderConfirmed:  {OrderProcessing, OrderCancelled},
	OrderProcessing: {OrderShipped},
	OrderShipped:    {OrderDelivered},
	OrderDelivered:  {OrderRefunded},
}

// CanTransition reports whether an order may move from one status to another.
func CanTransition(from, to string) bool {
	for _, s := range orderTransitions[from] {
		if s == to {
			return true
		}
	}
	return false
}

// Cancellable reports whether an order in the given status may be cancelled
// by its owner.
func Cancellable(status string) bool {
	return status == OrderPending || status == OrderConfirmed
}

// User roles.
const (
	RoleCustomer = "customer"
	RoleAdmin    = "admin"
)

// Shipping methods.
const (
	ShippingStandard  = "standard"
	ShippingExpress   = "express"
	ShippingOvernight = "overnight"
)

// Payment methods.
const (
	PaymentCreditCard     = "credit_card"
	PaymentDebitCard      = "debit_card"
	PaymentPayPal         = "paypal"
	PaymentCashOnDelivery = "cash_on_delivery"
)

// IsCardPayment reports whether the payment method needs card details.
func IsCardPayment(method string) bool {
	return method == PaymentCreditCard || method == PaymentDebitCard
}
