package domain

import "time"

// OrderStatus describes fulfillment states for an order.
type OrderStatus string

const (
	OrderStatusPending    OrderStatus = "PENDING"
	OrderStatusProcessing OrderStatus = "PROCESSING"
	OrderStatusShipped    OrderStatus = "SHIPPED"
	OrderStatusDelivered  OrderStatus = "DELIVERED"
	OrderStatusCancelled  OrderStatus = "CANCELLED"
)

// ValidOrderStatus reports whether s is a known fulfillment state.
func ValidOrderStatus(s OrderStatus) bool {
	switch s {
	case OrderStatusPending, OrderStatusProcessing, OrderStatusShipped,
		OrderStatusDelivered, OrderStatusCancelled:
		return true
	}
	return false
}

// OrderProduct is a single line item. Prices are caller-supplied and not
// recomputed against the order total.
type OrderProduct struct {
	ID      string  `json:"id,omitempty"`
	Name    string  `json:"name"`
	Price   float64 `json:"price"`
	Variant string  `json:"variant,omitempty"`
}

// Address is the shipping destination recorded with an order.
type Address struct {
	FullName   string `json:"fullName"`
	Street     string `json:"street"`
	City       string `json:"city"`
	PostalCode string `json:"postalCode"`
	Country    string `json:"country"`
}

// Payment captures how an order was paid for.
type Payment struct {
	Method    string `json:"method"`
	CardLast4 string `json:"cardLast4,omitempty"`
}

// Order is the domain model for placed orders. Username is a weak
// back-reference to the owning account, not a foreign key. TotalAmountCents
// and the product count passed quota admission at creation time and are not
// re-validated afterwards.
type Order struct {
	ID               string
	Username         string
	TotalAmountCents int64
	Products         []OrderProduct
	Address          Address
	Payment          Payment
	Variant          string
	Status           OrderStatus
	TrackingNumber   string
	ShippingCarrier  string
	CreatedAt        time.Time
}
