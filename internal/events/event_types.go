package events

import "time"

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventOrderCreated      EventType = "order_created"
	EventQuotaUpdated      EventType = "quota_updated"
	EventDiscountRedeemed  EventType = "discount_redeemed"
	EventOrderStatusChange EventType = "order_status_changed"
)

// Event represents a domain event emitted by services.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	Username  string      `json:"username,omitempty"`
	UserID    string      `json:"user_id,omitempty"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload"`
}

// OrderCreatedPayload payload.
type OrderCreatedPayload struct {
	OrderID      string  `json:"order_id"`
	TotalAmount  float64 `json:"total_amount"`
	ProductCount int     `json:"product_count"`
	PointsEarned int     `json:"points_earned"`
}

// QuotaUpdatedPayload payload.
type QuotaUpdatedPayload struct {
	UpdatedData map[string]any `json:"updated_data"`
}

// DiscountRedeemedPayload payload.
type DiscountRedeemedPayload struct {
	Percent         int `json:"discount"`
	PointsSpent     int `json:"points_spent"`
	RemainingPoints int `json:"remaining_points"`
}

// OrderStatusChangePayload payload.
type OrderStatusChangePayload struct {
	OrderID   string `json:"order_id"`
	NewStatus string `json:"new_status"`
}
