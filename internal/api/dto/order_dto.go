package dto

import (
	"time"

	"github.com/spec-kit/storefront-service/internal/domain"
)

// OrderCreateRequest payload for placing an order. Monetary values are in
// currency units.
type OrderCreateRequest struct {
	Username    string                `json:"username"`
	TotalAmount float64               `json:"totalAmount"`
	Products    []domain.OrderProduct `json:"products"`
	Address     domain.Address        `json:"address"`
	Payment     domain.Payment        `json:"payment"`
	Variant     string                `json:"variant"`
}

// OrderStatusUpdateRequest payload for fulfillment transitions.
type OrderStatusUpdateRequest struct {
	Status string `json:"status"`
}

// OrderTrackingUpdateRequest payload for shipping updates.
type OrderTrackingUpdateRequest struct {
	TrackingNumber  string `json:"trackingNumber"`
	ShippingCarrier string `json:"shippingCarrier"`
}

// OrderResponse is the JSON view of an order.
type OrderResponse struct {
	ID              string                `json:"id"`
	Username        string                `json:"username"`
	TotalAmount     float64               `json:"totalAmount"`
	Products        []domain.OrderProduct `json:"products"`
	Address         domain.Address        `json:"address"`
	Payment         domain.Payment        `json:"payment"`
	Variant         string                `json:"variant,omitempty"`
	Status          string                `json:"status"`
	TrackingNumber  string                `json:"trackingNumber,omitempty"`
	ShippingCarrier string                `json:"shippingCarrier,omitempty"`
	CreatedAt       time.Time             `json:"createdAt"`
}

// NewOrderResponse maps a domain order to its JSON view.
func NewOrderResponse(order *domain.Order) OrderResponse {
	return OrderResponse{
		ID:              order.ID,
		Username:        order.Username,
		TotalAmount:     domain.CentsToUnits(order.TotalAmountCents),
		Products:        order.Products,
		Address:         order.Address,
		Payment:         order.Payment,
		Variant:         order.Variant,
		Status:          string(order.Status),
		TrackingNumber:  order.TrackingNumber,
		ShippingCarrier: order.ShippingCarrier,
		CreatedAt:       order.CreatedAt,
	}
}

// NewOrderResponses maps a slice of domain orders.
func NewOrderResponses(orders []domain.Order) []OrderResponse {
	res := make([]OrderResponse, 0, len(orders))
	for i := range orders {
		res = append(res, NewOrderResponse(&orders[i]))
	}
	return res
}
