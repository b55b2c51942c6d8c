package dto

import (
	"github.com/spec-kit/storefront-service/internal/domain"
	"github.com/spec-kit/storefront-service/internal/service"
)

// QuotaUpdateRequest carries a partial quota/usage override. Absent sections
// and absent fields are left unmodified.
type QuotaUpdateRequest struct {
	Quotas *service.QuotaFieldsInput `json:"quotas"`
	Usage  *service.UsageFieldsInput `json:"usage"`
}

// QuotaUpdateResponse reports the applied field map.
type QuotaUpdateResponse struct {
	Success     bool           `json:"success"`
	Message     string         `json:"message"`
	UpdatedData map[string]any `json:"updatedData"`
}

// CheckOrderRequest payload for the advisory admission check. OrderValue is
// in currency units.
type CheckOrderRequest struct {
	OrderValue   float64 `json:"orderValue"`
	ProductCount int     `json:"productCount"`
}

// QuotasView is the JSON view of quota ceilings, monetary values in units.
type QuotasView struct {
	MaxOrdersPerDay     int     `json:"maxOrdersPerDay"`
	MaxProductsPerOrder int     `json:"maxProductsPerOrder"`
	MaxTotalOrderValue  float64 `json:"maxTotalOrderValue"`
}

// UsageView is the JSON view of usage counters.
type UsageView struct {
	OrdersToday   int     `json:"ordersToday"`
	LastOrderDate *string `json:"lastOrderDate"`
}

// QuotaViewResponse is the admin read model for a user's quota state.
type QuotaViewResponse struct {
	UserID   string     `json:"userId"`
	Email    string     `json:"email"`
	Username string     `json:"username"`
	Quotas   QuotasView `json:"quotas"`
	Usage    UsageView  `json:"usage"`
}

// CheckOrderResponse is returned when the advisory check admits the order.
type CheckOrderResponse struct {
	CanOrder bool       `json:"canOrder"`
	Quotas   QuotasView `json:"quotas"`
	Usage    UsageView  `json:"usage"`
}

// NewQuotasView maps domain quotas to their JSON view.
func NewQuotasView(q domain.Quotas) QuotasView {
	return QuotasView{
		MaxOrdersPerDay:     q.MaxOrdersPerDay,
		MaxProductsPerOrder: q.MaxProductsPerOrder,
		MaxTotalOrderValue:  domain.CentsToUnits(q.MaxTotalOrderValueCents),
	}
}

// NewUsageView maps domain usage to its JSON view; the date renders as
// YYYY-MM-DD or null.
func NewUsageView(u domain.Usage) UsageView {
	view := UsageView{OrdersToday: u.OrdersToday}
	if u.LastOrderDate != nil {
		date := u.LastOrderDate.UTC().Format("2006-01-02")
		view.LastOrderDate = &date
	}
	return view
}

// NewQuotaViewResponse maps the service read model to JSON.
func NewQuotaViewResponse(view *service.QuotaView) QuotaViewResponse {
	return QuotaViewResponse{
		UserID:   view.UserID,
		Email:    view.Email,
		Username: view.Username,
		Quotas:   NewQuotasView(view.Quotas),
		Usage:    NewUsageView(view.Usage),
	}
}
