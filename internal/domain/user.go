package domain

import "time"

// Role distinguishes regular shoppers from administrators.
type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

// Quotas holds the per-user order ceilings enforced at order creation.
// Monetary values are stored in cents.
type Quotas struct {
	MaxOrdersPerDay         int
	MaxProductsPerOrder     int
	MaxTotalOrderValueCents int64
}

// DefaultQuotas returns the quotas assigned to every new account.
func DefaultQuotas() Quotas {
	return Quotas{
		MaxOrdersPerDay:         10,
		MaxProductsPerOrder:     50,
		MaxTotalOrderValueCents: 10000 * 100,
	}
}

// Usage tracks the per-user daily order counter. OrdersToday is only
// meaningful relative to LastOrderDate; a stale date reads as zero orders
// for today.
type Usage struct {
	OrdersToday   int
	LastOrderDate *time.Time
}

// User is the domain model for store accounts.
type User struct {
	ID             string
	Username       string
	Email          string
	PasswordHash   string
	Role           Role
	Quotas         Quotas
	Usage          Usage
	DiscountPoints int
	CreatedAt      time.Time
	UpdatedAt      time.Time
}
