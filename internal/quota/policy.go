// Package quota implements the pure admission policy for order creation.
// Evaluation never mutates state; the transactional side effects live in the
// repository layer.
package quota

import (
	"time"

	"github.com/spec-kit/storefront-service/internal/domain"
)

// ViolationKind identifies which limit was exceeded.
type ViolationKind string

const (
	ViolationDailyLimit   ViolationKind = "daily_limit"
	ViolationProductCount ViolationKind = "product_count"
	ViolationOrderValue   ViolationKind = "order_value"
)

// Request describes the proposed order being checked.
type Request struct {
	TotalAmountCents int64
	ProductCount     int
}

// Violation reports the first failing check. Limit and Requested are in cents
// for value violations and plain counts otherwise.
type Violation struct {
	Kind      ViolationKind
	Reason    string
	Limit     int64
	Used      int64
	Requested int64
}

// SameDay reports whether a and b fall on the same UTC calendar day.
func SameDay(a, b time.Time) bool {
	ay, am, ad := a.UTC().Date()
	by, bm, bd := b.UTC().Date()
	return ay == by && am == bm && ad == bd
}

// Evaluate checks the proposed order against the user's quotas and usage as
// of now. Checks run in a fixed order and the first failure wins. The daily
// counter only counts when LastOrderDate is today; a stale date reads as zero.
func Evaluate(q domain.Quotas, u domain.Usage, req Request, now time.Time) *Violation {
	if u.LastOrderDate != nil && SameDay(*u.LastOrderDate, now) && u.OrdersToday >= q.MaxOrdersPerDay {
		return &Violation{
			Kind:   ViolationDailyLimit,
			Reason: "Daily order limit exceeded",
			Limit:  int64(q.MaxOrdersPerDay),
			Used:   int64(u.OrdersToday),
		}
	}

	if req.ProductCount > q.MaxProductsPerOrder {
		return &Violation{
			Kind:      ViolationProductCount,
			Reason:    "Product count per order exceeded",
			Limit:     int64(q.MaxProductsPerOrder),
			Requested: int64(req.ProductCount),
		}
	}

	if req.TotalAmountCents > q.MaxTotalOrderValueCents {
		return &Violation{
			Kind:      ViolationOrderValue,
			Reason:    "Total order value exceeded",
			Limit:     q.MaxTotalOrderValueCents,
			Requested: req.TotalAmountCents,
		}
	}

	return nil
}

// NextUsage returns the usage counters to record after admitting an order at
// now. The counter increments only when the previous order fell on the same
// UTC day; otherwise it resets to 1. The recorded date is UTC midnight of now.
func NextUsage(u domain.Usage, now time.Time) domain.Usage {
	ordersToday := 1
	if u.LastOrderDate != nil && SameDay(*u.LastOrderDate, now) {
		ordersToday = u.OrdersToday + 1
	}
	day := time.Date(now.UTC().Year(), now.UTC().Month(), now.UTC().Day(), 0, 0, 0, 0, time.UTC)
	return domain.Usage{OrdersToday: ordersToday, LastOrderDate: &day}
}

// PointsEarned computes discount points credited for an order total: one
// point per 40 currency units spent, truncated.
func PointsEarned(totalAmountCents int64) int {
	if totalAmountCents <= 0 {
		return 0
	}
	return int(totalAmountCents / (40 * 100))
}
