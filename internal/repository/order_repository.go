package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/storefront-service/internal/domain"
	"github.com/spec-kit/storefront-service/internal/quota"
)

// OrderRepository encapsulates order persistence. Admission and its side
// effects (usage counter, points credit) are applied in one transaction.
type OrderRepository interface {
	CreateWithQuota(ctx context.Context, order *domain.Order, now time.Time) (*quota.Violation, error)
	GetByID(ctx context.Context, id string) (*domain.Order, error)
	ListAll(ctx context.Context) ([]domain.Order, error)
	ListByUsername(ctx context.Context, username string) ([]domain.Order, error)
	UpdateStatus(ctx context.Context, id string, status domain.OrderStatus) (*domain.Order, error)
	UpdateTracking(ctx context.Context, id, trackingNumber, shippingCarrier string) (*domain.Order, error)
}

type orderRepository struct {
	pool *pgxpool.Pool
}

// NewOrderRepository returns a Postgres-backed implementation.
func NewOrderRepository(pool *pgxpool.Pool) OrderRepository {
	return &orderRepository{pool: pool}
}

// CreateWithQuota admits and persists an order as a single transaction. The
// owning user row is locked for update, so the quota check, the order insert
// and the usage/points update are atomic: with one remaining daily slot, at
// most one of N concurrent requests succeeds. A non-nil Violation means the
// order was rejected and nothing was written.
func (r *orderRepository) CreateWithQuota(ctx context.Context, order *domain.Order, now time.Time) (*quota.Violation, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	var (
		userID string
		quotas domain.Quotas
		usage  domain.Usage
		points int
	)
	err = tx.QueryRow(ctx, `
        SELECT id, quota_max_orders_per_day, quota_max_products_per_order, quota_max_total_order_value_cents,
               usage_orders_today, usage_last_order_date, discount_points
        FROM users WHERE username=$1 FOR UPDATE`,
		order.Username,
	).Scan(&userID, &quotas.MaxOrdersPerDay, &quotas.MaxProductsPerOrder, &quotas.MaxTotalOrderValueCents,
		&usage.OrdersToday, &usage.LastOrderDate, &points)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("lock user: %w", err)
	}

	violation := quota.Evaluate(quotas, usage, quota.Request{
		TotalAmountCents: order.TotalAmountCents,
		ProductCount:     len(order.Products),
	}, now)
	if violation != nil {
		return violation, nil
	}

	productsJSON, err := json.Marshal(order.Products)
	if err != nil {
		return nil, fmt.Errorf("marshal products: %w", err)
	}
	addressJSON, err := json.Marshal(order.Address)
	if err != nil {
		return nil, fmt.Errorf("marshal address: %w", err)
	}
	paymentJSON, err := json.Marshal(order.Payment)
	if err != nil {
		return nil, fmt.Errorf("marshal payment: %w", err)
	}

	err = tx.QueryRow(ctx, `
        INSERT INTO orders (username, total_amount_cents, products, address, payment, variant, status)
        VALUES ($1, $2, $3, $4, $5, $6, $7)
        RETURNING id, created_at`,
		order.Username,
		order.TotalAmountCents,
		string(productsJSON),
		string(addressJSON),
		string(paymentJSON),
		order.Variant,
		order.Status,
	).Scan(&order.ID, &order.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("insert order: %w", err)
	}

	nextUsage := quota.NextUsage(usage, now)
	updatedPoints := points + quota.PointsEarned(order.TotalAmountCents)

	if _, err := tx.Exec(ctx, `
        UPDATE users SET usage_orders_today=$2, usage_last_order_date=$3, discount_points=$4, updated_at=NOW()
        WHERE id=$1`,
		userID, nextUsage.OrdersToday, nextUsage.LastOrderDate, updatedPoints,
	); err != nil {
		return nil, fmt.Errorf("update usage: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit tx: %w", err)
	}
	return nil, nil
}

const orderColumns = `id, username, total_amount_cents, products, address, payment,
        variant, status, COALESCE(tracking_number, ''), COALESCE(shipping_carrier, ''), created_at`

func scanOrder(row pgx.Row) (*domain.Order, error) {
	var (
		order        domain.Order
		productsJSON []byte
		addressJSON  []byte
		paymentJSON  []byte
	)
	if err := row.Scan(
		&order.ID,
		&order.Username,
		&order.TotalAmountCents,
		&productsJSON,
		&addressJSON,
		&paymentJSON,
		&order.Variant,
		&order.Status,
		&order.TrackingNumber,
		&order.ShippingCarrier,
		&order.CreatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrOrderNotFound
		}
		return nil, err
	}

	if err := json.Unmarshal(productsJSON, &order.Products); err != nil {
		return nil, fmt.Errorf("unmarshal products: %w", err)
	}
	if err := json.Unmarshal(addressJSON, &order.Address); err != nil {
		return nil, fmt.Errorf("unmarshal address: %w", err)
	}
	if err := json.Unmarshal(paymentJSON, &order.Payment); err != nil {
		return nil, fmt.Errorf("unmarshal payment: %w", err)
	}
	return &order, nil
}

func (r *orderRepository) GetByID(ctx context.Context, id string) (*domain.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE id=$1`
	return scanOrder(r.pool.QueryRow(ctx, query, id))
}

func (r *orderRepository) list(ctx context.Context, query string, args ...any) ([]domain.Order, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("select orders: %w", err)
	}
	defer rows.Close()

	var orders []domain.Order
	for rows.Next() {
		order, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		orders = append(orders, *order)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return orders, nil
}

func (r *orderRepository) ListAll(ctx context.Context) ([]domain.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders ORDER BY created_at DESC`
	return r.list(ctx, query)
}

func (r *orderRepository) ListByUsername(ctx context.Context, username string) ([]domain.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE username=$1 ORDER BY created_at DESC`
	return r.list(ctx, query, username)
}

func (r *orderRepository) UpdateStatus(ctx context.Context, id string, status domain.OrderStatus) (*domain.Order, error) {
	cmd, err := r.pool.Exec(ctx, `UPDATE orders SET status=$2 WHERE id=$1`, id, status)
	if err != nil {
		return nil, err
	}
	if cmd.RowsAffected() == 0 {
		return nil, ErrOrderNotFound
	}
	return r.GetByID(ctx, id)
}

func (r *orderRepository) UpdateTracking(ctx context.Context, id, trackingNumber, shippingCarrier string) (*domain.Order, error) {
	cmd, err := r.pool.Exec(ctx,
		`UPDATE orders SET tracking_number=$2, shipping_carrier=$3 WHERE id=$1`,
		id, trackingNumber, shippingCarrier,
	)
	if err != nil {
		return nil, err
	}
	if cmd.RowsAffected() == 0 {
		return nil, ErrOrderNotFound
	}
	return r.GetByID(ctx, id)
}
