package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/storefront-service/internal/domain"
)

// QuotaPatch carries a partial quota/usage update. Only non-nil fields are
// applied; callers clamp numeric values before building the patch.
type QuotaPatch struct {
	MaxOrdersPerDay         *int
	MaxProductsPerOrder     *int
	MaxTotalOrderValueCents *int64
	OrdersToday             *int
	LastOrderDate           *time.Time
}

// IsEmpty reports whether the patch modifies nothing.
func (p QuotaPatch) IsEmpty() bool {
	return p.MaxOrdersPerDay == nil && p.MaxProductsPerOrder == nil &&
		p.MaxTotalOrderValueCents == nil && p.OrdersToday == nil && p.LastOrderDate == nil
}

// UserRepository defines persistence access for store accounts.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	GetByID(ctx context.Context, id string) (*domain.User, error)
	GetByUsername(ctx context.Context, username string) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	UpdateQuotaState(ctx context.Context, id string, patch QuotaPatch) error
	RedeemPoints(ctx context.Context, id string, tierPoints int) (int, error)
}

type userRepository struct {
	pool *pgxpool.Pool
}

// NewUserRepository returns a Postgres-backed implementation.
func NewUserRepository(pool *pgxpool.Pool) UserRepository {
	return &userRepository{pool: pool}
}

const userColumns = `id, username, email, password_hash, role,
        quota_max_orders_per_day, quota_max_products_per_order, quota_max_total_order_value_cents,
        usage_orders_today, usage_last_order_date, discount_points, created_at, updated_at`

func scanUser(row pgx.Row) (*domain.User, error) {
	var user domain.User
	if err := row.Scan(
		&user.ID,
		&user.Username,
		&user.Email,
		&user.PasswordHash,
		&user.Role,
		&user.Quotas.MaxOrdersPerDay,
		&user.Quotas.MaxProductsPerOrder,
		&user.Quotas.MaxTotalOrderValueCents,
		&user.Usage.OrdersToday,
		&user.Usage.LastOrderDate,
		&user.DiscountPoints,
		&user.CreatedAt,
		&user.UpdatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) Create(ctx context.Context, user *domain.User) error {
	const query = `
        INSERT INTO users (username, email, password_hash, role,
            quota_max_orders_per_day, quota_max_products_per_order, quota_max_total_order_value_cents,
            usage_orders_today, discount_points)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
        RETURNING id, created_at, updated_at`

	err := r.pool.QueryRow(ctx, query,
		user.Username,
		user.Email,
		user.PasswordHash,
		user.Role,
		user.Quotas.MaxOrdersPerDay,
		user.Quotas.MaxProductsPerOrder,
		user.Quotas.MaxTotalOrderValueCents,
		user.Usage.OrdersToday,
		user.DiscountPoints,
	).Scan(&user.ID, &user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
			return fmt.Errorf("%w: %s", ErrUserExists, user.Username)
		}
		return err
	}
	return nil
}

func (r *userRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id=$1`
	return scanUser(r.pool.QueryRow(ctx, query, id))
}

func (r *userRepository) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE username=$1`
	return scanUser(r.pool.QueryRow(ctx, query, username))
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE email=$1`
	return scanUser(r.pool.QueryRow(ctx, query, email))
}

// UpdateQuotaState applies a partial quota/usage update, leaving absent
// fields unmodified.
func (r *userRepository) UpdateQuotaState(ctx context.Context, id string, patch QuotaPatch) error {
	if patch.IsEmpty() {
		// Nothing to apply; still verify the user exists.
		_, err := r.GetByID(ctx, id)
		return err
	}

	set := make([]string, 0, 6)
	args := make([]any, 0, 6)
	add := func(column string, value any) {
		args = append(args, value)
		set = append(set, fmt.Sprintf("%s=$%d", column, len(args)))
	}

	if patch.MaxOrdersPerDay != nil {
		add("quota_max_orders_per_day", *patch.MaxOrdersPerDay)
	}
	if patch.MaxProductsPerOrder != nil {
		add("quota_max_products_per_order", *patch.MaxProductsPerOrder)
	}
	if patch.MaxTotalOrderValueCents != nil {
		add("quota_max_total_order_value_cents", *patch.MaxTotalOrderValueCents)
	}
	if patch.OrdersToday != nil {
		add("usage_orders_today", *patch.OrdersToday)
	}
	if patch.LastOrderDate != nil {
		add("usage_last_order_date", *patch.LastOrderDate)
	}
	set = append(set, "updated_at=NOW()")

	args = append(args, id)
	query := fmt.Sprintf("UPDATE users SET %s WHERE id=$%d", strings.Join(set, ", "), len(args))

	cmd, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrUserNotFound
	}
	return nil
}

// RedeemPoints debits tierPoints from the user's balance and returns the new
// balance. The user row is locked for the duration of the transaction so
// concurrent redemptions cannot overdraw the balance.
func (r *userRepository) RedeemPoints(ctx context.Context, id string, tierPoints int) (int, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	var balance int
	err = tx.QueryRow(ctx, `SELECT discount_points FROM users WHERE id=$1 FOR UPDATE`, id).Scan(&balance)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, ErrUserNotFound
		}
		return 0, fmt.Errorf("lock user: %w", err)
	}

	updated, ok := domain.DebitPoints(balance, tierPoints)
	if !ok {
		return 0, ErrInsufficientPoints
	}

	if _, err := tx.Exec(ctx,
		`UPDATE users SET discount_points=$2, updated_at=NOW() WHERE id=$1`,
		id, updated,
	); err != nil {
		return 0, fmt.Errorf("debit points: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, fmt.Errorf("commit tx: %w", err)
	}
	return updated, nil
}
