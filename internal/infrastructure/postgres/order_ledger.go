package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopfront/checkout/internal/domain/cart"
	"github.com/shopfront/checkout/internal/domain/order"
	"github.com/shopfront/checkout/internal/domain/payment"
	"github.com/shopfront/checkout/internal/infrastructure/id"
)

const schema = `
CREATE TABLE IF NOT EXISTS orders (
	id          TEXT PRIMARY KEY,
	user_id     TEXT NOT NULL,
	payment_id  TEXT NOT NULL,
	total       BIGINT NOT NULL,
	created_at  TIMESTAMPTZ NOT NULL
);
CREATE TABLE IF NOT EXISTS order_items (
	order_id    TEXT NOT NULL REFERENCES orders(id),
	product_id  TEXT NOT NULL,
	quantity    INT NOT NULL,
	unit_price  BIGINT NOT NULL
);
CREATE INDEX IF NOT EXISTS order_items_order_id_idx ON order_items(order_id);
`

type OrderLedger struct {
	pool *pgxpool.Pool
	ids  id.Generator
}

func NewOrderLedger(pool *pgxpool.Pool, ids id.Generator) *OrderLedger {
	return &OrderLedger{pool: pool, ids: ids}
}

// EnsureSchema creates the ledger tables when they do not exist yet.
func (l *OrderLedger) EnsureSchema(ctx context.Context) error {
	if _, err := l.pool.Exec(ctx, schema); err != nil {
		return fmt.Errorf("postgres: ensure schema: %w", err)
	}
	return nil
}

func (l *OrderLedger) Create(ctx context.Context, user cart.UserID, paymentID payment.ID, items []cart.Item, total int64) (order.ID, error) {
	if len(items) == 0 {
		return "", order.ErrNoItems
	}

	orderID := order.ID(l.ids.NewID())

	tx, err := l.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return "", fmt.Errorf("postgres: begin: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	_, err = tx.Exec(ctx,
		`INSERT INTO orders (id, user_id, payment_id, total, created_at) VALUES ($1, $2, $3, $4, $5)`,
		string(orderID), string(user), string(paymentID), total, time.Now().UTC(),
	)
	if err != nil {
		return "", fmt.Errorf("postgres: insert order: %w", err)
	}

	for _, item := range items {
		_, err = tx.Exec(ctx,
			`INSERT INTO order_items (order_id, product_id, quantity, unit_price) VALUES ($1, $2, $3, $4)`,
			string(orderID), item.ProductID, item.Quantity, item.UnitPrice,
		)
		if err != nil {
			return "", fmt.Errorf("postgres: insert order item: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return "", fmt.Errorf("postgres: commit: %w", err)
	}
	return orderID, nil
}
