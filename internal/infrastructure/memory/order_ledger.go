package memory

import (
	"context"
	"sync"
	"time"

	"github.com/shopfront/checkout/internal/domain/cart"
	"github.com/shopfront/checkout/internal/domain/order"
	"github.com/shopfront/checkout/internal/domain/payment"
	"github.com/shopfront/checkout/internal/infrastructure/id"
)

type OrderLedger struct {
	mu     sync.RWMutex
	orders map[order.ID]*order.Order
	ids    id.Generator
}

func NewOrderLedger(ids id.Generator) *OrderLedger {
	return &OrderLedger{
		orders: make(map[order.ID]*order.Order),
		ids:    ids,
	}
}

func (l *OrderLedger) Create(ctx context.Context, user cart.UserID, paymentID payment.ID, items []cart.Item, total int64) (order.ID, error) {
	_ = ctx
	if len(items) == 0 {
		return "", order.ErrNoItems
	}

	entity := &order.Order{
		ID:        order.ID(l.ids.NewID()),
		UserID:    user,
		PaymentID: paymentID,
		Items:     append([]cart.Item(nil), items...),
		Total:     total,
		CreatedAt: time.Now().UTC(),
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	l.orders[entity.ID] = entity
	return entity.ID, nil
}

func (l *OrderLedger) Get(ctx context.Context, orderID order.ID) (*order.Order, error) {
	_ = ctx

	l.mu.RLock()
	defer l.mu.RUnlock()

	entity, ok := l.orders[orderID]
	if !ok {
		return nil, order.ErrNotFound
	}
	clone := *entity
	clone.Items = append([]cart.Item(nil), entity.Items...)
	return &clone, nil
}
