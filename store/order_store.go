package store

import (
	"context"

	"storefront-admin/models"
)

// OrderSource reads the full order list from the backend.
type OrderSource interface {
	ListOrders(ctx context.Context) ([]models.Order, error)
}

// OrderStore is the single source of truth for orders within one admin
// session.
type OrderStore struct {
	source OrderSource
	orders *Resource[models.Order]
}

func NewOrderStore(source OrderSource) *OrderStore {
	return &OrderStore{
		source: source,
		orders: NewResource[models.Order]("orders", models.Order.Clone),
	}
}

// LoadOrders replaces the cache with a fresh backend read. A failure keeps the
// previously loaded orders and records a readable error.
func (s *OrderStore) LoadOrders(ctx context.Context) error {
	return s.orders.Load(ctx, s.source.ListOrders)
}

// ApplyStatusChange records a status the backend has accepted. Unknown ids
// are ignored; the next full load reconciles them.
func (s *OrderStore) ApplyStatusChange(orderID int, status models.OrderStatus) bool {
	return s.orders.Update(
		func(o models.Order) bool { return o.ID == orderID },
		func(o *models.Order) { o.Status = status },
	)
}

func (s *OrderStore) Orders() []models.Order {
	return s.orders.Items()
}

func (s *OrderStore) Order(orderID int) (models.Order, bool) {
	return s.orders.Find(func(o models.Order) bool { return o.ID == orderID })
}

func (s *OrderStore) Snapshot() Snapshot[models.Order] {
	return s.orders.Snapshot()
}

func (s *OrderStore) Loaded() bool {
	return s.orders.Loaded()
}

func (s *OrderStore) Reset() {
	s.orders.Reset()
}
