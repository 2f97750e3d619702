package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"storefront-admin/lifecycle"
	"storefront-admin/models"
	"storefront-admin/store"
	"storefront-admin/views"
)

var (
	ErrUnknownOrder   = errors.New("order not found")
	ErrChangeInFlight = errors.New("a status change for this order is already in progress")
)

// StatusWriter performs the backend write for a status change.
type StatusWriter interface {
	UpdateOrderStatus(ctx context.Context, orderID int, status models.OrderStatus) error
}

type AuditRecorder interface {
	Record(ctx context.Context, change models.StatusChange) error
}

type EventPublisher interface {
	PublishOrderEvent(ctx context.Context, event models.OrderEvent, priority uint8) error
}

// OrderStatusService mediates admin status changes. The backend is the
// authority: nothing local changes until it has accepted the write.
type OrderStatusService struct {
	writer    StatusWriter
	orders    *store.OrderStore
	detail    *views.DetailView
	validator *lifecycle.Validator
	audit     AuditRecorder
	events    EventPublisher

	mu       sync.Mutex
	inflight map[int]struct{}
}

type StatusOption func(*OrderStatusService)

func WithAudit(a AuditRecorder) StatusOption {
	return func(s *OrderStatusService) { s.audit = a }
}

func WithEvents(p EventPublisher) StatusOption {
	return func(s *OrderStatusService) { s.events = p }
}

func NewOrderStatusService(writer StatusWriter, orders *store.OrderStore, detail *views.DetailView, validator *lifecycle.Validator, opts ...StatusOption) *OrderStatusService {
	if validator == nil {
		validator = lifecycle.NewValidator(lifecycle.PolicyRelay, nil)
	}
	s := &OrderStatusService{
		writer:    writer,
		orders:    orders,
		detail:    detail,
		validator: validator,
		inflight:  make(map[int]struct{}),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Targets is what the status control offers for the order right now.
func (s *OrderStatusService) Targets(current models.OrderStatus) []models.OrderStatus {
	return s.validator.Targets(current)
}

// ChangeStatus sends exactly one write to the backend. On acceptance the
// store and the open detail view are updated together; on rejection both are
// left as they were and the last known-good order is returned with the error.
func (s *OrderStatusService) ChangeStatus(ctx context.Context, orderID int, target models.OrderStatus, actor string) (models.Order, error) {
	if !target.Valid() {
		return models.Order{}, fmt.Errorf("%w: %q", models.ErrInvalidStatus, target)
	}
	current, ok := s.orders.Order(orderID)
	if !ok {
		return models.Order{}, fmt.Errorf("%w: %d", ErrUnknownOrder, orderID)
	}
	if err := s.validator.Check(current.Status, target); err != nil {
		return current, err
	}

	if !s.acquire(orderID) {
		return current, ErrChangeInFlight
	}
	defer s.release(orderID)

	if err := s.writer.UpdateOrderStatus(ctx, orderID, target); err != nil {
		log.Warn().Err(err).Int("order_id", orderID).Str("target", target.String()).Msg("status change rejected")
		return current, fmt.Errorf("update order %d status: %w", orderID, err)
	}

	s.orders.ApplyStatusChange(orderID, target)
	s.detail.SyncStatus(orderID, target)

	change := models.StatusChange{
		OrderID:   orderID,
		From:      current.Status,
		To:        target,
		Actor:     actor,
		ChangedAt: time.Now().UTC(),
	}
	s.afterChange(ctx, change)

	updated, ok := s.orders.Order(orderID)
	if !ok {
		current.Status = target
		return current, nil
	}
	return updated, nil
}

func (s *OrderStatusService) acquire(orderID int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, busy := s.inflight[orderID]; busy {
		return false
	}
	s.inflight[orderID] = struct{}{}
	return true
}

func (s *OrderStatusService) release(orderID int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.inflight, orderID)
}

// afterChange runs the local side effects. Their failures are logged only;
// the backend has already accepted the change.
func (s *OrderStatusService) afterChange(ctx context.Context, change models.StatusChange) {
	ctx = context.WithoutCancel(ctx)

	if s.audit != nil {
		if err := s.audit.Record(ctx, change); err != nil {
			log.Error().Err(err).Int("order_id", change.OrderID).Msg("failed to record status audit")
		}
	}

	if s.events != nil {
		var priority uint8 = 5
		if change.To == models.StatusCancelled {
			priority = 8
		}
		event := models.OrderEvent{
			OrderID:  change.OrderID,
			Type:     "status_changed",
			Status:   change.To,
			Previous: change.From,
			Actor:    change.Actor,
			Occurred: change.ChangedAt,
		}
		if err := s.events.PublishOrderEvent(ctx, event, priority); err != nil {
			log.Error().Err(err).Int("order_id", change.OrderID).Msg("failed to publish status event")
		}
	}
}
