package database

import (
	"context"
	"database/sql"
	"fmt"

	"storefront-admin/models"
)

// AuditRepository keeps the admin's own trail of accepted status changes.
// The backend stays the owner of order state.
type AuditRepository struct {
	db *sql.DB
}

func NewAuditRepository(db *sql.DB) *AuditRepository {
	return &AuditRepository{db: db}
}

func (r *AuditRepository) Record(ctx context.Context, change models.StatusChange) error {
	_, err := r.db.ExecContext(ctx,
		"INSERT INTO order_status_audit (order_id, from_status, to_status, actor, changed_at) VALUES (?, ?, ?, ?, ?)",
		change.OrderID, string(change.From), string(change.To), change.Actor, change.ChangedAt,
	)
	if err != nil {
		return fmt.Errorf("insert status audit for order %d: %w", change.OrderID, err)
	}
	return nil
}

// ListForOrder returns the trail newest first.
func (r *AuditRepository) ListForOrder(ctx context.Context, orderID int) ([]models.StatusChange, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT order_id, from_status, to_status, actor, changed_at
		FROM order_status_audit
		WHERE order_id = ?
		ORDER BY changed_at DESC, id DESC
	`, orderID)
	if err != nil {
		return nil, fmt.Errorf("query status audit for order %d: %w", orderID, err)
	}
	defer func(rows *sql.Rows) {
		_ = rows.Close()
	}(rows)

	changes := []models.StatusChange{}
	for rows.Next() {
		var (
			c        models.StatusChange
			from, to string
		)
		if err := rows.Scan(&c.OrderID, &from, &to, &c.Actor, &c.ChangedAt); err != nil {
			return nil, fmt.Errorf("scan status audit: %w", err)
		}
		c.From, c.To = models.OrderStatus(from), models.OrderStatus(to)
		changes = append(changes, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate status audit: %w", err)
	}
	return changes, nil
}
