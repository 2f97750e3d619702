package models

import (
	"errors"
	"fmt"
	"strings"
)

type OrderStatus string

const (
	StatusPending                OrderStatus = "pending"
	StatusPaymentReviewRequested OrderStatus = "payment_review_requested"
	StatusPaid                   OrderStatus = "paid"
	StatusShipped                OrderStatus = "shipped"
	StatusCompleted              OrderStatus = "completed"
	StatusCancelled              OrderStatus = "cancelled"
)

var ErrInvalidStatus = errors.New("invalid order status")

// AllStatuses lists every status in lifecycle order.
var AllStatuses = []OrderStatus{
	StatusPending,
	StatusPaymentReviewRequested,
	StatusPaid,
	StatusShipped,
	StatusCompleted,
	StatusCancelled,
}

func (s OrderStatus) Valid() bool {
	for _, known := range AllStatuses {
		if s == known {
			return true
		}
	}
	return false
}

func (s OrderStatus) String() string {
	return string(s)
}

func ParseOrderStatus(raw string) (OrderStatus, error) {
	s := OrderStatus(strings.ToLower(strings.TrimSpace(raw)))
	if !s.Valid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidStatus, raw)
	}
	return s, nil
}
