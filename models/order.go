package models

import (
	"time"

	"github.com/shopspring/decimal"
)

func init() {
	// the backend speaks plain JSON numbers for money
	decimal.MarshalJSONWithoutQuotes = true
}

type Order struct {
	ID              int             `json:"id"`
	CustomerName    string          `json:"customerName"`
	CustomerEmail   string          `json:"customerEmail"`
	ShippingAddress string          `json:"shippingAddress"`
	PaymentMethod   string          `json:"paymentMethod"`
	Items           []OrderItem     `json:"items"`
	Total           decimal.Decimal `json:"total"`
	Status          OrderStatus     `json:"status"`
	CreatedAt       Timestamp       `json:"createdAt"`
}

type OrderItem struct {
	ProductID   int             `json:"productId"`
	ProductName string          `json:"productName"`
	Quantity    int             `json:"quantity"`
	Price       decimal.Decimal `json:"price"`
}

func (i OrderItem) Subtotal() decimal.Decimal {
	return i.Price.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// ComputedTotal recomputes the order total from its line items.
// The backend total stays authoritative.
func (o Order) ComputedTotal() decimal.Decimal {
	total := decimal.Zero
	for _, item := range o.Items {
		total = total.Add(item.Subtotal())
	}
	return total
}

func (o Order) Clone() Order {
	c := o
	if o.Items != nil {
		c.Items = make([]OrderItem, len(o.Items))
		copy(c.Items, o.Items)
	}
	return c
}

type OrderEvent struct {
	OrderID  int         `json:"order_id"`
	Type     string      `json:"type"` // status_changed, payment_confirmed, created, order_placed
	Status   OrderStatus `json:"status,omitempty"`
	Previous OrderStatus `json:"previous,omitempty"`
	Actor    string      `json:"actor,omitempty"`
	Total    string      `json:"total,omitempty"`
	Occurred time.Time   `json:"occurred"`
}

// StatusChange is one accepted admin status update.
type StatusChange struct {
	OrderID   int         `json:"order_id"`
	From      OrderStatus `json:"from"`
	To        OrderStatus `json:"to"`
	Actor     string      `json:"actor"`
	ChangedAt time.Time   `json:"changed_at"`
}
