package views

import (
	"sync"

	"github.com/shopspring/decimal"

	"storefront-admin/models"
)

// DetailView tracks the order an admin currently has open.
type DetailView struct {
	mu    sync.Mutex
	order *models.Order
}

func (d *DetailView) Open(order models.Order) {
	d.mu.Lock()
	defer d.mu.Unlock()
	o := order.Clone()
	d.order = &o
}

// Close only drops the selection; the cached order is untouched.
func (d *DetailView) Close() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.order = nil
}

func (d *DetailView) Current() (models.Order, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.order == nil {
		return models.Order{}, false
	}
	return d.order.Clone(), true
}

// SyncStatus updates the displayed status if orderID is the open order.
func (d *DetailView) SyncStatus(orderID int, status models.OrderStatus) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.order == nil || d.order.ID != orderID {
		return false
	}
	d.order.Status = status
	return true
}

type DetailLine struct {
	ProductID   int             `json:"productId"`
	ProductName string          `json:"productName"`
	Quantity    int             `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unitPrice"`
	Subtotal    decimal.Decimal `json:"subtotal"`
}

type OrderDetail struct {
	ID              int                  `json:"id"`
	CustomerName    string               `json:"customerName"`
	CustomerEmail   string               `json:"customerEmail"`
	ShippingAddress string               `json:"shippingAddress"`
	PaymentMethod   string               `json:"paymentMethod"`
	CreatedAt       models.Timestamp     `json:"createdAt"`
	Status          models.OrderStatus   `json:"status"`
	StatusOptions   []models.OrderStatus `json:"statusOptions"`
	Lines           []DetailLine         `json:"lines"`
	Total           decimal.Decimal      `json:"total"`
	ComputedTotal   decimal.Decimal      `json:"computedTotal"`
	TotalMismatch   bool                 `json:"totalMismatch"`
}

// BuildOrderDetail renders the detail panel. targets are the statuses the
// status control may offer besides the current one.
func BuildOrderDetail(order models.Order, targets []models.OrderStatus) OrderDetail {
	lines := make([]DetailLine, 0, len(order.Items))
	for _, item := range order.Items {
		lines = append(lines, DetailLine{
			ProductID:   item.ProductID,
			ProductName: item.ProductName,
			Quantity:    item.Quantity,
			UnitPrice:   item.Price,
			Subtotal:    item.Subtotal(),
		})
	}

	options := append([]models.OrderStatus{order.Status}, targets...)
	computed := order.ComputedTotal()
	return OrderDetail{
		ID:              order.ID,
		CustomerName:    order.CustomerName,
		CustomerEmail:   order.CustomerEmail,
		ShippingAddress: order.ShippingAddress,
		PaymentMethod:   order.PaymentMethod,
		CreatedAt:       order.CreatedAt,
		Status:          order.Status,
		StatusOptions:   options,
		Lines:           lines,
		Total:           order.Total,
		ComputedTotal:   computed,
		TotalMismatch:   len(order.Items) > 0 && !computed.Equal(order.Total),
	}
}
