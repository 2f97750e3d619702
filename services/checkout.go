package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"

	"storefront-admin/models"
	"storefront-admin/store"
)

const minPhoneLength = 10

var ErrCheckoutInFlight = errors.New("an identical order is already being placed")

// ValidationError is a form problem caught before any request is sent.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

type Catalog interface {
	ListProducts(ctx context.Context) ([]models.Product, error)
}

type OrderPlacer interface {
	PlaceOrder(ctx context.Context, req models.PlaceOrderRequest) (models.PlaceOrderResponse, error)
	UploadPaymentReceipt(ctx context.Context, orderID int, filename string, file io.Reader) (json.RawMessage, error)
}

type CheckoutForm struct {
	ProductID       int    `json:"product_id"`
	Quantity        int    `json:"quantity"`
	UserName        string `json:"user_name"`
	UserPhone       string `json:"user_phone"`
	UserEmail       string `json:"user_email"`
	ShippingAddress string `json:"shipping_address"`
	PaymentMethod   string `json:"payment_method"`
}

type Confirmation struct {
	models.PlaceOrderResponse
	Note string `json:"note,omitempty"`
}

// CheckoutService backs the public quick checkout: one product, one order.
type CheckoutService struct {
	catalog  Catalog
	placer   OrderPlacer
	events   EventPublisher
	products *store.Resource[models.Product]

	mu       sync.Mutex
	inflight map[string]struct{}
}

func NewCheckoutService(catalog Catalog, placer OrderPlacer, events EventPublisher) *CheckoutService {
	return &CheckoutService{
		catalog:  catalog,
		placer:   placer,
		events:   events,
		products: store.NewResource[models.Product]("products", nil),
		inflight: make(map[string]struct{}),
	}
}

// Products refreshes the catalog and returns what can be bought right now.
func (s *CheckoutService) Products(ctx context.Context) ([]models.Product, error) {
	if err := s.products.Load(ctx, s.catalog.ListProducts); err != nil {
		return nil, err
	}
	return purchasable(s.products.Items()), nil
}

func purchasable(products []models.Product) []models.Product {
	out := make([]models.Product, 0, len(products))
	for _, p := range products {
		if p.Purchasable() {
			out = append(out, p)
		}
	}
	return out
}

// FormFromQuery prefills a form from link parameters. An unknown product id
// is dropped, and so is its quantity.
func FormFromQuery(values url.Values, products []models.Product) CheckoutForm {
	form := CheckoutForm{
		Quantity:        1,
		UserName:        values.Get("name"),
		UserPhone:       values.Get("phone"),
		UserEmail:       values.Get("email"),
		ShippingAddress: values.Get("address"),
		PaymentMethod:   models.PaymentCashOnDelivery,
	}
	id, err := strconv.Atoi(values.Get("productId"))
	if err != nil {
		return form
	}
	for _, p := range products {
		if p.ID != id {
			continue
		}
		form.ProductID = id
		if q, err := strconv.Atoi(values.Get("quantity")); err == nil && q > 0 {
			form.Quantity = q
		}
		break
	}
	return form
}

func Quote(product models.Product, quantity int) decimal.Decimal {
	return product.Price.Mul(decimal.NewFromInt(int64(quantity)))
}

// ValidateForm applies the checkout rules in the order a shopper sees them.
// product is nil when nothing valid is selected.
func ValidateForm(form CheckoutForm, product *models.Product) error {
	if product == nil {
		return &ValidationError{Field: "product_id", Message: "Please select a product"}
	}
	if strings.TrimSpace(form.UserName) == "" ||
		strings.TrimSpace(form.UserPhone) == "" ||
		strings.TrimSpace(form.ShippingAddress) == "" {
		return &ValidationError{Field: "form", Message: "Please fill in all required fields"}
	}
	if utf8.RuneCountInString(strings.TrimSpace(form.UserPhone)) < minPhoneLength {
		return &ValidationError{Field: "user_phone", Message: "Please enter a valid phone number"}
	}
	if form.Quantity < 1 {
		return &ValidationError{Field: "quantity", Message: "Quantity must be at least 1"}
	}
	if form.Quantity > product.StockQuantity {
		return &ValidationError{
			Field:   "quantity",
			Message: fmt.Sprintf("Only %d items available", product.StockQuantity),
		}
	}
	return nil
}

func BuildPlaceOrderRequest(form CheckoutForm) models.PlaceOrderRequest {
	method := strings.TrimSpace(form.PaymentMethod)
	if method == "" {
		method = models.PaymentCashOnDelivery
	}
	return models.PlaceOrderRequest{
		UserPhone:       strings.TrimSpace(form.UserPhone),
		UserName:        strings.TrimSpace(form.UserName),
		UserEmail:       strings.TrimSpace(form.UserEmail),
		ShippingAddress: strings.TrimSpace(form.ShippingAddress),
		PaymentMethod:   method,
		Items:           []models.PlaceOrderItem{{ProductID: form.ProductID, Quantity: form.Quantity}},
	}
}

// PlaceOrder validates against the cached catalog and only then issues the
// single order request. A second submit for the same phone and product while
// the first is outstanding fails with ErrCheckoutInFlight.
func (s *CheckoutService) PlaceOrder(ctx context.Context, form CheckoutForm) (Confirmation, error) {
	if !s.products.Loaded() {
		if _, err := s.Products(ctx); err != nil {
			return Confirmation{}, fmt.Errorf("load catalog: %w", err)
		}
	}

	var selected *models.Product
	if p, ok := s.products.Find(func(p models.Product) bool { return p.ID == form.ProductID }); ok && p.Purchasable() {
		selected = &p
	}
	if err := ValidateForm(form, selected); err != nil {
		return Confirmation{}, err
	}

	req := BuildPlaceOrderRequest(form)
	key := req.UserPhone + "/" + strconv.Itoa(form.ProductID)
	if !s.acquire(key) {
		return Confirmation{}, ErrCheckoutInFlight
	}
	defer s.release(key)

	resp, err := s.placer.PlaceOrder(ctx, req)
	if err != nil {
		return Confirmation{}, fmt.Errorf("place order: %w", err)
	}

	// keep the cached stock roughly honest until the next refresh
	s.products.Update(
		func(p models.Product) bool { return p.ID == form.ProductID },
		func(p *models.Product) { p.StockQuantity -= form.Quantity },
	)
	s.publishPlaced(ctx, resp)

	confirmation := Confirmation{PlaceOrderResponse: resp}
	if resp.PaymentMethod == models.PaymentCashOnDelivery {
		confirmation.Note = "Please keep the exact amount ready for delivery."
	}
	return confirmation, nil
}

func (s *CheckoutService) acquire(key string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, busy := s.inflight[key]; busy {
		return false
	}
	s.inflight[key] = struct{}{}
	return true
}

func (s *CheckoutService) release(key string) {
	s.mu.Lock()
	delete(s.inflight, key)
	s.mu.Unlock()
}

func (s *CheckoutService) UploadReceipt(ctx context.Context, orderID int, filename string, file io.Reader) (json.RawMessage, error) {
	if orderID <= 0 {
		return nil, &ValidationError{Field: "order_id", Message: "Invalid order ID"}
	}
	if strings.TrimSpace(filename) == "" {
		return nil, &ValidationError{Field: "file", Message: "Please attach a receipt"}
	}
	return s.placer.UploadPaymentReceipt(ctx, orderID, filename, file)
}

func (s *CheckoutService) publishPlaced(ctx context.Context, resp models.PlaceOrderResponse) {
	if s.events == nil {
		return
	}
	var priority uint8 = 5
	if resp.TotalAmount.GreaterThan(decimal.NewFromInt(1000)) {
		priority = 9
	}
	event := models.OrderEvent{
		OrderID:  resp.OrderID,
		Type:     "order_placed",
		Status:   models.OrderStatus(resp.Status),
		Total:    resp.TotalAmount.String(),
		Occurred: time.Now().UTC(),
	}
	if err := s.events.PublishOrderEvent(context.WithoutCancel(ctx), event, priority); err != nil {
		log.Error().Err(err).Int("order_id", resp.OrderID).Msg("failed to publish order placed event")
	}
}
