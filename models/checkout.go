package models

import "github.com/shopspring/decimal"

const PaymentCashOnDelivery = "Cash on Delivery"

type PlaceOrderItem struct {
	ProductID int `json:"product_id"`
	Quantity  int `json:"quantity"`
}

type PlaceOrderRequest struct {
	UserPhone       string           `json:"user_phone"`
	UserName        string           `json:"user_name"`
	UserEmail       string           `json:"user_email,omitempty"`
	ShippingAddress string           `json:"shipping_address"`
	PaymentMethod   string           `json:"payment_method"`
	Items           []PlaceOrderItem `json:"items"`
}

type PlaceOrderResponse struct {
	OrderID       int             `json:"order_id"`
	Status        string          `json:"status"`
	TotalAmount   decimal.Decimal `json:"total_amount"`
	PaymentMethod string          `json:"payment_method"`
	Message       string          `json:"message"`
}
