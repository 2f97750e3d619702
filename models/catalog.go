package models

import (
	"errors"

	"github.com/shopspring/decimal"
)

type Product struct {
	ID            int             `json:"id"`
	Name          string          `json:"name"`
	Description   string          `json:"description"`
	Price         decimal.Decimal `json:"price"`
	StockQuantity int             `json:"stockQuantity"`
	CategoryID    int             `json:"categoryId"`
	Category      string          `json:"category,omitempty"`
	ImageURL      string          `json:"imageUrl,omitempty"`
	IsActive      bool            `json:"isActive"`
}

// Purchasable reports whether the product can be offered at checkout.
func (p Product) Purchasable() bool {
	return p.IsActive && p.StockQuantity > 0
}

type ProductInput struct {
	Name          string          `json:"name" binding:"required"`
	Description   string          `json:"description"`
	Price         decimal.Decimal `json:"price"`
	StockQuantity int             `json:"stockQuantity" binding:"gte=0"`
	CategoryID    int             `json:"categoryId" binding:"required,gt=0"`
	ImageURL      string          `json:"imageUrl"`
	IsActive      *bool           `json:"isActive"`
}

type Category struct {
	ID          int    `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

type UploadResult struct {
	ImageURL string `json:"imageUrl"`
}

var ErrNegativePrice = errors.New("price must not be negative")

// Validate covers the rules binding tags cannot express.
func (in ProductInput) Validate() error {
	if in.Price.IsNegative() {
		return ErrNegativePrice
	}
	return nil
}

const defaultProductImage = "https://images.unsplash.com/photo-1560393464-5c69a73c5770?w=300"

// NewProduct builds the product sent on create. New products start active
// and get a placeholder image when none was uploaded.
func (in ProductInput) NewProduct() Product {
	p := in.apply(Product{IsActive: true})
	if p.ImageURL == "" {
		p.ImageURL = defaultProductImage
	}
	return p
}

// Apply overlays the input on an existing product for an update.
func (in ProductInput) Apply(existing Product) Product {
	return in.apply(existing)
}

func (in ProductInput) apply(p Product) Product {
	p.Name = in.Name
	p.Description = in.Description
	p.Price = in.Price
	p.StockQuantity = in.StockQuantity
	p.CategoryID = in.CategoryID
	p.ImageURL = in.ImageURL
	if in.IsActive != nil {
		p.IsActive = *in.IsActive
	}
	return p
}
