package views

import (
	"regexp"
	"strings"

	"github.com/shopspring/decimal"

	"storefront-admin/models"
)

const AllCategories = "all"

// FilterProducts matches name or description and, unless category is "all",
// the product's category name.
func FilterProducts(products []models.Product, categories []models.Category, query, category string) []models.Product {
	q := strings.ToLower(strings.TrimSpace(query))
	names := make(map[int]string, len(categories))
	for _, c := range categories {
		names[c.ID] = c.Name
	}

	out := make([]models.Product, 0, len(products))
	for _, p := range products {
		if q != "" &&
			!strings.Contains(strings.ToLower(p.Name), q) &&
			!strings.Contains(strings.ToLower(p.Description), q) {
			continue
		}
		if category != "" && category != AllCategories && names[p.CategoryID] != category {
			continue
		}
		if p.Category == "" {
			p.Category = names[p.CategoryID]
		}
		out = append(out, p)
	}
	return out
}

type InventorySummary struct {
	LowStock       int             `json:"lowStock"`
	Active         int             `json:"active"`
	InventoryValue decimal.Decimal `json:"inventoryValue"`
}

func SummarizeInventory(products []models.Product, lowStockThreshold int) InventorySummary {
	s := InventorySummary{InventoryValue: decimal.Zero}
	for _, p := range products {
		if p.StockQuantity <= lowStockThreshold {
			s.LowStock++
		}
		if p.IsActive {
			s.Active++
		}
		s.InventoryValue = s.InventoryValue.Add(p.Price.Mul(decimal.NewFromInt(int64(p.StockQuantity))))
	}
	return s
}

var (
	driveFilePath = regexp.MustCompile(`/file/d/(.+?)/(view|edit)`)
	driveIDParam  = regexp.MustCompile(`id=(.+?)(&|$)`)
)

// NormalizeImageURL turns a Google Drive share link into a direct image URL.
func NormalizeImageURL(url string) string {
	if url == "" {
		return url
	}
	m := driveFilePath.FindStringSubmatch(url)
	if m == nil && strings.Contains(url, "drive.google.com") {
		m = driveIDParam.FindStringSubmatch(url)
	}
	if m != nil && m[1] != "" {
		return "https://lh3.googleusercontent.com/d/" + m[1]
	}
	return url
}
