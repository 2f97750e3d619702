package views

import (
	"strings"

	"github.com/shopspring/decimal"

	"storefront-admin/models"
)

type CustomerRow struct {
	models.Customer
	Tier     string `json:"tier"`
	Initials string `json:"initials"`
}

type CustomerSummary struct {
	TotalRevenue decimal.Decimal `json:"totalRevenue"`
	TotalOrders  int             `json:"totalOrders"`
	AverageSpend decimal.Decimal `json:"averageSpend"`
}

func FilterCustomers(customers []models.Customer, query string) []CustomerRow {
	q := strings.ToLower(strings.TrimSpace(query))
	rows := make([]CustomerRow, 0, len(customers))
	for _, c := range customers {
		if q != "" &&
			!strings.Contains(strings.ToLower(c.Name), q) &&
			!strings.Contains(strings.ToLower(c.Email), q) &&
			!strings.Contains(strings.ToLower(c.Phone), q) {
			continue
		}
		rows = append(rows, CustomerRow{Customer: c, Tier: c.Tier(), Initials: initials(c.Name)})
	}
	return rows
}

// SummarizeCustomers covers every cached customer regardless of the search.
func SummarizeCustomers(customers []models.Customer) CustomerSummary {
	s := CustomerSummary{TotalRevenue: decimal.Zero, AverageSpend: decimal.Zero}
	for _, c := range customers {
		s.TotalRevenue = s.TotalRevenue.Add(c.TotalSpent)
		s.TotalOrders += c.TotalOrders
	}
	if len(customers) > 0 {
		s.AverageSpend = s.TotalRevenue.DivRound(decimal.NewFromInt(int64(len(customers))), 2)
	}
	return s
}

func initials(name string) string {
	var b strings.Builder
	for _, part := range strings.Fields(name) {
		r := []rune(part)
		b.WriteRune(r[0])
		if b.Len() >= 2 {
			break
		}
	}
	return strings.ToUpper(b.String())
}
