package models

import "github.com/shopspring/decimal"

type Customer struct {
	ID          int             `json:"id"`
	Name        string          `json:"name"`
	Email       string          `json:"email"`
	Phone       string          `json:"phone"`
	Address     string          `json:"address"`
	TotalOrders int             `json:"totalOrders"`
	TotalSpent  decimal.Decimal `json:"totalSpent"`
	CreatedAt   Timestamp       `json:"createdAt"`
}

var (
	platinumSpend = decimal.NewFromInt(5000)
	goldSpend     = decimal.NewFromInt(2000)
)

func (c Customer) Tier() string {
	switch {
	case c.TotalSpent.GreaterThan(platinumSpend):
		return "Platinum"
	case c.TotalSpent.GreaterThan(goldSpend):
		return "Gold"
	default:
		return "Regular"
	}
}

type DashboardStats struct {
	TotalOrders    int             `json:"totalOrders"`
	PendingOrders  int             `json:"pendingOrders"`
	TotalRevenue   decimal.Decimal `json:"totalRevenue"`
	TotalProducts  int             `json:"totalProducts"`
	TotalCustomers int             `json:"totalCustomers"`
}
