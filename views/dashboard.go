package views

import (
	"sort"

	"github.com/shopspring/decimal"

	"storefront-admin/models"
)

const (
	attentionLimit = 2
	recentLimit    = 3
)

type Dashboard struct {
	Stats             models.DashboardStats `json:"stats"`
	CompletedOrders   int                   `json:"completedOrders"`
	CompletionRate    int                   `json:"completionRate"`
	AverageOrderValue decimal.Decimal       `json:"averageOrderValue"`
	TopCustomer       *models.Customer      `json:"topCustomer"`
	NeedsAttention    []models.Order        `json:"needsAttention"`
	RecentOrders      []models.Order        `json:"recentOrders"`
}

func BuildDashboard(stats models.DashboardStats, orders []models.Order, customers []models.Customer) Dashboard {
	completed := stats.TotalOrders - stats.PendingOrders
	if completed < 0 {
		completed = 0
	}

	d := Dashboard{
		Stats:             stats,
		CompletedOrders:   completed,
		CompletionRate:    percent(completed, stats.TotalOrders),
		AverageOrderValue: decimal.Zero,
		NeedsAttention:    []models.Order{},
		RecentOrders:      []models.Order{},
	}
	if stats.TotalOrders > 0 {
		d.AverageOrderValue = stats.TotalRevenue.DivRound(decimal.NewFromInt(int64(stats.TotalOrders)), 2)
	}

	for i := range customers {
		if d.TopCustomer == nil || customers[i].TotalSpent.GreaterThan(d.TopCustomer.TotalSpent) {
			top := customers[i]
			d.TopCustomer = &top
		}
	}

	newest := newestFirst(orders)
	for _, o := range newest {
		if len(d.NeedsAttention) == attentionLimit {
			break
		}
		if o.Status == models.StatusPending || o.Status == models.StatusPaymentReviewRequested {
			d.NeedsAttention = append(d.NeedsAttention, o)
		}
	}
	if len(newest) > recentLimit {
		newest = newest[:recentLimit]
	}
	d.RecentOrders = append(d.RecentOrders, newest...)
	return d
}

func newestFirst(orders []models.Order) []models.Order {
	sorted := make([]models.Order, len(orders))
	copy(sorted, orders)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].CreatedAt.After(sorted[j].CreatedAt.Time)
	})
	return sorted
}
