// Package views derives read-only projections from the cached collections.
// Nothing here mutates its input.
package views

import (
	"math"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"storefront-admin/models"
)

// Bucket names one tab of the order list.
type Bucket string

const BucketAll Bucket = "all"

// Buckets lists every tab in display order.
var Buckets = func() []Bucket {
	b := []Bucket{BucketAll}
	for _, s := range models.AllStatuses {
		b = append(b, Bucket(s))
	}
	return b
}()

func ParseBucket(raw string) (Bucket, bool) {
	raw = strings.ToLower(strings.TrimSpace(raw))
	if raw == "" {
		return BucketAll, true
	}
	for _, b := range Buckets {
		if string(b) == raw {
			return b, true
		}
	}
	return "", false
}

// MatchesQuery is a case-insensitive substring match on customer name,
// customer email and the order id.
func MatchesQuery(o models.Order, query string) bool {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return true
	}
	return strings.Contains(strings.ToLower(o.CustomerName), q) ||
		strings.Contains(strings.ToLower(o.CustomerEmail), q) ||
		strings.Contains(strconv.Itoa(o.ID), q)
}

func FilterOrders(orders []models.Order, query string) []models.Order {
	out := make([]models.Order, 0, len(orders))
	for _, o := range orders {
		if MatchesQuery(o, query) {
			out = append(out, o)
		}
	}
	return out
}

type OrderGroups map[Bucket][]models.Order

// GroupOrders filters by query first, then partitions by status. Every
// matching order lands in "all"; those with a known status also land in
// exactly one status bucket.
func GroupOrders(orders []models.Order, query string) OrderGroups {
	filtered := FilterOrders(orders, query)
	groups := make(OrderGroups, len(Buckets))
	for _, b := range Buckets {
		groups[b] = []models.Order{}
	}
	groups[BucketAll] = filtered
	for _, o := range filtered {
		if !o.Status.Valid() {
			continue
		}
		b := Bucket(o.Status)
		groups[b] = append(groups[b], o)
	}
	return groups
}

func (g OrderGroups) Counts() map[Bucket]int {
	counts := make(map[Bucket]int, len(g))
	for b, orders := range g {
		counts[b] = len(orders)
	}
	return counts
}

type OrderSummary struct {
	OrderCount      int             `json:"orderCount"`
	TotalRevenue    decimal.Decimal `json:"totalRevenue"`
	FulfillmentRate int             `json:"fulfillmentRate"`
}

// SummarizeOrders reports over the whole cached collection, not the
// filtered view.
func SummarizeOrders(orders []models.Order) OrderSummary {
	summary := OrderSummary{OrderCount: len(orders), TotalRevenue: decimal.Zero}
	fulfilled := 0
	for _, o := range orders {
		summary.TotalRevenue = summary.TotalRevenue.Add(o.Total)
		if o.Status == models.StatusShipped || o.Status == models.StatusCompleted {
			fulfilled++
		}
	}
	summary.FulfillmentRate = percent(fulfilled, len(orders))
	return summary
}

func percent(part, whole int) int {
	if whole == 0 {
		return 0
	}
	return int(math.Round(float64(part) * 100 / float64(whole)))
}
