package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"storefront-admin/views"
)

type DashboardController struct {
	Admin
}

// GetDashboard always refreshes the stats; orders and customers come from
// the cache when present.
func (dc *DashboardController) GetDashboard(c *gin.Context) {
	ws, ok := dc.workspace(c)
	if !ok {
		return
	}
	ctx := c.Request.Context()

	if err := ws.LoadStats(ctx); err != nil {
		if _, cached := ws.Stats.Get(); !cached {
			respondError(c, err)
			return
		}
	}
	if err := ws.LoadOrders(ctx, false); err != nil {
		log.Warn().Err(err).Str("session", ws.SessionID).Msg("dashboard orders unavailable")
	}
	if err := ws.LoadCustomers(ctx, false); err != nil {
		log.Warn().Err(err).Str("session", ws.SessionID).Msg("dashboard customers unavailable")
	}

	stats := ws.Stats.Snapshot()
	dashboard := views.BuildDashboard(*stats.Value, ws.Orders.Orders(), ws.Customers.Items())
	c.JSON(http.StatusOK, gin.H{
		"status":    stats.Status,
		"error":     stats.Error,
		"dashboard": dashboard,
	})
}
