package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"storefront-admin/views"
)

type CustomerController struct {
	Admin
}

func (cc *CustomerController) ListCustomers(c *gin.Context) {
	ws, ok := cc.workspace(c)
	if !ok {
		return
	}

	err := ws.LoadCustomers(c.Request.Context(), wantsRefresh(c))
	if loadFailed(c, err, ws.Customers.Loaded()) {
		return
	}

	snap := ws.Customers.Snapshot()
	c.JSON(http.StatusOK, gin.H{
		"status":    snap.Status,
		"error":     snap.Error,
		"customers": views.FilterCustomers(snap.Items, c.Query("q")),
		"summary":   views.SummarizeCustomers(snap.Items),
	})
}
