package controllers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"storefront-admin/models"
	"storefront-admin/views"
)

// HistoryReader lists the recorded status changes of one order.
type HistoryReader interface {
	ListForOrder(ctx context.Context, orderID int) ([]models.StatusChange, error)
}

type OrderController struct {
	Admin
	History HistoryReader
}

type updateStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// ListOrders serves the grouped order list. The search query is applied
// before grouping, so every tab count reflects it.
func (oc *OrderController) ListOrders(c *gin.Context) {
	ws, ok := oc.workspace(c)
	if !ok {
		return
	}

	bucket, ok := views.ParseBucket(c.Query("status"))
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid status filter", "field": "status"})
		return
	}

	err := ws.LoadOrders(c.Request.Context(), wantsRefresh(c))
	if loadFailed(c, err, ws.Orders.Loaded()) {
		return
	}

	snap := ws.Orders.Snapshot()
	query := c.Query("q")
	groups := views.GroupOrders(snap.Items, query)

	c.JSON(http.StatusOK, gin.H{
		"status":  snap.Status,
		"error":   snap.Error,
		"query":   query,
		"bucket":  bucket,
		"counts":  groups.Counts(),
		"orders":  groups[bucket],
		"summary": views.SummarizeOrders(snap.Items),
	})
}

func (oc *OrderController) RefreshOrders(c *gin.Context) {
	defer recordOperation(c, "refresh_orders")

	ws, ok := oc.workspace(c)
	if !ok {
		return
	}
	if err := ws.LoadOrders(c.Request.Context(), true); err != nil {
		respondError(c, err)
		return
	}
	snap := ws.Orders.Snapshot()
	c.JSON(http.StatusOK, gin.H{"status": snap.Status, "count": len(snap.Items)})
}

// GetOrderDetails opens the detail panel for one cached order.
func (oc *OrderController) GetOrderDetails(c *gin.Context) {
	ws, ok := oc.workspace(c)
	if !ok {
		return
	}
	orderID, ok := pathID(c, "id")
	if !ok {
		return
	}

	detail, err := ws.OpenOrder(c.Request.Context(), orderID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, detail)
}

func (oc *OrderController) CloseOrderDetails(c *gin.Context) {
	ws, ok := oc.workspace(c)
	if !ok {
		return
	}
	ws.CloseOrder()
	c.Status(http.StatusNoContent)
}

// UpdateOrderStatus relays one status change. On rejection the cached order
// keeps its previous status; the backend's reason is returned together with
// the order as last known.
func (oc *OrderController) UpdateOrderStatus(c *gin.Context) {
	defer recordOperation(c, "update_status")

	ws, ok := oc.workspace(c)
	if !ok {
		return
	}
	orderID, ok := pathID(c, "id")
	if !ok {
		return
	}

	var req updateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	status, err := models.ParseOrderStatus(req.Status)
	if err != nil {
		respondError(c, err)
		return
	}

	detail, err := ws.ChangeOrderStatus(c.Request.Context(), orderID, status)
	if err != nil {
		if detail.ID != 0 {
			respondErrorWith(c, err, gin.H{"order": detail})
		} else {
			respondError(c, err)
		}
		return
	}
	c.JSON(http.StatusOK, detail)
}

func (oc *OrderController) GetOrderHistory(c *gin.Context) {
	if _, ok := oc.workspace(c); !ok {
		return
	}
	orderID, ok := pathID(c, "id")
	if !ok {
		return
	}
	if oc.History == nil {
		c.JSON(http.StatusNotImplemented, gin.H{"error": "Status history is not enabled"})
		return
	}

	changes, err := oc.History.ListForOrder(c.Request.Context(), orderID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"orderId": orderID, "history": changes})
}
