package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"storefront-admin/models"
)

type SettingsController struct {
	Admin
}

func (sc *SettingsController) GetSettings(c *gin.Context) {
	ws, ok := sc.workspace(c)
	if !ok {
		return
	}
	if err := ws.LoadSettings(c.Request.Context()); err != nil {
		if _, cached := ws.Settings.Get(); !cached {
			respondError(c, err)
			return
		}
	}
	c.JSON(http.StatusOK, ws.Settings.Snapshot())
}

func (sc *SettingsController) UpdateSettings(c *gin.Context) {
	defer recordOperation(c, "update_settings")

	ws, ok := sc.workspace(c)
	if !ok {
		return
	}
	var update models.BusinessSettingsUpdate
	if err := c.ShouldBindJSON(&update); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	saved, err := ws.UpdateSettings(c.Request.Context(), update)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, saved)
}

func (sc *SettingsController) ListBusinessDetails(c *gin.Context) {
	ws, ok := sc.workspace(c)
	if !ok {
		return
	}
	err := ws.LoadBusinessDetails(c.Request.Context(), wantsRefresh(c))
	if loadFailed(c, err, ws.BusinessDetails.Loaded()) {
		return
	}
	snap := ws.BusinessDetails.Snapshot()
	c.JSON(http.StatusOK, gin.H{"status": snap.Status, "error": snap.Error, "details": snap.Items})
}

func (sc *SettingsController) CreateBusinessDetail(c *gin.Context) {
	defer recordOperation(c, "create_business_detail")

	ws, ok := sc.workspace(c)
	if !ok {
		return
	}
	var in models.BusinessDetailInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	created, err := ws.CreateBusinessDetail(c.Request.Context(), in)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, created)
}

func (sc *SettingsController) UpdateBusinessDetail(c *gin.Context) {
	defer recordOperation(c, "update_business_detail")

	ws, ok := sc.workspace(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var in models.BusinessDetailInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	updated, err := ws.UpdateBusinessDetail(c.Request.Context(), id, in)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, updated)
}

func (sc *SettingsController) DeleteBusinessDetail(c *gin.Context) {
	defer recordOperation(c, "delete_business_detail")

	ws, ok := sc.workspace(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := ws.DeleteBusinessDetail(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
