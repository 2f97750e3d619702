package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"storefront-admin/models"
	"storefront-admin/views"
)

type ProductController struct {
	Admin
	LowStockThreshold int
}

func (pc *ProductController) ListProducts(c *gin.Context) {
	ws, ok := pc.workspace(c)
	if !ok {
		return
	}
	ctx := c.Request.Context()
	refresh := wantsRefresh(c)

	err := ws.LoadProducts(ctx, refresh)
	if loadFailed(c, err, ws.Products.Loaded()) {
		return
	}
	if err := ws.LoadCategories(ctx, refresh); err != nil {
		log.Warn().Err(err).Str("session", ws.SessionID).Msg("categories unavailable for product filter")
	}

	snap := ws.Products.Snapshot()
	categories := ws.Categories.Items()
	c.JSON(http.StatusOK, gin.H{
		"status":     snap.Status,
		"error":      snap.Error,
		"products":   views.FilterProducts(snap.Items, categories, c.Query("q"), c.Query("category")),
		"categories": categories,
		"summary":    views.SummarizeInventory(snap.Items, pc.LowStockThreshold),
	})
}

func bindProduct(c *gin.Context) (models.ProductInput, bool) {
	var in models.ProductInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return in, false
	}
	if err := in.Validate(); err != nil {
		respondError(c, err)
		return in, false
	}
	in.ImageURL = views.NormalizeImageURL(in.ImageURL)
	return in, true
}

func (pc *ProductController) CreateProduct(c *gin.Context) {
	defer recordOperation(c, "create_product")

	ws, ok := pc.workspace(c)
	if !ok {
		return
	}
	in, ok := bindProduct(c)
	if !ok {
		return
	}

	created, err := ws.CreateProduct(c.Request.Context(), in)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, created)
}

func (pc *ProductController) UpdateProduct(c *gin.Context) {
	defer recordOperation(c, "update_product")

	ws, ok := pc.workspace(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	in, ok := bindProduct(c)
	if !ok {
		return
	}

	updated, err := ws.UpdateProduct(c.Request.Context(), id, in)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, updated)
}

func (pc *ProductController) DeleteProduct(c *gin.Context) {
	defer recordOperation(c, "delete_product")

	ws, ok := pc.workspace(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	if err := ws.DeleteProduct(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// UploadImage forwards a multipart "file" field to the backend.
func (pc *ProductController) UploadImage(c *gin.Context) {
	defer recordOperation(c, "upload_image")

	ws, ok := pc.workspace(c)
	if !ok {
		return
	}
	header, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Please choose an image to upload", "field": "file"})
		return
	}
	file, err := header.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Could not read uploaded file", "field": "file"})
		return
	}
	defer file.Close()

	result, err := ws.UploadImage(c.Request.Context(), header.Filename, file)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (pc *ProductController) ListCategories(c *gin.Context) {
	ws, ok := pc.workspace(c)
	if !ok {
		return
	}

	err := ws.LoadCategories(c.Request.Context(), wantsRefresh(c))
	if loadFailed(c, err, ws.Categories.Loaded()) {
		return
	}
	snap := ws.Categories.Snapshot()
	c.JSON(http.StatusOK, gin.H{"status": snap.Status, "error": snap.Error, "categories": snap.Items})
}
