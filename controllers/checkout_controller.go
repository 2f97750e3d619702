package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"storefront-admin/services"
)

// CheckoutController serves the public quick checkout. No session needed.
type CheckoutController struct {
	Checkout *services.CheckoutService
}

// ListProducts returns the purchasable catalog plus a form prefilled from
// the link's query parameters.
func (cc *CheckoutController) ListProducts(c *gin.Context) {
	products, err := cc.Checkout.Products(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	form := services.FormFromQuery(c.Request.URL.Query(), products)
	resp := gin.H{"products": products, "form": form}
	for _, p := range products {
		if p.ID == form.ProductID {
			resp["quote"] = services.Quote(p, form.Quantity)
			break
		}
	}
	c.JSON(http.StatusOK, resp)
}

func (cc *CheckoutController) PlaceOrder(c *gin.Context) {
	defer recordOperation(c, "checkout_place_order")

	var form services.CheckoutForm
	if err := c.ShouldBindJSON(&form); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	confirmation, err := cc.Checkout.PlaceOrder(c.Request.Context(), form)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, confirmation)
}

func (cc *CheckoutController) UploadReceipt(c *gin.Context) {
	defer recordOperation(c, "checkout_upload_receipt")

	orderID, ok := pathID(c, "id")
	if !ok {
		return
	}
	header, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Please attach a receipt", "field": "file"})
		return
	}
	file, err := header.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Could not read uploaded file", "field": "file"})
		return
	}
	defer file.Close()

	result, err := cc.Checkout.UploadReceipt(c.Request.Context(), orderID, header.Filename, file)
	if err != nil {
		respondError(c, err)
		return
	}
	c.Data(http.StatusOK, "application/json; charset=utf-8", result)
}
