package controllers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"storefront-admin/auth"
	"storefront-admin/backend"
	"storefront-admin/lifecycle"
	"storefront-admin/middlewares"
	"storefront-admin/models"
	"storefront-admin/services"
	"storefront-admin/workspace"
)

// respondError maps domain, backend and transport failures onto HTTP.
func respondError(c *gin.Context, err error) {
	c.JSON(errorResponse(c, err))
}

// respondErrorWith adds extra fields to the mapped error body.
func respondErrorWith(c *gin.Context, err error, extra gin.H) {
	status, body := errorResponse(c, err)
	for k, v := range extra {
		body[k] = v
	}
	c.JSON(status, body)
}

func errorResponse(c *gin.Context, err error) (int, gin.H) {
	var (
		validationErr *services.ValidationError
		apiErr        *backend.APIError
	)

	switch {
	case errors.As(err, &validationErr):
		return http.StatusBadRequest, gin.H{"error": validationErr.Message, "field": validationErr.Field}
	case errors.Is(err, models.ErrInvalidStatus):
		return http.StatusBadRequest, gin.H{"error": "Invalid status", "field": "status"}
	case errors.Is(err, models.ErrNegativePrice):
		return http.StatusBadRequest, gin.H{"error": "Price must not be negative", "field": "price"}
	case errors.Is(err, workspace.ErrEmptyMessage):
		return http.StatusBadRequest, gin.H{"error": "Message must not be empty", "field": "message"}
	case errors.Is(err, auth.ErrInvalidCredentials):
		return http.StatusUnauthorized, gin.H{"error": "Invalid email or password"}
	case errors.Is(err, services.ErrUnknownOrder):
		return http.StatusNotFound, gin.H{"error": "Order not found"}
	case errors.Is(err, workspace.ErrUnknownProduct):
		return http.StatusNotFound, gin.H{"error": "Product not found"}
	case errors.Is(err, workspace.ErrUnknownBusinessDetail):
		return http.StatusNotFound, gin.H{"error": "Business detail not found"}
	case errors.Is(err, services.ErrCheckoutInFlight):
		return http.StatusConflict, gin.H{"error": "This order is already being placed"}
	case errors.Is(err, services.ErrChangeInFlight):
		return http.StatusConflict, gin.H{"error": "A status change for this order is already in progress"}
	case errors.Is(err, lifecycle.ErrTransitionNotAllowed):
		return http.StatusUnprocessableEntity, gin.H{"error": err.Error()}
	case errors.Is(err, auth.ErrNotConfigured):
		return http.StatusServiceUnavailable, gin.H{"error": "Admin login is not configured"}
	case errors.As(err, &apiErr):
		status := apiErr.StatusCode
		if status >= http.StatusInternalServerError || status < http.StatusBadRequest {
			status = http.StatusBadGateway
		}
		return status, gin.H{"error": apiErr.Detail}
	case backend.IsTransport(err):
		log.Warn().Err(err).Str("request_id", middlewares.RequestID(c)).Msg("backend unreachable")
		return http.StatusBadGateway, gin.H{"error": backend.Message(err)}
	default:
		log.Error().Err(err).Str("request_id", middlewares.RequestID(c)).Msg("unhandled error")
		return http.StatusInternalServerError, gin.H{"error": "Internal server error"}
	}
}

// recordOperation is deferred by mutating handlers.
func recordOperation(c *gin.Context, operation string) {
	status := c.Writer.Status()
	middlewares.RecordAdminOperation(operation, status >= 200 && status < 300)
}

func pathID(c *gin.Context, name string) (int, bool) {
	id, err := strconv.Atoi(c.Param(name))
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid " + name})
		return 0, false
	}
	return id, true
}

// loadFailed answers the request when a cache load failed and there is
// nothing stale to show. With stale data the caller renders the snapshot,
// whose error field carries the message.
func loadFailed(c *gin.Context, err error, loaded bool) bool {
	if err == nil || loaded {
		return false
	}
	respondError(c, err)
	return true
}

func wantsRefresh(c *gin.Context) bool {
	refresh, _ := strconv.ParseBool(c.Query("refresh"))
	return refresh
}

// Admin resolves the signed-in admin's workspace for protected handlers.
type Admin struct {
	Sessions *workspace.Registry
}

func (a Admin) workspace(c *gin.Context) (*workspace.Workspace, bool) {
	claims, ok := middlewares.Session(c)
	if !ok {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authentication required", "redirect": "/login"})
		return nil, false
	}
	ws, ok := a.Sessions.Get(claims.SessionID)
	if !ok {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Session has ended", "redirect": "/login"})
		return nil, false
	}
	return ws, true
}
