package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"storefront-admin/auth"
	"storefront-admin/middlewares"
	"storefront-admin/utils"
)

type AuthController struct {
	Admin
	Verifier   auth.Verifier
	Secret     string
	SessionTTL time.Duration
}

type loginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// Login opens a workspace for the admin and hands back its session token,
// both in the body and as the session cookie.
func (ac *AuthController) Login(c *gin.Context) {
	defer recordOperation(c, "login")

	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Email and password are required"})
		return
	}
	if ac.Verifier == nil {
		respondError(c, auth.ErrNotConfigured)
		return
	}

	user, err := ac.Verifier.Verify(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		log.Warn().Str("email", req.Email).Str("request_id", middlewares.RequestID(c)).Msg("admin login failed")
		respondError(c, err)
		return
	}

	ws := ac.Sessions.Open(user)
	token, err := utils.GenerateToken(ac.Secret, ws.SessionID, user.Email, user.Name, ac.SessionTTL)
	if err != nil {
		ac.Sessions.Close(ws.SessionID)
		respondError(c, err)
		return
	}

	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(middlewares.SessionCookie, token, int(ac.SessionTTL.Seconds()), "/", "", false, true)
	c.JSON(http.StatusOK, gin.H{
		"token":     token,
		"user":      user,
		"expiresAt": time.Now().Add(ac.SessionTTL).UTC(),
	})
}

// Logout tears the workspace down; its caches and pollers go with it.
func (ac *AuthController) Logout(c *gin.Context) {
	claims, ok := middlewares.Session(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required", "redirect": "/login"})
		return
	}
	ac.Sessions.Close(claims.SessionID)
	c.SetCookie(middlewares.SessionCookie, "", -1, "/", "", false, true)
	c.JSON(http.StatusOK, gin.H{"message": "Logged out", "redirect": "/login"})
}

func (ac *AuthController) Me(c *gin.Context) {
	ws, ok := ac.workspace(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"user":      ws.User,
		"sessionId": ws.SessionID,
		"openedAt":  ws.OpenedAt,
	})
}
