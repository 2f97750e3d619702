package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"storefront-admin/models"
	"storefront-admin/views"
)

type ChatController struct {
	Admin
}

func (cc *ChatController) ListChats(c *gin.Context) {
	ws, ok := cc.workspace(c)
	if !ok {
		return
	}
	err := ws.LoadChats(c.Request.Context(), wantsRefresh(c))
	if loadFailed(c, err, ws.Chats.Loaded()) {
		return
	}
	snap := ws.Chats.Snapshot()
	c.JSON(http.StatusOK, gin.H{
		"status":        snap.Status,
		"error":         snap.Error,
		"conversations": views.FilterConversations(snap.Items, c.Query("q")),
		"watching":      ws.WatchingChats(),
	})
}

func (cc *ChatController) GetChatHistory(c *gin.Context) {
	ws, ok := cc.workspace(c)
	if !ok {
		return
	}
	history, err := ws.OpenChat(c.Request.Context(), c.Param("phone"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, history)
}

func (cc *ChatController) SendMessage(c *gin.Context) {
	defer recordOperation(c, "send_chat_message")

	ws, ok := cc.workspace(c)
	if !ok {
		return
	}
	var req models.SendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Message must not be empty", "field": "message"})
		return
	}

	sent, err := ws.SendChat(c.Request.Context(), c.Param("phone"), req.Message)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, sent)
}

// WatchChats starts the periodic conversation refresh for the open chat view.
func (cc *ChatController) WatchChats(c *gin.Context) {
	ws, ok := cc.workspace(c)
	if !ok {
		return
	}
	ws.WatchChats()
	c.JSON(http.StatusAccepted, gin.H{"watching": true})
}

func (cc *ChatController) UnwatchChats(c *gin.Context) {
	ws, ok := cc.workspace(c)
	if !ok {
		return
	}
	ws.UnwatchChats()
	c.JSON(http.StatusOK, gin.H{"watching": false})
}
