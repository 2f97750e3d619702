package views

import (
	"strings"

	"storefront-admin/models"
)

func FilterConversations(conversations []models.ChatConversation, query string) []models.ChatConversation {
	q := strings.ToLower(strings.TrimSpace(query))
	out := make([]models.ChatConversation, 0, len(conversations))
	for _, c := range conversations {
		if q == "" ||
			strings.Contains(strings.ToLower(c.CustomerName), q) ||
			strings.Contains(c.PhoneNumber, q) ||
			strings.Contains(strings.ToLower(c.LastMessage), q) {
			out = append(out, c)
		}
	}
	return out
}
