package models

import "github.com/shopspring/decimal"

type ChatMessage struct {
	ID        string    `json:"id"`
	Role      string    `json:"role"` // user, assistant
	Content   string    `json:"content"`
	Timestamp Timestamp `json:"timestamp"`
}

type ChatOrder struct {
	ID            string          `json:"id"`
	Status        string          `json:"status"`
	TotalAmount   decimal.Decimal `json:"totalAmount"`
	CreatedAt     Timestamp       `json:"createdAt"`
	ItemCount     int             `json:"itemCount,omitempty"`
	PaymentMethod string          `json:"paymentMethod,omitempty"`
}

type ChatConversation struct {
	PhoneNumber     string      `json:"phoneNumber"`
	CustomerName    string      `json:"customerName"`
	CustomerEmail   string      `json:"customerEmail"`
	LastMessage     string      `json:"lastMessage"`
	LastMessageTime Timestamp   `json:"lastMessageTime"`
	LastMessageRole string      `json:"lastMessageRole"`
	MessageCount    int         `json:"messageCount"`
	OngoingOrders   []ChatOrder `json:"ongoingOrders"`
	HasUnread       bool        `json:"hasUnread"`
}

type ChatHistory struct {
	PhoneNumber     string        `json:"phoneNumber"`
	CustomerName    string        `json:"customerName"`
	CustomerEmail   string        `json:"customerEmail"`
	CustomerAddress string        `json:"customerAddress"`
	JoinedDate      Timestamp     `json:"joinedDate"`
	Messages        []ChatMessage `json:"messages"`
	Orders          []ChatOrder   `json:"orders"`
}

type SendMessageRequest struct {
	Message string `json:"message" binding:"required"`
}
