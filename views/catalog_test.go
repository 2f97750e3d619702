package views

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storefront-admin/models"
)

func TestFilterProducts(t *testing.T) {
	categories := []models.Category{{ID: 1, Name: "Kitchen"}, {ID: 2, Name: "Lighting"}}
	products := []models.Product{
		{ID: 1, Name: "Mug", Description: "Stoneware", CategoryID: 1},
		{ID: 2, Name: "Desk Lamp", Description: "Warm light", CategoryID: 2},
		{ID: 3, Name: "Teapot", Description: "Stoneware pot", CategoryID: 1},
	}

	assert.Len(t, FilterProducts(products, categories, "", AllCategories), 3)

	stone := FilterProducts(products, categories, "STONEWARE", "")
	require.Len(t, stone, 2)
	assert.Equal(t, "Kitchen", stone[0].Category)

	lighting := FilterProducts(products, categories, "", "Lighting")
	require.Len(t, lighting, 1)
	assert.Equal(t, 2, lighting[0].ID)
}

func TestSummarizeInventory(t *testing.T) {
	products := []models.Product{
		{Price: decimal.RequireFromString("2.50"), StockQuantity: 4, IsActive: true},
		{Price: decimal.NewFromInt(10), StockQuantity: 11},
		{Price: decimal.NewFromInt(1), StockQuantity: 10, IsActive: true},
	}
	s := SummarizeInventory(products, 10)
	assert.Equal(t, 2, s.LowStock)
	assert.Equal(t, 2, s.Active)
	assert.Equal(t, "130", s.InventoryValue.String())
}

func TestNormalizeImageURL(t *testing.T) {
	assert.Equal(t, "https://lh3.googleusercontent.com/d/abc123",
		NormalizeImageURL("https://drive.google.com/file/d/abc123/view?usp=sharing"))
	assert.Equal(t, "https://lh3.googleusercontent.com/d/xyz",
		NormalizeImageURL("https://drive.google.com/open?id=xyz&authuser=0"))
	assert.Equal(t, "https://cdn.example.com/a.png", NormalizeImageURL("https://cdn.example.com/a.png"))
	assert.Equal(t, "https://cdn.example.com/img?id=5", NormalizeImageURL("https://cdn.example.com/img?id=5"))
	assert.Equal(t, "", NormalizeImageURL(""))
}

func TestCustomersAndChats(t *testing.T) {
	customers := []models.Customer{
		{Name: "Maria Lopez", Email: "maria@x.com", Phone: "5550001", TotalOrders: 2, TotalSpent: decimal.NewFromInt(2500)},
		{Name: "Omar", Email: "omar@y.com", Phone: "5550002", TotalOrders: 1, TotalSpent: decimal.NewFromInt(100)},
	}
	rows := FilterCustomers(customers, "0001")
	require.Len(t, rows, 1)
	assert.Equal(t, "Gold", rows[0].Tier)
	assert.Equal(t, "ML", rows[0].Initials)

	s := SummarizeCustomers(customers)
	assert.Equal(t, 3, s.TotalOrders)
	assert.Equal(t, "1300", s.AverageSpend.String())

	chats := []models.ChatConversation{
		{PhoneNumber: "+15550001", CustomerName: "Maria", LastMessage: "Where is my ORDER?"},
		{PhoneNumber: "+15550002", CustomerName: "Omar", LastMessage: "thanks"},
	}
	assert.Len(t, FilterConversations(chats, "order"), 1)
	assert.Len(t, FilterConversations(chats, "+1555"), 2)
	assert.Len(t, FilterConversations(chats, ""), 2)
}
