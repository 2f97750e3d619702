package workspace

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storefront-admin/auth"
	"storefront-admin/backend"
	"storefront-admin/models"
	"storefront-admin/services"
)

type fakeBackend struct {
	server      *httptest.Server
	orderLoads  atomic.Int32
	statusCalls atomic.Int32
	chatLoads   atomic.Int32
	sent        atomic.Value
}

func newFakeBackend(t *testing.T) *fakeBackend {
	t.Helper()
	f := &fakeBackend{}
	mux := http.NewServeMux()
	mux.HandleFunc("GET /admin/orders", func(w http.ResponseWriter, r *http.Request) {
		f.orderLoads.Add(1)
		_ = json.NewEncoder(w).Encode([]models.Order{
			{ID: 1001, CustomerName: "Ana", Status: models.StatusPending, Total: decimal.NewFromInt(20),
				Items: []models.OrderItem{{ProductID: 1, ProductName: "Mug", Quantity: 2, Price: decimal.NewFromInt(10)}}},
			{ID: 1002, CustomerName: "Ben", Status: models.StatusPaid, Total: decimal.NewFromInt(15)},
		})
	})
	mux.HandleFunc("PUT /admin/orders/{id}/status", func(w http.ResponseWriter, r *http.Request) {
		f.statusCalls.Add(1)
		if r.PathValue("id") == "1002" {
			w.WriteHeader(http.StatusBadRequest)
			_, _ = w.Write([]byte(`{"detail":"Cannot ship an unverified order"}`))
			return
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{}`))
	})
	mux.HandleFunc("GET /admin/products", func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode([]models.Product{
			{ID: 1, Name: "Mug", Price: decimal.NewFromInt(10), StockQuantity: 4, CategoryID: 2, IsActive: true},
		})
	})
	mux.HandleFunc("PUT /products/{id}", func(w http.ResponseWriter, r *http.Request) {
		var p models.Product
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&p))
		_ = json.NewEncoder(w).Encode(p)
	})
	mux.HandleFunc("GET /admin/chats", func(w http.ResponseWriter, r *http.Request) {
		f.chatLoads.Add(1)
		_ = json.NewEncoder(w).Encode([]models.ChatConversation{{PhoneNumber: "5551234567", CustomerName: "Ana"}})
	})
	mux.HandleFunc("GET /admin/chats/{phone}", func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(models.ChatHistory{
			PhoneNumber: r.PathValue("phone"),
			Messages:    []models.ChatMessage{{ID: "m1", Role: "user", Content: "hi"}},
		})
	})
	mux.HandleFunc("POST /admin/chats/{phone}/send", func(w http.ResponseWriter, r *http.Request) {
		var req models.SendMessageRequest
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		f.sent.Store(req.Message)
		_, _ = w.Write([]byte(`{"ok":true}`))
	})
	f.server = httptest.NewServer(mux)
	t.Cleanup(f.server.Close)
	return f
}

func newTestRegistry(f *fakeBackend) *Registry {
	return NewRegistry(Deps{
		Backend:          backend.NewClient(f.server.URL, "", 5*time.Second),
		ChatPollInterval: 20 * time.Millisecond,
	})
}

var admin = auth.User{Email: "admin@store.com", Name: "Admin User"}

func TestRegistryLifecycle(t *testing.T) {
	reg := newTestRegistry(newFakeBackend(t))

	ws := reg.Open(admin)
	require.NotEmpty(t, ws.SessionID)
	assert.True(t, reg.Active(ws.SessionID))
	assert.Equal(t, 1, reg.Len())

	got, ok := reg.Get(ws.SessionID)
	require.True(t, ok)
	assert.Same(t, ws, got)

	assert.True(t, reg.Close(ws.SessionID))
	assert.False(t, reg.Active(ws.SessionID))
	assert.False(t, reg.Close(ws.SessionID))
}

func TestWorkspacesAreIsolated(t *testing.T) {
	reg := newTestRegistry(newFakeBackend(t))
	a, b := reg.Open(admin), reg.Open(admin)

	require.NoError(t, a.LoadOrders(context.Background(), false))
	assert.True(t, a.Orders.Loaded())
	assert.False(t, b.Orders.Loaded())
	assert.NotEqual(t, a.SessionID, b.SessionID)
}

func TestOpenOrderAndChangeStatus(t *testing.T) {
	f := newFakeBackend(t)
	ws := newTestRegistry(f).Open(admin)
	ctx := context.Background()

	detail, err := ws.OpenOrder(ctx, 1001)
	require.NoError(t, err)
	assert.Equal(t, models.StatusPending, detail.Status)
	assert.Equal(t, int32(1), f.orderLoads.Load())

	detail, err = ws.ChangeOrderStatus(ctx, 1001, models.StatusPaid)
	require.NoError(t, err)
	assert.Equal(t, models.StatusPaid, detail.Status)

	cached, _ := ws.Orders.Order(1001)
	assert.Equal(t, models.StatusPaid, cached.Status)
	open, _ := ws.Detail.Current()
	assert.Equal(t, models.StatusPaid, open.Status)

	ws.CloseOrder()
	_, open2 := ws.Detail.Current()
	assert.False(t, open2)
	_, still := ws.Orders.Order(1001)
	assert.True(t, still)
}

func TestChangeStatusRejectedLeavesState(t *testing.T) {
	f := newFakeBackend(t)
	ws := newTestRegistry(f).Open(admin)
	ctx := context.Background()

	_, err := ws.OpenOrder(ctx, 1002)
	require.NoError(t, err)

	detail, err := ws.ChangeOrderStatus(ctx, 1002, models.StatusShipped)
	assert.Equal(t, 1002, detail.ID)
	assert.Equal(t, models.StatusPaid, detail.Status)
	var apiErr *backend.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "Cannot ship an unverified order", apiErr.Detail)
	assert.Equal(t, int32(1), f.statusCalls.Load())

	cached, _ := ws.Orders.Order(1002)
	assert.Equal(t, models.StatusPaid, cached.Status)
	open, _ := ws.Detail.Current()
	assert.Equal(t, models.StatusPaid, open.Status)
}

func TestOpenUnknownOrder(t *testing.T) {
	ws := newTestRegistry(newFakeBackend(t)).Open(admin)
	_, err := ws.OpenOrder(context.Background(), 4242)
	assert.ErrorIs(t, err, services.ErrUnknownOrder)
}

func TestApplyStatusFansOut(t *testing.T) {
	reg := newTestRegistry(newFakeBackend(t))
	ctx := context.Background()
	a, b, idle := reg.Open(admin), reg.Open(admin), reg.Open(admin)
	_, err := a.OpenOrder(ctx, 1001)
	require.NoError(t, err)
	require.NoError(t, b.LoadOrders(ctx, false))

	assert.Equal(t, 2, reg.ApplyStatus(1001, models.StatusCancelled))

	open, _ := a.Detail.Current()
	assert.Equal(t, models.StatusCancelled, open.Status)
	cached, _ := b.Orders.Order(1001)
	assert.Equal(t, models.StatusCancelled, cached.Status)
	assert.False(t, idle.Orders.Loaded())

	assert.Equal(t, 2, reg.RefreshOrders(ctx))
}

func TestUpdateProduct(t *testing.T) {
	ws := newTestRegistry(newFakeBackend(t)).Open(admin)
	ctx := context.Background()

	in := models.ProductInput{Name: "Big Mug", Price: decimal.NewFromInt(12), StockQuantity: 3, CategoryID: 2}
	updated, err := ws.UpdateProduct(ctx, 1, in)
	require.NoError(t, err)
	assert.Equal(t, "Big Mug", updated.Name)
	assert.True(t, updated.IsActive)

	cached, ok := ws.Products.Find(func(p models.Product) bool { return p.ID == 1 })
	require.True(t, ok)
	assert.Equal(t, "Big Mug", cached.Name)

	_, err = ws.UpdateProduct(ctx, 99, in)
	assert.ErrorIs(t, err, ErrUnknownProduct)
}

func TestSendChatEchoesIntoHistory(t *testing.T) {
	f := newFakeBackend(t)
	ws := newTestRegistry(f).Open(admin)
	ctx := context.Background()

	_, err := ws.OpenChat(ctx, "5551234567")
	require.NoError(t, err)
	assert.Equal(t, "5551234567", ws.ActiveChat())

	_, err = ws.SendChat(ctx, "5551234567", "   ")
	assert.ErrorIs(t, err, ErrEmptyMessage)

	sent, err := ws.SendChat(ctx, "5551234567", " On its way ")
	require.NoError(t, err)
	assert.Equal(t, "On its way", f.sent.Load())
	assert.Equal(t, "assistant", sent.Role)

	history, _ := ws.ChatHistory.Get()
	require.Len(t, history.Messages, 2)
	assert.Equal(t, "On its way", history.Messages[1].Content)
}

func TestChatWatchStopsOnClose(t *testing.T) {
	f := newFakeBackend(t)
	reg := newTestRegistry(f)
	ws := reg.Open(admin)

	ws.WatchChats()
	assert.True(t, ws.WatchingChats())
	assert.Eventually(t, func() bool { return f.chatLoads.Load() >= 2 }, time.Second, 5*time.Millisecond)

	reg.Close(ws.SessionID)
	assert.False(t, ws.WatchingChats())
	assert.False(t, ws.Chats.Loaded())

	loads := f.chatLoads.Load()
	time.Sleep(60 * time.Millisecond)
	assert.Equal(t, loads, f.chatLoads.Load())
}

func TestExpiredSessionsAreSwept(t *testing.T) {
	f := newFakeBackend(t)
	reg := NewRegistry(Deps{
		Backend:          backend.NewClient(f.server.URL, "", 5*time.Second),
		ChatPollInterval: 20 * time.Millisecond,
		SessionTTL:       time.Hour,
	})

	stale := reg.Open(admin)
	fresh := reg.Open(admin)
	require.Equal(t, stale.OpenedAt.Add(time.Hour), stale.ExpiresAt)

	stale.WatchChats()
	assert.Eventually(t, func() bool { return f.chatLoads.Load() >= 1 }, time.Second, 5*time.Millisecond)
	stale.ExpiresAt = time.Now().Add(-time.Second)

	assert.False(t, reg.Active(stale.SessionID))
	assert.True(t, reg.Active(fresh.SessionID))

	assert.Equal(t, 1, reg.CloseExpired(time.Now()))
	assert.False(t, stale.WatchingChats())
	assert.False(t, stale.Chats.Loaded())
	_, ok := reg.Get(stale.SessionID)
	assert.False(t, ok)
	assert.Equal(t, 1, reg.Len())

	assert.Equal(t, 0, reg.CloseExpired(time.Now()))
}

func TestSessionsWithoutTTLNeverExpire(t *testing.T) {
	reg := newTestRegistry(newFakeBackend(t))
	ws := reg.Open(admin)

	assert.True(t, ws.ExpiresAt.IsZero())
	assert.Equal(t, 0, reg.CloseExpired(time.Now().Add(365*24*time.Hour)))
	assert.True(t, reg.Active(ws.SessionID))
}

func TestLoadOrdersAcceptsZonelessTimestamps(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /admin/orders", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`[
			{"id":1,"status":"pending","total":5,"createdAt":"2024-05-01T10:00:00.123456"},
			{"id":2,"status":"paid","total":7,"createdAt":"2024-05-02 08:30:00"}
		]`))
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	ws := NewRegistry(Deps{Backend: backend.NewClient(srv.URL, "", 5*time.Second)}).Open(admin)
	require.NoError(t, ws.LoadOrders(context.Background(), false))

	second, ok := ws.Orders.Order(2)
	require.True(t, ok)
	assert.True(t, time.Date(2024, 5, 2, 8, 30, 0, 0, time.UTC).Equal(second.CreatedAt.Time))
}
