// Package workspace holds everything one signed-in admin works with: the
// per-session caches, the open order detail and the chat refresh loop.
package workspace

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"storefront-admin/auth"
	"storefront-admin/backend"
	"storefront-admin/models"
	"storefront-admin/scheduler"
	"storefront-admin/services"
	"storefront-admin/store"
	"storefront-admin/views"
)

var (
	ErrUnknownProduct        = errors.New("product not found")
	ErrUnknownBusinessDetail = errors.New("business detail not found")
	ErrEmptyMessage          = errors.New("message must not be empty")
)

type Workspace struct {
	SessionID string
	User      auth.User
	OpenedAt  time.Time
	// ExpiresAt is zero when sessions never expire.
	ExpiresAt time.Time

	Orders *store.OrderStore
	Detail *views.DetailView
	Status *services.OrderStatusService

	Products        *store.Resource[models.Product]
	Categories      *store.Resource[models.Category]
	Customers       *store.Resource[models.Customer]
	BusinessDetails *store.Resource[models.BusinessDetail]
	Chats           *store.Resource[models.ChatConversation]

	Settings    *store.Value[models.BusinessSettings]
	Stats       *store.Value[models.DashboardStats]
	ChatHistory *store.Value[models.ChatHistory]

	client     *backend.Client
	ctx        context.Context
	cancel     context.CancelFunc
	chatPoller *scheduler.Poller

	mu         sync.Mutex
	activeChat string
}

func newWorkspace(id string, user auth.User, deps Deps) *Workspace {
	ctx, cancel := context.WithCancel(context.Background())
	ws := &Workspace{
		SessionID: id,
		User:      user,
		OpenedAt:  time.Now().UTC(),

		Orders: store.NewOrderStore(deps.Backend),
		Detail: &views.DetailView{},

		Products:        store.NewResource[models.Product]("products", nil),
		Categories:      store.NewResource[models.Category]("categories", nil),
		Customers:       store.NewResource[models.Customer]("customers", nil),
		BusinessDetails: store.NewResource[models.BusinessDetail]("business details", nil),
		Chats:           store.NewResource[models.ChatConversation]("chats", cloneConversation),

		Settings:    store.NewValue[models.BusinessSettings]("settings"),
		Stats:       store.NewValue[models.DashboardStats]("dashboard stats"),
		ChatHistory: store.NewValue[models.ChatHistory]("chat history"),

		client: deps.Backend,
		ctx:    ctx,
		cancel: cancel,
	}

	var opts []services.StatusOption
	if deps.Audit != nil {
		opts = append(opts, services.WithAudit(deps.Audit))
	}
	if deps.Events != nil {
		opts = append(opts, services.WithEvents(deps.Events))
	}
	if deps.SessionTTL > 0 {
		ws.ExpiresAt = ws.OpenedAt.Add(deps.SessionTTL)
	}

	ws.Status = services.NewOrderStatusService(deps.Backend, ws.Orders, ws.Detail, deps.Validator, opts...)

	interval := deps.ChatPollInterval
	if interval <= 0 {
		interval = 30 * time.Second
	}
	ws.chatPoller = scheduler.NewPoller("chats:"+id, interval, func(ctx context.Context) error {
		return ws.Chats.Load(ctx, ws.client.ListChats)
	})
	return ws
}

func cloneConversation(c models.ChatConversation) models.ChatConversation {
	c.OngoingOrders = append([]models.ChatOrder(nil), c.OngoingOrders...)
	return c
}

func ensure[T any](ctx context.Context, r *store.Resource[T], force bool, fetch func(context.Context) ([]T, error)) error {
	if r.Loaded() && !force {
		return nil
	}
	return r.Load(ctx, fetch)
}

func (w *Workspace) LoadOrders(ctx context.Context, force bool) error {
	if w.Orders.Loaded() && !force {
		return nil
	}
	return w.Orders.LoadOrders(ctx)
}

func (w *Workspace) LoadProducts(ctx context.Context, force bool) error {
	return ensure(ctx, w.Products, force, w.client.ListAdminProducts)
}

func (w *Workspace) LoadCategories(ctx context.Context, force bool) error {
	return ensure(ctx, w.Categories, force, w.client.ListCategories)
}

func (w *Workspace) LoadCustomers(ctx context.Context, force bool) error {
	return ensure(ctx, w.Customers, force, w.client.ListCustomers)
}

func (w *Workspace) LoadBusinessDetails(ctx context.Context, force bool) error {
	return ensure(ctx, w.BusinessDetails, force, w.client.ListBusinessDetails)
}

func (w *Workspace) LoadChats(ctx context.Context, force bool) error {
	return ensure(ctx, w.Chats, force, w.client.ListChats)
}

func (w *Workspace) LoadSettings(ctx context.Context) error {
	return w.Settings.Load(ctx, w.client.GetSettings)
}

func (w *Workspace) LoadStats(ctx context.Context) error {
	return w.Stats.Load(ctx, w.client.DashboardStats)
}

// OpenOrder selects an order for the detail panel. The order must already be
// in the cache; the cache is loaded first if it never was.
func (w *Workspace) OpenOrder(ctx context.Context, orderID int) (views.OrderDetail, error) {
	if err := w.LoadOrders(ctx, false); err != nil && !w.Orders.Loaded() {
		return views.OrderDetail{}, err
	}
	order, ok := w.Orders.Order(orderID)
	if !ok {
		return views.OrderDetail{}, fmt.Errorf("%w: %d", services.ErrUnknownOrder, orderID)
	}
	w.Detail.Open(order)
	return views.BuildOrderDetail(order, w.Status.Targets(order.Status)), nil
}

func (w *Workspace) CloseOrder() {
	w.Detail.Close()
}

func (w *Workspace) ChangeOrderStatus(ctx context.Context, orderID int, target models.OrderStatus) (views.OrderDetail, error) {
	order, err := w.Status.ChangeStatus(ctx, orderID, target, w.User.Email)
	if order.ID == 0 {
		return views.OrderDetail{}, err
	}
	// A rejected change still reports the last known-good order.
	return views.BuildOrderDetail(order, w.Status.Targets(order.Status)), err
}

func (w *Workspace) CreateProduct(ctx context.Context, in models.ProductInput) (models.Product, error) {
	created, err := w.client.CreateProduct(ctx, in.NewProduct())
	if err != nil {
		return models.Product{}, err
	}
	if w.Products.Loaded() {
		w.Products.Append(created)
	}
	return created, nil
}

func (w *Workspace) UpdateProduct(ctx context.Context, id int, in models.ProductInput) (models.Product, error) {
	if err := w.LoadProducts(ctx, false); err != nil && !w.Products.Loaded() {
		return models.Product{}, err
	}
	match := func(p models.Product) bool { return p.ID == id }
	existing, ok := w.Products.Find(match)
	if !ok {
		return models.Product{}, fmt.Errorf("%w: %d", ErrUnknownProduct, id)
	}
	updated, err := w.client.UpdateProduct(ctx, id, in.Apply(existing))
	if err != nil {
		return models.Product{}, err
	}
	w.Products.Replace(match, updated)
	return updated, nil
}

func (w *Workspace) DeleteProduct(ctx context.Context, id int) error {
	if err := w.client.DeleteProduct(ctx, id); err != nil {
		return err
	}
	w.Products.Remove(func(p models.Product) bool { return p.ID == id })
	return nil
}

func (w *Workspace) UploadImage(ctx context.Context, filename string, file io.Reader) (models.UploadResult, error) {
	res, err := w.client.UploadImage(ctx, filename, file)
	if err != nil {
		return models.UploadResult{}, err
	}
	res.ImageURL = views.NormalizeImageURL(res.ImageURL)
	return res, nil
}

func (w *Workspace) UpdateSettings(ctx context.Context, update models.BusinessSettingsUpdate) (models.BusinessSettings, error) {
	saved, err := w.client.UpdateSettings(ctx, update)
	if err != nil {
		return models.BusinessSettings{}, err
	}
	w.Settings.Set(saved)
	return saved, nil
}

func (w *Workspace) CreateBusinessDetail(ctx context.Context, in models.BusinessDetailInput) (models.BusinessDetail, error) {
	created, err := w.client.CreateBusinessDetail(ctx, in)
	if err != nil {
		return models.BusinessDetail{}, err
	}
	if w.BusinessDetails.Loaded() {
		w.BusinessDetails.Append(created)
	}
	return created, nil
}

func (w *Workspace) UpdateBusinessDetail(ctx context.Context, id int, in models.BusinessDetailInput) (models.BusinessDetail, error) {
	if err := w.LoadBusinessDetails(ctx, false); err != nil && !w.BusinessDetails.Loaded() {
		return models.BusinessDetail{}, err
	}
	match := func(d models.BusinessDetail) bool { return d.ID == id }
	if _, ok := w.BusinessDetails.Find(match); !ok {
		return models.BusinessDetail{}, fmt.Errorf("%w: %d", ErrUnknownBusinessDetail, id)
	}
	updated, err := w.client.UpdateBusinessDetail(ctx, id, in)
	if err != nil {
		return models.BusinessDetail{}, err
	}
	w.BusinessDetails.Replace(match, updated)
	return updated, nil
}

func (w *Workspace) DeleteBusinessDetail(ctx context.Context, id int) error {
	if err := w.client.DeleteBusinessDetail(ctx, id); err != nil {
		return err
	}
	w.BusinessDetails.Remove(func(d models.BusinessDetail) bool { return d.ID == id })
	return nil
}

// OpenChat loads a conversation and makes it the active one.
func (w *Workspace) OpenChat(ctx context.Context, phone string) (models.ChatHistory, error) {
	w.mu.Lock()
	w.activeChat = phone
	w.mu.Unlock()

	err := w.ChatHistory.Load(ctx, func(ctx context.Context) (models.ChatHistory, error) {
		return w.client.ChatHistory(ctx, phone)
	})
	if err != nil {
		return models.ChatHistory{}, err
	}
	history, _ := w.ChatHistory.Get()
	return history, nil
}

// SendChat relays an admin reply. On success the message is echoed into the
// active history under a provisional id until the next refresh replaces it.
func (w *Workspace) SendChat(ctx context.Context, phone, message string) (models.ChatMessage, error) {
	message = strings.TrimSpace(message)
	if message == "" {
		return models.ChatMessage{}, ErrEmptyMessage
	}
	if err := w.client.SendChatMessage(ctx, phone, message); err != nil {
		return models.ChatMessage{}, err
	}

	sent := models.ChatMessage{
		ID:        "pending-" + uuid.NewString(),
		Role:      "assistant",
		Content:   message,
		Timestamp: models.NewTimestamp(time.Now().UTC()),
	}
	w.ChatHistory.Modify(func(h *models.ChatHistory) {
		if h.PhoneNumber == phone {
			h.Messages = append(h.Messages, sent)
		}
	})

	if err := w.Chats.Load(ctx, w.client.ListChats); err != nil {
		log.Warn().Err(err).Str("session", w.SessionID).Msg("chat list refresh after send failed")
	}
	return sent, nil
}

func (w *Workspace) ActiveChat() string {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.activeChat
}

// WatchChats starts the periodic conversation refresh for as long as the
// chat view is open.
func (w *Workspace) WatchChats() {
	w.chatPoller.Start(w.ctx)
}

func (w *Workspace) UnwatchChats() {
	w.chatPoller.Stop()
	w.mu.Lock()
	w.activeChat = ""
	w.mu.Unlock()
	w.ChatHistory.Reset()
}

func (w *Workspace) WatchingChats() bool {
	return w.chatPoller.Running()
}

func (w *Workspace) Expired(now time.Time) bool {
	return !w.ExpiresAt.IsZero() && !now.Before(w.ExpiresAt)
}

// close stops background work and drops every cache.
func (w *Workspace) close() {
	w.chatPoller.Stop()
	w.cancel()

	w.Detail.Close()
	w.Orders.Reset()
	w.Products.Reset()
	w.Categories.Reset()
	w.Customers.Reset()
	w.BusinessDetails.Reset()
	w.Chats.Reset()
	w.Settings.Reset()
	w.Stats.Reset()
	w.ChatHistory.Reset()
}
