package workspace

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"storefront-admin/auth"
	"storefront-admin/backend"
	"storefront-admin/lifecycle"
	"storefront-admin/models"
	"storefront-admin/services"
)

// Deps are shared by every workspace.
type Deps struct {
	Backend          *backend.Client
	Validator        *lifecycle.Validator
	Audit            services.AuditRecorder
	Events           services.EventPublisher
	ChatPollInterval time.Duration
	// SessionTTL bounds how long a workspace stays open; zero disables expiry.
	SessionTTL time.Duration
}

// Registry maps session ids to open workspaces.
type Registry struct {
	deps Deps

	mu       sync.RWMutex
	sessions map[string]*Workspace
}

func NewRegistry(deps Deps) *Registry {
	return &Registry{deps: deps, sessions: make(map[string]*Workspace)}
}

// Open starts a fresh workspace for a signed-in admin.
func (r *Registry) Open(user auth.User) *Workspace {
	ws := newWorkspace(uuid.NewString(), user, r.deps)

	r.mu.Lock()
	r.sessions[ws.SessionID] = ws
	r.mu.Unlock()

	log.Info().Str("session", ws.SessionID).Str("email", user.Email).Msg("admin session opened")
	return ws
}

func (r *Registry) Get(sessionID string) (*Workspace, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	ws, ok := r.sessions[sessionID]
	return ws, ok
}

// Active satisfies middlewares.SessionChecker. An expired session is no
// longer active even before the sweep closes it.
func (r *Registry) Active(sessionID string) bool {
	ws, ok := r.Get(sessionID)
	return ok && !ws.Expired(time.Now())
}

// Close tears the workspace down. It reports false for unknown sessions.
func (r *Registry) Close(sessionID string) bool {
	r.mu.Lock()
	ws, ok := r.sessions[sessionID]
	delete(r.sessions, sessionID)
	r.mu.Unlock()

	if !ok {
		return false
	}
	ws.close()
	log.Info().Str("session", sessionID).Msg("admin session closed")
	return true
}

func (r *Registry) Each(fn func(*Workspace)) {
	r.mu.RLock()
	open := make([]*Workspace, 0, len(r.sessions))
	for _, ws := range r.sessions {
		open = append(open, ws)
	}
	r.mu.RUnlock()

	for _, ws := range open {
		fn(ws)
	}
}

func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}

func (r *Registry) CloseAll() {
	r.mu.Lock()
	open := r.sessions
	r.sessions = make(map[string]*Workspace)
	r.mu.Unlock()

	for _, ws := range open {
		ws.close()
	}
}

// CloseExpired closes every workspace whose session has run past its TTL and
// returns how many were closed.
func (r *Registry) CloseExpired(now time.Time) int {
	r.mu.Lock()
	var expired []*Workspace
	for id, ws := range r.sessions {
		if ws.Expired(now) {
			expired = append(expired, ws)
			delete(r.sessions, id)
		}
	}
	r.mu.Unlock()

	for _, ws := range expired {
		ws.close()
		log.Info().Str("session", ws.SessionID).Time("expired_at", ws.ExpiresAt).Msg("admin session expired")
	}
	return len(expired)
}

// ApplyStatus pushes a backend-confirmed status into every open workspace.
// It returns how many caches held the order.
func (r *Registry) ApplyStatus(orderID int, status models.OrderStatus) int {
	applied := 0
	r.Each(func(ws *Workspace) {
		if ws.Orders.ApplyStatusChange(orderID, status) {
			applied++
		}
		ws.Detail.SyncStatus(orderID, status)
	})
	return applied
}

// RefreshOrders reloads the order cache of every workspace that has one.
func (r *Registry) RefreshOrders(ctx context.Context) int {
	refreshed := 0
	r.Each(func(ws *Workspace) {
		if !ws.Orders.Loaded() {
			return
		}
		if err := ws.Orders.LoadOrders(ctx); err != nil {
			log.Warn().Err(err).Str("session", ws.SessionID).Msg("order refresh from event failed")
			return
		}
		refreshed++
	})
	return refreshed
}
