package workflow

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"labconsole/internal/core/domain/model/kernel"
	"labconsole/internal/core/ports"
	"labconsole/internal/pkg/errs"

	"github.com/rs/zerolog"
)

// Dependencies are the collaborators shared by every workspace.
type Dependencies struct {
	Orders  ports.LabOrderRepository
	Results ports.TestResultRepository
	History ports.HistoryProvider
	Store   ports.HistoryStore
	Gateway ports.ReportingGateway
}

func (d Dependencies) validate() error {
	var missing []error
	if d.Orders == nil {
		missing = append(missing, errs.NewValueIsRequiredError("orders"))
	}
	if d.Results == nil {
		missing = append(missing, errs.NewValueIsRequiredError("results"))
	}
	if d.History == nil {
		missing = append(missing, errs.NewValueIsRequiredError("history"))
	}
	if d.Store == nil {
		missing = append(missing, errs.NewValueIsRequiredError("store"))
	}
	if d.Gateway == nil {
		missing = append(missing, errs.NewValueIsRequiredError("gateway"))
	}
	return errors.Join(missing...)
}

// RegistryOption customizes a Registry.
type RegistryOption func(*Registry)

// WithClock replaces time.Now, mainly for tests.
func WithClock(now func() time.Time) RegistryOption {
	return func(r *Registry) {
		r.now = now
	}
}

// WithFeedCapacity sets how many notifications each workspace keeps.
func WithFeedCapacity(capacity int) RegistryOption {
	return func(r *Registry) {
		r.feedCapacity = capacity
	}
}

// Registry tracks the open workspaces.
type Registry struct {
	mu         sync.RWMutex
	workspaces map[kernel.UUID]*Workspace

	deps         Dependencies
	logger       zerolog.Logger
	now          func() time.Time
	feedCapacity int
}

func NewRegistry(deps Dependencies, logger zerolog.Logger, opts ...RegistryOption) (*Registry, error) {
	if err := deps.validate(); err != nil {
		return nil, err
	}

	r := &Registry{
		workspaces:   make(map[kernel.UUID]*Workspace),
		deps:         deps,
		logger:       logger.With().Str("component", "workspace-registry").Logger(),
		now:          time.Now,
		feedCapacity: DefaultFeedCapacity,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r, nil
}

// Open loads an order and registers a new workspace for it under id.
// When the order cannot be loaded no workspace is registered and the load
// error is returned.
func (r *Registry) Open(ctx context.Context, id kernel.UUID, labOrderID int64) (*Workspace, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}

	r.mu.RLock()
	_, exists := r.workspaces[id]
	r.mu.RUnlock()
	if exists {
		return nil, errs.NewValueIsInvalidErrorWithCause("workspaceId", fmt.Errorf("workspace %s is already open", id))
	}

	order, err := r.deps.Orders.Get(ctx, labOrderID)
	if err != nil {
		return nil, fmt.Errorf("load lab order %d: %w", labOrderID, err)
	}

	logger := r.logger.With().Str("workspace", id.String()).Int64("labOrderId", order.ID()).Logger()
	feed := NewNotificationFeed(r.feedCapacity, r.now)
	notifier := Notifiers{feed, NewLogNotifier(logger)}

	ws := &Workspace{
		id:       id,
		order:    order,
		orders:   r.deps.Orders,
		drafts:   NewDraftResultStore(order, r.deps.Results, notifier),
		history:  NewHistoryCache(id.String(), r.deps.Store, r.deps.History, notifier),
		status:   NewOrderStatusController(r.deps.Orders, notifier),
		delivery: NewDocumentDeliveryCoordinator(r.deps.Gateway, notifier),
		feed:     feed,
		logger:   logger,
		now:      r.now,
		openedAt: r.now(),
	}
	ws.touch()

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists = r.workspaces[id]; exists {
		return nil, errs.NewValueIsInvalidErrorWithCause("workspaceId", fmt.Errorf("workspace %s is already open", id))
	}
	r.workspaces[id] = ws

	logger.Info().Int("tests", ws.Drafts().Len()).Msg("workspace opened")
	return ws, nil
}

// Get returns an open workspace.
func (r *Registry) Get(id kernel.UUID) (*Workspace, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	ws, ok := r.workspaces[id]
	if !ok {
		return nil, errs.NewObjectNotFoundError("workspaceId", id.String())
	}
	return ws, nil
}

// Close tears a workspace down and drops its cached history.
func (r *Registry) Close(ctx context.Context, id kernel.UUID) error {
	r.mu.Lock()
	ws, ok := r.workspaces[id]
	delete(r.workspaces, id)
	r.mu.Unlock()

	if !ok {
		return errs.NewObjectNotFoundError("workspaceId", id.String())
	}

	if err := ws.close(ctx); err != nil {
		return err
	}
	ws.logger.Info().Msg("workspace closed")
	return nil
}

// Sweep closes every workspace unused for longer than idle and returns how many were closed.
func (r *Registry) Sweep(ctx context.Context, idle time.Duration) (int, error) {
	cutoff := r.now().Add(-idle)

	r.mu.RLock()
	var stale []kernel.UUID
	for id, ws := range r.workspaces {
		if ws.LastUsed().Before(cutoff) {
			stale = append(stale, id)
		}
	}
	r.mu.RUnlock()

	var (
		closed  int
		errList []error
	)
	for _, id := range stale {
		err := r.Close(ctx, id)
		if errors.Is(err, errs.ErrObjectNotFound) {
			continue
		}
		if err != nil {
			errList = append(errList, err)
		}
		closed++
	}
	return closed, errors.Join(errList...)
}

// Len returns the number of open workspaces.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.workspaces)
}
