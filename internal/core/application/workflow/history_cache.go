package workflow

import (
	"context"
	"fmt"
	"strconv"
	"sync"

	"labconsole/internal/core/domain/model/history"
	"labconsole/internal/core/ports"

	"golang.org/x/sync/singleflight"
)

// HistoryCache fetches the history of a test row at most once and serves
// later reads from its store. Entries stay until Invalidate is called or the
// workspace is closed. Once Clear has run the cache writes nothing, so a fetch
// still in flight at that point cannot leave an entry behind.
type HistoryCache struct {
	scope    string
	store    ports.HistoryStore
	provider ports.HistoryProvider
	notifier ports.Notifier

	inflight singleflight.Group

	// mu orders writes against Clear
	mu     sync.RWMutex
	closed bool
}

// NewHistoryCache creates a cache whose entries live under scope in store.
func NewHistoryCache(scope string, store ports.HistoryStore, provider ports.HistoryProvider, notifier ports.Notifier) *HistoryCache {
	return &HistoryCache{
		scope:    scope,
		store:    store,
		provider: provider,
		notifier: notifier,
	}
}

// Get returns the cached series of a row and whether it has been fetched.
func (c *HistoryCache) Get(ctx context.Context, orderTestID int64) (history.Series, bool, error) {
	series, ok, err := c.store.Get(ctx, c.scope, orderTestID)
	if err != nil {
		return nil, false, fmt.Errorf("read history cache: %w", err)
	}
	return series, ok, nil
}

// Fetch returns the history of a row, calling the provider only when nothing
// is cached under orderTestID. Concurrent fetches of one row share a single
// provider call. On failure nothing is cached.
func (c *HistoryCache) Fetch(ctx context.Context, patientID, testID, orderTestID int64) (history.Series, error) {
	if series, ok, err := c.Get(ctx, orderTestID); err != nil {
		return nil, err
	} else if ok {
		return series, nil
	}

	detached := context.WithoutCancel(ctx)
	v, err, _ := c.inflight.Do(strconv.FormatInt(orderTestID, 10), func() (any, error) {
		if series, ok, err := c.Get(detached, orderTestID); err != nil || ok {
			return series, err
		}

		series, err := c.provider.TestHistory(detached, patientID, testID)
		if err != nil {
			return nil, err
		}
		if err = c.put(detached, orderTestID, series); err != nil {
			return nil, err
		}
		return series, nil
	})
	if err != nil {
		notifyFailure(ctx, c.notifier, ActionLoadHistory, msgHistoryFailed)
		return nil, err
	}

	return v.(history.Series).Clone(), nil
}

func (c *HistoryCache) put(ctx context.Context, orderTestID int64, series history.Series) error {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if c.closed {
		return nil
	}
	if err := c.store.Put(ctx, c.scope, orderTestID, series); err != nil {
		return fmt.Errorf("write history cache: %w", err)
	}
	return nil
}

// Trend returns the trend of a cached row. The second result is false when the
// row has not been fetched or has one entry or fewer.
func (c *HistoryCache) Trend(ctx context.Context, orderTestID int64) (history.Trend, bool, error) {
	series, ok, err := c.Get(ctx, orderTestID)
	if err != nil || !ok {
		return history.Trend{}, false, err
	}

	trend, ok := history.BuildTrend(series)
	return trend, ok, nil
}

// Invalidate drops the cached entry of a row so the next Fetch calls the provider again.
func (c *HistoryCache) Invalidate(ctx context.Context, orderTestID int64) error {
	if err := c.store.Delete(ctx, c.scope, orderTestID); err != nil {
		return fmt.Errorf("invalidate history cache: %w", err)
	}
	return nil
}

// Clear drops every entry of the cache and stops it from storing new ones.
func (c *HistoryCache) Clear(ctx context.Context) error {
	c.mu.Lock()
	c.closed = true
	c.mu.Unlock()

	if err := c.store.DeleteScope(ctx, c.scope); err != nil {
		return fmt.Errorf("clear history cache: %w", err)
	}
	return nil
}
