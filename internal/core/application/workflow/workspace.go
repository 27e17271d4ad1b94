package workflow

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"labconsole/internal/core/domain/model/draft"
	"labconsole/internal/core/domain/model/history"
	"labconsole/internal/core/domain/model/kernel"
	"labconsole/internal/core/domain/model/laborder"
	"labconsole/internal/core/ports"
	"labconsole/internal/pkg/errs"

	"github.com/rs/zerolog"
)

// Workspace is the review session of one loaded order. It lives from Registry.Open
// until Registry.Close or until it is swept for inactivity; its drafts and
// cached history live exactly as long.
type Workspace struct {
	id kernel.UUID

	mu    sync.RWMutex
	order *laborder.LabOrder

	orders   ports.LabOrderRepository
	drafts   *DraftResultStore
	history  *HistoryCache
	status   *OrderStatusController
	delivery *DocumentDeliveryCoordinator
	feed     *NotificationFeed

	logger   zerolog.Logger
	now      func() time.Time
	openedAt time.Time
	lastUsed atomic.Int64
}

// ID returns the workspace identifier.
func (w *Workspace) ID() kernel.UUID {
	return w.id
}

// Order returns a copy of the authoritative order. Draft edits are not reflected in it.
func (w *Workspace) Order() *laborder.LabOrder {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.order.Clone()
}

// OpenedAt returns when the workspace was opened.
func (w *Workspace) OpenedAt() time.Time {
	return w.openedAt
}

// LastUsed returns the time of the most recent operation.
func (w *Workspace) LastUsed() time.Time {
	return time.Unix(0, w.lastUsed.Load())
}

func (w *Workspace) touch() {
	w.lastUsed.Store(w.now().UnixNano())
}

// Drafts returns the current draft set.
func (w *Workspace) Drafts() draft.Set {
	return w.drafts.Drafts()
}

// UpdateDraftField edits one field of one row's draft.
func (w *Workspace) UpdateDraftField(orderTestID int64, field draft.Field, value string) (draft.Set, error) {
	w.touch()
	return w.drafts.UpdateField(orderTestID, field, value)
}

// CommitDraft persists the current draft of one row.
func (w *Workspace) CommitDraft(ctx context.Context, orderTestID int64) error {
	w.touch()
	return w.drafts.Commit(ctx, orderTestID)
}

// History returns the history of a row, fetching it on first use.
func (w *Workspace) History(ctx context.Context, orderTestID int64) (history.Series, error) {
	w.touch()

	order := w.Order()
	row, ok := order.Test(orderTestID)
	if !ok {
		return nil, errs.NewObjectNotFoundError("orderTestId", orderTestID)
	}
	return w.history.Fetch(ctx, order.Patient().ID, row.Test().ID, orderTestID)
}

// Trend returns the trend of a row's cached history. The second result is
// false until the history was fetched with more than one entry.
func (w *Workspace) Trend(ctx context.Context, orderTestID int64) (history.Trend, bool, error) {
	w.touch()
	return w.history.Trend(ctx, orderTestID)
}

// InvalidateHistory drops the cached history of a row.
func (w *Workspace) InvalidateHistory(ctx context.Context, orderTestID int64) error {
	w.touch()

	if _, ok := w.Order().Test(orderTestID); !ok {
		return errs.NewObjectNotFoundError("orderTestId", orderTestID)
	}
	return w.history.Invalidate(ctx, orderTestID)
}

// MarkComplete finalizes the order. The local order changes only after the
// backend accepted the update.
func (w *Workspace) MarkComplete(ctx context.Context) (*laborder.LabOrder, error) {
	w.touch()

	if _, err := w.status.MarkComplete(ctx, w.Order()); err != nil {
		return nil, err
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	next := w.order.Clone()
	next.MarkComplete()
	w.order = next
	return next.Clone(), nil
}

// DownloadReport fetches the report PDF of the order.
func (w *Workspace) DownloadReport(ctx context.Context) (Document, error) {
	w.touch()
	return w.delivery.DownloadReport(ctx, w.labOrderID())
}

// SendReport emails the report to the patient.
func (w *Workspace) SendReport(ctx context.Context) error {
	w.touch()
	return w.delivery.SendReport(ctx, w.labOrderID())
}

// ForwardToDoctor sends the report to the referring doctor.
func (w *Workspace) ForwardToDoctor(ctx context.Context) error {
	w.touch()
	return w.delivery.ForwardToDoctor(ctx, w.labOrderID())
}

// InvoiceLocation returns the invoice location of the order.
func (w *Workspace) InvoiceLocation() string {
	w.touch()
	return w.delivery.RequestInvoice(w.labOrderID())
}

// ReportLocation returns where the rendered report can be viewed.
func (w *Workspace) ReportLocation() string {
	return w.delivery.ReportLocation(w.labOrderID())
}

// ScannedReportLocation returns the link to the uploaded scan, or "".
func (w *Workspace) ScannedReportLocation() string {
	return w.delivery.ScannedReportLocation(w.Order().ScannedReportPath())
}

// UploadScannedDocument uploads doc and records the new scannedReportPath. A nil
// doc is a no-op. When the backend does not return the new path the order is
// reloaded to learn it.
func (w *Workspace) UploadScannedDocument(ctx context.Context, doc *ports.ScannedDocument) (bool, error) {
	w.touch()

	path, uploaded, err := w.delivery.UploadScannedDocument(ctx, w.labOrderID(), doc)
	if err != nil || !uploaded {
		return uploaded, err
	}

	if path == "" {
		reloaded, err := w.orders.Get(context.WithoutCancel(ctx), w.labOrderID())
		if err != nil {
			w.logger.Warn().Err(err).Msg("reload after scan upload failed")
			return true, nil
		}
		path = reloaded.ScannedReportPath()
		if path == "" {
			return true, nil
		}
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	next := w.order.Clone()
	if err = next.ReplaceScannedReportPath(path); err != nil {
		return true, err
	}
	w.order = next
	return true, nil
}

// Notifications returns the workspace's notification feed, oldest first.
func (w *Workspace) Notifications() []ports.Notification {
	return w.feed.List()
}

func (w *Workspace) labOrderID() int64 {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.order.ID()
}

func (w *Workspace) close(ctx context.Context) error {
	return w.history.Clear(ctx)
}
