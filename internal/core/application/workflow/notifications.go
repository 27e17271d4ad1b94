package workflow

import (
	"context"
	"slices"
	"sync"
	"time"

	"labconsole/internal/core/ports"

	"github.com/rs/zerolog"
)

// Action names carried by notifications.
const (
	ActionCommitDraft     = "commit_draft"
	ActionLoadHistory     = "load_history"
	ActionMarkComplete    = "mark_complete"
	ActionDownloadReport  = "download_report"
	ActionSendReport      = "send_report"
	ActionForwardToDoctor = "forward_to_doctor"
	ActionUploadScan      = "upload_scanned_report"
)

const (
	msgResultUpdated      = "Test result updated"
	msgResultUpdateFailed = "Failed to update test result"
	msgHistoryFailed      = "Failed to load test history"
	msgOrderCompleted     = "Order marked as completed"
	msgOrderCompleteFail  = "Failed to mark order as completed"
	msgReportFailed       = "Failed to download report"
	msgReportSent         = "Report sent to patient email"
	msgReportSendFailed   = "Failed to send report"
	msgForwarded          = "Report sent to doctor"
	msgForwardFailed      = "Failed to send"
	msgScanUploaded       = "Scanned report uploaded"
	msgScanUploadFailed   = "Upload failed"
)

// DefaultFeedCapacity bounds the number of notifications kept per workspace.
const DefaultFeedCapacity = 50

func notifySuccess(ctx context.Context, n ports.Notifier, action, message string) {
	n.Notify(ctx, ports.Notification{Level: ports.NotificationSuccess, Action: action, Message: message})
}

func notifyFailure(ctx context.Context, n ports.Notifier, action, message string) {
	n.Notify(ctx, ports.Notification{Level: ports.NotificationError, Action: action, Message: message})
}

// NotificationFeed keeps the most recent notifications of a workspace, oldest first.
type NotificationFeed struct {
	mu       sync.Mutex
	items    []ports.Notification
	capacity int
	now      func() time.Time
}

// NewNotificationFeed creates a feed holding at most capacity items.
// A non-positive capacity selects DefaultFeedCapacity.
func NewNotificationFeed(capacity int, now func() time.Time) *NotificationFeed {
	if capacity <= 0 {
		capacity = DefaultFeedCapacity
	}
	if now == nil {
		now = time.Now
	}
	return &NotificationFeed{capacity: capacity, now: now}
}

// Notify appends n, stamping the time if unset and dropping the oldest item when full.
func (f *NotificationFeed) Notify(_ context.Context, n ports.Notification) {
	if n.Time.IsZero() {
		n.Time = f.now()
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	f.items = append(f.items, n)
	if overflow := len(f.items) - f.capacity; overflow > 0 {
		f.items = slices.Delete(f.items, 0, overflow)
	}
}

// List returns a snapshot of the feed.
func (f *NotificationFeed) List() []ports.Notification {
	f.mu.Lock()
	defer f.mu.Unlock()
	return slices.Clone(f.items)
}

// LogNotifier writes notifications to a zerolog logger. Failures are logged at warn level.
type LogNotifier struct {
	logger zerolog.Logger
}

func NewLogNotifier(logger zerolog.Logger) LogNotifier {
	return LogNotifier{logger: logger}
}

func (l LogNotifier) Notify(_ context.Context, n ports.Notification) {
	level := zerolog.InfoLevel
	if n.Level == ports.NotificationError {
		level = zerolog.WarnLevel
	}
	l.logger.WithLevel(level).Str("action", n.Action).Msg(n.Message)
}

// Notifiers fans a notification out to several notifiers in order.
type Notifiers []ports.Notifier

func (ns Notifiers) Notify(ctx context.Context, n ports.Notification) {
	for _, notifier := range ns {
		notifier.Notify(ctx, n)
	}
}
