package ports

import (
	"context"
	"time"
)

// NotificationLevel tells success and failure signals apart.
type NotificationLevel string

const (
	NotificationSuccess NotificationLevel = "success"
	NotificationError   NotificationLevel = "error"
)

// Notification is a transient, user-visible outcome of an action.
type Notification struct {
	Level   NotificationLevel
	Action  string
	Message string
	Time    time.Time
}

// Notifier surfaces action outcomes to the user.
type Notifier interface {
	Notify(ctx context.Context, n Notification)
}
