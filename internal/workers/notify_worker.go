package workers

import (
	"context"
	"time"

	"github.com/yethikrishna/y0-waitlist-builder/internal/logging"
	"github.com/yethikrishna/y0-waitlist-builder/internal/models/dtos"
	"github.com/yethikrishna/y0-waitlist-builder/internal/services"
)

const sendTimeout = 15 * time.Second

// NotifyWorker delivers admin notifications off the request path. Dispatch
// never blocks; delivery failures are logged and swallowed.
type NotifyWorker struct {
	notifier *services.NotificationService
	queue    chan dtos.NotifyRequest
}

func NewNotifyWorker(notifier *services.NotificationService, queueSize int) *NotifyWorker {
	return &NotifyWorker{
		notifier: notifier,
		queue:    make(chan dtos.NotifyRequest, queueSize),
	}
}

// Dispatch enqueues a notification. When the queue is full the notification
// is dropped with a warning; a slow mail provider must never stall signups.
func (w *NotifyWorker) Dispatch(req dtos.NotifyRequest) {
	select {
	case w.queue <- req:
	default:
		logging.Warn("Notification queue full, dropping notification", "position", req.Position)
	}
}

// Start consumes the queue until ctx is cancelled.
func (w *NotifyWorker) Start(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case req := <-w.queue:
			sendCtx, cancel := context.WithTimeout(ctx, sendTimeout)
			if err := w.notifier.Send(sendCtx, req); err != nil {
				logging.Error("Admin notification failed", "position", req.Position, "error", err.Error())
			} else {
				logging.Info("Admin notification sent", "position", req.Position)
			}
			cancel()
		}
	}
}
