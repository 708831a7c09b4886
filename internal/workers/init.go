package workers

import (
	"context"

	"github.com/yethikrishna/y0-waitlist-builder/internal/services"
)

type WorkersContainer struct {
	Notify *NotifyWorker
}

func InitWorkers(ctx context.Context, notifier *services.NotificationService) *WorkersContainer {
	notifyWorker := NewNotifyWorker(notifier, 128)

	go notifyWorker.Start(ctx)

	return &WorkersContainer{
		Notify: notifyWorker,
	}
}
