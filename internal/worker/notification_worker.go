package worker

import (
	"go.uber.org/zap"
)

// Subscriber attaches event handlers to a dispatcher.
type Subscriber interface {
	RegisterHandlers()
}

// StartNotificationWorker subscribes the grievance notification handlers.
// Handlers run synchronously on the publishing goroutine.
func StartNotificationWorker(sub Subscriber, logger *zap.Logger) {
	if sub == nil {
		return
	}
	sub.RegisterHandlers()
	if logger != nil {
		logger.Info("notification handlers registered")
	}
}
