package service

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/spec-kit/grievance-service/internal/config"
	"github.com/spec-kit/grievance-service/internal/events"
)

// NotificationService handles emitting notifications for domain events.
type NotificationService struct {
	dispatcher events.Dispatcher
	logger     *zap.Logger
	cfg        config.NotificationConfig
}

// NewNotificationService creates the service.
func NewNotificationService(dispatcher events.Dispatcher, logger *zap.Logger, cfg config.NotificationConfig) *NotificationService {
	return &NotificationService{
		dispatcher: dispatcher,
		logger:     logger,
		cfg:        cfg,
	}
}

// RegisterHandlers subscribes to events.
func (n *NotificationService) RegisterHandlers() {
	if n.dispatcher == nil {
		return
	}
	n.dispatcher.Subscribe(events.EventGrievanceCreated, n.notifyDepartment)
	n.dispatcher.Subscribe(events.EventGrievanceAssigned, n.notifyOfficial)
	n.dispatcher.Subscribe(events.EventGrievanceStatusChanged, n.notifyPetitioner)
	n.dispatcher.Subscribe(events.EventGrievanceEscalated, n.notifyAdmins)
	n.dispatcher.Subscribe(events.EventEscalationResponded, n.notifyPetitioner)
	n.dispatcher.Subscribe(events.EventFeedbackSubmitted, n.notifyDepartment)
	n.dispatcher.Subscribe(events.EventEscalationEligible, n.notifyPetitioner)
}

func (n *NotificationService) notifyDepartment(ctx context.Context, event events.Event) error {
	n.logEvent(event, "department")
	n.sendWebhookNotificationStub(ctx, event)
	return nil
}

func (n *NotificationService) notifyOfficial(ctx context.Context, event events.Event) error {
	n.logEvent(event, "official")
	n.sendEmailNotificationStub(ctx, event)
	return nil
}

func (n *NotificationService) notifyPetitioner(ctx context.Context, event events.Event) error {
	n.logEvent(event, "petitioner")
	n.sendEmailNotificationStub(ctx, event)
	return nil
}

func (n *NotificationService) notifyAdmins(ctx context.Context, event events.Event) error {
	n.logEvent(event, "admins")
	n.sendEmailNotificationStub(ctx, event)
	n.sendWebhookNotificationStub(ctx, event)
	return nil
}

func (n *NotificationService) logEvent(event events.Event, audience string) {
	n.logger.Info("grievance notification",
		zap.String("event_type", string(event.Type)),
		zap.String("audience", audience),
		zap.String("petition_id", event.PetitionID),
		zap.String("department", string(event.Department)),
		zap.Any("payload", event.Payload))
}

func (n *NotificationService) sendEmailNotificationStub(_ context.Context, event events.Event) {
	if strings.TrimSpace(n.cfg.EmailFrom) == "" {
		return
	}
	n.logger.Debug("sendEmailNotificationStub",
		zap.String("from", n.cfg.EmailFrom),
		zap.String("grievance_id", event.GrievanceID),
		zap.String("event_type", string(event.Type)))
}

func (n *NotificationService) sendWebhookNotificationStub(_ context.Context, event events.Event) {
	if strings.TrimSpace(n.cfg.WebhookURL) == "" {
		return
	}
	n.logger.Debug("sendWebhookNotificationStub",
		zap.String("url", n.cfg.WebhookURL),
		zap.String("grievance_id", event.GrievanceID),
		zap.String("event_type", string(event.Type)))
}
