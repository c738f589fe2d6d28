package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/spec-kit/grievance-service/internal/domain"
	"github.com/spec-kit/grievance-service/internal/events"
	"github.com/spec-kit/grievance-service/internal/observability"
	"github.com/spec-kit/grievance-service/internal/repository"
	apperrors "github.com/spec-kit/grievance-service/pkg/util/errorutil"
)

// StatsCache stores dashboard aggregates. persistence.Redis implements it.
type StatsCache interface {
	GetJSON(ctx context.Context, key string, dest any) (bool, error)
	SetJSON(ctx context.Context, key string, value any, ttl time.Duration) error
	Delete(ctx context.Context, keys ...string) error
}

// grievanceCore holds collaborators shared by the lifecycle and escalation
// services.
type grievanceCore struct {
	grievances repository.GrievanceRepository
	history    repository.GrievanceHistoryRepository
	officials  repository.OfficialRepository
	dispatcher events.Dispatcher
	metrics    *observability.Metrics
	cache      StatsCache
	logger     *zap.Logger
	now        func() time.Time
}

// GrievanceDependencies bundles collaborators for grievance workflows.
type GrievanceDependencies struct {
	GrievanceRepo repository.GrievanceRepository
	HistoryRepo   repository.GrievanceHistoryRepository
	OfficialRepo  repository.OfficialRepository
	Dispatcher    events.Dispatcher
	Metrics       *observability.Metrics
	StatsCache    StatsCache
	Logger        *zap.Logger
	// Now overrides the clock; defaults to time.Now.
	Now func() time.Time
}

func newGrievanceCore(deps GrievanceDependencies) grievanceCore {
	now := deps.Now
	if now == nil {
		now = time.Now
	}
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return grievanceCore{
		grievances: deps.GrievanceRepo,
		history:    deps.HistoryRepo,
		officials:  deps.OfficialRepo,
		dispatcher: deps.Dispatcher,
		metrics:    deps.Metrics,
		cache:      deps.StatsCache,
		logger:     logger,
		now:        now,
	}
}

// petitionPrefix marks human-facing grievance references.
const petitionPrefix = "GRV-"

func generatePetitionID() string {
	raw := strings.ReplaceAll(uuid.NewString(), "-", "")
	return petitionPrefix + strings.ToUpper(raw[:8])
}

// load fetches a grievance by internal id or petition id.
func (c *grievanceCore) load(ctx context.Context, ref string) (*domain.Grievance, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return nil, apperrors.NewNotFound("grievance", nil)
	}
	var (
		g   *domain.Grievance
		err error
	)
	if strings.HasPrefix(strings.ToUpper(ref), petitionPrefix) {
		g, err = c.grievances.GetByPetitionID(ctx, strings.ToUpper(ref))
	} else {
		g, err = c.grievances.GetByID(ctx, ref)
	}
	if errors.Is(err, repository.ErrNoRows) {
		return nil, apperrors.NewNotFound("grievance", map[string]any{"id": ref})
	}
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	return g, nil
}

func (c *grievanceCore) loadOfficial(ctx context.Context, id string) (*domain.Official, error) {
	o, err := c.officials.GetByID(ctx, id)
	if errors.Is(err, repository.ErrNoRows) {
		return nil, apperrors.NewNotFound("official", map[string]any{"id": id})
	}
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	return o, nil
}

// applyConditional runs a conditional update. When the update matches no
// row the grievance is re-read and check explains why; a precondition that
// holds again on re-read is reported as a conflict.
func (c *grievanceCore) applyConditional(ctx context.Context, id, event string, check func(*domain.Grievance) error,
	update func() (*domain.Grievance, error)) (*domain.Grievance, error) {
	updated, err := update()
	if err == nil {
		c.metrics.RecordTransition(ctx, event, "applied")
		c.invalidateStats(ctx)
		return updated, nil
	}
	if !errors.Is(err, repository.ErrNoRows) {
		return nil, apperrors.NewInternalError(err)
	}

	current, loadErr := c.load(ctx, id)
	if loadErr != nil {
		return nil, loadErr
	}
	if checkErr := check(current); checkErr != nil {
		c.metrics.RecordTransition(ctx, event, string(apperrors.KindOf(checkErr)))
		return nil, checkErr
	}
	c.metrics.RecordTransition(ctx, event, "conflict")
	return nil, apperrors.NewConflict("grievance changed concurrently", map[string]any{"id": id})
}

// reject records a refused transition and passes the error through.
func (c *grievanceCore) reject(ctx context.Context, event string, err error) error {
	c.metrics.RecordTransition(ctx, event, string(apperrors.KindOf(err)))
	return err
}

func (c *grievanceCore) recordHistory(ctx context.Context, grievanceID string, actor domain.Principal,
	change domain.GrievanceChangeType, oldValue, newValue map[string]any) {
	if c.history == nil {
		return
	}
	entry := &domain.GrievanceHistory{
		ID:          uuid.NewString(),
		GrievanceID: grievanceID,
		ActorRole:   actor.Role,
		ChangeType:  change,
		OldValue:    oldValue,
		NewValue:    newValue,
		CreatedAt:   c.now(),
	}
	if actor.ID != "" {
		id := actor.ID
		entry.ActorID = &id
	}
	if err := c.history.Create(ctx, entry); err != nil {
		c.logger.Warn("record grievance history",
			zap.String("grievance_id", grievanceID),
			zap.String("change_type", string(change)),
			zap.Error(err))
	}
}

func (c *grievanceCore) publishEvent(ctx context.Context, event events.Event) {
	if c.dispatcher == nil {
		return
	}
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = c.now()
	}
	_ = c.dispatcher.Publish(ctx, event)
}

func (c *grievanceCore) invalidateStats(ctx context.Context) {
	if c.cache == nil {
		return
	}
	if err := c.cache.Delete(ctx, statsCacheKeys...); err != nil {
		c.logger.Debug("invalidate stats cache", zap.Error(err))
	}
}

func grievanceEvent(eventType events.EventType, g *domain.Grievance, actor domain.Principal, payload any) events.Event {
	return events.Event{
		Type:        eventType,
		GrievanceID: g.ID,
		PetitionID:  g.PetitionID,
		Department:  g.Department,
		Actor:       actorOf(actor),
		Payload:     payload,
	}
}

func actorOf(p domain.Principal) events.Actor {
	if p.ID == "" {
		return events.Actor{Role: p.Role}
	}
	id := p.ID
	return events.Actor{Role: p.Role, ID: &id}
}

func optionalText(raw string) *string {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}

func mustText(field, raw string, max int) (string, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return "", apperrors.NewValidationError(field+" is required", map[string]any{"field": field})
	}
	if max > 0 && len(trimmed) > max {
		return "", apperrors.NewValidationError(fmt.Sprintf("%s exceeds %d characters", field, max),
			map[string]any{"field": field})
	}
	return trimmed, nil
}
