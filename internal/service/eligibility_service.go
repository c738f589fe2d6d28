package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/spec-kit/grievance-service/internal/domain"
	"github.com/spec-kit/grievance-service/internal/events"
	apperrors "github.com/spec-kit/grievance-service/pkg/util/errorutil"
)

// EligibilityService marks stale grievances as eligible for escalation.
type EligibilityService struct {
	grievanceCore
	staleAfter time.Duration
}

// NewEligibilityService constructs the service. Grievances untouched for
// staleAfter become eligible.
func NewEligibilityService(deps GrievanceDependencies, staleAfter time.Duration) *EligibilityService {
	return &EligibilityService{grievanceCore: newGrievanceCore(deps), staleAfter: staleAfter}
}

// Sweep flags every stale, open, unescalated grievance and returns them.
func (s *EligibilityService) Sweep(ctx context.Context) ([]domain.Grievance, error) {
	cutoff := s.now().Add(-s.staleAfter)
	marked, err := s.grievances.MarkEligible(ctx, cutoff)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}

	system := domain.Principal{Role: domain.ActorSystem}
	for i := range marked {
		g := &marked[i]
		s.recordHistory(ctx, g.ID, system, domain.ChangeTypeEligibility,
			map[string]any{"escalation_eligible": false},
			map[string]any{"escalation_eligible": true})
		s.publishEvent(ctx, grievanceEvent(events.EventEscalationEligible, g, system, nil))
	}
	if len(marked) > 0 {
		s.invalidateStats(ctx)
	}
	s.logger.Info("escalation eligibility sweep",
		zap.Time("cutoff", cutoff),
		zap.Int("marked", len(marked)))
	return marked, nil
}
