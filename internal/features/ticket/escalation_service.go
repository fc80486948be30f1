package ticket

import (
	"context"
	"time"

	"go-placement/internal/config"

	"go.mongodb.org/mongo-driver/bson"
	"go.uber.org/zap"
)

// EscalationResult summarizes one pass over stale tickets.
type EscalationResult struct {
	Scanned   int `json:"scanned"`
	Escalated int `json:"escalated"`
	Skipped   int `json:"skipped"`
	Failed    int `json:"failed"`
}

// EscalationService moves tickets that stayed unresolved past the age
// threshold into the manager queue.
type EscalationService interface {
	RunEscalationPass(ctx context.Context, now time.Time) (EscalationResult, error)
}

type EscalationServiceImpl struct {
	tickets     TicketRepository
	managerRepo ManagerTicketRepository
	cfg         *config.Config
	logger      *zap.Logger
}

func NewEscalationService(
	tickets TicketRepository,
	managerRepo ManagerTicketRepository,
	cfg *config.Config,
	logger *zap.Logger,
) EscalationService {
	return &EscalationServiceImpl{
		tickets:     tickets,
		managerRepo: managerRepo,
		cfg:         cfg,
		logger:      logger,
	}
}

// RunEscalationPass scans for tickets older than the configured threshold
// that are still unresolved and not yet escalated. Each ticket is claimed
// through the guarded escalated_to_manager write first and copied into the
// manager queue only after the claim wins, so overlapping passes cannot
// both insert a copy. A claim whose copy fails is released for the next
// pass. Per-ticket failures are isolated; one bad document never aborts
// the pass.
func (s *EscalationServiceImpl) RunEscalationPass(ctx context.Context, now time.Time) (EscalationResult, error) {
	cutoff := now.Add(-time.Duration(s.cfg.EscalationAgeHours) * time.Hour)

	stale, err := s.tickets.FindStale(ctx, cutoff)
	if err != nil {
		return EscalationResult{}, err
	}

	result := EscalationResult{Scanned: len(stale)}

	for i := range stale {
		t := &stale[i]

		// Re-read the ticket so one resolved mid-pass is not escalated.
		current, err := s.tickets.FindByTicketID(ctx, t.TicketID)
		if err != nil {
			result.Failed++
			s.logger.Error("escalation: ticket re-read failed",
				zap.String("ticketId", t.TicketID), zap.Error(err))
			continue
		}
		if current.Closed || current.Status.Terminal() || current.EscalatedToManager {
			result.Skipped++
			continue
		}

		flagged, err := s.tickets.MarkEscalated(ctx, current.ID)
		if err != nil {
			result.Failed++
			s.logger.Error("escalation: flag write failed",
				zap.String("ticketId", current.TicketID), zap.Error(err))
			continue
		}
		if !flagged {
			// Another pass won the race after our read.
			result.Skipped++
			continue
		}

		mt := NewManagerTicket(current, now)
		if err := s.managerRepo.Create(ctx, mt); err != nil {
			// Release the claim so the next pass retries this ticket.
			if uerr := s.tickets.Update(ctx, current.ID, bson.M{"escalated_to_manager": false}); uerr != nil {
				s.logger.Error("escalation: claim release failed",
					zap.String("ticketId", current.TicketID), zap.Error(uerr))
			}
			result.Failed++
			s.logger.Error("escalation: manager queue insert failed",
				zap.String("ticketId", current.TicketID), zap.Error(err))
			continue
		}

		result.Escalated++
		s.logger.Info("ticket escalated to manager queue",
			zap.String("ticketId", current.TicketID),
			zap.Time("createdAt", current.CreatedAt))
	}

	s.logger.Info("escalation pass finished",
		zap.Int("scanned", result.Scanned),
		zap.Int("escalated", result.Escalated),
		zap.Int("skipped", result.Skipped),
		zap.Int("failed", result.Failed))

	return result, nil
}
