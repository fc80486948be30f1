package ticket

import (
	"context"

	common_models "go-placement/internal/common/models"
	"go-placement/internal/features/audit"
	"go-placement/internal/features/sales"
	"go-placement/pkg/apperrors"

	"go.mongodb.org/mongo-driver/bson"
	"go.uber.org/zap"
)

// AssignmentResult pairs a ticket with the rep it was bound to.
type AssignmentResult struct {
	Ticket    *Ticket
	SalesUser *sales.SalesUser
}

// AssignmentService binds a ticket to exactly one sales representative
// using a least-loaded selection policy.
type AssignmentService interface {
	Assign(ctx context.Context, t *Ticket) (*AssignmentResult, error)
}

type AssignmentServiceImpl struct {
	tickets      TicketRepository
	reps         sales.SalesRepository
	auditService audit.AuditService
	logger       *zap.Logger
}

func NewAssignmentService(
	tickets TicketRepository,
	reps sales.SalesRepository,
	auditService audit.AuditService,
	logger *zap.Logger,
) AssignmentService {
	return &AssignmentServiceImpl{
		tickets:      tickets,
		reps:         reps,
		auditService: auditService,
		logger:       logger,
	}
}

// Assign picks the rep with the minimum workload. Selection and workload
// increment happen in one atomic document update, so two concurrent
// assignments never both act on a stale minimum. The subsequent ticket
// write is a separate best-effort step; there is no cross-entity
// transaction.
func (s *AssignmentServiceImpl) Assign(ctx context.Context, t *Ticket) (*AssignmentResult, error) {
	rep, err := s.reps.AcquireLeastLoaded(ctx)
	if err != nil {
		if apperrors.IsCode(err, "NO_CAPACITY") {
			// Leave the ticket unassigned and flag it for manual routing;
			// creation must not fail just because no rep exists.
			s.logger.Warn("no sales rep available, flagging ticket for manual routing",
				zap.String("ticketId", t.TicketID))
			if !t.ID.IsZero() {
				if uerr := s.tickets.Update(ctx, t.ID, bson.M{"needs_routing": true}); uerr != nil {
					s.logger.Error("failed to flag ticket for manual routing",
						zap.String("ticketId", t.TicketID), zap.Error(uerr))
				} else {
					t.NeedsRouting = true
				}
			}
		}
		return nil, err
	}

	oldAssignee := t.AssignedTo

	updates := bson.M{
		"assigned_to":   rep.SalesID,
		"sales_person":  rep.DisplayName(),
		"needs_routing": false,
	}
	if err := s.tickets.Update(ctx, t.ID, updates); err != nil {
		return nil, err
	}

	t.AssignedTo = rep.SalesID
	t.SalesPerson = rep.DisplayName()
	t.NeedsRouting = false

	changes := map[string]common_models.Change{
		"assigned_to":  {Old: oldAssignee, New: rep.SalesID},
		"sales_person": {Old: nil, New: rep.DisplayName()},
	}
	_ = s.auditService.LogChange(ctx, common_models.AuditActionUpdate, "tickets", t.TicketID, changes)

	s.logger.Info("ticket assigned",
		zap.String("ticketId", t.TicketID),
		zap.String("salesId", rep.SalesID),
		zap.Int64("workload", rep.Workload))

	return &AssignmentResult{Ticket: t, SalesUser: rep}, nil
}
