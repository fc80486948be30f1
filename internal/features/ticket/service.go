package ticket

import (
	"context"
	"crypto/rand"
	"fmt"
	"math/big"
	"strings"
	"time"

	common_models "go-placement/internal/common/models"
	"go-placement/internal/config"
	"go-placement/internal/features/audit"
	"go-placement/internal/features/sales"
	"go-placement/pkg/apperrors"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.uber.org/zap"
)

// CreateTicketInput carries the submitter-provided fields for a new ticket.
type CreateTicketInput struct {
	UserID      string `json:"userId"`
	UserType    string `json:"userType"`
	UserName    string `json:"user_name"`
	UserEmail   string `json:"user_email"`
	UserPhone   string `json:"user_phone"`
	Subject     string `json:"subject"`
	Description string `json:"description"`
	Category    string `json:"category"`
	Priority    string `json:"priority"`
}

// TicketService is the single place ticket state transitions happen; every
// HTTP entry point calls into it.
type TicketService interface {
	CreateTicket(ctx context.Context, in CreateTicketInput) (*Ticket, error)
	GetTicket(ctx context.Context, ticketID string) (*Ticket, error)
	ListUserTickets(ctx context.Context, userID string) ([]Ticket, error)
	CloseTicket(ctx context.Context, ticketID, secretCode string) (*Ticket, error)
	AppendMessage(ctx context.Context, ticketID, sender string, role SenderRole, body string) (*Ticket, error)
	ResolveByAdmin(ctx context.Context, ticketID, overrideSecret string) (*Ticket, error)
	SetEvaluation(ctx context.Context, ticketID string, evaluation bool) (*Ticket, error)
	Reassign(ctx context.Context, ticketID string) (*Ticket, error)
	DeleteTicket(ctx context.Context, ticketID string) error
}

type TicketServiceImpl struct {
	repo         TicketRepository
	assigner     AssignmentService
	notifier     TicketNotifier
	auditService audit.AuditService
	reps         sales.SalesRepository
	policy       sales.WorkloadPolicy
	cfg          *config.Config
	logger       *zap.Logger
}

func NewTicketService(
	repo TicketRepository,
	assigner AssignmentService,
	notifier TicketNotifier,
	auditService audit.AuditService,
	reps sales.SalesRepository,
	policy sales.WorkloadPolicy,
	cfg *config.Config,
	logger *zap.Logger,
) TicketService {
	return &TicketServiceImpl{
		repo:         repo,
		assigner:     assigner,
		notifier:     notifier,
		auditService: auditService,
		reps:         reps,
		policy:       policy,
		cfg:          cfg,
		logger:       logger,
	}
}

// CreateTicket validates the submission, persists the ticket with a fresh
// public id and secret code, assigns it synchronously and notifies the
// submitter best-effort.
func (s *TicketServiceImpl) CreateTicket(ctx context.Context, in CreateTicketInput) (*Ticket, error) {
	var missing []string
	if strings.TrimSpace(in.UserID) == "" {
		missing = append(missing, "userId")
	}
	if strings.TrimSpace(in.UserType) == "" {
		missing = append(missing, "userType")
	}
	if strings.TrimSpace(in.Subject) == "" {
		missing = append(missing, "subject")
	}
	if strings.TrimSpace(in.Description) == "" {
		missing = append(missing, "description")
	}
	if strings.TrimSpace(in.UserEmail) == "" {
		missing = append(missing, "user_email")
	}
	if len(missing) > 0 {
		return nil, apperrors.NewValidation("missing required fields", map[string]any{"fields": missing})
	}

	role := common_models.UserRole(strings.ToLower(in.UserType))
	switch role {
	case common_models.RoleStudent, common_models.RoleCollege, common_models.RoleCompany:
	default:
		return nil, apperrors.NewValidation("invalid userType", map[string]any{"userType": in.UserType})
	}

	priority := TicketPriority(strings.ToLower(in.Priority))
	switch priority {
	case "":
		priority = TicketPriorityMedium
	case TicketPriorityLow, TicketPriorityMedium, TicketPriorityHigh, TicketPriorityUrgent:
	default:
		return nil, apperrors.NewValidation("invalid priority", map[string]any{"priority": in.Priority})
	}

	now := time.Now()
	t := &Ticket{
		TicketID:    newTicketID(),
		UserID:      in.UserID,
		UserType:    role,
		UserName:    in.UserName,
		UserEmail:   in.UserEmail,
		UserPhone:   in.UserPhone,
		Subject:     in.Subject,
		Description: in.Description,
		Category:    in.Category,
		Priority:    priority,
		Status:      TicketStatusOpen,
		SecretCode:  newSecretCode(),
		Thread: []ThreadMessage{
			{
				Sender:     in.UserName,
				SenderRole: SenderRoleUser,
				Message:    in.Description,
				Timestamp:  now,
			},
		},
	}

	if err := s.repo.Create(ctx, t); err != nil {
		return nil, err
	}

	changes := map[string]common_models.Change{
		"ticket_id": {Old: nil, New: t.TicketID},
		"subject":   {Old: nil, New: t.Subject},
		"priority":  {Old: nil, New: t.Priority},
		"status":    {Old: nil, New: t.Status},
	}
	_ = s.auditService.LogChange(ctx, common_models.AuditActionCreate, "tickets", t.TicketID, changes)

	// Assignment is synchronous but its failure never fails creation
	if _, err := s.assigner.Assign(ctx, t); err != nil {
		s.logger.Warn("ticket created without assignment",
			zap.String("ticketId", t.TicketID), zap.Error(err))
	}

	s.notifier.Notify(ctx, NotifyEventCreated, t)

	return t, nil
}

func (s *TicketServiceImpl) GetTicket(ctx context.Context, ticketID string) (*Ticket, error) {
	return s.repo.FindByTicketID(ctx, ticketID)
}

func (s *TicketServiceImpl) ListUserTickets(ctx context.Context, userID string) ([]Ticket, error) {
	return s.repo.FindByUser(ctx, userID)
}

// CloseTicket resolves a ticket through the normal, secret-code-gated path.
func (s *TicketServiceImpl) CloseTicket(ctx context.Context, ticketID, secretCode string) (*Ticket, error) {
	t, err := s.repo.FindByTicketID(ctx, ticketID)
	if err != nil {
		return nil, err
	}

	if t.Closed || t.Status.Terminal() {
		return nil, apperrors.NewConflict("ticket already resolved or closed", map[string]any{"ticket_id": ticketID})
	}

	if t.SecretCode != "" && t.SecretCode != secretCode {
		return nil, apperrors.NewUnauthorized("secret code mismatch")
	}

	return s.markResolved(ctx, t)
}

// ResolveByAdmin bypasses the per-ticket secret code using the system-wide
// configured override secret.
func (s *TicketServiceImpl) ResolveByAdmin(ctx context.Context, ticketID, overrideSecret string) (*Ticket, error) {
	if s.cfg.ResolveSecret == "" {
		return nil, apperrors.NewUnauthorized("admin resolve is not configured")
	}
	if overrideSecret != s.cfg.ResolveSecret {
		return nil, apperrors.NewUnauthorized("override secret mismatch")
	}

	t, err := s.repo.FindByTicketID(ctx, ticketID)
	if err != nil {
		return nil, err
	}

	if t.Closed || t.Status.Terminal() {
		return nil, apperrors.NewConflict("ticket already resolved or closed", map[string]any{"ticket_id": ticketID})
	}

	return s.markResolved(ctx, t)
}

func (s *TicketServiceImpl) markResolved(ctx context.Context, t *Ticket) (*Ticket, error) {
	now := time.Now()
	oldStatus := t.Status

	updates := bson.M{
		"status":    TicketStatusResolved,
		"closed":    true,
		"closed_at": now,
	}
	if err := s.repo.Update(ctx, t.ID, updates); err != nil {
		return nil, err
	}

	t.Status = TicketStatusResolved
	t.Closed = true
	t.ClosedAt = &now

	// Workload release is a policy decision; the observed system never
	// decrements (CumulativeWorkload makes this a no-op).
	if delta := s.policy.ResolveDelta(); delta != 0 && t.AssignedTo != "" {
		if rep, rerr := s.reps.FindBySalesID(ctx, t.AssignedTo); rerr == nil {
			if aerr := s.reps.AdjustWorkload(ctx, rep.ID, delta); aerr != nil {
				s.logger.Error("failed to release rep workload",
					zap.String("ticketId", t.TicketID), zap.Error(aerr))
			}
		}
	}

	changes := map[string]common_models.Change{
		"status": {Old: oldStatus, New: t.Status},
		"closed": {Old: false, New: true},
	}
	_ = s.auditService.LogChange(ctx, common_models.AuditActionUpdate, "tickets", t.TicketID, changes)

	s.notifier.Notify(ctx, NotifyEventClosed, t)

	return t, nil
}

// AppendMessage adds one entry to the ticket's thread. An agent (bot or
// admin) reply on an open ticket moves it to in-progress.
func (s *TicketServiceImpl) AppendMessage(ctx context.Context, ticketID, sender string, role SenderRole, body string) (*Ticket, error) {
	if strings.TrimSpace(body) == "" {
		return nil, apperrors.NewValidation("message body is required", nil)
	}
	switch role {
	case SenderRoleUser, SenderRoleBot, SenderRoleAdmin:
	default:
		return nil, apperrors.NewValidation("invalid sender role", map[string]any{"sender_role": role})
	}

	t, err := s.repo.FindByTicketID(ctx, ticketID)
	if err != nil {
		return nil, err
	}

	msg := ThreadMessage{
		Sender:     sender,
		SenderRole: role,
		Message:    body,
		Timestamp:  time.Now(),
	}
	if err := s.repo.PushMessage(ctx, t.ID, msg); err != nil {
		return nil, err
	}
	t.Thread = append(t.Thread, msg)

	if role != SenderRoleUser && t.Status == TicketStatusOpen {
		if err := s.repo.Update(ctx, t.ID, bson.M{"status": TicketStatusInProgress}); err != nil {
			return nil, err
		}
		t.Status = TicketStatusInProgress
	}

	return t, nil
}

// SetEvaluation toggles the quality-review flag; it never affects status.
func (s *TicketServiceImpl) SetEvaluation(ctx context.Context, ticketID string, evaluation bool) (*Ticket, error) {
	t, err := s.repo.FindByTicketID(ctx, ticketID)
	if err != nil {
		return nil, err
	}

	if err := s.repo.Update(ctx, t.ID, bson.M{"evaluation": evaluation}); err != nil {
		return nil, err
	}

	old := t.Evaluation
	t.Evaluation = evaluation

	changes := map[string]common_models.Change{
		"evaluation": {Old: old, New: evaluation},
	}
	_ = s.auditService.LogChange(ctx, common_models.AuditActionUpdate, "tickets", t.TicketID, changes)

	return t, nil
}

// Reassign routes an existing ticket through the assignment engine again
// (internal/admin path for manual routing).
func (s *TicketServiceImpl) Reassign(ctx context.Context, ticketID string) (*Ticket, error) {
	t, err := s.repo.FindByTicketID(ctx, ticketID)
	if err != nil {
		return nil, err
	}

	if t.Closed || t.Status.Terminal() {
		return nil, apperrors.NewConflict("cannot reassign a resolved ticket", map[string]any{"ticket_id": ticketID})
	}

	result, err := s.assigner.Assign(ctx, t)
	if err != nil {
		return nil, err
	}

	s.notifier.Notify(ctx, NotifyEventAssigned, result.Ticket)
	return result.Ticket, nil
}

// DeleteTicket removes a ticket outright. Admin-only; normal operation
// never deletes tickets.
func (s *TicketServiceImpl) DeleteTicket(ctx context.Context, ticketID string) error {
	if err := s.repo.Delete(ctx, ticketID); err != nil {
		return err
	}

	changes := map[string]common_models.Change{
		"ticket_id": {Old: ticketID, New: nil},
	}
	_ = s.auditService.LogChange(ctx, common_models.AuditActionDelete, "tickets", ticketID, changes)
	return nil
}

func newTicketID() string {
	suffix := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:6])
	return fmt.Sprintf("TKT-%d-%s", time.Now().UnixMilli(), suffix)
}

func newSecretCode() string {
	n, err := rand.Int(rand.Reader, big.NewInt(10000))
	if err != nil {
		// crypto/rand failing is effectively fatal elsewhere; fall back to
		// a fixed code rather than panicking in the create path
		return "0000"
	}
	return fmt.Sprintf("%04d", n.Int64())
}
