package ticket

import (
	"context"
	"strings"
	"testing"

	"go-placement/internal/config"
	"go-placement/internal/features/sales"
	"go-placement/pkg/apperrors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestService(t *testing.T, repo *fakeTicketRepo, reps *fakeSalesRepo, cfg *config.Config) (TicketService, *recordingNotifier) {
	t.Helper()

	if cfg == nil {
		cfg = &config.Config{EscalationAgeHours: 48}
	}
	logger := zap.NewNop()
	notifier := &recordingNotifier{}
	assigner := NewAssignmentService(repo, reps, stubAudit{}, logger)
	svc := NewTicketService(repo, assigner, notifier, stubAudit{}, reps, sales.CumulativeWorkload{}, cfg, logger)
	return svc, notifier
}

func validInput() CreateTicketInput {
	return CreateTicketInput{
		UserID:      "u-100",
		UserType:    "student",
		UserName:    "Asha Verma",
		UserEmail:   "asha@example.com",
		Subject:     "Placement drive query",
		Description: "I cannot see the upcoming drive for my college.",
	}
}

func TestCreateTicketAssignsAndNotifies(t *testing.T) {
	repo := newFakeTicketRepo()
	reps := newFakeSalesRepo(
		&sales.SalesUser{FirstName: "Ravi", SalesID: "S-1", Workload: 3},
		&sales.SalesUser{FirstName: "Meera", SalesID: "S-2", Workload: 1},
	)
	svc, notifier := newTestService(t, repo, reps, nil)

	created, err := svc.CreateTicket(context.Background(), validInput())
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(created.TicketID, "TKT-"))
	assert.Len(t, created.SecretCode, 4)
	assert.Equal(t, TicketStatusOpen, created.Status)
	require.Len(t, created.Thread, 1)
	assert.Equal(t, SenderRoleUser, created.Thread[0].SenderRole)

	// least-loaded rep gets the ticket
	assert.Equal(t, "S-2", created.AssignedTo)
	assert.False(t, created.NeedsRouting)

	stored := repo.get(created.TicketID)
	require.NotNil(t, stored)
	assert.Equal(t, "S-2", stored.AssignedTo)

	assert.Equal(t, []NotifyEvent{NotifyEventCreated}, notifier.Events())
}

func TestCreateTicketValidation(t *testing.T) {
	repo := newFakeTicketRepo()
	svc, _ := newTestService(t, repo, newFakeSalesRepo(), nil)

	in := validInput()
	in.Subject = ""
	in.UserEmail = ""

	_, err := svc.CreateTicket(context.Background(), in)
	require.Error(t, err)
	assert.True(t, apperrors.IsCode(err, "VALIDATION_FAILED"))
}

func TestCreateTicketWithoutCapacityStillSucceeds(t *testing.T) {
	repo := newFakeTicketRepo()
	svc, notifier := newTestService(t, repo, newFakeSalesRepo(), nil)

	created, err := svc.CreateTicket(context.Background(), validInput())
	require.NoError(t, err)

	assert.Empty(t, created.AssignedTo)
	stored := repo.get(created.TicketID)
	require.NotNil(t, stored)
	assert.True(t, stored.NeedsRouting)

	// the submitter is still told the ticket exists
	assert.Equal(t, []NotifyEvent{NotifyEventCreated}, notifier.Events())
}

func TestCloseTicketSecretCodeGate(t *testing.T) {
	repo := newFakeTicketRepo()
	reps := newFakeSalesRepo(&sales.SalesUser{FirstName: "Ravi", SalesID: "S-1"})
	svc, notifier := newTestService(t, repo, reps, nil)

	created, err := svc.CreateTicket(context.Background(), validInput())
	require.NoError(t, err)

	_, err = svc.CloseTicket(context.Background(), created.TicketID, "wrong")
	require.Error(t, err)
	assert.True(t, apperrors.IsCode(err, "UNAUTHORIZED"))

	stored := repo.get(created.TicketID)
	assert.Equal(t, TicketStatusOpen, stored.Status)

	closed, err := svc.CloseTicket(context.Background(), created.TicketID, created.SecretCode)
	require.NoError(t, err)
	assert.Equal(t, TicketStatusResolved, closed.Status)
	assert.True(t, closed.Closed)
	require.NotNil(t, closed.ClosedAt)

	assert.Contains(t, notifier.Events(), NotifyEventClosed)
}

func TestCloseTicketTwiceConflicts(t *testing.T) {
	repo := newFakeTicketRepo()
	svc, notifier := newTestService(t, repo, newFakeSalesRepo(&sales.SalesUser{SalesID: "S-1"}), nil)

	created, err := svc.CreateTicket(context.Background(), validInput())
	require.NoError(t, err)

	_, err = svc.CloseTicket(context.Background(), created.TicketID, created.SecretCode)
	require.NoError(t, err)

	_, err = svc.CloseTicket(context.Background(), created.TicketID, created.SecretCode)
	require.Error(t, err)
	assert.True(t, apperrors.IsCode(err, "CONFLICT"))

	// the rejected second close must not re-notify the submitter
	closedEvents := 0
	for _, ev := range notifier.Events() {
		if ev == NotifyEventClosed {
			closedEvents++
		}
	}
	assert.Equal(t, 1, closedEvents)
}

func TestCloseTicketNotFound(t *testing.T) {
	repo := newFakeTicketRepo()
	svc, _ := newTestService(t, repo, newFakeSalesRepo(), nil)

	_, err := svc.CloseTicket(context.Background(), "TKT-MISSING", "0000")
	require.Error(t, err)
	assert.True(t, apperrors.IsCode(err, "NOT_FOUND"))
}

func TestAppendMessageMovesOpenToInProgress(t *testing.T) {
	repo := newFakeTicketRepo()
	svc, _ := newTestService(t, repo, newFakeSalesRepo(&sales.SalesUser{SalesID: "S-1"}), nil)

	created, err := svc.CreateTicket(context.Background(), validInput())
	require.NoError(t, err)

	// a submitter follow-up keeps the ticket open
	updated, err := svc.AppendMessage(context.Background(), created.TicketID, "Asha Verma", SenderRoleUser, "Any update?")
	require.NoError(t, err)
	assert.Equal(t, TicketStatusOpen, updated.Status)

	// first agent reply starts progress
	updated, err = svc.AppendMessage(context.Background(), created.TicketID, "support-bot", SenderRoleBot, "Looking into it.")
	require.NoError(t, err)
	assert.Equal(t, TicketStatusInProgress, updated.Status)
	assert.Len(t, updated.Thread, 3)

	stored := repo.get(created.TicketID)
	assert.Equal(t, TicketStatusInProgress, stored.Status)
}

func TestResolveByAdminOverride(t *testing.T) {
	repo := newFakeTicketRepo()
	cfg := &config.Config{ResolveSecret: "override-key", EscalationAgeHours: 48}
	svc, _ := newTestService(t, repo, newFakeSalesRepo(&sales.SalesUser{SalesID: "S-1"}), cfg)

	created, err := svc.CreateTicket(context.Background(), validInput())
	require.NoError(t, err)

	_, err = svc.ResolveByAdmin(context.Background(), created.TicketID, "nope")
	require.Error(t, err)
	assert.True(t, apperrors.IsCode(err, "UNAUTHORIZED"))

	resolved, err := svc.ResolveByAdmin(context.Background(), created.TicketID, "override-key")
	require.NoError(t, err)
	assert.Equal(t, TicketStatusResolved, resolved.Status)
}

func TestResolveByAdminDisabledWhenUnconfigured(t *testing.T) {
	repo := newFakeTicketRepo()
	svc, _ := newTestService(t, repo, newFakeSalesRepo(), nil)

	created, err := svc.CreateTicket(context.Background(), validInput())
	require.NoError(t, err)

	_, err = svc.ResolveByAdmin(context.Background(), created.TicketID, "")
	require.Error(t, err)
	assert.True(t, apperrors.IsCode(err, "UNAUTHORIZED"))
}

func TestSetEvaluationDoesNotTouchStatus(t *testing.T) {
	repo := newFakeTicketRepo()
	svc, _ := newTestService(t, repo, newFakeSalesRepo(&sales.SalesUser{SalesID: "S-1"}), nil)

	created, err := svc.CreateTicket(context.Background(), validInput())
	require.NoError(t, err)

	updated, err := svc.SetEvaluation(context.Background(), created.TicketID, true)
	require.NoError(t, err)
	assert.True(t, updated.Evaluation)
	assert.Equal(t, TicketStatusOpen, updated.Status)
}

func TestListUserTickets(t *testing.T) {
	repo := newFakeTicketRepo()
	svc, _ := newTestService(t, repo, newFakeSalesRepo(&sales.SalesUser{SalesID: "S-1"}), nil)

	_, err := svc.CreateTicket(context.Background(), validInput())
	require.NoError(t, err)

	other := validInput()
	other.UserID = "u-200"
	_, err = svc.CreateTicket(context.Background(), other)
	require.NoError(t, err)

	tickets, err := svc.ListUserTickets(context.Background(), "u-100")
	require.NoError(t, err)
	assert.Len(t, tickets, 1)
}
