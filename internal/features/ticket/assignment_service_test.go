package ticket

import (
	"context"
	"testing"

	"go-placement/internal/features/sales"
	"go-placement/pkg/apperrors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestAssignPicksLeastLoadedRep(t *testing.T) {
	repo := newFakeTicketRepo()
	reps := newFakeSalesRepo(
		&sales.SalesUser{FirstName: "Ravi", LastName: "Kumar", SalesID: "S-1", Workload: 5},
		&sales.SalesUser{FirstName: "Meera", LastName: "Nair", SalesID: "S-2", Workload: 2},
		&sales.SalesUser{FirstName: "John", LastName: "Das", SalesID: "S-3", Workload: 7},
	)
	svc := NewAssignmentService(repo, reps, stubAudit{}, zap.NewNop())

	tk := &Ticket{TicketID: "TKT-1", Subject: "s", Status: TicketStatusOpen}
	require.NoError(t, repo.Create(context.Background(), tk))

	result, err := svc.Assign(context.Background(), tk)
	require.NoError(t, err)

	assert.Equal(t, "S-2", result.Ticket.AssignedTo)
	assert.Equal(t, "Meera Nair", result.Ticket.SalesPerson)
	assert.Equal(t, int64(3), result.SalesUser.Workload)
}

func TestAssignSpreadsLoadAcrossReps(t *testing.T) {
	repo := newFakeTicketRepo()
	reps := newFakeSalesRepo(
		&sales.SalesUser{FirstName: "Ravi", SalesID: "S-1"},
		&sales.SalesUser{FirstName: "Meera", SalesID: "S-2"},
	)
	svc := NewAssignmentService(repo, reps, stubAudit{}, zap.NewNop())

	counts := map[string]int{}
	for i := 0; i < 6; i++ {
		tk := &Ticket{TicketID: "TKT-" + string(rune('A'+i)), Status: TicketStatusOpen}
		require.NoError(t, repo.Create(context.Background(), tk))

		result, err := svc.Assign(context.Background(), tk)
		require.NoError(t, err)
		counts[result.Ticket.AssignedTo]++
	}

	// workload-ordered selection keeps the split even
	assert.Equal(t, 3, counts["S-1"])
	assert.Equal(t, 3, counts["S-2"])
}

func TestAssignWithoutRepsFlagsForRouting(t *testing.T) {
	repo := newFakeTicketRepo()
	svc := NewAssignmentService(repo, newFakeSalesRepo(), stubAudit{}, zap.NewNop())

	tk := &Ticket{TicketID: "TKT-1", Status: TicketStatusOpen}
	require.NoError(t, repo.Create(context.Background(), tk))

	_, err := svc.Assign(context.Background(), tk)
	require.Error(t, err)
	assert.True(t, apperrors.IsCode(err, "NO_CAPACITY"))

	stored := repo.get("TKT-1")
	assert.True(t, stored.NeedsRouting)
	assert.Empty(t, stored.AssignedTo)
}
