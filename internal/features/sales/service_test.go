package sales

import (
	"context"
	"sync"
	"testing"

	"go-placement/pkg/apperrors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

type memSalesRepo struct {
	mu   sync.Mutex
	reps []*SalesUser
}

func (r *memSalesRepo) Create(ctx context.Context, user *SalesUser) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	user.ID = primitive.NewObjectID()
	r.reps = append(r.reps, user)
	return nil
}

func (r *memSalesRepo) FindByID(ctx context.Context, id primitive.ObjectID) (*SalesUser, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, rep := range r.reps {
		if rep.ID == id {
			return rep, nil
		}
	}
	return nil, apperrors.NewNotFound("sales user", nil)
}

func (r *memSalesRepo) FindBySalesID(ctx context.Context, salesID string) (*SalesUser, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, rep := range r.reps {
		if rep.SalesID == salesID {
			return rep, nil
		}
	}
	return nil, apperrors.NewNotFound("sales user", nil)
}

func (r *memSalesRepo) FindAll(ctx context.Context) ([]SalesUser, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]SalesUser, 0, len(r.reps))
	for _, rep := range r.reps {
		out = append(out, *rep)
	}
	return out, nil
}

func (r *memSalesRepo) AcquireLeastLoaded(ctx context.Context) (*SalesUser, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var best *SalesUser
	for _, rep := range r.reps {
		if best == nil || rep.Workload < best.Workload {
			best = rep
		}
	}
	if best == nil {
		return nil, apperrors.NewNoCapacity("no sales representative available")
	}
	best.Workload++
	return best, nil
}

func (r *memSalesRepo) AdjustWorkload(ctx context.Context, id primitive.ObjectID, delta int64) error {
	return nil
}

func TestCreateRepRequiresFields(t *testing.T) {
	svc := NewSalesService(&memSalesRepo{}, zap.NewNop())

	_, err := svc.CreateRep(context.Background(), CreateRepInput{LastName: "Nair"})
	require.Error(t, err)
	assert.True(t, apperrors.IsCode(err, "VALIDATION_FAILED"))
}

func TestCreateRepRejectsDuplicateSalesID(t *testing.T) {
	repo := &memSalesRepo{}
	svc := NewSalesService(repo, zap.NewNop())

	in := CreateRepInput{FirstName: "Meera", Email: "meera@example.com", SalesID: "S-1"}
	_, err := svc.CreateRep(context.Background(), in)
	require.NoError(t, err)

	_, err = svc.CreateRep(context.Background(), in)
	require.Error(t, err)
	assert.True(t, apperrors.IsCode(err, "CONFLICT"))
}

func TestCreateRepStartsWithZeroWorkload(t *testing.T) {
	svc := NewSalesService(&memSalesRepo{}, zap.NewNop())

	rep, err := svc.CreateRep(context.Background(), CreateRepInput{
		FirstName: "Meera", LastName: "Nair", Email: "meera@example.com", SalesID: "S-1",
	})
	require.NoError(t, err)
	assert.Equal(t, int64(0), rep.Workload)
	assert.True(t, rep.IsFree)
	assert.Equal(t, "Meera Nair", rep.DisplayName())
}

func TestWorkloadPolicyDefaults(t *testing.T) {
	assert.Equal(t, int64(0), NewWorkloadPolicy().ResolveDelta())
	assert.Equal(t, int64(-1), ReleasingWorkload{}.ResolveDelta())
}
