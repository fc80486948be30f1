package ticket

import (
	"context"
	"errors"
	"sync"
	"time"

	common_models "go-placement/internal/common/models"
	"go-placement/internal/features/sales"
	"go-placement/pkg/apperrors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

var errWriteFailed = errors.New("write failed")

// fakeTicketRepo is an in-memory TicketRepository. Reads return copies so
// tests observe the same read-then-write behavior as the real store.
type fakeTicketRepo struct {
	mu      sync.Mutex
	tickets map[primitive.ObjectID]*Ticket

	// afterFindStale, when set, runs after a stale scan returns. Tests use
	// it to mutate tickets between the scan and the per-ticket re-read.
	afterFindStale func()
}

func newFakeTicketRepo() *fakeTicketRepo {
	return &fakeTicketRepo{tickets: make(map[primitive.ObjectID]*Ticket)}
}

func (r *fakeTicketRepo) EnsureIndexes(ctx context.Context) error { return nil }

func (r *fakeTicketRepo) Create(ctx context.Context, t *Ticket) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	t.ID = primitive.NewObjectID()
	now := time.Now()
	if t.CreatedAt.IsZero() {
		t.CreatedAt = now
	}
	t.UpdatedAt = now

	stored := *t
	r.tickets[t.ID] = &stored
	return nil
}

func (r *fakeTicketRepo) FindByTicketID(ctx context.Context, ticketID string) (*Ticket, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, t := range r.tickets {
		if t.TicketID == ticketID {
			c := *t
			return &c, nil
		}
	}
	return nil, apperrors.NewNotFound("ticket", map[string]any{"ticket_id": ticketID})
}

func (r *fakeTicketRepo) FindByUser(ctx context.Context, userID string) ([]Ticket, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var out []Ticket
	for _, t := range r.tickets {
		if t.UserID == userID {
			out = append(out, *t)
		}
	}
	return out, nil
}

func (r *fakeTicketRepo) Update(ctx context.Context, id primitive.ObjectID, updates bson.M) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	t, ok := r.tickets[id]
	if !ok {
		return apperrors.NewNotFound("ticket", map[string]any{"id": id.Hex()})
	}
	for key, val := range updates {
		switch key {
		case "status":
			t.Status = val.(TicketStatus)
		case "closed":
			t.Closed = val.(bool)
		case "closed_at":
			ts := val.(time.Time)
			t.ClosedAt = &ts
		case "evaluation":
			t.Evaluation = val.(bool)
		case "needs_routing":
			t.NeedsRouting = val.(bool)
		case "escalated_to_manager":
			t.EscalatedToManager = val.(bool)
		case "assigned_to":
			t.AssignedTo = val.(string)
		case "sales_person":
			t.SalesPerson = val.(string)
		}
	}
	t.UpdatedAt = time.Now()
	return nil
}

func (r *fakeTicketRepo) PushMessage(ctx context.Context, id primitive.ObjectID, msg ThreadMessage) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	t, ok := r.tickets[id]
	if !ok {
		return apperrors.NewNotFound("ticket", map[string]any{"id": id.Hex()})
	}
	t.Thread = append(t.Thread, msg)
	return nil
}

func (r *fakeTicketRepo) Delete(ctx context.Context, ticketID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for id, t := range r.tickets {
		if t.TicketID == ticketID {
			delete(r.tickets, id)
			return nil
		}
	}
	return apperrors.NewNotFound("ticket", map[string]any{"ticket_id": ticketID})
}

func (r *fakeTicketRepo) FindStale(ctx context.Context, cutoff time.Time) ([]Ticket, error) {
	r.mu.Lock()
	var out []Ticket
	for _, t := range r.tickets {
		if t.Status.Terminal() || t.EscalatedToManager {
			continue
		}
		if t.CreatedAt.After(cutoff) {
			continue
		}
		out = append(out, *t)
	}
	r.mu.Unlock()

	if r.afterFindStale != nil {
		r.afterFindStale()
	}
	return out, nil
}

func (r *fakeTicketRepo) MarkEscalated(ctx context.Context, id primitive.ObjectID) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	t, ok := r.tickets[id]
	if !ok || t.EscalatedToManager {
		return false, nil
	}
	t.EscalatedToManager = true
	return true, nil
}

// get returns the stored ticket, bypassing the copy semantics, for
// assertions only.
func (r *fakeTicketRepo) get(ticketID string) *Ticket {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, t := range r.tickets {
		if t.TicketID == ticketID {
			return t
		}
	}
	return nil
}

// fakeSalesRepo is an in-memory sales.SalesRepository.
type fakeSalesRepo struct {
	mu   sync.Mutex
	reps []*sales.SalesUser
}

func newFakeSalesRepo(reps ...*sales.SalesUser) *fakeSalesRepo {
	for _, rep := range reps {
		if rep.ID.IsZero() {
			rep.ID = primitive.NewObjectID()
		}
	}
	return &fakeSalesRepo{reps: reps}
}

func (r *fakeSalesRepo) Create(ctx context.Context, user *sales.SalesUser) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	user.ID = primitive.NewObjectID()
	r.reps = append(r.reps, user)
	return nil
}

func (r *fakeSalesRepo) FindByID(ctx context.Context, id primitive.ObjectID) (*sales.SalesUser, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, rep := range r.reps {
		if rep.ID == id {
			c := *rep
			return &c, nil
		}
	}
	return nil, apperrors.NewNotFound("sales user", map[string]any{"id": id.Hex()})
}

func (r *fakeSalesRepo) FindBySalesID(ctx context.Context, salesID string) (*sales.SalesUser, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, rep := range r.reps {
		if rep.SalesID == salesID {
			c := *rep
			return &c, nil
		}
	}
	return nil, apperrors.NewNotFound("sales user", map[string]any{"sales_id": salesID})
}

func (r *fakeSalesRepo) FindAll(ctx context.Context) ([]sales.SalesUser, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]sales.SalesUser, 0, len(r.reps))
	for _, rep := range r.reps {
		out = append(out, *rep)
	}
	return out, nil
}

func (r *fakeSalesRepo) AcquireLeastLoaded(ctx context.Context) (*sales.SalesUser, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var best *sales.SalesUser
	for _, rep := range r.reps {
		if best == nil || rep.Workload < best.Workload {
			best = rep
		}
	}
	if best == nil {
		return nil, apperrors.NewNoCapacity("no sales representative available")
	}

	best.Workload++
	c := *best
	return &c, nil
}

func (r *fakeSalesRepo) AdjustWorkload(ctx context.Context, id primitive.ObjectID, delta int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, rep := range r.reps {
		if rep.ID == id {
			rep.Workload += delta
			return nil
		}
	}
	return apperrors.NewNotFound("sales user", map[string]any{"id": id.Hex()})
}

// fakeManagerRepo is an in-memory ManagerTicketRepository.
type fakeManagerRepo struct {
	mu      sync.Mutex
	tickets []ManagerTicket

	// beforeCreate, when set, runs ahead of each queue insert. Tests use it
	// to interleave work between the escalation claim and the copy.
	beforeCreate func()

	failCreate bool
}

func (r *fakeManagerRepo) Create(ctx context.Context, mt *ManagerTicket) error {
	if r.beforeCreate != nil {
		r.beforeCreate()
	}
	if r.failCreate {
		return errWriteFailed
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	mt.ID = primitive.NewObjectID()
	r.tickets = append(r.tickets, *mt)
	return nil
}

func (r *fakeManagerRepo) FindAll(ctx context.Context, page, limit int64) ([]ManagerTicket, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]ManagerTicket(nil), r.tickets...), int64(len(r.tickets)), nil
}

func (r *fakeManagerRepo) FindAllUnpaged(ctx context.Context) ([]ManagerTicket, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]ManagerTicket(nil), r.tickets...), nil
}

// recordingNotifier captures dispatched events instead of sending anything.
type recordingNotifier struct {
	mu     sync.Mutex
	events []NotifyEvent
}

func (n *recordingNotifier) Notify(ctx context.Context, event NotifyEvent, t *Ticket) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.events = append(n.events, event)
}

func (n *recordingNotifier) Events() []NotifyEvent {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]NotifyEvent(nil), n.events...)
}

// stubAudit satisfies audit.AuditService and drops everything.
type stubAudit struct{}

func (stubAudit) LogChange(ctx context.Context, action common_models.AuditAction, module, recordID string, changes map[string]common_models.Change) error {
	return nil
}

func (stubAudit) GetRecordHistory(ctx context.Context, module, recordID string, limit int64) ([]common_models.AuditLog, error) {
	return nil, nil
}
