package sales

// WorkloadPolicy decides what happens to a rep's workload counter when one
// of their tickets reaches a terminal state. Assignment always increments by
// one, atomically with selection.
//
// Whether the counter should ever come back down is ambiguous in the source
// system (it never does). Both readings are available so the choice is a
// wiring decision, not a code change.
type WorkloadPolicy interface {
	ResolveDelta() int64
}

// CumulativeWorkload is the observed behavior: the counter is a lifetime
// assignment count and never decreases.
type CumulativeWorkload struct{}

func (CumulativeWorkload) ResolveDelta() int64 { return 0 }

// ReleasingWorkload treats the counter as open load: resolving a ticket
// frees one slot on the assigned rep.
type ReleasingWorkload struct{}

func (ReleasingWorkload) ResolveDelta() int64 { return -1 }

// NewWorkloadPolicy returns the default policy.
func NewWorkloadPolicy() WorkloadPolicy {
	return CumulativeWorkload{}
}
