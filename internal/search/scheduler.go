package search

import "time"

// DefaultQuietPeriod is how long the query must stay unchanged before it is
// dispatched.
const DefaultQuietPeriod = 500 * time.Millisecond

// Plan tells the caller what to do after a query change.
type Plan struct {
	// ShortCircuit is set for an empty query: nothing is dispatched and the
	// caller narrows the current results locally.
	ShortCircuit bool
	// Token identifies the armed timer. The caller fires it after After.
	Token uint64
	After time.Duration
}

// Request is a dispatched query tagged with its sequence number.
type Request struct {
	Seq   uint64
	Query Query
}

// Scheduler coalesces query edits into dispatches. It owns no timers: the
// caller arms one per Plan and reports back through Fire. At most one timer
// is pending; arming a new one supersedes the previous.
//
// Scheduler is not safe for concurrent use.
type Scheduler struct {
	quiet time.Duration

	token   uint64 // last token handed out
	armed   uint64 // pending token, 0 if none
	pending Query

	issued  uint64 // last request sequence issued
	applied uint64 // last request sequence whose response was applied
}

func NewScheduler(quiet time.Duration) *Scheduler {
	if quiet <= 0 {
		quiet = DefaultQuietPeriod
	}
	return &Scheduler{quiet: quiet}
}

// Change records a new query. Any pending timer is cancelled.
func (s *Scheduler) Change(q Query) Plan {
	if q.IsEmpty() {
		s.Invalidate()
		return Plan{ShortCircuit: true}
	}
	s.token++
	s.armed = s.token
	s.pending = q
	return Plan{Token: s.armed, After: s.quiet}
}

// Fire is called when the timer for token elapses. It returns false when the
// timer was superseded or cancelled in the meantime.
func (s *Scheduler) Fire(token uint64) (Request, bool) {
	if token == 0 || token != s.armed {
		return Request{}, false
	}
	s.armed = 0
	return s.issue(s.pending), true
}

// Now cancels any pending timer and dispatches q immediately.
func (s *Scheduler) Now(q Query) Request {
	s.armed = 0
	return s.issue(q)
}

func (s *Scheduler) issue(q Query) Request {
	s.issued++
	return Request{Seq: s.issued, Query: q}
}

// Settle decides whether the response to request seq should be applied.
// Responses older than the last applied one are stale and rejected.
func (s *Scheduler) Settle(seq uint64) bool {
	if seq <= s.applied {
		return false
	}
	s.applied = seq
	return true
}

// Invalidate cancels the pending timer and makes every response issued so
// far stale. In-flight requests still complete; their results are dropped.
func (s *Scheduler) Invalidate() {
	s.armed = 0
	s.issued++
	s.applied = s.issued
}
