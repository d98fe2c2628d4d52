package alogger

import "sync"

// queue is the MPSC ingress: producers push under a short-held mutex,
// the worker swaps the whole backing slice out in one call rather than
// copying record-by-record.
type queue struct {
	mu      sync.Mutex
	pending []*Record
}

func (q *queue) push(r *Record) {
	q.mu.Lock()
	q.pending = append(q.pending, r)
	q.mu.Unlock()
}

// swap detaches the current pending slice and hands it to the caller,
// leaving the queue empty for new arrivals.
func (q *queue) swap() []*Record {
	q.mu.Lock()
	out := q.pending
	q.pending = nil
	q.mu.Unlock()
	return out
}

func (q *queue) empty() bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.pending) == 0
}
