package frameengine

import (
	"context"
	"errors"
	"sync"

	"github.com/google/uuid"

	"github.com/raceview/frameengine/pkg/frame"
	"github.com/raceview/frameengine/pkg/metrics"
)

// ErrNoPending is returned by ProcessPending when no request is waiting.
var ErrNoPending = errors.New("frameengine: no pending request")

// Response pairs a resolved frame with the id of the request it answers, so
// callers can discard answers to superseded requests.
type Response struct {
	RequestID uuid.UUID
	Frame     *frame.Frame
}

// mailbox holds at most one pending request. A new submission replaces the
// previous one: while a decode/interpolate sequence is in flight, only the
// most recent request is worth answering.
type mailbox struct {
	mu      sync.Mutex
	pending *pendingRequest
}

type pendingRequest struct {
	id  uuid.UUID
	req Request
}

func (m *mailbox) put(req Request) (id uuid.UUID, superseded bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	superseded = m.pending != nil
	m.pending = &pendingRequest{id: uuid.New(), req: req}
	return m.pending.id, superseded
}

func (m *mailbox) take() (pendingRequest, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.pending == nil {
		return pendingRequest{}, false
	}
	p := *m.pending
	m.pending = nil
	return p, true
}

// Submit queues req as the only pending request, superseding any earlier
// one, and returns the id its eventual response will carry.
func (e *Engine) Submit(req Request) uuid.UUID {
	id, superseded := e.mailbox.put(req)
	if superseded {
		metrics.RequestsCoalescedTotal.Inc()
		logger.Tracef("superseded pending request with %s", id)
	}
	return id
}

// ProcessPending resolves the most recently submitted request, or returns
// ErrNoPending. The engine runs one request at a time; requests submitted
// while one is in flight collapse to the latest.
func (e *Engine) ProcessPending(ctx context.Context) (*Response, error) {
	p, ok := e.mailbox.take()
	if !ok {
		return nil, ErrNoPending
	}
	f, err := e.FrameAt(ctx, p.req)
	if err != nil {
		return nil, err
	}
	return &Response{RequestID: p.id, Frame: f}, nil
}
