package app

import (
	"sync"

	"github.com/dappr/dappr"
)

// Emitter receives the events of every successfully delivered message,
// after its changes were written.
type Emitter interface {
	Emit(ctx dappr.Context, events []dappr.Event)
}

// LogEmitter writes one info line per event to the context logger.
type LogEmitter struct{}

var _ Emitter = LogEmitter{}

func (LogEmitter) Emit(ctx dappr.Context, events []dappr.Event) {
	logger := dappr.GetLogger(ctx)
	for _, e := range events {
		logger.Info("event", "name", e.EventName(), "event", e)
	}
}

// Recorder keeps all emitted events in memory, in the emission order.
type Recorder struct {
	mu     sync.Mutex
	events []dappr.Event
}

var _ Emitter = (*Recorder)(nil)

// NewRecorder returns an empty recorder.
func NewRecorder() *Recorder {
	return &Recorder{}
}

func (r *Recorder) Emit(ctx dappr.Context, events []dappr.Event) {
	r.mu.Lock()
	r.events = append(r.events, events...)
	r.mu.Unlock()
}

// Events returns a copy of everything recorded so far.
func (r *Recorder) Events() []dappr.Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	res := make([]dappr.Event, len(r.events))
	copy(res, r.events)
	return res
}

// Reset drops all recorded events.
func (r *Recorder) Reset() {
	r.mu.Lock()
	r.events = nil
	r.mu.Unlock()
}
