// Package notify is the user-facing toast channel. Every mutation outcome
// produces exactly one toast; delivery is fire-and-forget.
package notify

import (
	"sync"

	"go.uber.org/zap"
)

// Toast levels.
const (
	LevelInfo    = "info"
	LevelSuccess = "success"
	LevelError   = "error"
)

// Toast is a single user-facing notification.
type Toast struct {
	Level   string `json:"level"`
	Message string `json:"message"`
}

// Sink receives toasts. Implementations must not block.
type Sink interface {
	Notify(t Toast)
}

// LogSink writes toasts to the structured log. It stands in for a real
// push channel; the frontend polls or subscribes elsewhere.
type LogSink struct {
	log *zap.Logger
}

func NewLogSink(log *zap.Logger) *LogSink {
	return &LogSink{log: log.Named("toast")}
}

func (s *LogSink) Notify(t Toast) {
	switch t.Level {
	case LevelError:
		s.log.Warn(t.Message, zap.String("level", t.Level))
	default:
		s.log.Info(t.Message, zap.String("level", t.Level))
	}
}

// Recorder captures toasts for tests.
type Recorder struct {
	mu     sync.Mutex
	toasts []Toast
}

func NewRecorder() *Recorder { return &Recorder{} }

func (r *Recorder) Notify(t Toast) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.toasts = append(r.toasts, t)
}

// Toasts returns a copy of everything recorded so far.
func (r *Recorder) Toasts() []Toast {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Toast, len(r.toasts))
	copy(out, r.toasts)
	return out
}

// Last returns the most recent toast, if any.
func (r *Recorder) Last() (Toast, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.toasts) == 0 {
		return Toast{}, false
	}
	return r.toasts[len(r.toasts)-1], true
}
