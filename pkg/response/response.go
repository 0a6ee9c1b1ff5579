package response

import (
	"sync"
	"time"
)

const (
	DefaultSuccessMessage = "Success"
	DefaultErrorMessage   = "Error"
)

// The envelope clock is process-wide. Handlers never touch it; only
// SetClock swaps it, under clockMu.
var (
	clockMu sync.RWMutex
	clock   = time.Now
)

// SetClock replaces the clock used to stamp envelopes and returns a func
// that restores the previous one.
func SetClock(now func() time.Time) (restore func()) {
	clockMu.Lock()
	prev := clock
	clock = now
	clockMu.Unlock()
	return func() {
		clockMu.Lock()
		clock = prev
		clockMu.Unlock()
	}
}

func now() time.Time {
	clockMu.RLock()
	defer clockMu.RUnlock()
	return clock()
}

// Envelope is the uniform body returned by every /api/users endpoint.
type Envelope[T any] struct {
	Success   bool   `json:"success"`
	Data      T      `json:"data"`
	Message   string `json:"message"`
	Timestamp string `json:"timestamp"`
}

func build[T any](success bool, data T, message string) Envelope[T] {
	return Envelope[T]{
		Success:   success,
		Data:      data,
		Message:   message,
		Timestamp: Timestamp(now()),
	}
}

// Success wraps data in a successful envelope. The message defaults to "Success".
func Success[T any](data T, message ...string) Envelope[T] {
	msg := DefaultSuccessMessage
	if len(message) > 0 && message[0] != "" {
		msg = message[0]
	}
	return build(true, data, msg)
}

// Error builds a failed envelope. An empty message becomes "Error".
func Error(message string) Envelope[any] {
	return ErrorWithData[any](message, nil)
}

// ErrorWithData builds a failed envelope carrying details, e.g. field errors.
func ErrorWithData[T any](message string, data T) Envelope[T] {
	if message == "" {
		message = DefaultErrorMessage
	}
	return build(false, data, message)
}

// Timestamp formats t as an ISO-8601 UTC instant with millisecond precision.
func Timestamp(t time.Time) string {
	return t.UTC().Format("2006-01-02T15:04:05.000Z07:00")
}
