package transport

import (
	"errors"
	"fmt"
	"time"
)

var (
	// ErrTimeout is returned when no payload arrived within the wait cycles.
	ErrTimeout = errors.New("transport timeout")

	// ErrConnect is returned when the connection could not be established or
	// was lost before a payload arrived.
	ErrConnect = errors.New("transport connect failure")
)

// TimeoutError reports an exhausted wait on a connection.
type TimeoutError struct {
	URL    string
	Cycles int
	Wait   time.Duration
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("transport timeout: no payload from %s after %d wait cycles of %v", e.URL, e.Cycles, e.Wait)
}

// Is makes errors.Is(err, ErrTimeout) match.
func (e *TimeoutError) Is(target error) bool {
	return target == ErrTimeout
}
