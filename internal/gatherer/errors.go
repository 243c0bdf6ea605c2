package gatherer

import (
	"context"
	"errors"
	"fmt"

	"cotizaciones/internal/transport"
)

// Kind tags the stage a gatherer failure came from.
type Kind string

const (
	KindTransportTimeout Kind = "transport_timeout"
	KindTransportConnect Kind = "transport_connect"
	KindParse            Kind = "parse"
	KindRegistry         Kind = "registry"
	KindCanceled         Kind = "canceled"
)

// Sentinels matched by errors.Is against an *Error of the same kind.
var (
	ErrTransportTimeout = errors.New("transport timeout")
	ErrTransportConnect = errors.New("transport connect failure")
	ErrParse            = errors.New("parse failure")
	ErrRegistry         = errors.New("registry failure")
	ErrCanceled         = errors.New("query canceled")
)

var kindSentinels = map[Kind]error{
	KindTransportTimeout: ErrTransportTimeout,
	KindTransportConnect: ErrTransportConnect,
	KindParse:            ErrParse,
	KindRegistry:         ErrRegistry,
	KindCanceled:         ErrCanceled,
}

// Error is the single tagged failure returned by a gatherer.
type Error struct {
	Source string
	Kind   Kind
	Err    error
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s: %v", e.Source, e.Kind, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is reports whether target is the sentinel for e's kind.
func (e *Error) Is(target error) bool {
	return target != nil && kindSentinels[e.Kind] == target
}

// KindOf returns the kind of the first *Error in err's chain.
func KindOf(err error) (Kind, bool) {
	var gerr *Error
	if errors.As(err, &gerr) {
		return gerr.Kind, true
	}
	return "", false
}

func canceled(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}

// fetchError classifies an error returned by a Fetcher.
func fetchError(source string, err error) *Error {
	kind := KindTransportConnect
	switch {
	case errors.Is(err, transport.ErrTimeout):
		kind = KindTransportTimeout
	case canceled(err):
		kind = KindCanceled
	}
	return &Error{Source: source, Kind: kind, Err: err}
}

func parseError(source string, err error) *Error {
	return &Error{Source: source, Kind: KindParse, Err: err}
}

func registryError(source, op string, err error) *Error {
	kind := KindRegistry
	if canceled(err) {
		kind = KindCanceled
	}
	return &Error{Source: source, Kind: kind, Err: fmt.Errorf("%s: %w", op, err)}
}
