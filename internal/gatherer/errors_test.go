package gatherer

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"cotizaciones/internal/transport"
)

func TestFetchErrorClassification(t *testing.T) {
	tests := []struct {
		name string
		err  error
		kind Kind
		is   error
	}{
		{"timeout", &transport.TimeoutError{URL: "ws://x", Cycles: 4}, KindTransportTimeout, ErrTransportTimeout},
		{"connect", fmt.Errorf("dial: %w", transport.ErrConnect), KindTransportConnect, ErrTransportConnect},
		{"canceled", context.Canceled, KindCanceled, ErrCanceled},
		{"deadline", context.DeadlineExceeded, KindCanceled, ErrCanceled},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := fetchError("SRC", tt.err)
			if err.Kind != tt.kind {
				t.Errorf("Kind = %s, want %s", err.Kind, tt.kind)
			}
			if !errors.Is(err, tt.is) {
				t.Errorf("errors.Is(%v, %v) = false", err, tt.is)
			}
			if !errors.Is(err, tt.err) {
				t.Error("cause must stay reachable through Unwrap")
			}
		})
	}
}

func TestErrorIsOnlyMatchesOwnKind(t *testing.T) {
	err := parseError("SRC", errors.New("bad json"))

	if !errors.Is(err, ErrParse) {
		t.Error("expected ErrParse")
	}
	for _, other := range []error{ErrTransportTimeout, ErrTransportConnect, ErrRegistry, ErrCanceled} {
		if errors.Is(err, other) {
			t.Errorf("parse error must not match %v", other)
		}
	}
}

func TestRegistryError(t *testing.T) {
	err := registryError("SRC", "save place", errors.New("db down"))
	if err.Kind != KindRegistry {
		t.Errorf("Kind = %s, want %s", err.Kind, KindRegistry)
	}
	if err.Error() != "SRC: registry: save place: db down" {
		t.Errorf("unexpected message %q", err.Error())
	}

	err = registryError("SRC", "save place", fmt.Errorf("tx: %w", context.Canceled))
	if err.Kind != KindCanceled {
		t.Errorf("Kind = %s, want %s", err.Kind, KindCanceled)
	}
}

func TestKindOf(t *testing.T) {
	wrapped := fmt.Errorf("outer: %w", &Error{Source: "SRC", Kind: KindParse, Err: errors.New("x")})

	kind, ok := KindOf(wrapped)
	if !ok || kind != KindParse {
		t.Errorf("KindOf = %s, %v", kind, ok)
	}
	if _, ok := KindOf(errors.New("plain")); ok {
		t.Error("plain error has no kind")
	}
}
