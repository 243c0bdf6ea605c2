package gatherer

import (
	"context"
	"fmt"
	"sort"

	"golang.org/x/sync/errgroup"

	"cotizaciones/internal/domain"
)

// Set is the registry of gatherer variants, keyed by source code.
type Set struct {
	byCode map[string]Gatherer
	codes  []string
}

// NewSet builds a set from gs. Codes must be unique.
func NewSet(gs ...Gatherer) (*Set, error) {
	s := &Set{byCode: make(map[string]Gatherer, len(gs))}
	for _, g := range gs {
		code := g.Code()
		if _, dup := s.byCode[code]; dup {
			return nil, fmt.Errorf("duplicate gatherer code %q", code)
		}
		s.byCode[code] = g
		s.codes = append(s.codes, code)
	}
	sort.Strings(s.codes)
	return s, nil
}

// Get returns the gatherer registered under code.
func (s *Set) Get(code string) (Gatherer, bool) {
	g, ok := s.byCode[code]
	return g, ok
}

// Codes returns the registered source codes in lexical order.
func (s *Set) Codes() []string {
	return append([]string(nil), s.codes...)
}

// Len returns the number of registered gatherers.
func (s *Set) Len() int {
	return len(s.codes)
}

// Result is the outcome of one gatherer in QueryAll.
type Result struct {
	Code      string                  `json:"code"`
	Responses []*domain.QueryResponse `json:"responses,omitempty"`
	Err       error                   `json:"-"`
}

// QueryAll runs DoQuery on every gatherer concurrently, one task per source.
// A failing source does not cancel the others. Results follow Codes order.
func (s *Set) QueryAll(ctx context.Context) []Result {
	results := make([]Result, len(s.codes))

	var g errgroup.Group
	for i, code := range s.codes {
		results[i].Code = code
		gatherer := s.byCode[code]
		g.Go(func() error {
			results[i].Responses, results[i].Err = gatherer.DoQuery(ctx)
			return nil
		})
	}
	_ = g.Wait()

	return results
}
