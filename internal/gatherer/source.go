package gatherer

import (
	"context"
	"errors"
	"time"

	"cotizaciones/internal/domain"
	"cotizaciones/internal/normalize"
)

// ParseFunc decodes one raw payload into records keyed by remote branch code.
type ParseFunc func(data []byte) (normalize.Payload, error)

// Source is the data-driven definition of one exchange-house feed.
type Source struct {
	Code       string
	Name       string
	URL        string
	Parse      ParseFunc
	Currencies normalize.CurrencyTable
	Branches   normalize.BranchTable
}

// Validate checks that s can drive a gatherer.
func (s Source) Validate() error {
	switch {
	case s.Code == "":
		return errors.New("source code is required")
	case s.URL == "":
		return errors.New("source url is required")
	case s.Parse == nil:
		return errors.New("source parse func is required")
	}
	return nil
}

// Fetcher retrieves one raw payload. *transport.Bridge implements it.
type Fetcher interface {
	Fetch(ctx context.Context) ([]byte, error)
}

// Publisher receives every persisted batch of responses.
type Publisher interface {
	Publish(ctx context.Context, place *domain.Place, responses []*domain.QueryResponse) error
}

// Clock returns the current time.
type Clock func() time.Time
