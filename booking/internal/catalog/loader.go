// Package catalog holds the flight offers shown to the user. The list is
// fetched once; a failed fetch leaves it empty.
package catalog

import (
	"context"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/meetupaws/flight_ticket_booking/internal/contract"
)

type FlightSource interface {
	ListFlights(ctx context.Context) ([]contract.FlightOffer, error)
}

type Loader struct {
	source FlightSource
	log    logrus.FieldLogger

	mu      sync.Mutex
	flights []contract.FlightOffer
	err     error
	loaded  bool
	closed  bool
}

// Load fetches the catalog and replaces the in-memory list on success.
// The error is returned for the caller's information only; the list is
// left untouched on failure and no retry is attempted. A load that
// completes after Close is discarded.
func (l *Loader) Load(ctx context.Context) error {
	flights, err := l.source.ListFlights(ctx)

	l.mu.Lock()
	defer l.mu.Unlock()
	if l.closed {
		l.log.Debug("catalog load finished after close, discarding")
		return nil
	}
	l.loaded = true
	if err != nil {
		l.err = err
		l.log.WithError(err).Warn("flight catalog unavailable")
		return err
	}
	l.flights = flights
	l.err = nil
	l.log.WithField("count", len(flights)).Info("flight catalog loaded")
	return nil
}

// Flights returns a copy of the current list.
func (l *Loader) Flights() []contract.FlightOffer {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]contract.FlightOffer, len(l.flights))
	copy(out, l.flights)
	return out
}

func (l *Loader) Find(id string) (contract.FlightOffer, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	for _, f := range l.flights {
		if string(f.ID) == id {
			return f, true
		}
	}
	return contract.FlightOffer{}, false
}

// Status reports whether a load has completed and the error of the last one.
func (l *Loader) Status() (loaded bool, err error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.loaded, l.err
}

func (l *Loader) Close() {
	l.mu.Lock()
	l.closed = true
	l.mu.Unlock()
}

func NewLoader(source FlightSource, log logrus.FieldLogger) *Loader {
	return &Loader{
		source:  source,
		log:     log,
		flights: []contract.FlightOffer{},
	}
}
