// Package forward dispatches signup records to external collaborators
// (spreadsheet webhook, CRM) without letting their outcome touch the
// caller-facing response.
package forward

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"server/internal/domain"
)

const defaultTimeout = 5 * time.Second

// Forwarder delivers one signup record to an external destination.
type Forwarder interface {
	Name() string
	Forward(ctx context.Context, user domain.User) error
}

// Dispatcher fans signup records out to its forwarders on detached
// goroutines. Failures are observable only through logs: registration must
// succeed even when every destination is down.
type Dispatcher struct {
	forwarders []Forwarder
	logger     zerolog.Logger
	timeout    time.Duration
	wg         sync.WaitGroup
}

func NewDispatcher(logger zerolog.Logger, timeout time.Duration, forwarders ...Forwarder) *Dispatcher {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Dispatcher{forwarders: forwarders, logger: logger, timeout: timeout}
}

// Dispatch sends the record to every forwarder and returns immediately.
// Each delivery runs under its own timeout, detached from the request
// context so an already-answered request cannot cancel it.
func (d *Dispatcher) Dispatch(user domain.User) {
	for _, f := range d.forwarders {
		d.wg.Add(1)
		go func(f Forwarder) {
			defer d.wg.Done()
			ctx, cancel := context.WithTimeout(context.Background(), d.timeout)
			defer cancel()
			if err := f.Forward(ctx, user); err != nil {
				d.logger.Error().Err(err).Str("forwarder", f.Name()).Str("email", user.Email).Msg("signup forwarding failed")
				return
			}
			d.logger.Debug().Str("forwarder", f.Name()).Str("email", user.Email).Msg("signup forwarded")
		}(f)
	}
}

// Wait blocks until all in-flight deliveries finish. Used on shutdown and in
// tests.
func (d *Dispatcher) Wait() {
	d.wg.Wait()
}
