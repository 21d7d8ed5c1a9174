package account

import (
	"github.com/benbjohnson/clock"
	"go.uber.org/zap"

	"sigil/internal/keystore"
)

// Option configures a Service.
type Option func(*Service)

// WithLogger sets the logger. The default discards everything.
func WithLogger(log *zap.Logger) Option {
	return func(s *Service) {
		if log != nil {
			s.log = log
		}
	}
}

// WithClock replaces the wall clock used for timestamps and auto-lock.
func WithClock(c clock.Clock) Option {
	return func(s *Service) {
		if c != nil {
			s.clock = c
		}
	}
}

// WithSealer sets the keystore sealer, typically to choose argon2 costs.
func WithSealer(sealer *keystore.Sealer) Option {
	return func(s *Service) {
		if sealer != nil {
			s.sealer = sealer
		}
	}
}
