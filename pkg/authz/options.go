package authz

import (
	"time"

	"go.uber.org/zap"
)

const (
	defaultTicketTTL         = 2 * time.Minute
	defaultAttemptsPerMinute = 5
	defaultBurst             = 5
)

type settings struct {
	logger            *zap.Logger
	ttl               time.Duration
	now               func() time.Time
	attemptsPerMinute float64
	burst             int
}

// Option configures a Gate.
type Option func(*settings)

// WithLogger sets the logger.
func WithLogger(l *zap.Logger) Option {
	return func(s *settings) { s.logger = l }
}

// WithTicketTTL sets how long an issued ticket stays valid.
func WithTicketTTL(ttl time.Duration) Option {
	return func(s *settings) { s.ttl = ttl }
}

// WithAttemptLimit sets the per-user PIN attempt rate and burst.
func WithAttemptLimit(perMinute float64, burst int) Option {
	return func(s *settings) {
		s.attemptsPerMinute = perMinute
		s.burst = burst
	}
}

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(s *settings) { s.now = now }
}

func applyOptions(opts []Option) settings {
	s := settings{
		logger:            zap.NewNop(),
		ttl:               defaultTicketTTL,
		now:               time.Now,
		attemptsPerMinute: defaultAttemptsPerMinute,
		burst:             defaultBurst,
	}
	for _, opt := range opts {
		opt(&s)
	}
	if s.ttl <= 0 {
		s.ttl = defaultTicketTTL
	}
	if s.burst <= 0 {
		s.burst = defaultBurst
	}
	if s.logger == nil {
		s.logger = zap.NewNop()
	}
	return s
}
