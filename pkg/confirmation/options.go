package confirmation

import (
	"time"

	"go.uber.org/zap"
)

const (
	defaultBatchSize     = 100
	defaultMaxPendingAge = 24 * time.Hour
)

type settings struct {
	logger        *zap.Logger
	batchSize     int
	maxPendingAge time.Duration
	now           func() time.Time
}

// Option configures a Poller.
type Option func(*settings)

// WithLogger sets the logger.
func WithLogger(l *zap.Logger) Option {
	return func(s *settings) { s.logger = l }
}

// WithBatchSize limits how many pending records one run inspects.
func WithBatchSize(n int) Option {
	return func(s *settings) { s.batchSize = n }
}

// WithMaxPendingAge sets how long a record may stay unresolved before it is
// marked failed. Zero disables expiry.
func WithMaxPendingAge(d time.Duration) Option {
	return func(s *settings) { s.maxPendingAge = d }
}

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(s *settings) { s.now = now }
}

func applyOptions(opts []Option) settings {
	s := settings{
		logger:        zap.NewNop(),
		batchSize:     defaultBatchSize,
		maxPendingAge: defaultMaxPendingAge,
		now:           time.Now,
	}
	for _, opt := range opts {
		opt(&s)
	}
	if s.logger == nil {
		s.logger = zap.NewNop()
	}
	if s.batchSize <= 0 {
		s.batchSize = defaultBatchSize
	}
	if s.now == nil {
		s.now = time.Now
	}
	return s
}
