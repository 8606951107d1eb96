package submission

import (
	"time"

	"go.uber.org/zap"
)

const defaultDispatchTimeout = 45 * time.Second

type settings struct {
	logger          *zap.Logger
	dispatchTimeout time.Duration
	gasFee          string
}

// Option configures an Orchestrator.
type Option func(*settings)

// WithLogger sets the logger.
func WithLogger(l *zap.Logger) Option {
	return func(s *settings) { s.logger = l }
}

// WithDispatchTimeout bounds a single dispatch and the following record write.
func WithDispatchTimeout(d time.Duration) Option {
	return func(s *settings) { s.dispatchTimeout = d }
}

// WithGasFeeDisplay sets the gas fee string stored on send records.
func WithGasFeeDisplay(fee string) Option {
	return func(s *settings) { s.gasFee = fee }
}

func applyOptions(opts []Option) settings {
	s := settings{
		logger:          zap.NewNop(),
		dispatchTimeout: defaultDispatchTimeout,
	}
	for _, opt := range opts {
		opt(&s)
	}
	if s.logger == nil {
		s.logger = zap.NewNop()
	}
	if s.dispatchTimeout <= 0 {
		s.dispatchTimeout = defaultDispatchTimeout
	}
	return s
}
