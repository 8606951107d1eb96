package cairo

import (
	"go.uber.org/zap"

	"github.com/chainsafe/token-wallet/pkg/chain"
)

type settings struct {
	retry  chain.RetryConfig
	logger *zap.Logger
}

// Option configures an Adapter.
type Option func(*settings)

// WithLogger sets the adapter logger.
func WithLogger(l *zap.Logger) Option {
	return func(s *settings) { s.logger = l }
}

// WithRetry sets the retry policy for read calls.
func WithRetry(cfg chain.RetryConfig) Option {
	return func(s *settings) { s.retry = cfg }
}

func applyOptions(opts []Option) settings {
	s := settings{retry: chain.DefaultRetryConfig()}
	for _, opt := range opts {
		if opt != nil {
			opt(&s)
		}
	}
	if s.logger == nil {
		s.logger = zap.NewNop()
	}
	return s
}
