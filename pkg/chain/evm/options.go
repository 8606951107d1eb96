package evm

import (
	"math/big"

	"go.uber.org/zap"

	"github.com/chainsafe/token-wallet/pkg/chain"
)

const defaultGasLimit = 100_000

type settings struct {
	gasLimit    uint64
	maxGasPrice *big.Int
	retry       chain.RetryConfig
	logger      *zap.Logger
}

// Option configures an Adapter.
type Option func(*settings)

// WithLogger sets the adapter logger.
func WithLogger(l *zap.Logger) Option {
	return func(s *settings) { s.logger = l }
}

// WithGasLimit sets the gas limit used for token transfers.
func WithGasLimit(limit uint64) Option {
	return func(s *settings) { s.gasLimit = limit }
}

// WithMaxGasPrice caps the gas price in wei. Empty or invalid values leave it uncapped.
func WithMaxGasPrice(wei string) Option {
	return func(s *settings) {
		if v, ok := new(big.Int).SetString(wei, 10); ok && v.Sign() > 0 {
			s.maxGasPrice = v
		}
	}
}

// WithRetry sets the retry policy for read calls.
func WithRetry(cfg chain.RetryConfig) Option {
	return func(s *settings) { s.retry = cfg }
}

func applyOptions(opts []Option) settings {
	s := settings{gasLimit: defaultGasLimit, retry: chain.DefaultRetryConfig()}
	for _, opt := range opts {
		if opt != nil {
			opt(&s)
		}
	}
	if s.logger == nil {
		s.logger = zap.NewNop()
	}
	if s.gasLimit == 0 {
		s.gasLimit = defaultGasLimit
	}
	return s
}
