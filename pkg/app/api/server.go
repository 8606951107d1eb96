// Package api implements app.Runner for the wallet API server process.
package api

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/uptrace/bun"
	"go.uber.org/zap"

	apphttp "github.com/chainsafe/token-wallet/pkg/app/http"
	"github.com/chainsafe/token-wallet/pkg/auth"
	"github.com/chainsafe/token-wallet/pkg/authz"
	"github.com/chainsafe/token-wallet/pkg/chain"
	"github.com/chainsafe/token-wallet/pkg/chain/cairo"
	"github.com/chainsafe/token-wallet/pkg/chain/evm"
	"github.com/chainsafe/token-wallet/pkg/config"
	"github.com/chainsafe/token-wallet/pkg/confirmation"
	"github.com/chainsafe/token-wallet/pkg/keys"
	"github.com/chainsafe/token-wallet/pkg/network"
	"github.com/chainsafe/token-wallet/pkg/pgutil"
	"github.com/chainsafe/token-wallet/pkg/portfolio"
	"github.com/chainsafe/token-wallet/pkg/simulation"
	"github.com/chainsafe/token-wallet/pkg/submission"
	"github.com/chainsafe/token-wallet/pkg/txstore"
	userservice "github.com/chainsafe/token-wallet/pkg/user/service"
	"github.com/chainsafe/token-wallet/pkg/userstore"
	walletservice "github.com/chainsafe/token-wallet/pkg/wallet/service"
)

// Server holds cfg to init the api server.
type Server struct {
	cfg *config.Config
}

// NewServer initializes new api server.
func NewServer(cfg *config.Config) *Server {
	return &Server{cfg: cfg}
}

// Run starts the server and blocks until SIGINT or SIGTERM.
func (s *Server) Run() error {
	if s.cfg == nil {
		return fmt.Errorf("api server config is nil")
	}
	cfg := s.cfg

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger, err := config.NewLogger(cfg.Logging)
	if err != nil {
		return fmt.Errorf("setup logger: %w", err)
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("Starting wallet API server",
		zap.String("host", cfg.Server.Host),
		zap.Int("port", cfg.Server.Port),
	)

	db, err := pgutil.ConnectDB(ctx, &cfg.Database, logger)
	if err != nil {
		return err
	}
	defer func() { _ = db.Close() }()

	masterKey, err := s.getMasterKey()
	if err != nil {
		return err
	}
	cipher, err := keys.NewMasterKeyCipher(masterKey)
	if err != nil {
		return fmt.Errorf("create key cipher: %w", err)
	}

	registry, err := s.loadNetworks()
	if err != nil {
		return err
	}

	adapters, closeAdapters, err := s.dialAdapters(ctx, registry, logger)
	if err != nil {
		return err
	}
	defer closeAdapters()

	sessions, err := auth.NewSessionManager(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)
	if err != nil {
		return fmt.Errorf("create session manager: %w", err)
	}

	userStore := userstore.NewStore(db)
	txStore := txstore.NewStore(db)

	gate := authz.NewGate(sessions, userStore,
		authz.WithLogger(logger),
		authz.WithTicketTTL(cfg.Auth.TicketTTL),
		authz.WithAttemptLimit(cfg.Auth.PINAttemptsPerMinute, cfg.Auth.PINBurst),
	)
	orchestrator := submission.NewOrchestrator(gate, adapters, txStore,
		submission.WithLogger(logger),
		submission.WithDispatchTimeout(cfg.Submission.DispatchTimeout),
		submission.WithGasFeeDisplay(cfg.Submission.GasFeeDisplay),
	)
	balances := portfolio.NewBalanceReader(adapters, logger)

	userService := userservice.NewService(userStore, sessions, cipher, logger)
	walletService := walletservice.NewService(walletservice.Deps{
		Registry:    registry,
		Sessions:    sessions,
		Users:       userStore,
		Gate:        gate,
		Submitter:   orchestrator,
		Simulator:   simulation.NewService(adapters, logger),
		Adapters:    adapters,
		History:     txStore,
		Holdings:    balances,
		Performance: portfolio.NewAggregator(txStore, nil),
		KeyCipher:   cipher,
		Logger:      logger,
	})

	stopConfirmation := s.startConfirmation(ctx, txStore, adapters, logger)
	// Stopped explicitly after ServeAndWait for a deterministic shutdown order.
	defer stopConfirmation()

	stopSnapshots := s.startSnapshots(userStore, txStore, balances, registry.All(), logger)
	defer stopSnapshots()

	router := s.setupRouter(
		db,
		sessions,
		userservice.NewLog(userService, logger),
		walletservice.NewLog(walletService, logger),
		logger,
	)

	err = apphttp.ServeAndWait(ctx, router, logger, &cfg.Server)

	// Stop background work before deferred DB and RPC closes kick in.
	stopConfirmation()
	stopSnapshots()

	return err
}

func (s *Server) getMasterKey() ([]byte, error) {
	masterKeyStr := os.Getenv(s.cfg.KeyManagement.MasterKeyEnv)
	if masterKeyStr == "" {
		return nil, fmt.Errorf(
			"master key not set: env=%s (hint: walletctl keys generate-master)",
			s.cfg.KeyManagement.MasterKeyEnv,
		)
	}

	masterKey, err := keys.MasterKeyFromBase64(masterKeyStr)
	if err != nil {
		return nil, fmt.Errorf("invalid master key: %w", err)
	}
	return masterKey, nil
}

func (s *Server) loadNetworks() (*network.Registry, error) {
	var (
		registry *network.Registry
		err      error
	)
	if path := s.cfg.Networks.RegistryPath; path != "" {
		registry, err = network.Load(path)
	} else {
		registry, err = network.Default()
	}
	if err != nil {
		return nil, fmt.Errorf("load network registry: %w", err)
	}

	registry, err = registry.WithRPCOverrides(s.cfg.Networks.RPCOverrides)
	if err != nil {
		return nil, fmt.Errorf("apply rpc overrides: %w", err)
	}
	return registry, nil
}

// dialAdapters connects one adapter per configured network. The returned
// func closes every RPC client.
func (s *Server) dialAdapters(ctx context.Context, registry *network.Registry, logger *zap.Logger) (*chain.Registry, func(), error) {
	netCfg := s.cfg.Networks
	retry := chain.RetryConfig{
		MaxAttempts: netCfg.Retry.MaxAttempts,
		BaseDelay:   netCfg.Retry.BaseDelay,
		MaxDelay:    netCfg.Retry.MaxDelay,
	}

	adapters := chain.NewRegistry()
	var closers []func()
	closeAll := func() {
		for _, c := range closers {
			c()
		}
	}

	for _, net := range registry.All() {
		dialCtx, cancel := context.WithTimeout(ctx, netCfg.RequestTimeout)
		var (
			adapter chain.Adapter
			err     error
		)
		switch net.Family {
		case network.FamilyEVM:
			a, client, dialErr := evm.Dial(dialCtx, net,
				evm.WithLogger(logger),
				evm.WithGasLimit(netCfg.EVM.GasLimit),
				evm.WithMaxGasPrice(netCfg.EVM.MaxGasPrice),
				evm.WithRetry(retry),
			)
			if dialErr == nil {
				closers = append(closers, client.Close)
			}
			adapter, err = a, dialErr
		case network.FamilyCairo:
			a, client, dialErr := cairo.Dial(dialCtx, net,
				cairo.WithLogger(logger),
				cairo.WithRetry(retry),
			)
			if dialErr == nil {
				closers = append(closers, client.Close)
			}
			adapter, err = a, dialErr
		default:
			err = fmt.Errorf("unsupported network family %q", net.Family)
		}
		cancel()
		if err != nil {
			closeAll()
			return nil, nil, err
		}

		adapters.Register(net.ID, adapter)
		logger.Info("Chain adapter ready",
			zap.String("network", string(net.ID)),
			zap.String("family", string(net.Family)),
			zap.String("rpc_url", net.RPCURL))
	}
	return adapters, closeAll, nil
}

func (s *Server) startConfirmation(
	ctx context.Context,
	store confirmation.Store,
	adapters confirmation.AdapterResolver,
	logger *zap.Logger,
) func() {
	cfg := s.cfg.Confirmation
	if !cfg.Enabled {
		logger.Info("Confirmation polling disabled")
		return func() {}
	}

	poller := confirmation.New(store, adapters,
		confirmation.WithLogger(logger),
		confirmation.WithBatchSize(cfg.BatchSize),
		confirmation.WithMaxPendingAge(cfg.MaxPendingAge),
	)

	if cfg.InitialTimeout > 0 {
		logger.Info("Running initial confirmation check", zap.Duration("timeout", cfg.InitialTimeout))
		startupCtx, cancel := context.WithTimeout(ctx, cfg.InitialTimeout)
		if _, err := poller.RunOnce(startupCtx); err != nil {
			logger.Warn("Initial confirmation check failed (will retry periodically)", zap.Error(err))
		}
		cancel()
	}

	logger.Info("Starting confirmation poller", zap.Duration("interval", cfg.Interval))
	poller.Start(cfg.Interval)
	return poller.Stop
}

func (s *Server) startSnapshots(
	users portfolio.UserLister,
	snapshots portfolio.SnapshotWriter,
	holdings portfolio.HoldingsReader,
	networks []*network.Network,
	logger *zap.Logger,
) func() {
	cfg := s.cfg.Portfolio
	if !cfg.SnapshotsEnabled {
		logger.Info("Portfolio snapshots disabled")
		return func() {}
	}

	snapshotter := portfolio.NewSnapshotter(users, snapshots, holdings, networks, logger)
	logger.Info("Starting portfolio snapshotter", zap.Duration("interval", cfg.SnapshotInterval))
	snapshotter.Start(cfg.SnapshotInterval)
	return snapshotter.Stop
}

func (s *Server) setupRouter(
	db *bun.DB,
	sessions *auth.SessionManager,
	userService userservice.Service,
	walletService walletservice.Service,
	logger *zap.Logger,
) chi.Router {
	r := chi.NewRouter()

	// Middleware stack
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(s.cfg.Server.RequestTimeout))

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})
	r.Get("/ready", func(w http.ResponseWriter, r *http.Request) {
		if err := db.PingContext(r.Context()); err != nil {
			logger.Warn("Readiness check failed", zap.Error(err))
			http.Error(w, "database unavailable", http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("READY"))
	})

	if s.cfg.Monitoring.Enabled {
		r.Handle("/metrics", promhttp.Handler())
	}

	r.Route("/api/v1", func(r chi.Router) {
		userservice.RegisterRoutes(r, userService, sessions, logger)
		walletservice.RegisterRoutes(r, walletService, sessions, logger)
	})

	return r
}
