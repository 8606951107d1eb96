package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/chainsafe/token-wallet/pkg/user"
)

const serviceName = "UserService"

// logService wraps Service with automatic logging of all method calls
type logService struct {
	svc    Service
	logger *zap.Logger
}

// NewLog creates a logging decorator for the user Service.
// PINs and session tokens are never logged.
func NewLog(svc Service, logger *zap.Logger) Service {
	return &logService{
		svc:    svc,
		logger: logger,
	}
}

func (ls *logService) done(method string, start time.Time, err error, fields ...zap.Field) {
	base := []zap.Field{
		zap.String("service", serviceName),
		zap.String("method", method),
		zap.Duration("duration", time.Since(start)),
	}
	if err != nil {
		ls.logger.Error(method+" failed", append(append(base, fields...), zap.Error(err))...)
		return
	}
	ls.logger.Info(method+" completed", append(base, fields...)...)
}

// Register wraps the service method with logging
func (ls *logService) Register(ctx context.Context, req *user.RegisterRequest) (resp *user.AuthResponse, err error) {
	start := time.Now()
	ls.logger.Info("Register started",
		zap.String("service", serviceName),
		zap.String("method", "Register"),
		zap.String("email", user.NormalizeEmail(req.Email)),
		zap.Bool("has_starknet_address", req.StarknetAddress != ""),
	)
	defer func() {
		if err != nil {
			ls.done("Register", start, err)
			return
		}
		ls.done("Register", start, nil,
			zap.Int64("user_id", resp.User.ID),
			zap.String("scroll_address", resp.User.ScrollAddress))
	}()

	return ls.svc.Register(ctx, req)
}

// Login wraps the service method with logging
func (ls *logService) Login(ctx context.Context, req *user.LoginRequest) (resp *user.AuthResponse, err error) {
	start := time.Now()
	ls.logger.Info("Login started",
		zap.String("service", serviceName),
		zap.String("method", "Login"),
		zap.String("email", user.NormalizeEmail(req.Email)),
	)
	defer func() {
		if err != nil {
			ls.done("Login", start, err)
			return
		}
		ls.done("Login", start, nil, zap.Int64("user_id", resp.User.ID))
	}()

	return ls.svc.Login(ctx, req)
}

// LinkStarknetAddress wraps the service method with logging
func (ls *logService) LinkStarknetAddress(ctx context.Context, userID int64, req *user.LinkAddressRequest) (profile *user.Profile, err error) {
	start := time.Now()
	ls.logger.Info("LinkStarknetAddress started",
		zap.String("service", serviceName),
		zap.String("method", "LinkStarknetAddress"),
		zap.Int64("user_id", userID),
		zap.String("starknet_address", req.StarknetAddress),
	)
	defer func() { ls.done("LinkStarknetAddress", start, err, zap.Int64("user_id", userID)) }()

	return ls.svc.LinkStarknetAddress(ctx, userID, req)
}

// Me wraps the service method with logging
func (ls *logService) Me(ctx context.Context, userID int64) (profile *user.Profile, err error) {
	start := time.Now()
	defer func() {
		if err != nil {
			ls.done("Me", start, err, zap.Int64("user_id", userID))
			return
		}
		ls.logger.Debug("Me completed",
			zap.String("service", serviceName),
			zap.Int64("user_id", userID),
			zap.Duration("duration", time.Since(start)))
	}()

	return ls.svc.Me(ctx, userID)
}
