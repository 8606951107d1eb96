package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/chainsafe/token-wallet/pkg/portfolio"
	"github.com/chainsafe/token-wallet/pkg/simulation"
	"github.com/chainsafe/token-wallet/pkg/submission"
	"github.com/chainsafe/token-wallet/pkg/transaction"
	"github.com/chainsafe/token-wallet/pkg/wallet"
)

const serviceName = "WalletService"

// logService wraps Service with automatic logging of all method calls
type logService struct {
	svc    Service
	logger *zap.Logger
}

// NewLog creates a logging decorator for the wallet Service.
// PINs and session tokens are never logged.
func NewLog(svc Service, logger *zap.Logger) Service {
	return &logService{
		svc:    svc,
		logger: logger,
	}
}

func (ls *logService) started(method string, fields ...zap.Field) time.Time {
	ls.logger.Info(method+" started", append([]zap.Field{
		zap.String("service", serviceName),
		zap.String("method", method),
	}, fields...)...)
	return time.Now()
}

func (ls *logService) finished(method string, start time.Time, err error, fields ...zap.Field) {
	fields = append([]zap.Field{
		zap.String("service", serviceName),
		zap.String("method", method),
		zap.Duration("duration", time.Since(start)),
	}, fields...)
	if err != nil {
		ls.logger.Error(method+" failed", append(fields, zap.Error(err))...)
		return
	}
	ls.logger.Info(method+" completed", fields...)
}

// SubmitTransfer wraps the service method with logging
func (ls *logService) SubmitTransfer(ctx context.Context, sessionToken string, req *wallet.TransferRequest) (res *submission.Result, err error) {
	start := ls.started("SubmitTransfer",
		zap.String("network", req.Network),
		zap.String("token", req.Token),
		zap.String("recipient", req.Recipient),
		zap.String("amount", req.Amount),
		zap.Bool("pre_dispatched", req.TxHash != ""),
	)
	defer func() {
		if err != nil {
			ls.finished("SubmitTransfer", start, err)
			return
		}
		ls.finished("SubmitTransfer", start, nil,
			zap.String("tx_hash", res.TransactionHash),
			zap.Int64("record_id", res.RecordID),
			zap.String("status", string(res.Status)))
	}()

	return ls.svc.SubmitTransfer(ctx, sessionToken, req)
}

// SimulateTransfer wraps the service method with logging
func (ls *logService) SimulateTransfer(ctx context.Context, req *wallet.SimulateRequest) (out *simulation.Outcome, err error) {
	start := ls.started("SimulateTransfer",
		zap.String("network", req.Network),
		zap.String("token", req.Token),
		zap.String("from", req.From),
	)
	defer func() {
		if err != nil {
			ls.finished("SimulateTransfer", start, err)
			return
		}
		ls.finished("SimulateTransfer", start, nil, zap.String("execution_status", string(out.ExecutionStatus)))
	}()

	return ls.svc.SimulateTransfer(ctx, req)
}

// ListTransactions wraps the service method with logging
func (ls *logService) ListTransactions(ctx context.Context, q *wallet.HistoryQuery) (page *wallet.HistoryPage, err error) {
	start := time.Now()
	defer func() {
		if err != nil {
			ls.finished("ListTransactions", start, err, zap.String("wallet", q.WalletAddress))
			return
		}
		ls.logger.Debug("ListTransactions completed",
			zap.String("service", serviceName),
			zap.String("wallet", q.WalletAddress),
			zap.Int("count", len(page.Transactions)),
			zap.Duration("duration", time.Since(start)))
	}()

	return ls.svc.ListTransactions(ctx, q)
}

// GetTransaction wraps the service method with logging
func (ls *logService) GetTransaction(ctx context.Context, hash string) (view *transaction.View, err error) {
	start := time.Now()
	defer func() {
		if err != nil {
			ls.finished("GetTransaction", start, err, zap.String("tx_hash", hash))
		}
	}()

	return ls.svc.GetTransaction(ctx, hash)
}

// RecordTransaction wraps the service method with logging
func (ls *logService) RecordTransaction(ctx context.Context, req *wallet.RecordRequest) (view *transaction.View, err error) {
	start := ls.started("RecordTransaction",
		zap.String("network", req.Network),
		zap.String("type", req.Type),
		zap.String("tx_hash", req.Hash),
	)
	defer func() {
		if err != nil {
			ls.finished("RecordTransaction", start, err)
			return
		}
		ls.finished("RecordTransaction", start, nil, zap.Int64("record_id", view.ID))
	}()

	return ls.svc.RecordTransaction(ctx, req)
}

// GetPortfolio wraps the service method with logging
func (ls *logService) GetPortfolio(ctx context.Context, sessionToken, networkID, walletAddress string) (p *wallet.Portfolio, err error) {
	start := time.Now()
	defer func() {
		if err != nil {
			ls.finished("GetPortfolio", start, err, zap.String("network", networkID))
		}
	}()

	return ls.svc.GetPortfolio(ctx, sessionToken, networkID, walletAddress)
}

// GetPortfolioPerformance wraps the service method with logging
func (ls *logService) GetPortfolioPerformance(ctx context.Context, walletAddress, networkID string) (p *portfolio.Performance, err error) {
	start := time.Now()
	defer func() {
		if err != nil {
			ls.finished("GetPortfolioPerformance", start, err,
				zap.String("wallet", walletAddress),
				zap.String("network", networkID))
		}
	}()

	return ls.svc.GetPortfolioPerformance(ctx, walletAddress, networkID)
}
