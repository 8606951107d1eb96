package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	apperrors "github.com/chainsafe/token-wallet/pkg/app/errors"
	"github.com/chainsafe/token-wallet/pkg/auth"
	"github.com/chainsafe/token-wallet/pkg/authz"
	"github.com/chainsafe/token-wallet/pkg/chain"
	"github.com/chainsafe/token-wallet/pkg/intent"
	"github.com/chainsafe/token-wallet/pkg/keys"
	"github.com/chainsafe/token-wallet/pkg/network"
	"github.com/chainsafe/token-wallet/pkg/portfolio"
	"github.com/chainsafe/token-wallet/pkg/simulation"
	"github.com/chainsafe/token-wallet/pkg/submission"
	"github.com/chainsafe/token-wallet/pkg/transaction"
	"github.com/chainsafe/token-wallet/pkg/txstore"
	"github.com/chainsafe/token-wallet/pkg/user"
	"github.com/chainsafe/token-wallet/pkg/userstore"
	"github.com/chainsafe/token-wallet/pkg/wallet"
)

var (
	ErrInsufficientBalance  = submission.ErrInsufficientBalance
	ErrNoWalletAddress      = errors.New("no wallet address for network")
	ErrCustodialUnsupported = errors.New("custodial signing not supported on this network")
)

// SessionVerifier validates session tokens.
type SessionVerifier interface {
	Verify(token string) (auth.Identity, error)
}

// UserStore loads users.
type UserStore interface {
	GetUser(ctx context.Context, opts ...userstore.QueryOption) (*user.User, error)
}

// Authorizer issues single-use transfer tickets.
type Authorizer interface {
	Authorize(ctx context.Context, in *intent.Intent, sessionToken, pin string) (*authz.Ticket, error)
}

// Submitter dispatches and records authorized transfers.
type Submitter interface {
	Submit(ctx context.Context, req *submission.Request) (*submission.Result, error)
}

// Simulator dry-runs transfers.
type Simulator interface {
	Simulate(ctx context.Context, in *intent.Intent, signer chain.Signer) (*simulation.Outcome, error)
}

// AdapterResolver returns the chain adapter for a network.
type AdapterResolver interface {
	Adapter(id network.ID) (chain.Adapter, error)
}

// HistoryStore reads and appends transaction history.
type HistoryStore interface {
	CreateTransaction(ctx context.Context, rec *transaction.Record) error
	GetTransactionByHash(ctx context.Context, hash string) (*transaction.Record, error)
	ListTransactions(ctx context.Context, filter txstore.ListFilter) (*transaction.Page, error)
	RecentTransactions(ctx context.Context, walletAddress, network string, n int) ([]*transaction.Record, error)
}

// HoldingsReader reads live balances.
type HoldingsReader interface {
	Holdings(ctx context.Context, net *network.Network, wallet string) *portfolio.Holdings
}

// PerformanceReader summarizes stored snapshots.
type PerformanceReader interface {
	Performance(ctx context.Context, wallet string, id network.ID) (*portfolio.Performance, error)
}

// Service is the wallet API.
//
//go:generate mockery --name Service --output mocks --outpkg mocks --filename mock_service.go --with-expecter
type Service interface {
	SubmitTransfer(ctx context.Context, sessionToken string, req *wallet.TransferRequest) (*submission.Result, error)
	SimulateTransfer(ctx context.Context, req *wallet.SimulateRequest) (*simulation.Outcome, error)
	ListTransactions(ctx context.Context, q *wallet.HistoryQuery) (*wallet.HistoryPage, error)
	GetTransaction(ctx context.Context, hash string) (*transaction.View, error)
	RecordTransaction(ctx context.Context, req *wallet.RecordRequest) (*transaction.View, error)
	GetPortfolio(ctx context.Context, sessionToken, networkID, walletAddress string) (*wallet.Portfolio, error)
	GetPortfolioPerformance(ctx context.Context, walletAddress, networkID string) (*portfolio.Performance, error)
}

// Deps are the collaborators of the wallet service.
type Deps struct {
	Registry    *network.Registry
	Sessions    SessionVerifier
	Users       UserStore
	Gate        Authorizer
	Submitter   Submitter
	Simulator   Simulator
	Adapters    AdapterResolver
	History     HistoryStore
	Holdings    HoldingsReader
	Performance PerformanceReader
	KeyCipher   keys.KeyCipher
	Logger      *zap.Logger
}

type walletService struct {
	Deps
	builder  *intent.Builder
	validate *validator.Validate
}

// NewService creates the wallet service.
func NewService(deps Deps) Service {
	if deps.Logger == nil {
		deps.Logger = zap.NewNop()
	}
	return &walletService{
		Deps:     deps,
		builder:  intent.NewBuilder(deps.Registry),
		validate: validator.New(),
	}
}

// SubmitTransfer validates the transfer, checks the live balance, verifies
// the PIN and hands the authorized transfer to the submitter.
//
// EVM transfers are signed with the caller's custodial key. A request
// carrying tx_hash was already broadcast by the caller's own wallet and is
// verified and recorded instead; this is the only path on Starknet.
func (s *walletService) SubmitTransfer(ctx context.Context, sessionToken string, req *wallet.TransferRequest) (*submission.Result, error) {
	in, err := s.builder.Build(intent.Fields{
		Network:   req.Network,
		Token:     req.Token,
		Recipient: req.Recipient,
		Amount:    req.Amount,
	})
	if err != nil {
		return nil, validationError(err)
	}

	usr, err := s.caller(ctx, sessionToken)
	if err != nil {
		return nil, err
	}
	net := in.Network()
	from := usr.AddressFor(net.Family)
	if from == "" {
		return nil, apperrors.BadRequestError(ErrNoWalletAddress, "No wallet address linked for this network")
	}

	txHash := strings.ToLower(strings.TrimSpace(req.TxHash))
	preDispatched := txHash != ""
	if preDispatched {
		if err := s.checkNotRecorded(ctx, txHash); err != nil {
			return nil, err
		}
	} else {
		if net.Family != network.FamilyEVM {
			return nil, apperrors.NotSupportedError(ErrCustodialUnsupported,
				"Custodial signing is not available on this network, submit the transaction hash from your wallet")
		}
		if err := s.checkBalance(ctx, in, from); err != nil {
			return nil, err
		}
	}

	ticket, err := s.Gate.Authorize(ctx, in, sessionToken, req.PIN)
	if err != nil {
		return nil, err
	}

	var signer chain.Signer
	if preDispatched {
		signer = chain.PreDispatched{From: from, Hash: txHash}
	} else {
		key, err := s.custodialKey(usr)
		if err != nil {
			return nil, apperrors.GeneralError(err)
		}
		signer = key
	}

	return s.Submitter.Submit(ctx, &submission.Request{
		Intent:        in,
		Ticket:        ticket,
		Signer:        signer,
		WalletAddress: from,
	})
}

// checkNotRecorded rejects a wallet-broadcast hash that already has a record
// before the PIN is spent on it.
func (s *walletService) checkNotRecorded(ctx context.Context, hash string) error {
	_, err := s.History.GetTransactionByHash(ctx, hash)
	switch {
	case err == nil:
		return apperrors.ConflictError(txstore.ErrDuplicateHash, "Transaction already recorded")
	case errors.Is(err, txstore.ErrTransactionNotFound):
		return nil
	default:
		return fmt.Errorf("failed to look up transaction: %w", err)
	}
}

func (s *walletService) checkBalance(ctx context.Context, in *intent.Intent, from string) error {
	adapter, err := s.Adapters.Adapter(in.Network().ID)
	if err != nil {
		return apperrors.GeneralError(err)
	}
	balance, err := adapter.GetBalance(ctx, in.Token(), from)
	if err != nil {
		return apperrors.DependencyError(err, "Failed to read balance")
	}
	if balance.Cmp(in.AmountSmallestUnit()) < 0 {
		s.Logger.Info("Transfer rejected for insufficient balance",
			zap.String("network", string(in.Network().ID)),
			zap.String("token", in.Token().Symbol),
			zap.String("balance", chain.FormatDisplay(balance, in.Token().Decimals)),
			zap.String("amount", in.Amount()))
		return apperrors.BadRequestError(ErrInsufficientBalance, "Insufficient balance")
	}
	return nil
}

func (s *walletService) custodialKey(usr *user.User) (*keys.WalletKey, error) {
	owner := network.NormalizeAddress(usr.ScrollAddress)
	raw, err := s.KeyCipher.Decrypt(owner, usr.EncryptedKey)
	if err != nil {
		return nil, fmt.Errorf("failed to decrypt custodial key: %w", err)
	}
	key, err := keys.WalletKeyFromBytes(raw)
	if err != nil {
		return nil, fmt.Errorf("failed to load custodial key: %w", err)
	}
	if network.NormalizeAddress(key.Address()) != owner {
		return nil, fmt.Errorf("custodial key does not match address %s", usr.ScrollAddress)
	}
	return key, nil
}

// SimulateTransfer dry-runs a transfer from req.From.
func (s *walletService) SimulateTransfer(ctx context.Context, req *wallet.SimulateRequest) (*simulation.Outcome, error) {
	in, err := s.builder.Build(intent.Fields{
		Network:   req.Network,
		Token:     req.Token,
		Recipient: req.Recipient,
		Amount:    req.Amount,
	})
	if err != nil {
		return nil, validationError(err)
	}
	from := strings.TrimSpace(req.From)
	if err := network.ValidateAddress(in.Network().Family, from); err != nil {
		return nil, apperrors.WithDetail(apperrors.BadRequestError(err, "invalid from: "+err.Error()), "field", "from")
	}
	return s.Simulator.Simulate(ctx, in, chain.PreDispatched{From: from})
}

// ListTransactions returns one page of a wallet's history, newest first.
func (s *walletService) ListTransactions(ctx context.Context, q *wallet.HistoryQuery) (*wallet.HistoryPage, error) {
	if strings.TrimSpace(q.WalletAddress) == "" {
		return nil, apperrors.BadRequestError(nil, "wallet_address required")
	}
	limit := q.Limit
	if limit == 0 {
		limit = wallet.DefaultHistoryLimit
	}
	if limit < 1 || limit > wallet.MaxHistoryLimit {
		return nil, apperrors.BadRequestError(nil, fmt.Sprintf("limit must be between 1 and %d", wallet.MaxHistoryLimit))
	}
	if q.Network != "" {
		if _, err := s.lookupNetwork(q.Network); err != nil {
			return nil, err
		}
	}

	page, err := s.History.ListTransactions(ctx, txstore.ListFilter{
		WalletAddress: network.NormalizeAddress(q.WalletAddress),
		Network:       q.Network,
		Cursor:        q.Cursor,
		Limit:         limit,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list transactions: %w", err)
	}
	return &wallet.HistoryPage{
		Transactions: transaction.ToViews(page.Transactions),
		NextCursor:   page.NextCursor,
	}, nil
}

// GetTransaction returns the record with the given hash.
func (s *walletService) GetTransaction(ctx context.Context, hash string) (*transaction.View, error) {
	rec, err := s.History.GetTransactionByHash(ctx, strings.TrimSpace(hash))
	if errors.Is(err, txstore.ErrTransactionNotFound) {
		return nil, apperrors.ResourceNotFoundError(err, "Transaction not found")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get transaction: %w", err)
	}
	return rec.ToView(), nil
}

// RecordTransaction stores a swap or send that was executed elsewhere.
func (s *walletService) RecordTransaction(ctx context.Context, req *wallet.RecordRequest) (*transaction.View, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, apperrors.BadRequestError(err, "invalid transaction: "+err.Error())
	}
	if _, err := s.lookupNetwork(req.Network); err != nil {
		return nil, err
	}

	rec := &transaction.Record{
		Hash:              strings.ToLower(strings.TrimSpace(req.Hash)),
		Network:           req.Network,
		WalletAddress:     network.NormalizeAddress(req.WalletAddress),
		Type:              transaction.Type(req.Type),
		Status:            transaction.Status(req.Status),
		FromToken:         req.FromToken,
		ToToken:           req.ToToken,
		Amount:            req.Amount,
		ToAmount:          req.ToAmount,
		Recipient:         req.Recipient,
		GasFee:            req.GasFee,
		PriceImpact:       req.PriceImpact,
		ExchangeRate:      req.ExchangeRate,
		FromTokenUSDPrice: req.FromTokenUSDPrice,
		ToTokenUSDPrice:   req.ToTokenUSDPrice,
		TotalUSDValue:     req.TotalUSDValue,
	}
	if err := s.History.CreateTransaction(ctx, rec); err != nil {
		if errors.Is(err, txstore.ErrDuplicateHash) {
			return nil, apperrors.ConflictError(err, "Transaction already recorded")
		}
		return nil, fmt.Errorf("failed to record transaction: %w", err)
	}
	return rec.ToView(), nil
}

// GetPortfolio returns live balances for walletAddress, or for the caller's
// own address on the network when walletAddress is empty.
func (s *walletService) GetPortfolio(ctx context.Context, sessionToken, networkID, walletAddress string) (*wallet.Portfolio, error) {
	usr, err := s.caller(ctx, sessionToken)
	if err != nil {
		return nil, err
	}
	net, err := s.lookupNetwork(networkID)
	if err != nil {
		return nil, err
	}

	addr := strings.TrimSpace(walletAddress)
	if addr != "" {
		if err := network.ValidateAddress(net.Family, addr); err != nil {
			return nil, apperrors.WithDetail(apperrors.BadRequestError(err, "invalid wallet_address: "+err.Error()), "field", "wallet_address")
		}
	} else {
		addr = usr.AddressFor(net.Family)
	}

	holdings := s.Holdings.Holdings(ctx, net, addr)
	out := &wallet.Portfolio{
		TotalBalance:  holdings.Total,
		TokenBalances: holdings.Balances,
		Transactions:  []*transaction.View{},
		Email:         usr.Email,
	}
	if addr == "" {
		return out, nil
	}
	out.WalletAddress = &addr

	recent, err := s.History.RecentTransactions(ctx, network.NormalizeAddress(addr), string(net.ID), wallet.RecentTransactions)
	if err != nil {
		return nil, fmt.Errorf("failed to load recent transactions: %w", err)
	}
	out.Transactions = transaction.ToViews(recent)
	return out, nil
}

// GetPortfolioPerformance summarizes the wallet's stored snapshots.
func (s *walletService) GetPortfolioPerformance(ctx context.Context, walletAddress, networkID string) (*portfolio.Performance, error) {
	if strings.TrimSpace(walletAddress) == "" {
		return nil, apperrors.BadRequestError(nil, "wallet_address required")
	}
	net, err := s.lookupNetwork(networkID)
	if err != nil {
		return nil, err
	}
	perf, err := s.Performance.Performance(ctx, walletAddress, net.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to compute performance: %w", err)
	}
	return perf, nil
}

func (s *walletService) caller(ctx context.Context, sessionToken string) (*user.User, error) {
	id, err := s.Sessions.Verify(sessionToken)
	if err != nil {
		return nil, apperrors.UnAuthorizedError(errors.Join(authz.ErrUnauthorized, err), "Invalid or expired session")
	}
	usr, err := s.Users.GetUser(ctx, userstore.WithID(id.UserID))
	if errors.Is(err, userstore.ErrUserNotFound) {
		return nil, apperrors.UnAuthorizedError(authz.ErrUnauthorized, "User not found")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load user: %w", err)
	}
	return usr, nil
}

func (s *walletService) lookupNetwork(id string) (*network.Network, error) {
	net, ok := s.Registry.Lookup(network.ID(strings.TrimSpace(id)))
	if !ok {
		err := &intent.ValidationError{Field: intent.FieldNetwork, Reason: fmt.Sprintf("unsupported network %q", id)}
		return nil, validationError(err)
	}
	return net, nil
}

func validationError(err error) error {
	var ve *intent.ValidationError
	if errors.As(err, &ve) {
		return apperrors.WithDetail(apperrors.BadRequestError(err, ve.Error()), "field", ve.Field)
	}
	return apperrors.GeneralError(err)
}
