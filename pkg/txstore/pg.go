package txstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/uptrace/bun"
	"github.com/uptrace/bun/driver/pgdriver"

	"github.com/chainsafe/token-wallet/pkg/transaction"
)

type pgStore struct {
	db *bun.DB
}

var _ Store = (*pgStore)(nil)

// NewStore creates a postgres implementation of Store.
func NewStore(db *bun.DB) *pgStore {
	return &pgStore{db: db}
}

func (s *pgStore) CreateTransaction(ctx context.Context, rec *transaction.Record) error {
	dao := toTransactionDao(rec)
	dao.WalletAddress = strings.ToLower(dao.WalletAddress)
	// The unique index compares raw text; lookups compare lower-cased.
	if dao.Hash != nil {
		h := strings.ToLower(*dao.Hash)
		dao.Hash = &h
	}

	_, err := s.db.NewInsert().
		Model(dao).
		Returning("id, created_at, updated_at").
		Exec(ctx)
	if err != nil {
		var pgErr pgdriver.Error
		if errors.As(err, &pgErr) && pgErr.IntegrityViolation() {
			return ErrDuplicateHash
		}
		return fmt.Errorf("failed to create transaction: %w", err)
	}

	rec.ID = dao.ID
	rec.WalletAddress = dao.WalletAddress
	if dao.Hash != nil {
		rec.Hash = *dao.Hash
	}
	rec.CreatedAt = dao.CreatedAt
	rec.UpdatedAt = dao.UpdatedAt
	return nil
}

func (s *pgStore) GetTransactionByHash(ctx context.Context, hash string) (*transaction.Record, error) {
	dao := new(TransactionDao)
	err := s.db.NewSelect().
		Model(dao).
		Where("LOWER(transaction_hash) = ?", strings.ToLower(hash)).
		Limit(1).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrTransactionNotFound
		}
		return nil, fmt.Errorf("failed to get transaction by hash: %w", err)
	}
	return toRecord(dao), nil
}

func (s *pgStore) GetTransactionByID(ctx context.Context, id int64) (*transaction.Record, error) {
	dao := new(TransactionDao)
	err := s.db.NewSelect().
		Model(dao).
		Where("id = ?", id).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrTransactionNotFound
		}
		return nil, fmt.Errorf("failed to get transaction %d: %w", id, err)
	}
	return toRecord(dao), nil
}

// ListTransactions returns a page of history, newest first. It fetches one
// row beyond the limit to decide whether another page exists.
func (s *pgStore) ListTransactions(ctx context.Context, filter ListFilter) (*transaction.Page, error) {
	if filter.Limit <= 0 {
		return nil, fmt.Errorf("limit must be positive, got %d", filter.Limit)
	}

	var daos []TransactionDao
	query := s.db.NewSelect().
		Model(&daos).
		Where("wallet_address = ?", strings.ToLower(filter.WalletAddress))
	if filter.Network != "" {
		query = query.Where("network = ?", filter.Network)
	}
	if filter.Cursor != nil {
		query = query.Where("id < ?", *filter.Cursor)
	}

	err := query.
		OrderExpr("id DESC").
		Limit(filter.Limit + 1).
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list transactions: %w", err)
	}

	page := &transaction.Page{}
	if len(daos) > filter.Limit {
		daos = daos[:filter.Limit]
		next := daos[len(daos)-1].ID
		page.NextCursor = &next
	}
	page.Transactions = toRecords(daos)
	return page, nil
}

func (s *pgStore) RecentTransactions(ctx context.Context, walletAddress, network string, n int) ([]*transaction.Record, error) {
	var daos []TransactionDao
	query := s.db.NewSelect().
		Model(&daos).
		Where("wallet_address = ?", strings.ToLower(walletAddress))
	if network != "" {
		query = query.Where("network = ?", network)
	}
	if err := query.OrderExpr("id DESC").Limit(n).Scan(ctx); err != nil {
		return nil, fmt.Errorf("failed to list recent transactions: %w", err)
	}
	return toRecords(daos), nil
}

// ListPending returns pending records that carry a hash and have an id
// greater than afterID, oldest first.
func (s *pgStore) ListPending(ctx context.Context, afterID int64, limit int) ([]*transaction.Record, error) {
	var daos []TransactionDao
	err := s.db.NewSelect().
		Model(&daos).
		Where("status = ?", string(transaction.StatusPending)).
		Where("transaction_hash IS NOT NULL").
		Where("id > ?", afterID).
		OrderExpr("id ASC").
		Limit(limit).
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list pending transactions: %w", err)
	}
	return toRecords(daos), nil
}

// UpdateStatus moves a record from one status to another. The update only
// applies while the record is still in the from status.
func (s *pgStore) UpdateStatus(ctx context.Context, id int64, from, to transaction.Status) error {
	if !from.CanTransition(to) {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, from, to)
	}

	res, err := s.db.NewUpdate().
		Model((*TransactionDao)(nil)).
		Set("status = ?", string(to)).
		Set("updated_at = NOW()").
		Where("id = ?", id).
		Where("status = ?", string(from)).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to update transaction %d: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read rows affected: %w", err)
	}
	if n == 0 {
		if _, err := s.GetTransactionByID(ctx, id); err != nil {
			return err
		}
		return fmt.Errorf("%w: transaction %d is no longer %s", ErrInvalidTransition, id, from)
	}
	return nil
}

func (s *pgStore) CreateSnapshot(ctx context.Context, snap *transaction.Snapshot) error {
	dao := toSnapshotDao(snap)
	dao.WalletAddress = strings.ToLower(dao.WalletAddress)

	_, err := s.db.NewInsert().
		Model(dao).
		Returning("id, created_at").
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to create portfolio snapshot: %w", err)
	}
	snap.ID = dao.ID
	snap.WalletAddress = dao.WalletAddress
	snap.CreatedAt = dao.CreatedAt
	return nil
}

func (s *pgStore) LatestSnapshot(ctx context.Context, walletAddress, network string) (*transaction.Snapshot, error) {
	return s.oneSnapshot(ctx, s.snapshotQuery(walletAddress, network))
}

func (s *pgStore) SnapshotAtOrBefore(ctx context.Context, walletAddress, network string, at time.Time) (*transaction.Snapshot, error) {
	return s.oneSnapshot(ctx, s.snapshotQuery(walletAddress, network).Where("created_at <= ?", at))
}

func (s *pgStore) SnapshotsSince(ctx context.Context, walletAddress, network string, since time.Time) ([]*transaction.Snapshot, error) {
	var daos []SnapshotDao
	err := s.db.NewSelect().
		Model(&daos).
		Where("wallet_address = ?", strings.ToLower(walletAddress)).
		Where("network = ?", network).
		Where("created_at >= ?", since).
		OrderExpr("created_at ASC, id ASC").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list portfolio snapshots: %w", err)
	}
	out := make([]*transaction.Snapshot, len(daos))
	for i := range daos {
		out[i] = toSnapshot(&daos[i])
	}
	return out, nil
}

func (s *pgStore) snapshotQuery(walletAddress, network string) *bun.SelectQuery {
	return s.db.NewSelect().
		Where("wallet_address = ?", strings.ToLower(walletAddress)).
		Where("network = ?", network)
}

func (s *pgStore) oneSnapshot(ctx context.Context, query *bun.SelectQuery) (*transaction.Snapshot, error) {
	dao := new(SnapshotDao)
	err := query.
		Model(dao).
		OrderExpr("created_at DESC, id DESC").
		Limit(1).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrSnapshotNotFound
		}
		return nil, fmt.Errorf("failed to get portfolio snapshot: %w", err)
	}
	return toSnapshot(dao), nil
}
