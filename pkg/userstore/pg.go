package userstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/uptrace/bun"
	"github.com/uptrace/bun/driver/pgdriver"

	"github.com/chainsafe/token-wallet/pkg/user"
)

type pgStore struct {
	db *bun.DB
}

var _ Store = (*pgStore)(nil)

// NewStore creates a new postgres implementation of the user store
func NewStore(db *bun.DB) *pgStore {
	return &pgStore{db: db}
}

func (s *pgStore) CreateUser(ctx context.Context, usr *user.User) error {
	dao := toUserDao(usr)

	_, err := s.db.NewInsert().
		Model(dao).
		Returning("id, created_at").
		Exec(ctx)
	if err != nil {
		var pgErr pgdriver.Error
		if errors.As(err, &pgErr) && pgErr.IntegrityViolation() {
			return ErrEmailTaken
		}
		return fmt.Errorf("failed to create user: %w", err)
	}

	usr.ID = dao.ID
	created := dao.CreatedAt
	usr.CreatedAt = &created
	return nil
}

func (s *pgStore) GetUser(ctx context.Context, opts ...QueryOption) (*user.User, error) {
	options := &QueryOptions{}
	for _, opt := range opts {
		opt(options)
	}

	dao := new(UserDao)
	query := s.db.NewSelect().Model(dao)

	if options.ID != nil {
		query = query.Where("id = ?", *options.ID)
	}
	if options.Email != nil {
		query = query.Where("email = ?", *options.Email)
	}
	if options.ScrollAddress != nil {
		query = query.Where("LOWER(scroll_address) = ?", strings.ToLower(*options.ScrollAddress))
	}
	if options.StarknetAddress != nil {
		query = query.Where("LOWER(starknet_address) = ?", strings.ToLower(*options.StarknetAddress))
	}

	err := query.Limit(1).Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	return toUser(dao), nil
}

func (s *pgStore) EmailExists(ctx context.Context, email string) (bool, error) {
	exists, err := s.db.NewSelect().
		Model((*UserDao)(nil)).
		Where("email = ?", user.NormalizeEmail(email)).
		Exists(ctx)
	if err != nil {
		return false, fmt.Errorf("failed to check email exists: %w", err)
	}
	return exists, nil
}

func (s *pgStore) SetStarknetAddress(ctx context.Context, userID int64, address string) error {
	res, err := s.db.NewUpdate().
		Model((*UserDao)(nil)).
		Set("starknet_address = ?", address).
		Set("updated_at = NOW()").
		Where("id = ?", userID).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to set starknet address: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrUserNotFound
	}
	return nil
}

func (s *pgStore) ListUsers(ctx context.Context) ([]*user.User, error) {
	var daos []UserDao
	err := s.db.NewSelect().Model(&daos).Order("id ASC").Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	users := make([]*user.User, len(daos))
	for i := range daos {
		users[i] = toUser(&daos[i])
	}
	return users, nil
}
