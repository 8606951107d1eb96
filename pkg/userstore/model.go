package userstore

import (
	"time"

	"github.com/uptrace/bun"

	"github.com/chainsafe/token-wallet/pkg/user"
)

// UserDao is a data access object that maps directly to the 'users' table in PostgreSQL.
type UserDao struct {
	bun.BaseModel   `bun:"table:users,alias:u"`
	ID              int64     `bun:"id,pk,autoincrement"`
	Email           string    `bun:"email,unique,notnull,type:varchar(255)"`
	PINHash         string    `bun:"pin_hash,notnull,type:text"`
	ScrollAddress   *string   `bun:"scroll_address,unique,type:varchar(42)"`
	StarknetAddress *string   `bun:"starknet_address,type:varchar(66)"`
	EncryptedKey    *string   `bun:"encrypted_key,type:text"`
	CreatedAt       time.Time `bun:"created_at,nullzero,notnull,default:current_timestamp"`
	UpdatedAt       time.Time `bun:"updated_at,nullzero,notnull,default:current_timestamp"`
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// toUserDao converts a user.User to UserDao.
func toUserDao(usr *user.User) *UserDao {
	dao := &UserDao{
		ID:              usr.ID,
		Email:           usr.Email,
		PINHash:         usr.PINHash,
		ScrollAddress:   optional(usr.ScrollAddress),
		StarknetAddress: optional(usr.StarknetAddress),
		EncryptedKey:    optional(usr.EncryptedKey),
	}
	if usr.CreatedAt != nil {
		dao.CreatedAt = *usr.CreatedAt
	}
	return dao
}

// toUser converts a UserDao to user.User.
func toUser(dao *UserDao) *user.User {
	usr := &user.User{
		ID:              dao.ID,
		Email:           dao.Email,
		PINHash:         dao.PINHash,
		ScrollAddress:   deref(dao.ScrollAddress),
		StarknetAddress: deref(dao.StarknetAddress),
		EncryptedKey:    deref(dao.EncryptedKey),
	}
	if !dao.CreatedAt.IsZero() {
		created := dao.CreatedAt
		usr.CreatedAt = &created
	}
	return usr
}
