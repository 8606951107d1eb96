package userstore

import (
	"context"
	"errors"

	"github.com/chainsafe/token-wallet/pkg/user"
)

var (
	// ErrUserNotFound is returned when a user lookup finds no matching record.
	ErrUserNotFound = errors.New("user not found")
	// ErrEmailTaken is returned when registering an email that already exists.
	ErrEmailTaken = errors.New("email already registered")
)

// Store defines user persistence.
type Store interface {
	CreateUser(ctx context.Context, usr *user.User) error
	GetUser(ctx context.Context, opts ...QueryOption) (*user.User, error)
	EmailExists(ctx context.Context, email string) (bool, error)
	SetStarknetAddress(ctx context.Context, userID int64, address string) error
	ListUsers(ctx context.Context) ([]*user.User, error)
}

// QueryOptions defines options for querying users
type QueryOptions struct {
	ID              *int64
	Email           *string
	ScrollAddress   *string
	StarknetAddress *string
}

// QueryOption is a functional option for querying users
type QueryOption func(*QueryOptions)

// WithID sets the user id filter
func WithID(id int64) QueryOption {
	return func(opts *QueryOptions) {
		opts.ID = &id
	}
}

// WithEmail sets the email filter. The email is normalised.
func WithEmail(email string) QueryOption {
	return func(opts *QueryOptions) {
		e := user.NormalizeEmail(email)
		opts.Email = &e
	}
}

// WithScrollAddress sets the Scroll address filter (case-insensitive)
func WithScrollAddress(addr string) QueryOption {
	return func(opts *QueryOptions) {
		opts.ScrollAddress = &addr
	}
}

// WithStarknetAddress sets the Starknet address filter (case-insensitive)
func WithStarknetAddress(addr string) QueryOption {
	return func(opts *QueryOptions) {
		opts.StarknetAddress = &addr
	}
}
