package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	apperrors "github.com/chainsafe/token-wallet/pkg/app/errors"
	"github.com/chainsafe/token-wallet/pkg/auth"
	"github.com/chainsafe/token-wallet/pkg/keys"
	"github.com/chainsafe/token-wallet/pkg/network"
	"github.com/chainsafe/token-wallet/pkg/user"
	"github.com/chainsafe/token-wallet/pkg/userstore"
)

var (
	ErrEmailRegistered    = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid email or PIN")
)

// Store is the narrow data-access interface for the user service.
//
//go:generate mockery --name Store --output mocks --outpkg mocks --filename mock_store.go --with-expecter
type Store interface {
	EmailExists(ctx context.Context, email string) (bool, error)
	CreateUser(ctx context.Context, usr *user.User) error
	GetUser(ctx context.Context, opts ...userstore.QueryOption) (*user.User, error)
	SetStarknetAddress(ctx context.Context, userID int64, address string) error
}

// TokenIssuer issues session tokens.
type TokenIssuer interface {
	Issue(id auth.Identity) (string, error)
}

// Service defines registration, login and profile operations.
//
//go:generate mockery --name Service --output mocks --outpkg mocks --filename mock_service.go --with-expecter
type Service interface {
	Register(ctx context.Context, req *user.RegisterRequest) (*user.AuthResponse, error)
	Login(ctx context.Context, req *user.LoginRequest) (*user.AuthResponse, error)
	LinkStarknetAddress(ctx context.Context, userID int64, req *user.LinkAddressRequest) (*user.Profile, error)
	Me(ctx context.Context, userID int64) (*user.Profile, error)
}

type userService struct {
	store     Store
	sessions  TokenIssuer
	keyCipher keys.KeyCipher
	validate  *validator.Validate
	logger    *zap.Logger
}

// NewService creates a new user service
func NewService(store Store, sessions TokenIssuer, keyCipher keys.KeyCipher, logger *zap.Logger) Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &userService{
		store:     store,
		sessions:  sessions,
		keyCipher: keyCipher,
		validate:  validator.New(),
		logger:    logger,
	}
}

// Register creates an account with a custodial Scroll key and returns a
// session for it.
//
// The registration process:
//  1. Validates email, PIN format and the optional Starknet address
//  2. Rejects already registered emails
//  3. Hashes the PIN
//  4. Generates the custodial EVM key and seals it under the master key
//  5. Saves the user and issues a session token
func (s *userService) Register(ctx context.Context, req *user.RegisterRequest) (*user.AuthResponse, error) {
	req.Email = user.NormalizeEmail(req.Email)
	if err := s.validate.Var(req.Email, "required,email,max=255"); err != nil {
		return nil, apperrors.BadRequestError(err, "Invalid email address")
	}
	if err := auth.ValidatePIN(req.PIN); err != nil {
		return nil, apperrors.BadRequestError(err, "PIN must be 4-6 digits")
	}
	starknetAddress := ""
	if req.StarknetAddress != "" {
		if err := network.ValidateAddress(network.FamilyCairo, req.StarknetAddress); err != nil {
			return nil, apperrors.BadRequestError(err, "Invalid Starknet address")
		}
		starknetAddress = network.NormalizeAddress(req.StarknetAddress)
	}

	exists, err := s.store.EmailExists(ctx, req.Email)
	if err != nil {
		return nil, fmt.Errorf("failed to check email: %w", err)
	}
	if exists {
		return nil, apperrors.ConflictError(ErrEmailRegistered, "Email already registered")
	}

	pinHash, err := auth.HashPIN(req.PIN)
	if err != nil {
		return nil, fmt.Errorf("failed to hash PIN: %w", err)
	}

	key, err := keys.GenerateWalletKey()
	if err != nil {
		return nil, fmt.Errorf("key generation failed: %w", err)
	}
	encrypted, err := s.keyCipher.Encrypt(network.NormalizeAddress(key.Address()), key.PrivateKeyBytes())
	if err != nil {
		return nil, fmt.Errorf("failed to encrypt key: %w", err)
	}

	usr := user.New(req.Email, pinHash, key.Address(), encrypted)
	usr.StarknetAddress = starknetAddress
	if err := s.store.CreateUser(ctx, usr); err != nil {
		if errors.Is(err, userstore.ErrEmailTaken) {
			return nil, apperrors.ConflictError(ErrEmailRegistered, "Email already registered")
		}
		return nil, fmt.Errorf("failed to save user: %w", err)
	}

	return s.authResponse(usr)
}

// Login verifies email and PIN. Every failure reads the same to the caller.
func (s *userService) Login(ctx context.Context, req *user.LoginRequest) (*user.AuthResponse, error) {
	usr, err := s.store.GetUser(ctx, userstore.WithEmail(req.Email))
	if errors.Is(err, userstore.ErrUserNotFound) {
		return nil, apperrors.UnAuthorizedError(ErrInvalidCredentials, "Invalid email or PIN")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load user: %w", err)
	}
	if !auth.VerifyPIN(usr.PINHash, req.PIN) {
		return nil, apperrors.UnAuthorizedError(ErrInvalidCredentials, "Invalid email or PIN")
	}
	return s.authResponse(usr)
}

func (s *userService) LinkStarknetAddress(ctx context.Context, userID int64, req *user.LinkAddressRequest) (*user.Profile, error) {
	if err := network.ValidateAddress(network.FamilyCairo, req.StarknetAddress); err != nil {
		return nil, apperrors.BadRequestError(err, "Invalid Starknet address")
	}
	err := s.store.SetStarknetAddress(ctx, userID, network.NormalizeAddress(req.StarknetAddress))
	if errors.Is(err, userstore.ErrUserNotFound) {
		return nil, apperrors.UnAuthorizedError(err, "User not found")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to link starknet address: %w", err)
	}
	return s.Me(ctx, userID)
}

func (s *userService) Me(ctx context.Context, userID int64) (*user.Profile, error) {
	usr, err := s.store.GetUser(ctx, userstore.WithID(userID))
	if errors.Is(err, userstore.ErrUserNotFound) {
		return nil, apperrors.UnAuthorizedError(err, "User not found")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load user: %w", err)
	}
	return usr.Profile(), nil
}

func (s *userService) authResponse(usr *user.User) (*user.AuthResponse, error) {
	token, err := s.sessions.Issue(auth.Identity{UserID: usr.ID, Email: usr.Email})
	if err != nil {
		return nil, fmt.Errorf("failed to issue session: %w", err)
	}
	return &user.AuthResponse{Token: token, User: usr.Profile()}, nil
}
