package user

import (
	"strings"
	"time"

	"github.com/chainsafe/token-wallet/pkg/network"
)

// User represents the domain model for a registered wallet user.
type User struct {
	ID              int64
	Email           string
	PINHash         string
	ScrollAddress   string
	StarknetAddress string
	// EncryptedKey is the custodial EVM key sealed with the master key cipher.
	EncryptedKey string
	CreatedAt    *time.Time
}

// New creates a User with a lower-cased email.
func New(email, pinHash, scrollAddress, encryptedKey string) *User {
	now := time.Now()
	return &User{
		Email:         NormalizeEmail(email),
		PINHash:       pinHash,
		ScrollAddress: scrollAddress,
		EncryptedKey:  encryptedKey,
		CreatedAt:     &now,
	}
}

// NormalizeEmail trims and lower-cases an email address.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// AddressFor returns the user's account address on a network family, or ""
// when none is linked.
func (u *User) AddressFor(family network.Family) string {
	switch family {
	case network.FamilyEVM:
		return u.ScrollAddress
	case network.FamilyCairo:
		return u.StarknetAddress
	default:
		return ""
	}
}

// Profile is the public view of a user.
func (u *User) Profile() *Profile {
	p := &Profile{
		ID:              u.ID,
		Email:           u.Email,
		ScrollAddress:   u.ScrollAddress,
		StarknetAddress: u.StarknetAddress,
	}
	if u.CreatedAt != nil {
		p.CreatedAt = *u.CreatedAt
	}
	return p
}

// Profile is returned to clients.
type Profile struct {
	ID              int64     `json:"id"`
	Email           string    `json:"email"`
	ScrollAddress   string    `json:"scroll_address,omitzero"`
	StarknetAddress string    `json:"starknet_address,omitzero"`
	CreatedAt       time.Time `json:"created_at,omitzero"`
}

// RegisterRequest represents a registration request
type RegisterRequest struct {
	Email           string `json:"email" validate:"required,email,max=255"`
	PIN             string `json:"pin" validate:"required"`
	StarknetAddress string `json:"starknet_address,omitzero"`
}

// LoginRequest represents a login request
type LoginRequest struct {
	Email string `json:"email" validate:"required"`
	PIN   string `json:"pin" validate:"required"`
}

// AuthResponse is returned by register and login.
type AuthResponse struct {
	Token string   `json:"token"`
	User  *Profile `json:"user"`
}

// LinkAddressRequest links a Starknet account to the caller.
type LinkAddressRequest struct {
	StarknetAddress string `json:"starknet_address" validate:"required"`
}
