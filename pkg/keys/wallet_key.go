// Package keys manages custodial secp256k1 wallet keys and their encryption
// at rest.
package keys

import (
	"crypto/ecdsa"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
)

// WalletKey is a custodial EVM account key.
type WalletKey struct {
	private *ecdsa.PrivateKey
	address common.Address
}

// GenerateWalletKey creates a new random secp256k1 key.
func GenerateWalletKey() (*WalletKey, error) {
	pk, err := crypto.GenerateKey()
	if err != nil {
		return nil, fmt.Errorf("failed to generate key: %w", err)
	}
	return newWalletKey(pk), nil
}

// WalletKeyFromBytes restores a key from its 32-byte scalar.
func WalletKeyFromBytes(b []byte) (*WalletKey, error) {
	if len(b) != 32 {
		return nil, fmt.Errorf("private key must be 32 bytes, got %d", len(b))
	}
	pk, err := crypto.ToECDSA(b)
	if err != nil {
		return nil, fmt.Errorf("invalid private key: %w", err)
	}
	return newWalletKey(pk), nil
}

func newWalletKey(pk *ecdsa.PrivateKey) *WalletKey {
	return &WalletKey{private: pk, address: crypto.PubkeyToAddress(pk.PublicKey)}
}

// Address returns the checksummed account address.
func (k *WalletKey) Address() string { return k.address.Hex() }

// PrivateKeyBytes returns the 32-byte private scalar.
func (k *WalletKey) PrivateKeyBytes() []byte { return crypto.FromECDSA(k.private) }

// Transactor returns signing options bound to chainID.
func (k *WalletKey) Transactor(chainID *big.Int) (*bind.TransactOpts, error) {
	return bind.NewKeyedTransactorWithChainID(k.private, chainID)
}
