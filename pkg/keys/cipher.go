package keys

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"strings"

	"golang.org/x/crypto/hkdf"
)

const masterKeySize = 32

// ErrDecrypt is returned when a ciphertext cannot be opened with the master key.
var ErrDecrypt = errors.New("failed to decrypt key")

// KeyCipher encrypts custodial keys at rest. The owner string is bound to the
// ciphertext as associated data so a ciphertext cannot be moved between users.
type KeyCipher interface {
	Encrypt(owner string, plaintext []byte) (string, error)
	Decrypt(owner string, encrypted string) ([]byte, error)
}

// MasterKeyCipher is AES-256-GCM under a key derived from the master key with
// HKDF-SHA256. Output is base64(nonce || ciphertext || tag).
type MasterKeyCipher struct {
	aead cipher.AEAD
}

var _ KeyCipher = (*MasterKeyCipher)(nil)

// NewMasterKeyCipher creates a cipher from a 32-byte master key.
func NewMasterKeyCipher(masterKey []byte) (*MasterKeyCipher, error) {
	if len(masterKey) != masterKeySize {
		return nil, fmt.Errorf("master key must be %d bytes (AES-256)", masterKeySize)
	}

	encKey := make([]byte, 32)
	kdf := hkdf.New(sha256.New, masterKey, nil, []byte("token-wallet/custodial-key/v1"))
	if _, err := io.ReadFull(kdf, encKey); err != nil {
		return nil, fmt.Errorf("failed to derive encryption key: %w", err)
	}

	block, err := aes.NewCipher(encKey)
	if err != nil {
		return nil, fmt.Errorf("failed to create AES cipher: %w", err)
	}
	aead, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("failed to create GCM: %w", err)
	}
	return &MasterKeyCipher{aead: aead}, nil
}

// Encrypt seals plaintext for owner.
func (c *MasterKeyCipher) Encrypt(owner string, plaintext []byte) (string, error) {
	nonce := make([]byte, c.aead.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return "", fmt.Errorf("failed to generate nonce: %w", err)
	}
	sealed := c.aead.Seal(nonce, nonce, plaintext, associatedData(owner))
	return base64.StdEncoding.EncodeToString(sealed), nil
}

// Decrypt opens a ciphertext produced by Encrypt for the same owner.
func (c *MasterKeyCipher) Decrypt(owner string, encrypted string) ([]byte, error) {
	raw, err := base64.StdEncoding.DecodeString(encrypted)
	if err != nil {
		return nil, fmt.Errorf("failed to decode base64: %w", err)
	}
	n := c.aead.NonceSize()
	if len(raw) < n {
		return nil, fmt.Errorf("%w: ciphertext too short", ErrDecrypt)
	}
	plaintext, err := c.aead.Open(nil, raw[:n], raw[n:], associatedData(owner))
	if err != nil {
		return nil, ErrDecrypt
	}
	return plaintext, nil
}

func associatedData(owner string) []byte {
	return []byte(strings.ToLower(owner))
}

// GenerateMasterKey generates a new random 32-byte master key.
func GenerateMasterKey() ([]byte, error) {
	key := make([]byte, masterKeySize)
	if _, err := io.ReadFull(rand.Reader, key); err != nil {
		return nil, fmt.Errorf("failed to generate master key: %w", err)
	}
	return key, nil
}

// MasterKeyFromBase64 decodes a base64-encoded master key
func MasterKeyFromBase64(encoded string) ([]byte, error) {
	key, err := base64.StdEncoding.DecodeString(strings.TrimSpace(encoded))
	if err != nil {
		return nil, fmt.Errorf("failed to decode master key: %w", err)
	}
	if len(key) != masterKeySize {
		return nil, fmt.Errorf("master key must be %d bytes, got %d", masterKeySize, len(key))
	}
	return key, nil
}

// MasterKeyToBase64 encodes a master key as base64 for storage
func MasterKeyToBase64(key []byte) string {
	return base64.StdEncoding.EncodeToString(key)
}
