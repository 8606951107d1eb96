package cairo

import (
	"fmt"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/crypto"
)

var (
	mask128 = new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), 128), big.NewInt(1))
	mask250 = new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), 250), big.NewInt(1))
)

// SplitUint256 splits v into the low and high 128-bit limbs of a Cairo u256.
func SplitUint256(v *big.Int) (low, high *big.Int) {
	low = new(big.Int).And(v, mask128)
	high = new(big.Int).Rsh(v, 128)
	return low, high
}

// JoinUint256 recombines u256 limbs.
func JoinUint256(low, high *big.Int) *big.Int {
	out := new(big.Int).Lsh(high, 128)
	return out.Or(out, low)
}

// Selector computes the entry point selector for a function name
// (Keccak-256 truncated to 250 bits).
func Selector(name string) *big.Int {
	h := new(big.Int).SetBytes(crypto.Keccak256([]byte(name)))
	return h.And(h, mask250)
}

// Felt renders v as a 0x-prefixed hex felt.
func Felt(v *big.Int) string {
	return "0x" + v.Text(16)
}

// ParseFelt parses a hex (0x-prefixed) or decimal felt.
func ParseFelt(s string) (*big.Int, error) {
	s = strings.TrimSpace(s)
	base := 10
	if strings.HasPrefix(s, "0x") || strings.HasPrefix(s, "0X") {
		s, base = s[2:], 16
	}
	if s == "" {
		return nil, fmt.Errorf("empty felt")
	}
	v, ok := new(big.Int).SetString(s, base)
	if !ok {
		return nil, fmt.Errorf("invalid felt %q", s)
	}
	return v, nil
}

// NormalizeFelt rewrites a hex felt in canonical lower-case form without
// leading zeros.
func NormalizeFelt(s string) (string, error) {
	v, err := ParseFelt(s)
	if err != nil {
		return "", err
	}
	return Felt(v), nil
}
