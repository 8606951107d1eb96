// Package intent turns user-entered transfer fields into a validated,
// immutable TransferIntent.
package intent

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"math/big"
	"regexp"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/chainsafe/token-wallet/pkg/network"
)

// Field names reported by ValidationError.
const (
	FieldNetwork   = "network"
	FieldToken     = "token"
	FieldRecipient = "recipient"
	FieldAmount    = "amount"
)

// ValidationError reports the first input field that failed validation.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// Fields is the raw user input.
type Fields struct {
	Network   string
	Token     string
	Recipient string
	Amount    string
}

// Intent is a validated transfer. It is never mutated after Build; editing
// the input means building a new Intent.
type Intent struct {
	network   *network.Network
	token     network.Token
	recipient string
	amount    string
	smallest  *big.Int
}

// Network returns the target network.
func (i *Intent) Network() *network.Network { return i.network }

// Token returns the token being transferred.
func (i *Intent) Token() network.Token { return i.token }

// Recipient returns the recipient address as entered.
func (i *Intent) Recipient() string { return i.recipient }

// Amount returns the human amount as entered, with fractional digits beyond
// the token's decimals cut off.
func (i *Intent) Amount() string { return i.amount }

// AmountSmallestUnit returns floor(amount * 10^decimals). The returned value is a copy.
func (i *Intent) AmountSmallestUnit() *big.Int { return new(big.Int).Set(i.smallest) }

// AmountDecimal returns the amount after truncation to the token's decimals.
func (i *Intent) AmountDecimal() decimal.Decimal {
	return decimal.NewFromBigInt(i.smallest, -i.token.Decimals)
}

// Fingerprint identifies the transfer by network, token, recipient and amount.
// Two intents built from identical input share a fingerprint.
func (i *Intent) Fingerprint() string {
	h := sha256.New()
	fmt.Fprintf(h, "%s|%s|%s|%s",
		i.network.ID,
		strings.ToUpper(i.token.Symbol),
		network.NormalizeAddress(i.recipient),
		i.smallest.String(),
	)
	return hex.EncodeToString(h.Sum(nil))
}

var amountPattern = regexp.MustCompile(`^(\d+(\.\d*)?|\.\d+)$`)

// Builder validates raw input against a network registry.
type Builder struct {
	registry *network.Registry
}

// NewBuilder creates a Builder over registry.
func NewBuilder(registry *network.Registry) *Builder {
	return &Builder{registry: registry}
}

// Build validates f in order (network, token, recipient, amount) and returns
// the first failure as a *ValidationError. Fractional digits beyond the
// token's decimals are truncated, never rounded. Balance sufficiency is the
// caller's concern.
func (b *Builder) Build(f Fields) (*Intent, error) {
	net, ok := b.registry.Lookup(network.ID(strings.TrimSpace(f.Network)))
	if !ok {
		return nil, &ValidationError{Field: FieldNetwork, Reason: fmt.Sprintf("unsupported network %q", f.Network)}
	}

	token, ok := net.Token(strings.TrimSpace(f.Token))
	if !ok {
		return nil, &ValidationError{Field: FieldToken, Reason: fmt.Sprintf("token %q is not available on %s", f.Token, net.ID)}
	}

	recipient := strings.TrimSpace(f.Recipient)
	if err := network.ValidateAddress(net.Family, recipient); err != nil {
		return nil, &ValidationError{Field: FieldRecipient, Reason: err.Error()}
	}

	smallest, err := ToSmallestUnit(f.Amount, token.Decimals)
	if err != nil {
		return nil, &ValidationError{Field: FieldAmount, Reason: err.Error()}
	}

	return &Intent{
		network:   net,
		token:     token,
		recipient: recipient,
		amount:    truncateDisplay(f.Amount, token.Decimals),
		smallest:  smallest,
	}, nil
}

// truncateDisplay cuts amount to at most decimals fractional digits. Input
// that is already within precision is returned unchanged, so "100.00" stays
// "100.00".
func truncateDisplay(amount string, decimals int32) string {
	amount = strings.TrimSpace(amount)
	whole, frac, ok := strings.Cut(amount, ".")
	if !ok || len(frac) <= int(decimals) {
		return amount
	}
	if whole == "" {
		whole = "0"
	}
	if decimals <= 0 {
		return whole
	}
	return whole + "." + frac[:decimals]
}

// ToSmallestUnit converts a positive human decimal amount to the token's
// smallest unit, truncating excess precision.
func ToSmallestUnit(amount string, decimals int32) (*big.Int, error) {
	amount = strings.TrimSpace(amount)
	if !amountPattern.MatchString(amount) {
		return nil, fmt.Errorf("must be a positive decimal number")
	}
	d, err := decimal.NewFromString(amount)
	if err != nil {
		return nil, fmt.Errorf("must be a positive decimal number")
	}
	smallest := d.Shift(decimals).Truncate(0).BigInt()
	if smallest.Sign() <= 0 {
		return nil, fmt.Errorf("must be greater than zero at %d decimals", decimals)
	}
	return smallest, nil
}
