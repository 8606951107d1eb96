// Package network holds the static registry of supported chains and their
// token contracts.
package network

import (
	_ "embed"
	"fmt"
	"os"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// ID identifies a supported network.
type ID string

const (
	Scroll          ID = "scroll"
	ScrollSepolia   ID = "scroll-sepolia"
	Starknet        ID = "starknet"
	StarknetSepolia ID = "starknet-sepolia"
)

// Family groups networks sharing an address format and account model.
type Family string

const (
	FamilyEVM   Family = "evm"
	FamilyCairo Family = "cairo"
)

// Token is a token contract deployed on a network.
type Token struct {
	Symbol   string `yaml:"symbol" validate:"required"`
	Name     string `yaml:"name"`
	Decimals int32  `yaml:"decimals" validate:"gte=0,lte=36"`
	Address  string `yaml:"address" validate:"required"`
}

// Network describes a chain the wallet can read from and dispatch to.
type Network struct {
	ID          ID      `yaml:"id" validate:"required,oneof=scroll scroll-sepolia starknet starknet-sepolia"`
	Name        string  `yaml:"name" validate:"required"`
	Family      Family  `yaml:"family" validate:"required,oneof=evm cairo"`
	ChainID     string  `yaml:"chain_id" validate:"required"`
	RPCURL      string  `yaml:"rpc_url" validate:"required,url"`
	ExplorerURL string  `yaml:"explorer_url" validate:"omitempty,url"`
	Testnet     bool    `yaml:"testnet"`
	Tokens      []Token `yaml:"tokens" validate:"required,min=1,dive"`
}

// Token returns the token with the given symbol, case-insensitively.
func (n *Network) Token(symbol string) (Token, bool) {
	for _, t := range n.Tokens {
		if strings.EqualFold(t.Symbol, symbol) {
			return t, true
		}
	}
	return Token{}, false
}

// ExplorerTxURL links to a transaction on the network's block explorer.
func (n *Network) ExplorerTxURL(hash string) string {
	if n.ExplorerURL == "" || hash == "" {
		return ""
	}
	return strings.TrimRight(n.ExplorerURL, "/") + "/tx/" + hash
}

//go:embed networks.yaml
var defaultRegistry []byte

type registryFile struct {
	Networks []Network `yaml:"networks" validate:"required,min=1,dive"`
}

// Registry is an immutable, ordered set of networks.
type Registry struct {
	networks map[ID]*Network
	order    []ID
}

// Default returns the registry compiled into the binary.
func Default() (*Registry, error) {
	return Parse(defaultRegistry)
}

// Load reads a registry from a YAML file, falling back to the embedded
// registry when path is empty.
func Load(path string) (*Registry, error) {
	if path == "" {
		return Default()
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read network registry: %w", err)
	}
	return Parse(data)
}

// Parse decodes and validates a YAML registry document.
func Parse(data []byte) (*Registry, error) {
	var file registryFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to decode network registry: %w", err)
	}
	if err := validator.New().Struct(&file); err != nil {
		return nil, fmt.Errorf("invalid network registry: %w", err)
	}

	r := &Registry{networks: make(map[ID]*Network, len(file.Networks))}
	for i := range file.Networks {
		n := file.Networks[i]
		if _, dup := r.networks[n.ID]; dup {
			return nil, fmt.Errorf("invalid network registry: duplicate network %q", n.ID)
		}
		seen := make(map[string]bool, len(n.Tokens))
		for _, t := range n.Tokens {
			sym := strings.ToUpper(t.Symbol)
			if seen[sym] {
				return nil, fmt.Errorf("invalid network registry: duplicate token %s on %s", t.Symbol, n.ID)
			}
			seen[sym] = true
			if err := ValidateAddress(n.Family, t.Address); err != nil {
				return nil, fmt.Errorf("invalid network registry: token %s on %s: %w", t.Symbol, n.ID, err)
			}
		}
		r.networks[n.ID] = &n
		r.order = append(r.order, n.ID)
	}
	return r, nil
}

// WithRPCOverrides returns a copy of the registry with the RPC endpoints of
// the named networks replaced.
func (r *Registry) WithRPCOverrides(overrides map[string]string) (*Registry, error) {
	out := &Registry{networks: make(map[ID]*Network, len(r.networks)), order: r.order}
	for id, n := range r.networks {
		cp := *n
		out.networks[id] = &cp
	}
	for id, url := range overrides {
		n, ok := out.networks[ID(id)]
		if !ok {
			return nil, fmt.Errorf("rpc override for unknown network %q", id)
		}
		n.RPCURL = url
	}
	return out, nil
}

// Lookup returns the network with the given id.
func (r *Registry) Lookup(id ID) (*Network, bool) {
	n, ok := r.networks[id]
	return n, ok
}

// All returns the networks in registry order.
func (r *Registry) All() []*Network {
	out := make([]*Network, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.networks[id])
	}
	return out
}

var (
	evmAddressPattern   = regexp.MustCompile(`^0x[0-9a-fA-F]{40}$`)
	cairoAddressPattern = regexp.MustCompile(`^0x[0-9a-fA-F]{1,64}$`)
)

// ValidateAddress checks addr against the address grammar of family.
func ValidateAddress(family Family, addr string) error {
	switch family {
	case FamilyEVM:
		if !evmAddressPattern.MatchString(addr) {
			return fmt.Errorf("not a valid EVM address")
		}
	case FamilyCairo:
		if !cairoAddressPattern.MatchString(addr) {
			return fmt.Errorf("not a valid Starknet address")
		}
	default:
		return fmt.Errorf("unknown network family %q", family)
	}
	return nil
}

// NormalizeAddress lower-cases an address for storage and comparison.
func NormalizeAddress(addr string) string {
	return strings.ToLower(strings.TrimSpace(addr))
}

// IsZeroAddress reports whether addr is a placeholder zero address.
func IsZeroAddress(addr string) bool {
	hex := strings.TrimPrefix(strings.ToLower(addr), "0x")
	return strings.Trim(hex, "0") == ""
}
