package network

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultRegistry(t *testing.T) {
	r, err := Default()
	if err != nil {
		t.Fatalf("Default: %v", err)
	}

	if got := len(r.All()); got != 4 {
		t.Fatalf("expected 4 networks, got %d", got)
	}

	scroll, ok := r.Lookup(Scroll)
	if !ok {
		t.Fatal("scroll missing")
	}
	if scroll.Family != FamilyEVM || scroll.ChainID != "534352" {
		t.Fatalf("unexpected scroll entry: %+v", scroll)
	}
	usdt, ok := scroll.Token("usdt")
	if !ok {
		t.Fatal("expected case-insensitive token lookup")
	}
	if usdt.Decimals != 6 || usdt.Address != "0xf55BEC9cafDbE8730f096Aa55dad6D22d44099Df" {
		t.Fatalf("unexpected USDT entry: %+v", usdt)
	}

	stark, ok := r.Lookup(Starknet)
	if !ok || stark.Family != FamilyCairo {
		t.Fatalf("unexpected starknet entry: %+v", stark)
	}
	dai, _ := stark.Token("DAI")
	if dai.Decimals != 18 {
		t.Fatalf("expected DAI with 18 decimals, got %d", dai.Decimals)
	}

	if _, ok := r.Lookup("solana"); ok {
		t.Fatal("unexpected network")
	}
	if _, ok := scroll.Token("WBTC"); ok {
		t.Fatal("unexpected token")
	}
}

func TestParse_Rejects(t *testing.T) {
	cases := map[string]string{
		"unknown family": `
networks:
  - {id: scroll, name: S, family: move, chain_id: "1", rpc_url: "https://x.io",
     tokens: [{symbol: USDT, decimals: 6, address: "0x0000000000000000000000000000000000000000"}]}`,
		"bad token address": `
networks:
  - {id: scroll, name: S, family: evm, chain_id: "1", rpc_url: "https://x.io",
     tokens: [{symbol: USDT, decimals: 6, address: "0x1234"}]}`,
		"duplicate token": `
networks:
  - {id: scroll, name: S, family: evm, chain_id: "1", rpc_url: "https://x.io",
     tokens: [{symbol: USDT, decimals: 6, address: "0x0000000000000000000000000000000000000000"},
              {symbol: usdt, decimals: 6, address: "0x0000000000000000000000000000000000000000"}]}`,
		"no tokens": `
networks:
  - {id: scroll, name: S, family: evm, chain_id: "1", rpc_url: "https://x.io", tokens: []}`,
	}
	for name, doc := range cases {
		if _, err := Parse([]byte(doc)); err == nil {
			t.Fatalf("%s: expected error", name)
		}
	}
}

func TestLoadFromFileAndOverride(t *testing.T) {
	path := filepath.Join(t.TempDir(), "networks.yaml")
	if err := os.WriteFile(path, defaultRegistry, 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}
	r, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	over, err := r.WithRPCOverrides(map[string]string{"scroll": "http://localhost:8545"})
	if err != nil {
		t.Fatalf("WithRPCOverrides: %v", err)
	}
	n, _ := over.Lookup(Scroll)
	if n.RPCURL != "http://localhost:8545" {
		t.Fatalf("override not applied: %s", n.RPCURL)
	}
	orig, _ := r.Lookup(Scroll)
	if orig.RPCURL != "https://rpc.scroll.io" {
		t.Fatalf("original registry mutated: %s", orig.RPCURL)
	}

	if _, err := r.WithRPCOverrides(map[string]string{"bitcoin": "x"}); err == nil {
		t.Fatal("expected error for unknown network override")
	}
}

func TestValidateAddress(t *testing.T) {
	cases := []struct {
		family Family
		addr   string
		ok     bool
	}{
		{FamilyEVM, "0x742d35Cc6634C0532925a3b844Bc454e4438f44e", true},
		{FamilyEVM, "0x742d35Cc6634C0532925a3b844Bc454e4438f44", false},
		{FamilyEVM, "742d35Cc6634C0532925a3b844Bc454e4438f44e", false},
		{FamilyEVM, "0xZZ2d35Cc6634C0532925a3b844Bc454e4438f44e", false},
		{FamilyCairo, "0x1", true},
		{FamilyCairo, "0x068f5c6a61780768455de69077e07e89787839bf8166decfbf92b645209c0fb8", true},
		{FamilyCairo, "0x" + "1234567890123456789012345678901234567890123456789012345678901234a", false},
		{FamilyCairo, "0x", false},
		{"move", "0x1", false},
	}
	for _, tc := range cases {
		err := ValidateAddress(tc.family, tc.addr)
		if (err == nil) != tc.ok {
			t.Fatalf("ValidateAddress(%s, %s) = %v, want ok=%v", tc.family, tc.addr, err, tc.ok)
		}
	}
}

func TestIsZeroAddress(t *testing.T) {
	if !IsZeroAddress("0x0000000000000000000000000000000000000000") || !IsZeroAddress("0x0") {
		t.Fatal("expected zero address")
	}
	if IsZeroAddress("0x0000000000000000000000000000000000000001") {
		t.Fatal("unexpected zero address")
	}
}
