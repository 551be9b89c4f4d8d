package pool

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/gagliardetto/solana-go"
)

// StaticPoolConfig is a pool entry in the curated JSON registry. Static
// pools are a second data source next to on-chain discovery, useful when an
// RPC node forbids getProgramAccounts scans.
type StaticPoolConfig struct {
	Name           string `json:"name"`
	ProgramID      string `json:"program_id"`
	SwapAccount    string `json:"swap_account"`
	TokenMintA     string `json:"token_mint_a"`
	TokenMintB     string `json:"token_mint_b"`
	VaultA         string `json:"vault_a"`
	VaultB         string `json:"vault_b"`
	FeeNumerator   uint64 `json:"fee_numerator"`
	FeeDenominator uint64 `json:"fee_denominator"`
}

// StaticPool is a parsed, ready-to-use static pool entry.
type StaticPool struct {
	Name           string
	ProgramID      solana.PublicKey
	SwapAccount    solana.PublicKey
	TokenMintA     solana.PublicKey
	TokenMintB     solana.PublicKey
	VaultA         solana.PublicKey
	VaultB         solana.PublicKey
	FeeNumerator   uint64
	FeeDenominator uint64
}

// Registry holds the static pools loaded from a JSON file.
type Registry struct {
	pools []StaticPool
}

// LoadRegistry reads and parses static pool configurations.
func LoadRegistry(path string) (*Registry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read registry file: %w", err)
	}

	var configs []StaticPoolConfig
	if err := json.Unmarshal(data, &configs); err != nil {
		return nil, fmt.Errorf("failed to parse registry JSON: %w", err)
	}

	pools := make([]StaticPool, 0, len(configs))
	for i, cfg := range configs {
		p, err := parseStaticPool(cfg)
		if err != nil {
			return nil, fmt.Errorf("pool %d (%s): %w", i, cfg.Name, err)
		}
		pools = append(pools, p)
	}

	return &Registry{pools: pools}, nil
}

func parseStaticPool(cfg StaticPoolConfig) (StaticPool, error) {
	if cfg.FeeDenominator == 0 {
		return StaticPool{}, fmt.Errorf("fee_denominator must be > 0")
	}

	p := StaticPool{
		Name:           cfg.Name,
		FeeNumerator:   cfg.FeeNumerator,
		FeeDenominator: cfg.FeeDenominator,
	}

	var err error
	if p.ProgramID, err = solana.PublicKeyFromBase58(cfg.ProgramID); err != nil {
		return StaticPool{}, fmt.Errorf("invalid program_id: %w", err)
	}
	if p.SwapAccount, err = solana.PublicKeyFromBase58(cfg.SwapAccount); err != nil {
		return StaticPool{}, fmt.Errorf("invalid swap_account: %w", err)
	}
	if p.TokenMintA, err = solana.PublicKeyFromBase58(cfg.TokenMintA); err != nil {
		return StaticPool{}, fmt.Errorf("invalid token_mint_a: %w", err)
	}
	if p.TokenMintB, err = solana.PublicKeyFromBase58(cfg.TokenMintB); err != nil {
		return StaticPool{}, fmt.Errorf("invalid token_mint_b: %w", err)
	}
	if p.VaultA, err = solana.PublicKeyFromBase58(cfg.VaultA); err != nil {
		return StaticPool{}, fmt.Errorf("invalid vault_a: %w", err)
	}
	if p.VaultB, err = solana.PublicKeyFromBase58(cfg.VaultB); err != nil {
		return StaticPool{}, fmt.Errorf("invalid vault_b: %w", err)
	}

	return p, nil
}

// FindByMints searches for a static pool matching the given token pair in
// either orientation.
func (r *Registry) FindByMints(mintA, mintB solana.PublicKey) (*StaticPool, bool) {
	for i := range r.pools {
		p := &r.pools[i]
		if (p.TokenMintA.Equals(mintA) && p.TokenMintB.Equals(mintB)) ||
			(p.TokenMintA.Equals(mintB) && p.TokenMintB.Equals(mintA)) {
			return p, true
		}
	}
	return nil, false
}

// Records returns all static pools wrapped as tagged pool records.
func (r *Registry) Records() []PoolRecord {
	out := make([]PoolRecord, 0, len(r.pools))
	for i := range r.pools {
		out = append(out, PoolRecord{Source: SourceStatic, Static: &r.pools[i]})
	}
	return out
}

// Count returns the number of registered static pools.
func (r *Registry) Count() int {
	return len(r.pools)
}
