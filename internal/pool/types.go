package pool

import (
	"context"
	"fmt"

	"github.com/poolworks/solana-pool-indexer/internal/rpc"
)

// Connection is the slice of Solana RPC the pool pipeline needs. It is
// passed explicitly into every pipeline component; nothing reads a client
// from package state. *rpc.Client satisfies it.
type Connection interface {
	GetProgramAccounts(ctx context.Context, programID string, dataSize uint64) ([]rpc.KeyedAccount, error)
	GetAccountInfo(ctx context.Context, address string) (*rpc.KeyedAccount, error)
	GetTokenAccountBalance(ctx context.Context, address string) (uint64, error)
}

// PriceSource supplies per-mint USD prices for TVL estimation. A price of 0
// means "unknown" and simply contributes nothing to TVL.
type PriceSource interface {
	USDPrice(ctx context.Context, mint string) (float64, error)
}

// MintInfo is a display-friendly token descriptor. It is resolved on demand
// per mint address and never persisted.
type MintInfo struct {
	Address  string `json:"address"`
	Symbol   string `json:"symbol"`
	Name     string `json:"name"`
	Decimals uint8  `json:"decimals"`
	LogoURI  string `json:"logoURI"`
}

// PoolMetrics holds the 24h placeholder estimates derived from TVL.
type PoolMetrics struct {
	Volume24h float64 `json:"volume_24h"`
	Fees24h   float64 `json:"fees_24h"`
	APR24h    float64 `json:"apr_24h"`
}

// OnchainPoolData is a fully assembled pool record. Immutable once built;
// recomputed on every fetch.
type OnchainPoolData struct {
	Address   string          `json:"address"`
	ProgramID string          `json:"program_id"`
	SwapData  *RawSwapAccount `json:"-"`

	MintA MintInfo `json:"mint_a"`
	MintB MintInfo `json:"mint_b"`

	TokenAccountA string `json:"token_account_a"`
	TokenAccountB string `json:"token_account_b"`

	ReserveA uint64 `json:"reserve_a"`
	ReserveB uint64 `json:"reserve_b"`

	// FeeRate is always within [0, 0.05]; unrealistic on-chain values are
	// replaced with the 1% fallback during assembly.
	FeeRate float64 `json:"fee_rate"`

	TVL       float64 `json:"tvl"`
	Volume24h float64 `json:"volume_24h"`
	Fees24h   float64 `json:"fees_24h"`
	APR24h    float64 `json:"apr_24h"`
}

// HasPair reports whether the pool trades the given mint pair, in either
// orientation.
func (p *OnchainPoolData) HasPair(mintX, mintY string) bool {
	return (p.MintA.Address == mintX && p.MintB.Address == mintY) ||
		(p.MintA.Address == mintY && p.MintB.Address == mintX)
}

// ReservesFor returns (reserveIn, reserveOut) for a swap selling inputMint.
// ok is false when inputMint is not one of the pool's mints.
func (p *OnchainPoolData) ReservesFor(inputMint string) (reserveIn, reserveOut uint64, ok bool) {
	switch inputMint {
	case p.MintA.Address:
		return p.ReserveA, p.ReserveB, true
	case p.MintB.Address:
		return p.ReserveB, p.ReserveA, true
	}
	return 0, 0, false
}

// PoolListProps is the flattened tabular projection of a pool record.
// Derived, never independently mutated.
type PoolListProps struct {
	ID        string   `json:"id"`
	ProgramID string   `json:"program_id"`
	SwapFee   float64  `json:"swap_fee"`
	MintA     MintInfo `json:"mint_a"`
	MintB     MintInfo `json:"mint_b"`
	Liquidity float64  `json:"liquidity"`
	Volume24h float64  `json:"volume_24h"`
	Fees24h   float64  `json:"fees_24h"`
	APR24h    float64  `json:"apr_24h"`
}

// PoolSource discriminates where a pool record came from.
type PoolSource uint8

const (
	// SourceOnchain marks pools discovered by scanning the swap program.
	SourceOnchain PoolSource = iota + 1
	// SourceStatic marks pools seeded from the curated JSON registry.
	SourceStatic
)

func (s PoolSource) String() string {
	switch s {
	case SourceOnchain:
		return "onchain"
	case SourceStatic:
		return "static"
	}
	return fmt.Sprintf("PoolSource(%d)", uint8(s))
}

// PoolRecord is a tagged union over the two pool data sources. Exactly one
// of Onchain/Static is set, matching Source.
type PoolRecord struct {
	Source  PoolSource
	Onchain *OnchainPoolData
	Static  *StaticPool
}

// ListProps flattens a record for tabular display. The switch is exhaustive
// over PoolSource; an inconsistent record is a programming error.
func (r PoolRecord) ListProps() (PoolListProps, error) {
	switch r.Source {
	case SourceOnchain:
		if r.Onchain == nil {
			return PoolListProps{}, fmt.Errorf("onchain pool record without payload")
		}
		p := r.Onchain
		return PoolListProps{
			ID:        p.Address,
			ProgramID: p.ProgramID,
			SwapFee:   p.FeeRate,
			MintA:     p.MintA,
			MintB:     p.MintB,
			Liquidity: p.TVL,
			Volume24h: p.Volume24h,
			Fees24h:   p.Fees24h,
			APR24h:    p.APR24h,
		}, nil
	case SourceStatic:
		if r.Static == nil {
			return PoolListProps{}, fmt.Errorf("static pool record without payload")
		}
		s := r.Static
		rate, _ := CalculateFeeRate(s.FeeNumerator, s.FeeDenominator)
		return PoolListProps{
			ID:        s.SwapAccount.String(),
			ProgramID: s.ProgramID.String(),
			SwapFee:   rate,
			MintA:     MintInfo{Address: s.TokenMintA.String()},
			MintB:     MintInfo{Address: s.TokenMintB.String()},
		}, nil
	default:
		return PoolListProps{}, fmt.Errorf("unknown pool source %d", r.Source)
	}
}
