// Package txclassify derives wallet balance deltas from transaction meta
// and classifies the transaction relative to a pool's base/quote pair.
package txclassify

import (
	"github.com/poolworks/solana-pool-indexer/internal/constants"
	"github.com/poolworks/solana-pool-indexer/internal/rpc"
)

// deltaEpsilon treats near-zero balance deltas as zero.
const deltaEpsilon = 1e-9

// TradeType classifies a transaction from the wallet's perspective.
type TradeType string

const (
	TradeBuy     TradeType = "BUY"
	TradeSell    TradeType = "SELL"
	TradeAdd     TradeType = "ADD"
	TradeRemove  TradeType = "REMOVE"
	TradeUnknown TradeType = "UNKNOWN"
)

// BalanceDelta returns post-pre for the wallet's holding of mint.
//
// Token balances come from the pre/post token-balance snapshots (matched on
// owner and mint). The native mint is special-cased: native deltas are
// reported through the lamport balance arrays at the wallet's account-key
// index, not through token accounts.
func BalanceDelta(meta *rpc.TransactionMeta, accountKeys []rpc.AccountKey, mint, wallet string) float64 {
	if meta == nil {
		return 0
	}

	if mint == constants.NativeMint {
		return nativeBalanceDelta(meta, accountKeys, wallet)
	}

	pre := tokenBalanceFor(meta.PreTokenBalances, mint, wallet)
	post := tokenBalanceFor(meta.PostTokenBalances, mint, wallet)
	return post - pre
}

func tokenBalanceFor(balances []rpc.TokenBalance, mint, wallet string) float64 {
	for _, b := range balances {
		if b.Mint == mint && b.Owner == wallet {
			return b.UITokenAmount.UIAmount
		}
	}
	// No entry means the token account did not exist on that side.
	return 0
}

func nativeBalanceDelta(meta *rpc.TransactionMeta, accountKeys []rpc.AccountKey, wallet string) float64 {
	for i, key := range accountKeys {
		if key.Pubkey != wallet {
			continue
		}
		if i >= len(meta.PreBalances) || i >= len(meta.PostBalances) {
			return 0
		}
		pre := float64(meta.PreBalances[i]) / constants.LamportsPerSol
		post := float64(meta.PostBalances[i]) / constants.LamportsPerSol
		return post - pre
	}
	return 0
}

// Classify maps base/quote deltas to a trade type. The ADD/REMOVE mapping
// is from the wallet's perspective: removing liquidity sends both tokens to
// the wallet (both deltas up), adding sends both out (both down).
func Classify(baseDelta, quoteDelta float64) TradeType {
	baseUp := baseDelta > deltaEpsilon
	baseDown := baseDelta < -deltaEpsilon
	quoteUp := quoteDelta > deltaEpsilon
	quoteDown := quoteDelta < -deltaEpsilon

	switch {
	case baseUp && quoteDown:
		return TradeBuy
	case baseDown && quoteUp:
		return TradeSell
	case baseUp && quoteUp:
		return TradeRemove
	case baseDown && quoteDown:
		return TradeAdd
	default:
		return TradeUnknown
	}
}
