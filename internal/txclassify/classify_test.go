package txclassify

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/poolworks/solana-pool-indexer/internal/constants"
	"github.com/poolworks/solana-pool-indexer/internal/rpc"
)

func TestClassify(t *testing.T) {
	cases := []struct {
		name       string
		baseDelta  float64
		quoteDelta float64
		want       TradeType
	}{
		{"base up quote down is buy", 5, -10, TradeBuy},
		{"base down quote up is sell", -5, 10, TradeSell},
		{"both up is remove liquidity", 5, 10, TradeRemove},
		{"both down is add liquidity", -5, -10, TradeAdd},
		{"no movement is unknown", 0, 0, TradeUnknown},
		{"one-sided movement is unknown", 5, 0, TradeUnknown},
		{"dust below epsilon is unknown", 1e-12, -1e-12, TradeUnknown},
		{"just above epsilon classifies", 1e-8, -1e-8, TradeBuy},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, Classify(tc.baseDelta, tc.quoteDelta))
		})
	}
}

func TestBalanceDelta_Token(t *testing.T) {
	const (
		mint   = "EPjFWdd5AufqSSqeM2qN1xzybapC8G4wEGGkZwyTDt1v"
		wallet = "5Q544fKrFoe6tsEbD7S8EmxGTJYAKtTVhAW5Q5pge4j1"
	)

	meta := &rpc.TransactionMeta{
		PreTokenBalances: []rpc.TokenBalance{
			{Mint: mint, Owner: wallet, UITokenAmount: rpc.TokenAmount{UIAmount: 100}},
			{Mint: mint, Owner: "someone-else", UITokenAmount: rpc.TokenAmount{UIAmount: 7}},
		},
		PostTokenBalances: []rpc.TokenBalance{
			{Mint: mint, Owner: wallet, UITokenAmount: rpc.TokenAmount{UIAmount: 150}},
		},
	}

	assert.InDelta(t, 50, BalanceDelta(meta, nil, mint, wallet), 1e-9)
}

func TestBalanceDelta_TokenAccountCreated(t *testing.T) {
	// No pre entry: the token account was created by this transaction.
	meta := &rpc.TransactionMeta{
		PostTokenBalances: []rpc.TokenBalance{
			{Mint: "mintX", Owner: "walletX", UITokenAmount: rpc.TokenAmount{UIAmount: 42}},
		},
	}

	assert.InDelta(t, 42, BalanceDelta(meta, nil, "mintX", "walletX"), 1e-9)
}

func TestBalanceDelta_Native(t *testing.T) {
	keys := []rpc.AccountKey{
		{Pubkey: "feePayer"},
		{Pubkey: "walletX"},
	}
	meta := &rpc.TransactionMeta{
		PreBalances:  []uint64{5_000_000_000, 2_000_000_000},
		PostBalances: []uint64{4_999_995_000, 3_500_000_000},
	}

	delta := BalanceDelta(meta, keys, constants.NativeMint, "walletX")
	assert.InDelta(t, 1.5, delta, 1e-9)
}

func TestBalanceDelta_NativeWalletMissing(t *testing.T) {
	meta := &rpc.TransactionMeta{
		PreBalances:  []uint64{1_000_000_000},
		PostBalances: []uint64{2_000_000_000},
	}
	keys := []rpc.AccountKey{{Pubkey: "someone-else"}}

	assert.Zero(t, BalanceDelta(meta, keys, constants.NativeMint, "walletX"))
}

func TestBalanceDelta_NilMeta(t *testing.T) {
	assert.Zero(t, BalanceDelta(nil, nil, "mintX", "walletX"))
}
