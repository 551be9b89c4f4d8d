package constants

// Redis keys
const (
	RedisKeyPoolList    = "pools:all"
	RedisKeyPoolPrefix  = "pools:addr:"
	RedisKeyPricePrefix = "price:"
)

// Redis Pub/Sub channels
const (
	PubSubChannelPools = "pools:updates"
)

// Feature flag keys consulted by the indexer at runtime.
const (
	FlagIndexerPaused  = "indexer.paused"
	FlagMetricsEnabled = "indexer.metrics.enabled"
)

// Pipeline defaults
const (
	// DefaultBatchSize bounds how many pool accounts are assembled
	// concurrently per batch (each account fans out into ~4 RPC calls).
	DefaultBatchSize = 10

	MaxPoolListLimit = 200
)

// Native asset
const (
	// NativeMint is the wrapped SOL mint; native lamport balances are
	// reported separately from token-account balances in transaction meta.
	NativeMint       = "So11111111111111111111111111111111111111112"
	LamportsPerSol   = 1_000_000_000
	FallbackDecimals = 6
)

// DefaultSwapProgramID is the SPL Token Swap deployment the indexer scans
// when SWAP_PROGRAM_ID is not set (the Orca legacy constant-product fork).
const DefaultSwapProgramID = "9W959DqEETiGZocYWCQPaJ6sBmUzgfxXfqGeTEdp3aQP"

// PlaceholderLogoURI is assigned to mints we cannot resolve from the registry.
const PlaceholderLogoURI = "https://raw.githubusercontent.com/solana-labs/token-list/main/assets/mainnet/unknown.png"

// TokenMeta describes a known token from the static registry.
type TokenMeta struct {
	Symbol   string
	Name     string
	Decimals uint8
	LogoURI  string
}

// KnownTokens maps mint addresses to curated metadata. Lookups here are
// authoritative; anything missing falls back to on-chain resolution.
var KnownTokens = map[string]TokenMeta{
	"So11111111111111111111111111111111111111112": {
		Symbol: "SOL", Name: "Wrapped SOL", Decimals: 9,
		LogoURI: "https://raw.githubusercontent.com/solana-labs/token-list/main/assets/mainnet/So11111111111111111111111111111111111111112/logo.png",
	},
	"EPjFWdd5AufqSSqeM2qN1xzybapC8G4wEGGkZwyTDt1v": {
		Symbol: "USDC", Name: "USD Coin", Decimals: 6,
		LogoURI: "https://raw.githubusercontent.com/solana-labs/token-list/main/assets/mainnet/EPjFWdd5AufqSSqeM2qN1xzybapC8G4wEGGkZwyTDt1v/logo.png",
	},
	"Es9vMFrzaCERmJfrF4H2FYD4KCoNkY11McCe8BenwNYB": {
		Symbol: "USDT", Name: "USDT", Decimals: 6,
		LogoURI: "https://raw.githubusercontent.com/solana-labs/token-list/main/assets/mainnet/Es9vMFrzaCERmJfrF4H2FYD4KCoNkY11McCe8BenwNYB/logo.svg",
	},
	"mSoLzYCxHdYgdzU16g5QSh3i5K3z3KZK7ytfqcJm7So": {
		Symbol: "mSOL", Name: "Marinade staked SOL", Decimals: 9,
		LogoURI: "https://raw.githubusercontent.com/solana-labs/token-list/main/assets/mainnet/mSoLzYCxHdYgdzU16g5QSh3i5K3z3KZK7ytfqcJm7So/logo.png",
	},
	"7vfCXTUXx5WJV5JADk17DUJ4ksgau7utNKj4b963voxs": {
		Symbol: "soETH", Name: "Wrapped Ethereum (Sollet)", Decimals: 6,
		LogoURI: PlaceholderLogoURI,
	},
	"DezXAZ8z7PnrnRJjz3wXBoRgixCa6xjnB7YaB1pPB263": {
		Symbol: "BONK", Name: "Bonk", Decimals: 5,
		LogoURI: PlaceholderLogoURI,
	},
	"JUPyiwrYJFskUPiHa7hkeR8VUtAeFoSYbKedZNsDvCN": {
		Symbol: "JUP", Name: "Jupiter", Decimals: 6,
		LogoURI: PlaceholderLogoURI,
	},
	"4k3Dyjzvzp8eMZWUXbBCjEvwSkkk59S5iCNLY3QrkX6R": {
		Symbol: "RAY", Name: "Raydium", Decimals: 6,
		LogoURI: PlaceholderLogoURI,
	},
	"orcaEKTdK7LKz57vaAYr9QeNsVEPfiu6QeMU1kektZE": {
		Symbol: "ORCA", Name: "Orca", Decimals: 6,
		LogoURI: PlaceholderLogoURI,
	},
}
