package server

import "github.com/poolworks/solana-pool-indexer/internal/pool"

// ErrorResponse represents a standardized error response format
type ErrorResponse struct {
	Error   string `json:"error"`             // Human-readable error message
	Code    int    `json:"code"`              // HTTP status code
	Details any    `json:"details,omitempty"` // Additional error details (dev mode only)
}

// HealthResponse represents the health check response
type HealthResponse struct {
	OK bool `json:"ok"`
}

// PoolListResponse wraps the tabular pool projections.
type PoolListResponse struct {
	Items []pool.PoolListProps `json:"items"`
}

// QuoteResponse is the swap quote for the best matching pool.
type QuoteResponse struct {
	Pool         string  `json:"pool"`
	InputMint    string  `json:"input_mint"`
	OutputMint   string  `json:"output_mint"`
	InputAmount  float64 `json:"input_amount"`
	OutputAmount float64 `json:"output_amount"`
	PriceImpact  float64 `json:"price_impact_pct"`
	FeeRate      float64 `json:"fee_rate"`
}

// DepositResponse is the paired-deposit calculation result. PairedAmount is
// empty when the pool has no established ratio yet.
type DepositResponse struct {
	Pool         string `json:"pool"`
	KnownSide    string `json:"known_side"`
	KnownAmount  string `json:"known_amount"`
	PairedSide   string `json:"paired_side"`
	PairedAmount string `json:"paired_amount"`
}

// TransactionResponse classifies a transaction for a wallet and pair.
type TransactionResponse struct {
	Signature  string  `json:"signature"`
	Wallet     string  `json:"wallet"`
	BaseMint   string  `json:"base_mint"`
	QuoteMint  string  `json:"quote_mint"`
	BaseDelta  float64 `json:"base_delta"`
	QuoteDelta float64 `json:"quote_delta"`
	Type       string  `json:"type"`
}

// PriceResponse represents a cached mint price.
type PriceResponse struct {
	Mint  string  `json:"mint"`
	Price float64 `json:"price"`
}

// FlagUpsertRequest represents a request to create or update a feature flag
type FlagUpsertRequest struct {
	Key   string `json:"key"`
	Value bool   `json:"value"`
}

// FlagUpdateRequest represents a request to update an existing feature flag
type FlagUpdateRequest struct {
	Value bool `json:"value"`
}

// AIAskRequest represents a natural language query request
type AIAskRequest struct {
	Question string `json:"question"`
	Model    string `json:"model"` // Optional AI model override
}

// AIAskResponse represents the response from an AI query
type AIAskResponse struct {
	SQL    string `json:"sql"`
	Answer string `json:"answer"`
	TookMs int64  `json:"took_ms"`
}
