package server

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"

	"github.com/poolworks/solana-pool-indexer/internal/ai"
	"github.com/poolworks/solana-pool-indexer/internal/cache"
	"github.com/poolworks/solana-pool-indexer/internal/constants"
	"github.com/poolworks/solana-pool-indexer/internal/flags"
	"github.com/poolworks/solana-pool-indexer/internal/pool"
	"github.com/poolworks/solana-pool-indexer/internal/rpc"
	"github.com/poolworks/solana-pool-indexer/internal/storage"
	"github.com/poolworks/solana-pool-indexer/internal/txclassify"
)

// Handlers contains all dependencies for API endpoint handlers
type Handlers struct {
	Cache        storage.PoolCache // Redis-backed pool cache
	Flags        *flags.Store      // Redis-backed feature flags store
	Registry     *pool.Registry    // Optional curated static pools
	RPC          *rpc.Client       // Solana RPC client (transaction lookups)
	AI           *ai.Agent         // AI agent for natural language queries
	AIBaseConfig ai.AgentConfig    // Base configuration for AI agents
	DevMode      bool              // Enable detailed error responses in development
	Logger       *logrus.Logger    // Structured logger
}

// err returns a standardized JSON error response
// In dev mode, includes additional error details for debugging
func (h *Handlers) err(c echo.Context, code int, msg string, details any) error {
	resp := ErrorResponse{Error: msg, Code: code}
	if h.DevMode && details != nil {
		resp.Details = details
	}
	return c.JSON(code, resp)
}

// withTimeout creates a context with timeout, defaulting to 10 seconds if duration <= 0
func (h *Handlers) withTimeout(ctx context.Context, d time.Duration) (context.Context, context.CancelFunc) {
	if d <= 0 {
		d = 10 * time.Second
	}
	return context.WithTimeout(ctx, d)
}

// Health returns a simple health check endpoint
func (h *Handlers) Health(c echo.Context) error {
	return c.JSON(http.StatusOK, HealthResponse{OK: true})
}

// Pools returns the cached pool list as flattened table rows.
// Accepts limit query parameter (default: 100, range: 1-200)
func (h *Handlers) Pools(c echo.Context) error {
	limitStr := c.QueryParam("limit")
	limit := 100
	if limitStr != "" {
		n, err := strconv.Atoi(limitStr)
		if err != nil {
			return h.err(c, http.StatusBadRequest, "invalid limit", map[string]any{"limit": "must be an integer"})
		}
		limit = n
	}
	if limit < 1 || limit > constants.MaxPoolListLimit {
		return h.err(c, http.StatusBadRequest, "invalid limit", map[string]any{"limit": "min 1 max 200"})
	}

	ctx, cancel := h.withTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	pools, err := h.Cache.GetPools(ctx, limit)
	if err != nil {
		return h.err(c, http.StatusInternalServerError, "failed to get pools", nil)
	}

	records := make([]pool.PoolRecord, 0, len(pools))
	for _, p := range pools {
		records = append(records, pool.PoolRecord{Source: pool.SourceOnchain, Onchain: p})
	}
	if h.Registry != nil {
		records = append(records, h.Registry.Records()...)
	}

	items := make([]pool.PoolListProps, 0, len(records))
	for _, record := range records {
		props, err := record.ListProps()
		if err != nil {
			h.Logger.WithError(err).Warn("skipping bad pool record")
			continue
		}
		items = append(items, props)
	}
	if len(items) > limit {
		items = items[:limit]
	}
	return c.JSON(http.StatusOK, PoolListResponse{Items: items})
}

// Pool returns a single cached pool by address.
func (h *Handlers) Pool(c echo.Context) error {
	address := strings.TrimSpace(c.Param("address"))
	if address == "" {
		return h.err(c, http.StatusBadRequest, "invalid address", nil)
	}

	ctx, cancel := h.withTimeout(c.Request().Context(), 3*time.Second)
	defer cancel()

	p, err := h.Cache.GetPool(ctx, address)
	if err != nil {
		if errors.Is(err, cache.ErrPoolNotFound) {
			return h.err(c, http.StatusNotFound, "pool not found", nil)
		}
		return h.err(c, http.StatusInternalServerError, "failed to get pool", nil)
	}
	return c.JSON(http.StatusOK, p)
}

// Price returns the cached USD price for a mint address.
func (h *Handlers) Price(c echo.Context) error {
	mint := strings.TrimSpace(c.Param("mint"))
	if mint == "" {
		return h.err(c, http.StatusBadRequest, "invalid mint", nil)
	}

	ctx, cancel := h.withTimeout(c.Request().Context(), 3*time.Second)
	defer cancel()

	price, err := h.Cache.GetPrice(ctx, mint)
	if err != nil {
		return h.err(c, http.StatusInternalServerError, "failed to get price", nil)
	}
	return c.JSON(http.StatusOK, PriceResponse{Mint: mint, Price: price})
}

// Transaction fetches a transaction and classifies it for a wallet and a
// base/quote mint pair.
func (h *Handlers) Transaction(c echo.Context) error {
	if h.RPC == nil {
		return h.err(c, http.StatusBadRequest, "rpc is not configured", nil)
	}

	signature := strings.TrimSpace(c.Param("signature"))
	if signature == "" {
		return h.err(c, http.StatusBadRequest, "invalid signature", nil)
	}
	baseMint := strings.TrimSpace(c.QueryParam("baseMint"))
	if baseMint == "" {
		return h.err(c, http.StatusBadRequest, "invalid baseMint", map[string]any{"baseMint": "required"})
	}
	quoteMint := strings.TrimSpace(c.QueryParam("quoteMint"))
	if quoteMint == "" {
		return h.err(c, http.StatusBadRequest, "invalid quoteMint", map[string]any{"quoteMint": "required"})
	}
	wallet := strings.TrimSpace(c.QueryParam("wallet"))
	if wallet == "" {
		return h.err(c, http.StatusBadRequest, "invalid wallet", map[string]any{"wallet": "required"})
	}

	ctx, cancel := h.withTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	txResp, err := h.RPC.GetTransaction(ctx, signature)
	if err != nil {
		return h.err(c, http.StatusBadGateway, "failed to fetch transaction", map[string]any{"err": err.Error()})
	}
	if txResp.Result == nil || txResp.Result.Meta == nil || txResp.Result.Transaction == nil {
		return h.err(c, http.StatusNotFound, "transaction not found", nil)
	}

	meta := txResp.Result.Meta
	keys := txResp.Result.Transaction.Message.AccountKeys

	baseDelta := txclassify.BalanceDelta(meta, keys, baseMint, wallet)
	quoteDelta := txclassify.BalanceDelta(meta, keys, quoteMint, wallet)

	return c.JSON(http.StatusOK, TransactionResponse{
		Signature:  signature,
		Wallet:     wallet,
		BaseMint:   baseMint,
		QuoteMint:  quoteMint,
		BaseDelta:  baseDelta,
		QuoteDelta: quoteDelta,
		Type:       string(txclassify.Classify(baseDelta, quoteDelta)),
	})
}

// FlagsUpsert creates or updates a feature flag with the given key and value
func (h *Handlers) FlagsUpsert(c echo.Context) error {
	var req FlagUpsertRequest
	if err := c.Bind(&req); err != nil {
		return h.err(c, http.StatusBadRequest, "invalid json", nil)
	}
	if err := flags.ValidateKey(req.Key); err != nil {
		return h.err(c, http.StatusBadRequest, "invalid key", map[string]any{"key": "invalid format"})
	}

	ctx, cancel := h.withTimeout(c.Request().Context(), 3*time.Second)
	defer cancel()

	out, err := h.Flags.Upsert(ctx, req.Key, req.Value)
	if err != nil {
		return h.err(c, http.StatusInternalServerError, "failed to upsert flag", nil)
	}
	return c.JSON(http.StatusOK, out)
}

// FlagsUpdate updates an existing feature flag with the given key
func (h *Handlers) FlagsUpdate(c echo.Context) error {
	key := c.Param("key")
	if err := flags.ValidateKey(key); err != nil {
		return h.err(c, http.StatusBadRequest, "invalid key", map[string]any{"key": "invalid format"})
	}
	var req FlagUpdateRequest
	if err := c.Bind(&req); err != nil {
		return h.err(c, http.StatusBadRequest, "invalid json", nil)
	}

	ctx, cancel := h.withTimeout(c.Request().Context(), 3*time.Second)
	defer cancel()

	out, err := h.Flags.Upsert(ctx, key, req.Value)
	if err != nil {
		return h.err(c, http.StatusInternalServerError, "failed to update flag", nil)
	}
	return c.JSON(http.StatusOK, out)
}

// FlagsGet retrieves a feature flag by its key
// Returns 404 if flag doesn't exist
func (h *Handlers) FlagsGet(c echo.Context) error {
	key := c.Param("key")
	if err := flags.ValidateKey(key); err != nil {
		return h.err(c, http.StatusBadRequest, "invalid key", map[string]any{"key": "invalid format"})
	}

	ctx, cancel := h.withTimeout(c.Request().Context(), 3*time.Second)
	defer cancel()

	out, err := h.Flags.Get(ctx, key)
	if err != nil {
		if errors.Is(err, flags.ErrNotFound) {
			return h.err(c, http.StatusNotFound, "flag not found", nil)
		}
		return h.err(c, http.StatusInternalServerError, "failed to get flag", nil)
	}
	return c.JSON(http.StatusOK, out)
}

// FlagsList returns all feature flags in the system
func (h *Handlers) FlagsList(c echo.Context) error {
	ctx, cancel := h.withTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	items, err := h.Flags.List(ctx)
	if err != nil {
		return h.err(c, http.StatusInternalServerError, "failed to list flags", nil)
	}
	return c.JSON(http.StatusOK, map[string]any{"items": items})
}

// FlagsDelete removes a feature flag by its key
// Returns 204 No Content on successful deletion
func (h *Handlers) FlagsDelete(c echo.Context) error {
	key := c.Param("key")
	if err := flags.ValidateKey(key); err != nil {
		return h.err(c, http.StatusBadRequest, "invalid key", map[string]any{"key": "invalid format"})
	}

	ctx, cancel := h.withTimeout(c.Request().Context(), 3*time.Second)
	defer cancel()

	if err := h.Flags.Delete(ctx, key); err != nil {
		return h.err(c, http.StatusInternalServerError, "failed to delete flag", nil)
	}
	return c.NoContent(http.StatusNoContent)
}

// AIAsk processes natural language questions about pool history using AI
// Supports optional model override for one-off requests
func (h *Handlers) AIAsk(c echo.Context) error {
	if h.AI == nil {
		return h.err(c, http.StatusBadRequest, "ai is not configured", nil)
	}

	var req AIAskRequest
	if err := c.Bind(&req); err != nil {
		return h.err(c, http.StatusBadRequest, "invalid json", nil)
	}
	req.Question = strings.TrimSpace(req.Question)
	if req.Question == "" {
		return h.err(c, http.StatusBadRequest, "question is required", map[string]any{"question": "required"})
	}

	ctx, cancel := h.withTimeout(c.Request().Context(), 45*time.Second)
	defer cancel()

	start := time.Now()

	// Use default AI agent or create temporary one with custom model
	agent := h.AI
	if m := strings.TrimSpace(req.Model); m != "" {
		cfg := h.AIBaseConfig
		cfg.Model = m
		tmp, err := ai.NewAgent(ctx, cfg)
		if err != nil {
			return h.err(c, http.StatusInternalServerError, "failed to create ai agent", nil)
		}
		agent = tmp
		defer func() {
			_ = tmp.Close()
		}()
	}

	res, err := agent.Ask(ctx, req.Question)
	if err != nil {
		return h.err(c, http.StatusInternalServerError, "ai ask failed", map[string]any{"err": err.Error()})
	}

	return c.JSON(http.StatusOK, AIAskResponse{SQL: res.SQL, Answer: res.Answer, TookMs: time.Since(start).Milliseconds()})
}
