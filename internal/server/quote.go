package server

import (
	"context"
	"errors"
	"math"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gagliardetto/solana-go"
	"github.com/labstack/echo/v4"

	"github.com/poolworks/solana-pool-indexer/internal/amm"
	"github.com/poolworks/solana-pool-indexer/internal/cache"
	"github.com/poolworks/solana-pool-indexer/internal/pool"
)

// Quote computes a constant-product swap quote against the best cached pool
// for the requested mint pair.
func (h *Handlers) Quote(c echo.Context) error {
	inputMint := strings.TrimSpace(c.QueryParam("inputMint"))
	if inputMint == "" {
		return h.err(c, http.StatusBadRequest, "invalid inputMint", map[string]any{"inputMint": "required"})
	}
	outputMint := strings.TrimSpace(c.QueryParam("outputMint"))
	if outputMint == "" {
		return h.err(c, http.StatusBadRequest, "invalid outputMint", map[string]any{"outputMint": "required"})
	}
	if inputMint == outputMint {
		return h.err(c, http.StatusBadRequest, "inputMint and outputMint must differ", nil)
	}
	amountStr := strings.TrimSpace(c.QueryParam("amount"))
	amount, err := strconv.ParseFloat(amountStr, 64)
	if err != nil || amount <= 0 || math.IsInf(amount, 0) || math.IsNaN(amount) {
		return h.err(c, http.StatusBadRequest, "invalid amount", map[string]any{"amount": "must be a positive number"})
	}

	ctx, cancel := h.withTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	// Limit 0 reads every cached pool; the best-pool search must see the
	// full set, not just the first listing page.
	pools, err := h.Cache.GetPools(ctx, 0)
	if err != nil {
		return h.err(c, http.StatusInternalServerError, "failed to get pools", nil)
	}

	best := amm.FindBestPool(pools, inputMint, outputMint)
	if best == nil {
		// Cache miss for the pair: fall back to the curated registry,
		// reading live vault balances for the quote.
		static, ok := h.staticQuote(ctx, inputMint, outputMint, amount)
		if !ok {
			return h.err(c, http.StatusNotFound, "no pool for pair", nil)
		}
		return c.JSON(http.StatusOK, static)
	}

	reserveIn, reserveOut, decimalsIn, decimalsOut := orientReserves(best, inputMint)
	humanIn := float64(reserveIn) / math.Pow10(int(decimalsIn))
	humanOut := float64(reserveOut) / math.Pow10(int(decimalsOut))

	out := amm.CalculateOutputAmount(amount, humanIn, humanOut, best.FeeRate)
	impact := amm.CalculatePriceImpact(amount, humanIn, humanOut, best.FeeRate)

	return c.JSON(http.StatusOK, QuoteResponse{
		Pool:         best.Address,
		InputMint:    inputMint,
		OutputMint:   outputMint,
		InputAmount:  amount,
		OutputAmount: out,
		PriceImpact:  impact,
		FeeRate:      best.FeeRate,
	})
}

// DepositOptimal computes the paired deposit amount for one side of a pool.
func (h *Handlers) DepositOptimal(c echo.Context) error {
	address := strings.TrimSpace(c.QueryParam("pool"))
	if address == "" {
		return h.err(c, http.StatusBadRequest, "invalid pool", map[string]any{"pool": "required"})
	}
	side := strings.ToUpper(strings.TrimSpace(c.QueryParam("side")))
	if side != "A" && side != "B" {
		return h.err(c, http.StatusBadRequest, "invalid side", map[string]any{"side": "must be A or B"})
	}
	amount := strings.TrimSpace(c.QueryParam("amount"))
	if amount == "" {
		return h.err(c, http.StatusBadRequest, "invalid amount", map[string]any{"amount": "required"})
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

	var paired, pairedSide string
	if side == "A" {
		paired = amm.OptimalAmountB(amount, p.ReserveA, p.ReserveB, p.MintA.Decimals, p.MintB.Decimals)
		pairedSide = "B"
	} else {
		paired = amm.OptimalAmountA(amount, p.ReserveA, p.ReserveB, p.MintA.Decimals, p.MintB.Decimals)
		pairedSide = "A"
	}

	return c.JSON(http.StatusOK, DepositResponse{
		Pool:         address,
		KnownSide:    side,
		KnownAmount:  amount,
		PairedSide:   pairedSide,
		PairedAmount: paired,
	})
}

// staticQuote quotes against a registry pool. Reserves come straight from
// the pool's vault accounts, so this works even when the indexer has not
// cached the pair. Decimals are resolved per mint so the result is in the
// same human units as the cached-pool path.
func (h *Handlers) staticQuote(ctx context.Context, inputMint, outputMint string, amount float64) (QuoteResponse, bool) {
	if h.Registry == nil || h.RPC == nil {
		return QuoteResponse{}, false
	}
	in, err := solana.PublicKeyFromBase58(inputMint)
	if err != nil {
		return QuoteResponse{}, false
	}
	out, err := solana.PublicKeyFromBase58(outputMint)
	if err != nil {
		return QuoteResponse{}, false
	}

	sp, found := h.Registry.FindByMints(in, out)
	if !found {
		return QuoteResponse{}, false
	}

	vaultIn, vaultOut := sp.VaultA, sp.VaultB
	if sp.TokenMintA.Equals(out) {
		vaultIn, vaultOut = sp.VaultB, sp.VaultA
	}

	reserveIn, err := h.RPC.GetTokenAccountBalance(ctx, vaultIn.String())
	if err != nil {
		h.Logger.WithError(err).WithField("vault", vaultIn).Warn("static quote reserve fetch failed")
		return QuoteResponse{}, false
	}
	reserveOut, err := h.RPC.GetTokenAccountBalance(ctx, vaultOut.String())
	if err != nil {
		h.Logger.WithError(err).WithField("vault", vaultOut).Warn("static quote reserve fetch failed")
		return QuoteResponse{}, false
	}

	resolver := pool.NewMintResolver(h.RPC, nil, h.Logger)
	infoIn := resolver.Resolve(ctx, inputMint)
	infoOut := resolver.Resolve(ctx, outputMint)

	humanIn := float64(reserveIn) / math.Pow10(int(infoIn.Decimals))
	humanOut := float64(reserveOut) / math.Pow10(int(infoOut.Decimals))

	feeRate, _ := pool.CalculateFeeRate(sp.FeeNumerator, sp.FeeDenominator)

	return QuoteResponse{
		Pool:         sp.SwapAccount.String(),
		InputMint:    inputMint,
		OutputMint:   outputMint,
		InputAmount:  amount,
		OutputAmount: amm.CalculateOutputAmount(amount, humanIn, humanOut, feeRate),
		PriceImpact:  amm.CalculatePriceImpact(amount, humanIn, humanOut, feeRate),
		FeeRate:      feeRate,
	}, true
}

func orientReserves(p *pool.OnchainPoolData, inputMint string) (reserveIn, reserveOut uint64, decimalsIn, decimalsOut uint8) {
	if inputMint == p.MintA.Address {
		return p.ReserveA, p.ReserveB, p.MintA.Decimals, p.MintB.Decimals
	}
	return p.ReserveB, p.ReserveA, p.MintB.Decimals, p.MintA.Decimals
}

