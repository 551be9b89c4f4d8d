package pool

import (
	"context"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/poolworks/solana-pool-indexer/internal/constants"
)

// splMintDecimalsOffset is where the decimals byte sits in an SPL mint
// account: mintAuthorityOption(4) + mintAuthority(32) + supply(8).
const splMintDecimalsOffset = 44

// MintResolver resolves mint addresses to display-friendly descriptors.
// Resolution never fails: unknown or unreachable mints degrade to a
// deterministic placeholder so one bad mint cannot sink a pool listing.
type MintResolver struct {
	conn   Connection
	known  map[string]constants.TokenMeta
	logger *logrus.Logger
}

// NewMintResolver creates a resolver backed by the given connection and
// known-token registry. A nil registry falls back to constants.KnownTokens.
func NewMintResolver(conn Connection, known map[string]constants.TokenMeta, logger *logrus.Logger) *MintResolver {
	if known == nil {
		known = constants.KnownTokens
	}
	if logger == nil {
		logger = logrus.New()
	}
	return &MintResolver{conn: conn, known: known, logger: logger}
}

// Resolve returns a MintInfo for the given mint address.
//
// Known tokens come straight from the registry. Otherwise decimals are read
// from the on-chain mint account and symbol/name are synthesized from the
// address. On any fetch failure the fully-fallback record (decimals 6) is
// returned rather than an error.
func (r *MintResolver) Resolve(ctx context.Context, mintAddress string) MintInfo {
	if meta, ok := r.known[mintAddress]; ok {
		return MintInfo{
			Address:  mintAddress,
			Symbol:   meta.Symbol,
			Name:     meta.Name,
			Decimals: meta.Decimals,
			LogoURI:  meta.LogoURI,
		}
	}

	info := fallbackMintInfo(mintAddress)

	acc, err := r.conn.GetAccountInfo(ctx, mintAddress)
	if err != nil {
		r.logger.WithError(err).WithField("mint", mintAddress).
			Debug("mint account fetch failed, using fallback decimals")
		return info
	}
	if len(acc.Data) <= splMintDecimalsOffset {
		r.logger.WithFields(logrus.Fields{
			"mint": mintAddress,
			"size": len(acc.Data),
		}).Warn("mint account too short, using fallback decimals")
		return info
	}

	info.Decimals = acc.Data[splMintDecimalsOffset]
	return info
}

// fallbackMintInfo synthesizes a deterministic placeholder descriptor:
// symbol is the upper-cased first 6 characters of the address.
func fallbackMintInfo(mintAddress string) MintInfo {
	symbol := mintAddress
	if len(symbol) > 6 {
		symbol = symbol[:6]
	}
	symbol = strings.ToUpper(symbol)

	return MintInfo{
		Address:  mintAddress,
		Symbol:   symbol,
		Name:     "Token " + symbol,
		Decimals: constants.FallbackDecimals,
		LogoURI:  constants.PlaceholderLogoURI,
	}
}
