package pool

import (
	"context"
	"fmt"

	"github.com/poolworks/solana-pool-indexer/internal/rpc"
)

// FetchError wraps an RPC failure during pool listing. The top-level
// account fetch propagates it (no pools can be listed); per-account
// fetches during assembly are unwrapped to safe defaults instead.
type FetchError struct {
	Method string
	Err    error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("fetch failed (%s): %v", e.Method, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

// FetchPoolAccounts retrieves all swap-program accounts whose data length
// matches the pool layout. The size filter is applied server-side; the
// length is re-checked here so a misbehaving RPC node cannot feed the
// decoder out-of-spec buffers. No ordering is guaranteed. The fetch is
// performed once; retry policy belongs to the caller or the transport.
func FetchPoolAccounts(ctx context.Context, conn Connection, programID string) ([]rpc.KeyedAccount, error) {
	accounts, err := conn.GetProgramAccounts(ctx, programID, SwapAccountSpan)
	if err != nil {
		return nil, &FetchError{Method: "getProgramAccounts", Err: err}
	}

	// Copy into a fresh slice; filtering in place would shuffle entries
	// inside the slice the Connection handed back.
	out := make([]rpc.KeyedAccount, 0, len(accounts))
	for _, acc := range accounts {
		if len(acc.Data) != SwapAccountSpan {
			continue
		}
		out = append(out, acc)
	}
	return out, nil
}
