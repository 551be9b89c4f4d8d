package ai

// snapshotsSchemaDescription describes the ClickHouse schema used for
// NL→SQL prompting.
//
// Keeping it in sync with the actual ClickHouse table definition in init.sql.
const snapshotsSchemaDescription = `
Database: solana
Table: pool_snapshots

Columns:
  - address    String     -- Pool (swap account) address (base58)
  - program_id String     -- Swap program the pool belongs to
  - mint_a     String     -- Mint address of token A
  - mint_b     String     -- Mint address of token B
  - symbol_a   String     -- Display symbol of token A (e.g. "SOL")
  - symbol_b   String     -- Display symbol of token B (e.g. "USDC")
  - reserve_a  UInt64     -- Raw base-unit balance of vault A
  - reserve_b  UInt64     -- Raw base-unit balance of vault B
  - fee_rate   Float64    -- Trade fee rate (e.g. 0.003 = 30 bps)
  - tvl        Float64    -- USD value locked at snapshot time
  - volume_24h Float64    -- Estimated 24h volume in USD
  - fees_24h   Float64    -- Estimated 24h fees in USD
  - apr_24h    Float64    -- Estimated APR percentage
  - fetched_at DateTime   -- When the snapshot was taken (UTC)

Notes:
  - One row per pool per indexer cycle; the latest row per address is the
    current state (use argMax or ORDER BY fetched_at DESC LIMIT 1).
  - TVL and 24h figures are heuristic estimates, not settled accounting.
  - Time filters should use fetched_at, e.g. fetched_at >= now() - INTERVAL 24 HOUR.
`
