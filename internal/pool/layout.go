package pool

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/gagliardetto/solana-go"
)

// SwapAccountSpan is the exact byte length of a token-swap pool account.
// Accounts of any other size are not pool accounts.
const SwapAccountSpan = 324

// ErrMalformedAccount indicates account data that does not match the swap
// account layout.
var ErrMalformedAccount = errors.New("malformed swap account data")

// RawSwapAccount is the on-chain token-swap account layout. Field order and
// widths are the program's wire contract; all integers are little-endian.
type RawSwapAccount struct {
	Version       uint8
	IsInitialized uint8
	BumpSeed      uint8

	PoolTokenProgramID solana.PublicKey
	TokenAccountA      solana.PublicKey
	TokenAccountB      solana.PublicKey
	TokenPool          solana.PublicKey
	MintA              solana.PublicKey
	MintB              solana.PublicKey
	FeeAccount         solana.PublicKey

	TradeFeeNumerator           uint64
	TradeFeeDenominator         uint64
	OwnerTradeFeeNumerator      uint64
	OwnerTradeFeeDenominator    uint64
	OwnerWithdrawFeeNumerator   uint64
	OwnerWithdrawFeeDenominator uint64
	HostFeeNumerator            uint64
	HostFeeDenominator          uint64

	CurveType       uint8
	CurveParameters [32]byte
}

// Initialized reports whether the pool account has been initialized by the
// swap program. Uninitialized accounts are skipped, not errors.
func (a *RawSwapAccount) Initialized() bool {
	return a.IsInitialized != 0
}

// DecodeSwapAccount decodes raw account data into a RawSwapAccount. The
// input must be exactly SwapAccountSpan bytes; any other length fails with
// ErrMalformedAccount before a single byte is read.
func DecodeSwapAccount(data []byte) (*RawSwapAccount, error) {
	if len(data) != SwapAccountSpan {
		return nil, fmt.Errorf("%w: got %d bytes, want %d", ErrMalformedAccount, len(data), SwapAccountSpan)
	}

	var acc RawSwapAccount
	if err := binary.Read(bytes.NewReader(data), binary.LittleEndian, &acc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedAccount, err)
	}
	return &acc, nil
}

// EncodeSwapAccount is the inverse of DecodeSwapAccount. Used by the static
// registry seeder and by tests building fixtures.
func EncodeSwapAccount(acc *RawSwapAccount) []byte {
	var buf bytes.Buffer
	buf.Grow(SwapAccountSpan)
	// binary.Write over a fixed-width struct cannot fail into a bytes.Buffer.
	_ = binary.Write(&buf, binary.LittleEndian, acc)
	return buf.Bytes()
}
