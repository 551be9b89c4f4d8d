package pool

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCalculateFeeRate(t *testing.T) {
	cases := []struct {
		name        string
		num, den    uint64
		wantRate    float64
		wantClamped bool
	}{
		{"typical 25bps", 25, 10000, 0.0025, false},
		{"one percent", 1, 100, 0.01, false},
		{"at ceiling", 5, 100, 0.05, false},
		{"above ceiling uses fallback", 6, 100, FallbackFeeRate, true},
		{"absurd numerator", 1 << 60, 100, FallbackFeeRate, true},
		{"zero denominator", 25, 0, 0, false},
		{"zero numerator", 0, 10000, 0, false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rate, clamped := CalculateFeeRate(tc.num, tc.den)
			assert.Equal(t, tc.wantRate, rate)
			assert.Equal(t, tc.wantClamped, clamped)
		})
	}
}

func TestFetchReserve(t *testing.T) {
	conn := &fakeConnection{
		balances: map[string]uint64{"acc1": 123456},
	}

	amount, err := FetchReserve(context.Background(), conn, "acc1")
	require.NoError(t, err)
	assert.Equal(t, uint64(123456), amount)
}

func TestFetchReserve_WrapsError(t *testing.T) {
	rpcErr := errors.New("node down")
	conn := &fakeConnection{balanceErr: rpcErr}

	_, err := FetchReserve(context.Background(), conn, "acc1")
	require.Error(t, err)

	var fe *FetchError
	require.ErrorAs(t, err, &fe)
	assert.Equal(t, "getTokenAccountBalance", fe.Method)
	assert.ErrorIs(t, err, rpcErr)
}
