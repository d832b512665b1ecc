package program

import (
	"github.com/gagliardetto/solana-go"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"testing"
)

func key(b byte) solana.PublicKey {
	var k solana.PublicKey
	k[0] = b
	return k
}

func TestPool_Validate(t *testing.T) {
	valid := &Pool{Id: key(1), TokenA: USDC, TokenB: SOL, Liquidity: 100, FeeBps: 30}
	require.NoError(t, valid.Validate())

	cases := []struct {
		name string
		pool *Pool
	}{
		{"nil", nil},
		{"missing id", &Pool{TokenA: USDC, TokenB: SOL}},
		{"missing token", &Pool{Id: key(1), TokenA: USDC}},
		{"same token", &Pool{Id: key(1), TokenA: USDC, TokenB: USDC}},
		{"fee", &Pool{Id: key(1), TokenA: USDC, TokenB: SOL, FeeBps: 10000}},
		{"negative", &Pool{Id: key(1), TokenA: USDC, TokenB: SOL, ReserveA: -1}},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			assert.ErrorIs(t, c.pool.Validate(), ErrInvalidPool)
		})
	}
}

func TestPool_Reserves(t *testing.T) {
	pool := &Pool{Id: key(1), TokenA: USDC, TokenB: SOL, Liquidity: 1000}
	in, out, ok := pool.Reserves(SOL, USDC)
	require.True(t, ok)
	assert.Equal(t, 500.0, in)
	assert.Equal(t, 500.0, out)
	assert.Equal(t, 1000.0, pool.TotalLiquidity())

	pool.ReserveA, pool.ReserveB = 10, 30
	in, out, _ = pool.Reserves(SOL, USDC)
	assert.Equal(t, 30.0, in)
	assert.Equal(t, 10.0, out)
	assert.Equal(t, 40.0, pool.TotalLiquidity())

	_, _, ok = pool.Reserves(SOL, BONK)
	assert.False(t, ok)
	assert.Equal(t, SOL, pool.Other(USDC))
	assert.Equal(t, 0.0030, (&Pool{FeeBps: 30}).FeeRate())
}

func TestRoute(t *testing.T) {
	p1 := &Pool{Id: key(1), TokenA: USDC, TokenB: SOL, Liquidity: 100}
	p2 := &Pool{Id: key(2), TokenA: SOL, TokenB: BONK, Liquidity: 300}
	route := &Route{Hops: []*Hop{
		{Pool: p1, TokenIn: USDC, TokenOut: SOL},
		{Pool: p2, TokenIn: SOL, TokenOut: BONK},
	}}
	require.NoError(t, route.Validate(BONK))
	assert.ErrorIs(t, route.Validate(SOL), ErrWrongEndOfRoute)
	assert.Equal(t, []solana.PublicKey{USDC, SOL, BONK}, route.Path())
	assert.Equal(t, PathKey(route.Path()), USDC.String()+">"+SOL.String()+">"+BONK.String())
	assert.Equal(t, key(1).String()+">"+key(2).String(), route.Key())
	assert.Equal(t, 100.0, route.MinLiquidity())
	assert.Equal(t, 200.0, route.AvgLiquidity())

	c := route.Copy()
	c.Hops = c.Hops[:1]
	assert.Equal(t, 2, route.HopCount())

	broken := &Route{Hops: []*Hop{route.Hops[0], {Pool: p2, TokenIn: BONK, TokenOut: SOL}}}
	assert.ErrorIs(t, broken.Validate(SOL), ErrBrokenRoute)
	assert.ErrorIs(t, (&Route{}).Validate(SOL), ErrEmptyRoute)
}

func TestAsset_Amounts(t *testing.T) {
	usdc := &Asset{Mint: USDC, Symbol: "USDC", Decimals: 6}
	assert.Equal(t, "1.5", usdc.AmountUi(1500000).String())
	assert.Equal(t, uint64(2500000), usdc.AmountRaw(decimal.RequireFromString("2.5000009")))
	assert.Equal(t, uint64(0), usdc.AmountRaw(decimal.NewFromInt(-1)))
}
