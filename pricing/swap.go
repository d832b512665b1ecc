package pricing

import (
	"errors"
	"fmt"
	"github.com/egaotan/solana-router/program"
	"github.com/gagliardetto/solana-go"
	"math"
	"math/big"
)

var (
	ErrPairMismatch       = errors.New("token pair is not in this pool")
	ErrLiquidityExhausted = errors.New("liquidity exhausted")
	ErrAmountTooSmall     = errors.New("amount is too small")
	ErrZeroAmount         = errors.New("amount is zero")
	ErrNoPool             = errors.New("no pool for pair")
)

type SwapQuote struct {
	Pool        *program.Pool
	TokenIn     solana.PublicKey
	TokenOut    solana.PublicKey
	AmountIn    uint64
	AmountOut   uint64
	Fee         uint64
	PriceImpact float64
	Price       float64
}

// CalculateSwapOutput quotes amountIn of from through pool. The fee is taken
// from the input first and the rest is swapped on the constant product
// curve. PriceImpact is the magnitude, in percent, of the move between the
// pre-trade and post-trade spot price.
func CalculateSwapOutput(pool *program.Pool, amountIn uint64, from, to solana.PublicKey) (*SwapQuote, error) {
	if pool == nil || !pool.Matches(from, to) {
		return nil, ErrPairMismatch
	}
	if amountIn == 0 {
		return nil, ErrZeroAmount
	}
	reserveIn, reserveOut, _ := pool.Reserves(from, to)
	if reserveIn <= 0 || reserveOut <= 0 {
		return nil, fmt.Errorf("%w: pool %s", ErrLiquidityExhausted, pool.Id)
	}
	fee := tradingFee(amountIn, pool.FeeBps)
	if fee >= amountIn {
		return nil, ErrAmountTooSmall
	}
	amountLessFee := float64(amountIn - fee)
	out := amountLessFee * reserveOut / (reserveIn + amountLessFee)
	amountOut := uint64(math.Floor(out))
	if amountOut == 0 {
		return nil, ErrAmountTooSmall
	}
	before := reserveOut / reserveIn
	after := (reserveOut - out) / (reserveIn + amountLessFee)
	return &SwapQuote{
		Pool:        pool,
		TokenIn:     from,
		TokenOut:    to,
		AmountIn:    amountIn,
		AmountOut:   amountOut,
		Fee:         fee,
		PriceImpact: math.Abs(before-after) / before * 100,
		Price:       float64(amountOut) / float64(amountIn),
	}, nil
}

// tradingFee rounds down but never to zero while the pool charges a fee.
func tradingFee(amount uint64, feeBps uint64) uint64 {
	if feeBps == 0 || amount == 0 {
		return 0
	}
	fee := new(big.Int).Div(
		new(big.Int).Mul(new(big.Int).SetUint64(amount), new(big.Int).SetUint64(feeBps)),
		big.NewInt(program.BpsDenominator),
	)
	if fee.Sign() == 0 {
		return 1
	}
	return fee.Uint64()
}

// SpotPrice is the marginal rate of from in units of to, before fees.
func SpotPrice(pool *program.Pool, from, to solana.PublicKey) (float64, bool) {
	reserveIn, reserveOut, ok := pool.Reserves(from, to)
	if !ok || reserveIn <= 0 || reserveOut <= 0 {
		return 0, false
	}
	return reserveOut / reserveIn, true
}

// MinAmountOut is the smallest output accepted under slippageBps.
func MinAmountOut(expected uint64, slippageBps uint64) uint64 {
	if slippageBps >= program.BpsDenominator {
		return 0
	}
	v := new(big.Int).Mul(new(big.Int).SetUint64(expected), new(big.Int).SetUint64(program.BpsDenominator-slippageBps))
	v.Div(v, big.NewInt(program.BpsDenominator))
	return v.Uint64()
}

// MaxAmountIn is the largest input accepted under slippageBps, rounded up.
func MaxAmountIn(expected uint64, slippageBps uint64) uint64 {
	v := new(big.Int).Mul(new(big.Int).SetUint64(expected), new(big.Int).SetUint64(program.BpsDenominator+slippageBps))
	v.Add(v, big.NewInt(program.BpsDenominator-1))
	v.Div(v, big.NewInt(program.BpsDenominator))
	if !v.IsUint64() {
		return math.MaxUint64
	}
	return v.Uint64()
}
