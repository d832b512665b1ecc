package pricing

import (
	"github.com/egaotan/solana-router/program"
	"math"
)

// GasParams prices a transaction in base units of whatever asset the caller
// accounts in: lamports for routing, the start asset for arbitrage.
type GasParams struct {
	Base        uint64 `json:"base"`
	PerHop      uint64 `json:"per_hop"`
	PriorityFee uint64 `json:"priority_fee"`
}

var DefaultGasParams = GasParams{
	Base:        5000,
	PerHop:      2500,
	PriorityFee: 0,
}

func (gas GasParams) Estimate(hops int) uint64 {
	if hops < 0 {
		hops = 0
	}
	return gas.Base + gas.PerHop*uint64(hops) + gas.PriorityFee
}

// CalculateAPY compounds the daily fee yield observed over periodDays and
// annualises it, in percent.
func CalculateAPY(feeRevenue, liquidity, periodDays float64) float64 {
	if liquidity <= 0 || periodDays <= 0 || feeRevenue <= 0 {
		return 0
	}
	daily := feeRevenue / liquidity / periodDays
	return (math.Pow(1+daily, 365) - 1) * 100
}

// ImpermanentLoss against holding, in percent, for a price ratio move from
// entry to current.
func ImpermanentLoss(current, entry float64) float64 {
	if current <= 0 || entry <= 0 {
		return 0
	}
	r := current / entry
	return math.Abs(2*math.Sqrt(r)/(1+r)-1) * 100
}

// ArbitrageSpread is the spread between two quotes in bps after both fees.
// ok is false when nothing is left.
func ArbitrageSpread(price1, price2 float64, fee1Bps, fee2Bps uint64) (float64, bool) {
	if price1 <= 0 || price2 <= 0 {
		return 0, false
	}
	spread := math.Abs(price1-price2) / math.Min(price1, price2) * program.BpsDenominator
	net := spread - float64(fee1Bps) - float64(fee2Bps)
	if net <= 0 {
		return 0, false
	}
	return net, true
}

type PoolSplit struct {
	Pool          *program.Pool
	Amount        uint64
	Share         float64
	ImpactPenalty float64
}

// SplitAcrossPools spreads amount over pools in proportion to liquidity. The
// last pool takes the rounding remainder. ImpactPenalty is
// (amount/liquidity)^2, a dispreference signal rather than a quote.
func SplitAcrossPools(pools []*program.Pool, amount uint64) []*PoolSplit {
	usable := make([]*program.Pool, 0, len(pools))
	total := 0.0
	for _, pool := range pools {
		if pool == nil || pool.TotalLiquidity() <= 0 {
			continue
		}
		usable = append(usable, pool)
		total += pool.TotalLiquidity()
	}
	splits := make([]*PoolSplit, 0, len(usable))
	if total <= 0 || amount == 0 {
		return splits
	}
	assigned := uint64(0)
	for i, pool := range usable {
		share := pool.TotalLiquidity() / total
		part := uint64(math.Floor(float64(amount) * share))
		if i == len(usable)-1 || assigned+part > amount {
			part = amount - assigned
		}
		assigned += part
		ratio := float64(part) / pool.TotalLiquidity()
		splits = append(splits, &PoolSplit{
			Pool:          pool,
			Amount:        part,
			Share:         share,
			ImpactPenalty: ratio * ratio,
		})
	}
	return splits
}
