package graph

import (
	"github.com/egaotan/solana-router/program"
	"github.com/gagliardetto/solana-go"
	"math"
)

const (
	maxWeight = 230.0
	minWeight = -230.0
)

// WeightFunc assigns the cost of trading from -> to through pool.
type WeightFunc func(pool *program.Pool, from, to solana.PublicKey) float64

// CostWeight grows with the fee and shrinks with liquidity. It is never
// negative, so it is safe for Dijkstra.
func CostWeight(pool *program.Pool, from, to solana.PublicKey) float64 {
	liquidity := pool.TotalLiquidity()
	if liquidity < 0 {
		liquidity = 0
	}
	return pool.FeeRate() + 1/(1+math.Log1p(liquidity))
}

// LogPriceWeight is -ln(spot * (1 - fee)). A cycle whose weights sum below
// zero multiplies marginal rates to more than one, i.e. it is profitable at
// infinitesimal size. Empty pools become walls.
func LogPriceWeight(pool *program.Pool, from, to solana.PublicKey) float64 {
	reserveIn, reserveOut, ok := pool.Reserves(from, to)
	if !ok || reserveIn <= 0 || reserveOut <= 0 {
		return maxWeight
	}
	rate := reserveOut / reserveIn * (1 - pool.FeeRate())
	if rate <= 0 || math.IsNaN(rate) {
		return maxWeight
	}
	if math.IsInf(rate, 1) {
		return minWeight
	}
	weight := -math.Log(rate)
	if weight > maxWeight {
		return maxWeight
	}
	if weight < minWeight {
		return minWeight
	}
	return weight
}
