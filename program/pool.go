package program

import (
	"errors"
	"fmt"
	"github.com/gagliardetto/solana-go"
)

const (
	BpsDenominator = 10000
)

var (
	ErrInvalidPool = errors.New("invalid pool")
)

// Pool is one liquidity venue between two mints. ReserveA/ReserveB are
// optional: when both are zero the pool only knows its aggregate Liquidity
// and each side is assumed to hold half of it.
type Pool struct {
	Id            solana.PublicKey `json:"id"`
	Program       solana.PublicKey `json:"program"`
	TokenA        solana.PublicKey `json:"token_a"`
	TokenB        solana.PublicKey `json:"token_b"`
	VaultA        solana.PublicKey `json:"vault_a"`
	VaultB        solana.PublicKey `json:"vault_b"`
	Liquidity     float64          `json:"liquidity"`
	ReserveA      float64          `json:"reserve_a"`
	ReserveB      float64          `json:"reserve_b"`
	FeeBps        uint64           `json:"fee_bps"`
	FeeRevenue24h float64          `json:"fee_revenue_24h"`
	Slot          uint64           `json:"slot"`
}

func (pool *Pool) Validate() error {
	if pool == nil {
		return fmt.Errorf("%w: nil", ErrInvalidPool)
	}
	if pool.Id.IsZero() {
		return fmt.Errorf("%w: missing id", ErrInvalidPool)
	}
	if pool.TokenA.IsZero() || pool.TokenB.IsZero() {
		return fmt.Errorf("%w: pool %s is missing a token", ErrInvalidPool, pool.Id)
	}
	if pool.TokenA == pool.TokenB {
		return fmt.Errorf("%w: pool %s trades %s against itself", ErrInvalidPool, pool.Id, pool.TokenA)
	}
	if pool.FeeBps >= BpsDenominator {
		return fmt.Errorf("%w: pool %s fee %d bps", ErrInvalidPool, pool.Id, pool.FeeBps)
	}
	if pool.Liquidity < 0 || pool.ReserveA < 0 || pool.ReserveB < 0 {
		return fmt.Errorf("%w: pool %s has negative liquidity", ErrInvalidPool, pool.Id)
	}
	return nil
}

func (pool *Pool) TokenPair() []solana.PublicKey {
	return []solana.PublicKey{pool.TokenA, pool.TokenB}
}

func (pool *Pool) HasToken(token solana.PublicKey) bool {
	return pool.TokenA == token || pool.TokenB == token
}

// Matches reports whether the pool trades from -> to in either orientation.
func (pool *Pool) Matches(from, to solana.PublicKey) bool {
	return (pool.TokenA == from && pool.TokenB == to) || (pool.TokenB == from && pool.TokenA == to)
}

func (pool *Pool) Other(token solana.PublicKey) solana.PublicKey {
	if token == pool.TokenA {
		return pool.TokenB
	}
	return pool.TokenA
}

func (pool *Pool) HasReserves() bool {
	return pool.ReserveA > 0 || pool.ReserveB > 0
}

// TotalLiquidity is the sum of both reserves when known, the liquidity
// scalar otherwise.
func (pool *Pool) TotalLiquidity() float64 {
	if pool.HasReserves() {
		return pool.ReserveA + pool.ReserveB
	}
	return pool.Liquidity
}

// Reserves returns (reserveIn, reserveOut) for a trade from -> to.
func (pool *Pool) Reserves(from, to solana.PublicKey) (float64, float64, bool) {
	if !pool.Matches(from, to) {
		return 0, 0, false
	}
	reserveA, reserveB := pool.ReserveA, pool.ReserveB
	if !pool.HasReserves() {
		reserveA = pool.Liquidity / 2
		reserveB = pool.Liquidity / 2
	}
	if from == pool.TokenA {
		return reserveA, reserveB, true
	}
	return reserveB, reserveA, true
}

func (pool *Pool) FeeRate() float64 {
	return float64(pool.FeeBps) / BpsDenominator
}

func (pool *Pool) Copy() *Pool {
	c := *pool
	return &c
}
