package calculator

import (
	"github.com/egaotan/solana-router/pricing"
	"github.com/egaotan/solana-router/program"
	"github.com/gagliardetto/solana-go"
	"sync/atomic"
	"time"
)

var (
	TriangularArb = "triangular"
	CrossPoolArb  = "crosspool"
)

var (
	// SIM enumerates cycles and simulates every one of them.
	SIM = "sim"
	// SBF simulates only from start assets that can reach a negative cycle
	// in the log-price graph.
	SBF = "sbf"
)

type Params struct {
	// base units of the start asset, DefaultCapital for assets not listed
	Capital        map[solana.PublicKey]uint64 `json:"capital"`
	DefaultCapital uint64                      `json:"default_capital"`
	// priced in base units of the start asset
	Gas               pricing.GasParams `json:"gas"`
	MinAbsoluteProfit int64             `json:"min_absolute_profit"`
	MinHops           int               `json:"min_hops"`
	MaxCycles         int               `json:"max_cycles"`
	Parallel          int               `json:"parallel"`
}

func DefaultParams() *Params {
	return &Params{
		Capital:           make(map[solana.PublicKey]uint64),
		DefaultCapital:    1000000000,
		Gas:               pricing.GasParams{Base: 1000, PerHop: 500},
		MinAbsoluteProfit: 1000000,
		MinHops:           2,
		MaxCycles:         10000,
		Parallel:          4,
	}
}

func (params *Params) CapitalFor(asset solana.PublicKey) uint64 {
	if amount, ok := params.Capital[asset]; ok && amount > 0 {
		return amount
	}
	return params.DefaultCapital
}

type Opportunity struct {
	Id              uint64         `json:"id"`
	Key             string         `json:"key"`
	Calculator      string         `json:"calculator"`
	Route           *program.Route `json:"-"`
	CapitalRequired uint64         `json:"capital_required"`
	ProfitBps       float64        `json:"profit_bps"`
	NetProfitBps    float64        `json:"net_profit_bps"`
	GasEstimate     uint64         `json:"gas_estimate"`
	NetProfit       int64          `json:"net_profit"`
	Confidence      float64        `json:"confidence"`
	FoundAt         time.Time      `json:"found_at"`
}

func (op *Opportunity) StartAsset() solana.PublicKey {
	return op.Route.TokenIn()
}

type CrossPoolOpportunity struct {
	Id              uint64           `json:"id"`
	BuyPool         *program.Pool    `json:"buy_pool"`
	SellPool        *program.Pool    `json:"sell_pool"`
	Base            solana.PublicKey `json:"base"`
	Quote           solana.PublicKey `json:"quote"`
	BuyPrice        float64          `json:"buy_price"`
	SellPrice       float64          `json:"sell_price"`
	SpreadBps       float64          `json:"spread_bps"`
	NetSpreadBps    float64          `json:"net_spread_bps"`
	Volume          float64          `json:"volume"`
	EstimatedProfit float64          `json:"estimated_profit"`
	FoundAt         time.Time        `json:"found_at"`
}

var lastId uint64

// nextId is a microsecond timestamp, bumped when two opportunities land in
// the same microsecond.
func nextId() uint64 {
	for {
		now := uint64(time.Now().UnixNano() / time.Microsecond.Nanoseconds())
		last := atomic.LoadUint64(&lastId)
		if now <= last {
			now = last + 1
		}
		if atomic.CompareAndSwapUint64(&lastId, last, now) {
			return now
		}
	}
}
