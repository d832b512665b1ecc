package app

import (
	"github.com/egaotan/solana-router/calculator"
	"github.com/egaotan/solana-router/engine"
	"github.com/egaotan/solana-router/env"
	"github.com/egaotan/solana-router/pricing"
	"github.com/egaotan/solana-router/program"
	"github.com/egaotan/solana-router/store"
	"github.com/egaotan/solana-router/utils"
	"github.com/gagliardetto/solana-go"
	"strconv"
)

type Token struct {
	Key    string `json:"key"`
	Symbol string `json:"symbol"`
}

type Step struct {
	Program     string  `json:"program"`
	Pool        string  `json:"pool"`
	TokenIn     *Token  `json:"token_in"`
	AmountIn    string  `json:"amount_in"`
	TokenOut    *Token  `json:"token_out"`
	AmountOut   string  `json:"amount_out"`
	Fee         string  `json:"fee"`
	PriceImpact float64 `json:"price_impact"`
}

type RouteInfo struct {
	Key         string  `json:"key"`
	AmountIn    string  `json:"amount_in"`
	AmountOut   string  `json:"amount_out"`
	PriceImpact float64 `json:"price_impact"`
	FeeBps      float64 `json:"fee_bps"`
	Confidence  float64 `json:"confidence"`
	GasEstimate uint64  `json:"gas_estimate"`
	Steps       []*Step `json:"steps"`
}

type SplitInfo struct {
	Route          string  `json:"route"`
	Percentage     float64 `json:"percentage"`
	Amount         string  `json:"amount"`
	ExpectedOutput string  `json:"expected_output"`
}

type PoolSplitInfo struct {
	Pool          string  `json:"pool"`
	Amount        string  `json:"amount"`
	Share         float64 `json:"share"`
	ImpactPenalty float64 `json:"impact_penalty"`
}

type RouteResponse struct {
	TokenIn      *Token           `json:"token_in"`
	TokenOut     *Token           `json:"token_out"`
	AmountIn     string           `json:"amount_in"`
	AmountOut    string           `json:"amount_out"`
	MinAmountOut string           `json:"min_amount_out"`
	Routes       []*RouteInfo     `json:"routes"`
	Splits       []*SplitInfo     `json:"splits"`
	PoolSplits   []*PoolSplitInfo `json:"pool_splits"`
}

type OpportunityInfo struct {
	Id              uint64     `json:"id"`
	Time            string     `json:"time"`
	Key             string     `json:"key"`
	Calculator      string     `json:"calculator"`
	StartToken      *Token     `json:"start_token"`
	CapitalRequired string     `json:"capital_required"`
	ProfitBps       float64    `json:"profit_bps"`
	NetProfitBps    float64    `json:"net_profit_bps"`
	GasEstimate     string     `json:"gas_estimate"`
	NetProfit       int64      `json:"net_profit"`
	Confidence      float64    `json:"confidence"`
	Route           *RouteInfo `json:"route,omitempty"`
}

type CrossPoolInfo struct {
	Id              uint64  `json:"id"`
	Time            string  `json:"time"`
	BuyPool         string  `json:"buy_pool"`
	SellPool        string  `json:"sell_pool"`
	Base            *Token  `json:"base"`
	Quote           *Token  `json:"quote"`
	BuyPrice        float64 `json:"buy_price"`
	SellPrice       float64 `json:"sell_price"`
	SpreadBps       float64 `json:"spread_bps"`
	NetSpreadBps    float64 `json:"net_spread_bps"`
	Volume          float64 `json:"volume"`
	EstimatedProfit float64 `json:"estimated_profit"`
}

func short(key solana.PublicKey) string {
	s := key.String()
	if len(s) <= 8 {
		return s
	}
	return s[:4] + ".." + s[len(s)-4:]
}

func buildToken(key solana.PublicKey, env *env.Env) *Token {
	return &Token{
		Key:    key.String(),
		Symbol: env.Symbol(key),
	}
}

// buildAmount renders base units as a human amount when the mint is known.
func buildAmount(key solana.PublicKey, amount uint64, env *env.Env) string {
	token := env.Token(key)
	if token == nil {
		return strconv.FormatUint(amount, 10)
	}
	return token.AmountUi(amount).String()
}

func buildRoute(route *program.Route, env *env.Env) *RouteInfo {
	info := &RouteInfo{
		Key:         route.Key(),
		AmountIn:    buildAmount(route.TokenIn(), route.AmountIn, env),
		AmountOut:   buildAmount(route.TokenOut(), route.AmountOut, env),
		PriceImpact: route.PriceImpact,
		FeeBps:      route.FeeBps,
		Confidence:  route.Confidence,
		GasEstimate: route.GasEstimate,
		Steps:       make([]*Step, 0, len(route.Hops)),
	}
	for _, hop := range route.Hops {
		info.Steps = append(info.Steps, &Step{
			Program:     hop.Pool.Program.String(),
			Pool:        hop.Pool.Id.String(),
			TokenIn:     buildToken(hop.TokenIn, env),
			AmountIn:    buildAmount(hop.TokenIn, hop.AmountIn, env),
			TokenOut:    buildToken(hop.TokenOut, env),
			AmountOut:   buildAmount(hop.TokenOut, hop.AmountOut, env),
			Fee:         buildAmount(hop.TokenIn, hop.Fee, env),
			PriceImpact: hop.PriceImpact,
		})
	}
	return info
}

func buildRouteResponse(from, to solana.PublicKey, amount uint64, result *engine.RouteResult, env *env.Env) *RouteResponse {
	rsp := &RouteResponse{
		TokenIn:      buildToken(from, env),
		TokenOut:     buildToken(to, env),
		AmountIn:     buildAmount(from, amount, env),
		AmountOut:    buildAmount(to, result.AmountOut, env),
		MinAmountOut: buildAmount(to, result.MinAmountOut, env),
		Routes:       make([]*RouteInfo, 0, len(result.Routes)),
		Splits:       make([]*SplitInfo, 0, len(result.Splits)),
		PoolSplits:   buildPoolSplits(from, result.PoolSplits, env),
	}
	for _, route := range result.Routes {
		rsp.Routes = append(rsp.Routes, buildRoute(route, env))
	}
	for _, split := range result.Splits {
		rsp.Splits = append(rsp.Splits, &SplitInfo{
			Route:          split.Route.Key(),
			Percentage:     split.Percentage,
			Amount:         buildAmount(from, split.Amount, env),
			ExpectedOutput: buildAmount(to, split.ExpectedOutput, env),
		})
	}
	return rsp
}

func buildPoolSplits(from solana.PublicKey, splits []*pricing.PoolSplit, env *env.Env) []*PoolSplitInfo {
	infos := make([]*PoolSplitInfo, 0, len(splits))
	for _, split := range splits {
		infos = append(infos, &PoolSplitInfo{
			Pool:          split.Pool.Id.String(),
			Amount:        buildAmount(from, split.Amount, env),
			Share:         split.Share,
			ImpactPenalty: split.ImpactPenalty,
		})
	}
	return infos
}

func buildOpportunity(op *calculator.Opportunity, env *env.Env) *OpportunityInfo {
	info := &OpportunityInfo{
		Id:              op.Id,
		Time:            utils.MicrosTime(op.Id),
		Key:             op.Key,
		Calculator:      op.Calculator,
		CapitalRequired: strconv.FormatUint(op.CapitalRequired, 10),
		ProfitBps:       op.ProfitBps,
		NetProfitBps:    op.NetProfitBps,
		GasEstimate:     strconv.FormatUint(op.GasEstimate, 10),
		NetProfit:       op.NetProfit,
		Confidence:      op.Confidence,
	}
	if op.Route != nil {
		start := op.StartAsset()
		info.StartToken = buildToken(start, env)
		info.CapitalRequired = buildAmount(start, op.CapitalRequired, env)
		info.GasEstimate = buildAmount(start, op.GasEstimate, env)
		info.Route = buildRoute(op.Route, env)
	}
	return info
}

func buildOpportunities(ops []*calculator.Opportunity, env *env.Env) []*OpportunityInfo {
	infos := make([]*OpportunityInfo, 0, len(ops))
	for _, op := range ops {
		infos = append(infos, buildOpportunity(op, env))
	}
	return infos
}

// buildStoredOpportunity renders a persisted row; its steps carry raw base
// unit amounts.
func buildStoredOpportunity(row *store.Opportunity, env *env.Env) *OpportunityInfo {
	info := &OpportunityInfo{
		Id:              row.Id,
		Time:            utils.MicrosTime(row.Id),
		Key:             row.CycleKey,
		Calculator:      row.Calculator,
		CapitalRequired: strconv.FormatUint(row.CapitalRequired, 10),
		ProfitBps:       row.ProfitBps,
		NetProfitBps:    row.NetProfitBps,
		GasEstimate:     strconv.FormatUint(row.GasEstimate, 10),
		NetProfit:       row.NetProfit,
		Confidence:      row.Confidence,
	}
	start, err := solana.PublicKeyFromBase58(row.StartToken)
	if err != nil {
		return info
	}
	info.StartToken = buildToken(start, env)
	info.Route = &RouteInfo{Key: row.CycleKey, Steps: make([]*Step, 0, len(row.OpportunitySteps))}
	for _, step := range row.OpportunitySteps {
		tokenIn, errIn := solana.PublicKeyFromBase58(step.TokenIn)
		tokenOut, errOut := solana.PublicKeyFromBase58(step.TokenOut)
		if errIn != nil || errOut != nil {
			continue
		}
		info.Route.Steps = append(info.Route.Steps, &Step{
			Program:     step.Program,
			Pool:        step.Pool,
			TokenIn:     buildToken(tokenIn, env),
			AmountIn:    buildAmount(tokenIn, step.AmountIn, env),
			TokenOut:    buildToken(tokenOut, env),
			AmountOut:   buildAmount(tokenOut, step.AmountOut, env),
			Fee:         buildAmount(tokenIn, step.Fee, env),
			PriceImpact: step.PriceImpact,
		})
	}
	return info
}

func buildCrossPool(op *calculator.CrossPoolOpportunity, env *env.Env) *CrossPoolInfo {
	return &CrossPoolInfo{
		Id:              op.Id,
		Time:            utils.MicrosTime(op.Id),
		BuyPool:         op.BuyPool.Id.String(),
		SellPool:        op.SellPool.Id.String(),
		Base:            buildToken(op.Base, env),
		Quote:           buildToken(op.Quote, env),
		BuyPrice:        op.BuyPrice,
		SellPrice:       op.SellPrice,
		SpreadBps:       op.SpreadBps,
		NetSpreadBps:    op.NetSpreadBps,
		Volume:          op.Volume,
		EstimatedProfit: op.EstimatedProfit,
	}
}
