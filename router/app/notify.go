package app

import (
	"context"
	"fmt"
	"github.com/egaotan/solana-router/calculator"
	"github.com/egaotan/solana-router/dingsdk"
	"github.com/egaotan/solana-router/env"
	"github.com/egaotan/solana-router/utils"
	"github.com/shopspring/decimal"
	"log"
	"strings"
	"sync"
)

// Notify pushes opportunities to a dingtalk robot from its own goroutine.
type Notify struct {
	ctx  context.Context
	wg   sync.WaitGroup
	log  *log.Logger
	env  *env.Env
	data chan *calculator.Opportunity
	dsdk *dingsdk.DingSdk
}

func NewNotify(ctx context.Context, env *env.Env, dsdk *dingsdk.DingSdk) *Notify {
	notify := &Notify{
		ctx:  ctx,
		log:  log.Default(),
		env:  env,
		dsdk: dsdk,
		data: make(chan *calculator.Opportunity, 32),
	}
	return notify
}

func (notify *Notify) SetLogger(logger *log.Logger) {
	notify.log = logger
}

func (notify *Notify) Start() {
	notify.wg.Add(1)
	go notify.listen()
}

func (notify *Notify) Stop() {
	notify.wg.Wait()
}

// Commit queues op, dropping it when the robot is falling behind.
func (notify *Notify) Commit(op *calculator.Opportunity) {
	select {
	case notify.data <- op:
	default:
		notify.log.Printf("notify queue is full, drop opportunity %d", op.Id)
	}
}

func (notify *Notify) listen() {
	defer notify.wg.Done()
	for {
		select {
		case op := <-notify.data:
			if _, err := notify.dsdk.Notify(notify.ctx, dingsdk.NewMarkdown(fmt.Sprintf("%s arbitrage %d", op.Calculator, op.Id), notify.text(op))); err != nil {
				notify.log.Printf("notify opportunity %d err: %v", op.Id, err)
			}
		case <-notify.ctx.Done():
			return
		}
	}
}

func (notify *Notify) text(op *calculator.Opportunity) string {
	items := make([]string, 0)
	items = append(items, fmt.Sprintf("%s arbitrage: ", op.Calculator))
	items = append(items, fmt.Sprintf("id: %d;", op.Id))
	items = append(items, fmt.Sprintf("time: %s;", utils.MicrosTime(op.Id)))
	if op.Route == nil {
		return strings.Join(items, "\n")
	}
	start := op.StartAsset()
	items = append(items, fmt.Sprintf("capital: %s %s;", buildAmount(start, op.CapitalRequired, notify.env), notify.env.Symbol(start)))
	items = append(items, fmt.Sprintf("net profit: %s%%;", decimal.NewFromFloat(op.NetProfitBps).Div(decimal.NewFromInt(100)).StringFixed(2)))
	items = append(items, fmt.Sprintf("confidence: %s;", decimal.NewFromFloat(op.Confidence).StringFixed(0)))
	for _, hop := range op.Route.Hops {
		items = append(items, fmt.Sprintf("%s:%s(%s)->%s(%s);", short(hop.Pool.Id),
			notify.env.Symbol(hop.TokenIn), buildAmount(hop.TokenIn, hop.AmountIn, notify.env),
			notify.env.Symbol(hop.TokenOut), buildAmount(hop.TokenOut, hop.AmountOut, notify.env)))
	}
	return strings.Join(items, "\n")
}
