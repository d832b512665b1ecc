package engine

import (
	"context"
	"github.com/egaotan/solana-router/calculator"
	"github.com/gagliardetto/solana-go"
	"sync"
	"sync/atomic"
	"time"
)

var (
	Init    = int32(0)
	Started = int32(1)
	Pause   = int32(2)
	Stopped = int32(3)
)

// Callback receives opportunities that are new or strictly more profitable
// than the cached one for the same cycle.
type Callback interface {
	OnOpportunity(op *calculator.Opportunity) error
}

type CallbackFunc func(op *calculator.Opportunity) error

func (f CallbackFunc) OnOpportunity(op *calculator.Opportunity) error {
	return f(op)
}

type Monitor struct {
	ctx         context.Context
	cancel      context.CancelFunc
	wg          sync.WaitGroup
	status      int32
	engine      *Engine
	startAssets []solana.PublicKey
	cb          Callback
	cache       *calculator.OpportunityCache
	ticks       uint64
	skipped     uint64
}

// Monitor rescans startAssets every configured interval until ctx is done or
// Stop is called. A tick that finds the previous one still running is
// skipped.
func (e *Engine) Monitor(ctx context.Context, startAssets []solana.PublicKey, cb Callback) *Monitor {
	ctx, cancel := context.WithCancel(ctx)
	m := &Monitor{
		ctx:         ctx,
		cancel:      cancel,
		engine:      e,
		startAssets: startAssets,
		cb:          cb,
		cache:       calculator.NewOpportunityCache(e.config.OpportunityTTL),
		status:      Started,
	}
	m.wg.Add(1)
	go m.loop()
	e.log.Printf("start monitor, tokens: %d, interval: %s......", len(startAssets), e.config.Interval)
	return m
}

func (m *Monitor) loop() {
	defer m.wg.Done()
	interval := m.engine.config.Interval
	if interval <= 0 {
		interval = DefaultConfig().Interval
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			m.Trigger()
		case <-m.ctx.Done():
			m.engine.log.Printf("monitor tick exit")
			return
		}
	}
}

// Trigger runs one scan now. It returns false when a scan is already in
// flight or the monitor is stopped.
func (m *Monitor) Trigger() bool {
	if !atomic.CompareAndSwapInt32(&m.status, Started, Pause) {
		atomic.AddUint64(&m.skipped, 1)
		return false
	}
	defer atomic.CompareAndSwapInt32(&m.status, Pause, Started)
	atomic.AddUint64(&m.ticks, 1)
	ops := m.engine.Scan(m.ctx, m.startAssets, m.engine.config.MinProfitBps, m.engine.config.MaxHops)
	for _, op := range ops {
		if !m.cache.Upsert(op) {
			continue
		}
		if err := m.cb.OnOpportunity(op); err != nil {
			m.engine.log.Printf("opportunity %d callback err: %v", op.Id, err)
		}
	}
	m.cache.Expire(time.Now())
	return true
}

// Stop cancels the loop and waits for a running scan to finish.
func (m *Monitor) Stop() {
	m.cancel()
	m.wg.Wait()
	for !atomic.CompareAndSwapInt32(&m.status, Started, Stopped) {
		if atomic.LoadInt32(&m.status) == Stopped {
			return
		}
		time.Sleep(time.Millisecond)
	}
}

func (m *Monitor) Opportunities() []*calculator.Opportunity {
	return m.cache.Snapshot()
}

func (m *Monitor) Ticks() uint64 {
	return atomic.LoadUint64(&m.ticks)
}

func (m *Monitor) Skipped() uint64 {
	return atomic.LoadUint64(&m.skipped)
}
