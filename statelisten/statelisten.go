package statelisten

import (
	"context"
	"github.com/egaotan/solana-router/program"
	"log"
	"sync"
	"sync/atomic"
	"time"
)

var (
	Idle    = int32(0)
	Running = int32(1)
)

// StateListen polls a provider and hands every complete snapshot to the
// callback. A failed poll leaves the previous snapshot in place.
type StateListen struct {
	ctx      context.Context
	wg       sync.WaitGroup
	logger   *log.Logger
	provider program.Provider
	cb       program.Callback
	interval time.Duration
	status   int32
	polls    uint64
	failures uint64
}

func NewStateListen(ctx context.Context, provider program.Provider, cb program.Callback, interval time.Duration) *StateListen {
	sl := &StateListen{
		ctx:      ctx,
		logger:   log.Default(),
		provider: provider,
		cb:       cb,
		interval: interval,
	}
	return sl
}

func (sl *StateListen) SetLogger(logger *log.Logger) {
	sl.logger = logger
}

func (sl *StateListen) Start() {
	sl.logger.Printf("start state listen, interval: %s......", sl.interval)
	sl.wg.Add(1)
	go sl.listen()
}

func (sl *StateListen) Stop() {
	sl.wg.Wait()
	sl.logger.Printf("stop state listen......")
}

func (sl *StateListen) listen() {
	defer sl.wg.Done()
	ticker := time.NewTicker(sl.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			sl.Poll()
		case <-sl.ctx.Done():
			return
		}
	}
}

// Poll fetches one snapshot now. It returns false when a poll is already in
// flight or the fetch failed.
func (sl *StateListen) Poll() bool {
	if !atomic.CompareAndSwapInt32(&sl.status, Idle, Running) {
		return false
	}
	defer atomic.StoreInt32(&sl.status, Idle)
	atomic.AddUint64(&sl.polls, 1)
	start := time.Now()
	pools, err := sl.provider.Pools(sl.ctx)
	if err != nil {
		atomic.AddUint64(&sl.failures, 1)
		sl.logger.Printf("poll pools err: %v", err)
		return false
	}
	if err := sl.cb.OnSnapshot(pools); err != nil {
		atomic.AddUint64(&sl.failures, 1)
		sl.logger.Printf("snapshot callback err: %v", err)
		return false
	}
	sl.logger.Printf("snapshot pools: %d, cost: %s", len(pools), time.Since(start))
	return true
}

func (sl *StateListen) Polls() uint64 {
	return atomic.LoadUint64(&sl.polls)
}

func (sl *StateListen) Failures() uint64 {
	return atomic.LoadUint64(&sl.failures)
}
