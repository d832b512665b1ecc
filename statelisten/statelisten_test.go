package statelisten

import (
	"context"
	"errors"
	"github.com/egaotan/solana-router/program"
	"github.com/gagliardetto/solana-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"io"
	"log"
	"sync"
	"testing"
	"time"
)

type provider struct {
	lock  sync.Mutex
	pools []*program.Pool
	err   error
}

func (p *provider) Pools(ctx context.Context) ([]*program.Pool, error) {
	p.lock.Lock()
	defer p.lock.Unlock()
	return p.pools, p.err
}

func (p *provider) PoolsForPair(ctx context.Context, tokenA, tokenB solana.PublicKey) ([]*program.Pool, error) {
	return nil, nil
}

type recorder struct {
	lock      sync.Mutex
	snapshots [][]*program.Pool
}

func (r *recorder) OnSnapshot(pools []*program.Pool) error {
	r.lock.Lock()
	defer r.lock.Unlock()
	r.snapshots = append(r.snapshots, pools)
	return nil
}

func (r *recorder) count() int {
	r.lock.Lock()
	defer r.lock.Unlock()
	return len(r.snapshots)
}

func newListen(ctx context.Context, p *provider, r *recorder, interval time.Duration) *StateListen {
	sl := NewStateListen(ctx, p, r, interval)
	sl.SetLogger(log.New(io.Discard, "", 0))
	return sl
}

func TestStateListen_Poll(t *testing.T) {
	p := &provider{pools: []*program.Pool{{Liquidity: 1}}}
	r := &recorder{}
	sl := newListen(context.Background(), p, r, time.Hour)

	require.True(t, sl.Poll())
	assert.Equal(t, 1, r.count())

	p.err = errors.New("rpc timeout")
	assert.False(t, sl.Poll())
	assert.Equal(t, 1, r.count())
	assert.Equal(t, uint64(2), sl.Polls())
	assert.Equal(t, uint64(1), sl.Failures())
}

func TestStateListen_Ticker(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	r := &recorder{}
	sl := newListen(ctx, &provider{}, r, 5*time.Millisecond)
	sl.Start()
	require.Eventually(t, func() bool { return r.count() >= 2 }, 5*time.Second, 5*time.Millisecond)
	cancel()
	sl.Stop()
}
