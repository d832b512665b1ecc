package env

import (
	"context"
	"encoding/json"
	"fmt"
	"github.com/egaotan/solana-router/config"
	"github.com/egaotan/solana-router/program"
	"github.com/gagliardetto/solana-go"
	"os"
)

func (e *Env) loadPools() error {
	infoJson, err := os.ReadFile(config.PoolsFile)
	if err != nil {
		return fmt.Errorf("read pools: %w", err)
	}
	items := make([]*program.Pool, 0)
	if err := json.Unmarshal(infoJson, &items); err != nil {
		return fmt.Errorf("parse pools: %w", err)
	}
	pools := make([]*program.Pool, 0, len(items))
	for _, pool := range items {
		if err := pool.Validate(); err != nil {
			e.logger.Printf("skip pool: %v", err)
			continue
		}
		if !e.UseProgram(pool.Program) {
			continue
		}
		pools = append(pools, pool)
	}
	e.lock.Lock()
	e.pools = pools
	e.lock.Unlock()
	return nil
}

func (e *Env) UseProgram(key solana.PublicKey) bool {
	if len(e.programs) == 0 {
		return true
	}
	return e.programs[key]
}

// Pools returns copies so callers may refresh reserves without touching
// the loaded snapshot.
func (e *Env) Pools(ctx context.Context) ([]*program.Pool, error) {
	e.lock.RLock()
	defer e.lock.RUnlock()
	pools := make([]*program.Pool, 0, len(e.pools))
	for _, pool := range e.pools {
		pools = append(pools, pool.Copy())
	}
	return pools, nil
}

func (e *Env) PoolsForPair(ctx context.Context, tokenA, tokenB solana.PublicKey) ([]*program.Pool, error) {
	e.lock.RLock()
	defer e.lock.RUnlock()
	pools := make([]*program.Pool, 0)
	for _, pool := range e.pools {
		if pool.Matches(tokenA, tokenB) {
			pools = append(pools, pool.Copy())
		}
	}
	return pools, nil
}

func (e *Env) Pool(key solana.PublicKey) *program.Pool {
	e.lock.RLock()
	defer e.lock.RUnlock()
	for _, pool := range e.pools {
		if pool.Id == key {
			return pool.Copy()
		}
	}
	return nil
}
