package backend

import (
	"context"
	"fmt"
	"github.com/egaotan/solana-router/program"
	"github.com/egaotan/solana-router/spltoken"
	"github.com/gagliardetto/solana-go"
	"sync/atomic"
)

func (backend *Backend) Pools(ctx context.Context) ([]*program.Pool, error) {
	pools, err := backend.inner.Pools(ctx)
	if err != nil {
		return nil, err
	}
	if err := backend.refresh(ctx, pools); err != nil {
		return nil, err
	}
	return pools, nil
}

func (backend *Backend) PoolsForPair(ctx context.Context, tokenA, tokenB solana.PublicKey) ([]*program.Pool, error) {
	pools, err := backend.inner.PoolsForPair(ctx, tokenA, tokenB)
	if err != nil {
		return nil, err
	}
	if err := backend.refresh(ctx, pools); err != nil {
		return nil, err
	}
	return pools, nil
}

type vaultState struct {
	*spltoken.AccountLayout
	height uint64
}

// refresh overwrites reserves of pools whose vaults are known. A pool whose
// vault cannot be decoded keeps the reserves it came with.
func (backend *Backend) refresh(ctx context.Context, pools []*program.Pool) error {
	vaults := make([]solana.PublicKey, 0, len(pools)*2)
	for _, pool := range pools {
		if pool.VaultA.IsZero() || pool.VaultB.IsZero() {
			continue
		}
		vaults = append(vaults, pool.VaultA, pool.VaultB)
	}
	if len(vaults) == 0 {
		return nil
	}
	accounts, err := backend.Accounts(ctx, vaults)
	if err != nil {
		return err
	}
	amounts := make(map[solana.PublicKey]*vaultState, len(accounts))
	slot := uint64(0)
	for _, account := range accounts {
		vault, err := backend.parseVault(account)
		if err != nil {
			backend.logger.Printf("vault %s err: %v", account.PubKey, err)
			continue
		}
		amounts[account.PubKey] = &vaultState{AccountLayout: vault, height: account.Height}
		if account.Height > slot {
			slot = account.Height
		}
	}
	updated := 0
	for _, pool := range pools {
		vaultA, okA := amounts[pool.VaultA]
		vaultB, okB := amounts[pool.VaultB]
		if !okA || !okB {
			continue
		}
		if vaultA.Mint != pool.TokenA || vaultB.Mint != pool.TokenB {
			backend.logger.Printf("pool %s vault mints do not match its tokens", pool.Id)
			continue
		}
		pool.ReserveA = float64(vaultA.Amount)
		pool.ReserveB = float64(vaultB.Amount)
		pool.Slot = vaultA.height
		if vaultB.height < pool.Slot {
			pool.Slot = vaultB.height
		}
		updated++
	}
	if slot > 0 {
		atomic.StoreUint64(&backend.slot, slot)
	}
	backend.logger.Printf("refresh reserves, pools: %d, updated: %d, slot: %d", len(pools), updated, slot)
	return nil
}

func (backend *Backend) parseVault(account *Account) (*spltoken.AccountLayout, error) {
	if account.Account == nil {
		return nil, fmt.Errorf("account is missing")
	}
	return spltoken.ParseAccount(account.Account.Owner, account.Account.Data.GetBinary())
}
