package backend

import (
	"context"
	"fmt"
	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/rpc"
)

const (
	MultipleAccountSliceSize = 100
)

type Account struct {
	PubKey  solana.PublicKey
	Account *rpc.Account
	Height  uint64
}

// Accounts fetches pubkeys in slices of MultipleAccountSliceSize. Missing
// accounts come back with a nil Account.
func (backend *Backend) Accounts(ctx context.Context, pubkeys []solana.PublicKey) ([]*Account, error) {
	accounts := make([]*Account, 0, len(pubkeys))
	index, end := 0, 0
	for index < len(pubkeys) {
		if end = index + MultipleAccountSliceSize; end > len(pubkeys) {
			end = len(pubkeys)
		}
		getMultipleAccountsRsp, err := backend.rpcClient.GetMultipleAccountsWithOpts(ctx, pubkeys[index:end],
			&rpc.GetMultipleAccountsOpts{Encoding: solana.EncodingBase64})
		if err != nil {
			return nil, fmt.Errorf("get accounts: %w", err)
		}
		if len(getMultipleAccountsRsp.Value) != end-index {
			return nil, fmt.Errorf("get accounts: expected %d, actual %d", end-index, len(getMultipleAccountsRsp.Value))
		}
		for i, account := range getMultipleAccountsRsp.Value {
			accounts = append(accounts, &Account{
				PubKey:  pubkeys[index+i],
				Height:  getMultipleAccountsRsp.Context.Slot,
				Account: account,
			})
		}
		index = end
	}
	return accounts, nil
}
