package backend

import (
	"context"
	"fmt"
	"github.com/egaotan/solana-router/config"
	"github.com/egaotan/solana-router/program"
	"github.com/gagliardetto/solana-go/rpc"
	"log"
	"sync/atomic"
)

// Backend is a pool provider that takes pool definitions from an inner
// provider and refreshes their reserves from the vault token accounts on
// chain. One failed rpc call fails the whole refresh; retries belong to
// the caller's next tick.
type Backend struct {
	logger    *log.Logger
	ctx       context.Context
	rpcClient *rpc.Client
	inner     program.Provider
	slot      uint64
}

func NewBackend(ctx context.Context, nodes []*config.Node, inner program.Provider) (*Backend, error) {
	if len(nodes) == 0 {
		return nil, fmt.Errorf("no usable rpc node")
	}
	backend := &Backend{
		ctx:       ctx,
		logger:    log.Default(),
		rpcClient: rpc.New(nodes[0].Rpc),
		inner:     inner,
	}
	return backend, nil
}

func (backend *Backend) SetLogger(logger *log.Logger) {
	backend.logger = logger
}

// Slot is the context slot of the last successful refresh.
func (backend *Backend) Slot() uint64 {
	return atomic.LoadUint64(&backend.slot)
}
