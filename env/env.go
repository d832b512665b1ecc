package env

import (
	"context"
	"github.com/egaotan/solana-router/program"
	"github.com/gagliardetto/solana-go"
	"log"
	"sync"
)

// Env is the static pool provider: token metadata and a pool snapshot read
// from the config directory.
type Env struct {
	logger   *log.Logger
	ctx      context.Context
	lock     sync.RWMutex
	tokens   map[solana.PublicKey]*program.Asset
	pools    []*program.Pool
	programs map[solana.PublicKey]bool
}

// NewEnv keeps only pools of the given programs; none means all.
func NewEnv(ctx context.Context, programs []solana.PublicKey) *Env {
	env := &Env{
		ctx:      ctx,
		logger:   log.Default(),
		tokens:   make(map[solana.PublicKey]*program.Asset),
		pools:    make([]*program.Pool, 0),
		programs: make(map[solana.PublicKey]bool),
	}
	for _, p := range programs {
		env.programs[p] = true
	}
	return env
}

func (e *Env) SetLogger(logger *log.Logger) {
	e.logger = logger
}

func (e *Env) Start() error {
	e.logger.Printf("start env......")
	if err := e.loadTokens(); err != nil {
		return err
	}
	if err := e.loadPools(); err != nil {
		return err
	}
	e.logger.Printf("env loaded, tokens: %d, pools: %d", len(e.tokens), len(e.pools))
	return nil
}

func (e *Env) Stop() {
	e.logger.Printf("stop env......")
}
