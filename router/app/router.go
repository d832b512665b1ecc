package app

import (
	"context"
	"errors"
	"fmt"
	"github.com/egaotan/solana-router/backend"
	"github.com/egaotan/solana-router/calculator"
	"github.com/egaotan/solana-router/config"
	"github.com/egaotan/solana-router/dingsdk"
	"github.com/egaotan/solana-router/engine"
	"github.com/egaotan/solana-router/env"
	"github.com/egaotan/solana-router/networkdetect"
	"github.com/egaotan/solana-router/pricing"
	"github.com/egaotan/solana-router/program"
	"github.com/egaotan/solana-router/statelisten"
	"github.com/egaotan/solana-router/store"
	"github.com/egaotan/solana-router/utils"
	"github.com/gin-gonic/gin"
	"golang.org/x/sync/errgroup"
	"log"
	"net/http"
	"time"
)

// History looks up persisted opportunities.
type History interface {
	SelectOpportunity(id uint64) ([]*store.Opportunity, error)
	SelectRecentOpportunities(limit int) ([]*store.Opportunity, error)
}

type Router struct {
	ctx         context.Context
	cancel      context.CancelFunc
	log         *log.Logger
	config      *config.Config
	env         *env.Env
	provider    program.Provider
	engine      *engine.Engine
	stateListen *statelisten.StateListen
	monitor     *engine.Monitor
	store       *store.Store
	history     History
	notify      *Notify
	nd          *networkdetect.NetworkDetector
	handler     *gin.Engine
	httpServer  *http.Server
}

func EngineConfig(cfg *config.Config) *engine.Config {
	ec := engine.DefaultConfig()
	ec.MaxHops = cfg.MaxHops
	ec.MaxPaths = cfg.MaxPaths
	ec.MaxSplits = cfg.MaxSplits
	ec.Interval = time.Duration(cfg.MonitorInterval) * time.Second
	ec.MinProfitBps = cfg.MinProfitBps
	ec.Algorithm = cfg.Algorithm
	ec.Gas = cfg.RouteGas
	ec.OpportunityTTL = time.Duration(cfg.OpportunityTTL) * time.Second
	ec.Arbitrage.Capital = cfg.Capital
	ec.Arbitrage.DefaultCapital = cfg.DefaultCapital
	ec.Arbitrage.Parallel = cfg.Parallel
	if cfg.ArbitrageGas != (pricing.GasParams{}) {
		ec.Arbitrage.Gas = cfg.ArbitrageGas
	}
	if cfg.MinAbsoluteProfit > 0 {
		ec.Arbitrage.MinAbsoluteProfit = cfg.MinAbsoluteProfit
	}
	return ec
}

// NewRouter wires the pool source, the engine and the optional outer
// services. Chain refresh, the database and notifications are only set up
// when configured.
func NewRouter(ctx context.Context, cfg *config.Config) (*Router, error) {
	ctx, cancel := context.WithCancel(ctx)
	r := &Router{
		ctx:    ctx,
		cancel: cancel,
		config: cfg,
		log:    utils.NewLog(config.LogPath, config.RouterLog),
	}
	r.env = env.NewEnv(ctx, cfg.Programs)
	r.env.SetLogger(r.log)
	r.provider = r.env
	if cfg.Chain {
		nodes := cfg.Nodes
		if cfg.NetStatus {
			nodes = networkdetect.DetectPeers(nodes, networkdetect.PingProbe(3))
		}
		b, err := backend.NewBackend(ctx, nodes, r.env)
		if err != nil {
			cancel()
			return nil, err
		}
		b.SetLogger(utils.NewLog(config.LogPath, config.BackendLog))
		r.provider = b
	}
	r.engine = engine.NewEngine(EngineConfig(cfg), utils.NewLog(config.LogPath, config.EngineLog))
	r.stateListen = statelisten.NewStateListen(ctx, r.provider, r.engine, time.Duration(cfg.RefreshInterval)*time.Second)
	r.stateListen.SetLogger(utils.NewLog(config.LogPath, config.RefreshLog))
	if cfg.DBUrl != "" {
		dao, err := store.NewDao(cfg.DBUrl, cfg.DBScheme, cfg.DBUser, cfg.DBPasswd)
		if err != nil {
			cancel()
			return nil, err
		}
		r.history = dao
		r.store = store.NewStore(ctx, dao)
		r.store.SetLogger(utils.NewLog(config.LogPath, config.StoreLog))
	}
	if cfg.DingUrl != "" {
		dsdk := dingsdk.NewDingSdk(cfg.DingUrl)
		r.notify = NewNotify(ctx, r.env, dsdk)
		r.notify.SetLogger(r.log)
		if cfg.NetStatus && len(cfg.Nodes) > 0 {
			nd, err := networkdetect.NewNetworkDetector(ctx, cfg.Nodes[0].Rpc, dsdk)
			if err != nil {
				cancel()
				return nil, err
			}
			nd.SetLogger(utils.NewLog(config.LogPath, config.NetworkLog))
			r.nd = nd
		}
	}
	r.handler = r.routes()
	return r, nil
}

func (r *Router) Engine() *engine.Engine {
	return r.engine
}

func (r *Router) Handler() http.Handler {
	return r.handler
}

// Service runs until ctx is done.
func (r *Router) Service() error {
	if err := r.Start(); err != nil {
		r.Stop()
		return err
	}
	r.httpServer = &http.Server{
		Addr:    r.config.Listen,
		Handler: r.handler,
	}
	g, ctx := errgroup.WithContext(r.ctx)
	g.Go(func() error {
		r.log.Printf("start rpc server %s......", r.config.Listen)
		if err := r.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("listen and serve: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return r.httpServer.Shutdown(shutdownCtx)
	})
	err := g.Wait()
	r.log.Printf("rpc server has stopped......")
	r.Stop()
	return err
}

// Start loads the first snapshot and starts the background loops. Stop
// must be called even when Start fails.
func (r *Router) Start() error {
	if err := r.env.Start(); err != nil {
		return err
	}
	r.engine.Load(r.env.Assets(), nil)
	if err := r.engine.LoadFrom(r.ctx, r.provider); err != nil {
		return err
	}
	if r.nd != nil {
		if err := r.nd.Start(); err != nil {
			r.log.Printf("network detect start err: %v", err)
		}
	}
	if r.store != nil {
		r.store.Start()
	}
	if r.notify != nil {
		r.notify.Start()
	}
	r.stateListen.Start()
	r.monitor = r.engine.Monitor(r.ctx, r.config.MonitorTokens, r)
	r.log.Printf("router has started......")
	return nil
}

func (r *Router) Stop() {
	r.cancel()
	if r.monitor != nil {
		r.monitor.Stop()
	}
	r.stateListen.Stop()
	if r.notify != nil {
		r.notify.Stop()
	}
	if r.store != nil {
		r.store.Stop()
	}
	if r.nd != nil {
		r.nd.Stop()
	}
	r.env.Stop()
	r.log.Printf("router has stopped......")
}

// OnOpportunity persists and announces an opportunity the monitor has not
// reported before.
func (r *Router) OnOpportunity(op *calculator.Opportunity) error {
	r.log.Printf("opportunity %d %s, net profit: %d, net bps: %.2f", op.Id, op.Key, op.NetProfit, op.NetProfitBps)
	if r.store != nil {
		r.store.StoreOpportunity(store.NewOpportunity(op))
	}
	if r.notify != nil {
		r.notify.Commit(op)
	}
	return nil
}
