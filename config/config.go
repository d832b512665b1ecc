package config

import (
	"encoding/json"
	"fmt"
	"github.com/egaotan/solana-router/pricing"
	"github.com/gagliardetto/solana-go"
	"os"
)

var (
	ConfigPath = "./config/"
	TokensFile = ConfigPath + "tokens.json"
	PoolsFile  = ConfigPath + "pools.json"
	ConfigFile = ConfigPath + "config.json"
	LogPath    = "./logs/"
	BackendLog = "backend"
	EngineLog  = "engine"
	NetworkLog = "network"
	StoreLog   = "store"
	RouterLog  = "router"
	RefreshLog = "refresh"
)

type Node struct {
	Rpc    string `json:"rpc"`
	Ws     string `json:"ws"`
	Usable bool   `json:"usable"`
}

type Config struct {
	Nodes    []*Node            `json:"nodes"`
	Programs []solana.PublicKey `json:"programs"`
	// refresh reserves from vault accounts instead of trusting pools.json
	Chain             bool                        `json:"chain"`
	RefreshInterval   int64                       `json:"refresh_interval"`
	MonitorInterval   int64                       `json:"monitor_interval"`
	MonitorTokens     []solana.PublicKey          `json:"monitor_tokens"`
	MaxHops           int                         `json:"max_hops"`
	MaxPaths          int                         `json:"max_paths"`
	MaxSplits         int                         `json:"max_splits"`
	MinProfitBps      float64                     `json:"min_profit_bps"`
	MinSpreadBps      float64                     `json:"min_spread_bps"`
	Algorithm         string                      `json:"algorithm"`
	Capital           map[solana.PublicKey]uint64 `json:"capital"`
	DefaultCapital    uint64                      `json:"default_capital"`
	MinAbsoluteProfit int64                       `json:"min_absolute_profit"`
	Parallel          int                         `json:"parallel"`
	RouteGas          pricing.GasParams           `json:"route_gas"`
	ArbitrageGas      pricing.GasParams           `json:"arbitrage_gas"`
	OpportunityTTL    int64                       `json:"opportunity_ttl"`
	NetStatus         bool                        `json:"net_status"`
	WorkSpace         string                      `json:"workspace"`
	DingUrl           string                      `json:"ding-url"`
	DBUrl             string                      `json:"db_url"`
	DBScheme          string                      `json:"db_scheme"`
	DBUser            string                      `json:"db_user"`
	DBPasswd          string                      `json:"db_passwd"`
	Listen            string                      `json:"listen"`
}

// Load reads a JSON config, drops unusable nodes and fills defaults.
func Load(file string) (*Config, error) {
	infoJson, err := os.ReadFile(file)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", file, err)
	}
	var cfg Config
	if err := json.Unmarshal(infoJson, &cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", file, err)
	}
	usableNodes := make([]*Node, 0, len(cfg.Nodes))
	for _, node := range cfg.Nodes {
		if node.Usable {
			usableNodes = append(usableNodes, node)
		}
	}
	cfg.Nodes = usableNodes
	cfg.setDefaults()
	return &cfg, nil
}

func (cfg *Config) setDefaults() {
	if cfg.RefreshInterval <= 0 {
		cfg.RefreshInterval = 10
	}
	if cfg.MonitorInterval <= 0 {
		cfg.MonitorInterval = 5
	}
	if cfg.MaxHops <= 0 {
		cfg.MaxHops = 3
	}
	if cfg.MaxPaths <= 0 {
		cfg.MaxPaths = 64
	}
	if cfg.MaxSplits <= 0 {
		cfg.MaxSplits = 3
	}
	if cfg.Algorithm == "" {
		cfg.Algorithm = "sim"
	}
	if cfg.Capital == nil {
		cfg.Capital = make(map[solana.PublicKey]uint64)
	}
	if cfg.DefaultCapital == 0 {
		cfg.DefaultCapital = 1000000000
	}
	if cfg.Parallel <= 0 {
		cfg.Parallel = 4
	}
	if cfg.RouteGas == (pricing.GasParams{}) {
		cfg.RouteGas = pricing.DefaultGasParams
	}
	if cfg.Listen == "" {
		cfg.Listen = ":8080"
	}
}
