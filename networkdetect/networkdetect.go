package networkdetect

import (
	"context"
	"fmt"
	"github.com/egaotan/solana-router/config"
	"github.com/egaotan/solana-router/dingsdk"
	"github.com/go-ping/ping"
	"log"
	"math"
	"net/url"
	"sort"
	"sync"
	"time"
)

var (
	Window        = 300
	LatencyLimit  = 20 * time.Millisecond
	NotifyBackoff = 5 * time.Minute
)

// Prober measures the round trip time to a host.
type Prober func(host string) (time.Duration, error)

func PingProbe(count int) Prober {
	return func(host string) (time.Duration, error) {
		pinger, err := ping.NewPinger(host)
		if err != nil {
			return 0, err
		}
		pinger.Count = count
		pinger.Timeout = time.Duration(count) * time.Second
		if err := pinger.Run(); err != nil {
			return 0, err
		}
		stats := pinger.Statistics()
		if stats.PacketsRecv == 0 {
			return 0, fmt.Errorf("%s: no reply", host)
		}
		return stats.AvgRtt, nil
	}
}

func Host(peer string) (string, error) {
	u, err := url.Parse(peer)
	if err != nil {
		return "", err
	}
	if u.Hostname() == "" {
		return "", fmt.Errorf("peer %s has no host", peer)
	}
	return u.Hostname(), nil
}

// DetectPeers orders nodes by rpc latency, unreachable ones last, keeping
// the configured order among equals.
func DetectPeers(nodes []*config.Node, probe Prober) []*config.Node {
	rtts := make(map[*config.Node]time.Duration, len(nodes))
	for _, node := range nodes {
		rtts[node] = time.Duration(math.MaxInt64)
		host, err := Host(node.Rpc)
		if err != nil {
			continue
		}
		if rtt, err := probe(host); err == nil {
			rtts[node] = rtt
		}
	}
	sorted := make([]*config.Node, len(nodes))
	copy(sorted, nodes)
	sort.SliceStable(sorted, func(i, j int) bool {
		return rtts[sorted[i]] < rtts[sorted[j]]
	})
	return sorted
}

// NetworkDetector keeps pinging one peer and alerts when the moving
// average stays above LatencyLimit for the whole window.
type NetworkDetector struct {
	ctx        context.Context
	peer       string
	lock       sync.Mutex
	ttl        []time.Duration
	avg        []time.Duration
	notifyTime time.Time
	pinger     *ping.Pinger
	logger     *log.Logger
	dsdk       *dingsdk.DingSdk
}

func NewNetworkDetector(ctx context.Context, peer string, dsdk *dingsdk.DingSdk) (*NetworkDetector, error) {
	host, err := Host(peer)
	if err != nil {
		return nil, err
	}
	nd := &NetworkDetector{
		ctx:    ctx,
		peer:   host,
		ttl:    make([]time.Duration, 0),
		avg:    make([]time.Duration, 0),
		logger: log.Default(),
		dsdk:   dsdk,
	}
	return nd, nil
}

func (nd *NetworkDetector) SetLogger(logger *log.Logger) {
	nd.logger = logger
}

func (nd *NetworkDetector) Start() error {
	pinger, err := ping.NewPinger(nd.peer)
	if err != nil {
		return err
	}
	nd.pinger = pinger
	pinger.OnRecv = func(pkt *ping.Packet) {
		if avg, slow := nd.record(pkt.Rtt, time.Now()); slow {
			nd.notify(avg)
		}
	}
	go func() {
		if err := pinger.Run(); err != nil {
			nd.logger.Printf("ping %s err: %v", nd.peer, err)
		}
	}()
	return nil
}

func (nd *NetworkDetector) Stop() {
	if nd.pinger != nil {
		nd.pinger.Stop()
	}
}

// record adds one sample and reports whether an alert is due.
func (nd *NetworkDetector) record(rtt time.Duration, now time.Time) (time.Duration, bool) {
	nd.lock.Lock()
	defer nd.lock.Unlock()
	nd.ttl = append(nd.ttl, rtt)
	if len(nd.ttl) > Window {
		nd.ttl = nd.ttl[len(nd.ttl)-Window:]
	}
	sum := time.Duration(0)
	for _, x := range nd.ttl {
		sum += x
	}
	avg := sum / time.Duration(len(nd.ttl))
	nd.avg = append(nd.avg, avg)
	if len(nd.avg) > Window {
		nd.avg = nd.avg[len(nd.avg)-Window:]
	}
	nd.logger.Printf("ping ttl: %d", avg.Milliseconds())
	for _, x := range nd.avg {
		if x < LatencyLimit {
			return avg, false
		}
	}
	nd.logger.Printf("network latency is too large")
	if now.Sub(nd.notifyTime) < NotifyBackoff {
		return avg, false
	}
	nd.notifyTime = now
	return avg, true
}

func (nd *NetworkDetector) notify(ttl time.Duration) {
	if nd.dsdk == nil {
		return
	}
	content := fmt.Sprintf("router network ttl: %d;\ntime: %s;", ttl.Milliseconds(), time.Now().Format("2006-01-02 15:04:05"))
	if _, err := nd.dsdk.Notify(nd.ctx, dingsdk.NewText(content, false)); err != nil {
		nd.logger.Printf("notify err: %v", err)
	}
}
