package networkdetect

import (
	"context"
	"errors"
	"github.com/egaotan/solana-router/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"io"
	"log"
	"testing"
	"time"
)

func TestHost(t *testing.T) {
	host, err := Host("https://api.mainnet-beta.solana.com:443")
	require.NoError(t, err)
	assert.Equal(t, "api.mainnet-beta.solana.com", host)

	_, err = Host("not a url")
	assert.Error(t, err)
}

func TestDetectPeers(t *testing.T) {
	nodes := []*config.Node{
		{Rpc: "https://slow.example"},
		{Rpc: "https://down.example"},
		{Rpc: "https://fast.example"},
		{Rpc: "::"},
	}
	rtts := map[string]time.Duration{
		"slow.example": 80 * time.Millisecond,
		"fast.example": 5 * time.Millisecond,
	}
	probe := func(host string) (time.Duration, error) {
		if rtt, ok := rtts[host]; ok {
			return rtt, nil
		}
		return 0, errors.New("timeout")
	}
	sorted := DetectPeers(nodes, probe)
	require.Len(t, sorted, 4)
	assert.Equal(t, "https://fast.example", sorted[0].Rpc)
	assert.Equal(t, "https://slow.example", sorted[1].Rpc)
	assert.Equal(t, "https://down.example", sorted[2].Rpc)
	assert.Equal(t, "https://slow.example", nodes[0].Rpc)
}

func TestNetworkDetector_Record(t *testing.T) {
	nd, err := NewNetworkDetector(context.Background(), "https://rpc.example", nil)
	require.NoError(t, err)
	nd.SetLogger(log.New(io.Discard, "", 0))

	now := time.Now()
	_, slow := nd.record(5*time.Millisecond, now)
	assert.False(t, slow)

	// one fast average in the window keeps the alert quiet
	_, slow = nd.record(500*time.Millisecond, now)
	assert.False(t, slow)

	nd, _ = NewNetworkDetector(context.Background(), "https://rpc.example", nil)
	nd.SetLogger(log.New(io.Discard, "", 0))
	avg, slow := nd.record(50*time.Millisecond, now)
	assert.True(t, slow)
	assert.Equal(t, 50*time.Millisecond, avg)
	_, slow = nd.record(50*time.Millisecond, now.Add(time.Minute))
	assert.False(t, slow)
	_, slow = nd.record(50*time.Millisecond, now.Add(NotifyBackoff+time.Minute))
	assert.True(t, slow)
}
