package backend

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/binary"
	"encoding/json"
	"errors"
	"github.com/egaotan/solana-router/config"
	"github.com/egaotan/solana-router/program"
	"github.com/egaotan/solana-router/spltoken"
	"github.com/gagliardetto/solana-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
)

func key(b byte) solana.PublicKey {
	var k solana.PublicKey
	k[0] = b
	return k
}

type rpcRequest struct {
	Id     json.RawMessage   `json:"id"`
	Method string            `json:"method"`
	Params []json.RawMessage `json:"params"`
}

// chain answers getMultipleAccounts from a fixed set of vaults.
type chain struct {
	vaults map[solana.PublicKey]spltoken.AccountLayout
	calls  int32
	fail   bool
}

func (c *chain) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	atomic.AddInt32(&c.calls, 1)
	if c.fail {
		w.WriteHeader(http.StatusInternalServerError)
		return
	}
	var req rpcRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Method != "getMultipleAccounts" {
		w.WriteHeader(http.StatusBadRequest)
		return
	}
	var keys []solana.PublicKey
	_ = json.Unmarshal(req.Params[0], &keys)
	values := make([]interface{}, 0, len(keys))
	for _, k := range keys {
		vault, ok := c.vaults[k]
		if !ok {
			values = append(values, nil)
			continue
		}
		buf := new(bytes.Buffer)
		_ = binary.Write(buf, binary.LittleEndian, &vault)
		values = append(values, map[string]interface{}{
			"data":       []string{base64.StdEncoding.EncodeToString(buf.Bytes()), "base64"},
			"executable": false,
			"lamports":   2039280,
			"owner":      spltoken.Id.String(),
			"rentEpoch":  0,
		})
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]interface{}{
		"jsonrpc": "2.0",
		"id":      req.Id,
		"result": map[string]interface{}{
			"context": map[string]interface{}{"slot": 4242},
			"value":   values,
		},
	})
}

type static struct {
	pools []*program.Pool
	err   error
}

func (s *static) Pools(ctx context.Context) ([]*program.Pool, error) {
	pools := make([]*program.Pool, 0, len(s.pools))
	for _, pool := range s.pools {
		pools = append(pools, pool.Copy())
	}
	return pools, s.err
}

func (s *static) PoolsForPair(ctx context.Context, tokenA, tokenB solana.PublicKey) ([]*program.Pool, error) {
	pools := make([]*program.Pool, 0)
	for _, pool := range s.pools {
		if pool.Matches(tokenA, tokenB) {
			pools = append(pools, pool.Copy())
		}
	}
	return pools, s.err
}

func newBackend(t *testing.T, c *chain, inner program.Provider) *Backend {
	server := httptest.NewServer(c)
	t.Cleanup(server.Close)
	backend, err := NewBackend(context.Background(), []*config.Node{{Rpc: server.URL, Usable: true}}, inner)
	require.NoError(t, err)
	backend.SetLogger(log.New(io.Discard, "", 0))
	return backend
}

func market() []*program.Pool {
	return []*program.Pool{
		{Id: key(1), TokenA: program.SOL, TokenB: program.USDC, VaultA: key(11), VaultB: key(12), ReserveA: 1, ReserveB: 1, FeeBps: 30},
		{Id: key(2), TokenA: program.SOL, TokenB: program.MSOL, VaultA: key(21), VaultB: key(22), ReserveA: 5, ReserveB: 5, FeeBps: 4},
		{Id: key(3), TokenA: program.USDC, TokenB: program.USDT, Liquidity: 1000, FeeBps: 1},
	}
}

func TestBackend_Pools(t *testing.T) {
	c := &chain{vaults: map[solana.PublicKey]spltoken.AccountLayout{
		key(11): {Mint: program.SOL, Amount: 1000000000},
		key(12): {Mint: program.USDC, Amount: 150000000},
		// vault 22 holds the wrong mint
		key(21): {Mint: program.SOL, Amount: 7},
		key(22): {Mint: program.USDC, Amount: 7},
	}}
	backend := newBackend(t, c, &static{pools: market()})

	pools, err := backend.Pools(context.Background())
	require.NoError(t, err)
	require.Len(t, pools, 3)
	assert.Equal(t, 1000000000.0, pools[0].ReserveA)
	assert.Equal(t, 150000000.0, pools[0].ReserveB)
	assert.Equal(t, uint64(4242), pools[0].Slot)
	assert.Equal(t, 5.0, pools[1].ReserveA)
	assert.Equal(t, uint64(0), pools[1].Slot)
	assert.Equal(t, 1000.0, pools[2].Liquidity)
	assert.Equal(t, uint64(4242), backend.Slot())
	assert.Equal(t, int32(1), atomic.LoadInt32(&c.calls))
}

func TestBackend_PoolsForPair(t *testing.T) {
	c := &chain{vaults: map[solana.PublicKey]spltoken.AccountLayout{
		key(11): {Mint: program.SOL, Amount: 3},
		key(12): {Mint: program.USDC, Amount: 4},
	}}
	backend := newBackend(t, c, &static{pools: market()})
	pools, err := backend.PoolsForPair(context.Background(), program.USDC, program.SOL)
	require.NoError(t, err)
	require.Len(t, pools, 1)
	assert.Equal(t, 3.0, pools[0].ReserveA)

	pools, err = backend.PoolsForPair(context.Background(), program.USDC, program.USDT)
	require.NoError(t, err)
	require.Len(t, pools, 1)
	assert.Equal(t, int32(1), atomic.LoadInt32(&c.calls))
}

func TestBackend_Errors(t *testing.T) {
	_, err := NewBackend(context.Background(), nil, &static{})
	assert.Error(t, err)

	backend := newBackend(t, &chain{fail: true}, &static{pools: market()})
	_, err = backend.Pools(context.Background())
	assert.Error(t, err)

	inner := errors.New("pools file missing")
	backend = newBackend(t, &chain{}, &static{err: inner})
	_, err = backend.Pools(context.Background())
	assert.ErrorIs(t, err, inner)
}

func TestBackend_AccountsSliced(t *testing.T) {
	c := &chain{vaults: map[solana.PublicKey]spltoken.AccountLayout{}}
	backend := newBackend(t, c, &static{})
	pubkeys := make([]solana.PublicKey, 0, 250)
	for i := 0; i < 250; i++ {
		var k solana.PublicKey
		k[0], k[1] = byte(i), 1
		pubkeys = append(pubkeys, k)
	}
	accounts, err := backend.Accounts(context.Background(), pubkeys)
	require.NoError(t, err)
	assert.Len(t, accounts, 250)
	assert.Nil(t, accounts[0].Account)
	assert.Equal(t, int32(3), atomic.LoadInt32(&c.calls))
}
