package env

import (
	"context"
	"github.com/egaotan/solana-router/config"
	"github.com/egaotan/solana-router/program"
	"github.com/gagliardetto/solana-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"io"
	"log"
	"os"
	"path/filepath"
	"testing"
)

const tokensJson = `{
	"EPjFWdd5AufqSSqeM2qN1xzybapC8G4wEGGkZwyTDt1v": {"symbol": "USDC", "decimals": 6},
	"So11111111111111111111111111111111111111112": {"symbol": "SOL", "decimals": 9}
}`

const poolsJson = `[
	{
		"id": "EGZ7tiLeH62TPV1gL8WwbXGzEPa9zmcpVnnkPKKnrE2U",
		"program": "9W959DqEETiGZocYWCQPaJ6sBmUzgfxXfqGeTEdp3aQP",
		"token_a": "So11111111111111111111111111111111111111112",
		"token_b": "EPjFWdd5AufqSSqeM2qN1xzybapC8G4wEGGkZwyTDt1v",
		"reserve_a": 1000000000, "reserve_b": 100000000, "fee_bps": 30
	},
	{
		"id": "Lee1XZJfJ9Hm2K1qTyeCz1LXNc1YBZaKZszvNY4KCDw",
		"program": "SSwpkEEcbUqx4vtoEByFjSkhKdCT862DNVb52nZg1UZ",
		"token_a": "So11111111111111111111111111111111111111112",
		"token_b": "mSoLzYCxHdYgdzU16g5QSh3i5K3z3KZK7ytfqcJm7So",
		"liquidity": 5000000, "fee_bps": 4
	},
	{
		"id": "YAkoNb6HKmSxQN9L8hiBE5tPJRsniSSMzND1boHmZxe",
		"token_a": "So11111111111111111111111111111111111111112",
		"token_b": "So11111111111111111111111111111111111111112",
		"fee_bps": 4
	}
]`

func setup(t *testing.T) {
	dir := t.TempDir()
	tokens, pools := config.TokensFile, config.PoolsFile
	config.TokensFile = filepath.Join(dir, "tokens.json")
	config.PoolsFile = filepath.Join(dir, "pools.json")
	t.Cleanup(func() {
		config.TokensFile, config.PoolsFile = tokens, pools
	})
	require.NoError(t, os.WriteFile(config.TokensFile, []byte(tokensJson), 0644))
	require.NoError(t, os.WriteFile(config.PoolsFile, []byte(poolsJson), 0644))
}

func newEnv(programs []solana.PublicKey) *Env {
	e := NewEnv(context.Background(), programs)
	e.SetLogger(log.New(io.Discard, "", 0))
	return e
}

func TestEnv_Start(t *testing.T) {
	setup(t)
	e := newEnv(nil)
	require.NoError(t, e.Start())

	usdc := e.Token(program.USDC)
	require.NotNil(t, usdc)
	assert.Equal(t, program.USDC, usdc.Mint)
	assert.Equal(t, uint8(6), usdc.Decimals)
	assert.Nil(t, e.Token(program.BONK))
	assert.Equal(t, "SOL", e.Symbol(program.SOL))
	assert.Equal(t, program.BONK.String(), e.Symbol(program.BONK))
	assert.Len(t, e.Assets(), 2)

	pools, err := e.Pools(context.Background())
	require.NoError(t, err)
	require.Len(t, pools, 2)

	pair, err := e.PoolsForPair(context.Background(), program.USDC, program.SOL)
	require.NoError(t, err)
	require.Len(t, pair, 1)
	assert.Equal(t, program.Orca_Sol_Usdc, pair[0].Id)

	pair[0].ReserveA = 1
	assert.Equal(t, 1000000000.0, e.Pool(program.Orca_Sol_Usdc).ReserveA)
	assert.Nil(t, e.Pool(program.Saber_Usdt_Usdc))
}

func TestEnv_ProgramFilter(t *testing.T) {
	setup(t)
	e := newEnv([]solana.PublicKey{program.Saber})
	require.NoError(t, e.Start())
	pools, err := e.Pools(context.Background())
	require.NoError(t, err)
	require.Len(t, pools, 1)
	assert.Equal(t, program.Saber_Sol_mSol, pools[0].Id)
}

func TestEnv_MissingFiles(t *testing.T) {
	setup(t)
	require.NoError(t, os.Remove(config.PoolsFile))
	assert.Error(t, newEnv(nil).Start())
}

var _ program.Provider = (*Env)(nil)
