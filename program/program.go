package program

import (
	"context"
	"github.com/gagliardetto/solana-go"
)

var (
	OrcaV1    = solana.MustPublicKeyFromBase58("DjVE6JNiYqPL2QXyCUUh8rNjHrbz9hXHNYt99MQ59qw1")
	OrcaV2    = solana.MustPublicKeyFromBase58("9W959DqEETiGZocYWCQPaJ6sBmUzgfxXfqGeTEdp3aQP")
	Saber     = solana.MustPublicKeyFromBase58("SSwpkEEcbUqx4vtoEByFjSkhKdCT862DNVb52nZg1UZ")
	TokenSwap = solana.MustPublicKeyFromBase58("SwaPpA9LAaLfeLi3a68M4DjnLqgtticKg6CnyNwgAC8")
	Raydium   = solana.MustPublicKeyFromBase58("675kPX9MHTjS2zt1qfr1NYHuzeLXfQM9H24wFSUt1Mp8")
	Token     = solana.MustPublicKeyFromBase58("TokenkegQfeZyiNwAJbNbGKPFXCWuBvf9Ss623VQ5DA")
)

var (
	USDT = solana.MustPublicKeyFromBase58("Es9vMFrzaCERmJfrF4H2FYD4KCoNkY11McCe8BenwNYB")
	USDC = solana.MustPublicKeyFromBase58("EPjFWdd5AufqSSqeM2qN1xzybapC8G4wEGGkZwyTDt1v")
	SOL  = solana.MustPublicKeyFromBase58("So11111111111111111111111111111111111111112")
	BONK = solana.MustPublicKeyFromBase58("DezXAZ8z7PnrnRJjz3wXBoRgixCa6xjnB7YaB1pPB263")
	MSOL = solana.MustPublicKeyFromBase58("mSoLzYCxHdYgdzU16g5QSh3i5K3z3KZK7ytfqcJm7So")
)

var (
	Orca_Sol_Usdc   = solana.MustPublicKeyFromBase58("EGZ7tiLeH62TPV1gL8WwbXGzEPa9zmcpVnnkPKKnrE2U")
	Orca_Sol_Usdt   = solana.MustPublicKeyFromBase58("Dqk7mHQBx2ZWExmyrR2S8X6UG75CrbbpK2FSBZsNYsw6")
	Orca_Sol_mSol   = solana.MustPublicKeyFromBase58("9EQMEzJdE2LDAY1hw1RytpufdwAXzatYfQ3M2UuT9b88")
	Saber_Sol_mSol  = solana.MustPublicKeyFromBase58("Lee1XZJfJ9Hm2K1qTyeCz1LXNc1YBZaKZszvNY4KCDw")
	Saber_Usdt_Usdc = solana.MustPublicKeyFromBase58("YAkoNb6HKmSxQN9L8hiBE5tPJRsniSSMzND1boHmZxe")
)

// Provider is the pool data collaborator. Implementations own fetching,
// deadlines and retries; callers only ever see a finished snapshot.
type Provider interface {
	Pools(ctx context.Context) ([]*Pool, error)
	PoolsForPair(ctx context.Context, tokenA, tokenB solana.PublicKey) ([]*Pool, error)
}

// Callback is notified when a provider publishes a new pool snapshot.
type Callback interface {
	OnSnapshot(pools []*Pool) error
}
