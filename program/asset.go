package program

import (
	"github.com/gagliardetto/solana-go"
	"github.com/shopspring/decimal"
	"math/big"
)

// Asset is a tradable mint. It is loaded once from token metadata and never
// mutated afterwards.
type Asset struct {
	Mint     solana.PublicKey `json:"mint"`
	Symbol   string           `json:"symbol"`
	Name     string           `json:"name"`
	Decimals uint8            `json:"decimals"`
	Price    decimal.Decimal  `json:"price"`
}

// AmountUi converts a raw base-unit amount into a human amount.
func (asset *Asset) AmountUi(amount uint64) decimal.Decimal {
	return decimal.NewFromBigInt(new(big.Int).SetUint64(amount), -int32(asset.Decimals))
}

// AmountRaw converts a human amount into base units, truncating dust.
func (asset *Asset) AmountRaw(amount decimal.Decimal) uint64 {
	raw := amount.Shift(int32(asset.Decimals)).Truncate(0)
	if raw.IsNegative() {
		return 0
	}
	return raw.BigInt().Uint64()
}
