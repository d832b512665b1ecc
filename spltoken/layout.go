package spltoken

import (
	"github.com/gagliardetto/solana-go"
)

var (
	AccountLayoutSize = 165
)

// AccountLayout is an spl token account; pool vaults are token accounts and
// Amount is the reserve the pool holds.
type AccountLayout struct {
	Mint                 solana.PublicKey
	Owner                solana.PublicKey
	Amount               uint64
	DelegateOption       [4]byte
	Delegate             solana.PublicKey
	State                uint8
	IsNativeOption       [4]byte
	IsNative             uint64
	DelegatedAmount      uint64
	CloseAuthorityOption [4]byte
	CloseAuthority       solana.PublicKey
}
