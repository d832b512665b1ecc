package spltoken

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"github.com/gagliardetto/solana-go"
)

var (
	Id = solana.MustPublicKeyFromBase58("TokenkegQfeZyiNwAJbNbGKPFXCWuBvf9Ss623VQ5DA")

	ErrNotTokenAccount = errors.New("not an spl token account")
)

// ParseAccount decodes a token account owned by the token program.
func ParseAccount(owner solana.PublicKey, data []byte) (*AccountLayout, error) {
	if owner != Id {
		return nil, fmt.Errorf("%w: owner %s", ErrNotTokenAccount, owner)
	}
	if len(data) != AccountLayoutSize {
		return nil, fmt.Errorf("%w: data size expected %d, actual %d", ErrNotTokenAccount, AccountLayoutSize, len(data))
	}
	account := &AccountLayout{}
	if err := binary.Read(bytes.NewReader(data), binary.LittleEndian, account); err != nil {
		return nil, fmt.Errorf("decode token account: %w", err)
	}
	return account, nil
}
