package spltoken

import (
	"bytes"
	"encoding/binary"
	"github.com/gagliardetto/solana-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"testing"
)

var usdc = solana.MustPublicKeyFromBase58("EPjFWdd5AufqSSqeM2qN1xzybapC8G4wEGGkZwyTDt1v")

func encode(t *testing.T, v interface{}) []byte {
	buf := new(bytes.Buffer)
	require.NoError(t, binary.Write(buf, binary.LittleEndian, v))
	return buf.Bytes()
}

func TestParseAccount(t *testing.T) {
	vault := AccountLayout{Mint: usdc, Amount: 123456789, State: 1}
	vault.Owner[0] = 7
	data := encode(t, &vault)
	require.Len(t, data, AccountLayoutSize)

	account, err := ParseAccount(Id, data)
	require.NoError(t, err)
	assert.Equal(t, usdc, account.Mint)
	assert.Equal(t, uint64(123456789), account.Amount)
	assert.Equal(t, byte(7), account.Owner[0])
	// amount sits right after mint and owner
	assert.Equal(t, uint64(123456789), binary.LittleEndian.Uint64(data[64:72]))

	_, err = ParseAccount(usdc, data)
	assert.ErrorIs(t, err, ErrNotTokenAccount)
	_, err = ParseAccount(Id, data[:100])
	assert.ErrorIs(t, err, ErrNotTokenAccount)
}
