package utils

import (
	"encoding/hex"
	"strings"
	"testing"

	"github.com/btcsuite/btcd/btcutil"
	"github.com/btcsuite/btcd/btcutil/base58"
	"github.com/btcsuite/btcd/chaincfg"
	"github.com/btcsuite/btcd/txscript"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vitwit/w3resolve/types"
)

const (
	lowerAddr    = "0x5aaeb6053f3e94c9b9a09f33669435e7ef1beaed"
	checksumAddr = "0x5aAeb6053F3E94C9b9A09f33669435E7Ef1BeAed"
)

func TestIsEmptyAddress(t *testing.T) {
	for _, in := range []string{"", "0x", " 0x ", "0x0000000000000000000000000000000000000000", "0X0000000000000000000000000000000000000000"} {
		assert.True(t, IsEmptyAddress(in), "%q", in)
	}
	for _, in := range []string{lowerAddr, "bc1qar0srrr7xfkvy5l643lydnw9re59gtzzwf5mdq", "0x00"} {
		assert.False(t, IsEmptyAddress(in), "%q", in)
	}
}

func TestNormalizeAddress(t *testing.T) {
	tests := []struct {
		name   string
		raw    string
		family types.ChainFamily
		want   string
	}{
		{"evm lowercase", lowerAddr, types.ChainEVM, checksumAddr},
		{"evm already checksummed", checksumAddr, types.ChainEVM, checksumAddr},
		{"tron hex", lowerAddr, types.ChainTron, checksumAddr},
		{"evm not hex length", "0x1234", types.ChainEVM, "0x1234"},
		{"evm without prefix", "5aaeb6053f3e94c9b9a09f33669435e7ef1beaed", types.ChainEVM, "5aaeb6053f3e94c9b9a09f33669435e7ef1beaed"},
		{"btc passthrough", "bc1qar0srrr7xfkvy5l643lydnw9re59gtzzwf5mdq", types.ChainBTC, "bc1qar0srrr7xfkvy5l643lydnw9re59gtzzwf5mdq"},
		{"sol passthrough", "11111111111111111111111111111111", types.ChainSolana, "11111111111111111111111111111111"},
		{"hex on btc untouched", lowerAddr, types.ChainBTC, lowerAddr},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NormalizeAddress(tt.raw, tt.family)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, got, NormalizeAddress(got, tt.family), "not idempotent")
		})
	}
}

func TestChecksumAddress(t *testing.T) {
	assert.Equal(t, checksumAddr, ChecksumAddress(lowerAddr))
	assert.Equal(t, "", ChecksumAddress("not-an-address"))
}

func TestDecodeAddressBytes_EVM(t *testing.T) {
	b, err := hex.DecodeString(lowerAddr[2:])
	require.NoError(t, err)

	got, err := DecodeAddressBytes(b, 60, types.ChainEVM)
	require.NoError(t, err)
	assert.Equal(t, checksumAddr, got)

	_, err = DecodeAddressBytes(b[:10], 60, types.ChainEVM)
	assert.Error(t, err)
}

func TestDecodeAddressBytes_Empty(t *testing.T) {
	got, err := DecodeAddressBytes(nil, 0, types.ChainBTC)
	require.NoError(t, err)
	assert.Equal(t, "", got)
}

func TestDecodeAddressBytes_Solana(t *testing.T) {
	got, err := DecodeAddressBytes(make([]byte, 32), 501, types.ChainSolana)
	require.NoError(t, err)
	assert.Equal(t, "11111111111111111111111111111111", got)

	_, err = DecodeAddressBytes(make([]byte, 31), 501, types.ChainSolana)
	assert.Error(t, err)
}

func TestDecodeAddressBytes_Tron(t *testing.T) {
	payload, err := hex.DecodeString(lowerAddr[2:])
	require.NoError(t, err)

	withPrefix, err := DecodeAddressBytes(append([]byte{0x41}, payload...), 195, types.ChainTron)
	require.NoError(t, err)
	bare, err := DecodeAddressBytes(payload, 195, types.ChainTron)
	require.NoError(t, err)
	assert.Equal(t, withPrefix, bare)
	assert.Equal(t, byte('T'), withPrefix[0])

	decoded, version, err := base58.CheckDecode(withPrefix)
	require.NoError(t, err)
	assert.Equal(t, byte(0x41), version)
	assert.Equal(t, payload, decoded)
}

func TestDecodeAddressBytes_Bitcoin(t *testing.T) {
	// pay-to-pubkey-hash of the genesis coinbase key
	hash160, err := hex.DecodeString("62e907b15cbf27d5425399ebf6f0fb50ebb88f18")
	require.NoError(t, err)
	script, err := txscript.NewScriptBuilder().
		AddOp(txscript.OP_DUP).AddOp(txscript.OP_HASH160).
		AddData(hash160).
		AddOp(txscript.OP_EQUALVERIFY).AddOp(txscript.OP_CHECKSIG).
		Script()
	require.NoError(t, err)

	got, err := DecodeAddressBytes(script, 0, types.ChainBTC)
	require.NoError(t, err)
	assert.Equal(t, "1A1zP1eP5QGefi2DMPTfTL5SLmv7DivfNa", got)

	ltc, err := DecodeAddressBytes(script, 2, types.ChainBTC)
	require.NoError(t, err)
	assert.Equal(t, byte('L'), ltc[0])

	doge, err := DecodeAddressBytes(script, 3, types.ChainBTC)
	require.NoError(t, err)
	assert.Equal(t, byte('D'), doge[0])

	_, err = DecodeAddressBytes(script, 999, types.ChainBTC)
	assert.Error(t, err)
}

func TestDecodeAddressBytes_BitcoinSegwit(t *testing.T) {
	hash160, err := hex.DecodeString("e8df018c7e326cc253faac7e46cdc51e68542c42")
	require.NoError(t, err)
	want, err := btcutil.NewAddressWitnessPubKeyHash(hash160, &chaincfg.MainNetParams)
	require.NoError(t, err)
	script, err := txscript.PayToAddrScript(want)
	require.NoError(t, err)

	got, err := DecodeAddressBytes(script, 0, types.ChainBTC)
	require.NoError(t, err)
	assert.Equal(t, want.EncodeAddress(), got)
	assert.True(t, strings.HasPrefix(got, "bc1q"), got)
}

func TestDecodeAddressBytes_UnknownFamily(t *testing.T) {
	_, err := DecodeAddressBytes([]byte{1}, 0, types.ChainFamily("cosmos"))
	assert.Error(t, err)
}
