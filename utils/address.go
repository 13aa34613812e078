package utils

import (
	"fmt"
	"strings"

	"github.com/btcsuite/btcd/btcutil/base58"
	"github.com/btcsuite/btcd/chaincfg"
	"github.com/btcsuite/btcd/txscript"
	"github.com/ethereum/go-ethereum/common"
	"github.com/gagliardetto/solana-go"

	"github.com/vitwit/w3resolve/types"
)

const zeroEVMAddress = "0x0000000000000000000000000000000000000000"

// tronAddressPrefix is the version byte of base58check Tron addresses.
const tronAddressPrefix byte = 0x41

// IsEmptyAddress reports whether addr carries no usable value: the empty
// string, a bare "0x", or the zero EVM address in any case.
func IsEmptyAddress(addr string) bool {
	a := strings.ToLower(strings.TrimSpace(addr))
	return a == "" || a == "0x" || a == zeroEVMAddress
}

// NormalizeAddress formats raw for display on a chain of the given family.
// EVM and Tron hex addresses get an EIP-55 checksum; everything else is
// returned unchanged.
func NormalizeAddress(raw string, family types.ChainFamily) string {
	if !family.IsEVMStyle() {
		return raw
	}
	if !strings.HasPrefix(raw, "0x") && !strings.HasPrefix(raw, "0X") {
		return raw
	}
	if !common.IsHexAddress(raw) {
		return raw
	}
	return common.HexToAddress(raw).Hex()
}

// ChecksumAddress returns the EIP-55 form of an EVM address, or "" when addr
// is not a hex address.
func ChecksumAddress(addr string) string {
	if !common.IsHexAddress(addr) {
		return ""
	}
	return common.HexToAddress(addr).Hex()
}

// DecodeAddressBytes converts the binary payload of an addr(node, coinType)
// record into the chain's display form. An empty payload decodes to "".
func DecodeAddressBytes(b []byte, coinType uint32, family types.ChainFamily) (string, error) {
	if len(b) == 0 {
		return "", nil
	}

	switch family {
	case types.ChainEVM:
		if len(b) != common.AddressLength {
			return "", fmt.Errorf("evm address must be %d bytes, got %d", common.AddressLength, len(b))
		}
		return common.BytesToAddress(b).Hex(), nil

	case types.ChainSolana:
		if len(b) != solana.PublicKeyLength {
			return "", fmt.Errorf("solana public key must be %d bytes, got %d", solana.PublicKeyLength, len(b))
		}
		return solana.PublicKeyFromBytes(b).String(), nil

	case types.ChainTron:
		switch {
		case len(b) == common.AddressLength+1 && b[0] == tronAddressPrefix:
			return base58.CheckEncode(b[1:], tronAddressPrefix), nil
		case len(b) == common.AddressLength:
			return base58.CheckEncode(b, tronAddressPrefix), nil
		default:
			return "", fmt.Errorf("tron address must be 20 or 21 bytes, got %d", len(b))
		}

	case types.ChainBTC:
		params, err := bitcoinParams(coinType)
		if err != nil {
			return "", err
		}
		_, addrs, _, err := txscript.ExtractPkScriptAddrs(b, params)
		if err != nil {
			return "", fmt.Errorf("decode script: %w", err)
		}
		if len(addrs) == 0 {
			return "", fmt.Errorf("script for coin type %d has no address", coinType)
		}
		return addrs[0].EncodeAddress(), nil

	default:
		return "", fmt.Errorf("unsupported chain family %q", family)
	}
}

var (
	litecoinMainNetParams = func() chaincfg.Params {
		p := chaincfg.MainNetParams
		p.Name = "litecoin"
		p.PubKeyHashAddrID = 0x30 // L...
		p.ScriptHashAddrID = 0x32 // M...
		p.Bech32HRPSegwit = "ltc"
		return p
	}()

	dogecoinMainNetParams = func() chaincfg.Params {
		p := chaincfg.MainNetParams
		p.Name = "dogecoin"
		p.PubKeyHashAddrID = 0x1e // D...
		p.ScriptHashAddrID = 0x16 // 9... or A...
		p.Bech32HRPSegwit = "doge"
		return p
	}()
)

func bitcoinParams(coinType uint32) (*chaincfg.Params, error) {
	switch coinType {
	case 0:
		return &chaincfg.MainNetParams, nil
	case 2:
		return &litecoinMainNetParams, nil
	case 3:
		return &dogecoinMainNetParams, nil
	default:
		return nil, fmt.Errorf("no bitcoin-family params for coin type %d", coinType)
	}
}
