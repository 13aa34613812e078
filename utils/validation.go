package utils

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/btcsuite/btcd/btcutil"
	"github.com/btcsuite/btcd/btcutil/base58"
	"github.com/ethereum/go-ethereum/common"
	"github.com/gagliardetto/solana-go"

	"github.com/vitwit/w3resolve/types"
)

var (
	hexPattern    = regexp.MustCompile("^[0-9a-fA-F]+$")
	base58Pattern = regexp.MustCompile("^[1-9A-HJ-NP-Za-km-z]+$")
)

// ValidateAddressForChain checks that address is well formed for the given
// chain descriptor.
func ValidateAddressForChain(address string, chain types.ChainDescriptor) error {
	if address == "" {
		return fmt.Errorf("address cannot be empty")
	}

	switch chain.Family {
	case types.ChainEVM:
		if !strings.HasPrefix(address, "0x") {
			return fmt.Errorf("%s address must start with 0x", chain.Name)
		}
		if len(address) != 42 {
			return fmt.Errorf("%s address must be 42 characters long", chain.Name)
		}
		if !isHexString(address[2:]) {
			return fmt.Errorf("%s address must be valid hex", chain.Name)
		}

	case types.ChainSolana:
		if !isBase58String(address) {
			return fmt.Errorf("Solana address must be valid base58")
		}
		if _, err := solana.PublicKeyFromBase58(address); err != nil {
			return fmt.Errorf("invalid Solana address: %w", err)
		}

	case types.ChainTron:
		if common.IsHexAddress(address) && strings.HasPrefix(address, "0x") {
			return nil
		}
		payload, version, err := base58.CheckDecode(address)
		if err != nil {
			return fmt.Errorf("invalid Tron address: %w", err)
		}
		if version != tronAddressPrefix || len(payload) != common.AddressLength {
			return fmt.Errorf("Tron address must carry version 0x41 and a 20 byte payload")
		}

	case types.ChainBTC:
		params, err := bitcoinParams(chain.CoinType)
		if err != nil {
			return err
		}
		decoded, err := btcutil.DecodeAddress(address, params)
		if err != nil {
			return fmt.Errorf("invalid %s address: %w", chain.Name, err)
		}
		if !decoded.IsForNet(params) {
			return fmt.Errorf("address is not a %s address", chain.Name)
		}

	default:
		return fmt.Errorf("unsupported chain family %q", chain.Family)
	}

	return nil
}

func isHexString(s string) bool {
	return hexPattern.MatchString(s)
}

func isBase58String(s string) bool {
	return base58Pattern.MatchString(s)
}
