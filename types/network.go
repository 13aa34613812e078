package types

// ChainFamily classifies a chain by its address format.
type ChainFamily string

const (
	ChainEVM    ChainFamily = "evm"
	ChainBTC    ChainFamily = "btc"
	ChainSolana ChainFamily = "sol"
	ChainTron   ChainFamily = "tron"
)

// IsEVMStyle reports whether addresses of this family are 0x-prefixed hex
// values that take a mixed-case checksum.
func (f ChainFamily) IsEVMStyle() bool {
	return f == ChainEVM || f == ChainTron
}

func (f ChainFamily) String() string {
	return string(f)
}

// ChainDescriptor is one row of the chain registry.
type ChainDescriptor struct {
	Name     string      `json:"name"`
	ChainID  int64       `json:"chainId"`
	CoinType uint32      `json:"coinType"`
	Family   ChainFamily `json:"family"`

	// NativeDomainSuffixes lists TLDs (with leading dot) whose name service
	// lives on this chain, e.g. ".bnb".
	NativeDomainSuffixes []string `json:"nativeDomainSuffixes,omitempty"`

	RPCURL string `json:"rpcUrl"`

	// RegistryAddress is the name registry contract on this chain. Empty when
	// the chain hosts no name service.
	RegistryAddress string `json:"registryAddress,omitempty"`

	// RecordKeys are the text-record keys tried, in order, when the on-chain
	// address lookup yields nothing.
	RecordKeys []string `json:"recordKeys,omitempty"`
}

// HasNameService reports whether the chain carries a registry contract.
func (c ChainDescriptor) HasNameService() bool {
	return c.RegistryAddress != ""
}

// PaymentIDChainType is a chain type understood by the Payment-ID API.
type PaymentIDChainType struct {
	TypeTag     string `json:"typeTag"`
	DisplayName string `json:"displayName"`
	Ordinal     int    `json:"ordinal"`
}

// AddressQuery carries the per-chain parameters of an on-chain address lookup.
type AddressQuery struct {
	ChainID  int64
	RPCURL   string
	CoinType uint32
	Family   ChainFamily
}
