package registry

import "github.com/vitwit/w3resolve/types"

// Registry contracts of the name services the default table knows about.
const (
	ENSRegistryAddress      = "0x00000000000C2E074eC69A0dFb2997BA6C7d2e1e"
	SpaceIDBNBRegistry      = "0x08CEd32a7f3eeC915Ba84415e9C07a7286977956"
	SpaceIDArbitrumRegistry = "0x4a067EE58e73ac5E4a43722E008DFdf65B2bF348"
	SpaceIDGnosisRegistry   = "0x5dC881dDA4e4a8d312be3544AD13118D1a04Cb17"
)

// DefaultHomeChain hosts the name service used when a domain's suffix matches
// no registry entry.
const DefaultHomeChain = "BNB Chain"

// Insert more ChainDescriptor rows here to support more chains. Declaration
// order is the tie-break for suffix matching.
var defaultChains = []types.ChainDescriptor{
	{
		Name:                 "Ethereum",
		ChainID:              1,
		CoinType:             60,
		Family:               types.ChainEVM,
		NativeDomainSuffixes: []string{".eth"},
		RPCURL:               "https://eth.llamarpc.com",
		RegistryAddress:      ENSRegistryAddress,
		RecordKeys:           []string{"crypto.ETH", "address.eth"},
	},
	{
		Name:                 "BNB Chain",
		ChainID:              56,
		CoinType:             60,
		Family:               types.ChainEVM,
		NativeDomainSuffixes: []string{".bnb"},
		RPCURL:               "https://bsc-dataseed.binance.org",
		RegistryAddress:      SpaceIDBNBRegistry,
		RecordKeys:           []string{"crypto.BNB", "crypto.BSC", "address.bsc"},
	},
	{
		Name:                 "Arbitrum One",
		ChainID:              42161,
		CoinType:             60,
		Family:               types.ChainEVM,
		NativeDomainSuffixes: []string{".arb"},
		RPCURL:               "https://arb1.arbitrum.io/rpc",
		RegistryAddress:      SpaceIDArbitrumRegistry,
		RecordKeys:           []string{"crypto.ARB", "address.arbitrum"},
	},
	{
		Name:       "Polygon",
		ChainID:    137,
		CoinType:   60,
		Family:     types.ChainEVM,
		RPCURL:     "https://polygon-rpc.com",
		RecordKeys: []string{"crypto.MATIC", "crypto.POL", "address.polygon"},
	},
	{
		Name:       "Avalanche C-Chain",
		ChainID:    43114,
		CoinType:   60,
		Family:     types.ChainEVM,
		RPCURL:     "https://api.avax.network/ext/bc/C/rpc",
		RecordKeys: []string{"crypto.AVAX", "address.avalanche"},
	},
	{
		Name:       "Optimism",
		ChainID:    10,
		CoinType:   60,
		Family:     types.ChainEVM,
		RPCURL:     "https://mainnet.optimism.io",
		RecordKeys: []string{"crypto.OP", "address.optimism"},
	},
	{
		Name:       "Base",
		ChainID:    8453,
		CoinType:   60,
		Family:     types.ChainEVM,
		RPCURL:     "https://mainnet.base.org",
		RecordKeys: []string{"crypto.BASE", "address.base"},
	},
	{
		Name:       "zkSync Era",
		ChainID:    324,
		CoinType:   60,
		Family:     types.ChainEVM,
		RPCURL:     "https://mainnet.era.zksync.io",
		RecordKeys: []string{"crypto.ZKSYNC", "address.zksync"},
	},
	{
		Name:                 "Gnosis",
		ChainID:              100,
		CoinType:             60,
		Family:               types.ChainEVM,
		NativeDomainSuffixes: []string{".gno"},
		RPCURL:               "https://rpc.gnosischain.com",
		RegistryAddress:      SpaceIDGnosisRegistry,
		RecordKeys:           []string{"crypto.XDAI", "crypto.GNO", "address.gnosis"},
	},
	// Non-EVM chains use their SLIP-0044 value as chain id.
	{
		Name:       "Bitcoin",
		ChainID:    0,
		CoinType:   0,
		Family:     types.ChainBTC,
		RPCURL:     "https://bitcoin-rpc.publicnode.com",
		RecordKeys: []string{"crypto.BTC", "address.btc"},
	},
	{
		Name:       "Litecoin",
		ChainID:    2,
		CoinType:   2,
		Family:     types.ChainBTC,
		RPCURL:     "https://litecoin-rpc.publicnode.com",
		RecordKeys: []string{"crypto.LTC", "address.ltc"},
	},
	{
		Name:       "Dogecoin",
		ChainID:    3,
		CoinType:   3,
		Family:     types.ChainBTC,
		RPCURL:     "https://dogecoin-rpc.publicnode.com",
		RecordKeys: []string{"crypto.DOGE", "address.doge"},
	},
	{
		Name:       "Tron",
		ChainID:    195,
		CoinType:   195,
		Family:     types.ChainTron,
		RPCURL:     "https://api.trongrid.io/jsonrpc",
		RecordKeys: []string{"crypto.TRX", "address.tron"},
	},
	{
		Name:       "Solana",
		ChainID:    501,
		CoinType:   501,
		Family:     types.ChainSolana,
		RPCURL:     "https://api.mainnet-beta.solana.com",
		RecordKeys: []string{"crypto.SOL", "address.sol"},
	},
}

// coinTypesByChainID maps chain ids to SLIP-0044 coin types. Chains absent
// from the map are treated as EVM (60).
var coinTypesByChainID = map[int64]uint32{
	0:   0,
	1:   60,
	2:   2,
	3:   3,
	195: 195,
	501: 501,
}

const defaultCoinType uint32 = 60

var paymentIDChainTypes = []types.PaymentIDChainType{
	{TypeTag: "bitcoin", DisplayName: "Bitcoin", Ordinal: 0},
	{TypeTag: "evm", DisplayName: "Ethereum", Ordinal: 1},
	{TypeTag: "solana", DisplayName: "Solana", Ordinal: 2},
	{TypeTag: "tron", DisplayName: "Tron", Ordinal: 3},
}

// evmFanoutChains receive a recognised raw 0x address verbatim.
var evmFanoutChains = []string{
	"Ethereum",
	"Polygon",
	"BNB Chain",
	"Arbitrum One",
	"Avalanche C-Chain",
	"Optimism",
	"Base",
	"zkSync Era",
}

// socialRecordKeys are profile text records published alongside addresses.
var socialRecordKeys = []string{
	"email",
	"mail",
	"contact.email",
	"notice",
	"url",
	"avatar",
	"description",
	"com.twitter",
	"com.github",
	"com.discord",
	"org.telegram",
}

// cryptoRecordKeys are legacy, chain-agnostic address keys.
var cryptoRecordKeys = []string{
	"crypto.BTC",
	"crypto.ETH",
	"crypto.BNB",
	"crypto.SOL",
	"crypto.TRX",
	"crypto.LTC",
	"crypto.DOGE",
	"address.60",
}
