package clients

import (
	"context"
	"fmt"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/ethclient"

	"github.com/vitwit/w3resolve/types"
	"github.com/vitwit/w3resolve/utils"
)

// registry.resolver(bytes32), resolver.addr(bytes32,uint256) (ENSIP-9) and
// resolver.text(bytes32,string) (ENSIP-5).
const nameServiceABI = `[
	{"name":"resolver","type":"function","stateMutability":"view",
	 "inputs":[{"name":"node","type":"bytes32"}],
	 "outputs":[{"name":"","type":"address"}]},
	{"name":"addr","type":"function","stateMutability":"view",
	 "inputs":[{"name":"node","type":"bytes32"},{"name":"coinType","type":"uint256"}],
	 "outputs":[{"name":"","type":"bytes"}]},
	{"name":"text","type":"function","stateMutability":"view",
	 "inputs":[{"name":"node","type":"bytes32"},{"name":"key","type":"string"}],
	 "outputs":[{"name":"","type":"string"}]}
]`

var parsedNameServiceABI = func() abi.ABI {
	parsed, err := abi.JSON(strings.NewReader(nameServiceABI))
	if err != nil {
		panic(fmt.Errorf("parse name service abi: %w", err))
	}
	return parsed
}()

var _ NameService = (*EVMNameService)(nil)

// EVMNameService reads records from an ENS-compatible registry (ENS, SPACE ID)
// through eth_call.
type EVMNameService struct {
	caller   ethereum.ContractCaller
	registry common.Address
	client   *ethclient.Client
}

// NewEVMNameService connects to rpcURL and binds to the registry contract at
// registryAddress. An empty registryAddress yields a client whose every call
// returns ErrNoRegistry.
func NewEVMNameService(rpcURL, registryAddress string) (*EVMNameService, error) {
	if registryAddress == "" {
		return &EVMNameService{}, nil
	}
	if !common.IsHexAddress(registryAddress) {
		return nil, fmt.Errorf("invalid registry address %q", registryAddress)
	}

	client, err := ethclient.Dial(rpcURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to RPC %s: %w", rpcURL, err)
	}

	return &EVMNameService{
		caller:   client,
		registry: common.HexToAddress(registryAddress),
		client:   client,
	}, nil
}

// NewEVMNameServiceWithCaller binds to registryAddress over an existing
// contract caller, such as a simulated backend.
func NewEVMNameServiceWithCaller(caller ethereum.ContractCaller, registryAddress string) *EVMNameService {
	if registryAddress == "" {
		return &EVMNameService{}
	}
	return &EVMNameService{
		caller:   caller,
		registry: common.HexToAddress(registryAddress),
	}
}

// Close implements NameService.
func (s *EVMNameService) Close() {
	if s.client != nil {
		s.client.Close()
	}
}

// Address implements NameService.
func (s *EVMNameService) Address(ctx context.Context, domain string, q types.AddressQuery) (string, error) {
	node := Namehash(domain)
	resolver, err := s.resolver(ctx, node)
	if err != nil {
		return "", err
	}

	out, err := s.call(ctx, resolver, "addr", [32]byte(node), new(big.Int).SetUint64(uint64(q.CoinType)))
	if err != nil {
		return "", fmt.Errorf("addr(%s, %d): %w", domain, q.CoinType, err)
	}
	raw, ok := out[0].([]byte)
	if !ok {
		return "", fmt.Errorf("addr(%s, %d): unexpected return type %T", domain, q.CoinType, out[0])
	}

	addr, err := utils.DecodeAddressBytes(raw, q.CoinType, q.Family)
	if err != nil {
		return "", fmt.Errorf("addr(%s, %d): %w", domain, q.CoinType, err)
	}
	if utils.IsEmptyAddress(addr) {
		return "", ErrNotFound
	}
	return addr, nil
}

// Text implements NameService.
func (s *EVMNameService) Text(ctx context.Context, domain, key string) (string, error) {
	node := Namehash(domain)
	resolver, err := s.resolver(ctx, node)
	if err != nil {
		return "", err
	}

	out, err := s.call(ctx, resolver, "text", [32]byte(node), key)
	if err != nil {
		return "", fmt.Errorf("text(%s, %s): %w", domain, key, err)
	}
	value, ok := out[0].(string)
	if !ok {
		return "", fmt.Errorf("text(%s, %s): unexpected return type %T", domain, key, out[0])
	}
	if value == "" {
		return "", ErrNotFound
	}
	return value, nil
}

func (s *EVMNameService) resolver(ctx context.Context, node common.Hash) (common.Address, error) {
	if s.caller == nil {
		return common.Address{}, ErrNoRegistry
	}

	out, err := s.call(ctx, s.registry, "resolver", [32]byte(node))
	if err != nil {
		return common.Address{}, fmt.Errorf("resolver lookup: %w", err)
	}
	resolver, ok := out[0].(common.Address)
	if !ok || resolver == (common.Address{}) {
		return common.Address{}, ErrNoResolver
	}
	return resolver, nil
}

func (s *EVMNameService) call(ctx context.Context, to common.Address, method string, args ...any) ([]any, error) {
	data, err := parsedNameServiceABI.Pack(method, args...)
	if err != nil {
		return nil, fmt.Errorf("pack %s: %w", method, err)
	}

	res, err := s.caller.CallContract(ctx, ethereum.CallMsg{To: &to, Data: data}, nil)
	if err != nil {
		return nil, err
	}
	// a call to an address without code returns no data
	if len(res) == 0 {
		return nil, ErrNotFound
	}

	out, err := parsedNameServiceABI.Unpack(method, res)
	if err != nil {
		return nil, fmt.Errorf("unpack %s: %w", method, err)
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("%s returned no values", method)
	}
	return out, nil
}

// Namehash computes the EIP-137 node of name.
func Namehash(name string) common.Hash {
	var node common.Hash
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" {
		return node
	}

	labels := strings.Split(name, ".")
	for i := len(labels) - 1; i >= 0; i-- {
		label := crypto.Keccak256Hash([]byte(labels[i]))
		node = crypto.Keccak256Hash(node.Bytes(), label.Bytes())
	}
	return node
}
