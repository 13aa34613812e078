// Package registry holds the static chain tables the resolver is driven by.
package registry

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/vitwit/w3resolve/types"
)

// Registry is a read-only view over the chain tables. It is safe for
// concurrent use.
type Registry struct {
	chains []types.ChainDescriptor
	byName map[string]int
}

var defaultRegistry = New(defaultChains)

// Default returns the built-in registry.
func Default() *Registry {
	return defaultRegistry
}

// New builds a registry over chains. It panics if two chains share a name.
func New(chains []types.ChainDescriptor) *Registry {
	r := &Registry{
		chains: make([]types.ChainDescriptor, 0, len(chains)),
		byName: make(map[string]int, len(chains)),
	}
	for _, c := range chains {
		if _, found := r.byName[c.Name]; found {
			panic(fmt.Errorf("chain with name '%s' already exists", c.Name))
		}
		r.byName[c.Name] = len(r.chains)
		r.chains = append(r.chains, copyDescriptor(c))
	}
	return r
}

func copyDescriptor(c types.ChainDescriptor) types.ChainDescriptor {
	c.NativeDomainSuffixes = append([]string(nil), c.NativeDomainSuffixes...)
	c.RecordKeys = append([]string(nil), c.RecordKeys...)
	return c
}

// WithRPCOverrides returns a copy of the registry whose RPC endpoints are
// replaced by overrides, keyed by chain name in any case. Unknown names are
// ignored.
func (r *Registry) WithRPCOverrides(overrides map[string]string) *Registry {
	if len(overrides) == 0 {
		return r
	}
	byName := make(map[string]string, len(overrides))
	for name, url := range overrides {
		byName[strings.ToLower(name)] = url
	}
	chains := r.AllChains()
	for i := range chains {
		if url := strings.TrimSpace(byName[strings.ToLower(chains[i].Name)]); url != "" {
			chains[i].RPCURL = url
		}
	}
	return New(chains)
}

// AllChains returns every descriptor in declaration order.
func (r *Registry) AllChains() []types.ChainDescriptor {
	out := make([]types.ChainDescriptor, len(r.chains))
	for i, c := range r.chains {
		out[i] = copyDescriptor(c)
	}
	return out
}

// ChainByName looks a descriptor up by its unique name.
func (r *Registry) ChainByName(name string) (types.ChainDescriptor, bool) {
	i, found := r.byName[name]
	if !found {
		return types.ChainDescriptor{}, false
	}
	return copyDescriptor(r.chains[i]), true
}

// ChainForDomainSuffix returns the chain whose native suffixes contain the
// trailing ".suffix" of domain. Matching is case-insensitive and the first
// chain in declaration order wins.
func (r *Registry) ChainForDomainSuffix(domain string) (types.ChainDescriptor, bool) {
	domain = strings.ToLower(strings.TrimSpace(domain))
	dot := strings.LastIndex(domain, ".")
	if dot < 0 || dot == len(domain)-1 {
		return types.ChainDescriptor{}, false
	}
	suffix := domain[dot:]
	for _, c := range r.chains {
		for _, s := range c.NativeDomainSuffixes {
			if strings.ToLower(s) == suffix {
				return copyDescriptor(c), true
			}
		}
	}
	return types.ChainDescriptor{}, false
}

// CoinTypeForChainID maps a chain id to its SLIP-0044 coin type. Unknown chain
// ids are assumed to be EVM compatible.
func (r *Registry) CoinTypeForChainID(chainID int64) uint32 {
	return CoinTypeForChainID(chainID)
}

// CoinTypeForChainID is the package-level form of Registry.CoinTypeForChainID.
func CoinTypeForChainID(chainID int64) uint32 {
	if ct, found := coinTypesByChainID[chainID]; found {
		return ct
	}
	return defaultCoinType
}

// RecordKeysFor returns the fallback text-record keys of a chain: its
// configured keys, then "address.<chainId>", then "address.<coinType>".
// Duplicates keep their first position. Unknown chains yield nil.
func (r *Registry) RecordKeysFor(chainName string) []string {
	i, found := r.byName[chainName]
	if !found {
		return nil
	}
	c := r.chains[i]
	keys := make([]string, 0, len(c.RecordKeys)+2)
	keys = append(keys, c.RecordKeys...)
	keys = append(keys,
		"address."+strconv.FormatInt(c.ChainID, 10),
		"address."+strconv.FormatUint(uint64(c.CoinType), 10),
	)
	return dedupe(keys)
}

// PaymentIDChainTypes returns the Payment-ID chain types ordered by ordinal.
func (r *Registry) PaymentIDChainTypes() []types.PaymentIDChainType {
	out := append([]types.PaymentIDChainType(nil), paymentIDChainTypes...)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Ordinal < out[j].Ordinal })
	return out
}

// EVMFanoutChains returns the chain names a raw EVM address is reported on.
func (r *Registry) EVMFanoutChains() []string {
	return append([]string(nil), evmFanoutChains...)
}

// SocialRecordKeys returns the profile text-record keys.
func (r *Registry) SocialRecordKeys() []string {
	return append([]string(nil), socialRecordKeys...)
}

// AllRecordKeys returns the union of social keys, crypto keys and every
// chain's record keys, deduplicated in that order.
func (r *Registry) AllRecordKeys() []string {
	keys := make([]string, 0, len(socialRecordKeys)+len(cryptoRecordKeys)+3*len(r.chains))
	keys = append(keys, socialRecordKeys...)
	keys = append(keys, cryptoRecordKeys...)
	for _, c := range r.chains {
		keys = append(keys, r.RecordKeysFor(c.Name)...)
	}
	return dedupe(keys)
}

func dedupe(in []string) []string {
	seen := make(map[string]struct{}, len(in))
	out := in[:0]
	for _, s := range in {
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	return out
}
