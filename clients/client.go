// Package clients holds the external collaborators of the resolver: on-chain
// name services and the Payment-ID HTTP API.
package clients

import (
	"context"

	"github.com/vitwit/w3resolve/types"
)

// NameService resolves records of a name registered with an ENS-compatible
// registry.
type NameService interface {
	// Address returns the address record of domain for the chain described
	// by q, in that chain's display form.
	Address(ctx context.Context, domain string, q types.AddressQuery) (string, error)
	// Text returns the text record key of domain.
	Text(ctx context.Context, domain, key string) (string, error)
	Close()
}

// PaymentIDLookup resolves a Payment ID to an address on one chain type.
type PaymentIDLookup interface {
	Lookup(ctx context.Context, paymentID, typeTag string) (string, error)
}

// NameServiceFactory builds the NameService bound to one chain.
type NameServiceFactory func(chain types.ChainDescriptor) (NameService, error)

// DefaultNameServiceFactory dials the chain's RPC endpoint and binds to its
// registry contract.
func DefaultNameServiceFactory(chain types.ChainDescriptor) (NameService, error) {
	return NewEVMNameService(chain.RPCURL, chain.RegistryAddress)
}
