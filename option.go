package w3resolve

import (
	"time"

	"github.com/vitwit/w3resolve/clients"
	"github.com/vitwit/w3resolve/logger"
	"github.com/vitwit/w3resolve/metrics"
	"github.com/vitwit/w3resolve/registry"
	"github.com/vitwit/w3resolve/verification"
)

type Option func(*Resolver)

func WithLogger(l logger.Logger) Option {
	return func(r *Resolver) {
		r.logger = l
	}
}

func WithMetrics(m metrics.Recorder) Option {
	return func(r *Resolver) {
		r.metrics = m
	}
}

// WithTimeout overrides the per-lookup timeout of the configuration.
func WithTimeout(t time.Duration) Option {
	return func(r *Resolver) {
		r.timeout = t
	}
}

func WithRegistry(reg *registry.Registry) Option {
	return func(r *Resolver) {
		r.registry = reg
	}
}

// WithNameServiceFactory replaces the go-ethereum backed name-service clients.
func WithNameServiceFactory(f clients.NameServiceFactory) Option {
	return func(r *Resolver) {
		r.nsFactory = f
	}
}

func WithPaymentIDLookup(p clients.PaymentIDLookup) Option {
	return func(r *Resolver) {
		r.paymentID = p
	}
}

// WithWalletProvider connects a wallet for VerifyWallet. Without one,
// verification always fails.
func WithWalletProvider(p verification.WalletProvider) Option {
	return func(r *Resolver) {
		r.provider = p
	}
}

func WithSessionStore(s verification.SessionStore) Option {
	return func(r *Resolver) {
		r.store = s
	}
}
