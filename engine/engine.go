// Package engine turns a classified input into addresses and contact records
// by fanning lookups out across every registered chain.
package engine

import (
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"github.com/vitwit/w3resolve/clients"
	"github.com/vitwit/w3resolve/logger"
	"github.com/vitwit/w3resolve/metrics"
	"github.com/vitwit/w3resolve/registry"
	"github.com/vitwit/w3resolve/types"
)

// DefaultLookupTimeout bounds a single network call of a fan-out branch.
const DefaultLookupTimeout = 10 * time.Second

// maxIndexedEmails is the highest n probed in the email.<n> records.
const maxIndexedEmails = 5

// Config wires the engine to its collaborators. Nil fields take defaults.
type Config struct {
	Registry           *registry.Registry
	NameServiceFactory clients.NameServiceFactory
	PaymentID          clients.PaymentIDLookup
	LookupTimeout      time.Duration
	Logger             logger.Logger
	Metrics            metrics.Recorder
}

// Engine is safe for concurrent use. Every call owns its own fan-out; nothing
// is cached between calls.
type Engine struct {
	registry      *registry.Registry
	nameServices  map[string]clients.NameService
	paymentID     clients.PaymentIDLookup
	lookupTimeout time.Duration
	logger        logger.Logger
	metrics       metrics.Recorder
	tracer        trace.Tracer
}

// New builds an engine with one name-service client per registered chain.
func New(cfg Config) (*Engine, error) {
	if cfg.Registry == nil {
		cfg.Registry = registry.Default()
	}
	if cfg.NameServiceFactory == nil {
		cfg.NameServiceFactory = clients.DefaultNameServiceFactory
	}
	if cfg.LookupTimeout <= 0 {
		cfg.LookupTimeout = DefaultLookupTimeout
	}
	if cfg.PaymentID == nil {
		cfg.PaymentID = clients.NewPaymentIDClient(clients.PaymentIDConfig{}, cfg.Logger)
	}

	e := &Engine{
		registry:      cfg.Registry,
		nameServices:  make(map[string]clients.NameService),
		paymentID:     cfg.PaymentID,
		lookupTimeout: cfg.LookupTimeout,
		logger:        logger.OrNoop(cfg.Logger),
		metrics:       metrics.OrNoop(cfg.Metrics),
		tracer:        otel.Tracer("w3resolve/engine"),
	}

	for _, chain := range cfg.Registry.AllChains() {
		ns, err := cfg.NameServiceFactory(chain)
		if err != nil {
			e.Close()
			return nil, &types.ResolverError{
				Code:    types.ErrConfigError,
				Message: fmt.Sprintf("failed to create name service for %s", chain.Name),
				Err:     err,
			}
		}
		e.nameServices[chain.Name] = ns
	}

	return e, nil
}

// Registry returns the chain registry the engine resolves against.
func (e *Engine) Registry() *registry.Registry {
	return e.registry
}

// Close releases every name-service connection.
func (e *Engine) Close() {
	for _, ns := range e.nameServices {
		if ns != nil {
			ns.Close()
		}
	}
}

// homeNameService returns the client of the chain whose suffix matches
// domain, or of the default home chain.
func (e *Engine) homeNameService(domain string) (clients.NameService, string) {
	name := registry.DefaultHomeChain
	if chain, ok := e.registry.ChainForDomainSuffix(domain); ok {
		name = chain.Name
	}
	return e.nameServices[name], name
}
