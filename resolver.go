// Package w3resolve resolves Web3 domain names, Payment IDs and raw addresses
// into cryptocurrency addresses and contact records across many blockchains.
package w3resolve

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/vitwit/w3resolve/clients"
	"github.com/vitwit/w3resolve/config"
	"github.com/vitwit/w3resolve/engine"
	"github.com/vitwit/w3resolve/logger"
	"github.com/vitwit/w3resolve/metrics"
	"github.com/vitwit/w3resolve/registry"
	"github.com/vitwit/w3resolve/types"
	"github.com/vitwit/w3resolve/utils"
	"github.com/vitwit/w3resolve/verification"
)

// Resolver is the main entry point of the library. It is safe for concurrent
// use.
type Resolver struct {
	engine   *engine.Engine
	verifier *verification.WalletVerifier
	config   *types.ResolverConfig

	logger    logger.Logger
	metrics   metrics.Recorder
	timeout   time.Duration
	registry  *registry.Registry
	nsFactory clients.NameServiceFactory
	paymentID clients.PaymentIDLookup
	provider  verification.WalletProvider
	store     verification.SessionStore

	closers []func() error
}

var (
	promOnce     sync.Once
	promRecorder metrics.Recorder
)

// defaultPrometheusRecorder shares one recorder between resolvers; the
// collectors can be registered with the default registerer only once.
func defaultPrometheusRecorder() metrics.Recorder {
	promOnce.Do(func() {
		promRecorder = metrics.NewPrometheusRecorder()
	})
	return promRecorder
}

// New creates a Resolver from cfg. A nil cfg uses config.Default().
func New(cfg *types.ResolverConfig, opts ...Option) (*Resolver, error) {
	if cfg == nil {
		cfg = config.Default()
	}
	if err := utils.ValidateResolverConfig(cfg); err != nil {
		return nil, err
	}

	r := &Resolver{config: cfg}
	for _, opt := range opts {
		opt(r)
	}

	if r.logger == nil {
		r.logger = logger.NewZapLogger(cfg.LogLevel)
	}
	if r.metrics == nil {
		if cfg.EnableMetrics {
			r.metrics = defaultPrometheusRecorder()
		} else {
			r.metrics = metrics.NoopRecorder{}
		}
	}
	if r.timeout <= 0 {
		r.timeout = cfg.LookupTimeout
	}
	if r.registry == nil {
		r.registry = registry.Default()
	}
	r.registry = r.registry.WithRPCOverrides(cfg.RPCOverrides)

	if r.paymentID == nil {
		r.paymentID = clients.NewPaymentIDClient(clients.PaymentIDConfig{
			BaseURL:            cfg.PaymentIDAPIURL,
			Timeout:            cfg.RequestTimeout,
			MaxRetries:         cfg.RetryCount,
			RateLimitPerSecond: cfg.RateLimitPerSecond,
		}, r.logger)
	}

	if r.store == nil && cfg.Session.RedisAddr != "" {
		store, err := verification.NewRedisStore(context.Background(), verification.RedisConfig{
			Addr:     cfg.Session.RedisAddr,
			Password: cfg.Session.RedisPassword,
			DB:       cfg.Session.RedisDB,
			TTL:      cfg.Session.TTL,
		})
		if err != nil {
			return nil, &types.ResolverError{
				Code:    types.ErrConfigError,
				Message: "failed to open session store",
				Err:     err,
			}
		}
		r.store = store
		r.closers = append(r.closers, store.Close)
	}

	eng, err := engine.New(engine.Config{
		Registry:           r.registry,
		NameServiceFactory: r.nsFactory,
		PaymentID:          r.paymentID,
		LookupTimeout:      r.timeout,
		Logger:             r.logger,
		Metrics:            r.metrics,
	})
	if err != nil {
		r.closeAll()
		return nil, err
	}
	r.engine = eng

	r.verifier = verification.NewWalletVerifier(eng, r.provider, r.store,
		verification.WithLogger(r.logger),
		verification.WithMetrics(r.metrics),
	)

	r.logger.Debug("resolver initialized", config.Describe(cfg))
	return r, nil
}

// NewWithDefaults creates a Resolver with the default configuration.
func NewWithDefaults(opts ...Option) (*Resolver, error) {
	return New(config.Default(), opts...)
}

// NewFromEnv loads the configuration with config.Load and creates a Resolver.
func NewFromEnv(opts ...Option) (*Resolver, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	return New(cfg, opts...)
}

// Resolve classifies input as a Payment ID, raw address or domain name and
// resolves it. Unreachable chains are left out; the result is never nil.
func (r *Resolver) Resolve(ctx context.Context, input string) *types.ResolutionResult {
	return r.engine.Resolve(ctx, input)
}

// ResolveEmails returns the email-like records of domain.
func (r *Resolver) ResolveEmails(ctx context.Context, domain string) []string {
	return r.engine.ResolveEmails(ctx, domain)
}

// TextRecords returns every known non-empty text record of domain.
func (r *Resolver) TextRecords(ctx context.Context, domain string) map[string]string {
	return r.engine.TextRecords(ctx, domain)
}

// VerifyWallet asks the connected wallet to prove it owns an address bound to
// paymentID.
func (r *Resolver) VerifyWallet(ctx context.Context, paymentID string) bool {
	return r.verifier.VerifyWallet(ctx, paymentID)
}

// IsVerified reports whether paymentID was verified in this session.
func (r *Resolver) IsVerified(ctx context.Context, paymentID string) bool {
	return r.verifier.IsVerified(ctx, paymentID)
}

// Registry returns the chain registry in use, RPC overrides applied.
func (r *Resolver) Registry() *registry.Registry {
	return r.registry
}

// Config returns the configuration the resolver was built with.
func (r *Resolver) Config() *types.ResolverConfig {
	return r.config
}

// Close closes all client connections
func (r *Resolver) Close() error {
	if r.engine != nil {
		r.engine.Close()
	}
	return r.closeAll()
}

func (r *Resolver) closeAll() error {
	var errs []error
	for _, c := range r.closers {
		if err := c(); err != nil {
			errs = append(errs, err)
		}
	}
	r.closers = nil
	return errors.Join(errs...)
}

// Version information
const Version = "1.0.0"

// GetVersion returns version information
func GetVersion() map[string]interface{} {
	reg := registry.Default()

	chains := make([]string, 0, len(reg.AllChains()))
	for _, c := range reg.AllChains() {
		chains = append(chains, c.Name)
	}
	paymentTypes := make([]string, 0, 4)
	for _, ct := range reg.PaymentIDChainTypes() {
		paymentTypes = append(paymentTypes, ct.TypeTag)
	}

	return map[string]interface{}{
		"library_version":        Version,
		"supported_chains":       chains,
		"payment_id_chain_types": paymentTypes,
		"supported_input_kinds":  []string{
			types.InputPaymentID.String(),
			types.InputRawAddress.String(),
			types.InputDomainName.String(),
		},
	}
}
