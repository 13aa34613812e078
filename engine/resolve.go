package engine

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/vitwit/w3resolve/clients"
	"github.com/vitwit/w3resolve/metrics"
	"github.com/vitwit/w3resolve/types"
	"github.com/vitwit/w3resolve/utils"
)

// Resolve classifies input and resolves it along the matching path. It never
// fails: lookups that error or find nothing are left out of the result.
func (e *Engine) Resolve(ctx context.Context, input string) *types.ResolutionResult {
	start := time.Now()
	kind := utils.Classify(input)
	input = strings.TrimSpace(input)

	ctx, span := e.tracer.Start(ctx, "engine.resolve", trace.WithAttributes(
		attribute.String("input.kind", kind.String()),
	))
	defer span.End()

	result := types.NewResolutionResult(kind)

	switch kind {
	case types.InputPaymentID:
		result.CryptoAddresses = e.PaymentIDAddresses(ctx, input)

	case types.InputRawAddress:
		// the same address is valid on every EVM chain
		addr := utils.NormalizeAddress(input, types.ChainEVM)
		for _, name := range e.registry.EVMFanoutChains() {
			result.CryptoAddresses[name] = addr
		}

	case types.InputDomainName:
		var wg sync.WaitGroup
		var emails []string
		wg.Add(1)
		go func() {
			defer wg.Done()
			emails = e.ResolveEmails(ctx, input)
		}()
		result.CryptoAddresses = e.resolveDomainAddresses(ctx, input)
		wg.Wait()
		result.EmailAddresses = emails

	default:
		e.metrics.IncCounter(metrics.ResolveInvalid, nil)
		e.logger.Debug("input is not a payment id, address or domain", map[string]any{"input": input})
	}

	span.SetAttributes(
		attribute.Int("result.addresses", len(result.CryptoAddresses)),
		attribute.Int("result.emails", len(result.EmailAddresses)),
	)
	e.metrics.ObserveLatency(metrics.OpResolve, time.Since(start), nil)

	return result
}

// PaymentIDAddresses queries every Payment-ID chain type concurrently and
// returns the bound addresses keyed by the chain type's display name. Values
// are returned as the API sent them.
func (e *Engine) PaymentIDAddresses(ctx context.Context, paymentID string) map[string]string {
	chainTypes := e.registry.PaymentIDChainTypes()
	results := make(chan types.LookupResult, len(chainTypes))

	for _, ct := range chainTypes {
		go func(ct types.PaymentIDChainType) {
			results <- e.lookupPaymentID(ctx, paymentID, ct)
		}(ct)
	}

	addresses := make(map[string]string, len(chainTypes))
	for range chainTypes {
		if r := <-results; r.Found() {
			addresses[r.ChainName] = r.Address
		}
	}
	return addresses
}

func (e *Engine) lookupPaymentID(ctx context.Context, paymentID string, ct types.PaymentIDChainType) types.LookupResult {
	start := time.Now()
	labels := map[string]string{"chain": ct.DisplayName}
	defer func() {
		e.metrics.ObserveLatency(metrics.OpPaymentLookup, time.Since(start), labels)
	}()

	lookupCtx, cancel := context.WithTimeout(ctx, e.lookupTimeout)
	defer cancel()

	addr, err := e.paymentID.Lookup(lookupCtx, paymentID, ct.TypeTag)
	if err == nil && utils.IsEmptyAddress(addr) {
		err = clients.ErrNotFound
	}
	e.recordOutcome(err, labels, map[string]any{"payment_id": paymentID, "type": ct.TypeTag})

	return types.LookupResult{ChainName: ct.DisplayName, Address: addr, Err: err}
}

// resolveDomainAddresses runs one branch per registered chain and merges the
// hits. Only the collector writes to the map.
func (e *Engine) resolveDomainAddresses(ctx context.Context, domain string) map[string]string {
	home, homeChain := e.homeNameService(domain)
	chains := e.registry.AllChains()
	results := make(chan types.LookupResult, len(chains))

	for _, chain := range chains {
		go func(chain types.ChainDescriptor) {
			results <- e.lookupChain(ctx, home, homeChain, domain, chain)
		}(chain)
	}

	addresses := make(map[string]string, len(chains))
	for range chains {
		if r := <-results; r.Found() {
			addresses[r.ChainName] = r.Address
		}
	}
	return addresses
}

// lookupChain asks the home name service for chain's address record, then
// falls back to chain's own text records. The fallback starts only after the
// first attempt has settled without a hit.
func (e *Engine) lookupChain(ctx context.Context, home clients.NameService, homeChain, domain string, chain types.ChainDescriptor) types.LookupResult {
	start := time.Now()
	labels := map[string]string{"chain": chain.Name}
	defer func() {
		e.metrics.ObserveLatency(metrics.OpChainLookup, time.Since(start), labels)
	}()
	fields := map[string]any{"domain": domain, "chain": chain.Name, "home": homeChain}

	result := types.LookupResult{ChainName: chain.Name}

	addr, err := e.onChainAddress(ctx, home, domain, chain)
	if err == nil {
		result.Address = utils.NormalizeAddress(addr, chain.Family)
		e.checkAddress(result.Address, chain)
		e.recordOutcome(nil, labels, fields)
		return result
	}
	e.logLookupError("on-chain address lookup failed", err, fields)

	addr, err = e.textRecordAddress(ctx, domain, chain)
	if err == nil {
		result.Address = utils.NormalizeAddress(addr, chain.Family)
		e.checkAddress(result.Address, chain)
	}
	result.Err = err
	e.recordOutcome(err, labels, fields)
	return result
}

func (e *Engine) onChainAddress(ctx context.Context, home clients.NameService, domain string, chain types.ChainDescriptor) (string, error) {
	if home == nil {
		return "", clients.ErrNoRegistry
	}

	lookupCtx, cancel := context.WithTimeout(ctx, e.lookupTimeout)
	defer cancel()

	addr, err := home.Address(lookupCtx, domain, types.AddressQuery{
		ChainID:  chain.ChainID,
		RPCURL:   chain.RPCURL,
		CoinType: e.registry.CoinTypeForChainID(chain.ChainID),
		Family:   chain.Family,
	})
	if err != nil {
		return "", err
	}
	if utils.IsEmptyAddress(addr) {
		return "", clients.ErrNotFound
	}
	return addr, nil
}

// textRecordAddress reads chain's record keys in order through the client
// bound to chain and returns the first non-empty value.
func (e *Engine) textRecordAddress(ctx context.Context, domain string, chain types.ChainDescriptor) (string, error) {
	ns := e.nameServices[chain.Name]
	if ns == nil {
		return "", clients.ErrNoRegistry
	}

	for _, key := range e.registry.RecordKeysFor(chain.Name) {
		value, err := e.readText(ctx, ns, domain, key)
		if errors.Is(err, clients.ErrNoRegistry) {
			return "", err
		}
		if err != nil {
			e.logLookupError("text record read failed", err, map[string]any{
				"domain": domain, "chain": chain.Name, "key": key,
			})
			continue
		}
		if !utils.IsEmptyAddress(value) {
			return strings.TrimSpace(value), nil
		}
	}
	return "", clients.ErrNotFound
}

func (e *Engine) readText(ctx context.Context, ns clients.NameService, domain, key string) (string, error) {
	start := time.Now()
	defer func() {
		e.metrics.ObserveLatency(metrics.OpTextRecord, time.Since(start), nil)
	}()

	lookupCtx, cancel := context.WithTimeout(ctx, e.lookupTimeout)
	defer cancel()

	return ns.Text(lookupCtx, domain, key)
}

// checkAddress logs values that do not look like an address of chain. They
// are still returned.
func (e *Engine) checkAddress(addr string, chain types.ChainDescriptor) {
	if err := utils.ValidateAddressForChain(addr, chain); err != nil {
		e.logger.Warn("resolved value is not a well-formed address", map[string]any{
			"chain":   chain.Name,
			"address": addr,
			"error":   err,
		})
	}
}

func (e *Engine) recordOutcome(err error, labels map[string]string, fields map[string]any) {
	switch {
	case err == nil:
		e.metrics.IncCounter(metrics.LookupSuccess, labels)
	case errors.Is(err, clients.ErrNotFound), errors.Is(err, clients.ErrAPIStatus):
		e.metrics.IncCounter(metrics.LookupNotFound, labels)
	default:
		e.metrics.IncCounter(metrics.LookupFailure, labels)
		e.logLookupError("lookup failed", err, fields)
	}
}

// logLookupError keeps not-found outcomes at debug level without an error
// field; they are the common case.
func (e *Engine) logLookupError(msg string, err error, fields map[string]any) {
	out := make(map[string]any, len(fields)+1)
	for k, v := range fields {
		out[k] = v
	}
	if errors.Is(err, clients.ErrNotFound) {
		out["reason"] = "not found"
	} else {
		out["error"] = err
	}
	e.logger.Debug(msg, out)
}
