package metrics

import "time"

// Counter and latency names emitted by the resolver.
const (
	LookupSuccess  = "lookup_success"
	LookupNotFound = "lookup_not_found"
	LookupFailure  = "lookup_failure"
	ResolveInvalid = "resolve_invalid_input"

	WalletVerified = "wallet_verified"
	WalletRejected = "wallet_rejected"

	OpResolve       = "resolve"
	OpChainLookup   = "chain_lookup"
	OpPaymentLookup = "payment_id_lookup"
	OpTextRecord    = "text_record"
	OpVerifyWallet  = "verify_wallet"
)

type Recorder interface {
	IncCounter(name string, labels map[string]string)
	ObserveLatency(name string, duration time.Duration, labels map[string]string)
}

// OrNoop returns r, or a NoopRecorder when r is nil.
func OrNoop(r Recorder) Recorder {
	if r == nil {
		return NoopRecorder{}
	}
	return r
}
