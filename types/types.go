package types

import (
	"errors"
	"fmt"
	"time"
)

// InputKind is the classification of a raw resolver input.
type InputKind int

const (
	InputInvalid InputKind = iota
	InputPaymentID
	InputRawAddress
	InputDomainName
)

func (k InputKind) String() string {
	switch k {
	case InputPaymentID:
		return "payment_id"
	case InputRawAddress:
		return "raw_address"
	case InputDomainName:
		return "domain_name"
	default:
		return "invalid"
	}
}

// ResolvedAddress is a single successful lookup.
type ResolvedAddress struct {
	ChainName string `json:"chainName"`
	Address   string `json:"address"`
}

// LookupResult is the outcome of one lookup: either an address or an error.
// A result with an empty Address and a nil Err means "no record".
type LookupResult struct {
	ChainName string
	Address   string
	Err       error
}

// Found reports whether the lookup produced a usable address.
func (r LookupResult) Found() bool {
	return r.Err == nil && r.Address != ""
}

// ResolutionResult is the merged output of a resolution call.
type ResolutionResult struct {
	Kind            InputKind         `json:"-"`
	CryptoAddresses map[string]string `json:"cryptoAddresses"`
	EmailAddresses  []string          `json:"emailAddresses"`
}

// NewResolutionResult returns an empty result with non-nil collections.
func NewResolutionResult(kind InputKind) *ResolutionResult {
	return &ResolutionResult{
		Kind:            kind,
		CryptoAddresses: make(map[string]string),
		EmailAddresses:  []string{},
	}
}

// IsEmpty reports whether nothing was resolved.
func (r *ResolutionResult) IsEmpty() bool {
	return r == nil || (len(r.CryptoAddresses) == 0 && len(r.EmailAddresses) == 0)
}

// Addresses returns the crypto addresses as a slice of ResolvedAddress.
// Order is unspecified.
func (r *ResolutionResult) Addresses() []ResolvedAddress {
	out := make([]ResolvedAddress, 0, len(r.CryptoAddresses))
	for chain, addr := range r.CryptoAddresses {
		out = append(out, ResolvedAddress{ChainName: chain, Address: addr})
	}
	return out
}

// SessionConfig configures the verification session store.
type SessionConfig struct {
	RedisAddr     string        `mapstructure:"redis_addr"`
	RedisPassword string        `mapstructure:"redis_password"`
	RedisDB       int           `mapstructure:"redis_db" validate:"gte=0"`
	TTL           time.Duration `mapstructure:"ttl" validate:"gte=0"`
}

// ResolverConfig contains global configuration for the resolver.
type ResolverConfig struct {
	PaymentIDAPIURL    string            `mapstructure:"payment_id_api_url" validate:"required,url"`
	LookupTimeout      time.Duration     `mapstructure:"lookup_timeout" validate:"gt=0"`
	RequestTimeout     time.Duration     `mapstructure:"request_timeout" validate:"gt=0"`
	RetryCount         int               `mapstructure:"retry_count" validate:"gte=0,lte=10"`
	RateLimitPerSecond float64           `mapstructure:"rate_limit_per_second" validate:"gt=0"`
	LogLevel           string            `mapstructure:"log_level" validate:"oneof=debug info warn error"`
	EnableMetrics      bool              `mapstructure:"enable_metrics"`
	RPCOverrides       map[string]string `mapstructure:"rpc_overrides"`
	Session            SessionConfig     `mapstructure:"session"`
}

// Error types
type ResolverError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Err     error  `json:"-"`
}

func (e *ResolverError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *ResolverError) Unwrap() error {
	return e.Err
}

// Common error codes
const (
	ErrInvalidInput      = "INVALID_INPUT"
	ErrLookupFailed      = "LOOKUP_FAILED"
	ErrNotFound          = "NOT_FOUND"
	ErrWalletUnavailable = "WALLET_UNAVAILABLE"
	ErrConfigError       = "CONFIG_ERROR"
	ErrUnsupportedChain  = "UNSUPPORTED_CHAIN"
)

// IsCode reports whether err is a *ResolverError carrying code.
func IsCode(err error, code string) bool {
	var re *ResolverError
	return errors.As(err, &re) && re.Code == code
}

// PaymentIDResponse is the body returned by the Payment-ID API. Code 0 means
// success.
type PaymentIDResponse struct {
	Code    int    `json:"code"`
	Address string `json:"address" validate:"omitempty,max=256,printascii"`
	Message string `json:"message,omitempty"`
}
