// Package verification confirms that the connected wallet controls an
// address bound to a Payment ID and records the outcome in a session store.
package verification

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/common"

	"github.com/vitwit/w3resolve/logger"
	"github.com/vitwit/w3resolve/metrics"
	"github.com/vitwit/w3resolve/utils"
)

const (
	sessionKeyPrefix = "verified_paymentid_"
	verifiedValue    = "true"
)

// WalletProvider is the connected browser or hardware wallet.
type WalletProvider interface {
	// RequestAccounts asks the wallet for its accounts; the first is active.
	RequestAccounts(ctx context.Context) ([]string, error)
	// PersonalSign asks address to sign message with personal_sign.
	PersonalSign(ctx context.Context, message, address string) (string, error)
}

// SessionStore keeps per-session flags.
type SessionStore interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
}

// AddressSource resolves the addresses bound to a Payment ID, keyed by chain.
type AddressSource interface {
	PaymentIDAddresses(ctx context.Context, paymentID string) map[string]string
}

// SessionKey is the store key of the verification flag of paymentID.
func SessionKey(paymentID string) string {
	return sessionKeyPrefix + paymentID
}

// OwnershipMessage is the text the wallet is asked to sign.
func OwnershipMessage(paymentID string) string {
	return "Verify ownership of Payment ID: " + paymentID
}

// WalletVerifier checks wallet ownership of Payment IDs.
type WalletVerifier struct {
	addresses AddressSource
	provider  WalletProvider
	store     SessionStore
	timeout   time.Duration
	logger    logger.Logger
	metrics   metrics.Recorder
}

// Option configures a WalletVerifier.
type Option func(*WalletVerifier)

func WithLogger(l logger.Logger) Option {
	return func(v *WalletVerifier) {
		v.logger = logger.OrNoop(l)
	}
}

func WithMetrics(r metrics.Recorder) Option {
	return func(v *WalletVerifier) {
		v.metrics = metrics.OrNoop(r)
	}
}

// WithTimeout bounds the whole verification, wallet prompts included.
func WithTimeout(t time.Duration) Option {
	return func(v *WalletVerifier) {
		v.timeout = t
	}
}

// NewWalletVerifier creates a verifier. provider may be nil when no wallet is
// available; store defaults to an in-memory store.
func NewWalletVerifier(addresses AddressSource, provider WalletProvider, store SessionStore, opts ...Option) *WalletVerifier {
	if store == nil {
		store = NewMemoryStore()
	}
	v := &WalletVerifier{
		addresses: addresses,
		provider:  provider,
		store:     store,
		timeout:   2 * time.Minute,
		logger:    logger.NoopLogger{},
		metrics:   metrics.NoopRecorder{},
	}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

// VerifyWallet reports whether the active wallet account owns an address
// bound to paymentID, proven by a personal_sign signature. On success the
// session flag for paymentID is set. It never returns an error; every failure
// is reported as false.
func (v *WalletVerifier) VerifyWallet(ctx context.Context, paymentID string) bool {
	start := time.Now()
	defer func() {
		v.metrics.ObserveLatency(metrics.OpVerifyWallet, time.Since(start), nil)
	}()

	ok, err := v.verify(ctx, strings.TrimSpace(paymentID))
	if err != nil {
		v.logger.Warn("wallet verification failed", map[string]any{
			"payment_id": paymentID,
			"error":      err,
		})
	}
	if ok {
		v.metrics.IncCounter(metrics.WalletVerified, nil)
	} else {
		v.metrics.IncCounter(metrics.WalletRejected, nil)
	}
	return ok
}

func (v *WalletVerifier) verify(ctx context.Context, paymentID string) (bool, error) {
	if v.provider == nil {
		return false, fmt.Errorf("no wallet provider available")
	}
	if err := utils.ValidatePaymentID(paymentID); err != nil {
		return false, err
	}

	ctx, cancel := context.WithTimeout(ctx, v.timeout)
	defer cancel()

	accounts, err := v.provider.RequestAccounts(ctx)
	if err != nil {
		return false, fmt.Errorf("request accounts: %w", err)
	}
	if len(accounts) == 0 {
		return false, fmt.Errorf("wallet returned no accounts")
	}
	account := accounts[0]

	bound := v.addresses.PaymentIDAddresses(ctx, paymentID)
	chain, matched := matchAccount(account, bound)
	if !matched {
		v.logger.Info("wallet account is not bound to payment id", map[string]any{
			"payment_id": paymentID,
			"account":    account,
		})
		return false, nil
	}

	message := OwnershipMessage(paymentID)
	signature, err := v.provider.PersonalSign(ctx, message, account)
	if err != nil {
		return false, fmt.Errorf("personal_sign: %w", err)
	}

	if common.IsHexAddress(account) {
		valid, err := utils.VerifyPersonalMessage(message, signature, common.HexToAddress(account))
		if err != nil {
			return false, fmt.Errorf("check signature: %w", err)
		}
		if !valid {
			return false, fmt.Errorf("signature was not produced by %s", account)
		}
	}

	if err := v.store.Set(ctx, SessionKey(paymentID), verifiedValue); err != nil {
		return false, fmt.Errorf("store verification flag: %w", err)
	}

	v.logger.Info("wallet verified", map[string]any{
		"payment_id": paymentID,
		"chain":      chain,
	})
	return true, nil
}

// IsVerified reports whether paymentID was verified in this session.
func (v *WalletVerifier) IsVerified(ctx context.Context, paymentID string) bool {
	value, found, err := v.store.Get(ctx, SessionKey(strings.TrimSpace(paymentID)))
	if err != nil {
		v.logger.Warn("session store read failed", map[string]any{
			"payment_id": paymentID,
			"error":      err,
		})
		return false
	}
	return found && value == verifiedValue
}

// matchAccount returns the chain of the first bound address equal to account,
// ignoring case. Hex addresses are also compared in checksum form.
func matchAccount(account string, bound map[string]string) (string, bool) {
	account = strings.TrimSpace(account)
	for chain, addr := range bound {
		if utils.IsEmptyAddress(addr) {
			continue
		}
		if strings.EqualFold(addr, account) {
			return chain, true
		}
		if strings.HasPrefix(addr, "0x") && strings.HasPrefix(account, "0x") {
			if a := utils.ChecksumAddress(addr); a != "" && a == utils.ChecksumAddress(account) {
				return chain, true
			}
		}
	}
	return "", false
}
