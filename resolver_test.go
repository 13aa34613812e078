package w3resolve

import (
	"context"
	"crypto/ecdsa"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/crypto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vitwit/w3resolve/clients"
	"github.com/vitwit/w3resolve/config"
	"github.com/vitwit/w3resolve/logger"
	"github.com/vitwit/w3resolve/metrics"
	"github.com/vitwit/w3resolve/types"
	"github.com/vitwit/w3resolve/utils"
	"github.com/vitwit/w3resolve/verification"
)

type stubNameService struct {
	addrs map[int64]string
	texts map[string]string
}

func (s *stubNameService) Address(_ context.Context, _ string, q types.AddressQuery) (string, error) {
	if a, ok := s.addrs[q.ChainID]; ok {
		return a, nil
	}
	return "", clients.ErrNotFound
}

func (s *stubNameService) Text(_ context.Context, _ string, key string) (string, error) {
	if v, ok := s.texts[key]; ok {
		return v, nil
	}
	return "", clients.ErrNotFound
}

func (s *stubNameService) Close() {}

type stubPaymentID map[string]string

func (s stubPaymentID) Lookup(_ context.Context, _, typeTag string) (string, error) {
	if a, ok := s[typeTag]; ok {
		return a, nil
	}
	return "", clients.ErrNotFound
}

type stubWallet struct {
	key *ecdsa.PrivateKey
}

func (w stubWallet) RequestAccounts(context.Context) ([]string, error) {
	return []string{utils.AddressFromPrivateKey(w.key).Hex()}, nil
}

func (w stubWallet) PersonalSign(_ context.Context, message, _ string) (string, error) {
	return utils.SignPersonalMessage(message, w.key)
}

type countingRecorder struct {
	mu       sync.Mutex
	counters map[string]int
}

func (c *countingRecorder) IncCounter(name string, _ map[string]string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.counters[name]++
}

func (c *countingRecorder) ObserveLatency(string, time.Duration, map[string]string) {}

// stubFactory gives BNB Chain (id 56) a name service that knows alice.bnb and
// every other chain an empty one.
func stubFactory(bscAddr string) clients.NameServiceFactory {
	return func(chain types.ChainDescriptor) (clients.NameService, error) {
		if chain.ChainID == 56 {
			return &stubNameService{
				addrs: map[int64]string{56: bscAddr},
				texts: map[string]string{"email": "alice@example.com"},
			}, nil
		}
		return &stubNameService{}, nil
	}
}

func newTestResolver(t *testing.T, opts ...Option) *Resolver {
	t.Helper()
	base := []Option{
		WithLogger(logger.NoopLogger{}),
		WithNameServiceFactory(stubFactory("0x52908400098527886e0f7030069857d2e4169ee7")),
		WithPaymentIDLookup(stubPaymentID{}),
	}
	r, err := New(config.Default(), append(base, opts...)...)
	require.NoError(t, err)
	t.Cleanup(func() { _ = r.Close() })
	return r
}

func TestResolve_Domain(t *testing.T) {
	r := newTestResolver(t)

	res := r.Resolve(context.Background(), "alice.bnb")
	require.NotNil(t, res)
	assert.Equal(t, types.InputDomainName, res.Kind)
	assert.Equal(t, map[string]string{
		"BNB Chain": "0x52908400098527886E0F7030069857D2E4169EE7",
	}, res.CryptoAddresses)
	assert.Equal(t, []string{"alice@example.com"}, res.EmailAddresses)
}

func TestResolve_Invalid(t *testing.T) {
	rec := &countingRecorder{counters: map[string]int{}}
	r := newTestResolver(t, WithMetrics(rec))

	res := r.Resolve(context.Background(), "not an input")
	assert.Equal(t, types.InputInvalid, res.Kind)
	assert.Empty(t, res.CryptoAddresses)
	assert.NotNil(t, res.EmailAddresses)
	assert.Equal(t, 1, rec.counters[metrics.ResolveInvalid])
}

func TestResolve_PaymentID(t *testing.T) {
	r := newTestResolver(t, WithPaymentIDLookup(stubPaymentID{
		"bitcoin": "bc1qar0srrr7xfkvy5l643lydnw9re59gtzzwf5mdq",
		"evm":     "0xab5801a7d398351b8be11c439e05c5b3259aec9b",
	}))

	res := r.Resolve(context.Background(), "bob@binance")
	assert.Equal(t, types.InputPaymentID, res.Kind)
	assert.Equal(t, map[string]string{
		"Bitcoin":  "bc1qar0srrr7xfkvy5l643lydnw9re59gtzzwf5mdq",
		"Ethereum": "0xab5801a7d398351b8be11c439e05c5b3259aec9b",
	}, res.CryptoAddresses)
	assert.Empty(t, res.EmailAddresses)
}

func TestTextRecordsAndEmails(t *testing.T) {
	r := newTestResolver(t)
	ctx := context.Background()

	assert.Equal(t, []string{"alice@example.com"}, r.ResolveEmails(ctx, "alice.bnb"))
	assert.Equal(t, map[string]string{"email": "alice@example.com"}, r.TextRecords(ctx, "alice.bnb"))
}

func TestVerifyWallet(t *testing.T) {
	key, err := crypto.GenerateKey()
	require.NoError(t, err)
	account := utils.AddressFromPrivateKey(key).Hex()

	store := verification.NewMemoryStore()
	r := newTestResolver(t,
		WithPaymentIDLookup(stubPaymentID{"evm": strings.ToLower(account)}),
		WithWalletProvider(stubWallet{key: key}),
		WithSessionStore(store),
	)
	ctx := context.Background()

	assert.False(t, r.IsVerified(ctx, "bob@binance"))
	assert.True(t, r.VerifyWallet(ctx, "bob@binance"))
	assert.True(t, r.IsVerified(ctx, "bob@binance"))

	v, found, err := store.Get(ctx, verification.SessionKey("bob@binance"))
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "true", v)
}

func TestVerifyWallet_NoProvider(t *testing.T) {
	r := newTestResolver(t, WithPaymentIDLookup(stubPaymentID{"evm": "0xab5801a7d398351b8be11c439e05c5b3259aec9b"}))
	assert.False(t, r.VerifyWallet(context.Background(), "bob@binance"))
}

func TestNew_InvalidConfig(t *testing.T) {
	cfg := config.Default()
	cfg.LogLevel = "loud"

	_, err := New(cfg)
	require.Error(t, err)
	assert.True(t, types.IsCode(err, types.ErrConfigError))
}

func TestNew_FactoryError(t *testing.T) {
	_, err := New(nil,
		WithLogger(logger.NoopLogger{}),
		WithNameServiceFactory(func(types.ChainDescriptor) (clients.NameService, error) {
			return nil, errors.New("dial failed")
		}),
	)
	require.Error(t, err)
	assert.True(t, types.IsCode(err, types.ErrConfigError))
}

func TestNew_RedisUnreachable(t *testing.T) {
	cfg := config.Default()
	cfg.Session.RedisAddr = "127.0.0.1:1"

	_, err := New(cfg,
		WithLogger(logger.NoopLogger{}),
		WithNameServiceFactory(stubFactory("")),
	)
	require.Error(t, err)
	assert.True(t, types.IsCode(err, types.ErrConfigError))
}

func TestNew_AppliesOverridesAndTimeout(t *testing.T) {
	cfg := config.Default()
	cfg.RPCOverrides = map[string]string{"ethereum": "http://localhost:8545"}

	var seen string
	r, err := New(cfg,
		WithLogger(logger.NoopLogger{}),
		WithTimeout(time.Second),
		WithNameServiceFactory(func(chain types.ChainDescriptor) (clients.NameService, error) {
			if chain.Name == "Ethereum" {
				seen = chain.RPCURL
			}
			return &stubNameService{}, nil
		}),
	)
	require.NoError(t, err)
	defer r.Close()

	assert.Equal(t, "http://localhost:8545", seen)
	eth, ok := r.Registry().ChainByName("Ethereum")
	require.True(t, ok)
	assert.Equal(t, "http://localhost:8545", eth.RPCURL)
}

func TestGetVersion(t *testing.T) {
	v := GetVersion()
	assert.Equal(t, Version, v["library_version"])
	assert.Contains(t, v["supported_chains"], "BNB Chain")
	assert.Equal(t, []string{"bitcoin", "evm", "solana", "tron"}, v["payment_id_chain_types"])
}
