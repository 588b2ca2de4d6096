// internal/services/blockchain_service.go
package services

import (
	"bytes"
	"context"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/sony/gobreaker"
	"golang.org/x/crypto/sha3"

	"github.com/javajoker/nft-marketplace/internal/config"
)

// ErrMinterUnavailable wraps every failure of the external minting service.
var ErrMinterUnavailable = errors.New("minting service unavailable")

func minterError(err error) error {
	if err == nil || errors.Is(err, ErrMinterUnavailable) {
		return err
	}
	return fmt.Errorf("%w: %v", ErrMinterUnavailable, err)
}

type MintParams struct {
	TokenID         string `json:"tokenId"`
	MetadataURI     string `json:"metadataUri,omitempty"`
	CollectionMint  string `json:"collectionMint,omitempty"`
	AuthorityPubkey string `json:"authorityPubkey,omitempty"`
	Owner           string `json:"owner"`
}

// Minter is the opaque signing/minting collaborator. Both calls return the
// on-chain address of the new asset.
type Minter interface {
	MintNFT(ctx context.Context, params MintParams) (string, error)
	MintCollection(ctx context.Context, name string) (string, error)
}

// NewMinter picks the HTTP minter when a URL is configured and the local
// stub otherwise. Either way calls go through a circuit breaker.
func NewMinter(cfg config.MinterConfig) Minter {
	var base Minter
	if cfg.URL != "" {
		base = NewHTTPMinter(cfg, nil)
		logrus.WithField("url", cfg.URL).Info("Using remote minting service")
	} else {
		base = NewStubMinter()
		logrus.Warn("MINTER_URL not set, using stub minter")
	}
	return NewBreakerMinter(base, cfg)
}

// StubMinter derives deterministic-looking addresses locally. Used in
// development and tests.
type StubMinter struct {
	counter atomic.Uint64
	now     func() time.Time
}

func NewStubMinter() *StubMinter {
	return &StubMinter{now: time.Now}
}

func (m *StubMinter) MintNFT(ctx context.Context, params MintParams) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	return m.address("nft", params.TokenID, params.MetadataURI, params.CollectionMint), nil
}

func (m *StubMinter) MintCollection(ctx context.Context, name string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	return m.address("collection", name), nil
}

func (m *StubMinter) address(kind string, parts ...string) string {
	hash := sha3.NewLegacyKeccak256()
	hash.Write([]byte(kind))
	for _, part := range parts {
		hash.Write([]byte{0})
		hash.Write([]byte(part))
	}
	fmt.Fprintf(hash, "|%d|%d", m.counter.Add(1), m.now().UnixNano())

	sum := hash.Sum(nil)
	return "0x" + hex.EncodeToString(sum[len(sum)-20:])
}

// HTTPMinter talks JSON to the external minting service.
type HTTPMinter struct {
	baseURL string
	apiKey  string
	client  *http.Client
}

type mintCollectionRequest struct {
	Name string `json:"name"`
}

type mintResponse struct {
	Address string `json:"address"`
	Error   string `json:"error,omitempty"`
}

func NewHTTPMinter(cfg config.MinterConfig, client *http.Client) *HTTPMinter {
	if client == nil {
		client = &http.Client{Timeout: cfg.Timeout}
	}
	return &HTTPMinter{
		baseURL: cfg.URL,
		apiKey:  cfg.APIKey,
		client:  client,
	}
}

func (m *HTTPMinter) MintNFT(ctx context.Context, params MintParams) (string, error) {
	return m.post(ctx, "/mint", params)
}

func (m *HTTPMinter) MintCollection(ctx context.Context, name string) (string, error) {
	return m.post(ctx, "/collections", mintCollectionRequest{Name: name})
}

func (m *HTTPMinter) post(ctx context.Context, path string, payload interface{}) (string, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("failed to encode mint request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, m.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("failed to build mint request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if m.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+m.apiKey)
	}

	resp, err := m.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("mint request failed: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", fmt.Errorf("failed to read mint response: %w", err)
	}

	var decoded mintResponse
	decodeErr := json.Unmarshal(data, &decoded)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		if decoded.Error != "" {
			return "", fmt.Errorf("minting service returned %d: %s", resp.StatusCode, decoded.Error)
		}
		return "", fmt.Errorf("minting service returned %d", resp.StatusCode)
	}
	if decodeErr != nil {
		return "", fmt.Errorf("failed to decode mint response: %w", decodeErr)
	}
	if decoded.Address == "" {
		return "", errors.New("minting service returned no address")
	}

	return decoded.Address, nil
}

// BreakerMinter trips after repeated minter failures and rejects calls
// with ErrMinterUnavailable until the breaker half-opens.
type BreakerMinter struct {
	next Minter
	cb   *gobreaker.CircuitBreaker
}

func NewBreakerMinter(next Minter, cfg config.MinterConfig) *BreakerMinter {
	const name = "minter"

	cb := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        name,
		MaxRequests: cfg.BreakerMaxRequests,
		Interval:    cfg.BreakerInterval,
		Timeout:     cfg.BreakerTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < cfg.BreakerMinRequests {
				return false
			}

			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			shouldTrip := failureRatio >= cfg.BreakerFailureRatio
			if shouldTrip {
				logrus.WithFields(logrus.Fields{
					"requests": counts.Requests,
					"failures": counts.TotalFailures,
					"ratio":    failureRatio,
				}).Warn("Minter circuit breaker tripping")
			}
			return shouldTrip
		},
		// Callers giving up is not a minter failure.
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, context.Canceled)
		},
		OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
			minterBreakerState.WithLabelValues(name).Set(float64(to))
			logrus.WithFields(logrus.Fields{
				"breaker": name,
				"from":    from.String(),
				"to":      to.String(),
			}).Info("Circuit breaker state change")
		},
	})
	minterBreakerState.WithLabelValues(name).Set(float64(gobreaker.StateClosed))

	return &BreakerMinter{next: next, cb: cb}
}

func (m *BreakerMinter) MintNFT(ctx context.Context, params MintParams) (string, error) {
	return m.execute("mint_nft", func() (string, error) {
		return m.next.MintNFT(ctx, params)
	})
}

func (m *BreakerMinter) MintCollection(ctx context.Context, name string) (string, error) {
	return m.execute("mint_collection", func() (string, error) {
		return m.next.MintCollection(ctx, name)
	})
}

func (m *BreakerMinter) State() gobreaker.State {
	return m.cb.State()
}

func (m *BreakerMinter) execute(operation string, call func() (string, error)) (string, error) {
	start := time.Now()
	result, err := m.cb.Execute(func() (interface{}, error) {
		return call()
	})
	minterCallDuration.WithLabelValues(operation, statusLabel(err)).Observe(time.Since(start).Seconds())

	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return "", ErrMinterUnavailable
		}
		return "", minterError(err)
	}

	return result.(string), nil
}
