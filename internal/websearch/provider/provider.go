package provider

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	wshttp "github.com/lk2023060901/osint-analysis-backend/internal/websearch/http"
	"github.com/lk2023060901/osint-analysis-backend/internal/websearch/types"
)

// Provider defines the interface for search providers
type Provider interface {
	// Search executes a search query
	Search(ctx context.Context, req *types.SearchRequest) (*types.SearchResponse, error)

	// GetID returns the provider ID
	GetID() types.ProviderID

	// GetName returns the provider name
	GetName() string

	// Validate validates the provider configuration
	Validate() error

	// IsAvailable checks if the provider is available
	IsAvailable(ctx context.Context) bool
}

const (
	defaultTimeout    = 30 * time.Second
	defaultMaxRetries = 3
	userAgent         = "OSINT-Analysis-Backend/1.0"
)

// BaseProvider provides common functionality for all providers
type BaseProvider struct {
	config     *types.ProviderConfig
	httpClient *http.Client

	mu       sync.Mutex
	apiKeys  []string // Support multiple API keys for rotation
	keyIndex int

	// backoff between attempts, overridable in tests
	backoff func(attempt int) time.Duration
}

// NewBaseProvider creates a new base provider
func NewBaseProvider(config *types.ProviderConfig) (*BaseProvider, error) {
	timeout := time.Duration(config.Timeout) * time.Second
	if timeout == 0 {
		timeout = defaultTimeout
	}

	httpClient, err := wshttp.NewHTTPClient(timeout, config.Proxy)
	if err != nil {
		return nil, err
	}

	// Parse multiple API keys (comma-separated)
	var apiKeys []string
	for _, k := range strings.Split(config.APIKey, ",") {
		if k = strings.TrimSpace(k); k != "" {
			apiKeys = append(apiKeys, k)
		}
	}

	return &BaseProvider{
		config:     config,
		httpClient: httpClient,
		apiKeys:    apiKeys,
		backoff:    exponentialBackoff,
	}, nil
}

func exponentialBackoff(attempt int) time.Duration {
	return time.Duration(1<<uint(attempt)) * time.Second
}

// GetID returns the provider ID
func (b *BaseProvider) GetID() types.ProviderID {
	return b.config.ID
}

// GetName returns the provider name
func (b *BaseProvider) GetName() string {
	return b.config.Name
}

// GetConfig returns the provider configuration
func (b *BaseProvider) GetConfig() *types.ProviderConfig {
	return b.config
}

// GetAPIKey returns the current API key (with rotation support)
func (b *BaseProvider) GetAPIKey() string {
	b.mu.Lock()
	defer b.mu.Unlock()

	if len(b.apiKeys) == 0 {
		return ""
	}
	key := b.apiKeys[b.keyIndex]
	b.keyIndex = (b.keyIndex + 1) % len(b.apiKeys)
	return key
}

// BuildDefaultHeaders builds default HTTP headers
func (b *BaseProvider) BuildDefaultHeaders() map[string]string {
	return map[string]string{
		"Content-Type": "application/json",
		"Accept":       "application/json",
		"User-Agent":   userAgent,
	}
}

// DoRequest executes an HTTP request, retrying transport failures and
// 429/5xx answers with exponential backoff
func (b *BaseProvider) DoRequest(ctx context.Context, req *http.Request) (*http.Response, error) {
	maxRetries := b.config.MaxRetries
	if maxRetries <= 0 {
		maxRetries = defaultMaxRetries
	}

	var lastErr error
	for i := 0; i < maxRetries; i++ {
		attempt := req.Clone(ctx)
		if req.GetBody != nil {
			body, err := req.GetBody()
			if err != nil {
				return nil, fmt.Errorf("failed to rewind request body: %w", err)
			}
			attempt.Body = body
		}

		resp, err := b.httpClient.Do(attempt)
		switch {
		case err != nil:
			lastErr = err
		case retryable(resp.StatusCode) && i < maxRetries-1:
			resp.Body.Close()
			lastErr = fmt.Errorf("status %d", resp.StatusCode)
		default:
			return resp, nil
		}

		if i < maxRetries-1 {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(b.backoff(i)):
			}
		}
	}

	return nil, fmt.Errorf("request failed after %d retries: %w", maxRetries, lastErr)
}

func retryable(status int) bool {
	return status == http.StatusTooManyRequests || status >= http.StatusInternalServerError
}

// Validate validates the provider configuration
func (b *BaseProvider) Validate() error {
	return b.config.Validate()
}

// IsAvailable checks if the provider is available (default implementation)
func (b *BaseProvider) IsAvailable(ctx context.Context) bool {
	return true
}

// statusError converts a non-200 answer into a ProviderError
func (b *BaseProvider) statusError(status int, body []byte) error {
	code := fmt.Sprintf("HTTP_%d", status)
	if status == http.StatusTooManyRequests {
		return &types.ProviderError{Provider: b.GetID(), Code: code, Message: string(body), Err: types.ErrProviderRateLimited}
	}
	return &types.ProviderError{Provider: b.GetID(), Code: code, Message: string(body)}
}
