package http

import (
	"fmt"
	"net/http"
	"net/url"
	"time"
)

// NewHTTPClient creates a new HTTP client with the specified timeout.
// A non-empty proxy routes every request through it (http, https or socks5).
func NewHTTPClient(timeout time.Duration, proxy string) (*http.Client, error) {
	transport := &http.Transport{
		Proxy:               http.ProxyFromEnvironment,
		MaxIdleConns:        100,
		MaxIdleConnsPerHost: 10,
		IdleConnTimeout:     90 * time.Second,
	}

	if proxy != "" {
		u, err := url.Parse(proxy)
		if err != nil || u.Host == "" {
			return nil, fmt.Errorf("invalid proxy %q", proxy)
		}
		transport.Proxy = http.ProxyURL(u)
	}

	return &http.Client{
		Timeout:   timeout,
		Transport: transport,
	}, nil
}
