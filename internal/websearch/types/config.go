package types

type ProviderID string

const (
	ProviderTavily  ProviderID = "tavily"
	ProviderSearXNG ProviderID = "searxng"
)

// ProviderConfig represents search provider configuration
type ProviderConfig struct {
	ID   ProviderID `json:"id" mapstructure:"id"`
	Name string     `json:"name" mapstructure:"name"`

	// API settings
	APIHost string `json:"api_host" mapstructure:"api_host"`
	APIKey  string `json:"api_key,omitempty" mapstructure:"api_key"`

	// SearXNG Basic Auth
	BasicAuthUsername string `json:"basic_auth_username,omitempty" mapstructure:"basic_auth_username"`
	BasicAuthPassword string `json:"basic_auth_password,omitempty" mapstructure:"basic_auth_password"`

	// SearXNG engines to query, empty means the instance defaults
	Engines []string `json:"engines,omitempty" mapstructure:"engines"`

	// Optional settings
	Proxy      string `json:"proxy,omitempty" mapstructure:"proxy"`             // e.g. socks5://127.0.0.1:9050
	Timeout    int    `json:"timeout,omitempty" mapstructure:"timeout"`         // seconds
	MaxRetries int    `json:"max_retries,omitempty" mapstructure:"max_retries"` // default: 3
	Enabled    *bool  `json:"enabled,omitempty" mapstructure:"enabled"`
}

// IsEnabled reports whether the provider should be built, true unless disabled explicitly
func (c *ProviderConfig) IsEnabled() bool {
	return c.Enabled == nil || *c.Enabled
}

// Validate validates the provider configuration
func (c *ProviderConfig) Validate() error {
	if c.ID == "" {
		return ErrInvalidProviderID
	}
	if c.Name == "" {
		return ErrInvalidProviderName
	}
	if c.APIHost == "" {
		return ErrInvalidAPIHost
	}

	switch c.ID {
	case ProviderSearXNG:
		// SearXNG doesn't require API key but may need basic auth
		if c.BasicAuthUsername != "" && c.BasicAuthPassword == "" {
			return ErrMissingBasicAuthPassword
		}
	default:
		if c.APIKey == "" {
			return ErrMissingAPIKey
		}
	}

	return nil
}
