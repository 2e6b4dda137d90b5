package tips

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/sashabaranov/go-openai"
	"go.uber.org/zap"

	analysis "github.com/lk2023060901/osint-analysis-backend/internal/analysis/types"
	"github.com/lk2023060901/osint-analysis-backend/internal/pkg/logger"
)

// Advice sources
const (
	SourceCatalog = "catalog"
	SourceModel   = "model"
)

// Advice is what the tips endpoint returns
type Advice struct {
	Source   string    `json:"source"`
	Contexts []Context `json:"contexts"`
	Tips     []Tip     `json:"tips"`
	// Generated holds the model's free-text tip, if one was produced
	Generated string `json:"generated,omitempty"`
}

// Advisor turns a summary into advice. It never fails; errors degrade to the catalog.
type Advisor interface {
	Advise(ctx context.Context, s analysis.AggregateSummary) Advice
}

// Config OpenAI 兼容接口配置
type Config struct {
	APIKey    string        `mapstructure:"api_key"`
	BaseURL   string        `mapstructure:"base_url"`
	Model     string        `mapstructure:"model"`
	MaxTokens int           `mapstructure:"max_tokens"`
	Timeout   time.Duration `mapstructure:"timeout"`
}

// CatalogAdvisor answers from the static catalog only
type CatalogAdvisor struct{}

func (CatalogAdvisor) Advise(_ context.Context, s analysis.AggregateSummary) Advice {
	return Advice{Source: SourceCatalog, Contexts: Contexts(s), Tips: Select(s)}
}

// NewAdvisor returns a model-backed advisor when an API key is configured,
// otherwise the catalog advisor
func NewAdvisor(cfg *Config, log *logger.Logger) Advisor {
	if cfg == nil || cfg.APIKey == "" {
		return CatalogAdvisor{}
	}
	return NewOpenAIAdvisor(cfg, log)
}

// OpenAIAdvisor asks a chat model for one extra tip on top of the catalog
type OpenAIAdvisor struct {
	client    *openai.Client
	model     string
	maxTokens int
	timeout   time.Duration
	logger    *logger.Logger
}

// NewOpenAIAdvisor 创建 OpenAI Advisor
func NewOpenAIAdvisor(cfg *Config, log *logger.Logger) *OpenAIAdvisor {
	if log == nil {
		log = logger.L()
	}

	clientCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = cfg.BaseURL
	}

	a := &OpenAIAdvisor{
		client:    openai.NewClientWithConfig(clientCfg),
		model:     cfg.Model,
		maxTokens: cfg.MaxTokens,
		timeout:   cfg.Timeout,
		logger:    log.Named("tips"),
	}
	if a.model == "" {
		a.model = openai.GPT4oMini
	}
	if a.maxTokens <= 0 {
		a.maxTokens = 200
	}
	if a.timeout <= 0 {
		a.timeout = 15 * time.Second
	}

	a.logger.Info("openai advisor created", zap.String("model", a.model))
	return a
}

func (a *OpenAIAdvisor) Advise(ctx context.Context, s analysis.AggregateSummary) Advice {
	advice := CatalogAdvisor{}.Advise(ctx, s)
	if s.Total == 0 {
		return advice
	}

	ctx, cancel := context.WithTimeout(ctx, a.timeout)
	defer cancel()

	resp, err := a.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:     a.model,
		MaxTokens: a.maxTokens,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: describe(s)},
		},
	})
	if err != nil {
		a.logger.WithContext(ctx).Warn("tip generation failed, using catalog", zap.Error(err))
		return advice
	}
	if len(resp.Choices) == 0 || strings.TrimSpace(resp.Choices[0].Message.Content) == "" {
		a.logger.WithContext(ctx).Warn("tip generation returned no content, using catalog")
		return advice
	}

	advice.Source = SourceModel
	advice.Generated = strings.TrimSpace(resp.Choices[0].Message.Content)
	return advice
}

const systemPrompt = "You assist an open-source intelligence analyst. " +
	"Given statistics about search results for one investigation, reply with a single short, " +
	"practical next step. Do not speculate about the person."

// describe renders the summary as plain text. Only counts and domains are sent.
func describe(s analysis.AggregateSummary) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Total results: %d\n", s.Total)

	b.WriteString("By risk:")
	for _, r := range analysis.RiskLevels {
		fmt.Fprintf(&b, " %s=%d", r, s.ByRisk[r])
	}
	b.WriteString("\nBy category:")
	for _, c := range analysis.Categories {
		if n := s.ByCategory[c]; n > 0 {
			fmt.Fprintf(&b, " %s=%d", c, n)
		}
	}
	b.WriteString("\nTop domains:")
	for _, d := range s.TopDomains {
		fmt.Fprintf(&b, " %s(%d)", d.Domain, d.Count)
	}
	b.WriteString("\nEngines used: ")
	b.WriteString(fmt.Sprint(len(s.ByEngine)))
	return b.String()
}
