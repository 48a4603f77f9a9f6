package blogboost

import (
	"net/url"
	"time"
)

// SelectionMode controls which originals a run targets.
type SelectionMode string

// Selection modes. SelectLatest targets the newest uncovered original by
// publication time, then by numeric ID, so it does not depend on the store
// honoring the requested order.
const (
	SelectAll    SelectionMode = "all"
	SelectLatest SelectionMode = "latest"
)

// Provider identifies one of the supported LLM providers.
type Provider string

// Supported providers.
const (
	ProviderNone   Provider = ""
	ProviderGroq   Provider = "groq"
	ProviderOpenAI Provider = "openai"
)

// Defaults for Config.
const (
	DefaultReferenceCount  = 2
	DefaultExtractMaxChars = 5000
	DefaultMaxTokens       = 1500
	DefaultTemperature     = 0.7
	DefaultGroqBaseURL     = "https://api.groq.com/openai/v1"
	DefaultOpenAIModel     = "gpt-3.5-turbo"
	DefaultSearchURL       = "https://google.serper.dev/search"
	DefaultFetchTimeout    = 10 * time.Second
	DefaultSearchTimeout   = 15 * time.Second
	DefaultStoreTimeout    = 15 * time.Second
	DefaultLLMTimeout      = 60 * time.Second
)

// Config holds everything a run needs. It is built once at startup and
// passed to the components that need it.
type Config struct {
	// StoreURL is the article store API root, e.g. http://localhost:8000/api.
	StoreURL     string
	StoreTimeout time.Duration

	GroqAPIKey    string
	GroqBaseURL   string
	OpenAIAPIKey  string
	OpenAIModel   string
	ModelOverride string
	LLMTimeout    time.Duration
	MaxTokens     int
	Temperature   float64

	SearchAPIKey  string
	SearchURL     string
	SearchTimeout time.Duration

	FetchTimeout    time.Duration
	UserAgent       string
	ExtractMaxChars int

	ReferenceCount int
	MaxTargets     int
	TargetDelay    time.Duration
	Mode           SelectionMode

	// Refresh re-enhances covered originals, updating the existing
	// generated article instead of skipping.
	Refresh bool

	// DryRun runs everything except publication.
	DryRun bool
}

// NewConfig returns a Config populated with defaults.
func NewConfig() Config {
	return Config{
		StoreTimeout:    DefaultStoreTimeout,
		GroqBaseURL:     DefaultGroqBaseURL,
		OpenAIModel:     DefaultOpenAIModel,
		LLMTimeout:      DefaultLLMTimeout,
		MaxTokens:       DefaultMaxTokens,
		Temperature:     DefaultTemperature,
		SearchURL:       DefaultSearchURL,
		SearchTimeout:   DefaultSearchTimeout,
		FetchTimeout:    DefaultFetchTimeout,
		UserAgent:       DefaultUserAgent,
		ExtractMaxChars: DefaultExtractMaxChars,
		ReferenceCount:  DefaultReferenceCount,
		Mode:            SelectAll,
	}
}

// DefaultUserAgent identifies the pipeline to third-party sites.
const DefaultUserAgent = "blogboost/1.0 (+https://github.com/fwojciec/blogboost)"

// Provider returns the configured LLM provider. Groq takes precedence when
// both credentials are set.
func (c *Config) Provider() Provider {
	switch {
	case c.GroqAPIKey != "":
		return ProviderGroq
	case c.OpenAIAPIKey != "":
		return ProviderOpenAI
	default:
		return ProviderNone
	}
}

// FixedModel returns the model used by a provider without a model catalog:
// the override when set, the configured OpenAI model otherwise.
func (c *Config) FixedModel() string {
	if c.ModelOverride != "" {
		return c.ModelOverride
	}
	return c.OpenAIModel
}

// Validate returns EINVALID if a required setting is missing or malformed.
func (c *Config) Validate() error {
	if c.StoreURL == "" {
		return Errorf(EINVALID, "article store URL required")
	}
	if u, err := url.Parse(c.StoreURL); err != nil || u.Host == "" || (u.Scheme != "http" && u.Scheme != "https") {
		return Errorf(EINVALID, "invalid article store URL %q", c.StoreURL)
	}
	if c.Provider() == ProviderNone {
		return Errorf(EINVALID, "GROQ_API_KEY or OPENAI_API_KEY required")
	}
	if c.SearchAPIKey == "" {
		return Errorf(EINVALID, "search API key required")
	}
	if c.ReferenceCount < 1 {
		return Errorf(EINVALID, "reference count must be at least 1")
	}
	if c.ExtractMaxChars < 1 {
		return Errorf(EINVALID, "extraction character budget must be positive")
	}
	if c.MaxTargets < 0 {
		return Errorf(EINVALID, "max targets must not be negative")
	}
	if c.TargetDelay < 0 {
		return Errorf(EINVALID, "target delay must not be negative")
	}
	switch c.Mode {
	case SelectAll, SelectLatest:
	default:
		return Errorf(EINVALID, "unknown selection mode %q", c.Mode)
	}
	return nil
}
