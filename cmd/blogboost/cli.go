package main

import (
	"context"
	"io"
	"log/slog"
	"time"

	"github.com/alecthomas/kong"
	"github.com/fwojciec/blogboost"
	"github.com/fwojciec/blogboost/enhance"
)

// Dependencies holds all services and configuration for command execution.
type Dependencies struct {
	Ctx      context.Context
	Stdout   io.Writer
	Stderr   io.Writer
	Logger   *slog.Logger
	Enhancer *enhance.Enhancer
	Runs     blogboost.RunService
}

// CLI defines the command-line interface structure for Kong.
type CLI struct {
	Config   kong.ConfigFlag `help:"Load flag values from a YAML file" placeholder:"PATH"`
	LogLevel string          `name:"log-level" enum:"debug,info,warn,error" default:"info" env:"BLOGBOOST_LOG_LEVEL" help:"Log level (debug, info, warn, error)"`

	Enhance EnhanceCmd `cmd:"" help:"Enhance original articles and publish the rewrites"`
	History HistoryCmd `cmd:"" help:"List recent enhancement runs"`
}

// EnhanceCmd is the "enhance" subcommand.
type EnhanceCmd struct {
	StoreURL     string        `name:"store-url" env:"BLOGBOOST_STORE_URL" help:"Article store API root, e.g. http://localhost:8000/api"`
	StoreTimeout time.Duration `name:"store-timeout" default:"15s" help:"Article store request timeout"`

	GroqAPIKey   string        `name:"groq-api-key" env:"GROQ_API_KEY" help:"Groq API key (takes precedence over OpenAI)"`
	GroqBaseURL  string        `name:"groq-base-url" env:"GROQ_BASE_URL" default:"${groq_base_url}" help:"Groq OpenAI-compatible endpoint"`
	Model        string        `name:"model" env:"GROQ_MODEL" help:"Model override; replaces the Groq catalog ranking or --openai-model"`
	OpenAIAPIKey string        `name:"openai-api-key" env:"OPENAI_API_KEY" help:"OpenAI API key"`
	OpenAIModel  string        `name:"openai-model" env:"OPENAI_MODEL" default:"${openai_model}" help:"OpenAI model"`
	LLMTimeout   time.Duration `name:"llm-timeout" default:"60s" help:"Model request timeout"`
	MaxTokens    int           `name:"max-tokens" default:"1500" help:"Completion token limit"`
	Temperature  float64       `default:"0.7" help:"Sampling temperature"`

	SearchAPIKey  string        `name:"search-api-key" env:"SERPER_API_KEY" help:"Serper API key"`
	SearchURL     string        `name:"search-url" env:"SERPER_URL" default:"${search_url}" help:"Serper search endpoint"`
	SearchTimeout time.Duration `name:"search-timeout" default:"15s" help:"Search request timeout"`

	FetchTimeout time.Duration `name:"fetch-timeout" default:"10s" help:"Reference page fetch timeout"`
	UserAgent    string        `name:"user-agent" default:"${user_agent}" help:"User-Agent sent to reference pages"`
	Extractor    string        `enum:"readability,trafilatura" default:"readability" help:"Primary content extractor (readability, trafilatura)"`
	MaxChars     int           `name:"max-chars" default:"5000" help:"Character budget for extracted reference text"`
	Browser      bool          `help:"Render reference pages with headless Chrome"`
	Robots       bool          `default:"true" negatable:"" help:"Honor robots.txt on reference pages"`

	References int           `short:"r" default:"2" help:"References required per article"`
	MaxTargets int           `short:"n" name:"max-targets" default:"0" help:"Maximum articles per run (0 = unbounded)"`
	Delay      time.Duration `default:"0s" help:"Delay between articles"`
	Mode       string        `enum:"all,latest" default:"all" env:"BLOGBOOST_MODE" help:"Target selection (all, latest)"`
	Refresh    bool          `help:"Re-enhance covered articles, updating the existing rewrite"`
	DryRun     bool          `name:"dry-run" help:"Run everything except publication"`
	HistoryDB  string        `name:"history-db" env:"BLOGBOOST_HISTORY_DB" help:"SQLite database recording run history"`
}

// Config maps the flags onto a blogboost.Config.
func (c *EnhanceCmd) Config() blogboost.Config {
	cfg := blogboost.NewConfig()
	cfg.StoreURL = c.StoreURL
	cfg.StoreTimeout = c.StoreTimeout
	cfg.GroqAPIKey = c.GroqAPIKey
	cfg.GroqBaseURL = c.GroqBaseURL
	cfg.ModelOverride = c.Model
	cfg.OpenAIAPIKey = c.OpenAIAPIKey
	cfg.OpenAIModel = c.OpenAIModel
	cfg.LLMTimeout = c.LLMTimeout
	cfg.MaxTokens = c.MaxTokens
	cfg.Temperature = c.Temperature
	cfg.SearchAPIKey = c.SearchAPIKey
	cfg.SearchURL = c.SearchURL
	cfg.SearchTimeout = c.SearchTimeout
	cfg.FetchTimeout = c.FetchTimeout
	cfg.UserAgent = c.UserAgent
	cfg.ExtractMaxChars = c.MaxChars
	cfg.ReferenceCount = c.References
	cfg.MaxTargets = c.MaxTargets
	cfg.TargetDelay = c.Delay
	cfg.Mode = blogboost.SelectionMode(c.Mode)
	cfg.Refresh = c.Refresh
	cfg.DryRun = c.DryRun
	return cfg
}

// HistoryCmd is the "history" subcommand.
type HistoryCmd struct {
	HistoryDB string `name:"history-db" env:"BLOGBOOST_HISTORY_DB" required:"" help:"SQLite database recording run history"`
	ID        string `arg:"" optional:"" help:"Show a single run"`
	Provider  string `help:"Only runs using this provider"`
	Limit     int    `short:"n" default:"10" help:"Maximum runs to show"`
	Verbose   bool   `short:"v" help:"Show per-article outcomes"`
}

// vars provides defaults shared with blogboost.Config.
func vars() kong.Vars {
	return kong.Vars{
		"groq_base_url": blogboost.DefaultGroqBaseURL,
		"openai_model":  blogboost.DefaultOpenAIModel,
		"search_url":    blogboost.DefaultSearchURL,
		"user_agent":    blogboost.DefaultUserAgent,
	}
}
