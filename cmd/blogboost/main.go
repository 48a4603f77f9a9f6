package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"

	"github.com/alecthomas/kong"
	"github.com/fwojciec/blogboost"
	"github.com/fwojciec/blogboost/enhance"
	"github.com/fwojciec/blogboost/goquery"
	bbhttp "github.com/fwojciec/blogboost/http"
	"github.com/fwojciec/blogboost/openai"
	"github.com/fwojciec/blogboost/readability"
	"github.com/fwojciec/blogboost/rod"
	"github.com/fwojciec/blogboost/serper"
	bbslog "github.com/fwojciec/blogboost/slog"
	"github.com/fwojciec/blogboost/sqlite"
	"github.com/fwojciec/blogboost/trafilatura"
)

func main() {
	ctx := context.Background()

	m := NewMain()

	if err := m.Run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// Main represents the program.
type Main struct {
	// SQLite database holding run history, opened when a history path is set.
	DB *sqlite.DB

	// Headless browser used for reference pages when --browser is set.
	Browser *rod.Fetcher

	// ConfigPaths are YAML files read for flag defaults when present.
	ConfigPaths []string
}

// NewMain returns a new instance of Main with defaults.
func NewMain() *Main {
	return &Main{
		ConfigPaths: []string{"blogboost.yaml", "~/.config/blogboost/config.yaml"},
	}
}

// Close gracefully stops the program.
func (m *Main) Close() error {
	var errs []error
	if m.Browser != nil {
		errs = append(errs, m.Browser.Close())
	}
	if m.DB != nil {
		errs = append(errs, m.DB.Close())
	}
	return errors.Join(errs...)
}

// Run executes the CLI with the given arguments.
func (m *Main) Run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	deps := &Dependencies{
		Ctx:    ctx,
		Stdout: stdout,
		Stderr: stderr,
	}

	cli := &CLI{}
	parser, err := kong.New(cli,
		kong.Name("blogboost"),
		kong.Description("Rewrite scraped articles with web references and publish the results"),
		kong.Writers(stdout, stderr),
		kong.Exit(func(int) {}),
		kong.Configuration(YAMLLoader, m.ConfigPaths...),
		vars(),
		kong.Bind(deps),
	)
	if err != nil {
		return fmt.Errorf("failed to create parser: %w", err)
	}

	if len(args) == 0 {
		_, _ = parser.Parse([]string{"--help"})
		return fmt.Errorf("no command specified. Run 'blogboost --help' to see available commands")
	}

	cmd := args[0]
	if cmd == "help" || cmd == "--help" || cmd == "-h" {
		_, _ = parser.Parse([]string{"--help"})
		return nil
	}

	kongCtx, err := parser.Parse(args)
	if err != nil {
		return err
	}

	deps.Logger = newLogger(stderr, cli.LogLevel)
	defer m.Close()

	switch kongCtx.Command() {
	case "enhance":
		if err := m.wireEnhance(deps, &cli.Enhance); err != nil {
			return err
		}
	case "history", "history <id>":
		if err := m.openHistory(cli.History.HistoryDB, deps); err != nil {
			return err
		}
	}

	return kongCtx.Run(deps)
}

// wireEnhance validates the configuration and builds the enhancement pipeline.
func (m *Main) wireEnhance(deps *Dependencies, c *EnhanceCmd) error {
	cfg := c.Config()
	if err := cfg.Validate(); err != nil {
		fmt.Fprintln(deps.Stderr, "Hint: set BLOGBOOST_STORE_URL, SERPER_API_KEY and GROQ_API_KEY or OPENAI_API_KEY")
		return fmt.Errorf("invalid configuration: %s", blogboost.ErrorMessage(err))
	}
	logger := deps.Logger

	var fetcher blogboost.Fetcher = bbhttp.NewFetcher(
		bbhttp.WithTimeout(cfg.FetchTimeout),
		bbhttp.WithUserAgent(cfg.UserAgent),
	)
	if c.Browser {
		browser, err := rod.NewFetcher(
			rod.WithUserAgent(cfg.UserAgent),
			rod.WithPageTimeout(cfg.FetchTimeout),
		)
		if err != nil {
			fmt.Fprintln(deps.Stderr, "Hint: install Chrome or Chromium, or drop --browser")
			return err
		}
		m.Browser = browser
		fetcher = browser
	}
	if c.Robots {
		fetcher = bbhttp.NewRobotsFetcher(fetcher, &http.Client{Timeout: cfg.FetchTimeout})
	}
	fetcher = bbslog.NewLoggingFetcher(fetcher, logger)

	var primary blogboost.Extractor = readability.NewExtractor()
	if c.Extractor == "trafilatura" {
		primary = trafilatura.NewExtractor()
	}

	var searcher blogboost.Searcher = serper.NewSearcher(cfg.SearchAPIKey, cfg.SearchURL,
		&http.Client{Timeout: cfg.SearchTimeout})
	searcher = bbslog.NewLoggingSearcher(searcher, logger)

	var articles blogboost.ArticleService = bbhttp.NewArticleService(cfg.StoreURL,
		&http.Client{Timeout: cfg.StoreTimeout})
	articles = bbslog.NewLoggingArticleService(articles, logger)

	provider := newProvider(cfg, logger)

	deps.Enhancer = &enhance.Enhancer{
		Articles: articles,
		Finder:   &enhance.Discoverer{Searcher: searcher},
		Extractor: &enhance.ContentExtractor{
			Fetcher:  fetcher,
			Primary:  primary,
			Fallback: goquery.NewExtractor(),
			MaxChars: cfg.ExtractMaxChars,
		},
		Rewriter: enhance.NewRewriter(bbslog.NewLoggingModelProvider(provider, logger), cfg, logger),
		Config:   cfg,
		Provider: provider.Name(),
		Logger:   logger,
	}

	if c.HistoryDB != "" {
		if err := m.openHistory(c.HistoryDB, deps); err != nil {
			return err
		}
		deps.Enhancer.Runs = deps.Runs
	}
	return nil
}

// newProvider returns the configured model provider. Groq wins when both
// credentials are set.
func newProvider(cfg blogboost.Config, logger *slog.Logger) blogboost.ModelProvider {
	if cfg.Provider() == blogboost.ProviderGroq {
		opts := []openai.Option{
			openai.WithBaseURL(cfg.GroqBaseURL),
			openai.WithTimeout(cfg.LLMTimeout),
			openai.WithLogger(logger),
		}
		if cfg.ModelOverride != "" {
			opts = append(opts, openai.WithModelOverride(cfg.ModelOverride))
		}
		return openai.NewCatalogProvider(string(blogboost.ProviderGroq), cfg.GroqAPIKey, opts...)
	}
	return openai.NewFixedProvider(string(blogboost.ProviderOpenAI), cfg.OpenAIAPIKey, cfg.FixedModel(),
		openai.WithTimeout(cfg.LLMTimeout),
		openai.WithLogger(logger),
	)
}

func (m *Main) openHistory(path string, deps *Dependencies) error {
	m.DB = sqlite.NewDB(path)
	if err := m.DB.Open(); err != nil {
		fmt.Fprintf(deps.Stderr, "Hint: set BLOGBOOST_HISTORY_DB to use a different database path\n")
		return fmt.Errorf("failed to open history database at %q: %w", path, err)
	}
	deps.Runs = sqlite.NewRunService(m.DB)
	return nil
}

func newLogger(w io.Writer, level string) *slog.Logger {
	var l slog.Level
	if err := l.UnmarshalText([]byte(level)); err != nil {
		l = slog.LevelInfo
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: l}))
}
