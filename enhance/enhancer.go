// Package enhance implements the article enhancement pipeline: reference
// discovery, reference extraction, model rewriting and publication of the
// generated article back to the store.
package enhance

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/fwojciec/blogboost"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"
)

// ExtractConcurrency bounds concurrent reference extraction per target.
const ExtractConcurrency = 2

// ProgressFunc is called with each target report as soon as it is final.
type ProgressFunc func(report blogboost.TargetReport)

// Enhancer orchestrates one enhancement run over the article store.
type Enhancer struct {
	Articles  blogboost.ArticleService
	Finder    blogboost.ReferenceFinder
	Extractor blogboost.ContentExtractor
	Rewriter  blogboost.Rewriter

	// Runs stores the run report when set.
	Runs blogboost.RunService

	Config blogboost.Config

	// Provider tags generated slugs and the run report.
	Provider string

	Logger   *slog.Logger
	Progress ProgressFunc

	// Now and NewID default to time.Now and uuid.NewString.
	Now   func() time.Time
	NewID func() string
}

// target is an original selected for enhancement. existing is the generated
// article to update in refresh mode.
type target struct {
	original *blogboost.Article
	existing *blogboost.Article
}

// Run performs one enhancement run. Targets are processed sequentially.
// The returned report is never nil; when the run stops early, the report
// covers the targets processed so far and the error is returned as well.
func (e *Enhancer) Run(ctx context.Context) (*blogboost.RunReport, error) {
	report := &blogboost.RunReport{
		ID:        e.newID(),
		Mode:      e.Config.Mode,
		Provider:  e.Provider,
		StartedAt: e.now(),
	}

	err := e.run(ctx, report)
	report.FinishedAt = e.now()
	if err != nil {
		report.Err = blogboost.ErrorMessage(err)
	}

	if e.Runs != nil {
		if serr := e.Runs.CreateRun(ctx, report); serr != nil {
			e.logger().Warn("failed to store run history", "run", report.ID, "err", serr)
		}
	}
	return report, err
}

func (e *Enhancer) run(ctx context.Context, report *blogboost.RunReport) error {
	filter := blogboost.ArticleFilter{}
	if e.Config.Mode == blogboost.SelectLatest {
		filter.Order = blogboost.OrderLatest
	}
	articles, err := e.Articles.FindArticles(ctx, filter)
	if err != nil {
		return fmt.Errorf("list articles: %w", err)
	}

	targets := e.selectTargets(articles, report)
	e.logger().Info("starting enhancement run",
		"run", report.ID,
		"mode", e.Config.Mode,
		"provider", e.Provider,
		"articles", len(articles),
		"targets", len(targets),
	)

	var limiter *rate.Limiter
	if e.Config.TargetDelay > 0 {
		limiter = rate.NewLimiter(rate.Every(e.Config.TargetDelay), 1)
	}

	for _, t := range targets {
		if limiter != nil {
			if err := limiter.Wait(ctx); err != nil {
				return err
			}
		}

		tr, err := e.processTarget(ctx, t)
		e.record(report, tr)
		if err != nil {
			return err
		}
	}
	return nil
}

// selectTargets picks the originals to enhance and reports covered originals
// as already enhanced unless refreshing. Latest mode picks the newest
// uncovered original.
func (e *Enhancer) selectTargets(articles []*blogboost.Article, report *blogboost.RunReport) []target {
	covered := blogboost.NewEnhancedSet(articles)

	var targets []target
	for _, a := range articles {
		if a.IsGenerated {
			continue
		}
		existing := covered.Generated(a.ID)
		if existing != nil && !e.Config.Refresh {
			e.record(report, blogboost.TargetReport{
				ArticleID:   a.ID,
				Title:       a.Title,
				Status:      blogboost.StatusSkippedAlreadyEnhanced,
				Slug:        existing.Slug,
				GeneratedID: existing.ID,
			})
			continue
		}

		t := target{original: a, existing: existing}
		if e.Config.Mode == blogboost.SelectLatest {
			if len(targets) == 0 {
				targets = append(targets, t)
			} else if blogboost.Newer(a, targets[0].original) {
				targets[0] = t
			}
			continue
		}

		targets = append(targets, t)
		if e.Config.MaxTargets > 0 && len(targets) == e.Config.MaxTargets {
			break
		}
	}
	return targets
}

// processTarget enhances a single original. A non-nil error stops the run.
func (e *Enhancer) processTarget(ctx context.Context, t target) (blogboost.TargetReport, error) {
	a := t.original
	tr := blogboost.TargetReport{ArticleID: a.ID, Title: a.Title}
	log := e.logger().With("article", a.ID)

	candidates, err := e.Finder.Discover(ctx, a.Title, a.SourceURL, e.Config.ReferenceCount)
	if err != nil {
		log.Warn("reference discovery failed", "err", err)
		tr.Status = blogboost.StatusSkippedInsufficientReferences
		tr.Reason = blogboost.ErrorMessage(err)
		return tr, nil
	}
	if len(candidates) < e.Config.ReferenceCount {
		log.Info("not enough references", "found", len(candidates), "required", e.Config.ReferenceCount)
		tr.Status = blogboost.StatusSkippedInsufficientReferences
		tr.Reason = fmt.Sprintf("found %d of %d references", len(candidates), e.Config.ReferenceCount)
		return tr, nil
	}

	refs := e.extractReferences(ctx, candidates)
	for _, ref := range refs {
		tr.References = append(tr.References, ref.URL)
	}

	content, err := e.Rewriter.Rewrite(ctx, a, refs)
	if err != nil {
		tr.Status = blogboost.StatusSkippedEnhancementFailed
		tr.Reason = blogboost.ErrorMessage(err)
		switch blogboost.ErrorCode(err) {
		case blogboost.EUNAVAILABLE:
			log.Warn("enhancement failed", "err", err)
			return tr, nil
		case blogboost.EQUOTA:
			log.Error("provider quota exceeded, stopping run", "err", err)
			return tr, err
		default:
			return tr, fmt.Errorf("rewrite article %s: %w", a.ID, err)
		}
	}
	content = EnsureReferences(content, refs)

	now := e.now()
	originalID := a.ID
	generated := &blogboost.Article{
		Title:             EnhancedTitle(a.Title),
		Content:           content,
		SourceURL:         a.SourceURL,
		IsGenerated:       true,
		OriginalArticleID: &originalID,
		PublishedAt:       &now,
	}
	if t.existing != nil && t.existing.Slug != "" {
		generated.Slug = t.existing.Slug
	} else {
		generated.Slug = GenerateSlug(generated.Title, e.Provider, now.Unix())
	}
	tr.Slug = generated.Slug
	tr.ContentHash = ComputeHash(content)

	if e.Config.DryRun {
		tr.Status = blogboost.StatusDryRun
		return tr, nil
	}

	var stored *blogboost.Article
	if t.existing != nil {
		stored, err = e.Articles.UpdateArticle(ctx, t.existing.ID, generated)
		tr.Status = blogboost.StatusUpdated
	} else {
		stored, err = e.Articles.CreateArticle(ctx, generated)
		tr.Status = blogboost.StatusPublished
	}
	if err != nil {
		log.Error("publish failed", "slug", generated.Slug, "err", err)
		tr.Status = blogboost.StatusPublishFailed
		tr.Reason = blogboost.ErrorMessage(err)
		return tr, nil
	}
	if stored != nil {
		tr.GeneratedID = stored.ID
	}
	log.Info("article enhanced", "status", tr.Status, "slug", tr.Slug, "generated", tr.GeneratedID)
	return tr, nil
}

// extractReferences extracts every candidate with bounded concurrency.
// A failed extraction degrades to the candidate title with empty content.
func (e *Enhancer) extractReferences(ctx context.Context, candidates []blogboost.SearchResult) []blogboost.Reference {
	refs := make([]blogboost.Reference, len(candidates))

	var g errgroup.Group
	g.SetLimit(ExtractConcurrency)
	for i, c := range candidates {
		g.Go(func() error {
			ref := blogboost.Reference{Title: c.Title, URL: c.Link}
			result, err := e.Extractor.ExtractURL(ctx, c.Link)
			if err != nil {
				e.logger().Warn("reference extraction failed", "url", c.Link, "err", err)
			} else if result != nil {
				ref.Content = result.Text
				if ref.Title == "" {
					ref.Title = result.Title
				}
			}
			refs[i] = ref
			return nil
		})
	}
	_ = g.Wait()
	return refs
}

func (e *Enhancer) record(report *blogboost.RunReport, tr blogboost.TargetReport) {
	report.Targets = append(report.Targets, tr)
	if e.Progress != nil {
		e.Progress(tr)
	}
}

func (e *Enhancer) now() time.Time {
	if e.Now != nil {
		return e.Now()
	}
	return time.Now()
}

func (e *Enhancer) newID() string {
	if e.NewID != nil {
		return e.NewID()
	}
	return uuid.NewString()
}

func (e *Enhancer) logger() *slog.Logger {
	if e.Logger != nil {
		return e.Logger
	}
	return slog.New(slog.DiscardHandler)
}
