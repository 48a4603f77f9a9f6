package main

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/fwojciec/blogboost"
	"github.com/fwojciec/blogboost/enhance"
)

// Run executes the enhance command.
func (c *EnhanceCmd) Run(deps *Dependencies) error {
	e := deps.Enhancer
	e.Progress = func(tr blogboost.TargetReport) {
		printTarget(deps.Stdout, tr)
	}

	report, err := e.Run(deps.Ctx)
	printSummary(deps.Stdout, report)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", blogboost.ErrorMessage(err))
		return err
	}
	if n := report.Count(blogboost.StatusPublishFailed); n > 0 {
		return fmt.Errorf("%d article(s) failed to publish", n)
	}
	return nil
}

func printTarget(w io.Writer, tr blogboost.TargetReport) {
	fmt.Fprintf(w, "[%s] %s %q", tr.Status, tr.ArticleID, tr.Title)
	if tr.Slug != "" {
		fmt.Fprintf(w, " -> %s", tr.Slug)
	}
	if tr.GeneratedID != "" {
		fmt.Fprintf(w, " (id %s)", tr.GeneratedID)
	}
	if tr.Reason != "" {
		fmt.Fprintf(w, ": %s", tr.Reason)
	}
	fmt.Fprintln(w)
	for _, ref := range tr.References {
		fmt.Fprintf(w, "    ref %s\n", enhance.TruncateURL(ref, 72))
	}
}

func printSummary(w io.Writer, report *blogboost.RunReport) {
	if report == nil {
		return
	}
	skipped := report.Count(blogboost.StatusSkippedAlreadyEnhanced) +
		report.Count(blogboost.StatusSkippedInsufficientReferences) +
		report.Count(blogboost.StatusSkippedEnhancementFailed)

	parts := []string{
		fmt.Sprintf("%d published", report.Count(blogboost.StatusPublished)),
	}
	if n := report.Count(blogboost.StatusUpdated); n > 0 {
		parts = append(parts, fmt.Sprintf("%d updated", n))
	}
	if n := report.Count(blogboost.StatusDryRun); n > 0 {
		parts = append(parts, fmt.Sprintf("%d dry-run", n))
	}
	parts = append(parts,
		fmt.Sprintf("%d skipped", skipped),
		fmt.Sprintf("%d failed", report.Count(blogboost.StatusPublishFailed)),
	)

	outcome := "ok"
	if !report.OK() {
		outcome = "failed"
	}
	fmt.Fprintf(w, "Run %s %s: %s (%s)\n", report.ID, outcome, strings.Join(parts, ", "),
		report.FinishedAt.Sub(report.StartedAt).Round(time.Millisecond))
}
