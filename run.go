package blogboost

import (
	"context"
	"time"
)

// TargetStatus is the outcome of processing one original article.
type TargetStatus string

// Target outcomes reported at the end of a run.
const (
	StatusPublished                     TargetStatus = "published"
	StatusUpdated                       TargetStatus = "updated"
	StatusDryRun                        TargetStatus = "dry-run"
	StatusSkippedAlreadyEnhanced        TargetStatus = "skipped-already-enhanced"
	StatusSkippedInsufficientReferences TargetStatus = "skipped-insufficient-references"
	StatusSkippedEnhancementFailed      TargetStatus = "skipped-enhancement-failed"
	StatusPublishFailed                 TargetStatus = "publish-failed"
)

// Failed reports whether the status counts as a failure in the run summary.
func (s TargetStatus) Failed() bool {
	return s == StatusPublishFailed
}

// TargetReport records what happened to a single original article.
type TargetReport struct {
	ArticleID   ArticleID    `json:"articleId"`
	Title       string       `json:"title"`
	Status      TargetStatus `json:"status"`
	Reason      string       `json:"reason,omitempty"`
	Slug        string       `json:"slug,omitempty"`
	GeneratedID ArticleID    `json:"generatedId,omitempty"`
	References  []string     `json:"references,omitempty"`
	ContentHash string       `json:"contentHash,omitempty"`
}

// RunReport summarizes one enhancement run.
type RunReport struct {
	ID         string         `json:"id"`
	Mode       SelectionMode  `json:"mode"`
	Provider   string         `json:"provider"`
	StartedAt  time.Time      `json:"startedAt"`
	FinishedAt time.Time      `json:"finishedAt"`
	Targets    []TargetReport `json:"targets"`

	// Err is the error that stopped the run early, if any.
	Err string `json:"error,omitempty"`
}

// Count returns the number of targets with the given status.
func (r *RunReport) Count(status TargetStatus) int {
	var n int
	for _, t := range r.Targets {
		if t.Status == status {
			n++
		}
	}
	return n
}

// OK reports whether the run completed without stopping early and without
// failed publications.
func (r *RunReport) OK() bool {
	if r.Err != "" {
		return false
	}
	for _, t := range r.Targets {
		if t.Status.Failed() {
			return false
		}
	}
	return true
}

// RunFilter represents a filter for FindRuns.
type RunFilter struct {
	ID       *string `json:"id"`
	Provider *string `json:"provider"`

	Offset int `json:"offset"`
	Limit  int `json:"limit"`
}

// RunService persists run reports for later inspection.
type RunService interface {
	// CreateRun stores a completed run and its target reports.
	CreateRun(ctx context.Context, report *RunReport) error

	// FindRuns retrieves runs matching the filter, newest first.
	FindRuns(ctx context.Context, filter RunFilter) ([]*RunReport, error)
}
