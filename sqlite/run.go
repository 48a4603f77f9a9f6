package sqlite

import (
	"context"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/fwojciec/blogboost"
	"github.com/google/uuid"
)

// Compile-time interface verification.
var _ blogboost.RunService = (*RunService)(nil)

// RunService implements blogboost.RunService using SQLite.
type RunService struct {
	db *DB
}

// NewRunService creates a new RunService.
func NewRunService(db *DB) *RunService {
	return &RunService{db: db}
}

// CreateRun stores a run and its target reports in one transaction.
// A missing run ID is generated.
func (s *RunService) CreateRun(ctx context.Context, report *blogboost.RunReport) error {
	if report == nil {
		return blogboost.Errorf(blogboost.EINVALID, "run report required")
	}
	if report.ID == "" {
		report.ID = uuid.New().String()
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	query, args, err := sq.Insert("runs").
		Columns("id", "mode", "provider", "error", "started_at", "finished_at").
		Values(report.ID, string(report.Mode), report.Provider, report.Err,
			formatTime(report.StartedAt), formatTime(report.FinishedAt)).
		ToSql()
	if err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("insert run: %w", err)
	}

	if len(report.Targets) > 0 {
		insert := sq.Insert("run_targets").
			Columns("run_id", "position", "article_id", "title", "status", "reason",
				"slug", "generated_id", "refs", "content_hash")
		for i, t := range report.Targets {
			insert = insert.Values(report.ID, i, string(t.ArticleID), t.Title, string(t.Status), t.Reason,
				t.Slug, string(t.GeneratedID), joinLines(t.References), t.ContentHash)
		}
		query, args, err := insert.ToSql()
		if err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("insert run targets: %w", err)
		}
	}

	return tx.Commit()
}

// FindRuns retrieves runs matching the filter, newest first.
func (s *RunService) FindRuns(ctx context.Context, filter blogboost.RunFilter) ([]*blogboost.RunReport, error) {
	builder := sq.Select("id", "mode", "provider", "error", "started_at", "finished_at").
		From("runs").
		OrderBy("started_at DESC", "id")
	if filter.ID != nil {
		builder = builder.Where(sq.Eq{"id": *filter.ID})
	}
	if filter.Provider != nil {
		builder = builder.Where(sq.Eq{"provider": *filter.Provider})
	}
	if filter.Limit > 0 {
		builder = builder.Limit(uint64(filter.Limit))
	}
	if filter.Offset > 0 {
		if filter.Limit <= 0 {
			builder = builder.Limit(uint64(1<<63 - 1))
		}
		builder = builder.Offset(uint64(filter.Offset))
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, err
	}
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var runs []*blogboost.RunReport
	for rows.Next() {
		var run blogboost.RunReport
		var mode, startedAt, finishedAt string
		if err := rows.Scan(&run.ID, &mode, &run.Provider, &run.Err, &startedAt, &finishedAt); err != nil {
			return nil, err
		}
		run.Mode = blogboost.SelectionMode(mode)
		if run.StartedAt, err = parseTime(startedAt, "started_at"); err != nil {
			return nil, err
		}
		if run.FinishedAt, err = parseTime(finishedAt, "finished_at"); err != nil {
			return nil, err
		}
		runs = append(runs, &run)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	rows.Close()

	for _, run := range runs {
		if run.Targets, err = s.findTargets(ctx, run.ID); err != nil {
			return nil, err
		}
	}
	return runs, nil
}

func (s *RunService) findTargets(ctx context.Context, runID string) ([]blogboost.TargetReport, error) {
	query, args, err := sq.Select("article_id", "title", "status", "reason", "slug",
		"generated_id", "refs", "content_hash").
		From("run_targets").
		Where(sq.Eq{"run_id": runID}).
		OrderBy("position").
		ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var targets []blogboost.TargetReport
	for rows.Next() {
		var t blogboost.TargetReport
		var articleID, status, generatedID, refs string
		if err := rows.Scan(&articleID, &t.Title, &status, &t.Reason, &t.Slug,
			&generatedID, &refs, &t.ContentHash); err != nil {
			return nil, err
		}
		t.ArticleID = blogboost.ArticleID(articleID)
		t.Status = blogboost.TargetStatus(status)
		t.GeneratedID = blogboost.ArticleID(generatedID)
		t.References = splitLines(refs)
		targets = append(targets, t)
	}
	return targets, rows.Err()
}
