package main

import (
	"fmt"
	"time"

	"github.com/fwojciec/blogboost"
)

// Run executes the history command.
func (c *HistoryCmd) Run(deps *Dependencies) error {
	filter := blogboost.RunFilter{Limit: c.Limit}
	if c.ID != "" {
		filter.ID = &c.ID
	}
	if c.Provider != "" {
		filter.Provider = &c.Provider
	}

	runs, err := deps.Runs.FindRuns(deps.Ctx, filter)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", blogboost.ErrorMessage(err))
		return err
	}

	if len(runs) == 0 {
		if c.ID != "" {
			err := blogboost.Errorf(blogboost.ENOTFOUND, "run %q not found", c.ID)
			fmt.Fprintf(deps.Stderr, "error: %s\n", err.Message)
			return err
		}
		fmt.Fprintln(deps.Stdout, "No runs recorded yet. Use 'blogboost enhance --history-db' to record one.")
		return nil
	}

	for _, r := range runs {
		fmt.Fprintf(deps.Stdout, "%s  %s  %-6s  %-6s  %d/%d published",
			r.ID, r.StartedAt.Local().Format(time.DateTime), r.Mode, r.Provider,
			r.Count(blogboost.StatusPublished)+r.Count(blogboost.StatusUpdated), len(r.Targets))
		if r.Err != "" {
			fmt.Fprintf(deps.Stdout, "  error: %s", r.Err)
		}
		fmt.Fprintln(deps.Stdout)

		if c.Verbose || c.ID != "" {
			for _, t := range r.Targets {
				fmt.Fprint(deps.Stdout, "  ")
				printTarget(deps.Stdout, t)
			}
		}
	}
	return nil
}
