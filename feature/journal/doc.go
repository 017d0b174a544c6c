// Package journal stores a history of sync runs in SQL.
//
// Each run gets a RunRecord with its statistics and final status, and one
// EventOutcomeRecord per reconciled event listing the actions taken. The
// journal is optional and purely informational: reconciliation never reads
// it. The history command lists recent runs.
//
// # Usage
//
//	j := journal.New(db, logger)
//	_ = j.Migrate(ctx)
//	_ = j.BeginRun(ctx, runID, dryRun)
//	runner.Observe(j.Observer(ctx, runID))
//	report, err := runner.Run(ctx)
//	_ = j.FinishRun(ctx, runID, report.Stats, err)
package journal
