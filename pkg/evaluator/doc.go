// Package evaluator applies rule catalogs to an import batch.
//
// Every rule of every catalog is run against every row. No rule is skipped
// because another one already fired on the same row, so a single run
// yields the full defect list. Rows are independent of each other once the
// catalogs are bound, which lets the evaluator spread them over a fixed
// pool of workers. Each worker writes into the slot of the row it owns,
// so no locking is needed and the result order is deterministic.
//
// Usage:
//
//	ev := evaluator.New(evaluator.DefaultConfig())
//	rep := ev.Evaluate(ctx, batch, rowRules, datasetRules)
//	if !rep.Clean() {
//	    // fix the source data
//	}
package evaluator
