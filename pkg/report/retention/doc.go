// Package retention prunes old verification reports from history.
//
// A Pruner applies two limits in order: reports older than Days are
// deleted, then the oldest reports beyond MaxRecords are deleted. Either
// limit is disabled by setting it to zero.
//
// A Scheduler runs the pruner on a standard five-field cron expression
// using github.com/robfig/cron/v3, which is how watch mode keeps history
// bounded while it runs for days.
package retention
