// Package job runs background work: a bounded in-memory queue drained by a
// worker pool, the handler that turns chat events into history records, and
// the cron schedule that prunes old history.
package job
