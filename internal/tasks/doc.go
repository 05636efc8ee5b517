// Package tasks runs many recommendation requests as one batch with real-time progress reporting.
//
// # Input
//
// [ReadQueries] reads form records from CSV with a header row naming the columns user_id, judul_lagu,
// artis, genre and (optionally) top_n. Columns may appear in any order.
//
// # Execution
//
// [BatchEngine.Run] validates every record like the interactive form does, then feeds the valid ones to a
// bounded worker pool. A token bucket limiter paces outbound requests so a batch cannot flood the
// recommendation API. Each row produces one export file via the formatter package, and a JSON manifest
// summarises the batch.
//
// # Progress Reporting
//
// The [ProgressUpdate] struct contains phase, step counters, a message and optional data.
// Updates use select with default so a slow reader never stalls the batch.
package tasks
