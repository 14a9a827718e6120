// Package tasks runs bulk catalog operations with real-time progress reporting.
//
// # Core Operations
//
//  1. [Engine.BulkExport] : export playlists to disk
//     - Fetches each playlist with its songs, paced by a rate limiter
//     - Writes JSON, CSV, Markdown or text files on a worker pool
//     - Writes an export manifest listing every outcome
//
//  2. [Engine.BulkDelete] : delete many managed records of one kind
//     - Runs deletes on a worker pool sharing one rate limiter
//     - Keeps going after a failure and reports per-record results in request order
//
//  3. [Engine.Dump] : snapshot artists, providers and song requests
//     - Records failing endpoints instead of aborting
//
// # Progress Reporting
//
// All operations use non-blocking channels for progress updates.
//
// The [ProgressUpdate] struct contains phase, step counters, messages, and optional data for advanced UI rendering.
// Updates use select with default to prevent blocking.
//
// # Implementation
//
// [Engine] depends on a [PlaylistSource] (services.CatalogService) and a [Manager] (services.ManagerService). Both
// go through the request pipeline, so bulk operations share the session credentials and failure classification of
// every other call.
package tasks
