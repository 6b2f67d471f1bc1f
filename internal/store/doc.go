// Package store provides SQLite-backed history of generation jobs.
//
// Each successful generation may append one row to the jobs table: its id,
// the canonical parameters and their digest, the loop count, the
// destination path and the digest of the bytes written. Rows are never
// updated.
//
// # Ordering
//
// Listing uses the seq column (insertion order), never created_at, so two
// jobs written in the same clock tick still list deterministically.
//
// # Database Configuration
//
//   - WAL mode: Concurrent reads during writes
//   - synchronous=NORMAL: Balance durability/performance
//   - busy_timeout=5000: Wait for locks up to 5 seconds
package store
