// Package store caches ingestion results in SQLite.
//
// A snapshot records the source and target trees and the relation built
// from a set of CSV files, compressed with zstd. Snapshots are
// content-addressed by their inputs: the type definitions, the chosen
// source and target type names, the ingestion options and the bytes of
// every CSV file, hashed with BLAKE3. Ingesting unchanged inputs again
// finds the existing snapshot instead of writing a new one.
//
// # Identity and Ordering
//
//   - Snapshot IDs are UUIDv7 strings from an IDGenerator.
//   - seq comes from a Clock and orders listings, never wall time read
//     back from the database.
//   - All listings use ORDER BY seq ASC, id ASC COLLATE BINARY so output is
//     identical across runs with a deterministic Clock and IDGenerator.
//
// # Database Configuration
//
//   - WAL mode: Concurrent reads during writes
//   - synchronous=NORMAL: Balance durability/performance
//   - busy_timeout=5000: Wait for locks up to 5 seconds
//   - foreign_keys=ON: Enforce referential integrity
package store
