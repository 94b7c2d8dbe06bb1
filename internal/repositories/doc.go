// Package repositories implements SQLite persistence for stored Jellyfin logins.
//
// [SessionRepository] implements [models.Repository] for [models.Session]. Sessions are soft deleted via
// deleted_at timestamps and deleted rows are excluded from every query. [SessionRepository.Latest] returns the
// newest live login for a server, which the CLI falls back to when no token is configured.
//
// Sequence numbers give stable ordering independent of UUIDs and creation timestamps.
// The [NextSequence] function atomically increments per-table sequence counters in dedicated sequence tables.
package repositories
