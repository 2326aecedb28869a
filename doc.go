// Package wire is a convenience layer over SQLite. It wraps the
// database/sql + sqlx handle with a small query builder (see the
// sqlstring package), a lightweight transaction wrapper, a
// table-scoped CRUD facade, and row-fetching helpers with CSV export.
//
// Everything runs in-process against the embedded engine; wire adds no
// pooling, no concurrency control, and no retry logic beyond what the
// driver already provides.
package wire
