// Package history stores delivered entity updates in SQLite.
//
// The Sink decorator wraps the hub sink: updates land in the store only
// after the hub accepted them, so the table is a faithful record of
// what was delivered. The Repository offers per-entity queries and
// retention pruning. The whole package is optional at runtime; the
// driver runs without a database by default.
package history
