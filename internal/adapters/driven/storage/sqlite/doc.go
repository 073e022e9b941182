// Package sqlite provides SQLite-backed implementations of the driven
// storage ports. It is the default backend: a single on-disk database
// file with WAL journaling, migrated on open from embedded SQL files.
package sqlite
