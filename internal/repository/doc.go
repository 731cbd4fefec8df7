// Package repository defines the data access interfaces for netcommand.
//
// The only persisted entity is the request history: one record per command
// invocation received by the dispatcher, with its parameters, final status
// and output. The implementation lives in the sqlite subpackage.
//
// # SQLite Implementation
//
// The sqlite implementation uses the pure Go modernc.org/sqlite driver with
// WAL mode. Parameters and outputs are stored as JSON text. The schema is
// migrated on startup.
//
// # Testing
//
// The sqlite repository is tested against in-memory databases.
package repository
