// Package sqlite provides a unified SQLite-based implementation of driven port interfaces.
//
// This adapter uses modernc.org/sqlite, a pure Go SQLite implementation that requires
// no CGO, enabling easy cross-compilation. It implements two store interfaces
// through a single database connection:
//
//   - AssetStore: Asset and chunk persistence, including embedding blobs
//   - SearchEngine: Lexical full-text search over chunk text (FTS5, BM25)
//
// # Schema
//
// The database schema is managed through versioned migrations stored in the
// migrations/ directory. Each migration is a pair of .up.sql and .down.sql files.
// The chunks_fts virtual table shadows the chunks table through triggers, so
// every chunk write keeps the lexical index current within the same transaction.
//
// # Data Location
//
// By default, the database is stored at ~/.lexikon/data/lexikon.db
//
// # Thread Safety
//
// All operations are thread-safe. The store uses database-level locking provided
// by SQLite in WAL mode.
package sqlite
