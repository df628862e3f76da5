// Package state is the persistence boundary for option groups: a key/value
// Store keyed by Ref (option group key plus optional site) holding whole
// values that are replaced on every write.
//
// Implementations:
//   - MemoryStore[T] keeps values in process.
//   - SQLiteStore keeps raw bytes in a single SQLite table.
//   - JSONStore[T] adapts a byte store to a typed one.
//
// Meta carries a ULID snapshot id, a content ETag and the update time.
// Update refuses to save when the caller's ETag no longer matches the stored
// one.
package state
