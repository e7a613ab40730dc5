// Package presence tracks which identities currently hold at least one live
// realtime connection.
//
// The registry maps identity → set of connection IDs: one identity may hold
// several concurrent connections (multiple devices), and it stays online
// until the last one closes. Mutations are atomic and each returns the full
// online snapshot taken under the same lock, so broadcasts are always
// consistent with the change that triggered them.
//
// The projection (distinct identities with ≥1 connection) is what the
// websocket gateway broadcasts to every connected channel on each change.
// Snapshots are full replacements, not deltas, which keeps clients resilient
// to missed intermediate events.
package presence
