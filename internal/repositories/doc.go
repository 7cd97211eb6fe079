// Package repositories implements SQLite persistence for the little client state readtrack keeps.
//
// The only persisted datum is the session token, stored in a key/value table.
//
// Key Implementations:
//   - [KVRepository] : string key/value persistence with upserts
package repositories
