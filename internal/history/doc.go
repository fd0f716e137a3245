// Package history persists a ledger of conversion runs in SQLite.
//
// Each run is recorded when it starts and updated once it completes or
// fails. Entries keep the request flags, the package path, and the error
// taxonomy kind for failures. Encryption keys are never stored.
package history
