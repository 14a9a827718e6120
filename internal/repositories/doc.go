// Package repositories implements SQLite persistence for the client's local state.
//
// Key Implementations:
//   - [SessionRepository] : per-actor key-value entries (token, cached display name); satisfies session.Backend
//   - [SessionEventRepository] : ordered audit trail of session transitions; satisfies session.Recorder
//
// Event sequence numbers come from [NextSequence], which atomically increments a counter row in a dedicated
// sequence table.
package repositories
