// Package session transports per-visitor metering state between requests.
//
// The widget's original design keeps all state on the client in cookies; the
// Store interface abstracts that choice so the gate and meter logic also work
// against a server-side keyed store.
package session

import (
	"net/http"

	"server/internal/domain"
	"server/internal/quota"
)

// Store loads and persists caller state around a request/response pair.
type Store interface {
	// Load decodes the caller state presented with the request. Absent or
	// malformed state yields the zero state rather than an error.
	Load(r *http.Request) quota.CallerState
	// Save persists an updated ledger for an anonymous caller. Registered
	// callers are not metered, so implementations skip persistence for them.
	Save(w http.ResponseWriter, r *http.Request, state quota.CallerState)
	// MarkRegistered flips the caller to the registered state, resetting the
	// ledger, and records the user's display identity.
	MarkRegistered(w http.ResponseWriter, r *http.Request, user *domain.User)
}
