// Package quota implements the free-question metering that gates the chat
// endpoint for anonymous visitors.
package quota

// DefaultFreeQuota is the number of free questions an anonymous visitor gets
// before registration is required.
const DefaultFreeQuota = 2

// CallerState is the per-visitor metering state. It is owned by the caller
// and round-tripped on every request; the server keeps no authoritative copy
// unless a server-side session store is plugged in.
type CallerState struct {
	FreeUsesConsumed int
	Registered       bool
}

// Normalize clamps a decoded state to the values the gate can reason about.
func (s CallerState) Normalize() CallerState {
	if s.FreeUsesConsumed < 0 {
		s.FreeUsesConsumed = 0
	}
	return s
}

// Remaining returns the free questions left under the given quota. It is
// only meaningful for unregistered callers.
func (s CallerState) Remaining(quota int) int {
	if s.Registered {
		return 0
	}
	if left := quota - s.FreeUsesConsumed; left > 0 {
		return left
	}
	return 0
}
