package quota

// Decision is the outcome of a gate check.
type Decision int

const (
	// Allow lets the protected call proceed.
	Allow Decision = iota
	// DenyNeedRegistration means the free quota is spent and the caller
	// must sign up before asking again.
	DenyNeedRegistration
)

// Decide maps caller state and the configured quota to an access decision.
// Registered callers always pass; anonymous callers pass while they have
// free uses left. Pure and side-effect free.
func Decide(state CallerState, quota int) Decision {
	if state.Registered {
		return Allow
	}
	if state.FreeUsesConsumed < quota {
		return Allow
	}
	return DenyNeedRegistration
}
