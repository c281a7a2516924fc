package session

import (
	"net/http"
	"sync"

	"github.com/google/uuid"

	"server/internal/domain"
	"server/internal/quota"
)

// CookieCallerID carries the opaque caller identifier used by MemoryStore.
const CookieCallerID = "cid"

// MemoryStore keeps caller state server-side, keyed by an opaque caller-ID
// cookie. Unlike CookieStore the counter cannot be tampered with by editing
// cookies, at the cost of state not surviving a process restart.
type MemoryStore struct {
	mu    sync.RWMutex
	state map[string]quota.CallerState
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{state: make(map[string]quota.CallerState)}
}

func (s *MemoryStore) Load(r *http.Request) quota.CallerState {
	id := callerID(r)
	if id == "" {
		return quota.CallerState{}
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state[id].Normalize()
}

func (s *MemoryStore) Save(w http.ResponseWriter, r *http.Request, state quota.CallerState) {
	s.put(w, r, state)
}

func (s *MemoryStore) MarkRegistered(w http.ResponseWriter, r *http.Request, user *domain.User) {
	s.put(w, r, quota.CallerState{Registered: true})
	setCookie(w, CookieUserName, user.FirstName, registeredMaxAge)
}

func (s *MemoryStore) put(w http.ResponseWriter, r *http.Request, state quota.CallerState) {
	id := callerID(r)
	if id == "" {
		id = uuid.NewString()
		setCookie(w, CookieCallerID, id, registeredMaxAge)
	}
	s.mu.Lock()
	s.state[id] = state
	s.mu.Unlock()
}

func callerID(r *http.Request) string {
	if c, err := r.Cookie(CookieCallerID); err == nil {
		return c.Value
	}
	return ""
}

var _ Store = (*MemoryStore)(nil)
