package session

import (
	"net/http"
	"net/url"
	"strconv"

	"server/internal/domain"
	"server/internal/quota"
)

// Cookie names shared with the widget frontend.
const (
	CookieQuestionsUsed = "q_used"
	CookieRegistered    = "registered"
	CookieUserName      = "user_name"
	CookieUserEmail     = "user_email"
)

const (
	ledgerMaxAge     = 24 * 60 * 60       // one day
	registeredMaxAge = 365 * 24 * 60 * 60 // one year
)

// CookieStore keeps all caller state in cookies on the client, the faithful
// port of the widget's original behavior. The counter is trusted as presented.
type CookieStore struct{}

func NewCookieStore() *CookieStore {
	return &CookieStore{}
}

// Load reads q_used and registered from the request cookies. Missing,
// malformed, or negative values decode to the zero state: availability over
// strictness, a garbled cookie must not fail the request.
func (s *CookieStore) Load(r *http.Request) quota.CallerState {
	state := quota.CallerState{}
	if c, err := r.Cookie(CookieQuestionsUsed); err == nil {
		if n, err := strconv.Atoi(c.Value); err == nil {
			state.FreeUsesConsumed = n
		}
	}
	if c, err := r.Cookie(CookieRegistered); err == nil {
		state.Registered = c.Value == "1"
	}
	return state.Normalize()
}

// Save writes the updated ledger back to the client. Registered callers are
// unmetered and keep their long-lived cookies untouched.
func (s *CookieStore) Save(w http.ResponseWriter, _ *http.Request, state quota.CallerState) {
	if state.Registered {
		return
	}
	setCookie(w, CookieQuestionsUsed, strconv.Itoa(state.FreeUsesConsumed), ledgerMaxAge)
}

// MarkRegistered overwrites any prior ledger with the registered flag and a
// zeroed counter, plus the display identity cookies the widget reads.
func (s *CookieStore) MarkRegistered(w http.ResponseWriter, _ *http.Request, user *domain.User) {
	setCookie(w, CookieRegistered, "1", registeredMaxAge)
	setCookie(w, CookieQuestionsUsed, "0", registeredMaxAge)
	setCookie(w, CookieUserName, url.QueryEscape(user.FirstName), registeredMaxAge)
	setCookie(w, CookieUserEmail, url.QueryEscape(user.Email), registeredMaxAge)
}

func setCookie(w http.ResponseWriter, name, value string, maxAge int) {
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		MaxAge:   maxAge,
		SameSite: http.SameSiteLaxMode,
	})
}

var _ Store = (*CookieStore)(nil)
