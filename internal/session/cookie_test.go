package session

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"server/internal/domain"
	"server/internal/quota"
)

func TestCookieStoreLoadDefaults(t *testing.T) {
	store := NewCookieStore()
	cases := []struct {
		name    string
		cookies []*http.Cookie
		want    quota.CallerState
	}{
		{"no cookies", nil, quota.CallerState{}},
		{"malformed counter", []*http.Cookie{{Name: CookieQuestionsUsed, Value: "abc"}}, quota.CallerState{}},
		{"negative counter", []*http.Cookie{{Name: CookieQuestionsUsed, Value: "-4"}}, quota.CallerState{}},
		{"valid counter", []*http.Cookie{{Name: CookieQuestionsUsed, Value: "2"}}, quota.CallerState{FreeUsesConsumed: 2}},
		{"registered flag", []*http.Cookie{{Name: CookieRegistered, Value: "1"}}, quota.CallerState{Registered: true}},
		{"registered other value", []*http.Cookie{{Name: CookieRegistered, Value: "yes"}}, quota.CallerState{}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest("POST", "/v1/chat", nil)
			for _, c := range tc.cookies {
				req.AddCookie(c)
			}
			if got := store.Load(req); got != tc.want {
				t.Fatalf("Load() = %+v, want %+v", got, tc.want)
			}
		})
	}
}

func TestCookieStoreSaveWritesLedger(t *testing.T) {
	store := NewCookieStore()
	rr := httptest.NewRecorder()
	store.Save(rr, httptest.NewRequest("POST", "/v1/chat", nil), quota.CallerState{FreeUsesConsumed: 1})

	c := findCookie(t, rr, CookieQuestionsUsed)
	if c.Value != "1" {
		t.Fatalf("q_used = %q, want 1", c.Value)
	}
	if c.Path != "/" || c.MaxAge != 86400 || c.SameSite != http.SameSiteLaxMode {
		t.Fatalf("unexpected cookie attributes: %+v", c)
	}
}

func TestCookieStoreSaveSkipsRegistered(t *testing.T) {
	store := NewCookieStore()
	rr := httptest.NewRecorder()
	store.Save(rr, httptest.NewRequest("POST", "/v1/chat", nil), quota.CallerState{Registered: true})
	if got := rr.Result().Cookies(); len(got) != 0 {
		t.Fatalf("expected no cookies for registered caller, got %d", len(got))
	}
}

func TestCookieStoreMarkRegistered(t *testing.T) {
	store := NewCookieStore()
	rr := httptest.NewRecorder()
	user := &domain.User{FirstName: "Ana", Email: "ana@example.com", RegisteredAt: time.Now()}
	store.MarkRegistered(rr, httptest.NewRequest("POST", "/v1/signup", nil), user)

	if c := findCookie(t, rr, CookieRegistered); c.Value != "1" || c.MaxAge != 31536000 {
		t.Fatalf("registered cookie wrong: %+v", c)
	}
	if c := findCookie(t, rr, CookieQuestionsUsed); c.Value != "0" {
		t.Fatalf("q_used not reset: %+v", c)
	}
	if c := findCookie(t, rr, CookieUserName); c.Value != "Ana" {
		t.Fatalf("user_name cookie wrong: %+v", c)
	}
	if c := findCookie(t, rr, CookieUserEmail); c.Value != "ana%40example.com" {
		t.Fatalf("user_email cookie wrong: %+v", c)
	}
}

func TestMemoryStoreRoundTrip(t *testing.T) {
	store := NewMemoryStore()

	// First request carries no caller ID: saving issues one.
	rr := httptest.NewRecorder()
	store.Save(rr, httptest.NewRequest("POST", "/v1/chat", nil), quota.CallerState{FreeUsesConsumed: 1})
	cid := findCookie(t, rr, CookieCallerID)

	// Second request presents the issued ID and sees the saved state.
	req := httptest.NewRequest("POST", "/v1/chat", nil)
	req.AddCookie(&http.Cookie{Name: CookieCallerID, Value: cid.Value})
	if got := store.Load(req); got.FreeUsesConsumed != 1 {
		t.Fatalf("Load() after Save = %+v", got)
	}

	store.MarkRegistered(httptest.NewRecorder(), req, &domain.User{FirstName: "Ana"})
	if got := store.Load(req); !got.Registered || got.FreeUsesConsumed != 0 {
		t.Fatalf("Load() after MarkRegistered = %+v", got)
	}
}

func findCookie(t *testing.T, rr *httptest.ResponseRecorder, name string) *http.Cookie {
	t.Helper()
	for _, c := range rr.Result().Cookies() {
		if c.Name == name {
			return c
		}
	}
	t.Fatalf("cookie %q not set", name)
	return nil
}
