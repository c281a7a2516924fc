package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"server/internal/adapter/repo"
	"server/internal/quota"
	"server/internal/session"
)

type fakeCompleter struct {
	answer string
	err    error
	calls  int
}

func (f *fakeCompleter) Complete(context.Context, string) (string, error) {
	f.calls++
	return f.answer, f.err
}

func newChatApp(completer *fakeCompleter) *App {
	return &App{
		Logger:    zerolog.Nop(),
		Users:     repo.NewUserRepositoryMem(),
		Sessions:  session.NewCookieStore(),
		Meter:     quota.NewMeter(2),
		Completer: completer,
	}
}

func postChat(app *App, body string, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	req := httptest.NewRequest("POST", "/v1/chat", strings.NewReader(body))
	for _, c := range cookies {
		req.AddCookie(c)
	}
	rr := httptest.NewRecorder()
	app.Chat(rr, req)
	return rr
}

func decodeChat(t *testing.T, rr *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var payload map[string]any
	if err := json.NewDecoder(rr.Body).Decode(&payload); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	return payload
}

func cookieValue(rr *httptest.ResponseRecorder, name string) (string, bool) {
	for _, c := range rr.Result().Cookies() {
		if c.Name == name {
			return c.Value, true
		}
	}
	return "", false
}

func TestChatFreeQuotaScenario(t *testing.T) {
	completer := &fakeCompleter{answer: "Consultez un avocat."}
	app := newChatApp(completer)

	// First question: allowed, counter moves to 1.
	rr := postChat(app, `{"message":"Comment divorcer ?"}`)
	if rr.Code != http.StatusOK {
		t.Fatalf("first call status = %d", rr.Code)
	}
	payload := decodeChat(t, rr)
	if payload["status"] != "ok" || payload["qUsed"] != float64(1) || payload["remaining"] != float64(1) {
		t.Fatalf("first call payload = %v", payload)
	}
	if v, ok := cookieValue(rr, session.CookieQuestionsUsed); !ok || v != "1" {
		t.Fatalf("first call q_used cookie = %q (%v)", v, ok)
	}

	// Second question: counter reaches the quota.
	rr = postChat(app, `{"message":"Et la garde ?"}`, &http.Cookie{Name: session.CookieQuestionsUsed, Value: "1"})
	payload = decodeChat(t, rr)
	if payload["qUsed"] != float64(2) || payload["remaining"] != float64(0) {
		t.Fatalf("second call payload = %v", payload)
	}

	// Third question: gated, the provider is not called, ledger untouched.
	before := completer.calls
	rr = postChat(app, `{"message":"Encore une ?"}`, &http.Cookie{Name: session.CookieQuestionsUsed, Value: "2"})
	if rr.Code != http.StatusOK {
		t.Fatalf("gated call status = %d", rr.Code)
	}
	payload = decodeChat(t, rr)
	if payload["status"] != "need_signup" || payload["qUsed"] != float64(2) || payload["remaining"] != float64(0) {
		t.Fatalf("gated payload = %v", payload)
	}
	if payload["message"] == "" {
		t.Fatal("gated payload missing prompt message")
	}
	if completer.calls != before {
		t.Fatal("protected operation invoked despite denial")
	}
	if _, ok := cookieValue(rr, session.CookieQuestionsUsed); ok {
		t.Fatal("denied request must not touch the ledger cookie")
	}
}

func TestChatRegisteredUnlimited(t *testing.T) {
	app := newChatApp(&fakeCompleter{answer: "Bien sûr."})

	rr := postChat(app, `{"message":"Une question"}`,
		&http.Cookie{Name: session.CookieRegistered, Value: "1"},
		&http.Cookie{Name: session.CookieQuestionsUsed, Value: "9"},
	)
	payload := decodeChat(t, rr)
	if payload["status"] != "ok" || payload["remaining"] != "unlimited" {
		t.Fatalf("payload = %v", payload)
	}
	if _, ok := cookieValue(rr, session.CookieQuestionsUsed); ok {
		t.Fatal("registered caller must not get a metering cookie")
	}
}

func TestChatEmptyMessage(t *testing.T) {
	completer := &fakeCompleter{answer: "x"}
	app := newChatApp(completer)

	for _, body := range []string{`{"message":""}`, `{"message":"   "}`, `{}`} {
		rr := postChat(app, body)
		if rr.Code != http.StatusBadRequest {
			t.Fatalf("body %s: status = %d, want 400", body, rr.Code)
		}
	}
	if completer.calls != 0 {
		t.Fatal("provider called for empty messages")
	}
}

func TestChatUpstreamFailureKeepsLedger(t *testing.T) {
	app := newChatApp(&fakeCompleter{err: errors.New("openai status 500")})

	rr := postChat(app, `{"message":"Question"}`, &http.Cookie{Name: session.CookieQuestionsUsed, Value: "1"})
	if rr.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", rr.Code)
	}
	if _, ok := cookieValue(rr, session.CookieQuestionsUsed); ok {
		t.Fatal("failed call must not advance the ledger")
	}
}

func TestChatMisconfiguredWithoutCompleter(t *testing.T) {
	app := newChatApp(nil)
	app.Completer = nil

	rr := postChat(app, `{"message":"Question"}`)
	if rr.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", rr.Code)
	}
	payload := decodeChat(t, rr)
	if payload["code"] != "misconfigured" {
		t.Fatalf("payload = %v", payload)
	}
}

func TestChatMalformedCookieDefaultsToZero(t *testing.T) {
	app := newChatApp(&fakeCompleter{answer: "ok"})

	rr := postChat(app, `{"message":"Question"}`, &http.Cookie{Name: session.CookieQuestionsUsed, Value: "garbage"})
	payload := decodeChat(t, rr)
	if payload["status"] != "ok" || payload["qUsed"] != float64(1) {
		t.Fatalf("payload = %v", payload)
	}
}
