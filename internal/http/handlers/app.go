package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"server/internal/domain"
	"server/internal/forward"
	"server/internal/i18n"
	"server/internal/infra"
	"server/internal/middleware"
	"server/internal/providers/chat"
	"server/internal/quota"
	"server/internal/session"
)

// CRMDirectory lists users mirrored in the external CRM.
type CRMDirectory interface {
	List(ctx context.Context) ([]domain.User, error)
}

// App bundles the handlers' collaborators.
type App struct {
	Logger      infra.Logger
	Users       domain.UserRepository
	Sessions    session.Store
	Meter       *quota.Meter
	Completer   chat.Completer // nil when no API key is configured
	Forwarder   *forward.Dispatcher
	CRM         CRMDirectory // nil when Airtable is not configured
	ChatTimeout time.Duration
}

func (a *App) chatTimeout() time.Duration {
	if a.ChatTimeout > 0 {
		return a.ChatTimeout
	}
	return 15 * time.Second
}

func (a *App) json(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func (a *App) error(w http.ResponseWriter, code int, slug, message string) {
	a.json(w, code, map[string]string{"code": slug, "error": message})
}

// msg resolves a catalog message in the request's locale.
func (a *App) msg(r *http.Request, key i18n.Key) string {
	return i18n.T(i18n.Normalize(middleware.LocaleFromContext(r.Context())), key)
}
