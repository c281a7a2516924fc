package handlers

import (
	"net/http"

	"server/internal/domain"
	"server/internal/i18n"
)

const listUsersLimit = 100

// UsersList returns the most recent registrations. With ?source=crm the
// listing comes from the Airtable mirror instead of the local repository.
func (a *App) UsersList(w http.ResponseWriter, r *http.Request) {
	if r.URL.Query().Get("source") == "crm" {
		if a.CRM == nil {
			a.error(w, http.StatusServiceUnavailable, "misconfigured", a.msg(r, i18n.MsgMisconfigured))
			return
		}
		users, err := a.CRM.List(r.Context())
		if err != nil {
			a.Logger.Error().Err(err).Msg("crm listing failed")
			a.error(w, http.StatusInternalServerError, "internal", a.msg(r, i18n.MsgInternalError))
			return
		}
		a.json(w, http.StatusOK, map[string]any{"ok": true, "users": toUserDTOs(users)})
		return
	}

	users, err := a.Users.List(r.Context(), listUsersLimit)
	if err != nil {
		a.Logger.Error().Err(err).Msg("list users failed")
		a.error(w, http.StatusInternalServerError, "internal", a.msg(r, i18n.MsgInternalError))
		return
	}
	a.json(w, http.StatusOK, map[string]any{"ok": true, "users": toUserDTOs(users)})
}

// UsersStats summarizes the registration repository.
func (a *App) UsersStats(w http.ResponseWriter, r *http.Request) {
	stats, err := a.Users.Stats(r.Context())
	if err != nil {
		a.Logger.Error().Err(err).Msg("load stats failed")
		a.error(w, http.StatusInternalServerError, "internal", a.msg(r, i18n.MsgInternalError))
		return
	}
	a.json(w, http.StatusOK, map[string]any{"ok": true, "total_users": stats.TotalUsers})
}

func toUserDTOs(users []domain.User) []userDTO {
	out := make([]userDTO, 0, len(users))
	for _, u := range users {
		out = append(out, userDTO{ID: u.ID, FirstName: u.FirstName, LastName: u.LastName, Email: u.Email})
	}
	return out
}
