package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"server/internal/domain"
	"server/internal/i18n"
)

// Session cookie names for the account endpoints.
const (
	CookieSessionToken = "session_token"
	CookieUserID       = "user_id"
)

const authSessionMaxAge = 24 * 60 * 60

const minPasswordLen = 6

type authRequest struct {
	Action    string `json:"action"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
	Password  string `json:"password"`
}

type authResponse struct {
	Success       bool     `json:"success"`
	Message       string   `json:"message,omitempty"`
	Authenticated *bool    `json:"authenticated,omitempty"`
	User          *userDTO `json:"user,omitempty"`
}

// Auth is the action-dispatch account endpoint: register, login, logout and
// check share one route, mirroring what the widget frontend expects.
// Sessions are plain opaque cookies; password storage and verification stay
// out of scope, matching the widget's placeholder account model.
func (a *App) Auth(w http.ResponseWriter, r *http.Request) {
	var req authRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", a.msg(r, i18n.MsgInternalError))
		return
	}
	switch req.Action {
	case "register":
		a.authRegister(w, r, req)
	case "login":
		a.authLogin(w, r, req)
	case "logout":
		a.authLogout(w, r)
	case "check":
		a.authCheck(w, r)
	default:
		a.error(w, http.StatusBadRequest, "bad_request", "action non reconnue")
	}
}

func (a *App) authRegister(w http.ResponseWriter, r *http.Request, req authRequest) {
	req.FirstName = strings.TrimSpace(req.FirstName)
	req.LastName = strings.TrimSpace(req.LastName)
	req.Email = strings.TrimSpace(req.Email)

	if req.FirstName == "" || req.LastName == "" || req.Email == "" || req.Password == "" {
		a.error(w, http.StatusBadRequest, "validation", a.msg(r, i18n.MsgFieldsRequired))
		return
	}
	if !emailPattern.MatchString(req.Email) {
		a.error(w, http.StatusBadRequest, "validation", a.msg(r, i18n.MsgInvalidEmail))
		return
	}
	if len(req.Password) < minPasswordLen {
		a.error(w, http.StatusBadRequest, "validation", a.msg(r, i18n.MsgPasswordTooShort))
		return
	}

	user := &domain.User{
		ID:           uuid.NewString(),
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		Email:        req.Email,
		RegisteredAt: time.Now().UTC(),
	}
	created, err := a.Users.Create(r.Context(), user)
	if err != nil {
		if errors.Is(err, domain.ErrDuplicateEmail) {
			a.error(w, http.StatusBadRequest, "duplicate_email", a.msg(r, i18n.MsgDuplicateEmail))
			return
		}
		a.Logger.Error().Err(err).Msg("store registration failed")
		a.error(w, http.StatusInternalServerError, "internal", a.msg(r, i18n.MsgInternalError))
		return
	}

	a.setAuthSession(w, created.ID)
	a.Sessions.MarkRegistered(w, r, created)

	a.json(w, http.StatusOK, authResponse{
		Success: true,
		Message: a.msg(r, i18n.MsgSignupOK),
		User: &userDTO{
			ID:        created.ID,
			FirstName: created.FirstName,
			LastName:  created.LastName,
			Email:     created.Email,
		},
	})
}

func (a *App) authLogin(w http.ResponseWriter, r *http.Request, req authRequest) {
	req.Email = strings.TrimSpace(req.Email)
	if req.Email == "" || req.Password == "" {
		a.error(w, http.StatusBadRequest, "validation", a.msg(r, i18n.MsgCredentialsNeeded))
		return
	}
	if !strings.Contains(req.Email, "@") || len(req.Password) < minPasswordLen {
		a.error(w, http.StatusUnauthorized, "unauthorized", a.msg(r, i18n.MsgBadCredentials))
		return
	}

	user, err := a.Users.FindByEmail(r.Context(), req.Email)
	if err != nil {
		if !errors.Is(err, domain.ErrNotFound) {
			a.Logger.Error().Err(err).Msg("lookup user failed")
			a.error(w, http.StatusInternalServerError, "internal", a.msg(r, i18n.MsgInternalError))
			return
		}
		a.error(w, http.StatusUnauthorized, "unauthorized", a.msg(r, i18n.MsgBadCredentials))
		return
	}

	a.setAuthSession(w, user.ID)
	a.Sessions.MarkRegistered(w, r, user)

	a.json(w, http.StatusOK, authResponse{
		Success: true,
		Message: a.msg(r, i18n.MsgLoginOK),
		User: &userDTO{
			ID:        user.ID,
			FirstName: user.FirstName,
			LastName:  user.LastName,
			Email:     user.Email,
		},
	})
}

func (a *App) authLogout(w http.ResponseWriter, r *http.Request) {
	expireCookie(w, CookieSessionToken)
	expireCookie(w, CookieUserID)
	a.json(w, http.StatusOK, authResponse{Success: true, Message: a.msg(r, i18n.MsgLogoutOK)})
}

func (a *App) authCheck(w http.ResponseWriter, r *http.Request) {
	token, errToken := r.Cookie(CookieSessionToken)
	userID, errID := r.Cookie(CookieUserID)

	authenticated := errToken == nil && errID == nil && token.Value != "" && userID.Value != ""
	resp := authResponse{Success: true, Authenticated: &authenticated}
	if authenticated {
		resp.User = &userDTO{ID: userID.Value}
	}
	a.json(w, http.StatusOK, resp)
}

func (a *App) setAuthSession(w http.ResponseWriter, userID string) {
	token := uuid.NewString()
	http.SetCookie(w, &http.Cookie{Name: CookieSessionToken, Value: token, Path: "/", MaxAge: authSessionMaxAge, SameSite: http.SameSiteLaxMode})
	http.SetCookie(w, &http.Cookie{Name: CookieUserID, Value: userID, Path: "/", MaxAge: authSessionMaxAge, SameSite: http.SameSiteLaxMode})
}

func expireCookie(w http.ResponseWriter, name string) {
	http.SetCookie(w, &http.Cookie{Name: name, Value: "", Path: "/", MaxAge: -1})
}
