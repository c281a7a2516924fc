package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"

	"server/internal/domain"
	"server/internal/i18n"
)

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

type signupRequest struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
}

type userDTO struct {
	ID        string `json:"id"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
}

type signupResponse struct {
	OK      bool    `json:"ok"`
	Message string  `json:"message"`
	User    userDTO `json:"user"`
}

// Signup registers a caller, lifting the free-question gate for good. On
// success the metering cookies are replaced by the long-lived registered set
// and the record is forwarded to the spreadsheet/CRM destinations without
// blocking the response.
func (a *App) Signup(w http.ResponseWriter, r *http.Request) {
	var req signupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.error(w, http.StatusBadRequest, "validation", a.msg(r, i18n.MsgFieldsRequired))
		return
	}
	req.FirstName = strings.TrimSpace(req.FirstName)
	req.LastName = strings.TrimSpace(req.LastName)
	req.Email = strings.TrimSpace(req.Email)

	if req.FirstName == "" || req.LastName == "" || req.Email == "" {
		a.error(w, http.StatusBadRequest, "validation", a.msg(r, i18n.MsgFieldsRequired))
		return
	}
	if !emailPattern.MatchString(req.Email) {
		a.error(w, http.StatusBadRequest, "validation", a.msg(r, i18n.MsgInvalidEmail))
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

	a.Logger.Info().Str("user_id", created.ID).Str("email", created.Email).Msg("new registration")

	if a.Forwarder != nil {
		a.Forwarder.Dispatch(*created)
	}

	a.Sessions.MarkRegistered(w, r, created)

	a.json(w, http.StatusOK, signupResponse{
		OK:      true,
		Message: a.msg(r, i18n.MsgSignupOK),
		User: userDTO{
			ID:        created.ID,
			FirstName: created.FirstName,
			LastName:  created.LastName,
			Email:     created.Email,
		},
	})
}
