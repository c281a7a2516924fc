package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"server/internal/domain"
	"server/internal/i18n"
	"server/internal/quota"
)

type chatRequest struct {
	Message string `json:"message"`
}

type chatResponse struct {
	Status    string `json:"status"`
	Answer    string `json:"answer,omitempty"`
	Message   string `json:"message,omitempty"`
	QUsed     int    `json:"qUsed"`
	Remaining any    `json:"remaining"`
}

// Chat answers one metered question. Anonymous callers get a limited number
// of free questions, tracked through their session state; once those are
// spent the response carries a need_signup status instead of an answer.
func (a *App) Chat(w http.ResponseWriter, r *http.Request) {
	var req chatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", a.msg(r, i18n.MsgMessageRequired))
		return
	}

	state := a.Sessions.Load(r)

	ctx, cancel := context.WithTimeout(r.Context(), a.chatTimeout())
	defer cancel()
	res, err := a.Meter.Do(ctx, state, req.Message, func(ctx context.Context, message string) (string, error) {
		if a.Completer == nil {
			return "", domain.ErrMisconfigured
		}
		return a.Completer.Complete(ctx, message)
	})
	if err != nil {
		switch {
		case errors.Is(err, quota.ErrNeedSignup):
			// Expected, user-actionable outcome: the ledger is untouched and
			// the widget shows an upgrade prompt, not an error banner.
			a.json(w, http.StatusOK, chatResponse{
				Status:    "need_signup",
				Message:   a.msg(r, i18n.MsgNeedSignup),
				QUsed:     state.Normalize().FreeUsesConsumed,
				Remaining: 0,
			})
		case errors.Is(err, quota.ErrEmptyMessage):
			a.error(w, http.StatusBadRequest, "bad_request", a.msg(r, i18n.MsgMessageRequired))
		case errors.Is(err, domain.ErrMisconfigured):
			a.Logger.Error().Msg("chat completer not configured, set OPENAI_API_KEY")
			a.error(w, http.StatusInternalServerError, "misconfigured", a.msg(r, i18n.MsgMisconfigured))
		default:
			a.Logger.Error().Err(err).Msg("chat completion failed")
			a.error(w, http.StatusInternalServerError, "upstream_failure", a.msg(r, i18n.MsgUpstreamFailure))
		}
		return
	}

	a.Sessions.Save(w, r, res.State)

	resp := chatResponse{
		Status:    "ok",
		Answer:    res.Answer,
		QUsed:     res.State.FreeUsesConsumed,
		Remaining: res.Remaining,
	}
	if res.Unlimited {
		resp.Remaining = "unlimited"
	}
	a.json(w, http.StatusOK, resp)
}
