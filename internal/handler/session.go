package handler

import (
	"net/http"

	"github.com/exampill/studyplanner/internal/model"
)

const sessionCookieName = "session"

// sessionToken returns the valid session for the request, creating one and
// setting the cookie when the request has none.
func (h *Handler) sessionToken(w http.ResponseWriter, r *http.Request) (string, error) {
	if cookie, err := r.Cookie(sessionCookieName); err == nil && cookie.Value != "" {
		sess, err := h.store.GetSession(cookie.Value)
		if err != nil {
			return "", err
		}
		if sess != nil {
			return sess.ID, nil
		}
	}

	token, err := h.store.CreateSession()
	if err != nil {
		return "", err
	}
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		Secure:   h.config.SecureCookies,
	})
	return token, nil
}

// currentPlan returns the plan for the request's session, or nil when the
// request has no session or the session has no plan.
func (h *Handler) currentPlan(r *http.Request) (*model.StudyPlan, error) {
	cookie, err := r.Cookie(sessionCookieName)
	if err != nil || cookie.Value == "" {
		return nil, nil
	}
	sess, err := h.store.GetSession(cookie.Value)
	if err != nil || sess == nil {
		return nil, err
	}
	return h.store.GetPlanBySession(sess.ID)
}
