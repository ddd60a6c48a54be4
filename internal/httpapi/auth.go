package httpapi

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/antoniostano/ava/internal/session"
	"github.com/antoniostano/ava/internal/users"
)

type credentialsRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type sessionResponse struct {
	SessionID string `json:"session_id"`
	UserID    string `json:"user_id"`
	Username  string `json:"username"`
}

type sessionKey struct{}

// sessionFrom returns the authenticated session attached by requireSession.
func sessionFrom(ctx context.Context) *session.Session {
	s, _ := ctx.Value(sessionKey{}).(*session.Session)
	return s
}

func (s *Server) requireSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		cookie, err := r.Cookie(s.cfg.SessionCookieName)
		if err != nil || strings.TrimSpace(cookie.Value) == "" {
			respondError(w, http.StatusUnauthorized, "unauthenticated", "login required")
			return
		}
		sess, err := s.sessions.Get(cookie.Value)
		if err != nil {
			respondError(w, http.StatusUnauthorized, "session_expired", "session is no longer valid")
			return
		}
		_ = s.sessions.Touch(sess.Token)
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), sessionKey{}, sess)))
	})
}

func (s *Server) handleSignup(w http.ResponseWriter, r *http.Request) {
	creds, err := readCredentials(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}

	hash, err := users.HashPassword(creds.Password)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "internal", "could not create account")
		return
	}

	u, err := s.users.Create(r.Context(), creds.Username, hash)
	if errors.Is(err, users.ErrUsernameTaken) {
		respondError(w, http.StatusConflict, "username_taken", "username already taken")
		return
	}
	if err != nil {
		respondError(w, http.StatusInternalServerError, "internal", "could not create account")
		return
	}

	sess := s.sessions.Create(u.ID, u.Username)
	s.metrics.ActiveSessions.Set(float64(s.sessions.ActiveCount()))
	s.metrics.SessionEvents.WithLabelValues("signup").Inc()
	s.setSessionCookie(w, sess.Token)
	respondJSON(w, http.StatusCreated, sessionResponse{SessionID: sess.Token, UserID: u.ID, Username: u.Username})
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	creds, err := readCredentials(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}

	u, err := s.users.FindByUsername(r.Context(), creds.Username)
	if errors.Is(err, users.ErrNotFound) || (err == nil && !u.CheckPassword(creds.Password)) {
		respondError(w, http.StatusUnauthorized, "invalid_credentials", "invalid username or password")
		return
	}
	if err != nil {
		respondError(w, http.StatusInternalServerError, "internal", "login failed")
		return
	}

	sess := s.sessions.Create(u.ID, u.Username)
	s.metrics.ActiveSessions.Set(float64(s.sessions.ActiveCount()))
	s.metrics.SessionEvents.WithLabelValues("login").Inc()
	s.setSessionCookie(w, sess.Token)
	respondJSON(w, http.StatusOK, sessionResponse{SessionID: sess.Token, UserID: u.ID, Username: u.Username})
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	sess := sessionFrom(r.Context())
	if _, err := s.sessions.End(sess.Token); err != nil && !errors.Is(err, session.ErrNotFound) {
		respondError(w, http.StatusInternalServerError, "internal", "logout failed")
		return
	}
	s.windows.Drop(sess.Token)
	s.metrics.ActiveSessions.Set(float64(s.sessions.ActiveCount()))
	s.metrics.SessionEvents.WithLabelValues("logout").Inc()
	s.clearSessionCookie(w)
	respondJSON(w, http.StatusOK, map[string]string{"status": "logged_out"})
}

// readCredentials accepts either a JSON body or an HTML form post, matching
// the two client styles the service has shipped with.
func readCredentials(r *http.Request) (credentialsRequest, error) {
	var creds credentialsRequest
	if strings.Contains(r.Header.Get("Content-Type"), "application/json") {
		if err := decodeJSON(r, &creds); err != nil {
			return credentialsRequest{}, err
		}
	} else {
		if err := r.ParseForm(); err != nil {
			return credentialsRequest{}, err
		}
		creds.Username = r.PostFormValue("username")
		creds.Password = r.PostFormValue("password")
	}

	creds.Username = strings.TrimSpace(creds.Username)
	if creds.Username == "" {
		return credentialsRequest{}, errors.New("username is required")
	}
	if creds.Password == "" {
		return credentialsRequest{}, errors.New("password is required")
	}
	return creds, nil
}

func (s *Server) setSessionCookie(w http.ResponseWriter, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     s.cfg.SessionCookieName,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

func (s *Server) clearSessionCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     s.cfg.SessionCookieName,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   -1,
	})
}
