package server

import (
	"context"
	"errors"
	"net/http"

	"github.com/google/uuid"

	"github.com/inkbloom/inkbloom/pkg/session"
)

// sessionCookie is the cookie carrying the session ID.
const sessionCookie = "inkbloom_session"

type contextKey string

// sessionKey carries the *session.Session through the request context.
const sessionKey contextKey = "session"

// withSession binds each request to a painting session. Requests without a
// valid cookie get a fresh session; an expired or unknown session is
// replaced rather than rejected, since an anonymous painting session has
// nothing to protect. The cookie value must parse as a UUID before it goes
// anywhere near a store: with the file backend a crafted value would
// otherwise become a path component.
func (s *Server) withSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		var sess *session.Session
		if cookie, err := r.Cookie(sessionCookie); err == nil && isSessionID(cookie.Value) {
			stored, err := s.sessions.Get(ctx, cookie.Value)
			switch {
			case err == nil:
				sess = stored
			case errors.Is(err, session.ErrNotFound):
				// Fall through to a fresh session.
			default:
				s.writeError(w, r, err)
				return
			}
		}

		if sess == nil {
			sess = session.New(s.palette.Name, s.cfg.Server.SessionTTL.Duration)
			if err := s.sessions.Set(ctx, sess); err != nil {
				s.writeError(w, r, err)
				return
			}
			http.SetCookie(w, &http.Cookie{
				Name:     sessionCookie,
				Value:    sess.ID,
				Path:     "/",
				Expires:  sess.ExpiresAt,
				HttpOnly: true,
				SameSite: http.SameSiteLaxMode,
			})
			s.logger.Debug("new session", "id", sess.ID)
		}

		next.ServeHTTP(w, r.WithContext(context.WithValue(ctx, sessionKey, sess)))
	})
}

// isSessionID reports whether a client-supplied value is a well-formed
// session ID.
func isSessionID(v string) bool {
	_, err := uuid.Parse(v)
	return err == nil
}

// sessionFrom extracts the request's session.
func sessionFrom(ctx context.Context) *session.Session {
	sess, _ := ctx.Value(sessionKey).(*session.Session)
	return sess
}
