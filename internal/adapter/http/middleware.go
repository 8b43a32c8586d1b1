package adapthttp

import (
	"context"
	"errors"
	"net/http"
	"time"

	"pourover/internal/app"
	"pourover/internal/domain"

	"github.com/facebookincubator/go-belt/tool/logger"
	"github.com/google/uuid"
)

type contextKey string

const userContextKey contextKey = "user"

// requireAuth lets a request through when it carries a trusted forward auth
// header or a valid session cookie.
func (s *Server) requireAuth(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if s.disableAuth {
			next(w, r)
			return
		}

		// Authelia and similar proxies vouch for the user in this header.
		if remoteUser := r.Header.Get("Remote-User"); remoteUser != "" {
			user, err := s.authSvc.ValidateForwardAuth(r.Context(), remoteUser)
			if err == nil && user != nil {
				next(w, r.WithContext(context.WithValue(r.Context(), userContextKey, user)))
				return
			}
		}

		cookie, err := r.Cookie(sessionCookie)
		if err != nil {
			writeError(w, http.StatusUnauthorized, errors.New("unauthorized"))
			return
		}

		user, err := s.authSvc.ValidateSession(r.Context(), cookie.Value)
		switch {
		case errors.Is(err, app.ErrSessionNotFound), errors.Is(err, app.ErrSessionExpired), errors.Is(err, app.ErrUserNotFound):
			writeError(w, http.StatusUnauthorized, errors.New("unauthorized"))
			return
		case err != nil:
			logger.Errorf(r.Context(), "validate session: %v", err)
			writeError(w, http.StatusInternalServerError, errors.New("internal error"))
			return
		}

		next(w, r.WithContext(context.WithValue(r.Context(), userContextKey, user)))
	}
}

func userFromContext(r *http.Request) *domain.User {
	user, _ := r.Context().Value(userContextKey).(*domain.User)
	return user
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (rec *statusRecorder) WriteHeader(code int) {
	rec.status = code
	rec.ResponseWriter.WriteHeader(code)
}

// loggingMiddleware tags each request with an id, puts a request scoped
// logger into the context and logs the outcome.
func (s *Server) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		reqID := r.Header.Get("X-Request-Id")
		if reqID == "" {
			reqID = uuid.NewString()
		}
		w.Header().Set("X-Request-Id", reqID)

		l := s.log
		if l == nil {
			l = logger.FromCtx(r.Context())
		}
		l = l.WithField("request_id", reqID)
		ctx := logger.CtxWithLogger(r.Context(), l)

		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r.WithContext(ctx))

		l.Infof("%s %s %d %s", r.Method, r.URL.Path, rec.status, time.Since(start))
	})
}
