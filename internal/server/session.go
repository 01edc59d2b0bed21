package server

import (
	"context"
	"net/http"
	"time"

	"github.com/matzehuels/rampboard/pkg/cache"
	"github.com/matzehuels/rampboard/pkg/errors"
	"github.com/matzehuels/rampboard/pkg/pipeline"
	"github.com/matzehuels/rampboard/pkg/session"
)

type ctxKey int

const sessionKey ctxKey = 0

// withSession attaches the visitor's session to the request context,
// starting a new one when the cookie is missing, malformed or expired.
func (s *Server) withSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		sess := s.lookupSession(ctx, r)
		if sess == nil {
			sess = session.New("", "", s.sessionTTL())
			s.logger.Debug("new session", "session", sess.ID)
		} else {
			sess.Touch(s.sessionTTL())
		}
		if err := s.sessions.Set(ctx, sess); err != nil {
			s.writeError(w, r, err)
			return
		}
		http.SetCookie(w, &http.Cookie{
			Name:     cookieName,
			Value:    sess.ID,
			Path:     "/",
			Expires:  sess.ExpiresAt,
			HttpOnly: true,
			SameSite: http.SameSiteLaxMode,
		})
		next.ServeHTTP(w, r.WithContext(context.WithValue(ctx, sessionKey, sess)))
	})
}

func (s *Server) lookupSession(ctx context.Context, r *http.Request) *session.Session {
	cookie, err := r.Cookie(cookieName)
	if err != nil {
		return nil
	}
	if err := session.ValidateID(cookie.Value); err != nil {
		return nil
	}
	sess, err := s.sessions.Get(ctx, cookie.Value)
	if err != nil {
		if errors.Is(err, errors.ErrCodeSessionExpired) {
			_ = s.cache.Delete(ctx, uploadKey(cookie.Value))
		}
		return nil
	}
	return sess
}

// sessionFrom returns the session attached by withSession.
func sessionFrom(ctx context.Context) *session.Session {
	sess, _ := ctx.Value(sessionKey).(*session.Session)
	return sess
}

func (s *Server) sessionTTL() time.Duration {
	if ttl := s.cfg.Server.SessionTTL.Duration; ttl > 0 {
		return ttl
	}
	return session.DefaultTTL
}

func (s *Server) cacheTTL() time.Duration {
	if ttl := s.cfg.Cache.TTL.Duration; ttl > 0 {
		return ttl
	}
	return pipeline.DefaultTTL
}

// uploadKey is where a session's raw upload is kept.
func uploadKey(id string) string {
	return "session:" + id + ":upload"
}

// runnerFor returns a runner whose cache keys are scoped to sess.
func (s *Server) runnerFor(sess *session.Session) *pipeline.Runner {
	keyer := cache.NewScopedKeyer(cache.NewDefaultKeyer(), "session:"+sess.ID+":")
	r := pipeline.NewRunner(s.cache, keyer, s.logger)
	r.TTL = s.cacheTTL()
	return r
}

// sessionUpload returns the raw bytes of the session's upload.
func (s *Server) sessionUpload(ctx context.Context, sess *session.Session) ([]byte, error) {
	if !sess.HasTable() {
		return nil, errors.New(errors.ErrCodeFileNotFound, "no CSV uploaded yet")
	}
	data, ok, err := s.cache.Get(ctx, uploadKey(sess.ID))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "read upload")
	}
	if !ok {
		return nil, errors.New(errors.ErrCodeSessionExpired, "the upload of %s has expired", sess.SourceName)
	}
	return data, nil
}

// sessionTable loads the session's upload through its scoped runner.
func (s *Server) sessionTable(ctx context.Context, sess *session.Session) (*pipeline.LoadedTable, []byte, error) {
	data, err := s.sessionUpload(ctx, sess)
	if err != nil {
		return nil, nil, err
	}
	loaded, _, err := s.runnerFor(sess).LoadTable(ctx, sess.SourceName, data, s.cfg.Encodings...)
	if err != nil {
		return nil, nil, err
	}
	return loaded, data, nil
}
