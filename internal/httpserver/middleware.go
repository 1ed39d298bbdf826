package httpserver

import (
	"context"
	"errors"
	"net/http"
	"time"

	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/rs/zerolog/hlog"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/wordguess/internal/game"
	"github.com/robalobadob/wordguess/internal/store"
)

// requestLogger attaches the global zerolog logger to each request and
// writes one access line per response.
func requestLogger() func(http.Handler) http.Handler {
	withLogger := hlog.NewHandler(log.Logger)
	access := hlog.AccessHandler(func(r *http.Request, status, size int, dur time.Duration) {
		hlog.FromRequest(r).Info().
			Str("req_id", chimw.GetReqID(r.Context())).
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", status).
			Int("bytes", size).
			Dur("dur", dur).
			Msg("http")
	})
	return func(next http.Handler) http.Handler {
		return withLogger(access(next))
	}
}

// jsonContentType sets a default JSON Content-Type header on all responses.
func jsonContentType(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		next.ServeHTTP(w, r)
	})
}

// ------------------------------ game session --------------------------------

// ctxGameKey is the context key type for storing *play.
type ctxGameKey struct{}

// play is the game session loaded for the current request.
type play struct {
	id      string
	session *game.Session
}

// withGame loads the player's game session, starting a first round when the
// store has none (first visit, expired or pruned session).
func (s *Server) withGame(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sid := s.ensureSessionID(w, r)
		sess, err := s.sessions.Get(r.Context(), sid)
		if err == nil {
			if terr := s.sessions.Touch(r.Context(), sid); terr != nil {
				hlog.FromRequest(r).Warn().Err(terr).Str("session", sid).Msg("touch game session")
			}
		}
		if errors.Is(err, store.ErrNotFound) {
			sess, err = game.StartRound(s.words)
			if err == nil {
				err = s.sessions.Save(r.Context(), sid, sess)
			}
			if err == nil {
				hlog.FromRequest(r).Debug().Str("session", sid).Str("category", sess.Category).Msg("new game session")
			}
		}
		if err != nil {
			hlog.FromRequest(r).Error().Err(err).Str("session", sid).Msg("load game session")
			http.Error(w, "session unavailable", http.StatusInternalServerError)
			return
		}
		ctx := context.WithValue(r.Context(), ctxGameKey{}, &play{id: sid, session: sess})
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// playFrom returns the game session loaded by withGame.
func playFrom(r *http.Request) *play {
	p, _ := r.Context().Value(ctxGameKey{}).(*play)
	return p
}

// save writes the request's session back to the store.
func (s *Server) save(r *http.Request, p *play) error {
	if err := s.sessions.Save(r.Context(), p.id, p.session); err != nil {
		hlog.FromRequest(r).Error().Err(err).Str("session", p.id).Msg("save game session")
		return err
	}
	return nil
}

// ensureSessionID returns the session cookie value or sets a new one.
// The cookie is refreshed on every request; withGame touches the stored
// session, so players who only view pages are not pruned either.
func (s *Server) ensureSessionID(w http.ResponseWriter, r *http.Request) string {
	id := ""
	if c, err := r.Cookie(s.cfg.SessionCookie); err == nil {
		if _, err := uuid.Parse(c.Value); err == nil {
			id = c.Value
		}
	}
	if id == "" {
		id = uuid.NewString()
	}
	http.SetCookie(w, &http.Cookie{
		Name:     s.cfg.SessionCookie,
		Value:    id,
		Path:     "/",
		HttpOnly: true,
		Secure:   s.cfg.Production(),
		SameSite: s.sameSite(),
		MaxAge:   int(s.cfg.SessionTTL / time.Second),
	})
	return id
}

// sameSite picks the cookie SameSite mode for the environment.
func (s *Server) sameSite() http.SameSite {
	if s.cfg.Production() {
		return http.SameSiteNoneMode // required for third‑party contexts when Secure
	}
	return http.SameSiteLaxMode
}
