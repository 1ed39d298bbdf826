// internal/httpserver/server.go
//
// HTTP server wiring for the word-guess game.
// Responsibilities:
//   - Router + middleware (request IDs, request logs, panic recovery, timeouts).
//   - Server-rendered pages: "/", "/guess", "/win", "/lose", "/reset", "/again", "/highscores".
//   - JSON API under /api for the same game operations plus local accounts.
//   - Social login (GitHub) when configured.
//
// Notes:
//   - Every request carries a game session cookie; the session is loaded (or a
//     first round is started) before any game route runs.
//   - Optional auth decorates requests with the signed-in user so the page can
//     greet them and finished rounds count towards their stats. Guests can play.
//   - Require-auth middleware enforces presence and validity of a JWT.

package httpserver

import (
	"context"
	"errors"
	"html/template"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/robalobadob/wordguess/assets"
	"github.com/robalobadob/wordguess/internal/accounts"
	"github.com/robalobadob/wordguess/internal/config"
	"github.com/robalobadob/wordguess/internal/store"
	"github.com/robalobadob/wordguess/internal/words"
)

// Server bundles the router with the game's collaborators.
type Server struct {
	r        *chi.Mux
	cfg      config.Config
	words    []words.Entry
	sessions store.Store
	accounts *accounts.Store
	pages    map[string]*template.Template
	social   *socialLogin // nil when social login is not configured
}

// New constructs a Server, installs middleware, and registers routes.
func New(cfg config.Config, list []words.Entry, sessions store.Store, users *accounts.Store) (*Server, error) {
	if len(list) == 0 {
		return nil, words.ErrEmpty
	}
	pages, err := parsePages()
	if err != nil {
		return nil, err
	}
	s := &Server{
		r:        chi.NewRouter(),
		cfg:      cfg,
		words:    list,
		sessions: sessions,
		accounts: users,
		pages:    pages,
	}
	if cfg.GitHub.Enabled() {
		s.social = newGitHubLogin(cfg.GitHub)
	}

	// --- middleware ---
	s.r.Use(chimw.RequestID)                 // add X-Request-ID
	s.r.Use(chimw.RealIP)                    // set RemoteAddr from X-Forwarded-For etc.
	s.r.Use(requestLogger())                 // zerolog access log
	s.r.Use(chimw.Recoverer)                 // recover from panics
	s.r.Use(chimw.Timeout(10 * time.Second)) // bound handler time
	s.r.Use(s.withOptionalAuth())            // greet signed-in players

	// --- diagnostics + assets ---
	s.r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		_, _ = w.Write([]byte(`{"ok":true}`))
	})
	s.r.Handle("/static/*", http.StripPrefix("/static/", http.FileServer(http.FS(assets.Static()))))

	// --- social login + logout ---
	s.r.Get("/logout", s.handleLogoutPage)
	if s.social != nil {
		s.r.Get("/auth/github", s.handleSocialStart)
		s.r.Get("/auth/github/callback", s.handleSocialCallback)
	}
	s.r.Get("/highscores", s.handleHighscores)

	// --- pages (game session required) ---
	s.r.Group(func(r chi.Router) {
		r.Use(s.withGame)
		r.Get("/", s.handleIndex)
		r.Post("/guess", s.handleGuessForm)
		r.Get("/win", s.handleResult("win"))
		r.Get("/lose", s.handleResult("lose"))
		r.Get("/reset", s.handleResetPage)
		r.Post("/reset", s.handleResetPage)
		r.Get("/again", s.handleAgainPage)
		r.Post("/again", s.handleAgainPage)
	})

	// --- JSON API ---
	s.r.Route("/api", func(r chi.Router) {
		r.Use(jsonContentType)
		r.Group(func(r chi.Router) {
			r.Use(s.withGame)
			r.Get("/game", s.handleGameJSON)
			r.Post("/guess", s.handleGuessJSON)
			r.Post("/reset", s.handleResetJSON)
			r.Post("/again", s.handleAgainJSON)
		})
		r.Get("/highscores", s.handleHighscoresJSON)
		s.mountAuthRoutes(r)
		r.NotFound(func(w http.ResponseWriter, r *http.Request) {
			writeError(w, http.StatusNotFound, "not_found")
		})
	})

	return s, nil
}

// Start serves HTTP on addr until ctx is cancelled, then drains in-flight
// requests for up to five seconds.
func (s *Server) Start(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.r,
		ReadHeaderTimeout: 5 * time.Second,
	}
	errc := make(chan error, 1)
	go func() { errc <- srv.ListenAndServe() }()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errc; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Router exposes the internal router (useful for tests).
func (s *Server) Router() chi.Router { return s.r }

// Handler returns the server as an http.Handler.
func (s *Server) Handler() http.Handler { return s.r }
