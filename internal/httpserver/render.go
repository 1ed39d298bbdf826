package httpserver

import (
	"bytes"
	"encoding/json"
	"fmt"
	"html/template"
	"net/http"

	"github.com/rs/zerolog/hlog"

	"github.com/robalobadob/wordguess/assets"
	"github.com/robalobadob/wordguess/internal/accounts"
	"github.com/robalobadob/wordguess/internal/game"
)

// pageNames are the pages that get their own template set; each one defines
// the "content" block rendered inside the shared layout.
var pageNames = []string{"index", "win", "lose", "highscores"}

var templateFuncs = template.FuncMap{
	"inc": func(i int) int { return i + 1 },
}

// parsePages builds one template set per page from the embedded templates.
func parsePages() (map[string]*template.Template, error) {
	pages := make(map[string]*template.Template, len(pageNames))
	for _, name := range pageNames {
		t, err := template.New(name).Funcs(templateFuncs).ParseFS(assets.Templates(),
			"layout.html", "partials.html", name+".html")
		if err != nil {
			return nil, fmt.Errorf("parse %s page: %w", name, err)
		}
		pages[name] = t
	}
	return pages, nil
}

// pageData is what every page template receives.
type pageData struct {
	View        game.View
	LoggedIn    bool
	SocialLogin bool
	Leaderboard []accounts.LeaderRow
}

// newPageData fills the fields shared by every page.
func (s *Server) newPageData(r *http.Request, sess *game.Session) pageData {
	d := pageData{
		LoggedIn:    currentUser(r) != nil,
		SocialLogin: s.social != nil,
	}
	if sess != nil {
		d.View = sess.View(userName(r))
	} else {
		d.View = game.View{UserName: userName(r)}
		if d.View.UserName == "" {
			d.View.UserName = game.AnonymousName
		}
	}
	return d
}

// render executes the named page into a buffer so a template error never
// leaves a half-written response.
func (s *Server) render(w http.ResponseWriter, r *http.Request, page string, data pageData) {
	t, ok := s.pages[page]
	if !ok {
		http.Error(w, "unknown page", http.StatusInternalServerError)
		return
	}
	var buf bytes.Buffer
	if err := t.ExecuteTemplate(&buf, "layout", data); err != nil {
		hlog.FromRequest(r).Error().Err(err).Str("page", page).Msg("render")
		http.Error(w, "render failed", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = buf.WriteTo(w)
}

// writeJSON encodes v with the given status.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
