// internal/httpserver/routes_game.go
//
// Game handlers. The HTML pages follow post/redirect/get: a guess is applied,
// the session saved, and the browser sent to "/", "/win" or "/lose".
// The JSON API exposes the same operations and answers with the masked view.

package httpserver

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/rs/zerolog/hlog"

	"github.com/robalobadob/wordguess/internal/accounts"
	"github.com/robalobadob/wordguess/internal/game"
)

// applyGuess runs one guess against the request's session, records a
// finished round and saves. Repeats and guesses after the round ended leave
// the session unchanged and are not saved. A *game.ValidationError is
// returned after the session (with its LastError) has been saved.
func (s *Server) applyGuess(r *http.Request, p *play, raw string) (game.Outcome, error) {
	outcome, guessErr := p.session.Guess(raw)
	var invalid *game.ValidationError
	if guessErr != nil && !errors.As(guessErr, &invalid) {
		return "", guessErr
	}
	if outcome == game.OutcomeIgnored || outcome == game.OutcomeRepeat {
		return outcome, nil
	}
	if outcome.Finished() {
		s.recordRound(r, p)
	}
	if err := s.save(r, p); err != nil {
		return outcome, err
	}
	return outcome, guessErr
}

// recordRound stores the finished round; failures are logged, not surfaced.
func (s *Server) recordRound(r *http.Request, p *play) {
	userID := ""
	if u := currentUser(r); u != nil {
		userID = u.ID
	}
	res := accounts.ResultFromSession(userID, p.id, p.session)
	if err := s.accounts.RecordRound(r.Context(), res); err != nil {
		hlog.FromRequest(r).Warn().Err(err).Str("session", p.id).Msg("record round")
		return
	}
	hlog.FromRequest(r).Info().
		Str("session", p.id).
		Str("user", userID).
		Str("status", res.Status).
		Int("misses", res.Misses).
		Msg("round finished")
}

// resultPath is where the browser goes after a guess.
func resultPath(st game.Status) string {
	switch st {
	case game.StatusWon:
		return "/win"
	case game.StatusLost:
		return "/lose"
	default:
		return "/"
	}
}

// ------------------------------- HTML pages --------------------------------

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	p := playFrom(r)
	data := s.newPageData(r, p.session)
	// The validation message is shown once.
	if p.session.LastError != "" {
		p.session.ClearError()
		if err := s.save(r, p); err != nil {
			http.Error(w, "session unavailable", http.StatusInternalServerError)
			return
		}
	}
	s.render(w, r, "index", data)
}

func (s *Server) handleGuessForm(w http.ResponseWriter, r *http.Request) {
	p := playFrom(r)
	if err := r.ParseForm(); err != nil {
		http.Error(w, "bad form", http.StatusBadRequest)
		return
	}
	_, err := s.applyGuess(r, p, r.PostFormValue("letter"))
	var invalid *game.ValidationError
	if err != nil && !errors.As(err, &invalid) {
		http.Error(w, "session unavailable", http.StatusInternalServerError)
		return
	}
	http.Redirect(w, r, resultPath(p.session.Status), http.StatusSeeOther)
}

// handleResult renders the win or lose page; anything else goes back to "/".
func (s *Server) handleResult(page string) http.HandlerFunc {
	want := game.StatusWon
	if page == "lose" {
		want = game.StatusLost
	}
	return func(w http.ResponseWriter, r *http.Request) {
		p := playFrom(r)
		if p.session.Status != want {
			http.Redirect(w, r, resultPath(p.session.Status), http.StatusSeeOther)
			return
		}
		s.render(w, r, page, s.newPageData(r, p.session))
	}
}

func (s *Server) handleResetPage(w http.ResponseWriter, r *http.Request) {
	p := playFrom(r)
	if err := p.session.ResetHistory(); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	if err := s.save(r, p); err != nil {
		http.Error(w, "session unavailable", http.StatusInternalServerError)
		return
	}
	http.Redirect(w, r, resultPath(p.session.Status), http.StatusSeeOther)
}

func (s *Server) handleAgainPage(w http.ResponseWriter, r *http.Request) {
	p := playFrom(r)
	if err := p.session.NewRound(s.words); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	if err := s.save(r, p); err != nil {
		http.Error(w, "session unavailable", http.StatusInternalServerError)
		return
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (s *Server) handleHighscores(w http.ResponseWriter, r *http.Request) {
	rows, err := s.accounts.Leaderboard(r.Context(), 20)
	if err != nil {
		hlog.FromRequest(r).Error().Err(err).Msg("leaderboard")
		http.Error(w, "high scores unavailable", http.StatusInternalServerError)
		return
	}
	data := s.newPageData(r, nil)
	data.Leaderboard = rows
	s.render(w, r, "highscores", data)
}

// -------------------------------- JSON API ---------------------------------

type guessReq struct {
	Letter string `json:"letter"`
}

type guessResp struct {
	Outcome game.Outcome `json:"outcome,omitempty"`
	Error   string       `json:"error,omitempty"`
	Game    game.View    `json:"game"`
}

func (s *Server) handleGameJSON(w http.ResponseWriter, r *http.Request) {
	p := playFrom(r)
	v := p.session.View(userName(r))
	if p.session.LastError != "" {
		p.session.ClearError()
		if err := s.save(r, p); err != nil {
			writeError(w, http.StatusInternalServerError, "session_unavailable")
			return
		}
	}
	writeJSON(w, http.StatusOK, v)
}

func (s *Server) handleGuessJSON(w http.ResponseWriter, r *http.Request) {
	p := playFrom(r)
	var body guessReq
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json")
		return
	}
	outcome, err := s.applyGuess(r, p, body.Letter)
	var invalid *game.ValidationError
	switch {
	case errors.As(err, &invalid):
		writeJSON(w, http.StatusBadRequest, guessResp{Error: invalid.Message, Game: p.session.View(userName(r))})
		return
	case err != nil:
		writeError(w, http.StatusInternalServerError, "session_unavailable")
		return
	}
	writeJSON(w, http.StatusOK, guessResp{Outcome: outcome, Game: p.session.View(userName(r))})
}

func (s *Server) handleResetJSON(w http.ResponseWriter, r *http.Request) {
	p := playFrom(r)
	if err := p.session.ResetHistory(); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if err := s.save(r, p); err != nil {
		writeError(w, http.StatusInternalServerError, "session_unavailable")
		return
	}
	writeJSON(w, http.StatusOK, p.session.View(userName(r)))
}

func (s *Server) handleAgainJSON(w http.ResponseWriter, r *http.Request) {
	p := playFrom(r)
	if err := p.session.NewRound(s.words); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if err := s.save(r, p); err != nil {
		writeError(w, http.StatusInternalServerError, "session_unavailable")
		return
	}
	writeJSON(w, http.StatusOK, p.session.View(userName(r)))
}

func (s *Server) handleHighscoresJSON(w http.ResponseWriter, r *http.Request) {
	rows, err := s.accounts.Leaderboard(r.Context(), 20)
	if err != nil {
		hlog.FromRequest(r).Error().Err(err).Msg("leaderboard")
		writeError(w, http.StatusInternalServerError, "db_error")
		return
	}
	writeJSON(w, http.StatusOK, rows)
}
