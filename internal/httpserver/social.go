// internal/httpserver/social.go
//
// GitHub social login (OAuth2 authorization code flow with PKCE).
// The state and verifier live in a short-lived HttpOnly cookie; on callback
// the code is exchanged, the profile fetched, and the user found or created
// by (provider, provider id). Sign-in then works like a local login: a JWT
// cookie is set and the player is sent back to the game.

package httpserver

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/hlog"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/github"

	"github.com/robalobadob/wordguess/internal/config"
)

const (
	providerGitHub   = "github"
	oauthStateCookie = "wordguess_oauth"
)

// socialLogin holds the OAuth2 client settings for one provider.
type socialLogin struct {
	provider   string
	oauth      *oauth2.Config
	profileURL string
}

// socialProfile is the subset of the provider's user document we use.
type socialProfile struct {
	ID    json.Number `json:"id"`
	Login string      `json:"login"`
	Name  string      `json:"name"`
}

// displayName prefers the full name and falls back to the login.
func (p socialProfile) displayName() string {
	if n := strings.TrimSpace(p.Name); n != "" {
		return n
	}
	return p.Login
}

func newGitHubLogin(c config.OAuthProvider) *socialLogin {
	endpoint := github.Endpoint
	if c.AuthURL != "" {
		endpoint.AuthURL = c.AuthURL
	}
	if c.TokenURL != "" {
		endpoint.TokenURL = c.TokenURL
	}
	return &socialLogin{
		provider: providerGitHub,
		oauth: &oauth2.Config{
			ClientID:     c.ClientID,
			ClientSecret: c.ClientSecret,
			RedirectURL:  c.RedirectURL,
			Endpoint:     endpoint,
			Scopes:       c.Scopes,
		},
		profileURL: c.ProfileURL,
	}
}

// profile fetches the signed-in user's profile with the exchanged token.
func (l *socialLogin) profile(ctx context.Context, tok *oauth2.Token) (socialProfile, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, l.profileURL, nil)
	if err != nil {
		return socialProfile{}, err
	}
	req.Header.Set("Accept", "application/json")
	resp, err := l.oauth.Client(ctx, tok).Do(req)
	if err != nil {
		return socialProfile{}, fmt.Errorf("fetch profile: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return socialProfile{}, fmt.Errorf("fetch profile: status %d", resp.StatusCode)
	}
	var p socialProfile
	if err := json.NewDecoder(resp.Body).Decode(&p); err != nil {
		return socialProfile{}, fmt.Errorf("decode profile: %w", err)
	}
	if p.ID.String() == "" {
		return socialProfile{}, fmt.Errorf("profile has no id")
	}
	return p, nil
}

// handleSocialStart redirects to the provider's consent page.
func (s *Server) handleSocialStart(w http.ResponseWriter, r *http.Request) {
	state := uuid.NewString()
	verifier := oauth2.GenerateVerifier()
	http.SetCookie(w, &http.Cookie{
		Name:     oauthStateCookie,
		Value:    state + "." + verifier,
		Path:     "/auth/",
		HttpOnly: true,
		Secure:   s.cfg.Production(),
		SameSite: http.SameSiteLaxMode,
		MaxAge:   int((10 * time.Minute) / time.Second),
	})
	url := s.social.oauth.AuthCodeURL(state, oauth2.S256ChallengeOption(verifier))
	http.Redirect(w, r, url, http.StatusFound)
}

// handleSocialCallback completes the login and returns to the game.
func (s *Server) handleSocialCallback(w http.ResponseWriter, r *http.Request) {
	log := hlog.FromRequest(r)
	q := r.URL.Query()
	if e := q.Get("error"); e != "" {
		log.Warn().Str("error", e).Msg("social login declined")
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}

	c, err := r.Cookie(oauthStateCookie)
	if err != nil {
		http.Error(w, "login expired, try again", http.StatusBadRequest)
		return
	}
	http.SetCookie(w, &http.Cookie{Name: oauthStateCookie, Value: "", Path: "/auth/", MaxAge: -1})
	state, verifier, ok := strings.Cut(c.Value, ".")
	if !ok || state == "" || state != q.Get("state") {
		http.Error(w, "invalid login state", http.StatusBadRequest)
		return
	}

	tok, err := s.social.oauth.Exchange(r.Context(), q.Get("code"), oauth2.VerifierOption(verifier))
	if err != nil {
		log.Error().Err(err).Msg("oauth exchange")
		http.Error(w, "login failed", http.StatusBadGateway)
		return
	}
	p, err := s.social.profile(r.Context(), tok)
	if err != nil {
		log.Error().Err(err).Msg("oauth profile")
		http.Error(w, "login failed", http.StatusBadGateway)
		return
	}
	u, err := s.accounts.UpsertSocial(r.Context(), s.social.provider, p.ID.String(), p.displayName())
	if err != nil {
		log.Error().Err(err).Msg("upsert social user")
		http.Error(w, "login failed", http.StatusInternalServerError)
		return
	}
	tokStr, exp, err := s.signJWT(u.ID, u.DisplayName)
	if err != nil {
		log.Error().Err(err).Msg("sign token")
		http.Error(w, "login failed", http.StatusInternalServerError)
		return
	}
	s.setAuthCookie(w, tokStr, exp)
	log.Info().Str("user", u.ID).Str("provider", s.social.provider).Msg("social login")
	http.Redirect(w, r, "/", http.StatusSeeOther)
}
