package dashboard

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/minetrade-gg/minetrade-bot/internal/shared/logging"
	"golang.org/x/oauth2"
)

const sessionName = "minetrade_session"

type ctxKey int

const identityKey ctxKey = 0

// identity is the logged-in dashboard user, as reported by Discord's
// /users/@me once the OAuth dance completes.
type identity struct {
	ID       string `json:"id"`
	Username string `json:"username"`
}

func identityFrom(ctx context.Context) identity {
	id, _ := ctx.Value(identityKey).(identity)
	return id
}

func newOAuthConfig(clientID, clientSecret, callbackURL string) *oauth2.Config {
	return &oauth2.Config{
		ClientID:     clientID,
		ClientSecret: clientSecret,
		RedirectURL:  callbackURL,
		Scopes:       []string{"identify"},
		Endpoint: oauth2.Endpoint{
			AuthURL:  "https://discord.com/oauth2/authorize",
			TokenURL: "https://discord.com/api/oauth2/token",
		},
	}
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	state := randomState()
	sess, _ := s.cookies.Get(r, sessionName)
	sess.Values["oauth_state"] = state
	_ = sess.Save(r, w)
	http.Redirect(w, r, s.oauth.AuthCodeURL(state), http.StatusFound)
}

func (s *Server) handleCallback(w http.ResponseWriter, r *http.Request) {
	sess, _ := s.cookies.Get(r, sessionName)
	wantState, _ := sess.Values["oauth_state"].(string)
	if wantState == "" || r.URL.Query().Get("state") != wantState {
		http.Redirect(w, r, "/", http.StatusFound)
		return
	}

	token, err := s.oauth.Exchange(r.Context(), r.URL.Query().Get("code"))
	if err != nil {
		logging.L().Warn("oauth exchange failed", "error", err)
		http.Redirect(w, r, "/", http.StatusFound)
		return
	}

	me, err := fetchIdentity(r.Context(), s.oauth, token)
	if err != nil {
		logging.L().Warn("oauth identity fetch failed", "error", err)
		http.Redirect(w, r, "/", http.StatusFound)
		return
	}

	delete(sess.Values, "oauth_state")
	sess.Values["user_id"] = me.ID
	sess.Values["username"] = me.Username
	_ = sess.Save(r, w)
	http.Redirect(w, r, "/dashboard", http.StatusFound)
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	sess, _ := s.cookies.Get(r, sessionName)
	sess.Options.MaxAge = -1
	_ = sess.Save(r, w)
	http.Redirect(w, r, "/", http.StatusFound)
}

func fetchIdentity(ctx context.Context, cfg *oauth2.Config, token *oauth2.Token) (identity, error) {
	var me identity
	resp, err := cfg.Client(ctx, token).Get("https://discord.com/api/users/@me")
	if err != nil {
		return me, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return me, fmt.Errorf("users/@me: %s", resp.Status)
	}
	if err := json.NewDecoder(resp.Body).Decode(&me); err != nil {
		return me, err
	}
	return me, nil
}

// requireOwner gates the administrator flow: the session user must be a
// guild member holding the owner role (matched case-insensitively by
// name, which is the contract staff rely on when renaming). Failures are
// plain-text responses, like the rest of the admin surface.
func (s *Server) requireOwner(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sess, _ := s.cookies.Get(r, sessionName)
		userID, _ := sess.Values["user_id"].(string)
		username, _ := sess.Values["username"].(string)
		if userID == "" {
			http.Redirect(w, r, "/login", http.StatusFound)
			return
		}

		member, err := s.bot.GuildMember(s.cfg.GuildID, userID)
		if err != nil {
			fmt.Fprint(w, "❌ You are not a member of the server.")
			return
		}

		ok, err := s.memberHasOwnerRole(member.Roles)
		if err != nil {
			logging.L().Error("owner role check failed", "user_id", userID, "error", err)
			fmt.Fprint(w, "⚠️ Error checking permissions.")
			return
		}
		if !ok {
			fmt.Fprint(w, "🚫 Access denied – Owner role required.")
			return
		}

		ctx := context.WithValue(r.Context(), identityKey, identity{ID: userID, Username: username})
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
