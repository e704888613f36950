// Package dashboard is the web side of the bot: Discord-OAuth-gated pages
// where the owner broadcasts announcement embeds and manages the
// reaction-role messages.
package dashboard

import (
	"crypto/rand"
	"embed"
	"encoding/hex"
	"html/template"
	"net/http"
	"strings"

	"github.com/bwmarrin/discordgo"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/sessions"
	"github.com/minetrade-gg/minetrade-bot/internal/listings"
	"github.com/minetrade-gg/minetrade-bot/internal/reactionrole"
	"github.com/minetrade-gg/minetrade-bot/internal/shared/audit"
	"github.com/minetrade-gg/minetrade-bot/internal/shared/config"
	"github.com/minetrade-gg/minetrade-bot/internal/shared/logging"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/oauth2"
)

//go:embed templates/*.html
var templatesFS embed.FS

type Server struct {
	cfg      config.Config
	bot      *discordgo.Session
	store    *reactionrole.Store
	manager  *reactionrole.Manager
	listings *listings.Store
	oauth    *oauth2.Config
	cookies  *sessions.CookieStore
	feed     *Feed
	audit    *audit.Logger
	tmpl     *template.Template
}

func NewServer(cfg config.Config, bot *discordgo.Session, store *reactionrole.Store, ls *listings.Store, aud *audit.Logger, feed *Feed) *Server {
	return &Server{
		cfg:      cfg,
		bot:      bot,
		store:    store,
		manager:  &reactionrole.Manager{Chat: bot, Store: store, FooterIcon: cfg.FooterIcon, Log: logging.L()},
		listings: ls,
		oauth:    newOAuthConfig(cfg.ClientID, cfg.ClientSecret, cfg.OAuthCallbackURL),
		cookies:  sessions.NewCookieStore([]byte(cfg.SessionSecret)),
		feed:     feed,
		audit:    aud,
		tmpl:     template.Must(template.ParseFS(templatesFS, "templates/*.html")),
	}
}

func (s *Server) Start() error {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)

	r.Get("/", func(w http.ResponseWriter, req *http.Request) {
		http.Redirect(w, req, "/dashboard", http.StatusFound)
	})
	r.Get("/login", s.handleLogin)
	r.Get("/callback", s.handleCallback)
	r.Get("/logout", s.handleLogout)
	r.Handle("/metrics", promhttp.Handler())

	r.Group(func(r chi.Router) {
		r.Use(s.requireOwner)
		r.Get("/dashboard", s.handleDashboard)
		r.Post("/send", s.handleSendEmbed)
		r.Post("/reactionrole", s.handleReactionRoleCreate)
		r.Post("/reactionrole/update", s.handleReactionRoleUpdate)
		r.Post("/reactionrole/delete", s.handleReactionRoleDelete)
		r.Get("/ws", s.feed.handleWS)
	})

	logging.L().Info("dashboard listening", "addr", s.cfg.DashboardAddr)
	return http.ListenAndServe(s.cfg.DashboardAddr, r)
}

func (s *Server) memberHasOwnerRole(roleIDs []string) (bool, error) {
	roles, err := s.bot.GuildRoles(s.cfg.GuildID)
	if err != nil {
		return false, err
	}
	want := strings.ToLower(s.cfg.OwnerRoleName)
	byID := make(map[string]string, len(roles))
	for _, role := range roles {
		byID[role.ID] = strings.ToLower(role.Name)
	}
	for _, id := range roleIDs {
		if byID[id] == want {
			return true, nil
		}
	}
	return false, nil
}

type dashboardView struct {
	User     identity
	Channels []*discordgo.Channel
	Roles    []*discordgo.Role
	Configs  map[string]reactionrole.Config
	Listings []listings.Listing
	// PairSlots drives the fixed emoji_<i>/role_<i> rows on the create
	// form; the backend accepts any number of indexed fields.
	PairSlots []int
	Message   string
}

// view assembles the data every dashboard render needs.
func (s *Server) view(req *http.Request, message string) (dashboardView, error) {
	v := dashboardView{
		User:      identityFrom(req.Context()),
		PairSlots: []int{0, 1, 2, 3, 4},
		Message:   message,
	}

	channels, err := s.bot.GuildChannels(s.cfg.GuildID)
	if err != nil {
		return v, err
	}
	for _, ch := range channels {
		if ch.Type == discordgo.ChannelTypeGuildText {
			v.Channels = append(v.Channels, ch)
		}
	}

	roles, err := s.bot.GuildRoles(s.cfg.GuildID)
	if err != nil {
		return v, err
	}
	for _, role := range roles {
		if role.Name != "@everyone" {
			v.Roles = append(v.Roles, role)
		}
	}

	v.Configs = s.store.All()
	if ls, err := s.listings.Active(req.Context()); err == nil {
		v.Listings = ls
	}
	return v, nil
}

func (s *Server) render(w http.ResponseWriter, req *http.Request, message string) {
	v, err := s.view(req, message)
	if err != nil {
		logging.L().Error("dashboard view build failed", "error", err)
		http.Error(w, "❌ Server not found. Is the bot in your server?", http.StatusInternalServerError)
		return
	}
	if err := s.tmpl.ExecuteTemplate(w, "dashboard.html", v); err != nil {
		logging.L().Error("dashboard render failed", "error", err)
	}
}

func (s *Server) handleDashboard(w http.ResponseWriter, req *http.Request) {
	s.render(w, req, "")
}

func randomState() string {
	b := make([]byte, 16)
	_, _ = rand.Read(b)
	return hex.EncodeToString(b)
}
