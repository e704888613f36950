package discord

import (
	"sync"

	"github.com/bwmarrin/discordgo"
	"github.com/minetrade-gg/minetrade-bot/internal/listings"
	"github.com/minetrade-gg/minetrade-bot/internal/mojang"
	"github.com/minetrade-gg/minetrade-bot/internal/reactionrole"
	"github.com/minetrade-gg/minetrade-bot/internal/shared/audit"
	"github.com/minetrade-gg/minetrade-bot/internal/shared/config"
	"github.com/minetrade-gg/minetrade-bot/internal/shared/logging"
	"github.com/minetrade-gg/minetrade-bot/internal/skyblock"
)

// feed receives one-line activity events for the dashboard's live view.
type feed interface {
	Publish(kind, text string)
}

type App struct {
	Session  *discordgo.Session
	Cfg      config.Config
	RRStore  *reactionrole.Store
	Listings *listings.Store
	Mojang   *mojang.Client
	SkyBlock *skyblock.Client
	Audit    *audit.Logger
	Feed     feed

	dispatcher *reactionrole.Dispatcher

	// Pending profile-selection prompts, keyed by prompt token. Each
	// waiter owns a buffered channel; the component handler delivers the
	// chosen value, or the waiter times out and cleans up.
	selectMu sync.Mutex
	selects  map[string]chan string
}

func NewApp(sess *discordgo.Session, cfg config.Config, rr *reactionrole.Store, ls *listings.Store, aud *audit.Logger, fd feed) *App {
	a := &App{
		Session:  sess,
		Cfg:      cfg,
		RRStore:  rr,
		Listings: ls,
		Mojang:   mojang.New(),
		SkyBlock: skyblock.New(cfg.HypixelAPIKey),
		Audit:    aud,
		Feed:     fd,
		selects:  make(map[string]chan string),
	}
	a.dispatcher = &reactionrole.Dispatcher{
		Store: rr,
		Roles: sess,
		Log:   logging.L(),
	}
	if fd != nil {
		a.dispatcher.Announce = fd.Publish
	}
	return a
}

func (a *App) Register() error {
	a.Session.AddHandler(a.onReady)
	a.Session.AddHandler(a.onInteraction)
	a.Session.AddHandler(a.onGuildMemberAdd)
	a.Session.AddHandler(a.onReactionAdd)
	a.Session.AddHandler(a.onReactionRemove)

	var adminPerm int64 = discordgo.PermissionAdministrator

	cmds := []*discordgo.ApplicationCommand{
		newListCommand(),
		newStatsCommand(),
		newSetupRolesCommand(adminPerm),
		newSetupPanelsCommand(adminPerm),
	}

	for _, c := range cmds {
		if _, err := a.Session.ApplicationCommandCreate(a.Session.State.User.ID, "", c); err != nil {
			logging.L().Error("create command failed", "command", c.Name, "err", err)
			return err
		}
	}
	return nil
}

func (a *App) publish(kind, text string) {
	if a.Feed != nil {
		a.Feed.Publish(kind, text)
	}
}
