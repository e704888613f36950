package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"

	"github.com/bwmarrin/discordgo"
	"github.com/minetrade-gg/minetrade-bot/internal/dashboard"
	"github.com/minetrade-gg/minetrade-bot/internal/discord"
	"github.com/minetrade-gg/minetrade-bot/internal/listings"
	"github.com/minetrade-gg/minetrade-bot/internal/reactionrole"
	"github.com/minetrade-gg/minetrade-bot/internal/shared/audit"
	"github.com/minetrade-gg/minetrade-bot/internal/shared/config"
	"github.com/minetrade-gg/minetrade-bot/internal/shared/logging"
)

func main() {
	logging.BootstrapFromEnv()

	cfg := config.Load()
	if cfg.DiscordToken == "" {
		log.Fatal("TOKEN not set")
	}

	// Discord session
	sess, err := discordgo.New("Bot " + cfg.DiscordToken)
	if err != nil {
		log.Fatalf("discord init: %v", err)
	}
	sess.Identify.Intents = discordgo.IntentsGuilds |
		discordgo.IntentsGuildMessages |
		discordgo.IntentsGuildMembers |
		discordgo.IntentsGuildMessageReactions |
		discordgo.IntentMessageContent

	if err := sess.Open(); err != nil {
		log.Fatalf("discord open: %v", err)
	}

	rrStore, err := reactionrole.Open(cfg.ReactionRolesPath)
	if err != nil {
		log.Fatalf("reaction role store: %v", err)
	}

	lsStore, err := listings.Open(cfg.DBPath)
	if err != nil {
		log.Fatalf("listings store: %v", err)
	}

	aud := audit.New(cfg.StaffWebhookURL)
	feed := dashboard.NewFeed()

	app := discord.NewApp(sess, cfg, rrStore, lsStore, aud, feed)
	if err := app.Register(); err != nil {
		log.Fatalf("register: %v", err)
	}

	dash := dashboard.NewServer(cfg, sess, rrStore, lsStore, aud, feed)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		if err := dash.Start(); err != nil {
			log.Fatalf("dashboard server error: %v", err)
		}
	}()

	log.Println("Bot running. Ctrl+C to exit.")
	<-ctx.Done()

	_ = sess.Close()
	_ = lsStore.Close()
	log.Println("Shutdown.")
}
