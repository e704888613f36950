package config

import "os"

type Config struct {
	DiscordToken      string
	ClientID          string
	ClientSecret      string
	GuildID           string
	OwnerRoleName     string
	FooterIcon        string
	TicketCategoryID  string
	WelcomeChannelID  string
	RestockRoleID     string
	HypixelAPIKey     string
	DashboardAddr     string
	SessionSecret     string
	OAuthCallbackURL  string
	ReactionRolesPath string
	DBPath            string
	StaffWebhookURL   string
}

func Load() Config {
	return Config{
		DiscordToken:      os.Getenv("TOKEN"),
		ClientID:          os.Getenv("CLIENT_ID"),
		ClientSecret:      os.Getenv("CLIENT_SECRET"),
		GuildID:           os.Getenv("GUILD_ID"),
		OwnerRoleName:     envDefault("OWNER_ROLE_NAME", "👑 Owner"),
		FooterIcon:        os.Getenv("FOOTER_ICON"),
		TicketCategoryID:  os.Getenv("CATEGORY_ID"),
		WelcomeChannelID:  os.Getenv("WELCOME_CHANNEL_ID"),
		RestockRoleID:     os.Getenv("RESTOCK_ROLE_ID"),
		HypixelAPIKey:     os.Getenv("HYPIXEL_API_KEY"),
		DashboardAddr:     envDefault("DASHBOARD_ADDR", ":3000"),
		SessionSecret:     envDefault("SESSION_SECRET", "minetrade_secret_key"),
		OAuthCallbackURL:  envDefault("OAUTH_CALLBACK_URL", "http://localhost:3000/callback"),
		ReactionRolesPath: envDefault("REACTION_ROLES_PATH", "reactionroles.json"),
		DBPath:            envDefault("DB_PATH", "minetrade.db"),
		StaffWebhookURL:   os.Getenv("STAFF_WEBHOOK_URL"),
	}
}

func envDefault(key, def string) string {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	return v
}
