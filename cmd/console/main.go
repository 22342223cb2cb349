package main

import (
	"log"
	"os"

	"github.com/Gurkunwar/dailybot-console/internal/cache"
	"github.com/Gurkunwar/dailybot-console/internal/client"
	"github.com/Gurkunwar/dailybot-console/internal/config"
	"github.com/Gurkunwar/dailybot-console/internal/console"
	"github.com/Gurkunwar/dailybot-console/internal/invite"
	"github.com/Gurkunwar/dailybot-console/internal/query"
	"github.com/Gurkunwar/dailybot-console/internal/session"
	"github.com/Gurkunwar/dailybot-console/internal/snapshot"
)

// app wires the full stack: config -> session -> client -> store ->
// coordinator -> service.
type app struct {
	cfg      config.Config
	sessions *session.Store
	service  *console.Service
}

func newApp() *app {
	cfg := config.Load()

	var tokens client.TokenSource
	var sessions *session.Store
	if rdb, err := session.InitRedis(); err == nil {
		sessions = session.NewStore(rdb)
		tokens = sessions
	} else {
		log.Printf("Warning: redis unavailable (%v), falling back to DAILYBOT_TOKEN", err)
		tokens = client.StaticToken(os.Getenv("DAILYBOT_TOKEN"))
	}

	snapshots, err := snapshot.Open(cfg.SnapshotPath)
	if err != nil {
		log.Printf("Warning: snapshot store unavailable: %v", err)
		snapshots = nil
	}

	api := client.New(cfg.APIBaseURL, tokens)
	coordinator := query.New(cache.NewStore())

	return &app{
		cfg:      cfg,
		sessions: sessions,
		service:  console.New(api, coordinator, snapshots),
	}
}

func (a *app) inviteURL(guildID string) string {
	return invite.BotURL(a.cfg.DiscordClientID, guildID)
}

func main() {
	log.SetFlags(0)

	if err := rootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
