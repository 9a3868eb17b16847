package bot

import (
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/bwmarrin/discordgo"

	"anonbot/config"
	"anonbot/handler"
	"anonbot/handler/anon"
	"anonbot/transport"
)

// Start wires the bot together, opens the gateway connection and blocks
// until SIGINT or SIGTERM.
func Start(cfg *config.Config, log *slog.Logger) error {
	dg, err := discordgo.New("Bot " + cfg.Token)
	if err != nil {
		return fmt.Errorf("creating Discord session: %w", err)
	}

	// DM intents plus message content; guilds so destination channels
	// resolve through the state cache.
	dg.Identify.Intents = discordgo.IntentsDirectMessages |
		discordgo.IntentsMessageContent |
		discordgo.IntentsGuilds

	tr := transport.NewDiscord(dg)
	registry := anon.NewRegistry()
	relay := anon.NewRelay(tr, cfg.AnonymousChannelID, cfg.AuditChannelID, log)
	inbound := anon.NewInbound(registry, relay, tr, cfg.ConfirmTimeout(), log)

	router := handler.NewRouter()
	anon.RegisterDecisionHandlers(router, registry, log)

	dg.AddHandler(router.OnInteractionCreate)
	dg.AddHandler(onMessageCreate(inbound))

	if err := dg.Open(); err != nil {
		return fmt.Errorf("opening connection: %w", err)
	}
	defer dg.Close()

	verifyChannels(dg, cfg, log)

	log.Info("bot is now running, press CTRL-C to exit",
		"anonymous_channel_id", cfg.AnonymousChannelID,
		"audit_channel_id", cfg.AuditChannelID)

	sc := make(chan os.Signal, 1)
	signal.Notify(sc, syscall.SIGINT, syscall.SIGTERM, os.Interrupt)
	<-sc
	return nil
}

// verifyChannels checks that both destination channels are reachable and
// warns the operator about any that are not. Non-fatal: the relay reports
// misconfiguration per submission.
func verifyChannels(dg *discordgo.Session, cfg *config.Config, log *slog.Logger) {
	channels := []struct {
		role string
		id   string
	}{
		{"anonymous", cfg.AnonymousChannelID},
		{"audit", cfg.AuditChannelID},
	}
	for _, c := range channels {
		if _, err := dg.Channel(c.id); err != nil {
			log.Warn("could not find destination channel",
				"role", c.role, "channel_id", c.id, "error", err)
		}
	}
}
