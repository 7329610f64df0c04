package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/pscheid92/blist"
	"github.com/pscheid92/blist/internal/adapter/discord"
	"github.com/pscheid92/blist/internal/adapter/metrics"
	"github.com/pscheid92/blist/internal/platform/config"
	"github.com/pscheid92/blist/internal/platform/logging"
	"github.com/pscheid92/blist/internal/platform/version"
)

func setupConfig() *config.Config {
	cfg, err := config.Load()
	if err != nil {
		// Use log before slog is initialized
		log.Fatalf("Failed to load config: %v", err)
	}
	return cfg
}

func setupDiscord(cfg *config.Config) *discordgo.Session {
	dg, err := discordgo.New("Bot " + cfg.DiscordToken)
	if err != nil {
		slog.Error("Failed to create Discord session", "error", err)
		os.Exit(1)
	}
	dg.Identify.Intents = discordgo.IntentsGuilds | discordgo.IntentsGuildMessages | discordgo.IntentMessageContent
	return dg
}

func setupClient(cfg *config.Config, dg *discordgo.Session, reg prometheus.Registerer) *blist.Client {
	var sink blist.EventSink = blist.EventSinkFunc(logVote)
	if cfg.VoteChannelID != "" {
		sink = discord.NewAnnouncer(dg, cfg.VoteChannelID)
	}

	client, err := blist.New(discord.NewSession(dg), cfg.BlistToken,
		blist.WithBaseURL(cfg.BlistBaseURL),
		blist.WithHTTPClient(&http.Client{Timeout: cfg.HTTPTimeout}),
		blist.WithMetrics(reg),
		blist.WithEventSink(sink),
		blist.WithErrorHandler(func(err error) {
			if errors.Is(err, blist.ErrStatsUnauthorized) {
				slog.Error("BLIST_TOKEN was rejected for this bot, autopost keeps retrying on schedule")
			}
		}),
	)
	if err != nil {
		slog.Error("Failed to create blist client", "error", err)
		os.Exit(1)
	}
	return client
}

func runGracefulShutdown(client *blist.Client, dg *discordgo.Session, status *statusServer) <-chan struct{} {
	done := make(chan struct{})
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-sigChan
		slog.Info("Shutdown signal received, cleaning up...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if err := client.Close(shutdownCtx); err != nil {
			slog.Error("Failed to stop blist client", "error", err)
		}
		if status != nil {
			if err := status.Shutdown(shutdownCtx); err != nil {
				slog.Error("Status server shutdown error", "error", err)
			}
		}
		if err := dg.Close(); err != nil {
			slog.Error("Failed to close Discord session", "error", err)
		}

		close(done)
	}()

	return done
}

func main() {
	cfg := setupConfig()

	logging.InitLogger(cfg.LogLevel, cfg.LogFormat)
	slog.Info("Votebot starting", "version", version.Version, "base_url", cfg.BlistBaseURL)

	reg := metrics.NewRegistry()
	dg := setupDiscord(cfg)
	client := setupClient(cfg, dg, reg)

	dg.AddHandler(newVoteCommand(client).handle)
	dg.AddHandler(func(_ *discordgo.Session, r *discordgo.Ready) {
		slog.Info("Discord session ready", "bot_id", r.User.ID, "guilds", len(r.Guilds))
	})

	if err := dg.Open(); err != nil {
		slog.Error("Failed to open Discord session", "error", err)
		os.Exit(1)
	}

	if cfg.AutopostMinutes > 0 {
		if err := client.StartAutopost(cfg.AutopostMinutes); err != nil {
			slog.Error("Failed to start autopost", "error", err)
			os.Exit(1)
		}
	}

	if cfg.WebhookEnabled {
		opts := blist.WebhookOptions{Path: cfg.WebhookPath, Event: cfg.WebhookEvent}
		if err := client.StartWebhook(cfg.WebhookPort, opts); err != nil {
			slog.Error("Failed to start webhook", "error", err)
			os.Exit(1)
		}
	}

	var status *statusServer
	if cfg.MetricsPort != "" {
		status = newStatusServer(reg)
		go func() {
			if err := status.Start(":" + cfg.MetricsPort); err != nil && !errors.Is(err, http.ErrServerClosed) {
				slog.Error("Status server error", "error", err)
			}
		}()
	}

	done := runGracefulShutdown(client, dg, status)
	slog.Info("Votebot running, press Ctrl+C to exit")
	<-done
}
