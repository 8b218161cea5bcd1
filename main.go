package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/bwmarrin/discordgo"

	"eventbot/internal/config"
	"eventbot/internal/discord"
	"eventbot/internal/gcal"
	"eventbot/internal/lifecycle"
	"eventbot/internal/notify"
	"eventbot/internal/openai"
)

func main() {
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stderr, nil)))

	cfg, err := config.LoadFromEnv()
	if err != nil {
		fatal("loading configuration", err)
	}

	session, err := discordgo.New("Bot " + cfg.DiscordBotToken)
	if err != nil {
		fatal("creating Discord session", err)
	}

	completer := openai.NewClient(cfg.OpenAIAPIKey, cfg.OpenAIModel)

	ctrl := lifecycle.New(lifecycle.Config{
		Completer: completer,
		Scheduler: discord.NewScheduler(session),
		Transport: discord.NewTransport(session),
		Mirror:    initMirror(cfg),
		Notifier:  initNotifier(cfg),
		Timeout:   cfg.RequestTimeout,
	})

	client, err := discord.NewClient(discord.ClientConfig{
		Session:     session,
		Controller:  ctrl,
		ChannelName: cfg.BindChannelName,
		Timeout:     cfg.RequestTimeout,
	})
	if err != nil {
		fatal("creating Discord client", err)
	}

	if err := client.Connect(); err != nil {
		fatal("connecting to Discord", err)
	}
	slog.Info("eventbot started", "channel", cfg.BindChannelName, "model", cfg.OpenAIModel)

	waitForShutdown(client)
}

func initMirror(cfg *config.Config) lifecycle.Mirror {
	if !cfg.MirrorEnabled() {
		return nil
	}

	client, err := gcal.NewClient(context.Background(), cfg.GoogleCredentialsFile, cfg.GoogleTokenFile)
	if err != nil {
		slog.Warn("Google Calendar mirror disabled", "error", err)
		return nil
	}

	slog.Info("Google Calendar mirror configured", "calendar", cfg.GoogleCalendarID)
	return gcal.NewMirror(client, cfg.GoogleCalendarID)
}

func initNotifier(cfg *config.Config) lifecycle.Notifier {
	if !cfg.NotifyEnabled() {
		return nil
	}

	notifier := notify.NewEmailNotifier(cfg.ResendAPIKey, cfg.EmailFrom, cfg.EmailTo)
	if notifier == nil {
		return nil
	}
	slog.Info("email notifications configured (Resend)", "recipient", cfg.EmailTo)
	return notifier
}

func fatal(context string, err error) {
	slog.Error("Error "+context, "error", err)
	os.Exit(1)
}

func waitForShutdown(client *discord.Client) {
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)
	<-c

	slog.Info("shutting down")
	client.Disconnect()
}
