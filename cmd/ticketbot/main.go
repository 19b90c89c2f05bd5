// Command ticketbot runs the support-ticket Discord bot.
//
// Usage:
//
//	export DISCORD_TOKEN="your-bot-token"
//	export TICKET_STAFF_ROLE_ID="staff-role-snowflake"
//	go run ./cmd/ticketbot
//
// Then, in a Discord channel where the bot is present, type !ticket to post
// the support panel. Users open tickets through the panel's category menu;
// staff claim and close them through the buttons on each ticket channel's
// welcome message.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/bwmarrin/discordgo"
	"github.com/oklahomer/go-kasumi/logger"
	"github.com/oklahomer/go-sarah/v4"

	"github.com/nameserve/ticketbot/internal/bot"
	"github.com/nameserve/ticketbot/internal/config"
	"github.com/nameserve/ticketbot/internal/discord"
	"github.com/nameserve/ticketbot/internal/ticket"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %s\n", err)
		os.Exit(1)
	}

	// Set up the Discord adapter configuration.
	adapterConfig := discord.NewConfig()
	adapterConfig.Token = cfg.Token

	// The ticket controller and the sarah adapter share one session.
	session, err := discordgo.New("Bot " + cfg.Token)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create Discord session: %s\n", err)
		os.Exit(1)
	}
	session.Identify.Intents = adapterConfig.Intents

	store := ticket.NewStore()
	archiver := ticket.NewArchiver(session, cfg.TranscriptLogChannelID)
	controller := ticket.NewController(session, store, archiver, ticket.ControllerConfig{
		StaffRoleID:      cfg.StaffRoleID,
		ParentCategoryID: cfg.ParentCategoryID,
		CloseDelay:       cfg.CloseDelay,
	})
	dispatcher := bot.NewDispatcher(session, controller)

	adapter, err := discord.NewAdapter(
		adapterConfig,
		discord.WithSession(session),
		discord.WithInteractionHandler(dispatcher.HandleInteraction),
	)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create adapter: %s\n", err)
		os.Exit(1)
	}

	// Register the bot and the panel command with go-sarah.
	sarah.RegisterBot(sarah.NewBot(adapter))
	bot.RegisterPanelCommand()

	// Set up a context that cancels on SIGINT or SIGTERM.
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	// Start go-sarah's lifecycle management.
	err = sarah.Run(ctx, sarah.NewConfig())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to run: %s\n", err)
		os.Exit(1)
	}

	logger.Infof("Ticket bot is running. Press Ctrl+C to stop.")

	// Block until shutdown signal.
	<-ctx.Done()

	logger.Infof("Shutting down...")
}
