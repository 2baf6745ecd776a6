package main

import (
	"os"

	"github.com/hunterjsb/arabot/internal/config"
	"github.com/hunterjsb/arabot/internal/discord"
)

func main() {
	logger := config.NewLogger(os.Stderr, os.Getenv("LOG_LEVEL"))

	// Load Discord bot configuration
	cfg, err := config.LoadBot()
	if err != nil {
		config.Exitf(logger, "Error loading configuration: %v", err)
	}

	// Validate configuration
	if err := cfg.Validate(); err != nil {
		config.Exitf(logger, "Configuration validation failed: %v", err)
	}

	// Create and start bot
	bot, err := discord.NewDiscordBot(cfg)
	if err != nil {
		config.Exitf(logger, "Error creating bot: %v", err)
	}

	logger.Info("Starting Discord bot...", "database", cfg.DatabasePath)
	if err := bot.Start(); err != nil {
		config.Exitf(logger, "Error starting bot: %v", err)
	}

	// Drop stale database snapshots between interactions
	stopJanitor := bot.Database.StartJanitor(cfg.CacheTTL)

	// Set up graceful shutdown
	discord.SetupCloseHandler(logger, func() error {
		logger.Info("Shutting down bot...")
		stopJanitor()
		return bot.Stop()
	})

	// Block main goroutine indefinitely
	logger.Info("Bot is now running. Press CTRL-C to exit.")
	select {}
}
