package discord

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/bwmarrin/discordgo"
	"github.com/charmbracelet/log"
)

// SetupCloseHandler creates a handler that will catch SIGINT and SIGTERM signals
// and gracefully close the application
func SetupCloseHandler(logger *log.Logger, cleanupFunc func() error) {
	c := make(chan os.Signal, 2)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)
	go func() {
		sig := <-c
		os.Exit(closeOnSignal(logger, sig, cleanupFunc))
	}()
}

// closeOnSignal runs the cleanup for a received signal and returns the exit code.
func closeOnSignal(logger *log.Logger, sig os.Signal, cleanupFunc func() error) int {
	logger.Info("Shutting down...", "signal", sig)
	if err := cleanupFunc(); err != nil {
		logger.Error("Error during cleanup", "err", err)
		return 1
	}
	return 0
}

// optionMap indexes command options by name
func optionMap(options []*discordgo.ApplicationCommandInteractionDataOption) map[string]*discordgo.ApplicationCommandInteractionDataOption {
	m := make(map[string]*discordgo.ApplicationCommandInteractionDataOption, len(options))
	for _, opt := range options {
		m[opt.Name] = opt
	}
	return m
}

// stringOption returns the named string option, or def when it is absent
func stringOption(options map[string]*discordgo.ApplicationCommandInteractionDataOption, name, def string) string {
	if opt, ok := options[name]; ok {
		if v := opt.StringValue(); v != "" {
			return v
		}
	}
	return def
}
