package main

import (
	"os"

	"github.com/hunterjsb/arabot/internal/config"
	"github.com/hunterjsb/arabot/internal/editor"
)

func main() {
	cfg, err := config.LoadEditor()
	if err != nil {
		config.Exitf(config.NewLogger(os.Stderr, ""), "Error loading configuration: %v", err)
	}
	logger := config.NewLogger(os.Stdout, cfg.LogLevel)

	if err := editor.Run(os.Args[1:], cfg, os.Stdout, logger); err != nil {
		config.Exitf(logger, "%v", err)
	}
}
