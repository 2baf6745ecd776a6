package config

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/charmbracelet/log"
	"github.com/joho/godotenv"
)

// DefaultDatabasePath is where the bot keeps its gacha database
const DefaultDatabasePath = "./bot/res/database.json"

// Editor holds gachaedit configuration
type Editor struct {
	DatabasePath string `env:"GACHA_DATABASE" envDefault:"./bot/res/database.json"`
	LogLevel     string `env:"LOG_LEVEL" envDefault:"info"`
}

// Bot holds Discord bot configuration
type Bot struct {
	DiscordToken string        `env:"DISCORD_TOKEN"`
	OpenAIToken  string        `env:"OPENAI_API_KEY"`
	GuildID      string        `env:"GUILD_ID"`
	MaxTokens    int           `env:"MAX_TOKENS" envDefault:"150"`
	Temperature  float64       `env:"TEMPERATURE" envDefault:"0.7"`
	DatabasePath string        `env:"GACHA_DATABASE" envDefault:"./bot/res/database.json"`
	CacheTTL     time.Duration `env:"CACHE_TTL" envDefault:"30s"`
	LogLevel     string        `env:"LOG_LEVEL" envDefault:"info"`
}

// LoadDotEnv loads .env files into the environment. Missing files are ignored;
// variables already set are not overridden.
func LoadDotEnv(filenames ...string) error {
	if len(filenames) == 0 {
		filenames = []string{".env"}
	}
	for _, name := range filenames {
		if err := godotenv.Load(name); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("load %s: %w", name, err)
		}
	}
	return nil
}

// Parse fills a configuration struct from environment variables.
func Parse[T any]() (T, error) {
	var cfg T
	if err := env.Parse(&cfg); err != nil {
		return cfg, fmt.Errorf("parse env: %w", err)
	}
	return cfg, nil
}

// LoadEditor reads .env and the environment into an Editor config
func LoadEditor() (Editor, error) {
	if err := LoadDotEnv(); err != nil {
		return Editor{}, err
	}
	return Parse[Editor]()
}

// LoadBot reads .env and the environment into a Bot config
func LoadBot() (*Bot, error) {
	if err := LoadDotEnv(); err != nil {
		return nil, err
	}
	cfg, err := Parse[Bot]()
	if err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks the settings the bot cannot start without
func (c *Bot) Validate() error {
	if c.DiscordToken == "" {
		return fmt.Errorf("DISCORD_TOKEN is required")
	}
	if c.DatabasePath == "" {
		return fmt.Errorf("GACHA_DATABASE is required")
	}
	return nil
}

// NewLogger returns a logger writing to out at the named level (info when the
// level is empty or unknown). Timestamps are left out.
func NewLogger(out io.Writer, level string) *log.Logger {
	if out == nil {
		out = os.Stderr
	}
	logger := log.NewWithOptions(out, log.Options{ReportTimestamp: false})
	if lvl, err := log.ParseLevel(level); err == nil && level != "" {
		logger.SetLevel(lvl)
	}
	return logger
}

// Exitf logs a fatal message and exits with code 1.
func Exitf(logger *log.Logger, format string, args ...any) {
	logger.Errorf(format, args...)
	os.Exit(1)
}
