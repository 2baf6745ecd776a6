package discord

import (
	"github.com/bwmarrin/discordgo"
	"github.com/charmbracelet/log"
	"github.com/hunterjsb/arabot/internal/config"
	"github.com/sashabaranov/go-openai"
)

// DiscordBot represents a Discord bot
type DiscordBot struct {
	Session         *discordgo.Session
	Config          *config.Bot
	Assistant       *Assistant
	Database        *DatabaseCache
	Log             *log.Logger
	BotUserID       string
	GuildID         string
	Commands        []*discordgo.ApplicationCommand
	CommandHandlers map[string]func(s *discordgo.Session, i *discordgo.InteractionCreate)
}

// Assistant wraps the OpenAI API client used by /chat and /translate
type Assistant struct {
	client      *openai.Client
	maxTokens   int
	temperature float32
}
