package discord

import (
	"fmt"

	"github.com/bwmarrin/discordgo"
	"github.com/hunterjsb/arabot/internal/config"
)

// Command definitions
var commands = []*discordgo.ApplicationCommand{
	{
		Name:        "chat",
		Description: "Chat with the LLM bot",
		Options: []*discordgo.ApplicationCommandOption{
			{
				Type:        discordgo.ApplicationCommandOptionString,
				Name:        "prompt",
				Description: "Your message to the AI",
				Required:    true,
			},
		},
	},
	{
		Name:        "pool",
		Description: "Show the loot table of a gacha pool",
		Options: []*discordgo.ApplicationCommandOption{
			{
				Type:        discordgo.ApplicationCommandOptionString,
				Name:        "code",
				Description: "Pool code (e.g., 'ex')",
				Required:    true,
			},
		},
	},
	{
		Name:        "pools",
		Description: "List the gacha pools",
	},
	{
		Name:        "translate",
		Description: "Translate a message",
		Options: []*discordgo.ApplicationCommandOption{
			{
				Type:        discordgo.ApplicationCommandOptionString,
				Name:        "text",
				Description: "Text to translate",
				Required:    true,
			},
			{
				Type:        discordgo.ApplicationCommandOptionString,
				Name:        "target",
				Description: "Target language (default: English)",
				Required:    false,
			},
		},
	},
}

// NewDiscordBot creates a new Discord bot with the provided configuration
func NewDiscordBot(cfg *config.Bot) (*DiscordBot, error) {
	session, err := discordgo.New("Bot " + cfg.DiscordToken)
	if err != nil {
		return nil, fmt.Errorf("error creating Discord session: %w", err)
	}

	bot := &DiscordBot{
		Session:         session,
		Config:          cfg,
		Database:        NewDatabaseCache(cfg.DatabasePath, cfg.CacheTTL),
		Log:             config.NewLogger(nil, cfg.LogLevel).WithPrefix("discord"),
		GuildID:         cfg.GuildID,
		CommandHandlers: make(map[string]func(s *discordgo.Session, i *discordgo.InteractionCreate)),
	}

	// Set up command handlers
	bot.CommandHandlers["pool"] = bot.handlePoolCommand
	bot.CommandHandlers["pools"] = bot.handlePoolsCommand
	if cfg.OpenAIToken != "" {
		bot.Assistant = NewAssistant(cfg.OpenAIToken, cfg.MaxTokens, cfg.Temperature)
		bot.CommandHandlers["chat"] = bot.handleChatCommand
		bot.CommandHandlers["translate"] = bot.handleTranslateCommand
	}

	return bot, nil
}

// Start starts the Discord bot
func (b *DiscordBot) Start() error {
	// Get bot user ID
	user, err := b.Session.User("@me")
	if err != nil {
		return fmt.Errorf("error getting bot user: %w", err)
	}
	b.BotUserID = user.ID

	// Register interaction handler
	b.Session.AddHandler(b.interactionHandler)

	// Open a websocket connection to Discord
	err = b.Session.Open()
	if err != nil {
		return fmt.Errorf("error opening Discord session: %w", err)
	}

	// Register commands
	registeredCommands, err := b.registerCommands()
	if err != nil {
		return fmt.Errorf("error registering commands: %w", err)
	}
	b.Commands = registeredCommands

	b.Log.Info("Bot is now running with slash commands registered.", "commands", len(registeredCommands))
	return nil
}

// Stop stops the Discord bot and removes its commands
func (b *DiscordBot) Stop() error {
	b.Log.Info("Removing commands...")
	for _, cmd := range b.Commands {
		err := b.Session.ApplicationCommandDelete(b.Session.State.User.ID, b.GuildID, cmd.ID)
		if err != nil {
			b.Log.Error("Error removing command", "command", cmd.Name, "err", err)
		}
	}

	return b.Session.Close()
}

// registerCommands registers the slash commands that have a handler
func (b *DiscordBot) registerCommands() ([]*discordgo.ApplicationCommand, error) {
	registeredCommands := make([]*discordgo.ApplicationCommand, 0, len(commands))

	for _, cmd := range commands {
		if _, ok := b.CommandHandlers[cmd.Name]; !ok {
			continue
		}
		registered, err := b.Session.ApplicationCommandCreate(b.Session.State.User.ID, b.GuildID, cmd)
		if err != nil {
			return nil, fmt.Errorf("error creating command '%s': %w", cmd.Name, err)
		}
		registeredCommands = append(registeredCommands, registered)
	}

	return registeredCommands, nil
}

// interactionHandler handles Discord interaction events
func (b *DiscordBot) interactionHandler(s *discordgo.Session, i *discordgo.InteractionCreate) {
	if i.Type != discordgo.InteractionApplicationCommand {
		return
	}

	commandName := i.ApplicationCommandData().Name
	if handler, ok := b.CommandHandlers[commandName]; ok {
		handler(s, i)
	}
}

// deferResponse acknowledges the interaction so the handler can take its time
func (b *DiscordBot) deferResponse(s *discordgo.Session, i *discordgo.InteractionCreate) bool {
	if err := s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseDeferredChannelMessageWithSource,
	}); err != nil {
		b.Log.Error("Error acknowledging interaction", "err", err)
		return false
	}
	return true
}

// sendEmbed replaces the deferred response with an embed
func (b *DiscordBot) sendEmbed(s *discordgo.Session, i *discordgo.InteractionCreate, embed *discordgo.MessageEmbed) {
	if _, err := s.InteractionResponseEdit(i.Interaction, &discordgo.WebhookEdit{
		Embeds: &[]*discordgo.MessageEmbed{embed},
	}); err != nil {
		b.Log.Error("Error editing interaction response", "err", err)
	}
}

// sendError sends an error embed
func (b *DiscordBot) sendError(s *discordgo.Session, i *discordgo.InteractionCreate, title, description string) {
	b.sendEmbed(s, i, &discordgo.MessageEmbed{
		Title:       title,
		Description: description,
		Color:       0xff0000,
	})
}
