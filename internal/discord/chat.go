package discord

import (
	"context"
	"fmt"
	"time"

	"github.com/bwmarrin/discordgo"
)

const (
	assistantTimeout = 30 * time.Second

	// Discord caps embed descriptions at 4096 characters
	maxDescription = 4000
)

// handleChatCommand handles the /chat command
func (b *DiscordBot) handleChatCommand(s *discordgo.Session, i *discordgo.InteractionCreate) {
	if !b.deferResponse(s, i) {
		return
	}

	prompt := stringOption(optionMap(i.ApplicationCommandData().Options), "prompt", "")

	ctx, cancel := context.WithTimeout(context.Background(), assistantTimeout)
	defer cancel()

	response, err := b.Assistant.Chat(ctx, prompt)
	if err != nil {
		b.Log.Error("Error generating response", "err", err)
		b.sendError(s, i, "AI Error", "Sorry, I couldn't process your request.")
		return
	}

	b.sendEmbed(s, i, formatAssistantEmbed("AI Response", response, time.Now()))
}

// handleTranslateCommand handles the /translate command
func (b *DiscordBot) handleTranslateCommand(s *discordgo.Session, i *discordgo.InteractionCreate) {
	if !b.deferResponse(s, i) {
		return
	}

	options := optionMap(i.ApplicationCommandData().Options)
	text := stringOption(options, "text", "")
	target := stringOption(options, "target", "English")

	ctx, cancel := context.WithTimeout(context.Background(), assistantTimeout)
	defer cancel()

	translated, err := b.Assistant.Translate(ctx, text, target)
	if err != nil {
		b.Log.Error("Error translating", "err", err)
		b.sendError(s, i, "Translation Error", "The text could not be translated.")
		return
	}

	b.sendEmbed(s, i, formatAssistantEmbed(fmt.Sprintf("Translation to %s", target), translated, time.Now()))
}

// formatAssistantEmbed wraps a model reply in an embed, cutting it to fit
func formatAssistantEmbed(title, response string, at time.Time) *discordgo.MessageEmbed {
	return &discordgo.MessageEmbed{
		Title:       title,
		Description: truncate(response, maxDescription),
		Color:       colorAvailable,
		Timestamp:   at.Format(time.RFC3339),
		Footer: &discordgo.MessageEmbedFooter{
			Text: "Powered by OpenAI",
		},
	}
}
