package discord

import (
	"errors"
	"fmt"
	"strings"

	"github.com/bwmarrin/discordgo"
	"github.com/hunterjsb/arabot/internal/gacha"
)

const (
	colorAvailable   = 0xe91e63
	colorUnavailable = 0x95a5a6
	colorWarning     = 0xf1c40f

	// Discord rejects embed field values longer than this
	maxFieldValue = 1024
)

var errPoolNotFound = errors.New("pool not found")

// handlePoolCommand handles the /pool command
func (b *DiscordBot) handlePoolCommand(s *discordgo.Session, i *discordgo.InteractionCreate) {
	if !b.deferResponse(s, i) {
		return
	}

	code := stringOption(optionMap(i.ApplicationCommandData().Options), "code", "")
	db, err := b.Database.Get()
	if err != nil {
		b.Log.Error("Error loading gacha database", "err", err)
		b.sendError(s, i, "Database Error", "The gacha database could not be loaded.")
		return
	}

	embed, err := formatPoolEmbed(db, code)
	if errors.Is(err, errPoolNotFound) {
		b.sendError(s, i, "Pool Not Found", fmt.Sprintf("There is no pool with code `%s`.", code))
		return
	}
	b.sendEmbed(s, i, embed)
}

// handlePoolsCommand handles the /pools command
func (b *DiscordBot) handlePoolsCommand(s *discordgo.Session, i *discordgo.InteractionCreate) {
	if !b.deferResponse(s, i) {
		return
	}

	db, err := b.Database.Get()
	if err != nil {
		b.Log.Error("Error loading gacha database", "err", err)
		b.sendError(s, i, "Database Error", "The gacha database could not be loaded.")
		return
	}
	b.sendEmbed(s, i, formatPoolListEmbed(db))
}

// formatPoolEmbed renders the loot table of one pool, one field per rate bucket.
func formatPoolEmbed(db *gacha.Database, code string) (*discordgo.MessageEmbed, error) {
	_, pool, ok := db.PoolByCode(code)
	if !ok {
		return nil, errPoolNotFound
	}

	fields := make([]*discordgo.MessageEmbedField, 0, len(pool.LootTable))
	for _, bucket := range pool.LootTable {
		names := make([]string, 0, len(bucket.Items))
		for _, id := range bucket.Items {
			names = append(names, db.ItemName(id))
		}
		fields = append(fields, &discordgo.MessageEmbedField{
			Name:  fmt.Sprintf("%s%% • %d items", formatPercent(bucket.Rate), len(bucket.Items)),
			Value: truncate(strings.Join(names, ", "), maxFieldValue),
		})
	}

	color := colorAvailable
	status := "Available"
	if !pool.Available {
		color = colorUnavailable
		status = "Unavailable"
	}
	total, valid := db.ValidateRate(code)
	if !valid {
		color = colorWarning
	}

	description := "_This pool has no items yet._"
	if len(fields) > 0 {
		description = fmt.Sprintf("Total drop rate: **%s%%**", formatPercent(total))
	}

	return &discordgo.MessageEmbed{
		Title:       fmt.Sprintf("%s (%s)", pool.Name, pool.Code),
		Description: description,
		Color:       color,
		Fields:      fields,
		Footer: &discordgo.MessageEmbedFooter{
			Text: status,
		},
	}, nil
}

// formatPoolListEmbed lists every pool with its availability
func formatPoolListEmbed(db *gacha.Database) *discordgo.MessageEmbed {
	var lines []string
	for _, pool := range db.EachPool() {
		mark := "🟢"
		if !pool.Available {
			mark = "⚪"
		}
		lines = append(lines, fmt.Sprintf("%s `%s` %s", mark, pool.Code, pool.Name))
	}

	description := "_No pools._"
	if len(lines) > 0 {
		description = strings.Join(lines, "\n")
	}

	return &discordgo.MessageEmbed{
		Title:       "Gacha Pools",
		Description: description,
		Color:       colorAvailable,
	}
}

// formatPercent renders a rate in [0, 1] as a percentage without trailing zeros
func formatPercent(rate float64) string {
	s := fmt.Sprintf("%.3f", rate*100)
	s = strings.TrimRight(s, "0")
	return strings.TrimSuffix(s, ".")
}

func truncate(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit-1]) + "…"
}
