package discord

import (
	"bytes"
	"errors"
	"os"
	"strings"
	"testing"

	"github.com/bwmarrin/discordgo"
	"github.com/hunterjsb/arabot/internal/config"
)

func TestCloseOnSignal(t *testing.T) {
	var out bytes.Buffer
	logger := config.NewLogger(&out, "")

	called := false
	code := closeOnSignal(logger, os.Interrupt, func() error {
		called = true
		return nil
	})
	if !called || code != 0 {
		t.Errorf("Expected cleanup to run with exit code 0, got called=%v code=%d", called, code)
	}
	if !strings.Contains(out.String(), "Shutting down...") {
		t.Errorf("Expected shutdown to be logged, got %q", out.String())
	}

	out.Reset()
	code = closeOnSignal(logger, os.Interrupt, func() error { return errors.New("session closed twice") })
	if code != 1 {
		t.Errorf("Expected exit code 1 on cleanup failure, got %d", code)
	}
	if !strings.Contains(out.String(), "session closed twice") {
		t.Errorf("Expected cleanup error to be logged, got %q", out.String())
	}
}

func TestStringOption(t *testing.T) {
	options := optionMap([]*discordgo.ApplicationCommandInteractionDataOption{
		{Name: "text", Type: discordgo.ApplicationCommandOptionString, Value: "hola"},
	})

	if got := stringOption(options, "text", ""); got != "hola" {
		t.Errorf("Expected 'hola', got %q", got)
	}
	if got := stringOption(options, "target", "English"); got != "English" {
		t.Errorf("Expected default 'English', got %q", got)
	}
}
