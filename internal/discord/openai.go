package discord

import (
	"context"
	"fmt"
	"strings"

	"github.com/sashabaranov/go-openai"
)

func NewAssistant(apiKey string, maxTokens int, temperature float64) *Assistant {
	client := openai.NewClient(apiKey)
	return &Assistant{
		client:      client,
		maxTokens:   maxTokens,
		temperature: float32(temperature),
	}
}

// translationPrompt builds the instruction sent to the model
func translationPrompt(text, target string) string {
	return fmt.Sprintf("Translate the following text to %s. Reply with the translation only.\n\n%s", target, text)
}

// Chat sends the prompt as a single user message and returns the reply
func (a *Assistant) Chat(ctx context.Context, prompt string) (string, error) {
	resp, err := a.client.CreateChatCompletion(
		ctx,
		openai.ChatCompletionRequest{
			Model: openai.GPT3Dot5Turbo,
			Messages: []openai.ChatCompletionMessage{
				{
					Role:    openai.ChatMessageRoleUser,
					Content: prompt,
				},
			},
			MaxTokens:   a.maxTokens,
			Temperature: a.temperature,
		},
	)

	if err != nil {
		return "", fmt.Errorf("ChatCompletion error: %w", err)
	}

	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("no response from OpenAI")
	}

	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}

func (a *Assistant) Translate(ctx context.Context, text, target string) (string, error) {
	return a.Chat(ctx, translationPrompt(text, target))
}
