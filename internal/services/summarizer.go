package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"google.golang.org/genai"

	"github.com/inkwell-app/inkwell-backend/internal/models"
)

// Summarizer is the narrow interface to the third-party AI collaborator.
// The rest of the system never sees the provider.
type Summarizer interface {
	Summarize(ctx context.Context, entries []models.JournalEntry, question string) (string, error)
}

// GeminiSummarizer asks Gemini for a reflective summary over a user's
// journal entries.
type GeminiSummarizer struct {
	apiKey string
	model  string
}

func NewGeminiSummarizer(apiKey string) *GeminiSummarizer {
	return &GeminiSummarizer{apiKey: apiKey, model: "gemini-2.5-flash"}
}

func (g *GeminiSummarizer) Summarize(ctx context.Context, entries []models.JournalEntry, question string) (string, error) {
	if g.apiKey == "" {
		return "", fmt.Errorf("GEMINI_API_KEY not configured")
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  g.apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return "", fmt.Errorf("failed to create Gemini client: %w", err)
	}

	// Build context from the user's entries
	var journalContext strings.Builder
	journalContext.WriteString("You are a thoughtful assistant summarizing a user's private journal. ")
	journalContext.WriteString("Here are their entries:\n\n")
	for _, entry := range entries {
		timestamp := entry.CreatedAt.Format(time.RFC1123)
		journalContext.WriteString(fmt.Sprintf("--- %s (%s) from %s ---\n%s\n\n",
			entry.Title, entry.Category, timestamp, entry.Content))
	}

	if question == "" {
		question = "Summarize the recurring themes and overall mood of these journal entries."
	}

	chat, err := client.Chats.Create(ctx, g.model, &genai.GenerateContentConfig{
		SystemInstruction: &genai.Content{
			Parts: []*genai.Part{
				{Text: journalContext.String()},
			},
		},
	}, nil)
	if err != nil {
		return "", fmt.Errorf("failed to create chat session: %w", err)
	}

	resp, err := chat.SendMessage(ctx, genai.Part{Text: question})
	if err != nil {
		return "", fmt.Errorf("failed to generate content: %w", err)
	}

	if len(resp.Candidates) == 0 || len(resp.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("no response from Gemini")
	}

	part := resp.Candidates[0].Content.Parts[0]
	if part.Text == "" {
		return "", fmt.Errorf("empty response from Gemini")
	}
	return part.Text, nil
}

var _ Summarizer = (*GeminiSummarizer)(nil)
