package services

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/sashabaranov/go-openai"
)

type AIService struct {
	client *openai.Client
}

// TicketDraft is a ticket proposed by the model; it is not persisted.
type TicketDraft struct {
	Summary     string `json:"summary"`
	Description string `json:"description"`
	WorkType    string `json:"workType"`
}

func NewAIService(apiKey string) *AIService {
	return &AIService{
		client: openai.NewClient(apiKey),
	}
}

// DraftTicketsFromText turns a free-form bug report into ticket drafts
func (s *AIService) DraftTicketsFromText(ctx context.Context, text string) ([]TicketDraft, error) {
	if s.client == nil {
		return nil, fmt.Errorf("OpenAI client not initialized")
	}

	prompt := fmt.Sprintf(`You triage bug reports for a game studio's issue tracker.
Split the report below into separate tickets.

Report:
%s

Respond with a JSON array only, no prose:
[
  {
    "summary": "one-line title",
    "description": "details in Markdown, including reproduction steps when given",
    "workType": "one of: bug, task, story, epic"
  }
]
Return [] when the report contains nothing actionable.`, text)

	resp, err := s.client.CreateChatCompletion(
		ctx,
		openai.ChatCompletionRequest{
			Model: openai.GPT4o,
			Messages: []openai.ChatCompletionMessage{
				{
					Role:    openai.ChatMessageRoleUser,
					Content: prompt,
				},
			},
			Temperature: 0.3,
		},
	)
	if err != nil {
		return nil, fmt.Errorf("OpenAI API error: %w", err)
	}

	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("no response from OpenAI")
	}

	return parseTicketDrafts(resp.Choices[0].Message.Content)
}

// parseTicketDrafts decodes the model output, tolerating a fenced code block.
func parseTicketDrafts(content string) ([]TicketDraft, error) {
	content = strings.TrimSpace(content)
	content = strings.TrimPrefix(content, "```json")
	content = strings.TrimPrefix(content, "```")
	content = strings.TrimSuffix(content, "```")

	var drafts []TicketDraft
	if err := json.Unmarshal([]byte(strings.TrimSpace(content)), &drafts); err != nil {
		return nil, fmt.Errorf("failed to parse AI response: %w", err)
	}

	return drafts, nil
}
