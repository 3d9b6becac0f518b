package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/sashabaranov/go-openai"
	"github.com/yukikurage/event-dashboard-api/internal/sanitize"
)

// ErrSuggestionsUnavailable is returned when no OpenAI key is configured.
var ErrSuggestionsUnavailable = errors.New("task suggestions are not configured")

// ChatCompleter is the subset of *openai.Client used for suggestions.
type ChatCompleter interface {
	CreateChatCompletion(ctx context.Context, request openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error)
}

// AIService proposes preparation tasks for an event
type AIService struct {
	client ChatCompleter
	events *EventService
	now    func() time.Time
}

// SuggestedTask is a task proposal; it is never persisted.
type SuggestedTask struct {
	Name     string     `json:"name"`
	Deadline *time.Time `json:"deadline"`
}

// NewAIService returns a service backed by OpenAI. An empty apiKey yields a
// service that answers ErrSuggestionsUnavailable.
func NewAIService(apiKey string, events *EventService) *AIService {
	s := &AIService{events: events, now: time.Now}
	if apiKey != "" {
		s.client = openai.NewClient(apiKey)
	}
	return s
}

// NewAIServiceWithClient is used by tests to inject a fake completer.
func NewAIServiceWithClient(client ChatCompleter, events *EventService, now func() time.Time) *AIService {
	return &AIService{client: client, events: events, now: now}
}

// SuggestTasks asks the model for tasks that prepare the given event
func (s *AIService) SuggestTasks(ctx context.Context, eventID string) ([]SuggestedTask, error) {
	if s.client == nil {
		return nil, ErrSuggestionsUnavailable
	}

	event, err := s.events.GetEvent(ctx, eventID)
	if err != nil {
		return nil, err
	}

	date := "not set"
	if event.Date != nil {
		date = event.Date.UTC().Format(time.RFC3339)
	}

	prompt := fmt.Sprintf(`You help organisers prepare events. Suggest concrete preparation tasks.

Current time: %s

Event name: %s
Location: %s
Date: %s
Description:
%s

Reply with a JSON array only, no prose:
[
  {"name": "short task name", "deadline": "RFC3339 timestamp before the event date, or null"}
]
Return [] when nothing needs to be done.`,
		s.now().UTC().Format(time.RFC3339), event.Name, event.Location, date, event.Description)

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

	return parseSuggestions(resp.Choices[0].Message.Content)
}

// parseSuggestions decodes the model reply, tolerating a fenced code block.
func parseSuggestions(content string) ([]SuggestedTask, error) {
	content = strings.TrimSpace(content)
	content = strings.TrimPrefix(content, "```json")
	content = strings.TrimPrefix(content, "```")
	content = strings.TrimSuffix(content, "```")

	var tasks []SuggestedTask
	if err := json.Unmarshal([]byte(strings.TrimSpace(content)), &tasks); err != nil {
		return nil, fmt.Errorf("failed to parse AI response: %w", err)
	}

	out := make([]SuggestedTask, 0, len(tasks))
	for _, t := range tasks {
		t.Name = sanitize.Text(t.Name)
		if t.Name == "" {
			continue
		}
		out = append(out, t)
	}
	return out, nil
}
