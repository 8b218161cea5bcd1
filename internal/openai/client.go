// Package openai wraps the external completion service that turns free-form
// text into structured event data. The service is the only natural-language
// component in the system; everything it returns is re-validated here.
package openai

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	goopenai "github.com/sashabaranov/go-openai"

	"eventbot/internal/event"
	"eventbot/internal/timeutil"
)

const defaultModel = goopenai.GPT4oMini

// irrelevantSentinel is the marker the model is instructed to emit when the
// input does not describe an event or an event change.
const irrelevantSentinel = "EVENT_DATA_NOT_FOUND"

// ErrIrrelevant reports that the completion service judged the input not to
// describe an event. Callers distinguish it from extraction failures with
// errors.Is.
var ErrIrrelevant = errors.New("input does not describe an event")

// Client calls the completion service with the create and edit prompt
// contexts.
type Client struct {
	api   *goopenai.Client
	model string
}

// NewClient creates a completion client.
func NewClient(apiKey, model string) *Client {
	if model == "" {
		model = defaultModel
	}
	return &Client{
		api:   goopenai.NewClient(apiKey),
		model: model,
	}
}

// wireRecord is the JSON shape the model is asked to produce. Every field is
// nullable; null and omitted both mean absent.
type wireRecord struct {
	Name     *string `json:"name"`
	Start    *string `json:"start"`
	End      *string `json:"end"`
	Location *string `json:"location"`
	Desc     *string `json:"desc"`
}

// CreateEvent extracts a new event record from free-form text. The returned
// record never carries a description; the caller owns that field. Returns
// ErrIrrelevant when the text is not event-like.
func (c *Client) CreateEvent(ctx context.Context, text string, now time.Time) (event.Record, error) {
	system := buildCreatePrompt(now)
	rec, err := c.complete(ctx, system, text)
	if err != nil {
		return event.Record{}, err
	}
	// The model is never trusted to carry the event body.
	rec.Description = nil
	return rec, nil
}

// EditEvent applies a free-text change instruction to an existing record and
// returns the full replacement record. A field absent in the response is
// absent in the result; nothing is backfilled from the input record here.
func (c *Client) EditEvent(ctx context.Context, current event.Record, instruction string, now time.Time) (event.Record, error) {
	existing, err := json.Marshal(toWire(current))
	if err != nil {
		return event.Record{}, fmt.Errorf("failed to marshal existing record: %w", err)
	}

	system := buildEditPrompt(now, string(existing))
	return c.complete(ctx, system, instruction)
}

func (c *Client) complete(ctx context.Context, system, user string) (event.Record, error) {
	resp, err := c.api.CreateChatCompletion(ctx, goopenai.ChatCompletionRequest{
		Model:       c.model,
		Temperature: 0,
		Messages: []goopenai.ChatCompletionMessage{
			{Role: goopenai.ChatMessageRoleSystem, Content: system},
			{Role: goopenai.ChatMessageRoleUser, Content: user},
		},
	})
	if err != nil {
		return event.Record{}, fmt.Errorf("completion request failed: %w", err)
	}
	if len(resp.Choices) == 0 {
		return event.Record{}, fmt.Errorf("completion returned no choices")
	}

	content := resp.Choices[0].Message.Content
	if strings.Contains(content, irrelevantSentinel) {
		return event.Record{}, ErrIrrelevant
	}

	var wire wireRecord
	jsonStr := extractJSON(content)
	if err := json.Unmarshal([]byte(jsonStr), &wire); err != nil {
		slog.Error("completion returned malformed JSON", "response", content, "error", err)
		return event.Record{}, fmt.Errorf("failed to parse completion JSON: %w", err)
	}

	return fromWire(wire), nil
}

func toWire(r event.Record) wireRecord {
	w := wireRecord{
		Name:     r.Name,
		Location: r.Location,
		Desc:     r.Description,
	}
	if r.Start != nil {
		w.Start = event.Text(timeutil.FormatInstant(*r.Start))
	}
	if r.End != nil {
		w.End = event.Text(timeutil.FormatInstant(*r.End))
	}
	return w
}

// fromWire converts the model's response to a record. Timestamps that fail to
// parse become absent, matching the draft codec's silent-absent policy.
func fromWire(w wireRecord) event.Record {
	r := event.Record{
		Name:        w.Name,
		Location:    w.Location,
		Description: w.Desc,
	}
	if w.Start != nil {
		if t, err := timeutil.ParseInstant(*w.Start); err == nil {
			r.Start = event.Instant(t)
		} else {
			slog.Warn("discarding unparseable start time from completion", "value", *w.Start)
		}
	}
	if w.End != nil {
		if t, err := timeutil.ParseInstant(*w.End); err == nil {
			r.End = event.Instant(t)
		} else {
			slog.Warn("discarding unparseable end time from completion", "value", *w.End)
		}
	}
	return r
}

// extractJSON pulls the first balanced JSON object out of a response that may
// be wrapped in prose or a markdown code fence.
func extractJSON(text string) string {
	start := strings.Index(text, "{")
	if start < 0 {
		return text
	}

	depth := 0
	for i := start; i < len(text); i++ {
		switch text[i] {
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return text[start : i+1]
			}
		}
	}
	return text[start:]
}
