package gcal

import (
	"context"
	"fmt"
	"time"

	"google.golang.org/api/calendar/v3"

	"eventbot/internal/event"
)

// Mirror inserts published events into a Google Calendar as a secondary
// record. The scheduled event on the chat platform stays authoritative.
type Mirror struct {
	client     *Client
	calendarID string
}

// NewMirror creates a Mirror writing to the given calendar. An empty
// calendarID targets the primary calendar.
func NewMirror(client *Client, calendarID string) *Mirror {
	if calendarID == "" {
		calendarID = "primary"
	}
	return &Mirror{client: client, calendarID: calendarID}
}

// MirrorEvent inserts a validated event into the calendar.
func (m *Mirror) MirrorEvent(ctx context.Context, ev event.Valid) error {
	if m.client.service == nil {
		return fmt.Errorf("calendar service not initialized")
	}

	// RFC3339 carries the offset, so Google Calendar can infer the timezone.
	item := &calendar.Event{
		Summary:     ev.Name,
		Description: ev.Description,
		Start: &calendar.EventDateTime{
			DateTime: ev.Start.Format(time.RFC3339),
		},
		End: &calendar.EventDateTime{
			DateTime: ev.End.Format(time.RFC3339),
		},
	}
	if ev.Location != nil {
		item.Location = *ev.Location
	}

	if _, err := m.client.service.Events.Insert(m.calendarID, item).Context(ctx).Do(); err != nil {
		return fmt.Errorf("failed to insert calendar event: %w", err)
	}
	return nil
}
