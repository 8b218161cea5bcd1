package discord

import (
	"context"
	"fmt"

	"github.com/bwmarrin/discordgo"

	"eventbot/internal/event"
)

// Scheduler publishes validated events as Discord guild scheduled events.
type Scheduler struct {
	s *discordgo.Session
}

// NewScheduler creates a Scheduler over an open session.
func NewScheduler(s *discordgo.Session) *Scheduler {
	return &Scheduler{s: s}
}

// CreateEvent creates an external guild scheduled event from a validated
// record.
func (sc *Scheduler) CreateEvent(ctx context.Context, guildID string, ev event.Valid) error {
	params := &discordgo.GuildScheduledEventParams{
		Name:               ev.Name,
		Description:        ev.Description,
		ScheduledStartTime: &ev.Start,
		ScheduledEndTime:   &ev.End,
		PrivacyLevel:       discordgo.GuildScheduledEventPrivacyLevelGuildOnly,
		EntityType:         discordgo.GuildScheduledEventEntityTypeExternal,
	}
	if ev.Location != nil {
		params.EntityMetadata = &discordgo.GuildScheduledEventEntityMetadata{Location: *ev.Location}
	}
	if _, err := sc.s.GuildScheduledEventCreate(guildID, params, discordgo.WithContext(ctx)); err != nil {
		return fmt.Errorf("failed to create scheduled event: %w", err)
	}
	return nil
}
