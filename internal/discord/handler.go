package discord

import (
	"context"
	"log/slog"
	"regexp"
	"strings"

	"github.com/bwmarrin/discordgo"
)

const loadingNotice = "Parsing your event data. Please wait..."

// mentionPattern matches a leading bot mention tag, with or without the
// nickname marker.
var mentionPattern = regexp.MustCompile(`^<@!?\d+>\s*`)

// handleMessage processes an incoming channel message and, when it lands in
// the bound channel, turns it into an event draft.
func (c *Client) handleMessage(s *discordgo.Session, m *discordgo.MessageCreate) {
	defer logPanics("message")

	botID := c.selfID()
	if botID == "" {
		// Not ready yet, our own messages would be indistinguishable.
		return
	}
	if m.Author == nil || m.Author.ID == botID || m.Author.Bot {
		return
	}
	if strings.TrimSpace(m.Content) == "" {
		return
	}
	if !c.inBoundChannel(s, m.ChannelID) {
		return
	}

	text := strings.TrimSpace(mentionPattern.ReplaceAllString(m.Content, ""))
	if text == "" {
		return
	}

	slog.Info("Discord: message received", "author", m.Author.String(), "channel", m.ChannelID)

	ctx, cancel := context.WithTimeout(context.Background(), c.timeout)
	defer cancel()

	loading, err := s.ChannelMessageSendReply(m.ChannelID, loadingNotice, m.Reference(), discordgo.WithContext(ctx))
	if err != nil {
		slog.Error("Discord: failed to send loading message", "error", err)
		return
	}

	notice := c.ctrl.Create(ctx, m.ChannelID, m.ID, m.Author.String(), text)
	if notice != "" {
		if _, err := s.ChannelMessageEdit(m.ChannelID, loading.ID, notice, discordgo.WithContext(ctx)); err != nil {
			slog.Error("Discord: failed to edit loading message", "error", err)
		}
		return
	}
	if err := s.ChannelMessageDelete(m.ChannelID, loading.ID, discordgo.WithContext(ctx)); err != nil {
		slog.Warn("Discord: failed to remove loading message", "error", err)
	}
}

// inBoundChannel reports whether the channel carries the configured name.
func (c *Client) inBoundChannel(s *discordgo.Session, channelID string) bool {
	ch, err := s.State.Channel(channelID)
	if err != nil {
		ch, err = s.Channel(channelID)
		if err != nil {
			slog.Error("Discord: failed to resolve channel", "channel", channelID, "error", err)
			return false
		}
	}
	return strings.EqualFold(ch.Name, c.channelName)
}

// logPanics keeps a misbehaving handler from tearing down the gateway
// connection.
func logPanics(scope string) {
	if r := recover(); r != nil {
		slog.Error("Discord: handler panic", "scope", scope, "panic", r)
	}
}
