package discord

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/bwmarrin/discordgo"

	"eventbot/internal/lifecycle"
)

const (
	confirmLoadingNotice = "Creating your event. Please wait..."
	editLoadingNotice    = "Updating your event data. Please wait..."
	discardLoadingNotice = "Discarding your event draft. Please wait..."
)

// handleInteraction routes button presses and modal submissions on draft
// messages.
func (c *Client) handleInteraction(s *discordgo.Session, i *discordgo.InteractionCreate) {
	defer logPanics("interaction")

	switch i.Type {
	case discordgo.InteractionMessageComponent:
		c.handleButton(s, i)
	case discordgo.InteractionModalSubmit:
		c.handleModalSubmit(s, i)
	}
}

func (c *Client) handleButton(s *discordgo.Session, i *discordgo.InteractionCreate) {
	customID := i.MessageComponentData().CustomID
	if i.Message == nil {
		slog.Error("Discord: no message on button interaction", "customID", customID)
		return
	}

	slog.Info("Discord: button pressed", "customID", customID, "user", interactionUser(i))

	switch customID {
	case editDetailsButtonID:
		c.showEditModal(s, i)
	case createEventButtonID:
		ctx, cancel := context.WithTimeout(context.Background(), c.timeout)
		defer cancel()
		c.runWithProgress(ctx, s, i, confirmLoadingNotice, func() string {
			d := lifecycle.Ref{ChannelID: i.ChannelID, MessageID: i.Message.ID}
			return c.ctrl.Confirm(ctx, i.GuildID, d, i.Message.Content)
		})
	case discardDraftButtonID:
		ctx, cancel := context.WithTimeout(context.Background(), c.timeout)
		defer cancel()
		c.runWithProgress(ctx, s, i, discardLoadingNotice, func() string {
			d := lifecycle.Ref{ChannelID: i.ChannelID, MessageID: i.Message.ID}
			return c.ctrl.Discard(ctx, d, i.Message.Content)
		})
	default:
		slog.Error("Discord: unknown button interaction", "customID", customID)
		c.replyNotImplemented(s, i, customID)
	}
}

func (c *Client) handleModalSubmit(s *discordgo.Session, i *discordgo.InteractionCreate) {
	data := i.ModalSubmitData()
	if data.CustomID != editDetailsModalID {
		slog.Error("Discord: unknown modal submission", "customID", data.CustomID)
		c.replyNotImplemented(s, i, data.CustomID)
		return
	}
	if i.Message == nil {
		slog.Error("Discord: no message on modal submit")
		return
	}

	instruction := modalInputValue(data, updateInfoInputID)
	slog.Info("Discord: edit submitted", "user", interactionUser(i))

	ctx, cancel := context.WithTimeout(context.Background(), c.timeout)
	defer cancel()
	c.runWithProgress(ctx, s, i, editLoadingNotice, func() string {
		d := lifecycle.Ref{ChannelID: i.ChannelID, MessageID: i.Message.ID}
		return c.ctrl.SubmitEdit(ctx, d, i.Message.Content, instruction)
	})
}

func (c *Client) showEditModal(s *discordgo.Session, i *discordgo.InteractionCreate) {
	err := s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseModal,
		Data: &discordgo.InteractionResponseData{
			CustomID: editDetailsModalID,
			Title:    "Edit Event Details",
			Components: []discordgo.MessageComponent{
				discordgo.ActionsRow{
					Components: []discordgo.MessageComponent{
						discordgo.TextInput{
							CustomID:    updateInfoInputID,
							Label:       "What do you want to change?",
							Style:       discordgo.TextInputParagraph,
							Placeholder: "You can use natural language, e.g.\nThe event starts at 4 pm, Jan 11.\nThe address is 123 Wynkoop St.",
							Required:    true,
						},
					},
				},
			},
		},
	})
	if err != nil {
		slog.Error("Discord: failed to show edit modal", "error", err)
	}
}

// runWithProgress acknowledges the interaction with an ephemeral progress
// message, runs the transition, then replaces the progress message with the
// resulting notice or removes it on success.
func (c *Client) runWithProgress(ctx context.Context, s *discordgo.Session, i *discordgo.InteractionCreate, progress string, fn func() string) {
	err := s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Content: progress,
			Flags:   discordgo.MessageFlagsEphemeral,
		},
	}, discordgo.WithContext(ctx))
	if err != nil {
		slog.Error("Discord: failed to acknowledge interaction", "error", err)
		return
	}

	notice := fn()
	if notice == "" {
		if err := s.InteractionResponseDelete(i.Interaction, discordgo.WithContext(ctx)); err != nil {
			slog.Warn("Discord: failed to remove progress message", "error", err)
		}
		return
	}
	if _, err := s.InteractionResponseEdit(i.Interaction, &discordgo.WebhookEdit{Content: &notice}, discordgo.WithContext(ctx)); err != nil {
		slog.Error("Discord: failed to deliver notice", "error", err)
	}
}

// replyNotImplemented posts a short-lived ephemeral marker for controls that
// have no behavior wired up.
func (c *Client) replyNotImplemented(s *discordgo.Session, i *discordgo.InteractionCreate, customID string) {
	err := s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Content: notImplementedNotice(customID),
			Flags:   discordgo.MessageFlagsEphemeral,
		},
	})
	if err != nil {
		slog.Error("Discord: failed to send placeholder reply", "error", err)
		return
	}
	interaction := i.Interaction
	time.AfterFunc(2*time.Second, func() {
		if err := s.InteractionResponseDelete(interaction); err != nil {
			slog.Warn("Discord: failed to remove placeholder reply", "error", err)
		}
	})
}

func notImplementedNotice(customID string) string {
	return fmt.Sprintf("`%s` not implemented yet.", customID)
}

func modalInputValue(data discordgo.ModalSubmitInteractionData, id string) string {
	for _, row := range data.Components {
		ar, ok := row.(*discordgo.ActionsRow)
		if !ok {
			continue
		}
		for _, comp := range ar.Components {
			if in, ok := comp.(*discordgo.TextInput); ok && in.CustomID == id {
				return in.Value
			}
		}
	}
	return ""
}

func interactionUser(i *discordgo.InteractionCreate) string {
	if i.Member != nil && i.Member.User != nil {
		return i.Member.User.String()
	}
	if i.User != nil {
		return i.User.String()
	}
	return "unknown"
}
