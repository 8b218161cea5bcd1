package discord

import (
	"context"
	"fmt"

	"github.com/bwmarrin/discordgo"
)

// Button custom IDs for the draft action row.
const (
	createEventButtonID  = "createEventBtn"
	editDetailsButtonID  = "editDetailsBtn"
	discardDraftButtonID = "discardDraftBtn"
	editDetailsModalID   = "editDetailsModal"
	updateInfoInputID    = "updateInfo"
)

// Transport adapts a Discord session to the message operations the draft
// lifecycle needs.
type Transport struct {
	s *discordgo.Session
}

// NewTransport creates a Transport over an open session.
func NewTransport(s *discordgo.Session) *Transport {
	return &Transport{s: s}
}

// Send posts a plain channel message.
func (t *Transport) Send(ctx context.Context, channelID, content string) (string, error) {
	msg, err := t.s.ChannelMessageSend(channelID, content, discordgo.WithContext(ctx))
	if err != nil {
		return "", fmt.Errorf("failed to send message: %w", err)
	}
	return msg.ID, nil
}

// Reply posts a message replying to another.
func (t *Transport) Reply(ctx context.Context, channelID, replyToID, content string) (string, error) {
	msg, err := t.s.ChannelMessageSendComplex(channelID, &discordgo.MessageSend{
		Content:   content,
		Reference: &discordgo.MessageReference{MessageID: replyToID, ChannelID: channelID},
	}, discordgo.WithContext(ctx))
	if err != nil {
		return "", fmt.Errorf("failed to send reply: %w", err)
	}
	return msg.ID, nil
}

// ReplyDraft posts a reply carrying the draft action buttons.
func (t *Transport) ReplyDraft(ctx context.Context, channelID, replyToID, content string) (string, error) {
	msg, err := t.s.ChannelMessageSendComplex(channelID, &discordgo.MessageSend{
		Content:    content,
		Reference:  &discordgo.MessageReference{MessageID: replyToID, ChannelID: channelID},
		Components: actionButtons(),
	}, discordgo.WithContext(ctx))
	if err != nil {
		return "", fmt.Errorf("failed to send draft: %w", err)
	}
	return msg.ID, nil
}

// Edit replaces a message body in place, preserving its identity and any
// reply linkage.
func (t *Transport) Edit(ctx context.Context, channelID, messageID, content string) error {
	if _, err := t.s.ChannelMessageEdit(channelID, messageID, content, discordgo.WithContext(ctx)); err != nil {
		return fmt.Errorf("failed to edit message: %w", err)
	}
	return nil
}

// Delete removes a message.
func (t *Transport) Delete(ctx context.Context, channelID, messageID string) error {
	if err := t.s.ChannelMessageDelete(channelID, messageID, discordgo.WithContext(ctx)); err != nil {
		return fmt.Errorf("failed to delete message: %w", err)
	}
	return nil
}

// Parent returns the ID and content of the message the given message replies
// to. A message with no reference, or whose parent is gone, returns an empty
// ID and no error.
func (t *Transport) Parent(ctx context.Context, channelID, messageID string) (string, string, error) {
	msg, err := t.s.ChannelMessage(channelID, messageID, discordgo.WithContext(ctx))
	if err != nil {
		return "", "", fmt.Errorf("failed to fetch message: %w", err)
	}
	ref := msg.MessageReference
	if ref == nil || ref.MessageID == "" {
		return "", "", nil
	}
	parent, err := t.s.ChannelMessage(channelID, ref.MessageID, discordgo.WithContext(ctx))
	if err != nil {
		return "", "", nil
	}
	return parent.ID, parent.Content, nil
}

func actionButtons() []discordgo.MessageComponent {
	return []discordgo.MessageComponent{
		discordgo.ActionsRow{
			Components: []discordgo.MessageComponent{
				discordgo.Button{Label: "Create Event", Style: discordgo.SuccessButton, CustomID: createEventButtonID},
				discordgo.Button{Label: "Edit Details", Style: discordgo.PrimaryButton, CustomID: editDetailsButtonID},
				discordgo.Button{Label: "Discard Draft", Style: discordgo.DangerButton, CustomID: discardDraftButtonID},
			},
		},
	}
}
