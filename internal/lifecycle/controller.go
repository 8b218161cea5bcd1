// Package lifecycle drives an event draft through its states: a new message
// becomes a proposed draft, edits re-render it in place, and confirm or
// discard retire it. The draft message body is the only store of draft state,
// so every transition is parse, transform, re-render, overwrite.
package lifecycle

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"eventbot/internal/draft"
	"eventbot/internal/event"
	"eventbot/internal/openai"
)

// Completer is the external completion service that maps free text to
// structured records.
type Completer interface {
	// CreateEvent extracts a fresh record from free-form text.
	CreateEvent(ctx context.Context, text string, now time.Time) (event.Record, error)
	// EditEvent applies a change instruction to an existing record.
	EditEvent(ctx context.Context, current event.Record, instruction string, now time.Time) (event.Record, error)
}

// Scheduler is the scheduling backend that owns published events.
type Scheduler interface {
	CreateEvent(ctx context.Context, guildID string, ev event.Valid) error
}

// Transport is the chat platform surface: send, reply, edit, delete, and
// resolve the parent of a reply.
type Transport interface {
	// Send posts a plain channel message and returns its ID.
	Send(ctx context.Context, channelID, content string) (string, error)
	// Reply posts a message replying to another and returns its ID.
	Reply(ctx context.Context, channelID, replyToID, content string) (string, error)
	// ReplyDraft is Reply with the draft action controls attached.
	ReplyDraft(ctx context.Context, channelID, replyToID, content string) (string, error)
	// Edit replaces the body of an existing message in place.
	Edit(ctx context.Context, channelID, messageID, content string) error
	// Delete removes a message.
	Delete(ctx context.Context, channelID, messageID string) error
	// Parent returns the ID and content of the message the given message
	// replies to. A message with no parent returns an empty ID and no error.
	Parent(ctx context.Context, channelID, messageID string) (id, content string, err error)
}

// Mirror optionally copies a published event to a secondary calendar.
type Mirror interface {
	MirrorEvent(ctx context.Context, ev event.Valid) error
}

// Notifier optionally announces a published event out of band.
type Notifier interface {
	NotifyPublished(ctx context.Context, ev event.Valid) error
}

// Ref identifies a draft message in the chat.
type Ref struct {
	ChannelID string
	MessageID string
}

// Config wires a Controller. Mirror and Notifier may be nil.
type Config struct {
	Completer Completer
	Scheduler Scheduler
	Transport Transport
	Mirror    Mirror
	Notifier  Notifier
	// Timeout bounds each external service call.
	Timeout time.Duration
	// Clock supplies the current time; defaults to time.Now.
	Clock func() time.Time
}

// Controller orchestrates draft state transitions. It holds no draft state of
// its own: everything it needs is re-parsed from the message each time.
type Controller struct {
	completer Completer
	scheduler Scheduler
	transport Transport
	mirror    Mirror
	notifier  Notifier
	timeout   time.Duration
	clock     func() time.Time
}

const (
	noticeNotAnEvent    = "Sorry, that didn't look like an event to me."
	noticeCreateError   = "Sorry, something went wrong. Please try again."
	noticeConfirmError  = "Sorry, we ran into an issue creating your event."
	confirmationBanner  = "*Created new server event:*"
	attributionTemplate = "*Event created by %s*"
)

// New creates a Controller.
func New(cfg Config) *Controller {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 60 * time.Second
	}
	if cfg.Clock == nil {
		cfg.Clock = time.Now
	}
	return &Controller{
		completer: cfg.Completer,
		scheduler: cfg.Scheduler,
		transport: cfg.Transport,
		mirror:    cfg.Mirror,
		notifier:  cfg.Notifier,
		timeout:   cfg.Timeout,
		clock:     cfg.Clock,
	}
}

// Create handles a new inbound message: extract a record, post the audit
// message, and post the draft as a reply to it. The returned notice is empty
// on success; otherwise it is shown to the author in place of a draft, and
// their original message is left untouched for retry.
func (c *Controller) Create(ctx context.Context, channelID, messageID, authorTag, text string) string {
	cctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	rec, err := c.completer.CreateEvent(cctx, text, c.clock())
	if errors.Is(err, openai.ErrIrrelevant) {
		return noticeNotAnEvent
	}
	if err != nil {
		slog.Error("event extraction failed", "error", err)
		return noticeCreateError
	}

	// The raw message is always the event body; the completion service is
	// never trusted to echo it.
	rec.Description = event.Text(text)

	auditID, err := c.transport.Reply(ctx, channelID, messageID, draft.EncodeAudit(authorTag))
	if err != nil {
		slog.Error("failed to post audit message", "error", err)
		return noticeCreateError
	}

	body := draft.Render(rec, draft.Options{Preamble: draft.Guide})
	if _, err := c.transport.ReplyDraft(ctx, channelID, auditID, body); err != nil {
		slog.Error("failed to post draft message", "error", err)
		c.cleanup(ctx, channelID, auditID)
		return noticeCreateError
	}

	return ""
}

// SubmitEdit applies a free-text change instruction to the draft. On success
// the draft message is re-rendered in place, keeping its identity so the
// audit linkage survives. A completion result with every field absent is a
// no-op: the draft is left byte-for-byte unchanged.
func (c *Controller) SubmitEdit(ctx context.Context, d Ref, body, instruction string) string {
	current, err := draft.Parse(draft.Strip(body))
	if err != nil {
		slog.Error("failed to parse draft for edit", "error", err)
		return editFailureNotice(instruction)
	}

	cctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	updated, err := c.completer.EditEvent(cctx, current, instruction, c.clock())
	if errors.Is(err, openai.ErrIrrelevant) {
		return editIrrelevantNotice(instruction)
	}
	if err != nil {
		slog.Error("event edit extraction failed", "error", err)
		return editFailureNotice(instruction)
	}
	if updated.IsEmpty() {
		return editIrrelevantNotice(instruction)
	}

	rendered := draft.Render(updated, draft.Options{Preamble: draft.Guide})
	if err := c.transport.Edit(ctx, d.ChannelID, d.MessageID, rendered); err != nil {
		slog.Error("failed to update draft message", "error", err)
		return editFailureNotice(instruction)
	}

	return ""
}

// Confirm validates the draft, resolves the audit identity, creates the event
// on the scheduling backend, posts a confirmation summary, and removes the
// draft and audit messages. Every failure leaves the draft proposed.
func (c *Controller) Confirm(ctx context.Context, guildID string, d Ref, body string) string {
	rec, err := draft.Parse(draft.Strip(body))
	if err != nil {
		slog.Error("failed to parse draft for confirm", "error", err)
		return noticeConfirmError
	}

	valid, problems := rec.Validate()
	if len(problems) > 0 {
		var b strings.Builder
		b.WriteString("Please fix the below issue(s) before creating your event:\n")
		for _, p := range problems {
			b.WriteString("- " + p + "\n")
		}
		return strings.TrimRight(b.String(), "\n")
	}

	// Confirmation requires attribution; a draft whose audit message is gone
	// cannot be published.
	auditID, auditContent, err := c.transport.Parent(ctx, d.ChannelID, d.MessageID)
	if err != nil || auditID == "" {
		slog.Error("no audit message found for draft", "draft", d.MessageID, "error", err)
		return noticeConfirmError
	}
	tag, ok := draft.DecodeAudit(auditContent)
	if !ok {
		slog.Error("audit message did not decode", "draft", d.MessageID)
		return noticeConfirmError
	}

	valid.Description = strings.TrimSpace(
		fmt.Sprintf(attributionTemplate, tag) + "\n" + valid.Description)

	cctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()
	if err := c.scheduler.CreateEvent(cctx, guildID, valid); err != nil {
		slog.Error("scheduling backend rejected event", "error", err)
		return fmt.Sprintf("%s\n```%s```", noticeConfirmError, err)
	}

	summary := draft.Render(valid.Record(), draft.Options{Prefix: confirmationBanner})
	if _, err := c.transport.Send(ctx, d.ChannelID, summary); err != nil {
		slog.Error("failed to post confirmation summary", "error", err)
	}

	// The transition is terminal at this point; cleanup is best-effort.
	c.cleanup(ctx, d.ChannelID, d.MessageID)
	c.cleanup(ctx, d.ChannelID, auditID)

	c.mirrorAndNotify(ctx, valid)

	return ""
}

// Discard deletes the draft and its audit message. Parsing is only attempted
// to name the event in the farewell notice; failure there is non-fatal.
func (c *Controller) Discard(ctx context.Context, d Ref, body string) string {
	forName := ""
	if rec, err := draft.Parse(draft.Strip(body)); err == nil && rec.Name != nil {
		forName = fmt.Sprintf(" for %q", *rec.Name)
	}

	if auditID, _, err := c.transport.Parent(ctx, d.ChannelID, d.MessageID); err == nil && auditID != "" {
		c.cleanup(ctx, d.ChannelID, auditID)
	}
	c.cleanup(ctx, d.ChannelID, d.MessageID)

	return fmt.Sprintf("Your event draft%s was successfully discarded.", forName)
}

func (c *Controller) cleanup(ctx context.Context, channelID, messageID string) {
	if err := c.transport.Delete(ctx, channelID, messageID); err != nil {
		slog.Warn("failed to delete message", "channel", channelID, "message", messageID, "error", err)
	}
}

func (c *Controller) mirrorAndNotify(ctx context.Context, ev event.Valid) {
	if c.mirror != nil {
		mctx, cancel := context.WithTimeout(ctx, c.timeout)
		if err := c.mirror.MirrorEvent(mctx, ev); err != nil {
			slog.Warn("failed to mirror event", "event", ev.Name, "error", err)
		}
		cancel()
	}
	if c.notifier != nil {
		nctx, cancel := context.WithTimeout(ctx, c.timeout)
		if err := c.notifier.NotifyPublished(nctx, ev); err != nil {
			slog.Warn("failed to send publish notification", "event", ev.Name, "error", err)
		}
		cancel()
	}
}

func editFailureNotice(instruction string) string {
	return fmt.Sprintf("Sorry, we ran into an issue editing your event. Please try again.\n\nYou sent:\n%s", instruction)
}

func editIrrelevantNotice(instruction string) string {
	return fmt.Sprintf("Sorry, the message you wrote didn't look like an event update to me.\n\nYou sent:\n%s", instruction)
}
