package lifecycle

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"eventbot/internal/draft"
	"eventbot/internal/event"
	"eventbot/internal/mocks"
	"eventbot/internal/openai"
	"eventbot/internal/testutil"
)

const (
	channelID = "chan-1"
	guildID   = "guild-1"
	authorTag = "user#1234"
)

var (
	start = time.Date(2023, 4, 21, 18, 0, 0, 0, time.UTC)
	end   = time.Date(2023, 4, 21, 20, 0, 0, 0, time.UTC)
)

type fixture struct {
	completer *mocks.MockCompleter
	scheduler *mocks.MockScheduler
	transport *testutil.MockTransport
	ctrl      *Controller
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		completer: &mocks.MockCompleter{},
		scheduler: &mocks.MockScheduler{},
		transport: testutil.NewMockTransport(),
	}
	f.ctrl = New(Config{
		Completer: f.completer,
		Scheduler: f.scheduler,
		Transport: f.transport,
		Timeout:   time.Second,
	})
	return f
}

// seedDraft plants an audit message and a draft replying to it, the way
// Create lays them out, and returns the draft's ref and body.
func (f *fixture) seedDraft(r event.Record) (Ref, string) {
	auditID := f.transport.Seed(channelID, "", draft.EncodeAudit(authorTag))
	body := draft.Render(r, draft.Options{Preamble: draft.Guide})
	draftID := f.transport.Seed(channelID, auditID, body)
	return Ref{ChannelID: channelID, MessageID: draftID}, body
}

func completeRecord() event.Record {
	return event.Record{
		Name:        event.Text("Game Night"),
		Start:       event.Instant(start),
		End:         event.Instant(end),
		Location:    event.Text("Community Hall"),
		Description: event.Text("Board games and snacks."),
	}
}

func TestCreate(t *testing.T) {
	const inbound = "Meetup at Central Park next Friday 6pm, bring snacks"

	t.Run("posts audit and draft messages", func(t *testing.T) {
		f := newFixture(t)
		origID := f.transport.Seed(channelID, "", inbound)
		f.completer.On("CreateEvent", mock.Anything, inbound, mock.Anything).Return(event.Record{
			Name:     event.Text("Central Park Meetup"),
			Start:    event.Instant(start),
			Location: event.Text("Central Park"),
		}, nil)

		notice := f.ctrl.Create(context.Background(), channelID, origID, authorTag, inbound)
		assert.Empty(t, notice)

		live := f.transport.Live()
		require.Len(t, live, 3) // original, audit, draft

		audit := live[1]
		tag, ok := draft.DecodeAudit(audit.Content)
		require.True(t, ok)
		assert.Equal(t, authorTag, tag)
		assert.Equal(t, origID, audit.ReplyTo)

		d := live[2]
		assert.True(t, d.HasControls)
		assert.Equal(t, audit.ID, d.ReplyTo)
		assert.Contains(t, d.Content, "**Name:** Central Park Meetup")
		assert.Contains(t, d.Content, "(2023-04-21T18:00:00Z)")
		assert.Contains(t, d.Content, "**End:** "+draft.Sentinel)
		// The draft body is the raw inbound text, not anything the model said.
		assert.True(t, strings.HasSuffix(d.Content, inbound))
	})

	t.Run("irrelevant input posts nothing", func(t *testing.T) {
		f := newFixture(t)
		f.completer.On("CreateEvent", mock.Anything, mock.Anything, mock.Anything).
			Return(event.Record{}, openai.ErrIrrelevant)

		notice := f.ctrl.Create(context.Background(), channelID, "msg-0", authorTag, "hello everyone")
		assert.Equal(t, noticeNotAnEvent, notice)
		assert.Empty(t, f.transport.Live())
	})

	t.Run("extraction failure posts nothing and reports", func(t *testing.T) {
		f := newFixture(t)
		f.completer.On("CreateEvent", mock.Anything, mock.Anything, mock.Anything).
			Return(event.Record{}, fmt.Errorf("completion request failed"))

		notice := f.ctrl.Create(context.Background(), channelID, "msg-0", authorTag, inbound)
		assert.Equal(t, noticeCreateError, notice)
		assert.Empty(t, f.transport.Live())
	})

	t.Run("draft post failure cleans up the audit message", func(t *testing.T) {
		f := newFixture(t)
		f.completer.On("CreateEvent", mock.Anything, mock.Anything, mock.Anything).
			Return(completeRecord(), nil)

		tr := &failDraftTransport{MockTransport: f.transport}
		ctrl := New(Config{Completer: f.completer, Scheduler: f.scheduler, Transport: tr, Timeout: time.Second})

		notice := ctrl.Create(context.Background(), channelID, "msg-0", authorTag, inbound)
		assert.Equal(t, noticeCreateError, notice)
		assert.Empty(t, f.transport.Live())
	})
}

// failDraftTransport fails only the draft post, after the audit reply landed.
type failDraftTransport struct {
	*testutil.MockTransport
}

func (f *failDraftTransport) ReplyDraft(ctx context.Context, channelID, replyToID, content string) (string, error) {
	return "", fmt.Errorf("draft post failed")
}

func TestSubmitEdit(t *testing.T) {
	const instruction = "move it to 8pm and call it Trivia Night"

	t.Run("re-renders the draft in place", func(t *testing.T) {
		f := newFixture(t)
		ref, _ := f.seedDraft(completeRecord())

		updated := completeRecord()
		updated.Name = event.Text("Trivia Night")
		f.completer.On("EditEvent", mock.Anything, completeRecord(), instruction, mock.Anything).
			Return(updated, nil)

		body := f.transport.Message(ref.MessageID).Content
		notice := f.ctrl.SubmitEdit(context.Background(), ref, body, instruction)
		assert.Empty(t, notice)

		msg := f.transport.Message(ref.MessageID)
		assert.Equal(t, 1, msg.Edits, "same message identity, edited in place")
		assert.Contains(t, msg.Content, "**Name:** Trivia Night")
		f.completer.AssertExpectations(t)
	})

	t.Run("all-absent completion result is a no-op", func(t *testing.T) {
		f := newFixture(t)
		ref, body := f.seedDraft(completeRecord())
		f.completer.On("EditEvent", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
			Return(event.Record{}, nil)

		notice := f.ctrl.SubmitEdit(context.Background(), ref, body, instruction)
		assert.Contains(t, notice, "didn't look like an event update")
		assert.Contains(t, notice, instruction)
		assert.Equal(t, body, f.transport.Message(ref.MessageID).Content, "draft unchanged byte-for-byte")
	})

	t.Run("completion failure leaves the draft unchanged", func(t *testing.T) {
		f := newFixture(t)
		ref, body := f.seedDraft(completeRecord())
		f.completer.On("EditEvent", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
			Return(event.Record{}, fmt.Errorf("boom"))

		notice := f.ctrl.SubmitEdit(context.Background(), ref, body, instruction)
		assert.Contains(t, notice, "issue editing your event")
		assert.Contains(t, notice, instruction)
		assert.Equal(t, body, f.transport.Message(ref.MessageID).Content)
	})

	t.Run("concurrent edits settle last-write-wins", func(t *testing.T) {
		// There is no lock around edits: if two land at once the later write
		// owns the message body. Accepted property, not a defect.
		f := newFixture(t)
		ref, body := f.seedDraft(completeRecord())

		first := completeRecord()
		first.Name = event.Text("First")
		second := completeRecord()
		second.Name = event.Text("Second")
		f.completer.On("EditEvent", mock.Anything, mock.Anything, "make it First", mock.Anything).Return(first, nil)
		f.completer.On("EditEvent", mock.Anything, mock.Anything, "make it Second", mock.Anything).Return(second, nil)

		// Both interactions read the same (stale) body before either writes.
		f.ctrl.SubmitEdit(context.Background(), ref, body, "make it First")
		f.ctrl.SubmitEdit(context.Background(), ref, body, "make it Second")

		assert.Contains(t, f.transport.Message(ref.MessageID).Content, "**Name:** Second")
	})
}

func TestConfirm(t *testing.T) {
	t.Run("publishes, summarizes, and removes both messages", func(t *testing.T) {
		f := newFixture(t)
		ref, body := f.seedDraft(completeRecord())

		var created event.Valid
		f.scheduler.On("CreateEvent", mock.Anything, guildID, mock.Anything).
			Run(func(args mock.Arguments) { created = args.Get(2).(event.Valid) }).
			Return(nil)

		notice := f.ctrl.Confirm(context.Background(), guildID, ref, body)
		assert.Empty(t, notice)

		assert.Equal(t, "Game Night", created.Name)
		assert.Equal(t, "*Event created by user#1234*\nBoard games and snacks.", created.Description)

		live := f.transport.Live()
		require.Len(t, live, 1, "draft and audit removed, summary remains")
		assert.Contains(t, live[0].Content, "*Created new server event:*")
		assert.Contains(t, live[0].Content, "**Name:** Game Night")
		assert.False(t, live[0].HasControls)
	})

	t.Run("missing end time blocks the backend call", func(t *testing.T) {
		f := newFixture(t)
		r := completeRecord()
		r.End = nil
		ref, body := f.seedDraft(r)

		notice := f.ctrl.Confirm(context.Background(), guildID, ref, body)
		assert.Contains(t, notice, "end time")
		f.scheduler.AssertNotCalled(t, "CreateEvent", mock.Anything, mock.Anything, mock.Anything)
		assert.Len(t, f.transport.Live(), 2, "draft stays proposed")
	})

	t.Run("missing two fields reports both and nothing else", func(t *testing.T) {
		f := newFixture(t)
		r := completeRecord()
		r.Name = nil
		r.End = nil
		ref, body := f.seedDraft(r)

		notice := f.ctrl.Confirm(context.Background(), guildID, ref, body)
		lines := strings.Split(notice, "\n")
		require.Len(t, lines, 3) // header plus one line per missing field
		assert.Contains(t, lines[1], "name")
		assert.Contains(t, lines[2], "end time")
	})

	t.Run("missing audit message refuses to publish", func(t *testing.T) {
		f := newFixture(t)
		body := draft.Render(completeRecord(), draft.Options{})
		orphanID := f.transport.Seed(channelID, "", body)

		notice := f.ctrl.Confirm(context.Background(), guildID, Ref{channelID, orphanID}, body)
		assert.Equal(t, noticeConfirmError, notice)
		f.scheduler.AssertNotCalled(t, "CreateEvent", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("unparseable audit message refuses to publish", func(t *testing.T) {
		f := newFixture(t)
		auditID := f.transport.Seed(channelID, "", "some unrelated reply")
		body := draft.Render(completeRecord(), draft.Options{})
		draftID := f.transport.Seed(channelID, auditID, body)

		notice := f.ctrl.Confirm(context.Background(), guildID, Ref{channelID, draftID}, body)
		assert.Equal(t, noticeConfirmError, notice)
		f.scheduler.AssertNotCalled(t, "CreateEvent", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("backend failure keeps the draft open", func(t *testing.T) {
		f := newFixture(t)
		ref, body := f.seedDraft(completeRecord())
		f.scheduler.On("CreateEvent", mock.Anything, mock.Anything, mock.Anything).
			Return(fmt.Errorf("scheduled events quota reached"))

		notice := f.ctrl.Confirm(context.Background(), guildID, ref, body)
		assert.Contains(t, notice, "scheduled events quota reached")
		assert.Len(t, f.transport.Live(), 2)
	})

	t.Run("cleanup failure does not undo the transition", func(t *testing.T) {
		f := newFixture(t)
		ref, body := f.seedDraft(completeRecord())
		f.scheduler.On("CreateEvent", mock.Anything, mock.Anything, mock.Anything).Return(nil)
		f.transport.SetFailDelete(true)

		notice := f.ctrl.Confirm(context.Background(), guildID, ref, body)
		assert.Empty(t, notice, "confirm completed despite failed deletes")
	})

	t.Run("mirror and notifier run after publish", func(t *testing.T) {
		f := newFixture(t)
		mirror := &mocks.MockMirror{}
		notifier := &mocks.MockNotifier{}
		ctrl := New(Config{
			Completer: f.completer,
			Scheduler: f.scheduler,
			Transport: f.transport,
			Mirror:    mirror,
			Notifier:  notifier,
			Timeout:   time.Second,
		})
		ref, body := f.seedDraft(completeRecord())
		f.scheduler.On("CreateEvent", mock.Anything, mock.Anything, mock.Anything).Return(nil)
		mirror.On("MirrorEvent", mock.Anything, mock.Anything).Return(nil)
		notifier.On("NotifyPublished", mock.Anything, mock.Anything).Return(fmt.Errorf("smtp down"))

		notice := ctrl.Confirm(context.Background(), guildID, ref, body)
		assert.Empty(t, notice, "notification failure is best-effort")
		mirror.AssertExpectations(t)
		notifier.AssertExpectations(t)
	})
}

func TestDiscard(t *testing.T) {
	t.Run("names the event and removes both messages", func(t *testing.T) {
		f := newFixture(t)
		ref, body := f.seedDraft(completeRecord())

		notice := f.ctrl.Discard(context.Background(), ref, body)
		assert.Contains(t, notice, `"Game Night"`)
		assert.Contains(t, notice, "discarded")
		assert.Empty(t, f.transport.Live())
	})

	t.Run("unparseable body still discards", func(t *testing.T) {
		f := newFixture(t)
		body := "**Date:** old format\n**URL:** nope"
		id := f.transport.Seed(channelID, "", body)

		notice := f.ctrl.Discard(context.Background(), Ref{channelID, id}, body)
		assert.Equal(t, "Your event draft was successfully discarded.", notice)
		assert.Empty(t, f.transport.Live())
	})
}
