package openai

import (
	"fmt"
	"time"

	"eventbot/internal/timeutil"
)

// The prompts ask for a single JSON object with every field nullable, or the
// bare irrelevance marker. Date math is anchored on the current time passed
// in by the caller so relative phrases ("next Friday 6pm") resolve correctly.

const createPromptBody = `You are an assistant that extracts calendar event details from a chat message.

Extract the following fields from the user's message:
- name: a brief, descriptive title for the event
- start: the start time, ISO 8601 with UTC offset (e.g. 2023-04-17T18:00:00Z)
- end: the end time, ISO 8601 with UTC offset
- location: where the event takes place

Rules:
- Use null for any field the message does not specify. Never guess or invent a value.
- Resolve relative dates ("tomorrow", "next Friday at 6pm") against the current time given below.
- Respond with ONLY a JSON object of the form {"name": ..., "start": ..., "end": ..., "location": ...} and no other text.
- If the message does not describe an event at all, respond with exactly %s instead of JSON.`

const editPromptBody = `You are an assistant that updates calendar event details from a chat message.

Here is the existing event data as JSON (null means the field is not set):
%s

The user will describe a change to this event. Apply it and respond with the complete updated event as a JSON object with the keys name, start, end, location, desc.

Rules:
- Keep every field the user did not ask to change exactly as it is.
- Times are ISO 8601 with UTC offset. Resolve relative dates against the current time given below.
- Use null for fields that remain unset. Never guess or invent a value.
- Respond with ONLY the JSON object and no other text.
- If the message does not describe a change to this event, respond with exactly %s instead of JSON.`

func buildCreatePrompt(now time.Time) string {
	return fmt.Sprintf(createPromptBody, irrelevantSentinel) + timeContext(now)
}

func buildEditPrompt(now time.Time, existingJSON string) string {
	return fmt.Sprintf(editPromptBody, existingJSON, irrelevantSentinel) + timeContext(now)
}

func timeContext(now time.Time) string {
	return fmt.Sprintf("\n\nCurrent time: %s\nCurrent UTC offset: %s",
		timeutil.FormatHuman(now), now.Format("-07:00"))
}
