package draft

import (
	"strings"

	"eventbot/internal/event"
)

// Guide is the usage preamble attached to a draft when it is first created.
// It sits above the field lines and is stripped before re-parsing.
const Guide = "*Here's your event preview. If everything looks good, hit **Create Event** to add it to the server. Otherwise, you can correct the details or discard this draft.*\n" +
	"*I understand natural language – you can tell me to \"change the date to 7:30 PM on Jan 11\" or \"change the location to Cheesman Park.\"*\n" +
	"────────────────────────────────────────"

// Options adjusts decoration around the rendered field block. Both fields are
// optional and independent of field rendering.
type Options struct {
	// Preamble is usage guidance shown above the draft, typically Guide.
	Preamble string
	// Prefix is a short status banner placed above everything else.
	Prefix string
}

// Render serializes a record into the draft message body: one `**Label:**`
// line per field in fixed order, a blank line, then the description verbatim.
// The description is never escaped or truncated; an absent description
// renders as the sentinel like any other field.
func Render(r event.Record, opts Options) string {
	var b strings.Builder

	if opts.Prefix != "" {
		b.WriteString(opts.Prefix)
		b.WriteString("\n")
	}
	if opts.Preamble != "" {
		b.WriteString(opts.Preamble)
		b.WriteString("\n")
	}

	b.WriteString("**Name:** " + EncodeText(r.Name) + "\n")
	b.WriteString("**Start:** " + EncodeTime(r.Start) + "\n")
	b.WriteString("**End:** " + EncodeTime(r.End) + "\n")
	b.WriteString("**Location:** " + EncodeText(r.Location) + "\n")
	b.WriteString("\n")
	b.WriteString(EncodeText(r.Description))

	return b.String()
}

// Strip removes any preamble or status banner above the field block by
// discarding lines before the first recognized field line. Text with no field
// lines at all is returned unchanged.
func Strip(text string) string {
	lines := strings.Split(normalizeNewlines(text), "\n")
	for i, line := range lines {
		if _, _, ok := matchFieldLine(line); ok {
			return strings.Join(lines[i:], "\n")
		}
	}
	return text
}
