package draft

import (
	"errors"
	"log/slog"
	"regexp"
	"strings"

	"eventbot/internal/event"
)

// ErrForeignFormat reports input that is field-structured but shares no
// labels with the current format, e.g. a draft produced by unrelated tooling.
// Unstructured input is not foreign; it parses as a bare description.
var ErrForeignFormat = errors.New("not a recognized event draft")

var fieldLinePattern = regexp.MustCompile(`^\*\*([^:*]+):\*\*[ \t]?(.*)$`)

// matchFieldLine matches a line against the field grammar and the known label
// set. Labels are case-insensitive.
func matchFieldLine(line string) (label, value string, ok bool) {
	m := fieldLinePattern.FindStringSubmatch(strings.TrimRight(line, " \t"))
	if m == nil {
		return "", "", false
	}
	label = strings.ToLower(strings.TrimSpace(m[1]))
	switch label {
	case "name", "start", "end", "location":
		return label, m[2], true
	}
	return "", "", false
}

func isFieldShaped(line string) bool {
	return fieldLinePattern.MatchString(strings.TrimRight(line, " \t"))
}

func normalizeNewlines(s string) string {
	return strings.ReplaceAll(s, "\r\n", "\n")
}

// decodeDescription treats both the sentinel and the empty string as absent.
// An empty-string description therefore collapses to absent on re-parse; it
// has no rendering distinct from a fully deleted description body.
func decodeDescription(s string) *string {
	if s == "" || s == Sentinel {
		return nil
	}
	return event.Text(s)
}

// Parse recovers a record from a draft message body. It is the inverse of
// Render for any body Render produced, once Strip has removed decorations.
//
// Field lines may arrive in any order. Bold-labeled lines with unknown labels
// are ignored so cosmetic additions don't break older parsers. Field
// recognition ends at the first blank line after a recognized field line;
// everything past that boundary is the description, trimmed at the outer
// boundary only, so a description that itself contains field-shaped lines
// survives intact. A body whose blank separator was hand-edited away falls
// back to taking the description from after the last recognized field line.
// Input with no field lines at all parses as a record whose description is
// the whole trimmed input. Only input that is field-shaped yet matches zero
// known labels fails with ErrForeignFormat.
func Parse(text string) (event.Record, error) {
	lines := strings.Split(normalizeNewlines(text), "\n")

	var rec event.Record
	lastField := -1
	recognized := 0
	unknown := 0
	boundary := -1

	for i, line := range lines {
		if recognized > 0 && strings.TrimSpace(line) == "" {
			boundary = i
			break
		}

		label, value, ok := matchFieldLine(line)
		if !ok {
			if isFieldShaped(line) {
				slog.Debug("ignoring unrecognized field line", "line", line)
				unknown++
			}
			continue
		}

		recognized++
		lastField = i
		switch label {
		case "name":
			rec.Name = DecodeText(value)
		case "start":
			rec.Start = DecodeTime(value)
		case "end":
			rec.End = DecodeTime(value)
		case "location":
			rec.Location = DecodeText(value)
		}
	}

	if recognized == 0 {
		if unknown > 0 {
			return event.Record{}, ErrForeignFormat
		}
		rec.Description = decodeDescription(strings.TrimSpace(normalizeNewlines(text)))
		return rec, nil
	}

	descStart := lastField + 1
	if boundary >= 0 {
		descStart = boundary + 1
	}
	remainder := strings.Join(lines[descStart:], "\n")
	rec.Description = decodeDescription(strings.TrimSpace(remainder))
	return rec, nil
}
