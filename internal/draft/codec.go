// Package draft implements the serialization scheme for event drafts. A
// draft's entire state lives in the rendered text of its chat message, so the
// renderer and parser here must invert each other exactly: every mutation is
// decode, transform, re-encode, overwrite.
package draft

import (
	"fmt"
	"strings"
	"time"

	"eventbot/internal/event"
	"eventbot/internal/timeutil"
)

// Sentinel is the literal standing in for an absent field value.
const Sentinel = "*not provided*"

// EncodeText renders an optional text field for display.
func EncodeText(v *string) string {
	if v == nil {
		return Sentinel
	}
	return *v
}

// DecodeText recovers an optional text field from its display form. Any
// string other than the sentinel is taken verbatim.
func DecodeText(s string) *string {
	if s == Sentinel {
		return nil
	}
	return event.Text(s)
}

// EncodeTime renders an optional timestamp as a human-readable date followed
// by the canonical instant in parentheses. The parenthesized form is the
// authoritative value; the prefix is cosmetic. Instants are normalized to UTC.
func EncodeTime(v *time.Time) string {
	if v == nil {
		return Sentinel
	}
	return fmt.Sprintf("%s (%s)", timeutil.FormatHuman(v.UTC()), timeutil.FormatInstant(*v))
}

// DecodeTime recovers an optional timestamp from its display form. Only the
// last parenthesized substring is consulted. An unextractable or unparseable
// instant decodes to absent rather than erroring, so a corrupted timestamp
// reads as a missing one.
func DecodeTime(s string) *time.Time {
	if s == Sentinel {
		return nil
	}

	open := strings.LastIndex(s, "(")
	shut := strings.LastIndex(s, ")")
	if open < 0 || shut < open {
		return nil
	}

	t, err := timeutil.ParseInstant(strings.TrimSpace(s[open+1 : shut]))
	if err != nil {
		return nil
	}
	return event.Instant(t)
}
