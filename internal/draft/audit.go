package draft

import (
	"fmt"
	"regexp"
)

// The draft's description is rewritten freely on every edit, so the identity
// of whoever started the draft is kept in a companion message instead. The
// tag is backtick-delimited so it can carry spaces and punctuation.

var auditPattern = regexp.MustCompile("^Drafting an event for `(.+)`\\.")

// EncodeAudit renders the audit companion message for a user tag.
func EncodeAudit(tag string) string {
	return fmt.Sprintf("Drafting an event for `%s`. They will be credited when it is published.", tag)
}

// DecodeAudit extracts the user tag from an audit message. It is applied
// speculatively to arbitrary parent messages, so a non-match returns false
// rather than an error.
func DecodeAudit(text string) (string, bool) {
	m := auditPattern.FindStringSubmatch(text)
	if m == nil {
		return "", false
	}
	return m[1], true
}
