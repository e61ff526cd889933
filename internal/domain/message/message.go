// Package message holds the domain model and invariants for inbound messages.
package message

import (
	"fmt"
	"regexp"
	"strings"
	"time"
	"unicode/utf8"
)

// MaxTextLength is the maximum allowed length for the message text,
// counted in Unicode code points, not bytes.
const MaxTextLength = 4096

// e164 matches a leading + followed by one or more ASCII digits, nothing else.
var e164 = regexp.MustCompile(`^\+\d+$`)

// timestampLayouts are the accepted wire formats for "ts", tried in order.
// Values without an explicit zone are taken as UTC.
var timestampLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
}

// ValidationError reports which payload fields violated the message rules.
type ValidationError struct {
	Fields []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid message fields: %s", strings.Join(e.Fields, ", "))
}

// Message is the core domain entity for a stored inbound message.
//
// MessageID is the idempotency key: at most one record per id ever exists.
// TS is caller-supplied logical time; CreatedAt is assigned by the store at
// insertion and never changes afterwards.
type Message struct {
	MessageID string
	From      string
	To        string
	TS        time.Time
	Text      *string
	CreatedAt time.Time
}

// New validates a raw webhook payload and constructs a Message ready for
// storage. All violated fields are collected so callers can report every
// problem at once rather than just the first one found.
func New(messageID, from, to, ts string, text *string) (*Message, error) {
	var bad []string

	messageID = strings.TrimSpace(messageID)
	if messageID == "" {
		bad = append(bad, "message_id")
	}

	if !e164.MatchString(from) {
		bad = append(bad, "from")
	}
	if !e164.MatchString(to) {
		bad = append(bad, "to")
	}

	parsedTS, err := ParseTimestamp(ts)
	if err != nil {
		bad = append(bad, "ts")
	}

	if text != nil && utf8.RuneCountInString(*text) > MaxTextLength {
		bad = append(bad, "text")
	}

	if len(bad) > 0 {
		return nil, &ValidationError{Fields: bad}
	}

	return &Message{
		MessageID: messageID,
		From:      from,
		To:        to,
		TS:        parsedTS,
		Text:      text,
	}, nil
}

// ParseTimestamp parses an ISO-8601 date-time string in any of the accepted
// layouts, normalized to UTC.
func ParseTimestamp(v string) (time.Time, error) {
	v = strings.TrimSpace(v)
	if v == "" {
		return time.Time{}, fmt.Errorf("empty timestamp")
	}
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, v); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized timestamp %q", v)
}
