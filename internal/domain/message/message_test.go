package message

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strptr(s string) *string { return &s }

func TestNew_ValidMessage(t *testing.T) {
	m, err := New("m1", "+919876543210", "+14155550100", "2025-01-15T10:00:00Z", strptr("Hello"))
	require.NoError(t, err)

	assert.Equal(t, "m1", m.MessageID)
	assert.Equal(t, "+919876543210", m.From)
	assert.Equal(t, "+14155550100", m.To)
	assert.Equal(t, time.Date(2025, 1, 15, 10, 0, 0, 0, time.UTC), m.TS)
	require.NotNil(t, m.Text)
	assert.Equal(t, "Hello", *m.Text)
	assert.True(t, m.CreatedAt.IsZero(), "CreatedAt is assigned by the store, not the constructor")
}

func TestNew_TrimsMessageID(t *testing.T) {
	m, err := New("  m1  ", "+1", "+2", "2025-01-15T10:00:00Z", nil)
	require.NoError(t, err)
	assert.Equal(t, "m1", m.MessageID)
}

func TestNew_TextIsOptional(t *testing.T) {
	m, err := New("m1", "+1", "+2", "2025-01-15T10:00:00Z", nil)
	require.NoError(t, err)
	assert.Nil(t, m.Text)
}

func TestNew_FieldViolations(t *testing.T) {
	tests := []struct {
		name      string
		messageID string
		from      string
		to        string
		ts        string
		text      *string
		fields    []string
	}{
		{
			name: "empty message id", messageID: "",
			from: "+1", to: "+2", ts: "2025-01-15T10:00:00Z",
			fields: []string{"message_id"},
		},
		{
			name: "whitespace message id", messageID: "   ",
			from: "+1", to: "+2", ts: "2025-01-15T10:00:00Z",
			fields: []string{"message_id"},
		},
		{
			name: "from missing plus", messageID: "m1",
			from: "919876543210", to: "+2", ts: "2025-01-15T10:00:00Z",
			fields: []string{"from"},
		},
		{
			name: "from with dashes", messageID: "m1",
			from: "+91-987", to: "+2", ts: "2025-01-15T10:00:00Z",
			fields: []string{"from"},
		},
		{
			name: "to plus only", messageID: "m1",
			from: "+1", to: "+", ts: "2025-01-15T10:00:00Z",
			fields: []string{"to"},
		},
		{
			name: "bad timestamp", messageID: "m1",
			from: "+1", to: "+2", ts: "yesterday",
			fields: []string{"ts"},
		},
		{
			name: "missing timestamp", messageID: "m1",
			from: "+1", to: "+2", ts: "",
			fields: []string{"ts"},
		},
		{
			name: "oversize text", messageID: "m1",
			from: "+1", to: "+2", ts: "2025-01-15T10:00:00Z",
			text:   strptr(strings.Repeat("x", MaxTextLength+1)),
			fields: []string{"text"},
		},
		{
			name: "multiple violations", messageID: "",
			from: "1", to: "2", ts: "nope",
			fields: []string{"message_id", "from", "to", "ts"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(tt.messageID, tt.from, tt.to, tt.ts, tt.text)
			require.Error(t, err)

			var vErr *ValidationError
			require.ErrorAs(t, err, &vErr)
			assert.Equal(t, tt.fields, vErr.Fields)
		})
	}
}

func TestNew_TextLengthCountsRunes(t *testing.T) {
	// 4096 multi-byte characters are exactly at the limit.
	text := strings.Repeat("ü", MaxTextLength)
	_, err := New("m1", "+1", "+2", "2025-01-15T10:00:00Z", &text)
	assert.NoError(t, err)
}

func TestParseTimestamp_Layouts(t *testing.T) {
	tests := []struct {
		in   string
		want time.Time
	}{
		{"2025-01-15T10:00:00Z", time.Date(2025, 1, 15, 10, 0, 0, 0, time.UTC)},
		{"2025-01-15T10:00:00.500Z", time.Date(2025, 1, 15, 10, 0, 0, 500000000, time.UTC)},
		{"2025-01-15T12:00:00+02:00", time.Date(2025, 1, 15, 10, 0, 0, 0, time.UTC)},
		{"2025-01-15T10:00:00", time.Date(2025, 1, 15, 10, 0, 0, 0, time.UTC)},
	}

	for _, tt := range tests {
		got, err := ParseTimestamp(tt.in)
		require.NoError(t, err, tt.in)
		assert.True(t, got.Equal(tt.want), "parsing %q: got %v want %v", tt.in, got, tt.want)
	}
}

func TestParseTimestamp_Invalid(t *testing.T) {
	for _, in := range []string{"", "   ", "2025-13-01T00:00:00Z", "not-a-time", "1736935200"} {
		_, err := ParseTimestamp(in)
		assert.Error(t, err, in)
	}
}
