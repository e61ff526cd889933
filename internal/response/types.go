package response

import (
	"time"

	domain "github.com/Pratham1708/lyftr-ai-backend/internal/domain/message"
)

// WebhookAck is the body of a successful POST /webhook. Created and
// duplicate ingestions both acknowledge with "ok".
type WebhookAck struct {
	Status string `json:"status"`
}

// MessageDTO is the public-facing representation of a stored message.
// It decouples the wire format from the domain entity and plays nicely
// with Swagger.
type MessageDTO struct {
	MessageID string    `json:"message_id"`
	From      string    `json:"from"`
	To        string    `json:"to"`
	TS        time.Time `json:"ts"`
	Text      *string   `json:"text"`
	CreatedAt time.Time `json:"created_at"`
}

// MessageListPayload is the body of GET /messages. Total counts every
// record matching the filter, not just the returned page.
type MessageListPayload struct {
	Data   []MessageDTO `json:"data"`
	Total  int64        `json:"total"`
	Limit  int          `json:"limit"`
	Offset int          `json:"offset"`
}

// SenderCountDTO is one entry of the per-sender leaderboard.
type SenderCountDTO struct {
	From  string `json:"from"`
	Count int64  `json:"count"`
}

// StatsPayload is the body of GET /stats.
type StatsPayload struct {
	TotalMessages     int64            `json:"total_messages"`
	SendersCount      int64            `json:"senders_count"`
	MessagesPerSender []SenderCountDTO `json:"messages_per_sender"`
	FirstMessageTS    *time.Time       `json:"first_message_ts"`
	LastMessageTS     *time.Time       `json:"last_message_ts"`
}

// HealthPayload is the body of the health probes.
type HealthPayload struct {
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
	Database  string    `json:"database,omitempty"`
}

// IndexPayload is the body of the root endpoint.
type IndexPayload struct {
	Service   string            `json:"service"`
	Version   string            `json:"version"`
	Endpoints map[string]string `json:"endpoints"`
}

// FromDomainMessages converts domain messages into DTOs for HTTP responses.
// The result is never nil so an empty page serializes as [].
func FromDomainMessages(msgs []*domain.Message) []MessageDTO {
	out := make([]MessageDTO, len(msgs))
	for i, m := range msgs {
		out[i] = MessageDTO{
			MessageID: m.MessageID,
			From:      m.From,
			To:        m.To,
			TS:        m.TS,
			Text:      m.Text,
			CreatedAt: m.CreatedAt,
		}
	}
	return out
}

// FromDomainStats converts the aggregate snapshot into its wire shape.
func FromDomainStats(s *domain.Stats) StatsPayload {
	perSender := make([]SenderCountDTO, len(s.PerSender))
	for i, sc := range s.PerSender {
		perSender[i] = SenderCountDTO{From: sc.From, Count: sc.Count}
	}
	return StatsPayload{
		TotalMessages:     s.TotalMessages,
		SendersCount:      s.SendersCount,
		MessagesPerSender: perSender,
		FirstMessageTS:    s.FirstTS,
		LastMessageTS:     s.LastTS,
	}
}
