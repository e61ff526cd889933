package messagegorm

import (
	"github.com/Pratham1708/lyftr-ai-backend/internal/domain/message"
)

// toDomain maps a GORM MessageModel to a domain-level Message.
func toDomain(m *MessageModel) *message.Message {
	return &message.Message{
		MessageID: m.MessageID,
		From:      m.FromMSISDN,
		To:        m.ToMSISDN,
		TS:        m.TS,
		Text:      m.Text,
		CreatedAt: m.CreatedAt,
	}
}

// toDomainMany maps a slice of MessageModel to a slice of domain Messages.
func toDomainMany(models []MessageModel) []*message.Message {
	out := make([]*message.Message, len(models))
	for i := range models {
		out[i] = toDomain(&models[i])
	}
	return out
}

// fromDomain maps a domain-level Message to a GORM MessageModel.
func fromDomain(d *message.Message) *MessageModel {
	return &MessageModel{
		MessageID:  d.MessageID,
		FromMSISDN: d.From,
		ToMSISDN:   d.To,
		TS:         d.TS,
		Text:       d.Text,
		CreatedAt:  d.CreatedAt,
	}
}
