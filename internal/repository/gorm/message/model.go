package messagegorm

import (
	"time"
)

// MessageModel is the GORM persistence model for inbound messages.
// It maps directly to the "messages" table in Postgres.
//
// message_id is the primary key: the unique constraint is what makes
// Insert idempotent under concurrent duplicate delivery.
type MessageModel struct {
	MessageID  string    `gorm:"column:message_id;size:255;primaryKey"`
	FromMSISDN string    `gorm:"column:from_msisdn;size:20;not null;index:idx_from_msisdn"`
	ToMSISDN   string    `gorm:"column:to_msisdn;size:20;not null"`
	TS         time.Time `gorm:"column:ts;not null;index:idx_ts"`
	Text       *string   `gorm:"column:text;type:text"`
	CreatedAt  time.Time `gorm:"column:created_at;not null;index:idx_created_at"`
}

// TableName overrides the default table name used by GORM.
func (MessageModel) TableName() string {
	return "messages"
}
