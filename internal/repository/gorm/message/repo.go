// Package messagegorm is the Postgres-backed message repository.
package messagegorm

import (
	"context"
	"database/sql"
	"time"

	"github.com/Pratham1708/lyftr-ai-backend/internal/db"
	"github.com/Pratham1708/lyftr-ai-backend/internal/domain/message"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Repository is a GORM-backed implementation of the message.Repository interface.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a message repository using the given DB adapter.
func NewRepository(d db.DB) *Repository {
	return &Repository{
		db: d.Conn().(*gorm.DB),
	}
}

// Migrate creates or updates the messages table and its indexes.
func (r *Repository) Migrate() error {
	return r.db.AutoMigrate(&MessageModel{})
}

// Insert stores m once per message_id. The primary-key constraint plus
// ON CONFLICT DO NOTHING make the attempt atomic: under concurrent duplicate
// delivery exactly one row is created and the existing row is never altered.
func (r *Repository) Insert(ctx context.Context, m *message.Message) (message.InsertOutcome, error) {
	model := fromDomain(m)
	model.CreatedAt = time.Now().UTC()

	res := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "message_id"}},
			DoNothing: true,
		}).
		Create(model)

	if res.Error != nil {
		return message.OutcomeDuplicate, res.Error
	}
	if res.RowsAffected == 0 {
		return message.OutcomeDuplicate, nil
	}

	m.CreatedAt = model.CreatedAt
	return message.OutcomeCreated, nil
}

// List returns the filtered page in (ts ASC, message_id ASC) order and the
// total number of matching rows with pagination ignored.
func (r *Repository) List(ctx context.Context, f message.Filter, p message.Page) ([]*message.Message, int64, error) {
	var models []MessageModel
	var total int64

	query := applyFilter(r.db.WithContext(ctx).Model(&MessageModel{}), f)

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := query.
		Order("ts ASC, message_id ASC").
		Limit(p.Limit).
		Offset(p.Offset).
		Find(&models).Error

	if err != nil {
		return nil, 0, err
	}

	return toDomainMany(models), total, nil
}

// applyFilter translates the domain filter into WHERE clauses. Set fields
// combine with AND; LIKE in Postgres is case sensitive, matching the
// contract for the text search.
func applyFilter(q *gorm.DB, f message.Filter) *gorm.DB {
	if f.From != "" {
		q = q.Where("from_msisdn = ?", f.From)
	}
	if f.Since != nil {
		q = q.Where("ts >= ?", *f.Since)
	}
	if f.Contains != "" {
		q = q.Where("text LIKE ?", "%"+f.Contains+"%")
	}
	return q
}

// Stats computes the aggregate snapshot inside a single transaction so the
// individual aggregates are consistent with each other.
func (r *Repository) Stats(ctx context.Context) (*message.Stats, error) {
	stats := &message.Stats{}

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&MessageModel{}).Count(&stats.TotalMessages).Error; err != nil {
			return err
		}

		if err := tx.Model(&MessageModel{}).
			Distinct("from_msisdn").
			Count(&stats.SendersCount).Error; err != nil {
			return err
		}

		var top []struct {
			FromMSISDN string
			Count      int64
		}
		err := tx.Model(&MessageModel{}).
			Select("from_msisdn, COUNT(*) AS count").
			Group("from_msisdn").
			Order("count DESC, from_msisdn ASC").
			Limit(10).
			Scan(&top).Error
		if err != nil {
			return err
		}

		stats.PerSender = make([]message.SenderCount, len(top))
		for i, row := range top {
			stats.PerSender[i] = message.SenderCount{From: row.FromMSISDN, Count: row.Count}
		}

		var bounds struct {
			FirstTS sql.NullTime
			LastTS  sql.NullTime
		}
		err = tx.Model(&MessageModel{}).
			Select("MIN(ts) AS first_ts, MAX(ts) AS last_ts").
			Scan(&bounds).Error
		if err != nil {
			return err
		}

		if bounds.FirstTS.Valid {
			first := bounds.FirstTS.Time.UTC()
			stats.FirstTS = &first
		}
		if bounds.LastTS.Valid {
			last := bounds.LastTS.Time.UTC()
			stats.LastTS = &last
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	return stats, nil
}

// Ping runs a trivial read against the database.
func (r *Repository) Ping(ctx context.Context) error {
	var one int
	return r.db.WithContext(ctx).Raw("SELECT 1").Scan(&one).Error
}

// compile-time interface check
var _ message.Repository = (*Repository)(nil)
