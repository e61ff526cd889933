// Package messagememory is an in-memory message repository.
//
// It implements the same insert/list/stats semantics as the Postgres
// repository and backs local development and tests, where spinning up a
// database is not worth it.
package messagememory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/Pratham1708/lyftr-ai-backend/internal/domain/message"
)

// Repository keeps all messages in process memory, keyed by message_id.
type Repository struct {
	mu      sync.RWMutex
	records map[string]*message.Message
}

// NewRepository returns an empty in-memory repository.
func NewRepository() *Repository {
	return &Repository{
		records: make(map[string]*message.Message),
	}
}

// Insert performs a check-and-create under a single lock, so concurrent
// duplicate inserts observe exactly one stored record and the first write
// wins. The stored copy is detached from the caller's value.
func (r *Repository) Insert(ctx context.Context, m *message.Message) (message.InsertOutcome, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.records[m.MessageID]; ok {
		return message.OutcomeDuplicate, nil
	}

	stored := *m
	stored.CreatedAt = time.Now().UTC()
	if m.Text != nil {
		text := *m.Text
		stored.Text = &text
	}
	r.records[m.MessageID] = &stored

	m.CreatedAt = stored.CreatedAt
	return message.OutcomeCreated, nil
}

// List filters, orders and paginates the stored messages. The returned total
// counts every match regardless of the page window.
func (r *Repository) List(ctx context.Context, f message.Filter, p message.Page) ([]*message.Message, int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	matched := make([]*message.Message, 0, len(r.records))
	for _, m := range r.records {
		if matches(m, f) {
			matched = append(matched, m)
		}
	}

	sort.Slice(matched, func(i, j int) bool {
		if !matched[i].TS.Equal(matched[j].TS) {
			return matched[i].TS.Before(matched[j].TS)
		}
		return matched[i].MessageID < matched[j].MessageID
	})

	total := int64(len(matched))

	start := p.Offset
	if start < 0 {
		start = 0
	}
	if start > len(matched) {
		start = len(matched)
	}
	end := start + p.Limit
	if p.Limit <= 0 || end > len(matched) {
		end = len(matched)
	}

	page := make([]*message.Message, end-start)
	for i, m := range matched[start:end] {
		copied := *m
		page[i] = &copied
	}

	return page, total, nil
}

func matches(m *message.Message, f message.Filter) bool {
	if f.From != "" && m.From != f.From {
		return false
	}
	if f.Since != nil && m.TS.Before(*f.Since) {
		return false
	}
	if f.Contains != "" {
		if m.Text == nil || !strings.Contains(*m.Text, f.Contains) {
			return false
		}
	}
	return true
}

// Stats aggregates everything under one read lock, so the returned counts
// and the leaderboard describe the same snapshot.
func (r *Repository) Stats(ctx context.Context) (*message.Stats, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	stats := &message.Stats{
		TotalMessages: int64(len(r.records)),
	}

	perSender := make(map[string]int64)
	for _, m := range r.records {
		perSender[m.From]++

		ts := m.TS
		if stats.FirstTS == nil || ts.Before(*stats.FirstTS) {
			first := ts
			stats.FirstTS = &first
		}
		if stats.LastTS == nil || ts.After(*stats.LastTS) {
			last := ts
			stats.LastTS = &last
		}
	}

	stats.SendersCount = int64(len(perSender))

	ranked := make([]message.SenderCount, 0, len(perSender))
	for from, count := range perSender {
		ranked = append(ranked, message.SenderCount{From: from, Count: count})
	}
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].Count != ranked[j].Count {
			return ranked[i].Count > ranked[j].Count
		}
		return ranked[i].From < ranked[j].From
	})
	if len(ranked) > 10 {
		ranked = ranked[:10]
	}
	stats.PerSender = ranked

	return stats, nil
}

// Ping always succeeds: process memory is reachable whenever we are running.
func (r *Repository) Ping(ctx context.Context) error {
	return nil
}

// compile-time interface check
var _ message.Repository = (*Repository)(nil)
