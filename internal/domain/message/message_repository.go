package message

import "context"

// Repository defines the persistence operations for Message records.
//
// It is implemented by infrastructure layers (GORM/Postgres, in-memory)
// while the service and handler layers depend only on this interface.
type Repository interface {
	// Insert atomically stores m unless a record with the same MessageID
	// already exists. The existing record is never touched; concurrent
	// inserts for one id yield exactly one stored record. The store assigns
	// CreatedAt at insertion time.
	Insert(ctx context.Context, m *Message) (InsertOutcome, error)

	// List returns the filtered page in (TS ASC, MessageID ASC) order plus
	// the total number of matching records with pagination ignored.
	List(ctx context.Context, f Filter, p Page) ([]*Message, int64, error)

	// Stats computes an aggregate snapshot over all stored messages.
	Stats(ctx context.Context) (*Stats, error)

	// Ping confirms the storage medium answers a trivial read.
	Ping(ctx context.Context) error
}
