package history

import (
	"context"
	"errors"

	"github.com/ledgercheck/finhealth/pkg/models/store"
)

// ErrUnreadableRecord marks a stored record that exists but cannot be decoded.
var ErrUnreadableRecord = errors.New("unreadable history record")

// Store is the keyed store of analysis history records. Records are write-once.
// Get returns an error wrapping domain.ErrRecordNotFound for unknown ids.
type Store interface {
	Add(ctx context.Context, record store.HistoryRecord) error
	Get(ctx context.Context, id string) (*store.HistoryRecord, error)
	// List returns records newest first. A limit <= 0 means no limit. Unreadable records are
	// logged and skipped.
	List(ctx context.Context, limit int) ([]store.HistoryRecord, error)
}
