package entity

import "context"

// Repository receives the resolved graph of an import run.
type Repository interface {
	// Persist queues e for the next Flush.
	Persist(ctx context.Context, e Entity) error
	// Flush commits everything queued since the previous Flush.
	Flush(ctx context.Context) error
	// UpdateLogs returns the provenance records already stored.
	UpdateLogs(ctx context.Context) ([]*UpdateLog, error)
}
