package db

import (
	"context"

	"award-watch/pkg/domain"
)

// Sink persists a batch of award events. Implementations upsert on the
// (source_url, contract_id) dedup key, so re-submitting the same batch
// merges rather than duplicates. SaveEvents returns how many rows the
// backend reported written.
//
// A nil Sink everywhere in the codebase means "computed but not stored",
// which is a valid configuration, not an error.
type Sink interface {
	SaveEvents(ctx context.Context, events []domain.AwardEvent) (int, error)
	Close(ctx context.Context) error
}
