package directory

import "context"

// Sources are interface-driven so the spreadsheet-backed and key-value-backed
// implementations stay interchangeable behind one contract, selected once at
// configuration time and injected. Both are deliberately full-scan: the
// corpus is small and fuzzy search needs every record anyway.
type Source interface {
	// Load returns the full corpus.
	Load(ctx context.Context) ([]Record, error)

	// LoadByID returns the matching record or ErrNotFound.
	LoadByID(ctx context.Context, id string) (Record, error)
}

// Store extends Source with the write operations only the key-value backend
// supports. Writes are at-most-once: a failed write is reported, never
// retried.
type Store interface {
	Source

	// Put saves the record, overwriting any previous version.
	Put(ctx context.Context, record Record) error

	// SetModerated flips the moderation flag on an existing record.
	SetModerated(ctx context.Context, id string, moderated bool) error

	// Delete removes the record. Deleting an unknown ID is a no-op.
	Delete(ctx context.Context, id string) error
}
