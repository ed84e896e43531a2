package directory

import (
	"context"
	"crypto/subtle"
	"fmt"
	"io"
	"log/slog"
	"path"
	"sort"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"tipjar/internal/platform/metrics"
)

// PhotoPipeline stages, normalizes, and publishes record photos. Implemented
// by internal/photo; the service only sees the two user-visible failure modes
// (FormError "Unable to process photo" / "Unable to upload photo").
type PhotoPipeline interface {
	// IngestUpload processes a submitted photo using the record's
	// pre-assigned photo and thumbnail URLs.
	IngestUpload(ctx context.Context, record Record, photo io.Reader) error

	// IngestDrive resolves an external drive file, assigns photo URLs from
	// its content type, and processes it. Returns the updated record.
	IngestDrive(ctx context.Context, record Record, fileID string) (Record, error)
}

// ModerationAction names an administrator transition.
type ModerationAction string

const (
	ActionAccept ModerationAction = "accept"
	ActionDelete ModerationAction = "delete"
)

// Service orchestrates the directory: loading records from the active source,
// validating and persisting submissions, search, moderation, and spreadsheet
// import. It is invoked synchronously, once per request, with no internal
// background tasks or caching.
type Service struct {
	source         Source
	store          Store // nil when the active source is read-only
	importer       Importer
	photos         PhotoPipeline
	logger         *slog.Logger
	metrics        *metrics.Metrics
	tracer         trace.Tracer
	adminToken     string
	photoBucketURL string
}

// Option configures optional service collaborators.
type Option func(*Service)

// WithStore enables the write path against the given store.
func WithStore(store Store) Option {
	return func(s *Service) { s.store = store }
}

// WithImporter enables spreadsheet import.
func WithImporter(importer Importer) Option {
	return func(s *Service) { s.importer = importer }
}

// WithPhotoPipeline enables photo ingestion.
func WithPhotoPipeline(photos PhotoPipeline) Option {
	return func(s *Service) { s.photos = photos }
}

// WithMetrics attaches Prometheus counters.
func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) { s.metrics = m }
}

// NewService constructs the directory service around the active source.
func NewService(source Source, logger *slog.Logger, adminToken, photoBucketURL string, opts ...Option) *Service {
	s := &Service{
		source:         source,
		logger:         logger,
		tracer:         otel.Tracer("tipjar/internal/directory"),
		adminToken:     adminToken,
		photoBucketURL: photoBucketURL,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// LoadAll returns the full corpus from the active source.
func (s *Service) LoadAll(ctx context.Context) ([]Record, error) {
	records, err := s.source.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load records: %w", err)
	}
	return records, nil
}

// LoadByID returns one record or ErrNotFound.
func (s *Service) LoadByID(ctx context.Context, id string) (Record, error) {
	return s.source.LoadByID(ctx, id)
}

// Search runs a fuzzy search over active records and draws the random
// spotlight from the active records the search did not return. An empty query
// yields no search results, so the spotlight covers the whole active corpus.
func (s *Service) Search(ctx context.Context, query string) (results, spotlight []Record, err error) {
	ctx, span := s.tracer.Start(ctx, "directory.Search")
	defer span.End()

	records, err := s.source.Load(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("load records: %w", err)
	}
	if query != "" {
		results = Search(query, records)
	}
	spotlight = Spotlight(records, results)
	s.metrics.CountSearch()
	return results, spotlight, nil
}

// Submit validates a submission, builds the record, runs the photo pipeline
// when a photo is attached, and persists. When sub.RecordID is set this is an
// administrator edit: the existing record is loaded and its ID, timestamp,
// and moderation status are preserved.
func (s *Service) Submit(ctx context.Context, sub Submission, photo io.Reader) (Record, error) {
	ctx, span := s.tracer.Start(ctx, "directory.Submit")
	defer span.End()

	if s.store == nil {
		return Record{}, NewFormError("Cannot update spreadsheet")
	}
	if err := Validate(sub); err != nil {
		return Record{}, err
	}

	var record Record
	if sub.RecordID != "" {
		if err := s.authorize(sub.Token); err != nil {
			return Record{}, err
		}
		existing, err := s.source.LoadByID(ctx, sub.RecordID)
		if err != nil {
			return Record{}, err
		}
		record = existing
	} else {
		record = Record{
			ID:        uuid.NewString(),
			Timestamp: time.Now().Format(time.RFC3339),
		}
	}
	record.Apply(sub)

	if sub.PhotoFilename != "" {
		ext := path.Ext(sub.PhotoFilename)
		record.Photo = s.photoBucketURL + record.ID + ext
		record.Thumbnail = s.photoBucketURL + record.ID + "-thumb" + ext
		if err := s.photos.IngestUpload(ctx, record, photo); err != nil {
			return Record{}, err
		}
	}

	if err := s.store.Put(ctx, record); err != nil {
		return Record{}, fmt.Errorf("save record: %w", err)
	}
	s.metrics.CountSubmission()
	s.logger.InfoContext(ctx, "record saved",
		"record_id", record.ID,
		"moderated", record.Moderated,
		"edit", sub.RecordID != "",
	)
	return record, nil
}

// Moderate applies an administrator transition. Accept on an unknown ID
// returns ErrNotFound; delete is idempotent.
func (s *Service) Moderate(ctx context.Context, action ModerationAction, id, token string) error {
	if err := s.authorize(token); err != nil {
		return err
	}
	if s.store == nil {
		return ErrReadOnlySource
	}

	switch action {
	case ActionAccept:
		if _, err := s.store.LoadByID(ctx, id); err != nil {
			return err
		}
		if err := s.store.SetModerated(ctx, id, true); err != nil {
			return fmt.Errorf("accept record: %w", err)
		}
	case ActionDelete:
		if err := s.store.Delete(ctx, id); err != nil {
			return fmt.Errorf("delete record: %w", err)
		}
	default:
		return fmt.Errorf("unknown moderation action %q", action)
	}

	s.metrics.CountModeration(string(action))
	s.logger.InfoContext(ctx, "moderation applied", "action", action, "record_id", id)
	return nil
}

// ModerationQueue returns pending records sorted by name plus the count of
// active records, for the moderation view. Requires the administrator token.
func (s *Service) ModerationQueue(ctx context.Context, token string) (pending []Record, totalActive int, err error) {
	if err := s.authorize(token); err != nil {
		return nil, 0, err
	}
	records, err := s.source.Load(ctx)
	if err != nil {
		return nil, 0, fmt.Errorf("load records: %w", err)
	}
	for _, record := range records {
		if record.Moderated {
			totalActive++
			continue
		}
		pending = append(pending, record)
	}
	sort.Slice(pending, func(i, j int) bool {
		return pending[i].Name < pending[j].Name
	})
	return pending, totalActive, nil
}

// ImportFromSpreadsheet loads every spreadsheet row, resolves drive-hosted
// photos through the pipeline, and puts each record into the store. Returns
// the number of records imported.
func (s *Service) ImportFromSpreadsheet(ctx context.Context, token string) (int, error) {
	ctx, span := s.tracer.Start(ctx, "directory.Import")
	defer span.End()

	if err := s.authorize(token); err != nil {
		return 0, err
	}
	if s.store == nil {
		return 0, ErrReadOnlySource
	}
	if s.importer == nil {
		return 0, fmt.Errorf("no spreadsheet importer configured")
	}

	entries, err := s.importer.Entries(ctx)
	if err != nil {
		return 0, fmt.Errorf("load spreadsheet: %w", err)
	}
	imported := 0
	for _, entry := range entries {
		record := entry.Record
		if entry.DriveFileID != "" {
			record, err = s.photos.IngestDrive(ctx, record, entry.DriveFileID)
			if err != nil {
				return imported, fmt.Errorf("import photo for %s: %w", record.ID, err)
			}
		}
		if err := s.store.Put(ctx, record); err != nil {
			return imported, fmt.Errorf("save record %s: %w", record.ID, err)
		}
		imported++
	}
	s.metrics.CountImported(imported)
	s.logger.InfoContext(ctx, "spreadsheet imported", "records", imported)
	return imported, nil
}

// AuthorizeAdmin exposes the administrator check to the transport layer for
// views that only read.
func (s *Service) AuthorizeAdmin(token string) error {
	return s.authorize(token)
}

// authorize proves possession of the administrator token with a
// constant-time, exact-match comparison. An unset server token rejects
// everything.
func (s *Service) authorize(token string) error {
	if token == "" || s.adminToken == "" {
		return ErrUnauthorized
	}
	if subtle.ConstantTimeCompare([]byte(token), []byte(s.adminToken)) != 1 {
		return ErrUnauthorized
	}
	return nil
}
