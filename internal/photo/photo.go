// Package photo ingests record photos: it stages image bytes on scratch
// storage, corrects orientation from embedded metadata, derives a fixed-size
// thumbnail, and publishes both under the record's pre-assigned object keys.
package photo

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"mime"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/disintegration/imaging"
	"golang.org/x/sync/errgroup"

	"tipjar/internal/directory"
	"tipjar/internal/platform/metrics"
)

// Thumbnails fit inside an 88x88 box, preserving aspect ratio.
const thumbnailSize = 88

// ObjectStorage publishes a derivative under a deterministic key.
type ObjectStorage interface {
	Upload(ctx context.Context, key string, body io.Reader, contentType string) error
}

// DriveResolver fetches externally hosted photos during spreadsheet import.
type DriveResolver interface {
	ContentType(ctx context.Context, fileID string) (string, error)
	Fetch(ctx context.Context, fileID string) (io.ReadCloser, error)
}

// Pipeline implements directory.PhotoPipeline. Only two failure modes reach
// the caller: "Unable to process photo" and "Unable to upload photo"; the
// underlying cause is logged, never shown to the end user.
type Pipeline struct {
	storage    ObjectStorage
	drive      DriveResolver
	baseURL    string
	scratchDir string
	logger     *slog.Logger
	metrics    *metrics.Metrics
}

// NewPipeline builds a pipeline staging through the OS temp directory.
// drive may be nil when spreadsheet import is not configured.
func NewPipeline(storage ObjectStorage, drive DriveResolver, baseURL string, logger *slog.Logger, m *metrics.Metrics) *Pipeline {
	return &Pipeline{
		storage:    storage,
		drive:      drive,
		baseURL:    baseURL,
		scratchDir: os.TempDir(),
		logger:     logger,
		metrics:    m,
	}
}

// IngestUpload stages a submitted photo and runs it through the pipeline.
// The record must already carry its photo and thumbnail URLs.
func (p *Pipeline) IngestUpload(ctx context.Context, record directory.Record, photo io.Reader) error {
	stage, err := p.stage(record, photo)
	if err != nil {
		return p.processFailure(ctx, record.ID, err)
	}
	defer stage.cleanup(p.logger)

	if err := p.derive(stage); err != nil {
		return p.processFailure(ctx, record.ID, err)
	}
	return p.upload(ctx, record.ID, stage)
}

// IngestDrive resolves a drive-hosted photo, assigns the record's photo URLs
// from the drive content type, and processes the fetched bytes.
func (p *Pipeline) IngestDrive(ctx context.Context, record directory.Record, fileID string) (directory.Record, error) {
	if p.drive == nil {
		return directory.Record{}, fmt.Errorf("no drive resolver configured")
	}
	contentType, err := p.drive.ContentType(ctx, fileID)
	if err != nil {
		return directory.Record{}, fmt.Errorf("drive metadata for %s: %w", fileID, err)
	}
	record.Photo = p.baseURL + record.ID + extensionFor(contentType)
	record.Thumbnail = p.baseURL + record.ID + "-thumb" + extensionFor(contentType)

	body, err := p.drive.Fetch(ctx, fileID)
	if err != nil {
		return directory.Record{}, fmt.Errorf("drive fetch for %s: %w", fileID, err)
	}
	defer body.Close()

	if err := p.IngestUpload(ctx, record, body); err != nil {
		return directory.Record{}, err
	}
	return record, nil
}

// staging tracks the scratch files for one request. Both paths are released
// on every exit path, success or failure, to avoid unbounded accumulation.
type staging struct {
	photoKey  string
	thumbKey  string
	photoPath string
	thumbPath string
}

func (st staging) cleanup(logger *slog.Logger) {
	for _, p := range []string{st.photoPath, st.thumbPath} {
		if err := os.Remove(p); err != nil && !os.IsNotExist(err) {
			logger.Warn("failed to remove scratch file", "path", p, "error", err)
		}
	}
}

func (st staging) contentType() string {
	return mime.TypeByExtension(strings.ToLower(path.Ext(st.photoKey)))
}

// stage copies the source bytes onto scratch storage under the record's
// object keys.
func (p *Pipeline) stage(record directory.Record, photo io.Reader) (staging, error) {
	st := staging{
		photoKey: record.PhotoKey(),
		thumbKey: record.ThumbnailKey(),
	}
	st.photoPath = filepath.Join(p.scratchDir, st.photoKey)
	st.thumbPath = filepath.Join(p.scratchDir, st.thumbKey)

	out, err := os.Create(st.photoPath)
	if err != nil {
		return staging{}, fmt.Errorf("create scratch file: %w", err)
	}
	defer out.Close()
	if _, err := io.Copy(out, photo); err != nil {
		st.cleanup(p.logger)
		return staging{}, fmt.Errorf("stage photo: %w", err)
	}
	return st, nil
}

// derive corrects orientation from EXIF metadata (images without orientation
// metadata pass through unchanged) and writes the thumbnail. Orientation is
// fixed before any resize.
func (p *Pipeline) derive(st staging) error {
	img, err := imaging.Open(st.photoPath, imaging.AutoOrientation(true))
	if err != nil {
		return fmt.Errorf("decode photo: %w", err)
	}
	thumb := imaging.Fit(img, thumbnailSize, thumbnailSize, imaging.Lanczos)
	if err := imaging.Save(thumb, st.thumbPath); err != nil {
		return fmt.Errorf("write thumbnail: %w", err)
	}
	return nil
}

// upload publishes the photo and its thumbnail concurrently.
func (p *Pipeline) upload(ctx context.Context, recordID string, st staging) error {
	g, ctx := errgroup.WithContext(ctx)
	for _, obj := range []struct{ key, path string }{
		{st.photoKey, st.photoPath},
		{st.thumbKey, st.thumbPath},
	} {
		g.Go(func() error {
			f, err := os.Open(obj.path)
			if err != nil {
				return fmt.Errorf("open %s: %w", obj.path, err)
			}
			defer f.Close()
			return p.storage.Upload(ctx, obj.key, f, st.contentType())
		})
	}
	if err := g.Wait(); err != nil {
		p.metrics.CountPhotoFailure("upload")
		p.logger.ErrorContext(ctx, "photo upload failed", "record_id", recordID, "error", err)
		return directory.NewFormError("Unable to upload photo")
	}
	return nil
}

func (p *Pipeline) processFailure(ctx context.Context, recordID string, err error) error {
	p.metrics.CountPhotoFailure("process")
	p.logger.ErrorContext(ctx, "photo processing failed", "record_id", recordID, "error", err)
	return directory.NewFormError("Unable to process photo")
}

// extensionFor maps a content type onto a filename extension using the
// subtype, so image/jpeg becomes .jpeg.
func extensionFor(contentType string) string {
	if _, sub, ok := strings.Cut(contentType, "/"); ok {
		return "." + sub
	}
	return ""
}
