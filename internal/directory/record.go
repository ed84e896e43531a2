package directory

import (
	"context"
	"net/url"
	"path"
)

// Record is the canonical in-memory representation of one directory entry.
//
// Invariants:
//   - Every field exists on every record; the zero value is the default
//     (empty strings, Moderated=false).
//   - ID and Timestamp are immutable after creation.
//   - A record is publicly visible iff Moderated is true.
//   - Photo and Thumbnail are set together or not at all; the thumbnail URL
//     is the photo URL with "-thumb" inserted before the extension.
//
// The struct is comparable on purpose: spotlight sampling removes records
// already present in search results by full field-value equality, not by ID.
type Record struct {
	ID        string `json:"id"`
	Moderated bool   `json:"moderated"`
	Timestamp string `json:"timestamp"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	Venue     string `json:"venue"`
	Position  string `json:"position"`
	CashApp   string `json:"cash_app"`
	Venmo     string `json:"venmo"`
	PayPal    string `json:"paypal"`
	Photo     string `json:"photo"`
	Thumbnail string `json:"thumbnail"`
}

// Apply overwrites the editable fields from a submission. ID, Timestamp,
// Moderated and the photo URLs are managed elsewhere.
func (r *Record) Apply(sub Submission) {
	r.Name = sub.Name
	r.Email = sub.Email
	r.Venue = sub.Venue
	r.Position = sub.Position
	r.CashApp = sub.CashApp
	r.Venmo = sub.Venmo
	r.PayPal = sub.PayPal
}

// PhotoKey returns the object-storage key of the full-size photo, derived
// from the last path segment of the photo URL. Empty when no photo is set.
func (r Record) PhotoKey() string {
	return keyFromURL(r.Photo)
}

// ThumbnailKey returns the object-storage key of the thumbnail.
func (r Record) ThumbnailKey() string {
	return keyFromURL(r.Thumbnail)
}

func keyFromURL(raw string) string {
	if raw == "" {
		return ""
	}
	u, err := url.Parse(raw)
	if err != nil {
		return ""
	}
	return path.Base(u.Path)
}

// ImportEntry pairs a spreadsheet-sourced record with the transient drive
// file reference extracted from its photo cell. The reference is only used
// during import to fetch the photo bytes; it is never persisted.
type ImportEntry struct {
	Record      Record
	DriveFileID string
}

// Importer yields the spreadsheet rows as records ready for import.
type Importer interface {
	Entries(ctx context.Context) ([]ImportEntry, error)
}
