// Package spreadsheet loads directory records from the manually maintained
// workbook. Rows map onto records by a fixed column scheme and are always
// pre-moderated; the source is read-only and regenerated on every load.
package spreadsheet

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/xuri/excelize/v2"

	"tipjar/internal/directory"
)

// driveURLPrefix marks photo cells that point at an external drive host
// instead of object storage.
const driveURLPrefix = "https://drive.google.com/"

// Source reads records from an XLSX workbook. The first row is a header and
// is skipped; record IDs are synthesized from the data row index.
type Source struct {
	path string
}

func New(path string) *Source {
	return &Source{path: path}
}

// Entries returns every data row as an ImportEntry, including any transient
// drive file reference extracted from the photo cell.
func (s *Source) Entries(_ context.Context) ([]directory.ImportEntry, error) {
	f, err := excelize.OpenFile(s.path)
	if err != nil {
		return nil, fmt.Errorf("open spreadsheet: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("spreadsheet has no sheets")
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("read sheet %q: %w", sheets[0], err)
	}
	if len(rows) <= 1 {
		return nil, nil
	}

	entries := make([]directory.ImportEntry, 0, len(rows)-1)
	for i, row := range rows[1:] {
		entries = append(entries, entryFromRow(i, row))
	}
	return entries, nil
}

// Load implements directory.Source.
func (s *Source) Load(ctx context.Context) ([]directory.Record, error) {
	entries, err := s.Entries(ctx)
	if err != nil {
		return nil, err
	}
	records := make([]directory.Record, 0, len(entries))
	for _, entry := range entries {
		records = append(records, entry.Record)
	}
	return records, nil
}

// LoadByID implements directory.Source by scanning the loaded rows.
func (s *Source) LoadByID(ctx context.Context, id string) (directory.Record, error) {
	records, err := s.Load(ctx)
	if err != nil {
		return directory.Record{}, err
	}
	for _, record := range records {
		if record.ID == id {
			return record, nil
		}
	}
	return directory.Record{}, directory.ErrNotFound
}

// entryFromRow builds one record from a row. Columns: 0=timestamp 1=name
// 2=email 3=venue 4=position 5=cash_app 6=venmo 7=paypal 8=photo 9=thumbnail;
// missing trailing cells default to "". Spreadsheet records are always
// moderated and get a deterministic synthetic ID, so the two ID schemes never
// collide.
func entryFromRow(rowIndex int, cells []string) directory.ImportEntry {
	cell := func(i int) string {
		if i < len(cells) {
			return cells[i]
		}
		return ""
	}

	record := directory.Record{
		ID:        fmt.Sprintf("spreadsheet-%d", rowIndex),
		Moderated: true,
		Timestamp: cell(0),
		Name:      cell(1),
		Email:     cell(2),
		Venue:     cell(3),
		Position:  cell(4),
		CashApp:   cell(5),
		Venmo:     cell(6),
		PayPal:    cell(7),
		Photo:     cell(8),
		Thumbnail: cell(9),
	}

	entry := directory.ImportEntry{Record: record}
	if strings.HasPrefix(record.Photo, driveURLPrefix) {
		entry.DriveFileID = driveFileID(record.Photo)
		entry.Record.Photo = ""
	}
	return entry
}

// driveFileID pulls the file reference out of a drive URL's query parameters.
func driveFileID(photoURL string) string {
	u, err := url.Parse(photoURL)
	if err != nil {
		return ""
	}
	return u.Query().Get("id")
}
