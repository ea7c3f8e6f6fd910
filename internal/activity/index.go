package activity

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"strava2gpx/internal/logging"
)

// ErrMalformedIndex marks an index whose header lacks required columns.
var ErrMalformedIndex = errors.New("malformed activity index")

// dateLayouts covers the timestamp formats Strava has used in
// activities.csv, newest first.
var dateLayouts = []string{
	"Jan 2, 2006, 3:04:05 PM",
	"2006-01-02 15:04:05",
	time.RFC3339,
	"2006-01-02",
}

// columnAliases maps normalized header names to record fields. Header cells
// are matched after lowercasing and stripping spaces and underscores, so
// "Activity Type", "activity_type", and "type" all resolve the same way.
var columnAliases = map[string]string{
	"activityid":   "id",
	"id":           "id",
	"activitydate": "date",
	"date":         "date",
	"activitytype": "type",
	"type":         "type",
	"filename":     "file",
	"sourcefile":   "file",
}

// ParseIndex reads activities.csv into records, one per row in source order.
//
// Columns are located by header name, so reordered or additional columns are
// tolerated. Rows with a blank type or an unparseable date are logged and
// skipped; a header missing a required column fails with ErrMalformedIndex.
func ParseIndex(r io.Reader, logger *slog.Logger) ([]Record, error) {
	log := logging.WithComponent(logger, "index")

	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("%w: empty index", ErrMalformedIndex)
		}
		return nil, fmt.Errorf("%w: read header: %v", ErrMalformedIndex, err)
	}

	columns := map[string]int{}
	for i, cell := range header {
		field, ok := columnAliases[normalizeHeader(cell)]
		if !ok {
			continue
		}
		if _, seen := columns[field]; !seen {
			columns[field] = i
		}
	}
	for _, field := range []string{"id", "date", "type", "file"} {
		if _, ok := columns[field]; !ok {
			return nil, fmt.Errorf("%w: missing %s column in header %v", ErrMalformedIndex, field, header)
		}
	}

	var records []Record
	for row := 2; ; row++ {
		cells, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			log.Warn("skipping unreadable row", slog.Int("row", row), slog.Any("error", err))
			continue
		}

		rec := Record{
			ID:         cellAt(cells, columns["id"]),
			Type:       cellAt(cells, columns["type"]),
			SourceFile: cellAt(cells, columns["file"]),
		}
		if rec.Type == "" {
			log.Warn("skipping row with blank activity type", slog.Int("row", row), slog.String(logging.FieldActivityID, rec.ID))
			continue
		}

		rawDate := cellAt(cells, columns["date"])
		date, ok := parseDate(rawDate)
		if !ok {
			log.Warn("skipping row with unparseable date",
				slog.Int("row", row),
				slog.String(logging.FieldActivityID, rec.ID),
				slog.String("date", rawDate))
			continue
		}
		rec.Date = date

		records = append(records, rec)
	}

	log.Debug("parsed activity index", slog.Int("records", len(records)))
	return records, nil
}

func normalizeHeader(cell string) string {
	cell = strings.ToLower(strings.TrimSpace(cell))
	cell = strings.ReplaceAll(cell, " ", "")
	return strings.ReplaceAll(cell, "_", "")
}

func cellAt(cells []string, idx int) string {
	if idx < 0 || idx >= len(cells) {
		return ""
	}
	return strings.TrimSpace(cells[idx])
}

func parseDate(value string) (time.Time, bool) {
	if value == "" {
		return time.Time{}, false
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
