package convert

import (
	"strings"

	"strava2gpx/internal/activity"
)

// OutputName derives the GPX file name for a record. The activity id makes
// the name unique even when several activities share a date and type.
func OutputName(rec activity.Record) string {
	date := rec.Date.Format("2006-01-02-150405")
	return date + "_" + sanitizeName(rec.Type) + "_" + sanitizeName(rec.ID) + ".gpx"
}

func sanitizeName(name string) string {
	name = strings.TrimSpace(name)
	replacer := strings.NewReplacer(
		" ", "-",
		"/", "-",
		"\\", "-",
		":", "-",
		"*", "", "?", "", "\"", "", "<", "", ">", "", "|", "",
	)
	sanitized := replacer.Replace(name)
	if sanitized == "" {
		return "unknown"
	}
	return sanitized
}
