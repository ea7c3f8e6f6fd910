package activity

import "time"

// Record is one activity from the export index.
type Record struct {
	// ID is the Strava activity identifier, kept as the opaque string the
	// index carries.
	ID string
	// Type is the service-defined activity type tag, e.g. "Run" or "Ride".
	Type string
	// Date is the activity start time as recorded in the index.
	Date time.Time
	// SourceFile is the track file path relative to the export root. Empty
	// when the activity carries no recorded track (manual entries).
	SourceFile string
}

// HasTrack reports whether the activity references a recorded track file.
func (r Record) HasTrack() bool {
	return r.SourceFile != ""
}
