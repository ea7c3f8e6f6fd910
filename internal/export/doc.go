// Package export provides read-only access to a Strava bulk export, whether
// it is still zipped or already unpacked into a directory.
//
// Both forms expose the same Reader interface: entries are addressed by
// slash-separated paths relative to the export root, exactly as the
// activities.csv index references them. The source is never modified.
package export
