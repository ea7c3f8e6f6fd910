// Package activity models the rows of a Strava export's activity index and
// the pure transforms over them: parsing the CSV index into records,
// filtering by type and year, and listing the distinct activity types.
//
// Records are immutable values; filtering returns subsets in source order and
// never mutates its input.
package activity
