package activity_test

import (
	"reflect"
	"testing"
	"time"

	"strava2gpx/internal/activity"
)

func record(id, typ string, year int) activity.Record {
	return activity.Record{
		ID:         id,
		Type:       typ,
		Date:       time.Date(year, time.May, 1, 6, 0, 0, 0, time.UTC),
		SourceFile: "activities/" + id + ".fit",
	}
}

func ids(records []activity.Record) []string {
	out := make([]string, 0, len(records))
	for _, r := range records {
		out = append(out, r.ID)
	}
	return out
}

func TestFilterNoConstraintsReturnsAllInOrder(t *testing.T) {
	index := []activity.Record{
		record("1", "Run", 2018),
		record("2", "Ride", 2018),
		record("3", "Run", 2019),
	}

	got := activity.Filter(index, activity.Criteria{})
	if !reflect.DeepEqual(got, index) {
		t.Fatalf("expected full index back, got %+v", got)
	}
	// The result must be a copy, not an alias.
	got[0].ID = "mutated"
	if index[0].ID != "1" {
		t.Fatal("Filter aliased its input slice")
	}
}

func TestFilterByType(t *testing.T) {
	index := []activity.Record{
		record("1", "Run", 2018),
		record("2", "Ride", 2018),
		record("3", "Run", 2019),
		record("4", "Hike", 2019),
	}

	got := activity.Filter(index, activity.Criteria{Types: []string{"Run", "Hike"}})
	if want := []string{"1", "3", "4"}; !reflect.DeepEqual(ids(got), want) {
		t.Fatalf("unexpected matches: %v", ids(got))
	}
	if len(got) > len(index) {
		t.Fatal("result larger than input")
	}
}

func TestFilterTypeMatchIsCaseSensitive(t *testing.T) {
	index := []activity.Record{record("1", "Run", 2018)}
	if got := activity.Filter(index, activity.Criteria{Types: []string{"run"}}); len(got) != 0 {
		t.Fatalf("expected case-sensitive match to exclude record, got %v", ids(got))
	}
}

func TestFilterCombinedIsIntersection(t *testing.T) {
	index := []activity.Record{
		record("1", "Run", 2018),
		record("2", "Ride", 2018),
		record("3", "Run", 2019),
		record("4", "Ride", 2019),
	}

	byType := activity.Filter(index, activity.Criteria{Types: []string{"Run"}})
	byYear := activity.Filter(index, activity.Criteria{Year: 2019})
	combined := activity.Filter(index, activity.Criteria{Types: []string{"Run"}, Year: 2019})

	inBoth := activity.Filter(byType, activity.Criteria{Year: 2019})
	if !reflect.DeepEqual(combined, inBoth) {
		t.Fatalf("combined filter is not the intersection: %v vs %v", ids(combined), ids(inBoth))
	}
	reversed := activity.Filter(byYear, activity.Criteria{Types: []string{"Run"}})
	if !reflect.DeepEqual(combined, reversed) {
		t.Fatalf("filter application order changed the result: %v vs %v", ids(combined), ids(reversed))
	}
	if want := []string{"3"}; !reflect.DeepEqual(ids(combined), want) {
		t.Fatalf("unexpected combined matches: %v", ids(combined))
	}
}

func TestFilterYearNoMatches(t *testing.T) {
	index := []activity.Record{
		record("1", "Run", 2018),
		record("2", "Ride", 2018),
	}
	if got := activity.Filter(index, activity.Criteria{Types: []string{"Run"}, Year: 2019}); len(got) != 0 {
		t.Fatalf("expected no matches, got %v", ids(got))
	}
}

func TestTypesDistinctSortedStable(t *testing.T) {
	index := []activity.Record{
		record("1", "Run", 2018),
		record("2", "Hike", 2018),
		record("3", "Run", 2019),
		record("4", "Alpine Ski", 2019),
		record("5", "Ride", 2019),
	}

	want := []string{"Alpine Ski", "Hike", "Ride", "Run"}
	first := activity.Types(index)
	if !reflect.DeepEqual(first, want) {
		t.Fatalf("unexpected types: %v", first)
	}
	second := activity.Types(index)
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("Types not stable across calls: %v vs %v", first, second)
	}
}
