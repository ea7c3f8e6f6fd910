package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const gpxPayload = `<?xml version="1.0"?><gpx version="1.1"></gpx>`

func TestConvertGpxExportEndToEnd(t *testing.T) {
	base := t.TempDir()
	exportDir := writeExportDir(t, base, sampleIndex, map[string]string{
		"activities/1001.gpx": gpxPayload,
		"activities/1003.gpx": gpxPayload,
	})
	outputDir := filepath.Join(base, "gpx")
	configPath := writeTestConfig(t, base, testConfigValues{})

	out, _, err := runCLI(t, []string{"--input", exportDir, "--output", outputDir}, configPath)
	if err != nil {
		t.Fatalf("convert: %v", err)
	}
	requireContains(t, out, "Converted 2, skipped 1, failed 0 (of 3 matched activities)")

	converted := filepath.Join(outputDir, "2018-05-01-051401_Run_1001.gpx")
	data, err := os.ReadFile(converted)
	if err != nil {
		t.Fatalf("read converted file: %v", err)
	}
	if string(data) != gpxPayload {
		t.Fatalf("unexpected converted content: %q", data)
	}
	if _, err := os.Stat(filepath.Join(outputDir, "2020-07-03-070000_Hike_1003.gpx")); err != nil {
		t.Fatalf("expected second converted file: %v", err)
	}
}

func TestConvertFiltersByTypeAndYear(t *testing.T) {
	base := t.TempDir()
	exportDir := writeExportDir(t, base, sampleIndex, map[string]string{
		"activities/1001.gpx": gpxPayload,
		"activities/1003.gpx": gpxPayload,
	})
	outputDir := filepath.Join(base, "gpx")
	configPath := writeTestConfig(t, base, testConfigValues{})

	out, _, err := runCLI(t, []string{
		"--input", exportDir,
		"--output", outputDir,
		"--filter-type", "Hike",
		"--filter-year", "2020",
	}, configPath)
	if err != nil {
		t.Fatalf("convert: %v", err)
	}
	requireContains(t, out, "(of 1 matched activities)")

	entries, err := os.ReadDir(outputDir)
	if err != nil {
		t.Fatalf("read output dir: %v", err)
	}
	if len(entries) != 1 || entries[0].Name() != "2020-07-03-070000_Hike_1003.gpx" {
		t.Fatalf("unexpected output entries: %v", entries)
	}
}

func TestConvertReportsFailures(t *testing.T) {
	index := `Activity ID,Activity Date,Activity Type,Activity Name,Filename
2001,"May 1, 2018, 5:14:01 AM",Run,Morning Run,activities/2001.kml
`
	base := t.TempDir()
	exportDir := writeExportDir(t, base, index, map[string]string{
		"activities/2001.kml": "<kml/>",
	})
	configPath := writeTestConfig(t, base, testConfigValues{})

	out, _, err := runCLI(t, []string{"--input", exportDir, "--output", filepath.Join(base, "gpx")}, configPath)
	if err == nil {
		t.Fatal("expected failure error")
	}
	if !strings.Contains(err.Error(), "1 of 1 activities failed to convert") {
		t.Fatalf("unexpected error: %v", err)
	}
	requireContains(t, out, "2001")
	requireContains(t, out, "unsupported track format")
}

func TestListTypesPrintsSortedTypes(t *testing.T) {
	base := t.TempDir()
	exportDir := writeExportDir(t, base, sampleIndex, nil)
	configPath := writeTestConfig(t, base, testConfigValues{})

	out, _, err := runCLI(t, []string{"--input", exportDir, "--list-types"}, configPath)
	if err != nil {
		t.Fatalf("list types: %v", err)
	}
	want := "Hike\nRide\nRun\n"
	if out != want {
		t.Fatalf("unexpected list output %q, want %q", out, want)
	}
}

func TestListTypesRejectsFilterFlags(t *testing.T) {
	base := t.TempDir()
	exportDir := writeExportDir(t, base, sampleIndex, nil)
	configPath := writeTestConfig(t, base, testConfigValues{})

	_, _, err := runCLI(t, []string{"--input", exportDir, "--list-types", "--filter-type", "Run"}, configPath)
	if err == nil || !strings.Contains(err.Error(), "--list-types cannot be combined") {
		t.Fatalf("expected mutual exclusion error, got %v", err)
	}
}

func TestConvertRequiresInputFlag(t *testing.T) {
	base := t.TempDir()
	configPath := writeTestConfig(t, base, testConfigValues{})

	_, _, err := runCLI(t, nil, configPath)
	if err == nil || !strings.Contains(err.Error(), "input") {
		t.Fatalf("expected missing input error, got %v", err)
	}
}

func TestConvertMissingIndex(t *testing.T) {
	base := t.TempDir()
	exportDir := writeExportDir(t, base, "", nil)
	configPath := writeTestConfig(t, base, testConfigValues{})

	_, _, err := runCLI(t, []string{"--input", exportDir, "--output", filepath.Join(base, "gpx")}, configPath)
	if err == nil || !strings.Contains(err.Error(), "activities.csv") {
		t.Fatalf("expected missing index error, got %v", err)
	}
}

func TestConvertRequiresOutputDir(t *testing.T) {
	base := t.TempDir()
	exportDir := writeExportDir(t, base, sampleIndex, nil)
	configPath := writeTestConfig(t, base, testConfigValues{})

	_, _, err := runCLI(t, []string{"--input", exportDir}, configPath)
	if err == nil || !strings.Contains(err.Error(), "output directory is required") {
		t.Fatalf("expected output dir error, got %v", err)
	}
}

func TestConvertChecksConverterAvailability(t *testing.T) {
	index := `Activity ID,Activity Date,Activity Type,Activity Name,Filename
3001,"May 1, 2018, 5:14:01 AM",Run,Morning Run,activities/3001.fit
`
	base := t.TempDir()
	exportDir := writeExportDir(t, base, index, map[string]string{
		"activities/3001.fit": "fit-bytes",
	})
	configPath := writeTestConfig(t, base, testConfigValues{
		converterBinary: "strava2gpx-missing-binary",
	})

	_, _, err := runCLI(t, []string{"--input", exportDir, "--output", filepath.Join(base, "gpx")}, configPath)
	if err == nil || !strings.Contains(err.Error(), "not available") {
		t.Fatalf("expected converter availability error, got %v", err)
	}
}

func TestHistoryListsRecordedConversions(t *testing.T) {
	base := t.TempDir()
	exportDir := writeExportDir(t, base, sampleIndex, map[string]string{
		"activities/1001.gpx": gpxPayload,
		"activities/1003.gpx": gpxPayload,
	})
	configPath := writeTestConfig(t, base, testConfigValues{})

	if _, _, err := runCLI(t, []string{"--input", exportDir, "--output", filepath.Join(base, "gpx")}, configPath); err != nil {
		t.Fatalf("convert: %v", err)
	}

	out, _, err := runCLI(t, []string{"history", "--limit", "10"}, configPath)
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	requireContains(t, out, "1001")
	requireContains(t, out, "converted")
	requireContains(t, out, "no GPS track recorded")
}
