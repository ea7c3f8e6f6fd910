package main

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// runCLI executes the command tree with the provided arguments and returns
// captured stdout, stderr, and the execution error.
func runCLI(t *testing.T, args []string, configPath string) (string, string, error) {
	t.Helper()
	cmd := newRootCommand()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	if configPath != "" {
		args = append([]string{"--config", configPath}, args...)
	}
	cmd.SetArgs(args)
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

type testConfigValues struct {
	outputDir       string
	converterBinary string
}

// writeTestConfig writes a config file whose directories live under base and
// returns its path. The gpsbabel override env var is cleared so host
// environments cannot leak into the run.
func writeTestConfig(t *testing.T, base string, values testConfigValues) string {
	t.Helper()
	t.Setenv("STRAVA2GPX_GPSBABEL", "")

	binary := values.converterBinary
	if binary == "" {
		binary = "gpsbabel"
	}
	content := fmt.Sprintf(`[paths]
output_dir = %q
staging_dir = %q
log_dir = %q
data_dir = %q

[converter]
binary = %q
`,
		values.outputDir,
		filepath.Join(base, "staging"),
		filepath.Join(base, "logs"),
		filepath.Join(base, "data"),
		binary,
	)
	path := filepath.Join(base, "config.toml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

// writeExportDir lays out an extracted Strava export with an activity index
// and the referenced track files.
func writeExportDir(t *testing.T, base string, index string, tracks map[string]string) string {
	t.Helper()
	exportDir := filepath.Join(base, "export")
	if index != "" {
		indexPath := filepath.Join(exportDir, "activities.csv")
		if err := os.MkdirAll(exportDir, 0o755); err != nil {
			t.Fatalf("create export dir: %v", err)
		}
		if err := os.WriteFile(indexPath, []byte(index), 0o644); err != nil {
			t.Fatalf("write index: %v", err)
		}
	} else if err := os.MkdirAll(exportDir, 0o755); err != nil {
		t.Fatalf("create export dir: %v", err)
	}
	for name, content := range tracks {
		path := filepath.Join(exportDir, filepath.FromSlash(name))
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatalf("create track dir: %v", err)
		}
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			t.Fatalf("write track %s: %v", name, err)
		}
	}
	return exportDir
}

func requireContains(t *testing.T, haystack, needle string) {
	t.Helper()
	if !strings.Contains(haystack, needle) {
		t.Fatalf("expected output to contain %q, got:\n%s", needle, haystack)
	}
}

const sampleIndex = `Activity ID,Activity Date,Activity Type,Activity Name,Filename
1001,"May 1, 2018, 5:14:01 AM",Run,Morning Run,activities/1001.gpx
1002,"Jun 2, 2019, 6:00:00 AM",Ride,Lunch Ride,
1003,"Jul 3, 2020, 7:00:00 AM",Hike,Evening Hike,activities/1003.gpx
`
