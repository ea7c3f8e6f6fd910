package preflight

import (
	"path/filepath"
	"testing"

	"strava2gpx/internal/testsupport"
)

func TestCheckDirectoryAccess(t *testing.T) {
	dir := t.TempDir()

	result := CheckDirectoryAccess("Output directory", dir)
	if !result.Passed {
		t.Fatalf("expected writable temp dir to pass, got %+v", result)
	}

	result = CheckDirectoryAccess("Output directory", filepath.Join(dir, "absent"))
	if result.Passed {
		t.Fatal("expected missing directory to fail")
	}
	if result.Detail == "" {
		t.Fatal("expected detail for missing directory")
	}
}

func TestCheckFreeSpace(t *testing.T) {
	result := CheckFreeSpace("Staging space", t.TempDir())
	if !result.Passed {
		t.Fatalf("expected temp dir filesystem to have space, got %+v", result)
	}

	result = CheckFreeSpace("Staging space", "/definitely/not/a/path")
	if result.Passed {
		t.Fatal("expected statfs failure for bogus path")
	}
}

func TestCheckSystemDeps(t *testing.T) {
	cfg := testsupport.NewConfig(t, testsupport.WithStubbedBinaries())

	statuses := CheckSystemDeps(cfg)
	if len(statuses) != 1 {
		t.Fatalf("expected one status, got %d", len(statuses))
	}
	if !statuses[0].Available {
		t.Fatalf("expected stubbed gpsbabel to be available, got %+v", statuses[0])
	}

	cfg.Converter.Binary = "strava2gpx-missing-binary"
	statuses = CheckSystemDeps(cfg)
	if statuses[0].Available {
		t.Fatal("expected missing binary to be unavailable")
	}
}
