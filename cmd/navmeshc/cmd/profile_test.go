package cmd

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultProfileToConfig(t *testing.T) {
	p := DefaultProfile()
	cfg := p.toConfig()

	if err := cfg.Validate(); err != nil {
		t.Fatalf("default profile produced an invalid config: %v", err)
	}
	if cfg.WalkableHeight < 1 {
		t.Fatalf("WalkableHeight = %d, want >= 1", cfg.WalkableHeight)
	}
	if cfg.MaxVertsPerPoly != 6 {
		t.Fatalf("MaxVertsPerPoly = %d, want 6", cfg.MaxVertsPerPoly)
	}
}

func TestPartitionType(t *testing.T) {
	p := DefaultProfile()
	p.Partition = "monotone"
	if p.partitionType() != 1 {
		t.Fatalf("expected PartitionMonotone for %q", p.Partition)
	}
	p.Partition = "watershed"
	if p.partitionType() != 0 {
		t.Fatalf("expected PartitionWatershed for %q", p.Partition)
	}
}

func TestSaveAndLoadProfile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "profile.yml")

	want := DefaultProfile()
	want.CellSize = 0.5
	if err := saveProfile(path, want); err != nil {
		t.Fatalf("saveProfile() error = %v", err)
	}

	got, err := loadProfile(path)
	if err != nil {
		t.Fatalf("loadProfile() error = %v", err)
	}
	if got.CellSize != 0.5 {
		t.Fatalf("CellSize = %v, want 0.5", got.CellSize)
	}
}

func TestLoadProfileMissingFileReturnsError(t *testing.T) {
	_, err := loadProfile(filepath.Join(t.TempDir(), "missing.yml"))
	if err == nil {
		t.Fatalf("expected an error for a missing profile file")
	}
	if _, statErr := os.Stat("does-not-exist.yml"); statErr == nil {
		t.Fatalf("test fixture leaked a file")
	}
}
