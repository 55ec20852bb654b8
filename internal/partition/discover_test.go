package partition

import (
	"os"
	"testing"
)

func touch(t *testing.T, path string) {
	t.Helper()
	if err := os.WriteFile(path, []byte("url\n"), 0644); err != nil {
		t.Fatal(err)
	}
}

func TestDiscover(t *testing.T) {
	dir := t.TempDir()
	for i := 1; i <= 3; i++ {
		touch(t, Path(dir, "part", i))
	}
	// A gap after 3: index 5 must not be picked up.
	touch(t, Path(dir, "part", 5))

	paths, err := Discover(dir, "part")
	if err != nil {
		t.Fatalf("Discover error = %v", err)
	}
	if len(paths) != 3 {
		t.Fatalf("got %d paths, want 3 (contiguous from 1)", len(paths))
	}
	if paths[0] != Path(dir, "part", 1) || paths[2] != Path(dir, "part", 3) {
		t.Errorf("paths out of order: %v", paths)
	}
}

func TestDiscover_NoPartitions(t *testing.T) {
	if _, err := Discover(t.TempDir(), "part"); err == nil {
		t.Fatal("Discover should error when no partitions exist")
	}
}
