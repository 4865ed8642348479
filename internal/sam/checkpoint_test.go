package sam

import (
	"os"
	"path/filepath"
	"testing"
)

func TestResolveCheckpointExplicitPath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "custom.pth")
	if err := os.WriteFile(path, []byte("weights"), 0o644); err != nil {
		t.Fatal(err)
	}

	got, err := ResolveCheckpoint(path, "vit_b")
	if err != nil {
		t.Fatalf("ResolveCheckpoint: %v", err)
	}
	if got != path {
		t.Errorf("resolved %q, want explicit path %q", got, path)
	}
}

func TestResolveCheckpointDefaultLocation(t *testing.T) {
	tmp := t.TempDir()
	t.Chdir(tmp)

	if err := os.MkdirAll("models", 0o755); err != nil {
		t.Fatal(err)
	}
	def := filepath.Join("models", "sam_vit_b_01ec64.pth")
	if err := os.WriteFile(def, []byte("weights"), 0o644); err != nil {
		t.Fatal(err)
	}

	got, err := ResolveCheckpoint("", "vit_b")
	if err != nil {
		t.Fatalf("ResolveCheckpoint: %v", err)
	}
	if got != def {
		t.Errorf("resolved %q, want %q", got, def)
	}
}

func TestResolveCheckpointMissing(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("HOME", t.TempDir())

	if _, err := ResolveCheckpoint("", "vit_b"); err == nil {
		t.Error("expected error when no checkpoint exists")
	}
	if _, err := ResolveCheckpoint("", "vit_q"); err == nil {
		t.Error("expected error for unknown model type")
	}
}
