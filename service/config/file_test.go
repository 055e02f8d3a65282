package config

import (
	"os"
	"path/filepath"
	"testing"
)

func writeTestConfig(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "pm.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("Failed to write config file: %v", err)
	}
	return path
}

func TestFileOverridesAndDefaults(t *testing.T) {
	path := writeTestConfig(t, `
inferenceInterval: 1.5
windowCapacity: 10
alertCooldown: 60
goodLabel: upright
captureDevice: "rtsp://cam.local/stream"
hubAddress: ":8090"
`)

	svc, err := NewFile(path)
	if err != nil {
		t.Fatalf("NewFile failed: %v", err)
	}

	if got := svc.GetInferenceInterval(); got != 1.5 {
		t.Errorf("Expected interval 1.5, got %v", got)
	}
	if got := svc.GetWindowCapacity(); got != 10 {
		t.Errorf("Expected window capacity 10, got %d", got)
	}
	if got := svc.GetAlertCooldown(); got != 60 {
		t.Errorf("Expected cooldown 60, got %d", got)
	}
	if got := svc.GetGoodLabel(); got != "upright" {
		t.Errorf("Expected good label 'upright', got %q", got)
	}
	if got := svc.GetCaptureDevice(); got != "rtsp://cam.local/stream" {
		t.Errorf("Expected capture device override, got %q", got)
	}
	if got := svc.GetHubAddress(); got != ":8090" {
		t.Errorf("Expected hub address ':8090', got %q", got)
	}

	// Unset options fall back to the hardcoded defaults
	defaults := NewHardCoded()
	if got := svc.GetCaptureFPS(); got != defaults.GetCaptureFPS() {
		t.Errorf("Expected default FPS %d, got %d", defaults.GetCaptureFPS(), got)
	}
	if got := svc.GetReadingsDBPath(); got != defaults.GetReadingsDBPath() {
		t.Errorf("Expected default db path %q, got %q", defaults.GetReadingsDBPath(), got)
	}
}

func TestFileMissing(t *testing.T) {
	if _, err := NewFile(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Fatal("Expected error for missing config file")
	}
}

func TestFileMalformed(t *testing.T) {
	path := writeTestConfig(t, "inferenceInterval: [not a number")

	if _, err := NewFile(path); err == nil {
		t.Fatal("Expected error for malformed config file")
	}
}
