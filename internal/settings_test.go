package internal

import (
	"path/filepath"
	"testing"
)

func TestReadSettingsMissingFileFallsBack(t *testing.T) {
	prefs, err := readSettings(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatalf("missing file should not be an error: %v", err)
	}
	if prefs.ServerURL == "" || prefs.Handle == "" {
		t.Errorf("expected populated defaults, got %+v", prefs)
	}
}

func TestSettingsRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")

	in := &Settings{ServerURL: "ws://example.test/ws", Handle: "trinity", EnableSounds: false}
	if err := in.save(path); err != nil {
		t.Fatalf("save failed: %v", err)
	}

	out, err := readSettings(path)
	if err != nil {
		t.Fatalf("read failed: %v", err)
	}
	if *out != *in {
		t.Errorf("round trip mismatch: got %+v, want %+v", out, in)
	}
}
