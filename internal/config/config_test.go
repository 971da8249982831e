package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadMissingFileReturnsDefault(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.json"))
	if err == nil {
		t.Fatal("expected error for missing file")
	}
	if cfg.AFKTimeoutS != Default().AFKTimeoutS {
		t.Fatalf("expected default config, got %+v", cfg)
	}
}

func TestLoadMalformedFileReturnsDefault(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	if err := os.WriteFile(path, []byte("{not json"), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg, err := Load(path)
	if err == nil {
		t.Fatal("expected parse error")
	}
	if cfg.FlushIntervalS != Default().FlushIntervalS {
		t.Fatalf("expected default config on parse failure, got %+v", cfg)
	}
}

func TestSaveThenLoadRoundTrips(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	cfg := Default()
	cfg.AFKTimeoutS = 42
	cfg.TrackedApps = []TrackedApp{{BundleID: "com.apple.dt.Xcode", Name: "Xcode"}}

	if err := Save(path, cfg); err != nil {
		t.Fatal(err)
	}
	loaded, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if loaded.AFKTimeoutS != 42 {
		t.Fatalf("AFKTimeoutS = %d, want 42", loaded.AFKTimeoutS)
	}
	if len(loaded.TrackedApps) != 1 || loaded.TrackedApps[0].BundleID != "com.apple.dt.Xcode" {
		t.Fatalf("TrackedApps not round-tripped: %+v", loaded.TrackedApps)
	}
}

func TestBroadcasterLatestWins(t *testing.T) {
	b := NewBroadcaster(Default())
	ch := b.Watch()

	first := <-ch
	if first.AFKTimeoutS != Default().AFKTimeoutS {
		t.Fatalf("seed value mismatch")
	}

	cfgA := Default()
	cfgA.AFKTimeoutS = 100
	cfgB := Default()
	cfgB.AFKTimeoutS = 200

	// Two rapid sets without a read in between; only the latest should
	// ever be observed.
	b.Set(cfgA)
	b.Set(cfgB)

	select {
	case got := <-ch:
		if got.AFKTimeoutS != 200 {
			t.Fatalf("expected latest-wins value 200, got %d", got.AFKTimeoutS)
		}
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for broadcast")
	}

	if b.Current().AFKTimeoutS != 200 {
		t.Fatalf("Current() = %d, want 200", b.Current().AFKTimeoutS)
	}
}
