package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"go.viam.com/test"

	"github.com/viamrobotics/autodrive/logging"
)

func TestWatcher(t *testing.T) {
	logger := logging.NewTestLogger(t)
	dir := t.TempDir()
	path := filepath.Join(dir, "autodrive.json")
	test.That(t, os.WriteFile(path, []byte(`{}`), 0o600), test.ShouldBeNil)

	ctx := context.Background()
	watcher, err := NewWatcher(ctx, path, logger)
	test.That(t, err, test.ShouldBeNil)
	defer func() {
		test.That(t, watcher.Close(ctx), test.ShouldBeNil)
	}()

	// an invalid revision is skipped
	test.That(t, os.WriteFile(path, []byte(`{"pid": {"kp": -1}}`), 0o600), test.ShouldBeNil)
	test.That(t, os.WriteFile(path, []byte(`{"planner": {"cruise_speed_kph": 42}}`), 0o600), test.ShouldBeNil)

	timeout := time.After(10 * time.Second)
	for {
		select {
		case cfg := <-watcher.Config():
			if cfg.Planner.CruiseSpeed == 42 {
				return
			}
		case <-timeout:
			t.Fatal("timed out waiting for config change")
		}
	}
}

func TestWatcherMissingDirectory(t *testing.T) {
	_, err := NewWatcher(context.Background(), filepath.Join(t.TempDir(), "nope", "a.json"), logging.NewTestLogger(t))
	test.That(t, err, test.ShouldNotBeNil)
}
