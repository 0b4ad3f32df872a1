package logging

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"go.viam.com/test"
)

func TestFileAppender(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "autodrive.log")
	appender := NewFileAppender(path, 1, 2)
	logger := NewBlankLogger("file")
	logger.AddAppender(appender)

	logger.Infow("line lost", "speed_kph", 10)
	logger.Debug("obstacle ahead")
	test.That(t, appender.Close(), test.ShouldBeNil)

	//nolint:gosec
	data, err := os.ReadFile(path)
	test.That(t, err, test.ShouldBeNil)
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	test.That(t, lines, test.ShouldHaveLength, 2)
	test.That(t, lines[0], test.ShouldContainSubstring, "line lost")
	test.That(t, lines[0], test.ShouldContainSubstring, `"speed_kph":10`)
	test.That(t, lines[1], test.ShouldContainSubstring, "obstacle ahead")
}
