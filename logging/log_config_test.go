package logging

import (
	"strings"
	"testing"

	"go.viam.com/test"
)

func verifySetLevels(registry *Registry, expectedMatches map[string]string) bool {
	for name, level := range expectedMatches {
		logger, ok := registry.loggerNamed(name)
		if !ok || !strings.EqualFold(level, logger.GetLevel().String()) {
			return false
		}
	}
	return true
}

func createTestRegistry(loggerNames []string) *Registry {
	registry := newRegistry()
	for _, name := range loggerNames {
		registry.getOrRegister(name, NewBlankLogger(name))
	}
	return registry
}

func TestValidatePattern(t *testing.T) {
	t.Parallel()

	for _, tc := range []struct {
		pattern string
		isValid bool
	}{
		{"autodrive.pilot", true},
		{"autodrive.pilot.*", true},
		{"autodrive.*.fusion", true},
		{"autodrive.*.*", true},
		{"*.recorder", true},
		{"*", true},

		{"autodrive..pilot", false},
		{"autodrive.pilot.", false},
		{".autodrive.pilot", false},
		{"autodrive.pilot.**", false},
		{"_.autodrive", false},
		{"autodrive.-", false},
		{"autodrive pilot", false},
	} {
		tc := tc
		t.Run(tc.pattern, func(t *testing.T) {
			t.Parallel()
			test.That(t, validatePattern(tc.pattern), test.ShouldEqual, tc.isValid)
		})
	}
}

func TestUpdateLoggerRegistry(t *testing.T) {
	for _, tc := range []struct {
		name            string
		loggerConfig    []LoggerPatternConfig
		loggerNames     []string
		expectedMatches map[string]string
	}{
		{
			name:         "exact",
			loggerConfig: []LoggerPatternConfig{{Pattern: "autodrive.pilot", Level: "WARN"}},
			loggerNames:  []string{"autodrive.pilot", "autodrive.pilot.fusion", "autodrive.runner"},
			expectedMatches: map[string]string{
				"autodrive.pilot":        "Warn",
				"autodrive.pilot.fusion": "Info",
				"autodrive.runner":       "Info",
			},
		},
		{
			name:         "wildcard",
			loggerConfig: []LoggerPatternConfig{{Pattern: "autodrive.*", Level: "DEBUG"}},
			loggerNames:  []string{"autodrive.pilot", "autodrive.runner.config", "recorder"},
			expectedMatches: map[string]string{
				"autodrive.pilot":         "Debug",
				"autodrive.runner.config": "Debug",
				"recorder":                "Info",
			},
		},
		{
			name: "last pattern wins",
			loggerConfig: []LoggerPatternConfig{
				{Pattern: "*", Level: "ERROR"},
				{Pattern: "autodrive.recorder", Level: "debug"},
			},
			loggerNames: []string{"autodrive.recorder", "autodrive.pilot"},
			expectedMatches: map[string]string{
				"autodrive.recorder": "Debug",
				"autodrive.pilot":    "Error",
			},
		},
	} {
		t.Run(tc.name, func(t *testing.T) {
			registry := createTestRegistry(tc.loggerNames)
			err := registry.UpdateConfig(tc.loggerConfig, NewTestLogger(t))
			test.That(t, err, test.ShouldBeNil)
			test.That(t, verifySetLevels(registry, tc.expectedMatches), test.ShouldBeTrue)
		})
	}
}

func TestRegisterAfterConfig(t *testing.T) {
	registry := newRegistry()
	err := registry.UpdateConfig([]LoggerPatternConfig{{Pattern: "late.*", Level: "error"}}, NewTestLogger(t))
	test.That(t, err, test.ShouldBeNil)

	logger := registry.getOrRegister("late.arrival", NewBlankLogger("late.arrival"))
	test.That(t, logger.GetLevel(), test.ShouldEqual, ERROR)

	again := registry.getOrRegister("late.arrival", NewBlankLogger("late.arrival"))
	test.That(t, again, test.ShouldEqual, logger)
}

func TestUpdateConfigBadLevel(t *testing.T) {
	registry := createTestRegistry([]string{"autodrive.pilot"})
	err := registry.UpdateConfig([]LoggerPatternConfig{{Pattern: "autodrive.pilot", Level: "loud"}}, NewTestLogger(t))
	test.That(t, err, test.ShouldNotBeNil)
	test.That(t, err.Error(), test.ShouldContainSubstring, "unknown log level")
}
