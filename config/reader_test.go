package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"go.viam.com/test"
)

func TestFromReaderValidate(t *testing.T) {
	_, err := FromReader(strings.NewReader(""))
	test.That(t, err, test.ShouldNotBeNil)
	test.That(t, err.Error(), test.ShouldContainSubstring, "EOF")

	conf, err := FromReader(strings.NewReader(`{}`))
	test.That(t, err, test.ShouldBeNil)
	test.That(t, conf, test.ShouldResemble, Default())

	_, err = FromReader(strings.NewReader(`{"pid": {"kq": 1}}`))
	test.That(t, err, test.ShouldNotBeNil)
	test.That(t, err.Error(), test.ShouldContainSubstring, "kq")

	_, err = FromReader(strings.NewReader(`{"pid": {"kp": -1}, "limits": {"max_steering_rad": 0}}`))
	test.That(t, err, test.ShouldNotBeNil)
	test.That(t, err.Error(), test.ShouldContainSubstring, "pid.kp")
	test.That(t, err.Error(), test.ShouldContainSubstring, "limits.max_steering_rad")

	_, err = FromReader(strings.NewReader(`{"log": [{"pattern": "a..b", "level": "info"}]}`))
	test.That(t, err, test.ShouldNotBeNil)
	test.That(t, err.Error(), test.ShouldContainSubstring, "a..b")
}

func TestFromReaderOverlaysDefaults(t *testing.T) {
	conf, err := FromReader(strings.NewReader(`{
		"planner": {"cruise_speed_kph": 40},
		"pid": {"kd": "1.5"},
		"schedule": {"perception_period": "100ms"},
		"log": [{"pattern": "autodrive.*", "level": "debug"}]
	}`))
	test.That(t, err, test.ShouldBeNil)

	expected := Default()
	expected.Planner.CruiseSpeed = 40
	expected.PID.Kd = 1.5
	expected.Schedule.PerceptionPeriod = 100 * time.Millisecond
	test.That(t, conf.Planner, test.ShouldResemble, expected.Planner)
	test.That(t, conf.PID, test.ShouldResemble, expected.PID)
	test.That(t, conf.Schedule, test.ShouldResemble, expected.Schedule)
	test.That(t, conf.Lane, test.ShouldResemble, expected.Lane)
	test.That(t, conf.Log, test.ShouldHaveLength, 1)
	test.That(t, conf.Log[0].Pattern, test.ShouldEqual, "autodrive.*")
	test.That(t, conf.Schedule.PerceptionEvery(), test.ShouldEqual, 10)
}

func TestValidateOrdering(t *testing.T) {
	conf := Default()
	test.That(t, conf.Validate(), test.ShouldBeNil)
	test.That(t, conf.Schedule.PerceptionEvery(), test.ShouldEqual, 5)

	conf.Planner.SharpTurn = 0.05
	conf.Schedule.PerceptionPeriod = time.Millisecond
	err := conf.Validate()
	test.That(t, err, test.ShouldNotBeNil)
	test.That(t, err.Error(), test.ShouldContainSubstring, "planner.sharp_turn_rad")
	test.That(t, err.Error(), test.ShouldContainSubstring, "schedule.perception_period")
}

func TestRead(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "autodrive.json")

	_, err := Read(path)
	test.That(t, err, test.ShouldNotBeNil)

	t.Setenv("AUTODRIVE_TEST_CRUISE", "30")
	test.That(t, os.WriteFile(path, []byte(`{"planner": {"cruise_speed_kph": ${AUTODRIVE_TEST_CRUISE}}}`), 0o600), test.ShouldBeNil)
	conf, err := Read(path)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, conf.Planner.CruiseSpeed, test.ShouldEqual, 30.0)
}
