package main

import (
	"context"
	"strings"
	"testing"

	"go.viam.com/test"

	"github.com/viamrobotics/autodrive/config"
	"github.com/viamrobotics/autodrive/input"
	"github.com/viamrobotics/autodrive/logging"
)

func TestReadKeys(t *testing.T) {
	ctx := context.Background()
	cfg := config.Default()
	controller := input.NewVirtualController(keyControls...)
	mapper, err := input.NewMapper(ctx, controller, cfg.Manual, cfg.Gamepad)
	test.That(t, err, test.ShouldBeNil)
	defer func() {
		test.That(t, mapper.Close(ctx), test.ShouldBeNil)
	}()

	readKeys(ctx, strings.NewReader("w\x1b[Dx\x1b[Bam"), controller, logging.NewTestLogger(t))

	cmds, err := mapper.Poll(ctx)
	test.That(t, err, test.ShouldBeNil)
	var kinds []input.Kind
	for _, cmd := range cmds {
		kinds = append(kinds, cmd.Kind)
	}
	test.That(t, kinds, test.ShouldResemble, []input.Kind{
		input.Accelerate, input.SteerLeft, input.Decelerate, input.ResumeAutodrive, input.ManualOverride,
	})
}

func TestKeyFor(t *testing.T) {
	key, ok := keyFor('A', true)
	test.That(t, ok, test.ShouldBeTrue)
	test.That(t, key, test.ShouldEqual, input.KeyUp)
	key, ok = keyFor('A', false)
	test.That(t, ok, test.ShouldBeTrue)
	test.That(t, key, test.ShouldEqual, input.KeyA)
	_, ok = keyFor('q', false)
	test.That(t, ok, test.ShouldBeFalse)
}
