package drive

import (
	"context"

	"github.com/benbjohnson/clock"

	"github.com/viamrobotics/autodrive/config"
	"github.com/viamrobotics/autodrive/input"
	"github.com/viamrobotics/autodrive/logging"
)

// A Reconfigurable input source accepts new step sizes on config reload.
type Reconfigurable interface {
	SetConfig(manual config.ManualConfig, gamepad config.GamepadConfig)
}

// RunnerOptions configure a Runner. Input, Actuator and Configs may be nil.
type RunnerOptions struct {
	Input    InputSource
	Actuator Actuator
	// Configs delivers reloaded configurations, such as from a config.Watcher.
	Configs <-chan *config.Config
	Clock   clock.Clock
}

// A Runner drives a Pilot at two rates from a single goroutine. Every actuation tick it
// polls driver input and emits the current command. Every perception tick it runs the
// pilot's perception step and emits the updated command. Ticks never overlap and new
// configurations are applied between them.
type Runner struct {
	pilot  *Pilot
	opts   RunnerOptions
	cfg    config.ScheduleConfig
	logger logging.Logger
}

// NewRunner returns a runner for pilot.
func NewRunner(pilot *Pilot, opts RunnerOptions, logger logging.Logger) *Runner {
	if opts.Clock == nil {
		opts.Clock = clock.New()
	}
	return &Runner{pilot: pilot, opts: opts, cfg: pilot.cfg.Schedule, logger: logger}
}

// Run blocks until ctx is done.
func (r *Runner) Run(ctx context.Context) error {
	actuation := r.opts.Clock.Ticker(r.cfg.ActuationPeriod)
	defer actuation.Stop()
	perception := r.opts.Clock.Ticker(r.cfg.PerceptionPeriod)
	defer perception.Stop()

	r.logger.CInfow(ctx, "control loop started",
		"actuation_period", r.cfg.ActuationPeriod,
		"perception_period", r.cfg.PerceptionPeriod,
		"mode", r.pilot.Mode())
	for {
		select {
		case <-ctx.Done():
			r.logger.CInfow(ctx, "control loop stopped")
			return nil
		default:
		}
		select {
		case <-ctx.Done():
			r.logger.CInfow(ctx, "control loop stopped")
			return nil
		case cfg := <-r.opts.Configs:
			if cfg == nil {
				continue
			}
			r.reconfigure(cfg)
			if cfg.Schedule.ActuationPeriod != r.cfg.ActuationPeriod {
				actuation.Reset(cfg.Schedule.ActuationPeriod)
			}
			if cfg.Schedule.PerceptionPeriod != r.cfg.PerceptionPeriod {
				perception.Reset(cfg.Schedule.PerceptionPeriod)
			}
			r.cfg = cfg.Schedule
		case <-actuation.C:
			r.actuate(ctx)
		case <-perception.C:
			if err := r.pilot.Perceive(ctx); err != nil {
				if ctx.Err() != nil {
					continue
				}
				return err
			}
			r.emit(ctx)
		}
	}
}

func (r *Runner) reconfigure(cfg *config.Config) {
	r.pilot.SetConfig(cfg)
	if rc, ok := r.opts.Input.(Reconfigurable); ok {
		rc.SetConfig(cfg.Manual, cfg.Gamepad)
	}
	if err := logging.UpdateLoggerRegistry(cfg.Log, r.logger); err != nil {
		r.logger.Warnw("failed to apply log config", "error", err)
	}
}

func (r *Runner) actuate(ctx context.Context) {
	var cmds []input.Command
	if r.opts.Input != nil {
		var err error
		if cmds, err = r.opts.Input.Poll(ctx); err != nil {
			r.logger.CWarnw(ctx, "failed to poll input", "error", err)
			r.emit(ctx)
			return
		}
	}
	r.pilot.HandleInput(ctx, cmds)
	r.emit(ctx)
}

func (r *Runner) emit(ctx context.Context) {
	if r.opts.Actuator == nil {
		return
	}
	if err := r.opts.Actuator.Apply(ctx, r.pilot.Command()); err != nil {
		r.logger.CErrorw(ctx, "failed to apply command", "error", err)
	}
}
