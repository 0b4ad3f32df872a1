package drive

import (
	"context"

	"github.com/benbjohnson/clock"
	"go.opencensus.io/stats"
	"go.opencensus.io/tag"
	"go.opencensus.io/trace"
	"golang.org/x/sync/errgroup"

	"github.com/viamrobotics/autodrive/config"
	"github.com/viamrobotics/autodrive/control"
	"github.com/viamrobotics/autodrive/fusion"
	"github.com/viamrobotics/autodrive/input"
	"github.com/viamrobotics/autodrive/logging"
	"github.com/viamrobotics/autodrive/perception"
	"github.com/viamrobotics/autodrive/utils"
)

// Deps are the collaborators of a Pilot. Any of them may be nil.
type Deps struct {
	Camera   CameraSource
	Range    RangeSource
	Speed    SpeedSource
	Notifier Notifier
	Recorder Recorder
	Clock    clock.Clock
}

// A Pilot owns every piece of state that survives a tick: the lane filter, the steering
// controller, the drive mode and the last command. It is not safe for concurrent use;
// a Runner calls it from a single goroutine.
type Pilot struct {
	cfg    *config.Config
	deps   Deps
	logger logging.Logger

	lane     *perception.LaneDetector
	obstacle *perception.ObstacleDetector
	filter   *control.AngleFilter
	pid      *control.SteeringController
	planner  *control.SpeedPlanner
	limits   *control.Limits
	policy   *fusion.Policy
	state    *StateMachine

	steering    float64
	targetSpeed float64
	brake       float64
	manualSteps int
	speed       float64
	tick        int64
}

// NewPilot returns a pilot at rest. With a camera it starts in Autodrive at cruise speed.
func NewPilot(cfg *config.Config, deps Deps, logger logging.Logger) *Pilot {
	if deps.Clock == nil {
		deps.Clock = clock.New()
	}
	p := &Pilot{
		deps:   deps,
		logger: logger,
		filter: control.NewAngleFilter(cfg.Filter),
		pid:    control.NewSteeringController(cfg.PID),
		state:  NewStateMachine(deps.Camera != nil),
	}
	p.configure(cfg)
	if p.state.Mode() == Autodrive {
		p.targetSpeed = p.limits.Speed(p.planner.Cruise())
	}
	return p
}

func (p *Pilot) configure(cfg *config.Config) {
	p.cfg = cfg
	p.lane = perception.NewLaneDetector(cfg.Lane)
	p.obstacle = perception.NewObstacleDetector(cfg.Obstacle)
	p.planner = control.NewSpeedPlanner(cfg.Planner)
	p.limits = control.NewLimits(cfg.Limits)
	p.policy = fusion.NewPolicy(cfg.Fusion)
	p.pid.SetConfig(cfg.PID)
	if p.filter.Depth() != cfg.Filter.Depth {
		p.filter = control.NewAngleFilter(cfg.Filter)
	}
}

// SetConfig applies a new configuration between ticks. Controller memory is kept unless
// the filter depth changes.
func (p *Pilot) SetConfig(cfg *config.Config) {
	p.configure(cfg)
	p.logger.Infow("pilot reconfigured", "cruise_kph", cfg.Planner.CruiseSpeed)
}

// Mode returns who is driving.
func (p *Pilot) Mode() Mode {
	return p.state.Mode()
}

// LineVisible reports whether the lane was seen on the last autodrive perception tick.
func (p *Pilot) LineVisible() bool {
	return p.state.LineVisible()
}

// Command returns the command currently requested. Brakes are released in Manual.
func (p *Pilot) Command() Command {
	cmd := Command{Steering: p.steering, TargetSpeed: p.targetSpeed}
	if p.state.Mode() == Autodrive {
		cmd.Brake = p.brake
	}
	return cmd
}

// Tick runs one input step and one perception step and returns the resulting command.
func (p *Pilot) Tick(ctx context.Context, cmds []input.Command) (Command, error) {
	p.HandleInput(ctx, cmds)
	if err := p.Perceive(ctx); err != nil {
		return Command{}, err
	}
	return p.Command(), nil
}

// HandleInput applies driver commands. No commands at all counts as an idle tick.
func (p *Pilot) HandleInput(ctx context.Context, cmds []input.Command) {
	if len(cmds) == 0 {
		p.idle()
		return
	}
	for _, cmd := range cmds {
		p.apply(ctx, cmd)
	}
}

func (p *Pilot) apply(ctx context.Context, cmd input.Command) {
	switch cmd.Kind {
	case input.None:
		p.idle()
	case input.Accelerate:
		next := p.targetSpeed + cmd.Amount
		if cmd.Bounded {
			next = min(next, cmd.Bound)
		}
		p.setSpeed(next)
	case input.Decelerate:
		next := p.targetSpeed - cmd.Amount
		if cmd.Bounded {
			next = max(next, cmd.Bound)
		}
		p.setSpeed(next)
	case input.SteerLeft:
		p.steerManually(ctx, -1)
	case input.SteerRight:
		p.steerManually(ctx, 1)
	case input.SteerTo:
		if p.state.Mode() == Manual {
			p.setSteering(cmd.Amount)
		}
	case input.ResumeAutodrive:
		p.resume(ctx)
	case input.ManualOverride:
		p.override(ctx, "override")
	}
}

func (p *Pilot) setSpeed(kph float64) {
	p.targetSpeed = p.limits.Speed(kph)
}

func (p *Pilot) setSteering(rad float64) {
	p.steering = p.limits.Steering(p.steering, rad)
}

func (p *Pilot) steerManually(ctx context.Context, step int) {
	p.override(ctx, "steering input")
	next := p.manualSteps + step
	if next > p.cfg.Manual.MaxSteerSteps || next < -p.cfg.Manual.MaxSteerSteps {
		return
	}
	p.manualSteps = next
	p.setSteering(float64(next) * p.cfg.Manual.SteerStep)
}

// idle recenters steering and lets speed coast toward zero while the driver does nothing.
func (p *Pilot) idle() {
	if p.state.Mode() != Manual || !p.cfg.Manual.CoastWhenIdle {
		return
	}
	p.manualSteps = 0
	p.setSteering(0)
	step := p.cfg.Manual.CoastStep
	switch {
	case p.targetSpeed >= step:
		p.setSpeed(p.targetSpeed - step)
	case p.targetSpeed <= -step:
		p.setSpeed(p.targetSpeed + step)
	default:
		p.setSpeed(0)
	}
}

func (p *Pilot) resume(ctx context.Context) {
	changed, err := p.state.Resume()
	if err != nil {
		p.logger.CWarnw(ctx, "ignoring resume", "error", err)
		return
	}
	p.setSpeed(p.planner.Cruise())
	p.filter.Reset()
	p.pid.RequestReset()
	if changed {
		p.logger.CInfow(ctx, "switching to autodrive", "speed_kph", p.targetSpeed)
		p.notify(ctx, ModeChanged)
	}
}

func (p *Pilot) override(ctx context.Context, reason string) {
	if p.state.Override() {
		p.logger.CInfow(ctx, "switching to manual drive", "reason", reason)
		p.notify(ctx, ModeChanged)
	}
}

func (p *Pilot) notify(ctx context.Context, kind NotificationKind) {
	if p.deps.Notifier == nil {
		return
	}
	p.deps.Notifier.Notify(ctx, Notification{Kind: kind, Mode: p.state.Mode(), Time: p.deps.Clock.Now()})
}

// Perceive reads the sensors and, in Autodrive, updates steering, speed and brake from
// them. Sensor failures are logged and treated as missing readings; only cancellation of
// ctx is returned.
func (p *Pilot) Perceive(ctx context.Context) error {
	ctx, span := trace.StartSpan(ctx, "drive::Pilot::Perceive")
	defer span.End()
	start := p.deps.Clock.Now()
	p.tick++
	p.readSpeed(ctx)

	var lane perception.Angle
	var obstacle perception.Obstacle
	if p.state.Mode() == Autodrive && p.deps.Camera != nil {
		raw, frameOK, seen, err := p.sense(ctx)
		if err != nil {
			return err
		}
		if frameOK {
			lane = p.filter.Next(raw)
			obstacle = seen
			p.decide(ctx, lane, obstacle)
		}
	}

	stats.Record(ctx, perceptionLatency.M(float64(p.deps.Clock.Since(start).Microseconds())/1000))
	p.record(ctx, lane, obstacle)
	return nil
}

func (p *Pilot) readSpeed(ctx context.Context) {
	if p.deps.Speed == nil {
		return
	}
	speed, err := p.deps.Speed.Speed(ctx)
	if err != nil {
		p.logger.CWarnw(ctx, "failed to read speed", "error", err)
		return
	}
	p.speed = utils.FiniteOrZero(speed)
}

// sense acquires a frame and a scan and runs both detectors, concurrently if configured.
func (p *Pilot) sense(ctx context.Context) (perception.Angle, bool, perception.Obstacle, error) {
	var (
		raw      perception.Angle
		frameOK  bool
		obstacle perception.Obstacle
	)
	if !p.cfg.Schedule.ParallelPerception {
		raw, frameOK = p.senseLane(ctx)
		obstacle = p.senseObstacle(ctx)
		return raw, frameOK, obstacle, ctx.Err()
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		raw, frameOK = p.senseLane(gctx)
		return gctx.Err()
	})
	g.Go(func() error {
		obstacle = p.senseObstacle(gctx)
		return gctx.Err()
	})
	if err := g.Wait(); err != nil {
		return perception.Unknown(), false, perception.Obstacle{}, err
	}
	return raw, frameOK, obstacle, nil
}

func (p *Pilot) senseLane(ctx context.Context) (perception.Angle, bool) {
	ctx, span := trace.StartSpan(ctx, "drive::Pilot::senseLane")
	defer span.End()
	frame, ok, err := p.deps.Camera.NextFrame(ctx)
	if err != nil {
		p.logger.CWarnw(ctx, "failed to read camera", "error", err)
		return perception.Unknown(), false
	}
	if !ok {
		p.logger.CDebugw(ctx, "no camera frame this tick")
		return perception.Unknown(), false
	}
	return p.lane.Detect(frame), true
}

func (p *Pilot) senseObstacle(ctx context.Context) perception.Obstacle {
	if p.deps.Range == nil {
		return perception.Obstacle{}
	}
	ctx, span := trace.StartSpan(ctx, "drive::Pilot::senseObstacle")
	defer span.End()
	scan, ok, err := p.deps.Range.NextScan(ctx)
	if err != nil {
		p.logger.CWarnw(ctx, "failed to read range sensor", "error", err)
		return perception.Obstacle{}
	}
	if !ok {
		return perception.Obstacle{}
	}
	return p.obstacle.Detect(scan)
}

// decide runs the planner, the line visibility edges and fusion on a filtered lane angle.
func (p *Pilot) decide(ctx context.Context, lane perception.Angle, obstacle perception.Obstacle) {
	if angle, ok := lane.Radians(); ok {
		p.setSpeed(p.planner.Plan(angle, p.planner.Cruise(), p.targetSpeed))
	}

	switch p.state.ObserveLine(lane.IsKnown()) {
	case LostEdge:
		p.setSpeed(p.limits.Crawl())
		p.setSteering(0)
		p.logger.CWarnw(ctx, "line lost, autodrive off", "speed_kph", p.targetSpeed)
		stats.Record(ctx, lineLostEvents.M(1))
		p.notify(ctx, LineLost)
		p.notify(ctx, ModeChanged)
	case FoundEdge:
		p.logger.CInfow(ctx, "line found")
		p.notify(ctx, LineFound)
	case NoEdge:
	}

	if obstacle.Present {
		p.logger.CDebugw(ctx, "obstacle ahead", "angle", obstacle.Angle, "distance", obstacle.Distance)
		stats.Record(ctx, obstacleTicks.M(1))
	}

	decision := p.policy.Combine(fusion.Inputs{
		Lane:     lane,
		Obstacle: obstacle,
		Steering: p.steering,
		Speed:    p.speed,
	}, p.pid)
	if decision.ResetPID {
		p.pid.RequestReset()
	}
	p.setSteering(decision.Steering)
	p.brake = p.limits.Brake(decision.Brake)

	if tagged, err := tag.New(ctx, tag.Upsert(sourceKey, decision.Source.String())); err == nil {
		stats.Record(tagged, decisionCount.M(1))
	}
}

func (p *Pilot) record(ctx context.Context, lane perception.Angle, obstacle perception.Obstacle) {
	if p.deps.Recorder == nil {
		return
	}
	snap := Snapshot{
		Tick:        p.tick,
		Time:        p.deps.Clock.Now(),
		Mode:        p.state.Mode(),
		LineVisible: p.state.LineVisible(),
		Lane:        lane,
		Obstacle:    obstacle,
		Command:     p.Command(),
		Speed:       p.speed,
	}
	if err := p.deps.Recorder.Record(ctx, snap); err != nil {
		p.logger.CErrorw(ctx, "failed to record tick", "tick", p.tick, "error", err)
	}
}
