// Package main runs the control loop against a simulated vehicle. Camera frames and range
// scans are simulated or replayed from files, and the driver can steer from the keyboard.
package main

import (
	"context"
	"os"
	"strconv"
	"time"

	"github.com/pkg/errors"
	"go.opencensus.io/stats/view"
	"go.viam.com/utils"

	"github.com/viamrobotics/autodrive/config"
	"github.com/viamrobotics/autodrive/drive"
	"github.com/viamrobotics/autodrive/fake"
	"github.com/viamrobotics/autodrive/input"
	"github.com/viamrobotics/autodrive/logging"
	"github.com/viamrobotics/autodrive/recorder"
	"github.com/viamrobotics/autodrive/replay"
)

var logger = logging.NewLogger("autodrive")

// Arguments for the command.
type Arguments struct {
	ConfigFile  string `flag:"config,usage=JSON config file, reloaded when it changes"`
	Frames      string `flag:"frames,usage=directory of camera frames to replay instead of the simulated camera"`
	Scans       string `flag:"scans,usage=CSV file of range scans to replay instead of the simulated lidar"`
	FieldOfView string `flag:"fov,default=1,usage=field of view in radians of replayed frames and scans"`
	Loop        bool   `flag:"loop,usage=loop replayed frames and scans"`
	NoCamera    bool   `flag:"no-camera,usage=drive without a camera, manual only"`
	TripDB      string `flag:"trip-db,usage=SQLite file to record the trip to, overriding the config"`
	Keyboard    bool   `flag:"keyboard,usage=read driving keys from stdin"`
	Metrics     bool   `flag:"metrics,usage=log control loop metrics periodically"`
	LogFile     string `flag:"log-file,usage=also write logs to this file, rotated every 10MB"`
	Trace       bool   `flag:"trace,usage=log per-tick debug output from the control loop only"`
	Debug       bool   `flag:"debug"`
}

func main() {
	utils.ContextualMain(mainWithArgs, logger)
}

func mainWithArgs(ctx context.Context, args []string, logger logging.Logger) (err error) {
	var argsParsed Arguments
	if err := utils.ParseFlags(args, &argsParsed); err != nil {
		return err
	}
	if argsParsed.Debug {
		logger.SetLevel(logging.DEBUG)
	}
	if argsParsed.LogFile != "" {
		file := logging.NewFileAppender(argsParsed.LogFile, 10, 3)
		defer utils.UncheckedErrorFunc(file.Close)
		logger.AddAppender(file)
	}

	cfg := config.Default()
	var configs <-chan *config.Config
	if argsParsed.ConfigFile != "" {
		if cfg, err = config.Read(argsParsed.ConfigFile); err != nil {
			return err
		}
		watcher, err := config.NewWatcher(ctx, argsParsed.ConfigFile, logger.Sublogger("config"))
		if err != nil {
			return err
		}
		defer utils.UncheckedErrorFunc(func() error { return watcher.Close(ctx) })
		configs = watcher.Config()
	}
	if err := logging.UpdateLoggerRegistry(cfg.Log, logger); err != nil {
		return err
	}

	if err := view.Register(drive.Views()...); err != nil {
		return errors.Wrap(err, "cannot register metric views")
	}
	defer view.Unregister(drive.Views()...)
	if argsParsed.Metrics {
		exporter := &metricsLogger{logger: logger.Sublogger("metrics")}
		view.RegisterExporter(exporter)
		defer view.UnregisterExporter(exporter)
		view.SetReportingPeriod(5 * time.Second)
	}

	vehicle := fake.NewVehicle(fake.DefaultVehicleConfig(), nil)
	deps := drive.Deps{
		Speed:    drive.GPSSpeed{GPS: vehicle},
		Notifier: fake.NewDisplay(logger.Sublogger("display")),
	}
	if err := attachSensors(&deps, argsParsed, vehicle); err != nil {
		return err
	}

	tripPath := cfg.Recorder.Path
	if argsParsed.TripDB != "" {
		tripPath = argsParsed.TripDB
	}
	if tripPath != "" {
		store, err := recorder.OpenSQLite(tripPath)
		if err != nil {
			return err
		}
		defer utils.UncheckedErrorFunc(store.Close)
		trip := recorder.New(store, cfg.Recorder, cfg.Schedule.PerceptionPeriod, logger.Sublogger("recorder"))
		deps.Recorder = trip
		defer logSummary(store, trip.Trip(), logger)
	}

	controller := input.NewVirtualController(keyControls...)
	mapper, err := input.NewMapper(ctx, controller, cfg.Manual, cfg.Gamepad)
	if err != nil {
		return err
	}
	defer utils.UncheckedErrorFunc(func() error { return mapper.Close(ctx) })
	if argsParsed.Keyboard {
		// reading stdin cannot be interrupted, so this goroutine ends with the process
		utils.PanicCapturingGo(func() {
			readKeys(ctx, os.Stdin, controller, logger.Sublogger("keyboard"))
		})
	}

	if argsParsed.Trace {
		ctx = logging.EnableDebugMode(ctx, "")
		logger.Infow("tracing control loop", "key", logging.GetName(ctx))
	}

	pilot := drive.NewPilot(cfg, deps, logger.Sublogger("pilot"))
	runner := drive.NewRunner(pilot, drive.RunnerOptions{
		Input:    mapper,
		Actuator: vehicle,
		Configs:  configs,
	}, logger.Sublogger("runner"))
	return runner.Run(ctx)
}

func attachSensors(deps *drive.Deps, argsParsed Arguments, vehicle *fake.Vehicle) error {
	fov, err := strconv.ParseFloat(argsParsed.FieldOfView, 64)
	if err != nil || fov <= 0 {
		return errors.Errorf("invalid field of view %q", argsParsed.FieldOfView)
	}

	if !argsParsed.NoCamera {
		if argsParsed.Frames != "" {
			cam, err := replay.NewCamera(replay.CameraConfig{Dir: argsParsed.Frames, FieldOfView: fov, Loop: argsParsed.Loop})
			if err != nil {
				return err
			}
			deps.Camera = cam
		} else {
			deps.Camera = fake.NewCamera(vehicle, fake.DefaultCameraConfig())
		}
	}

	if argsParsed.Scans != "" {
		lidar, err := replay.NewLidar(replay.LidarConfig{Path: argsParsed.Scans, FieldOfView: fov, Loop: argsParsed.Loop})
		if err != nil {
			return err
		}
		deps.Range = lidar
		return nil
	}
	deps.Range = fake.NewLidar(vehicle, fake.DefaultLidarConfig(), []fake.Obstacle{
		{At: 60, Bearing: 0.08, HalfWidth: 0.04},
		{At: 200, Bearing: -0.1, HalfWidth: 0.05},
	})
	return nil
}

func logSummary(store *recorder.SQLiteStore, trip string, logger logging.Logger) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	sum, err := store.Summarize(ctx, trip)
	if err != nil {
		logger.Warnw("no trip summary", "trip", trip, "error", err)
		return
	}
	logger.Infow("trip summary",
		"trip", sum.Trip,
		"ticks", sum.Ticks,
		"distance_m", sum.Distance,
		"mean_speed_kph", sum.MeanSpeed,
		"max_speed_kph", sum.MaxSpeed,
		"steering_p95_rad", sum.SteeringP95,
		"line_lost", sum.LineLostEvents,
		"obstacle_ticks", sum.ObstacleTicks)
}
