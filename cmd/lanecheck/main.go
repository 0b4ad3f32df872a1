// Package main runs the lane detector over still images and reports the angle found in each.
package main

import (
	"context"
	"math"
	"os"
	"path/filepath"
	"strconv"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/montanaflynn/stats"
	"github.com/pkg/errors"
	"go.viam.com/utils"

	"github.com/viamrobotics/autodrive/config"
	"github.com/viamrobotics/autodrive/control"
	"github.com/viamrobotics/autodrive/logging"
	"github.com/viamrobotics/autodrive/perception"
	"github.com/viamrobotics/autodrive/replay"
)

var logger = logging.NewLogger("lanecheck")

// Arguments for the command.
type Arguments struct {
	Path        string `flag:"0,required,usage=image file or directory of images"`
	ConfigFile  string `flag:"config,usage=JSON config file with lane detector thresholds"`
	FieldOfView string `flag:"fov,default=1,usage=camera field of view in radians"`
	Width       int    `flag:"width,usage=rescale images to this width first"`
	Filtered    bool   `flag:"filtered,usage=also print the moving average over consecutive images"`
}

func main() {
	utils.ContextualMain(mainWithArgs, logger)
}

func mainWithArgs(ctx context.Context, args []string, logger logging.Logger) error {
	var argsParsed Arguments
	if err := utils.ParseFlags(args, &argsParsed); err != nil {
		return err
	}
	fov, err := strconv.ParseFloat(argsParsed.FieldOfView, 64)
	if err != nil || fov <= 0 {
		return errors.Errorf("invalid field of view %q", argsParsed.FieldOfView)
	}
	cfg := config.Default()
	if argsParsed.ConfigFile != "" {
		if cfg, err = config.Read(argsParsed.ConfigFile); err != nil {
			return err
		}
	}

	paths := []string{argsParsed.Path}
	if info, err := os.Stat(argsParsed.Path); err != nil {
		return err
	} else if info.IsDir() {
		if paths, err = replay.ImagePaths(argsParsed.Path); err != nil {
			return err
		}
	}

	detector := perception.NewLaneDetector(cfg.Lane)
	filter := control.NewAngleFilter(cfg.Filter)
	t := table.NewWriter()
	t.SetOutputMirror(os.Stdout)
	header := table.Row{"#", "File", "Angle"}
	if argsParsed.Filtered {
		header = append(header, "Filtered")
	}
	t.AppendHeader(header)

	var magnitudes stats.Float64Data
	for i, path := range paths {
		if err := ctx.Err(); err != nil {
			return err
		}
		img, err := replay.LoadImage(path, argsParsed.Width)
		if err != nil {
			return err
		}
		raw := detector.Detect(perception.Frame{Image: img, FieldOfView: fov})
		row := table.Row{i + 1, filepath.Base(path), raw}
		if argsParsed.Filtered {
			row = append(row, filter.Next(raw))
		}
		t.AppendRow(row)
		if rad, ok := raw.Radians(); ok {
			magnitudes = append(magnitudes, math.Abs(rad))
		}
	}

	t.Render()

	if len(magnitudes) == 0 {
		logger.Warnw("no lane found", "images", len(paths))
		return nil
	}
	mean, err := magnitudes.Mean()
	if err != nil {
		return err
	}
	top, err := magnitudes.Max()
	if err != nil {
		return err
	}
	logger.Infow("summary",
		"images", len(paths),
		"detected", len(magnitudes),
		"mean_abs_angle", mean,
		"max_abs_angle", top)
	return nil
}
