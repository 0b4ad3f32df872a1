package replay

import (
	"context"
	"encoding/csv"
	"io"
	"math"
	"os"
	"strconv"
	"strings"
	"sync"

	"github.com/pkg/errors"

	"github.com/viamrobotics/autodrive/perception"
)

// LidarConfig configures a replay range sensor.
type LidarConfig struct {
	Path        string  `json:"path"`
	FieldOfView float64 `json:"field_of_view"`
	Loop        bool    `json:"loop"`
}

// A Lidar replays the scans of a CSV file, one scan per line.
type Lidar struct {
	cfg   LidarConfig
	scans [][]float64

	mu   sync.Mutex
	next int
}

// NewLidar reads every scan in cfg.Path.
func NewLidar(cfg LidarConfig) (*Lidar, error) {
	//nolint:gosec
	f, err := os.Open(cfg.Path)
	if err != nil {
		return nil, errors.Wrap(err, "cannot open replay scans")
	}
	defer f.Close()
	scans, err := ReadScans(f)
	if err != nil {
		return nil, errors.Wrapf(err, "cannot read %q", cfg.Path)
	}
	if len(scans) == 0 {
		return nil, errors.Errorf("no scans in %q", cfg.Path)
	}
	return &Lidar{cfg: cfg, scans: scans}, nil
}

// ReadScans parses CSV rows of ranges. Every row must have the same number of readings.
// Empty cells are beams without a return and read as +Inf.
func ReadScans(r io.Reader) ([][]float64, error) {
	reader := csv.NewReader(r)
	reader.Comment = '#'
	reader.TrimLeadingSpace = true
	records, err := reader.ReadAll()
	if err != nil {
		return nil, err
	}
	scans := make([][]float64, 0, len(records))
	for line, record := range records {
		scan := make([]float64, len(record))
		for i, cell := range record {
			cell = strings.TrimSpace(cell)
			if cell == "" {
				scan[i] = math.Inf(1)
				continue
			}
			if scan[i], err = strconv.ParseFloat(cell, 64); err != nil {
				return nil, errors.Wrapf(err, "scan %d, beam %d", line+1, i)
			}
		}
		scans = append(scans, scan)
	}
	return scans, nil
}

// Len returns the number of scans.
func (l *Lidar) Len() int {
	return len(l.scans)
}

// NextScan returns the next scan. Once every scan was returned it reports no scan, unless
// the sensor loops.
func (l *Lidar) NextScan(ctx context.Context) (perception.Scan, bool, error) {
	if err := ctx.Err(); err != nil {
		return perception.Scan{}, false, err
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.next >= len(l.scans) {
		if !l.cfg.Loop {
			return perception.Scan{}, false, nil
		}
		l.next = 0
	}
	scan := l.scans[l.next]
	l.next++
	return perception.Scan{Ranges: scan, FieldOfView: l.cfg.FieldOfView}, true, nil
}
