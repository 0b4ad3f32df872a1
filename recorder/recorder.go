package recorder

import (
	"context"
	"database/sql"
	"math"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/viamrobotics/autodrive/config"
	"github.com/viamrobotics/autodrive/drive"
	"github.com/viamrobotics/autodrive/logging"
	"github.com/viamrobotics/autodrive/perception"
)

// A Store persists trip rows.
type Store interface {
	Insert(ctx context.Context, row Row) error
}

// A Recorder logs every perception tick of one trip. It integrates the actual speed over
// the perception period and stops recording once the trip reaches its distance limit.
type Recorder struct {
	store  Store
	trip   string
	period time.Duration
	limit  float64
	logger logging.Logger

	mu       sync.Mutex
	distance float64
	full     bool
}

// New starts a new trip in store. Ticks are assumed to be period apart.
func New(store Store, cfg config.RecorderConfig, period time.Duration, logger logging.Logger) *Recorder {
	r := &Recorder{
		store:  store,
		trip:   uuid.NewString(),
		period: period,
		limit:  cfg.MaxDistanceMeter,
		logger: logger,
	}
	logger.Infow("trip started", "trip", r.trip, "max_distance_m", r.limit)
	return r
}

// Trip returns the trip id.
func (r *Recorder) Trip() string {
	return r.trip
}

// Distance returns the distance travelled so far in meters.
func (r *Recorder) Distance() float64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.distance
}

// Full reports whether the distance limit was reached.
func (r *Recorder) Full() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.full
}

// Record stores snap. Once the trip is full further snapshots are dropped.
func (r *Recorder) Record(ctx context.Context, snap drive.Snapshot) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.full {
		return nil
	}
	r.distance += math.Abs(snap.Speed) * r.period.Seconds() / 3.6
	if err := r.store.Insert(ctx, Row{Trip: r.trip, Snapshot: snap, Distance: r.distance}); err != nil {
		return err
	}
	if r.limit > 0 && r.distance >= r.limit {
		r.full = true
		r.logger.CInfow(ctx, "trip distance limit reached, recording stopped",
			"trip", r.trip, "distance_m", r.distance)
	}
	return nil
}

func perceptionAngle(v sql.NullFloat64) perception.Angle {
	if !v.Valid {
		return perception.Unknown()
	}
	return perception.Known(v.Float64)
}
