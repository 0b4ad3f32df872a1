// Package recorder keeps a per-tick trip log in SQLite and summarizes trips from it.
package recorder

import (
	"context"
	"database/sql"
	"math"
	"time"

	"github.com/montanaflynn/stats"
	"github.com/pkg/errors"
	"go.uber.org/multierr"
	_ "modernc.org/sqlite" // registers the "sqlite" driver

	"github.com/viamrobotics/autodrive/drive"
)

const schema = `
	CREATE TABLE IF NOT EXISTS ticks (
		trip_id TEXT NOT NULL,
		tick INTEGER NOT NULL,
		unix_nanos INTEGER NOT NULL,
		mode TEXT NOT NULL,
		line_visible BOOLEAN NOT NULL,
		lane_angle DOUBLE,
		obstacle_angle DOUBLE,
		obstacle_distance DOUBLE,
		steering DOUBLE NOT NULL,
		target_speed DOUBLE NOT NULL,
		brake DOUBLE NOT NULL,
		speed DOUBLE NOT NULL,
		distance DOUBLE NOT NULL,
		PRIMARY KEY (trip_id, tick)
	);
	CREATE INDEX IF NOT EXISTS ticks_by_time ON ticks (trip_id, unix_nanos);
`

// Row is one recorded tick.
type Row struct {
	Trip     string
	Snapshot drive.Snapshot
	// Distance is the distance travelled since the trip started, in meters.
	Distance float64
}

// A SQLiteStore persists trip rows.
type SQLiteStore struct {
	db *sql.DB
}

// OpenSQLite opens or creates the database at path.
func OpenSQLite(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, errors.Wrapf(err, "cannot open trip database %q", path)
	}
	if _, err := db.Exec(schema); err != nil {
		return nil, multierr.Combine(errors.Wrap(err, "cannot create trip schema"), db.Close())
	}
	return &SQLiteStore{db: db}, nil
}

// Close closes the database.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// Insert appends a row.
func (s *SQLiteStore) Insert(ctx context.Context, row Row) error {
	snap := row.Snapshot
	var lane, obstacleAngle, obstacleDistance sql.NullFloat64
	if rad, ok := snap.Lane.Radians(); ok {
		lane = sql.NullFloat64{Float64: rad, Valid: true}
	}
	if snap.Obstacle.Present {
		obstacleAngle = sql.NullFloat64{Float64: snap.Obstacle.Angle, Valid: true}
		obstacleDistance = sql.NullFloat64{Float64: snap.Obstacle.Distance, Valid: true}
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO ticks (trip_id, tick, unix_nanos, mode, line_visible, lane_angle,
			obstacle_angle, obstacle_distance, steering, target_speed, brake, speed, distance)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		row.Trip, snap.Tick, snap.Time.UnixNano(), snap.Mode.String(), snap.LineVisible, lane,
		obstacleAngle, obstacleDistance, snap.Command.Steering, snap.Command.TargetSpeed,
		snap.Command.Brake, snap.Speed, row.Distance)
	return errors.Wrapf(err, "cannot record tick %d of trip %s", snap.Tick, row.Trip)
}

// Rows returns the rows of trip in tick order.
func (s *SQLiteStore) Rows(ctx context.Context, trip string) ([]Row, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT tick, unix_nanos, mode, line_visible, lane_angle, obstacle_angle,
			obstacle_distance, steering, target_speed, brake, speed, distance
		FROM ticks WHERE trip_id = ? ORDER BY tick`, trip)
	if err != nil {
		return nil, errors.Wrapf(err, "cannot query trip %s", trip)
	}
	defer rows.Close()

	var out []Row
	for rows.Next() {
		row := Row{Trip: trip}
		var (
			nanos                            int64
			mode                             string
			lane, obstacleAngle, obstacleDst sql.NullFloat64
		)
		snap := &row.Snapshot
		if err := rows.Scan(&snap.Tick, &nanos, &mode, &snap.LineVisible, &lane, &obstacleAngle,
			&obstacleDst, &snap.Command.Steering, &snap.Command.TargetSpeed, &snap.Command.Brake,
			&snap.Speed, &row.Distance); err != nil {
			return nil, errors.Wrapf(err, "cannot read trip %s", trip)
		}
		snap.Time = time.Unix(0, nanos)
		if mode == drive.Autodrive.String() {
			snap.Mode = drive.Autodrive
		} else {
			snap.Mode = drive.Manual
		}
		snap.Lane = perceptionAngle(lane)
		if obstacleAngle.Valid && obstacleDst.Valid {
			snap.Obstacle.Present = true
			snap.Obstacle.Angle = obstacleAngle.Float64
			snap.Obstacle.Distance = obstacleDst.Float64
		}
		out = append(out, row)
	}
	return out, errors.Wrapf(rows.Err(), "cannot read trip %s", trip)
}

// Trips returns every recorded trip id, oldest first.
func (s *SQLiteStore) Trips(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT trip_id FROM ticks GROUP BY trip_id ORDER BY MIN(unix_nanos)`)
	if err != nil {
		return nil, errors.Wrap(err, "cannot list trips")
	}
	defer rows.Close()
	var trips []string
	for rows.Next() {
		var trip string
		if err := rows.Scan(&trip); err != nil {
			return nil, errors.Wrap(err, "cannot list trips")
		}
		trips = append(trips, trip)
	}
	return trips, errors.Wrap(rows.Err(), "cannot list trips")
}

// Summary describes a recorded trip.
type Summary struct {
	Trip  string
	Ticks int
	// Distance is in meters, speeds in km/h and steering in radians.
	Distance       float64
	MeanSpeed      float64
	MaxSpeed       float64
	SteeringP95    float64
	LineLostEvents int
	ObstacleTicks  int
}

// Summarize computes the summary of trip. A trip without rows is an error.
func (s *SQLiteStore) Summarize(ctx context.Context, trip string) (Summary, error) {
	rows, err := s.Rows(ctx, trip)
	if err != nil {
		return Summary{}, err
	}
	if len(rows) == 0 {
		return Summary{}, errors.Errorf("no ticks recorded for trip %s", trip)
	}

	sum := Summary{Trip: trip, Ticks: len(rows)}
	speeds := make(stats.Float64Data, 0, len(rows))
	steering := make(stats.Float64Data, 0, len(rows))
	for i, row := range rows {
		snap := row.Snapshot
		speeds = append(speeds, snap.Speed)
		steering = append(steering, math.Abs(snap.Command.Steering))
		sum.Distance = max(sum.Distance, row.Distance)
		if snap.Obstacle.Present {
			sum.ObstacleTicks++
		}
		if i > 0 && rows[i-1].Snapshot.LineVisible && !snap.LineVisible {
			sum.LineLostEvents++
		}
	}
	if sum.MeanSpeed, err = speeds.Mean(); err != nil {
		return Summary{}, errors.Wrap(err, "cannot average speed")
	}
	if sum.MaxSpeed, err = speeds.Max(); err != nil {
		return Summary{}, errors.Wrap(err, "cannot find top speed")
	}
	if sum.SteeringP95, err = steering.Percentile(95); err != nil {
		return Summary{}, errors.Wrap(err, "cannot compute steering percentile")
	}
	return sum, nil
}
