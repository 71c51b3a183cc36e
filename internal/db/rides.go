package db

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/banshee-data/coaster.report/internal/kinematics"
	"github.com/google/uuid"
)

// ErrRideNotFound is returned when no ride has the requested ID.
var ErrRideNotFound = errors.New("ride not found")

// Ride is the stored summary of one synthesized ride.
type Ride struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`

	SpeedModel   string  `json:"speed_model"`
	Integrator   string  `json:"integrator,omitempty"`
	InitialSpeed float64 `json:"initial_speed"`
	DT           float64 `json:"dt"`

	SampleCount  int     `json:"sample_count"`
	DurationS    float64 `json:"duration_s"`
	PeakSpeedMps float64 `json:"peak_speed_mps"`
	HeightM      float64 `json:"height_m"`
	LengthM      float64 `json:"length_m"`
	MaxVerticalG float64 `json:"max_vertical_g"`
	MinVerticalG float64 `json:"min_vertical_g"`
	MaxLateralG  float64 `json:"max_lateral_g"`
	Stalled      bool    `json:"stalled"`
	StallIndex   int     `json:"stall_index"`

	Fun         float64 `json:"fun"`
	Safety      float64 `json:"safety"`
	RatingModel string  `json:"rating_model"`
}

func (r *Ride) String() string {
	return fmt.Sprintf("Ride<id=%s, name=%s, fun=%.1f, safety=%.1f, model=%s>", r.ID, r.Name, r.Fun, r.Safety, r.RatingModel)
}

const rideColumns = `ride_id, name, created_at, speed_model, integrator, initial_speed, dt,
	sample_count, duration_s, peak_speed_mps, height_m, length_m,
	max_vertical_g, min_vertical_g, max_lateral_g, stalled, stall_index,
	fun, safety, rating_model`

// RecordRide stores a ride and its accelerometer samples in one transaction
// and returns the new ride ID. ID and CreatedAt are assigned here when empty;
// SampleCount always reflects samples.
func (db *DB) RecordRide(ride Ride, samples []kinematics.AccelerometerSample) (string, error) {
	if ride.ID == "" {
		ride.ID = uuid.NewString()
	}
	if ride.CreatedAt.IsZero() {
		ride.CreatedAt = time.Now()
	}
	ride.SampleCount = len(samples)

	tx, err := db.Begin()
	if err != nil {
		return "", fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.Exec(`INSERT INTO rides (`+rideColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		ride.ID, ride.Name, ride.CreatedAt.UnixNano(), ride.SpeedModel, ride.Integrator,
		ride.InitialSpeed, ride.DT, ride.SampleCount, ride.DurationS, ride.PeakSpeedMps,
		ride.HeightM, ride.LengthM, ride.MaxVerticalG, ride.MinVerticalG, ride.MaxLateralG,
		ride.Stalled, ride.StallIndex, ride.Fun, ride.Safety, ride.RatingModel,
	)
	if err != nil {
		return "", fmt.Errorf("failed to insert ride: %w", err)
	}

	stmt, err := tx.Prepare(`INSERT INTO ride_samples (ride_id, seq, time_s, lateral_g, vertical_g, longitudinal_g)
		VALUES (?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return "", fmt.Errorf("failed to prepare sample insert: %w", err)
	}
	defer stmt.Close()
	for i, s := range samples {
		if _, err := stmt.Exec(ride.ID, i, s.Time, s.Lateral, s.Vertical, s.Longitudinal); err != nil {
			return "", fmt.Errorf("failed to insert sample %d: %w", i, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("failed to commit ride: %w", err)
	}
	return ride.ID, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRide(row rowScanner) (Ride, error) {
	var r Ride
	var createdAt int64
	err := row.Scan(
		&r.ID, &r.Name, &createdAt, &r.SpeedModel, &r.Integrator, &r.InitialSpeed, &r.DT,
		&r.SampleCount, &r.DurationS, &r.PeakSpeedMps, &r.HeightM, &r.LengthM,
		&r.MaxVerticalG, &r.MinVerticalG, &r.MaxLateralG, &r.Stalled, &r.StallIndex,
		&r.Fun, &r.Safety, &r.RatingModel,
	)
	if err != nil {
		return Ride{}, err
	}
	r.CreatedAt = time.Unix(0, createdAt)
	return r, nil
}

// Ride returns the stored summary for id.
func (db *DB) Ride(id string) (Ride, error) {
	r, err := scanRide(db.QueryRow(`SELECT `+rideColumns+` FROM rides WHERE ride_id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return Ride{}, fmt.Errorf("%s: %w", id, ErrRideNotFound)
	}
	if err != nil {
		return Ride{}, fmt.Errorf("failed to load ride: %w", err)
	}
	return r, nil
}

// RideSamples returns the accelerometer samples of a ride in time order.
func (db *DB) RideSamples(id string) ([]kinematics.AccelerometerSample, error) {
	if _, err := db.Ride(id); err != nil {
		return nil, err
	}
	rows, err := db.Query(`SELECT time_s, lateral_g, vertical_g, longitudinal_g
		FROM ride_samples WHERE ride_id = ? ORDER BY seq`, id)
	if err != nil {
		return nil, fmt.Errorf("failed to query samples: %w", err)
	}
	defer rows.Close()

	var out []kinematics.AccelerometerSample
	for rows.Next() {
		var s kinematics.AccelerometerSample
		if err := rows.Scan(&s.Time, &s.Lateral, &s.Vertical, &s.Longitudinal); err != nil {
			return nil, fmt.Errorf("failed to scan sample: %w", err)
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

// Leaderboard returns up to limit rides ordered by fun rating, best first.
// Ties go to the safer ride, then the earlier one.
func (db *DB) Leaderboard(limit int) ([]Ride, error) {
	if limit <= 0 {
		return nil, nil
	}
	rows, err := db.Query(`SELECT `+rideColumns+` FROM rides
		ORDER BY fun DESC, safety DESC, created_at ASC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query leaderboard: %w", err)
	}
	defer rows.Close()

	var out []Ride
	for rows.Next() {
		r, err := scanRide(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan ride: %w", err)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// DeleteRide removes a ride and its samples.
func (db *DB) DeleteRide(id string) error {
	res, err := db.Exec(`DELETE FROM rides WHERE ride_id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete ride: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("%s: %w", id, ErrRideNotFound)
	}
	return nil
}
