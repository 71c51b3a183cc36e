package db

import (
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/banshee-data/coaster.report/internal/kinematics"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := NewDB(filepath.Join(t.TempDir(), "rides.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func testSamples(n int) []kinematics.AccelerometerSample {
	s := make([]kinematics.AccelerometerSample, n)
	for i := range s {
		s[i] = kinematics.AccelerometerSample{
			Time:         float64(i) * 0.02,
			Lateral:      0.01 * float64(i),
			Vertical:     1 + 0.1*float64(i),
			Longitudinal: -0.05,
		}
	}
	return s
}

func TestPragmasApplied(t *testing.T) {
	db := setupTestDB(t)

	var journalMode string
	require.NoError(t, db.QueryRow("PRAGMA journal_mode").Scan(&journalMode))
	assert.Equal(t, "wal", journalMode)

	var busyTimeout int
	require.NoError(t, db.QueryRow("PRAGMA busy_timeout").Scan(&busyTimeout))
	assert.Equal(t, 5000, busyTimeout)

	var foreignKeys int
	require.NoError(t, db.QueryRow("PRAGMA foreign_keys").Scan(&foreignKeys))
	assert.Equal(t, 1, foreignKeys)
}

func TestMigrations(t *testing.T) {
	db := setupTestDB(t)

	latest, err := LatestMigrationVersion()
	require.NoError(t, err)
	assert.Equal(t, uint(2), latest)

	version, dirty, err := db.MigrateVersion()
	require.NoError(t, err)
	assert.Equal(t, latest, version)
	assert.False(t, dirty)

	// Up again is a no-op.
	require.NoError(t, db.MigrateUp())

	require.NoError(t, db.MigrateDown())
	version, _, err = db.MigrateVersion()
	require.NoError(t, err)
	assert.Equal(t, uint(1), version)

	var n int
	require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name='ride_samples'`).Scan(&n))
	assert.Zero(t, n)

	require.NoError(t, db.MigrateUp())
	version, _, err = db.MigrateVersion()
	require.NoError(t, err)
	assert.Equal(t, uint(2), version)
}

func TestOpenDBWithoutMigrations(t *testing.T) {
	db, err := OpenDB(filepath.Join(t.TempDir(), "empty.db"))
	require.NoError(t, err)
	defer db.Close()

	version, dirty, err := db.MigrateVersion()
	require.NoError(t, err)
	assert.Zero(t, version)
	assert.False(t, dirty)
}

func TestRecordAndLoadRide(t *testing.T) {
	db := setupTestDB(t)

	created := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)
	ride := Ride{
		Name:         "lift-drop-loop",
		CreatedAt:    created,
		SpeedModel:   "dynamics-integration",
		Integrator:   "fma",
		InitialSpeed: 3,
		DT:           0.02,
		DurationS:    12.5,
		PeakSpeedMps: 23.2,
		HeightM:      30,
		LengthM:      210,
		MaxVerticalG: 5.1,
		MinVerticalG: 0.2,
		Stalled:      true,
		StallIndex:   600,
		Fun:          7.5,
		Safety:       9,
		RatingModel:  "rule-based-v1.0",
	}
	samples := testSamples(25)

	id, err := db.RecordRide(ride, samples)
	require.NoError(t, err)
	require.NotEmpty(t, id)

	got, err := db.Ride(id)
	require.NoError(t, err)

	want := ride
	want.ID = id
	want.SampleCount = 25
	opt := cmp.Comparer(func(a, b time.Time) bool { return a.Equal(b) })
	if diff := cmp.Diff(want, got, opt); diff != "" {
		t.Errorf("ride mismatch (-got +want):\n%s", diff)
	}

	gotSamples, err := db.RideSamples(id)
	require.NoError(t, err)
	if diff := cmp.Diff(samples, gotSamples); diff != "" {
		t.Errorf("samples mismatch (-got +want):\n%s", diff)
	}
}

func TestRideNotFound(t *testing.T) {
	db := setupTestDB(t)

	_, err := db.Ride("missing")
	assert.True(t, errors.Is(err, ErrRideNotFound))

	_, err = db.RideSamples("missing")
	assert.True(t, errors.Is(err, ErrRideNotFound))

	assert.True(t, errors.Is(db.DeleteRide("missing"), ErrRideNotFound))
}

func TestDeleteRideCascades(t *testing.T) {
	db := setupTestDB(t)

	id, err := db.RecordRide(Ride{Name: "short", SpeedModel: "energy-conservation", RatingModel: "x"}, testSamples(5))
	require.NoError(t, err)
	require.NoError(t, db.DeleteRide(id))

	var n int
	require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM ride_samples WHERE ride_id = ?`, id).Scan(&n))
	assert.Zero(t, n)
}

func TestLeaderboard(t *testing.T) {
	db := setupTestDB(t)

	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	rides := []Ride{
		{Name: "gentle", Fun: 3, Safety: 10},
		{Name: "wild", Fun: 9, Safety: 4},
		{Name: "classic", Fun: 7, Safety: 9},
		{Name: "classic-clone", Fun: 7, Safety: 9},
		{Name: "safer-seven", Fun: 7, Safety: 9.5},
	}
	for i, r := range rides {
		r.SpeedModel = "energy-conservation"
		r.RatingModel = "rule-based-v1.0"
		r.CreatedAt = base.Add(time.Duration(i) * time.Minute)
		_, err := db.RecordRide(r, testSamples(3))
		require.NoError(t, err)
	}

	top, err := db.Leaderboard(4)
	require.NoError(t, err)
	var names []string
	for _, r := range top {
		names = append(names, r.Name)
	}
	assert.Equal(t, []string{"wild", "safer-seven", "classic", "classic-clone"}, names)

	none, err := db.Leaderboard(0)
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestRideString(t *testing.T) {
	r := &Ride{ID: "abc", Name: "n", Fun: 7.3, Safety: 9, RatingModel: "m"}
	assert.Equal(t, "Ride<id=abc, name=n, fun=7.3, safety=9.0, model=m>", r.String())
}
