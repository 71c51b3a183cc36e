package report

import (
	"bytes"
	"errors"
	"image/color"
	"os"
	"path/filepath"
	"testing"

	"github.com/banshee-data/coaster.report/internal/kinematics"
	"github.com/banshee-data/coaster.report/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func synthesizedRide(t *testing.T) *kinematics.Result {
	t.Helper()
	res, err := kinematics.Synthesize(testutil.LiftDropLoop(20).Track, kinematics.DefaultParameters())
	require.NoError(t, err)
	return res
}

func TestRenderPNG(t *testing.T) {
	res := synthesizedRide(t)
	path := filepath.Join(t.TempDir(), "ride.png")

	require.NoError(t, RenderPNG(res.Samples, "Lift, drop and loop", path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Greater(t, len(data), 8)
	assert.Equal(t, []byte("\x89PNG\r\n\x1a\n"), data[:8])
}

func TestRenderPNGEmpty(t *testing.T) {
	err := RenderPNG(nil, "empty", filepath.Join(t.TempDir(), "x.png"))
	assert.True(t, errors.Is(err, ErrNoSamples))
}

func TestRenderHTML(t *testing.T) {
	res := synthesizedRide(t)

	var buf bytes.Buffer
	require.NoError(t, RenderHTML(&buf, res.Samples, "Test ride"))
	html := buf.String()
	assert.Contains(t, html, "<html")
	assert.Contains(t, html, "Test ride")
	assert.Contains(t, html, "vertical")
	assert.Contains(t, html, "longitudinal")

	assert.True(t, errors.Is(RenderHTML(&buf, nil, "empty"), ErrNoSamples))
}

func TestRenderRideHTML(t *testing.T) {
	res := synthesizedRide(t)

	var buf bytes.Buffer
	require.NoError(t, RenderRideHTML(&buf, res, "Test ride"))
	assert.Contains(t, buf.String(), "Speed (m/s)")
	assert.Contains(t, buf.String(), "energy-conservation")

	assert.True(t, errors.Is(RenderRideHTML(&buf, nil, "nil"), ErrNoSamples))
}

func TestHexColor(t *testing.T) {
	assert.Equal(t, "#d62728", hexColor(verticalColor))
	assert.Equal(t, "#000000", hexColor(color.RGBA{}))
}
