package kinematics

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func constantInput(n int, gPar, gNorm, v0 float64) IntegrationInput {
	in := IntegrationInput{
		GravityParallel: make([]float64, n),
		GravityNormal:   make([]float64, n),
		InitialSpeed:    v0,
		DT:              0.02,
		RollingFriction: 0.015,
		DragPerMass:     DefaultDynamics().DragPerMass(),
	}
	for i := 0; i < n; i++ {
		in.GravityParallel[i] = gPar
		in.GravityNormal[i] = gNorm
	}
	return in
}

func kernels() []Integrator {
	return []Integrator{ScalarIntegrator{}, FMAIntegrator{}}
}

func TestIntegratorProperties(t *testing.T) {
	t.Parallel()

	for _, k := range kernels() {
		t.Run(k.Name(), func(t *testing.T) {
			t.Run("first sample is initial speed", func(t *testing.T) {
				speed, _, _ := k.Integrate(constantInput(10, 0, 9.81, 7))
				assert.Equal(t, 7.0, speed[0])
			})

			t.Run("downhill accelerates", func(t *testing.T) {
				speed, accel, anomalies := k.Integrate(constantInput(200, 3, 9.3, 2))
				assert.Zero(t, anomalies)
				for i := 1; i < len(speed); i++ {
					assert.Greater(t, speed[i], speed[i-1], "sample %d", i)
					assert.Positive(t, accel[i])
				}
			})

			t.Run("static friction holds at rest", func(t *testing.T) {
				// Slope gentler than the friction angle.
				speed, accel, _ := k.Integrate(constantInput(50, 0.1, 9.81, 0))
				for i := range speed {
					assert.Zero(t, speed[i])
					assert.Zero(t, accel[i])
				}
			})

			t.Run("uphill never goes negative", func(t *testing.T) {
				speed, _, _ := k.Integrate(constantInput(500, -4, 9, 5))
				for i, v := range speed {
					assert.GreaterOrEqual(t, v, 0.0, "sample %d", i)
				}
				assert.Zero(t, speed[len(speed)-1])
			})

			t.Run("stall on a climb is final", func(t *testing.T) {
				in := constantInput(400, -4.9, 8.5, 3)
				for i := 200; i < 400; i++ {
					in.GravityParallel[i] = 4.9
				}
				speed, accel, _ := k.Integrate(in)
				stop := stallIndex(speed)
				require.GreaterOrEqual(t, stop, 1)
				assert.Less(t, stop, 200)
				for i := stop + 1; i < len(speed); i++ {
					assert.Zero(t, speed[i], "sample %d", i)
					assert.Zero(t, accel[i], "sample %d", i)
				}
			})

			t.Run("non-finite forcing counted", func(t *testing.T) {
				in := constantInput(20, 1, 9, 4)
				in.GravityParallel[5] = math.NaN()
				in.GravityParallel[9] = math.Inf(1)
				speed, accel, anomalies := k.Integrate(in)
				assert.Equal(t, 2, anomalies)
				assert.Zero(t, accel[5])
				assert.Zero(t, accel[9])
				for _, v := range speed {
					assert.False(t, math.IsNaN(v))
				}
			})

			t.Run("empty input", func(t *testing.T) {
				speed, accel, anomalies := k.Integrate(IntegrationInput{})
				assert.Empty(t, speed)
				assert.Empty(t, accel)
				assert.Zero(t, anomalies)
			})
		})
	}
}

func TestIntegratorParity(t *testing.T) {
	t.Parallel()

	n := 3000
	in := constantInput(n, 0, 0, 20)
	for i := 0; i < n; i++ {
		slope := 0.2 * math.Sin(float64(i)/90)
		in.GravityParallel[i] = 9.81 * slope
		in.GravityNormal[i] = 9.81 * math.Sqrt(1-slope*slope)
	}
	sv, sa, _ := ScalarIntegrator{}.Integrate(in)
	fv, fa, _ := FMAIntegrator{}.Integrate(in)
	require.Len(t, fv, n)
	require.Positive(t, sv[n-1], "parity track should not stall")
	for i := range sv {
		assert.InDelta(t, sv[i], fv[i], 1e-6, "speed %d", i)
		assert.InDelta(t, sa[i], fa[i], 1e-6, "accel %d", i)
	}
}

func TestSelectIntegrator(t *testing.T) {
	t.Parallel()
	assert.Equal(t, "fma", selectIntegrator(true).Name())
	assert.Equal(t, "scalar", selectIntegrator(false).Name())

	// The process-wide choice never changes once made.
	first := DefaultIntegrator()
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, DefaultIntegrator())
	}
}
