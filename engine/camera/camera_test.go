package camera

import (
	"testing"

	"github.com/chewxy/math32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/edison-moreland/creature-creator-prototype/common"
)

func TestControllerPositionOnSphere(t *testing.T) {
	ctrl := NewCameraController(
		WithTarget(1, 2, 3),
		WithRadius(100),
		WithAzimuth(0.7),
		WithElevation(0.3),
	)

	px, py, pz := ctrl.Position()
	tx, ty, tz := ctrl.Target()

	dx, dy, dz := px-tx, py-ty, pz-tz
	dist := math32.Sqrt(dx*dx + dy*dy + dz*dz)
	assert.InDelta(t, float32(100), dist, 1e-3)
}

func TestControllerZoomClampsToBounds(t *testing.T) {
	ctrl := NewCameraController(
		WithRadius(100),
		WithRadiusBounds(50, 150),
		WithZoomSpeed(10),
	)

	ctrl.Zoom(100) // way past the minimum
	assert.Equal(t, float32(50), ctrl.Radius())

	ctrl.Zoom(-100) // way past the maximum
	assert.Equal(t, float32(150), ctrl.Radius())
}

func TestControllerOrbitStepsChangeAngles(t *testing.T) {
	ctrl := NewCameraController(WithAzimuth(0), WithElevation(0.5), WithOrbitSpeed(0.1))

	ctrl.OrbitRight()
	assert.InDelta(t, float32(0.1), ctrl.Azimuth(), 1e-6)

	ctrl.OrbitLeft()
	ctrl.OrbitLeft()
	assert.InDelta(t, float32(-0.1), ctrl.Azimuth(), 1e-6)

	ctrl.OrbitUp()
	assert.InDelta(t, float32(0.6), ctrl.Elevation(), 1e-6)
}

func TestControllerElevationClamped(t *testing.T) {
	ctrl := NewCameraController()

	ctrl.SetElevation(10) // past vertical
	assert.Less(t, ctrl.Elevation(), math32.Pi/2)

	ctrl.SetElevation(-10)
	assert.Greater(t, ctrl.Elevation(), float32(0))
}

func TestCameraViewProjectionComposition(t *testing.T) {
	ctrl := NewCameraController(WithTarget(0, 0, 0), WithRadius(100), WithAzimuth(0.5), WithElevation(0.4))
	cam := NewCamera(
		WithFov(math32.Pi/4),
		WithAspect(16.0/9.0),
		WithNear(0.01),
		WithFar(10000),
		WithController(ctrl),
	)

	view := cam.ViewMatrix()
	proj := cam.ProjectionMatrix()
	vp := cam.ViewProjectionMatrix()

	want := make([]float32, 16)
	common.Mul4(want, proj[:], view[:])
	for i := range 16 {
		assert.InDelta(t, want[i], vp[i], 1e-5, "element %d", i)
	}
}

func TestCameraPositionTracksController(t *testing.T) {
	ctrl := NewCameraController(WithTarget(5, 0, 0), WithRadius(50))
	cam := NewCamera(WithController(ctrl))

	px, py, pz := cam.Position()
	cx, cy, cz := ctrl.Position()
	assert.Equal(t, cx, px)
	assert.Equal(t, cy, py)
	assert.Equal(t, cz, pz)
}

func TestCameraWithoutControllerIsInert(t *testing.T) {
	cam := NewCamera()

	px, py, pz := cam.Position()
	assert.Zero(t, px)
	assert.Zero(t, py)
	assert.Zero(t, pz)

	// Update with no controller leaves the identity matrices untouched.
	cam.Update()
	ident := [16]float32{1, 0, 0, 0, 0, 1, 0, 0, 0, 0, 1, 0, 0, 0, 0, 1}
	assert.Equal(t, ident, cam.ViewProjectionMatrix())
}

func TestCameraUpdateFollowsControllerMotion(t *testing.T) {
	ctrl := NewCameraController(WithTarget(0, 0, 0), WithRadius(100), WithAzimuth(0))
	cam := NewCamera(WithController(ctrl))

	before := cam.ViewProjectionMatrix()

	ctrl.OrbitRight()
	cam.Update()
	after := cam.ViewProjectionMatrix()

	require.NotEqual(t, before, after)

	// The target stays in front of the camera: it projects to the center of
	// the view both before and after orbiting.
	x, y, _ := common.TransformPoint(after[:], 0, 0, 0)
	assert.InDelta(t, float32(0), x, 1e-4)
	assert.InDelta(t, float32(0), y, 1e-4)
}
