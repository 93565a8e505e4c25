package common

import (
	"testing"

	"github.com/chewxy/math32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIdentity(t *testing.T) {
	m := make([]float32, 16)
	for i := range m {
		m[i] = float32(i)
	}
	Identity(m)

	want := []float32{1, 0, 0, 0, 0, 1, 0, 0, 0, 0, 1, 0, 0, 0, 0, 1}
	assert.Equal(t, want, m)
}

func TestMul4Identity(t *testing.T) {
	ident := make([]float32, 16)
	Identity(ident)

	m := []float32{
		1, 2, 3, 4,
		5, 6, 7, 8,
		9, 10, 11, 12,
		13, 14, 15, 16,
	}

	out := make([]float32, 16)
	Mul4(out, ident, m)
	assert.Equal(t, m, out)

	Mul4(out, m, ident)
	assert.Equal(t, m, out)
}

func TestMul4InPlace(t *testing.T) {
	// out aliasing an operand must still produce the correct product.
	a := []float32{
		2, 0, 0, 0,
		0, 2, 0, 0,
		0, 0, 2, 0,
		0, 0, 0, 1,
	}
	b := []float32{
		1, 0, 0, 0,
		0, 1, 0, 0,
		0, 0, 1, 0,
		3, 4, 5, 1,
	}

	Mul4(a, a, b)

	// Scale * Translate: translation ends up scaled.
	assert.InDelta(t, float32(6), a[12], 1e-6)
	assert.InDelta(t, float32(8), a[13], 1e-6)
	assert.InDelta(t, float32(10), a[14], 1e-6)
	assert.InDelta(t, float32(2), a[0], 1e-6)
}

func TestLookAtOrigin(t *testing.T) {
	view := make([]float32, 16)
	LookAt(view, 0, 0, 10, 0, 0, 0, 0, 1, 0)

	// A camera at +Z looking at the origin maps the origin to (0, 0, -10) in view space.
	x, y, z := TransformPoint(view, 0, 0, 0)
	assert.InDelta(t, float32(0), x, 1e-6)
	assert.InDelta(t, float32(0), y, 1e-6)
	assert.InDelta(t, float32(-10), z, 1e-6)

	// The eye position maps to the view-space origin.
	x, y, z = TransformPoint(view, 0, 0, 10)
	assert.InDelta(t, float32(0), x, 1e-6)
	assert.InDelta(t, float32(0), y, 1e-6)
	assert.InDelta(t, float32(0), z, 1e-6)
}

func TestPerspectiveDepthRange(t *testing.T) {
	proj := make([]float32, 16)
	near := float32(0.1)
	far := float32(100.0)
	Perspective(proj, math32.Pi/4, 16.0/9.0, near, far)

	require.Equal(t, float32(-1), proj[11], "perspective matrix must carry -z into w")

	// Points on the near and far planes map to clip depth 0 and 1 (WebGPU convention).
	_, _, zNear := TransformPoint(proj, 0, 0, -near)
	_, _, zFar := TransformPoint(proj, 0, 0, -far)
	assert.InDelta(t, float32(0), zNear, 1e-5)
	assert.InDelta(t, float32(1), zFar, 1e-5)
}
