package uniform

import (
	"encoding/binary"
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGPUCameraUniformSize(t *testing.T) {
	g := GPUCameraUniform{}
	assert.Equal(t, GPUCameraUniformSize, g.Size())
	assert.Len(t, g.Marshal(), GPUCameraUniformSize)
}

func TestMarshalIdentityZeroReference(t *testing.T) {
	g := NewGPUCameraUniform(
		[16]float32{1, 0, 0, 0, 0, 1, 0, 0, 0, 0, 1, 0, 0, 0, 0, 1},
		[3]float32{0, 0, 0},
	)

	want := make([]byte, GPUCameraUniformSize)
	one := math.Float32bits(1.0)
	for _, diag := range []int{0, 5, 10, 15} {
		binary.LittleEndian.PutUint32(want[diag*4:], one)
	}

	assert.Equal(t, want, g.Marshal())
}

func TestMarshalPositionOffset(t *testing.T) {
	g := NewGPUCameraUniform([16]float32{}, [3]float32{1.5, -2.25, 100})

	buf := g.Marshal()

	// The matrix block is all zeros; the position begins exactly where it ends.
	for i := 0; i < CameraPositionOffset; i++ {
		require.Zero(t, buf[i], "matrix block byte %d", i)
	}
	assert.Equal(t, math.Float32bits(1.5), binary.LittleEndian.Uint32(buf[CameraPositionOffset:]))
	assert.Equal(t, math.Float32bits(-2.25), binary.LittleEndian.Uint32(buf[CameraPositionOffset+4:]))
	assert.Equal(t, math.Float32bits(100), binary.LittleEndian.Uint32(buf[CameraPositionOffset+8:]))

	// Padding always serializes as zero.
	assert.Equal(t, uint32(0), binary.LittleEndian.Uint32(buf[76:]))
}

func TestMarshalReproducible(t *testing.T) {
	g := NewGPUCameraUniform(
		[16]float32{0.5, 1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12, 13, 14, 15},
		[3]float32{-7, 8.5, 9},
	)

	first := g.Marshal()
	for range 8 {
		assert.Equal(t, first, g.Marshal())
	}
}

func TestRoundTripBitExact(t *testing.T) {
	// Awkward bit patterns: negative zero, denormal, NaN payload, infinities.
	var m [16]float32
	m[0] = math.Float32frombits(0x80000000) // -0.0
	m[1] = math.Float32frombits(0x00000001) // smallest denormal
	m[2] = math.Float32frombits(0x7fc00001) // NaN with payload
	m[3] = math.Float32frombits(0x7f800000) // +Inf
	m[4] = math.Float32frombits(0xff800000) // -Inf
	for i := 5; i < 16; i++ {
		m[i] = float32(i) * 1.0e-3
	}
	pos := [3]float32{math.Float32frombits(0x80000000), 3.14159, -1e30}

	g := NewGPUCameraUniform(m, pos)
	got, err := UnmarshalGPUCameraUniform(g.Marshal())
	require.NoError(t, err)

	for i := range 16 {
		assert.Equal(t, math.Float32bits(m[i]), math.Float32bits(got.Camera[i]), "matrix element %d", i)
	}
	for i := range 3 {
		assert.Equal(t, math.Float32bits(pos[i]), math.Float32bits(got.CameraPosition[i]), "position element %d", i)
	}
}

func TestUnmarshalShortBuffer(t *testing.T) {
	_, err := UnmarshalGPUCameraUniform(make([]byte, GPUCameraUniformSize-1))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "too short")
}

func TestShaderSourceDeclaresLayout(t *testing.T) {
	// The embedded WGSL is the canonical consumer-side declaration: field
	// order must be matrix first, then position.
	require.NotEmpty(t, GPUCameraUniformSource)
	matIdx := strings.Index(GPUCameraUniformSource, "camera: mat4x4<f32>")
	posIdx := strings.Index(GPUCameraUniformSource, "camera_position: vec3<f32>")
	require.GreaterOrEqual(t, matIdx, 0)
	require.GreaterOrEqual(t, posIdx, 0)
	assert.Less(t, matIdx, posIdx)
}
