package uniform

import (
	_ "embed"
	"encoding/binary"
	"fmt"
	"math"
	"unsafe"
)

// GPUCameraUniformSource is the canonical WGSL definition of the CameraUniform struct.
// Matches GPUCameraUniform layout exactly (80 bytes, std430 aligned).
//
//go:embed assets/camera_uniform.wgsl
var GPUCameraUniformSource string

const (
	// GPUCameraUniformSize is the total byte size of the serialized camera uniform:
	// 64 bytes of matrix, 12 bytes of position, 4 bytes of padding.
	GPUCameraUniformSize = 80

	// CameraPositionOffset is the byte offset of the camera position within the
	// serialized uniform, immediately after the 4x4 matrix block.
	CameraPositionOffset = 64
)

// GPUCameraUniform is the GPU-aligned representation of the per-frame camera uniform.
// Matches the WGSL CameraUniform struct layout exactly (see GPUCameraUniformSource).
// Size: 80 bytes (std430 / WGSL aligned, vec3 padded to 16).
type GPUCameraUniform struct {
	Camera         [16]float32 // offset  0: combined view-projection matrix, column-major (mat4x4<f32>)
	CameraPosition [3]float32  // offset 64: world-space camera position (vec3<f32>)
	_pad           float32     // offset 76: padding to 80 bytes
}

// Layout guards: the in-memory struct must agree with the serialized layout
// the shader stage expects. These fail to compile on any drift.
var (
	_ [GPUCameraUniformSize]byte      = [unsafe.Sizeof(GPUCameraUniform{})]byte{}
	_ [CameraPositionOffset]byte      = [unsafe.Offsetof(GPUCameraUniform{}.CameraPosition)]byte{}
	_ [CameraPositionOffset + 12]byte = [unsafe.Offsetof(GPUCameraUniform{}._pad)]byte{}
)

// NewGPUCameraUniform constructs a camera uniform from the producer's current
// transform and world position. No validation is performed; supplying a
// degenerate matrix is the producer's defect, not detected here.
//
// Parameters:
//   - camera: combined view-projection matrix, column-major
//   - position: world-space camera position
//
// Returns:
//   - GPUCameraUniform: the constructed uniform value
func NewGPUCameraUniform(camera [16]float32, position [3]float32) GPUCameraUniform {
	return GPUCameraUniform{
		Camera:         camera,
		CameraPosition: position,
	}
}

// Size returns the size of the GPUCameraUniform struct in bytes.
//
// Returns:
//   - int: the struct size in bytes (80)
func (g *GPUCameraUniform) Size() int {
	return int(unsafe.Sizeof(*g))
}

// Marshal serializes the GPUCameraUniform struct into a byte buffer suitable for GPU upload.
// The byte sequence is identical for identical inputs on every frame.
//
// Returns:
//   - []byte: the serialized byte buffer
func (g *GPUCameraUniform) Marshal() []byte {
	buf := make([]byte, g.Size())
	for i := range 16 {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(g.Camera[i]))
	}
	for i := range 3 {
		binary.LittleEndian.PutUint32(buf[CameraPositionOffset+i*4:], math.Float32bits(g.CameraPosition[i]))
	}
	binary.LittleEndian.PutUint32(buf[76:], 0) // _pad
	return buf
}

// UnmarshalGPUCameraUniform deserializes a byte buffer produced by Marshal
// (or read back from a pool slot) into a GPUCameraUniform. Floats are
// reconstructed bit-exactly.
//
// Parameters:
//   - data: the serialized buffer, at least GPUCameraUniformSize bytes
//
// Returns:
//   - GPUCameraUniform: the deserialized uniform value
//   - error: an error if the buffer is shorter than GPUCameraUniformSize
func UnmarshalGPUCameraUniform(data []byte) (GPUCameraUniform, error) {
	var g GPUCameraUniform
	if len(data) < GPUCameraUniformSize {
		return g, fmt.Errorf("camera uniform buffer too short: got %d bytes, need %d", len(data), GPUCameraUniformSize)
	}
	for i := range 16 {
		g.Camera[i] = math.Float32frombits(binary.LittleEndian.Uint32(data[i*4:]))
	}
	for i := range 3 {
		g.CameraPosition[i] = math.Float32frombits(binary.LittleEndian.Uint32(data[CameraPositionOffset+i*4:]))
	}
	return g, nil
}
