package bind_group_provider

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestProviderStartsEmpty(t *testing.T) {
	p := NewBindGroupProvider("camera_slot_0")

	assert.Equal(t, "camera_slot_0", p.Label())
	assert.Nil(t, p.BindGroup())
	assert.Nil(t, p.Buffer(0))
}

func TestProviderReleaseWithoutResources(t *testing.T) {
	p := NewBindGroupProvider("empty")

	p.Release()
	assert.Nil(t, p.BindGroup())
	assert.Nil(t, p.Buffer(0))
}
