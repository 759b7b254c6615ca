package oto_test

import (
	"encoding/binary"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vsariola/chime"
	"github.com/vsariola/chime/oto"
)

func TestFloatBufferToBytes(t *testing.T) {
	buffer := chime.AudioBuffer{{0.5, -0.25}, {2, -3}}
	out := oto.FloatBufferToBytes(buffer, nil)
	require.Len(t, out, len(buffer)*2*4)
	want := []float32{0.5, -0.25, 1, -1}
	for i, w := range want {
		got := math.Float32frombits(binary.LittleEndian.Uint32(out[i*4:]))
		assert.Equal(t, w, got, "sample %d", i)
	}
}

func TestFloatBufferToBytesReusesCapacity(t *testing.T) {
	dst := make([]byte, 0, 64)
	out := oto.FloatBufferToBytes(chime.AudioBuffer{{0, 0}}, dst)
	assert.Len(t, out, 8)
	assert.Equal(t, 64, cap(out))
}
