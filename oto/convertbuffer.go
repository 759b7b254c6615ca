package oto

import (
	"encoding/binary"
	"math"

	"github.com/vsariola/chime"
)

// FloatBufferToBytes appends the buffer to dst as interleaved float32
// little-endian samples, the layout of oto.FormatFloat32LE. Samples are
// clamped to [-1, 1].
func FloatBufferToBytes(buffer chime.AudioBuffer, dst []byte) []byte {
	dst = dst[:0]
	var tmp [4]byte
	for _, frame := range buffer {
		for _, v := range frame {
			if v < -1 {
				v = -1
			} else if v > 1 {
				v = 1
			}
			binary.LittleEndian.PutUint32(tmp[:], math.Float32bits(v))
			dst = append(dst, tmp[:]...)
		}
	}
	return dst
}
