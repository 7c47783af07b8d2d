package malgo

import (
	"encoding/binary"
	"math"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestInterleaveDeinterleaveRoundTrip(t *testing.T) {
	planes := [][]float32{
		{0.1, 0.2, 0.3, 0.4},
		{-0.1, -0.2, -0.3, -0.4},
	}
	frames := 4
	buf := make([]byte, frames*len(planes)*4)

	interleaveF32(planes, buf, frames)

	out := planarBuffer(len(planes), frames)
	deinterleaveF32(buf, out, frames)

	for ch := range planes {
		for i := range planes[ch] {
			require.InDelta(t, planes[ch][i], out[ch][i], 1e-6)
		}
	}
}

func TestInterleaveF32ZerosUncoveredTail(t *testing.T) {
	planes := [][]float32{{1, 1}, {1, 1}}
	buf := make([]byte, 2*2*4)
	for i := range buf {
		buf[i] = 0xFF
	}

	interleaveF32(planes, buf, 1)

	// Frame 0 should hold the packed values, frame 1 must be zeroed.
	tailStart := 1 * 2 * 4
	for _, b := range buf[tailStart:] {
		require.Equal(t, byte(0), b)
	}
}

func TestDeinterleaveF32ClampsToAvailableFrames(t *testing.T) {
	buf := make([]byte, 4) // only one mono sample available
	binary.LittleEndian.PutUint32(buf, math.Float32bits(0.5))

	planes := planarBuffer(1, 4)
	deinterleaveF32(buf, planes, 4)

	require.InDelta(t, 0.5, planes[0][0], 1e-6)
	require.Equal(t, float32(0), planes[0][1])
}

func TestPlanarBufferShapesChannelsByFrames(t *testing.T) {
	p := planarBuffer(3, 8)
	require.Len(t, p, 3)
	for _, ch := range p {
		require.Len(t, ch, 8)
	}
}
