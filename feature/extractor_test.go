package feature

import (
	"math"
	"testing"

	"github.com/cuedspeech/lpcdecode/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// zeroTuple returns a LandmarkTuple with enough zero-valued landmarks to
// satisfy the extractor's length requirements, except for the two
// distinguished face landmarks used to anchor face_width.
func zeroTuple() types.LandmarkTuple {
	face := make([]types.Landmark, types.MinFaceLandmarks)
	hand := make([]types.Landmark, types.MinHandLandmarks)
	face[FaceCheekRight] = types.Landmark{X: 1, Y: 0, Z: 0}
	face[FaceCheekLeft] = types.Landmark{X: 0, Y: 0, Z: 0}
	return types.LandmarkTuple{Face: face, Hand: hand}
}

// S4: face[454]=(1,0,0), face[234]=(0,0,0) so face_width=1, and every
// other required landmark sits at the origin. That makes almost the
// whole vector zero, but not quite: face[454] (FaceCheekRight) is both
// the face_width anchor and one of the five face points HandPosition
// measures distance to per hand, so the three zero-valued hands each
// land at distance 1 from it (1.0 once divided by face_width=1) — the
// entries at HandPosition[4], [10] and [16]. Every other HandPosition,
// HandShape and Lips entry is genuinely zero.
func TestExtractS4ZeroVector(t *testing.T) {
	tup := zeroTuple()
	f := Frames{Prev2: tup, Prev1: tup, Cur: tup}

	got, ok := Extract(f)
	require.True(t, ok)

	nonZeroHandPosition := map[int]bool{4: true, 10: true, 16: true}
	for i, v := range got.HandPosition {
		if nonZeroHandPosition[i] {
			assert.Equal(t, 1.0, v, "HandPosition[%d]", i)
		} else {
			assert.Equal(t, 0.0, v, "HandPosition[%d]", i)
		}
	}
	for _, v := range got.HandShape {
		assert.Equal(t, 0.0, v)
	}
	for _, v := range got.Lips {
		assert.Equal(t, 0.0, v)
	}
	assert.True(t, got.Valid())
}

func TestExtractDegenerateFaceWidthInvalid(t *testing.T) {
	tup := zeroTuple()
	tup.Face[FaceCheekRight] = types.Landmark{X: 0, Y: 0, Z: 0} // face_width collapses to 0
	f := Frames{Prev2: tup, Prev1: tup, Cur: tup}

	_, ok := Extract(f)
	assert.False(t, ok)
}

func TestExtractHandSpanFallsBackToFaceWidth(t *testing.T) {
	tup := zeroTuple()
	tup.Hand[HandWrist] = types.Landmark{X: 5, Y: 5, Z: 5}
	tup.Hand[HandIndexMCP] = types.Landmark{X: 5, Y: 5, Z: 5} // hand_span == 0
	f := Frames{Prev2: tup, Prev1: tup, Cur: tup}

	got, ok := Extract(f)
	require.True(t, ok)
	// every fingertip stays at the origin, so each wrist-to-tip distance
	// is |(5,5,5)| = 5*sqrt(3); divided by the fallback scale
	// (face_width=1) rather than the collapsed hand span, it stays finite.
	for _, v := range got.HandShape[:5] {
		assert.InDelta(t, 5*math.Sqrt(3), v, 1e-12)
	}
}

func TestExtractFirstTwoFramesInvalid(t *testing.T) {
	// A single isolated frame has no t-1/t-2 history to reuse; in a real
	// stream the caller would not have two valid predecessors yet, which
	// is exactly the "first two frames are invalid" rule — modeled here
	// by handing the extractor a predecessor with too few landmarks.
	short := types.LandmarkTuple{
		Face: make([]types.Landmark, 10),
		Hand: make([]types.Landmark, 5),
	}
	tup := zeroTuple()
	_, ok := Extract(Frames{Prev2: short, Prev1: tup, Cur: tup})
	assert.False(t, ok)
}

func TestExtractNonFiniteLandmarkInvalid(t *testing.T) {
	tup := zeroTuple()
	nan := 0.0
	nan = nan / nan
	tup.Face[FaceMouthRight] = types.Landmark{X: nan, Y: 0, Z: 0}
	f := Frames{Prev2: tup, Prev1: tup, Cur: tup}

	_, ok := Extract(f)
	assert.False(t, ok)
}
