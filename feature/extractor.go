package feature

import (
	"math"

	"github.com/cuedspeech/lpcdecode/types"
)

// minScale is the degenerate-scale threshold below which a frame is
// rejected outright (spec.md §4.B step 1).
const minScale = 1e-6

// Frames groups the three landmark tuples the extractor needs: the
// current frame and its two predecessors. Extract reads only these.
type Frames struct {
	Prev2 types.LandmarkTuple // t-2
	Prev1 types.LandmarkTuple // t-1
	Cur   types.LandmarkTuple // t
}

// Extract computes the 33-d FrameFeatures for the current frame given its
// two predecessors, per spec.md §4.B. It returns (features, false) when
// any required landmark is missing or non-finite at t, t-1 or t-2 — the
// first two frames of any stream are always invalid since the motion
// features need both predecessors to exist.
func Extract(f Frames) (types.FrameFeatures, bool) {
	if !hasRequired(f.Cur) || !hasRequired(f.Prev1) || !hasRequired(f.Prev2) {
		return types.FrameFeatures{}, false
	}

	faceWidth := dist(f.Cur.Face[FaceCheekRight], f.Cur.Face[FaceCheekLeft])
	if faceWidth <= minScale {
		return types.FrameFeatures{}, false
	}

	handSpan := dist(f.Cur.Hand[HandWrist], f.Cur.Hand[HandIndexMCP])
	if handSpan <= minScale {
		handSpan = faceWidth
	}

	var out types.FrameFeatures

	handPosition, ok := handPositionFeatures(f.Cur, faceWidth)
	if !ok {
		return types.FrameFeatures{}, false
	}
	out.HandPosition = handPosition

	handShape, ok := handShapeFeatures(f.Cur, f.Prev1, handSpan)
	if !ok {
		return types.FrameFeatures{}, false
	}
	out.HandShape = handShape

	lips, ok := lipsFeatures(f.Cur, f.Prev1, f.Prev2, faceWidth)
	if !ok {
		return types.FrameFeatures{}, false
	}
	out.Lips = lips

	if !out.Valid() {
		return types.FrameFeatures{}, false
	}
	return out, true
}

// hasRequired reports whether tuple t carries enough landmarks, all
// finite, for the indices the extractor consults: a tuple shorter than
// the minimum lengths is rejected wholesale, and otherwise every
// consulted face, lip-contour and hand index is checked for finiteness.
func hasRequired(t types.LandmarkTuple) bool {
	if len(t.Face) < types.MinFaceLandmarks || len(t.Hand) < types.MinHandLandmarks {
		return false
	}
	idxs := []int{FaceChinBottom, FaceChinTop, FaceMouthRight, FaceRightOuter,
		FaceJawLeft, FaceCheekLeft, FaceJawRight, FaceMouthLeft, FaceCheekRight}
	for _, i := range idxs {
		if !t.Face[i].IsFinite() {
			return false
		}
	}
	for _, i := range LipOuter20 {
		if !t.Face[i].IsFinite() {
			return false
		}
	}
	handIdxs := []int{HandWrist, HandThumbTip, HandIndexTip, HandIndexMCP, HandMiddleTip, HandRingTip, HandPinkyTip}
	for _, i := range handIdxs {
		if !t.Hand[i].IsFinite() {
			return false
		}
	}
	return true
}

func dist(a, b types.Landmark) float64 {
	return math.Hypot(math.Hypot(a.X-b.X, a.Y-b.Y), a.Z-b.Z)
}

// handPositionFeatures implements spec.md §4.B step 2: 18 floats, outer
// loop over hand indices (8, 9, 12), inner loop over face indices (234,
// 200, 214, 454, 280), with the face-200 angle appended right after its
// distance.
func handPositionFeatures(cur types.LandmarkTuple, faceWidth float64) ([18]float64, bool) {
	var out [18]float64
	i := 0
	for _, hIdx := range HandPositionHandIndices {
		hand := cur.Hand[hIdx]
		for _, fIdx := range HandPositionFaceIndices {
			face := cur.Face[fIdx]
			out[i] = dist(hand, face) / faceWidth
			i++
			if fIdx == FaceRightOuter {
				angle := math.Atan2((face.Y-hand.Y)/faceWidth, (face.X-hand.X)/faceWidth)
				out[i] = angle
				i++
			}
		}
	}
	if i != 18 {
		return out, false
	}
	return out, true
}

// handShapeFeatures implements spec.md §4.B step 3: 5 static distances
// from the wrist plus the 2-component velocity of the index fingertip.
func handShapeFeatures(cur, prev1 types.LandmarkTuple, handSpan float64) ([7]float64, bool) {
	var out [7]float64
	wrist := cur.Hand[HandWrist]
	for i, hIdx := range HandShapeIndices {
		out[i] = dist(wrist, cur.Hand[hIdx]) / handSpan
	}
	out[5] = (cur.Hand[HandIndexTip].X - prev1.Hand[HandIndexTip].X) / handSpan
	out[6] = (cur.Hand[HandIndexTip].Y - prev1.Hand[HandIndexTip].Y) / handSpan
	return out, true
}

// lipsFeatures implements spec.md §4.B step 4: width, height, polygon
// area, mean turning angle, velocity (x, y), and acceleration (x, y) of
// the chin-bottom landmark.
func lipsFeatures(cur, prev1, prev2 types.LandmarkTuple, faceWidth float64) ([8]float64, bool) {
	var out [8]float64

	out[0] = dist(cur.Face[FaceMouthRight], cur.Face[FaceMouthLeft]) / faceWidth
	out[1] = dist(cur.Face[FaceChinBottom], cur.Face[FaceChinTop]) / faceWidth
	out[2] = lipPolygonArea(cur) / (faceWidth * faceWidth)
	out[3] = lipMeanTurningAngle(cur)

	velXCur := (cur.Face[FaceChinBottom].X - prev1.Face[FaceChinBottom].X) / faceWidth
	velYCur := (cur.Face[FaceChinBottom].Y - prev1.Face[FaceChinBottom].Y) / faceWidth
	velXPrev := (prev1.Face[FaceChinBottom].X - prev2.Face[FaceChinBottom].X) / faceWidth
	velYPrev := (prev1.Face[FaceChinBottom].Y - prev2.Face[FaceChinBottom].Y) / faceWidth

	out[4] = velXCur
	out[5] = velYCur
	out[6] = velXCur - velXPrev
	out[7] = velYCur - velYPrev

	return out, true
}

// lipPolygonArea is the shoelace-formula area (x/y projection, absolute
// value, times one half) of the outer lip contour.
func lipPolygonArea(t types.LandmarkTuple) float64 {
	n := len(LipOuter20)
	var sum float64
	for i := 0; i < n; i++ {
		a := t.Face[LipOuter20[i]]
		b := t.Face[LipOuter20[(i+1)%n]]
		sum += a.X*b.Y - b.X*a.Y
	}
	return math.Abs(sum) * 0.5
}

// lipMeanTurningAngle is the mean, over the lip-outer-20 polygon
// vertices, of the interior angle each vertex subtends with its two
// neighbors. Degenerate vertices (a neighbor coincides with the vertex)
// contribute nothing; an empty contour contributes 0.
func lipMeanTurningAngle(t types.LandmarkTuple) float64 {
	n := len(LipOuter20)
	if n == 0 {
		return 0
	}
	var sum float64
	var count int
	for i := 0; i < n; i++ {
		prev := t.Face[LipOuter20[(i-1+n)%n]]
		cur := t.Face[LipOuter20[i]]
		next := t.Face[LipOuter20[(i+1)%n]]

		v1x, v1y := prev.X-cur.X, prev.Y-cur.Y
		v2x, v2y := next.X-cur.X, next.Y-cur.Y
		n1 := math.Hypot(v1x, v1y)
		n2 := math.Hypot(v2x, v2y)
		if n1 <= minScale || n2 <= minScale {
			continue
		}
		cosTheta := (v1x*v2x + v1y*v2y) / (n1 * n2)
		cosTheta = clamp(cosTheta, -1, 1)
		sum += math.Acos(cosTheta)
		count++
	}
	if count == 0 {
		return 0
	}
	return sum / float64(count)
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
