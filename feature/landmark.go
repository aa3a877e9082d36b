// Package feature computes the fixed-shape 33-d per-frame geometric
// feature vector (spec.md §4.B) from a 3-frame sliding window of
// landmark tuples produced by an (external) face/hand/pose detector.
package feature

// Named face landmark indices consulted by the extractor, per spec.md
// §3 ("only a documented subset of indices is consulted").
const (
	FaceChinBottom   = 0
	FaceChinTop      = 17 // lower lip / chin boundary used for mouth height
	FaceMouthRight   = 61
	FaceRightOuter   = 200
	FaceJawLeft      = 214
	FaceCheekLeft    = 234
	FaceJawRight     = 280
	FaceMouthLeft    = 291
	FaceCheekRight   = 454
)

// Named hand landmark indices consulted by the extractor.
const (
	HandWrist        = 0
	HandThumbTip     = 4
	HandIndexTip     = 8
	HandIndexMCP     = 9
	HandMiddleTip    = 12
	HandRingTip      = 16
	HandPinkyTip     = 20
)

// LipOuter20 is the ordered set of 20 face landmark indices tracing the
// outer lip contour, used for the mouth polygon area and curvature
// features. The ordering is load-aware: it follows the contour so that
// consecutive entries are geometric neighbors (required for the shoelace
// area and turning-angle computations to be meaningful).
var LipOuter20 = [20]int{
	61, 146, 91, 181, 84, 17, 314, 405, 321, 375,
	291, 409, 270, 269, 267, 0, 37, 39, 40, 185,
}

// HandPositionFaceIndices are the five face landmarks used, per hand
// index, when computing the 18 hand-position distances/angle (spec.md
// §4.B step 2). Ordering matters: FaceRightOuter (200) must stay in the
// position the angle feature is anchored to.
var HandPositionFaceIndices = [5]int{
	FaceCheekLeft, FaceRightOuter, FaceJawLeft, FaceCheekRight, FaceJawRight,
}

// HandPositionHandIndices are the three hand landmarks whose distance to
// each face index is measured.
var HandPositionHandIndices = [3]int{HandIndexTip, HandIndexMCP, HandMiddleTip}

// HandShapeIndices are the five hand landmarks whose distance to the
// wrist forms the static part of the hand-shape feature.
var HandShapeIndices = [5]int{HandThumbTip, HandIndexTip, HandMiddleTip, HandRingTip, HandPinkyTip}
