package detect

import (
	"image"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vehiclecounter/utils"
)

func TestFitLetterboxWideFrame(t *testing.T) {
	lb := fitLetterbox(1280, 720, 640)

	assert.InDelta(t, 0.5, lb.scale, 1e-9)
	assert.Equal(t, 640, lb.width)
	assert.Equal(t, 360, lb.height)
	assert.Equal(t, 0, lb.padX)
	assert.Equal(t, 140, lb.padY)
}

func TestFitLetterboxTallFrame(t *testing.T) {
	lb := fitLetterbox(480, 960, 640)

	assert.InDelta(t, 640.0/960.0, lb.scale, 1e-9)
	assert.Equal(t, 320, lb.width)
	assert.Equal(t, 640, lb.height)
	assert.Equal(t, 160, lb.padX)
	assert.Equal(t, 0, lb.padY)
}

func TestLetterboxRoundTrip(t *testing.T) {
	lb := fitLetterbox(1280, 720, 640)

	// Frame point (100, 200) lands at (50, 240) in model space
	x, y := lb.toFrame(50, 240)
	assert.InDelta(t, 100, x, 1e-9)
	assert.InDelta(t, 200, y, 1e-9)
}

// buildOutput lays out a [1, 4+nc, anchors] tensor channel-major
func buildOutput(numClasses, numAnchors int, set func(attr, anchor int) float32) []float32 {
	numAttrs := 4 + numClasses
	data := make([]float32, numAttrs*numAnchors)
	for a := 0; a < numAttrs; a++ {
		for i := 0; i < numAnchors; i++ {
			data[a*numAnchors+i] = set(a, i)
		}
	}
	return data
}

func TestDecodePredictions(t *testing.T) {
	const numClasses = 80
	const numAnchors = 3
	allowed := map[int]bool{2: true, 3: true, 5: true, 7: true}
	lb := fitLetterbox(1280, 720, 640)

	// Anchor 0: confident car centered at model (320, 320), 100x60 box.
	// Anchor 1: confident person (class 0), must be filtered out.
	// Anchor 2: low-confidence truck, below threshold.
	data := buildOutput(numClasses, numAnchors, func(attr, anchor int) float32 {
		switch {
		case anchor == 0 && attr == 0:
			return 320
		case anchor == 0 && attr == 1:
			return 320
		case anchor == 0 && attr == 2:
			return 100
		case anchor == 0 && attr == 3:
			return 60
		case anchor == 0 && attr == 4+2:
			return 0.9
		case anchor == 1 && attr < 4:
			return 100
		case anchor == 1 && attr == 4+0:
			return 0.95
		case anchor == 2 && attr < 4:
			return 200
		case anchor == 2 && attr == 4+7:
			return 0.1
		}
		return 0
	})

	boxes, scores, classIDs := decodePredictions(data, 4+numClasses, numAnchors, 0.25, allowed, lb, 1280, 720)

	require.Len(t, boxes, 1)
	assert.Equal(t, []int{2}, classIDs)
	assert.InDelta(t, 0.9, float64(scores[0]), 1e-6)

	// Model (320, 320) maps back to frame (640, 360); box is 200x120 after
	// undoing the 0.5 scale
	want := image.Rect(540, 300, 740, 420)
	assert.Equal(t, want, boxes[0])
}

func TestDecodePredictionsClampsToFrame(t *testing.T) {
	allowed := map[int]bool{2: true}
	lb := fitLetterbox(640, 640, 640)

	// Box hangs off the left edge of the frame
	data := buildOutput(80, 1, func(attr, anchor int) float32 {
		switch attr {
		case 0:
			return 10
		case 1:
			return 320
		case 2:
			return 100
		case 3:
			return 100
		case 4 + 2:
			return 0.8
		}
		return 0
	})

	boxes, _, _ := decodePredictions(data, 84, 1, 0.25, allowed, lb, 640, 640)
	require.Len(t, boxes, 1)
	assert.Equal(t, 0, boxes[0].Min.X)
	assert.Equal(t, 60, boxes[0].Max.X)
}

func TestClassOffsetBoxesSeparatesClasses(t *testing.T) {
	car := image.Rect(100, 100, 200, 180)
	truck := image.Rect(105, 100, 205, 180)
	secondCar := image.Rect(102, 100, 202, 180)

	boxes := []image.Rectangle{car, truck, secondCar}
	shifted := classOffsetBoxes(boxes, []int{2, 7, 2}, 2000)

	// Overlapping car and truck no longer intersect after the offset
	assert.True(t, shifted[0].Intersect(shifted[1]).Empty())

	// Same-class boxes keep their relative overlap exactly
	assert.InDelta(t, utils.IoU(car, secondCar), utils.IoU(shifted[0], shifted[2]), 1e-9)

	// Zero class ID is left in place
	plain := classOffsetBoxes([]image.Rectangle{car}, []int{0}, 2000)
	assert.Equal(t, car, plain[0])
}

func TestDecodePredictionsMalformedTensor(t *testing.T) {
	boxes, scores, classIDs := decodePredictions([]float32{1, 2, 3}, 84, 8400, 0.25, nil, letterbox{scale: 1}, 640, 640)
	assert.Nil(t, boxes)
	assert.Nil(t, scores)
	assert.Nil(t, classIDs)
}
