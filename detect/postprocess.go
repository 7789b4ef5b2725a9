package detect

import (
	"image"

	"vehiclecounter/utils"
)

// letterbox describes how a frame was scaled and padded into the square model
// input, so detections can be mapped back to frame coordinates.
type letterbox struct {
	scale  float64
	width  int
	height int
	padX   int
	padY   int
}

func fitLetterbox(srcWidth, srcHeight, dst int) letterbox {
	scale := float64(dst) / float64(srcWidth)
	if s := float64(dst) / float64(srcHeight); s < scale {
		scale = s
	}
	width := int(float64(srcWidth) * scale)
	height := int(float64(srcHeight) * scale)
	return letterbox{
		scale:  scale,
		width:  width,
		height: height,
		padX:   (dst - width) / 2,
		padY:   (dst - height) / 2,
	}
}

// toFrame maps a point from model input coordinates back to the frame
func (lb letterbox) toFrame(x, y float64) (float64, float64) {
	return (x - float64(lb.padX)) / lb.scale, (y - float64(lb.padY)) / lb.scale
}

// classOffsetBoxes shifts each box by a per-class offset so one class-agnostic
// NMS pass cannot suppress overlapping boxes of different classes. The stride
// must exceed any frame coordinate.
func classOffsetBoxes(boxes []image.Rectangle, classIDs []int, stride int) []image.Rectangle {
	shifted := make([]image.Rectangle, len(boxes))
	for i, box := range boxes {
		off := image.Pt(classIDs[i]*stride, classIDs[i]*stride)
		shifted[i] = box.Add(off)
	}
	return shifted
}

// decodePredictions walks a YOLO output tensor of shape [1, 4+nc, anchors]
// (channel-major) and returns NMS-ready candidate boxes in frame coordinates.
// Candidates below the confidence threshold or outside the class allow-list
// are dropped here, before NMS.
func decodePredictions(data []float32, numAttrs, numAnchors int, confThreshold float32,
	allowed map[int]bool, lb letterbox, frameWidth, frameHeight int,
) ([]image.Rectangle, []float32, []int) {
	numClasses := numAttrs - 4
	if numClasses <= 0 || len(data) < numAttrs*numAnchors {
		return nil, nil, nil
	}

	var boxes []image.Rectangle
	var scores []float32
	var classIDs []int

	for i := 0; i < numAnchors; i++ {
		best := -1
		var bestScore float32
		for c := 0; c < numClasses; c++ {
			if s := data[(4+c)*numAnchors+i]; s > bestScore {
				bestScore = s
				best = c
			}
		}
		if bestScore < confThreshold || !allowed[best] {
			continue
		}

		cx := float64(data[0*numAnchors+i])
		cy := float64(data[1*numAnchors+i])
		w := float64(data[2*numAnchors+i])
		h := float64(data[3*numAnchors+i])

		x0, y0 := lb.toFrame(cx-w/2, cy-h/2)
		x1, y1 := lb.toFrame(cx+w/2, cy+h/2)
		box := utils.ClampRect(image.Rect(int(x0), int(y0), int(x1), int(y1)), frameWidth, frameHeight)
		if box.Empty() {
			continue
		}

		boxes = append(boxes, box)
		scores = append(scores, bestScore)
		classIDs = append(classIDs, best)
	}

	return boxes, scores, classIDs
}
