package detect

import (
	"image"
	"os"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"gocv.io/x/gocv"

	"vehiclecounter/types"
)

// Detector produces per-frame detections from an opaque model
type Detector interface {
	Detect(frame gocv.Mat) ([]types.Detection, error)
	Close() error
}

// YOLODetector runs a YOLO ONNX checkpoint through the OpenCV DNN module
type YOLODetector struct {
	net     gocv.Net
	cfg     types.DetectorConfig
	allowed map[int]bool
}

// NewYOLODetector loads the model named in the configuration
func NewYOLODetector(cfg types.DetectorConfig) (*YOLODetector, error) {
	if _, err := os.Stat(cfg.ModelPath); err != nil {
		return nil, errors.Wrapf(err, "model not found: %s", cfg.ModelPath)
	}

	net := gocv.ReadNet(cfg.ModelPath, "")
	if net.Empty() {
		return nil, errors.Errorf("could not load model: %s", cfg.ModelPath)
	}
	net.SetPreferableBackend(gocv.NetBackendDefault)
	net.SetPreferableTarget(gocv.NetTargetCPU)

	allowed := make(map[int]bool, len(cfg.Classes))
	for _, id := range cfg.Classes {
		allowed[id] = true
	}

	logrus.Infof("Loaded detection model %s (input %dx%d, conf %.2f)",
		cfg.ModelPath, cfg.InputSize, cfg.InputSize, cfg.ConfThreshold)

	return &YOLODetector{net: net, cfg: cfg, allowed: allowed}, nil
}

// Detect runs one frame through the network and returns the detections whose
// class is in the configured allow-list.
func (d *YOLODetector) Detect(frame gocv.Mat) ([]types.Detection, error) {
	if frame.Empty() {
		return nil, nil
	}

	lb := fitLetterbox(frame.Cols(), frame.Rows(), d.cfg.InputSize)

	square := gocv.NewMatWithSize(d.cfg.InputSize, d.cfg.InputSize, gocv.MatTypeCV8UC3)
	defer square.Close()
	square.SetTo(gocv.NewScalar(114, 114, 114, 0))

	resized := gocv.NewMat()
	defer resized.Close()
	gocv.Resize(frame, &resized, image.Pt(lb.width, lb.height), 0, 0, gocv.InterpolationLinear)

	roi := square.Region(image.Rect(lb.padX, lb.padY, lb.padX+lb.width, lb.padY+lb.height))
	resized.CopyTo(&roi)
	roi.Close()

	blob := gocv.BlobFromImage(square, 1.0/255.0,
		image.Pt(d.cfg.InputSize, d.cfg.InputSize), gocv.NewScalar(0, 0, 0, 0), true, false)
	defer blob.Close()

	d.net.SetInput(blob, "")
	output := d.net.Forward("")
	defer output.Close()

	dims := output.Size()
	if len(dims) != 3 {
		return nil, errors.Errorf("unexpected model output shape %v", dims)
	}
	data, err := output.DataPtrFloat32()
	if err != nil {
		return nil, errors.Wrap(err, "reading model output")
	}

	boxes, scores, classIDs := decodePredictions(data, dims[1], dims[2],
		d.cfg.ConfThreshold, d.allowed, lb, frame.Cols(), frame.Rows())
	if len(boxes) == 0 {
		return nil, nil
	}

	// NMS per class: a car and a truck sharing pixels must not suppress
	// each other
	shifted := classOffsetBoxes(boxes, classIDs, frame.Cols()+frame.Rows())
	indices := gocv.NMSBoxes(shifted, scores, d.cfg.ConfThreshold, d.cfg.NMSThreshold)

	dets := make([]types.Detection, 0, len(indices))
	for _, idx := range indices {
		dets = append(dets, types.Detection{
			ClassID: classIDs[idx],
			Score:   scores[idx],
			Box:     boxes[idx],
		})
	}
	return dets, nil
}

// Close releases the network
func (d *YOLODetector) Close() error {
	return d.net.Close()
}
