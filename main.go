package main

import (
	"flag"
	"os"
	"strconv"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"gocv.io/x/gocv"

	"vehiclecounter/count"
	"vehiclecounter/detect"
	"vehiclecounter/input"
	"vehiclecounter/recording"
	"vehiclecounter/track"
	"vehiclecounter/types"
	"vehiclecounter/ui"
)

var (
	videoSource = flag.String("video", "", "Path to the input video file or camera index (e.g. 0)")
	modelPath   = flag.String("model", "yolo11n.onnx", "YOLO model checkpoint to use")
	confThresh  = flag.Float64("conf", 0.25, "Confidence threshold for detections")
	namesPath   = flag.String("names", "", "Class names file (one label per line); overrides the built-in vehicle categories")
	debugMode   = flag.Bool("debug", false, "Start with debug logging enabled")
)

// openCapture resolves an integer camera index or a validated file path
func openCapture(source string) (*gocv.VideoCapture, error) {
	if id, err := strconv.Atoi(source); err == nil {
		return gocv.VideoCaptureDevice(id)
	}
	if _, err := os.Stat(source); err != nil {
		return nil, errors.Wrapf(err, "video not found: %s", source)
	}
	return gocv.VideoCaptureFile(source)
}

// detectFrame runs detection on one frame. Errors degrade to an empty
// detection list so the event loop still reaches window and key handling.
func detectFrame(d detect.Detector, frame gocv.Mat, frameNum int) []types.Detection {
	dets, err := d.Detect(frame)
	if err != nil {
		logrus.Errorf("Detection failed on frame %d: %v", frameNum, err)
		return nil
	}
	return dets
}

func main() {
	flag.Parse()
	if *videoSource == "" {
		flag.Usage()
		os.Exit(2)
	}

	if *debugMode {
		logrus.SetLevel(logrus.DebugLevel)
	}

	classes := types.VehicleClasses
	if *namesPath != "" {
		loaded, err := types.LoadClassNames(*namesPath)
		if err != nil {
			logrus.Fatalf("Could not load class names: %v", err)
		}
		classes = loaded
	}

	capture, err := openCapture(*videoSource)
	if err != nil {
		logrus.Fatalf("Could not open video source: %v", err)
	}
	defer capture.Close()

	detectorConfig := types.DefaultDetectorConfig()
	detectorConfig.ModelPath = *modelPath
	detectorConfig.ConfThreshold = float32(*confThresh)
	detectorConfig.Classes = types.ClassIDs(classes)

	detector, err := detect.NewYOLODetector(detectorConfig)
	if err != nil {
		logrus.Fatalf("Could not load detector: %v", err)
	}
	defer detector.Close()

	tracker := track.NewTracker(types.DefaultTrackerConfig())
	counter := count.NewWithClasses(classes)

	uiConfig := types.DefaultUIConfig()
	videoConfig := types.DefaultVideoConfig()
	state := &types.AppState{DebugMode: *debugMode}
	logrus.AddHook(types.NewOverlayHook(state, uiConfig.MaxDebugLogs))

	window := gocv.NewWindow("Vehicle Counter")
	defer window.Close()

	frame := gocv.NewMat()
	defer frame.Close()

	ui.PrintStartupInstructions()

	for {
		if !state.Paused {
			if ok := capture.Read(&frame); !ok || frame.Empty() {
				logrus.Info("End of stream")
				break
			}
			state.FrameCount++

			dets := detectFrame(detector, frame, state.FrameCount)

			tracked := tracker.Update(dets)
			counter.Observe(tracked)

			ui.RenderFrame(&frame, state, counter, tracked, uiConfig)

			if err := recording.WriteFrame(state, frame); err != nil {
				logrus.Errorf("Error writing video frame: %v", err)
			}
		}

		window.IMShow(frame)
		key := window.WaitKey(1)
		if input.ProcessInput(key, state, frame, videoConfig) {
			break
		}
	}

	recording.CleanupRecording(state)
	if err := counter.WriteSummary(os.Stdout); err != nil {
		logrus.Errorf("Error writing summary: %v", err)
	}
}
