package recording

import (
	"fmt"
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"gocv.io/x/gocv"

	"vehiclecounter/types"
)

// StartRecording starts annotated video recording with the given configuration
func StartRecording(state *types.AppState, frame gocv.Mat, config types.VideoConfig) error {
	if state.IsRecording {
		return errors.New("recording already active")
	}

	timestamp := time.Now().Format("20060102_150405")
	filename := fmt.Sprintf("vehicle_counts_%s.mp4", timestamp)

	// Try different codecs for better compatibility
	var vw *gocv.VideoWriter
	var err error
	var usedCodec string

	for _, fourcc := range config.Codecs {
		vw, err = gocv.VideoWriterFile(filename, fourcc, config.FPS, frame.Cols(), frame.Rows(), true)
		if err == nil {
			usedCodec = fourcc
			break
		}
	}

	if err != nil {
		return errors.Wrap(err, "could not create video writer with any codec")
	}

	state.VideoWriter = vw
	state.IsRecording = true
	state.RecordingStartTime = time.Now()
	logrus.Infof("Recording started: %s (codec: %s)", filename, usedCodec)

	return nil
}

// StopRecording stops video recording
func StopRecording(state *types.AppState) error {
	if !state.IsRecording {
		return errors.New("no active recording")
	}

	if state.VideoWriter != nil {
		if err := state.VideoWriter.Close(); err != nil {
			return errors.Wrap(err, "error closing video writer")
		}
		state.VideoWriter = nil
	}

	state.IsRecording = false
	logrus.Info("Recording stopped")

	return nil
}

// ToggleRecording toggles video recording on/off
func ToggleRecording(state *types.AppState, frame gocv.Mat, config types.VideoConfig) error {
	if state.IsRecording {
		return StopRecording(state)
	}
	return StartRecording(state, frame, config)
}

// WriteFrame writes a frame to the video file if recording is active
func WriteFrame(state *types.AppState, frame gocv.Mat) error {
	if state.IsRecording && state.VideoWriter != nil {
		return state.VideoWriter.Write(frame)
	}
	return nil
}

// GetRecordingDuration returns the duration of the current recording
func GetRecordingDuration(state *types.AppState) time.Duration {
	if !state.IsRecording {
		return 0
	}
	return time.Since(state.RecordingStartTime)
}

// CleanupRecording ensures recording is properly stopped and cleaned up
func CleanupRecording(state *types.AppState) {
	if state.IsRecording {
		_ = StopRecording(state)
	}
}
