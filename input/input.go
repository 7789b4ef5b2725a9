package input

import (
	"github.com/sirupsen/logrus"
	"gocv.io/x/gocv"

	"vehiclecounter/recording"
	"vehiclecounter/types"
)

// ProcessInput processes all keyboard input for the application.
// It returns true when the program should quit.
func ProcessInput(key int, state *types.AppState, frame gocv.Mat, videoConfig types.VideoConfig) bool {
	switch key {
	case 'q', 27: // 'q' or ESC to quit
		recording.CleanupRecording(state)
		return true

	case 'p': // 'p' to pause/resume
		state.Paused = !state.Paused
		if state.Paused {
			logrus.Info("Paused")
		} else {
			logrus.Info("Resumed")
		}

	case 'v': // 'v' to toggle video recording
		if err := recording.ToggleRecording(state, frame, videoConfig); err != nil {
			logrus.Errorf("Recording error: %v", err)
		}

	case 'd': // 'd' to toggle debug mode
		state.DebugMode = !state.DebugMode
		if state.DebugMode {
			logrus.SetLevel(logrus.DebugLevel)
			logrus.Info("Debug mode enabled - logs will appear on screen")
		} else {
			logrus.SetLevel(logrus.InfoLevel)
			logrus.Info("Debug mode disabled")
		}
	}

	return false
}
