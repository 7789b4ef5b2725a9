package types

import (
	"image"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"gocv.io/x/gocv"
)

// VehicleClasses maps COCO class IDs to the vehicle categories we count.
var VehicleClasses = map[int]string{
	2: "car",
	3: "motorcycle",
	5: "bus",
	7: "truck",
}

// ClassIDs returns the class IDs of a class map
func ClassIDs(classes map[int]string) []int {
	ids := make([]int, 0, len(classes))
	for id := range classes {
		ids = append(ids, id)
	}
	return ids
}

// LoadClassNames reads a class names file (one label per line, line number =
// class ID, the coco.names convention) into a class map usable by the detector
// and the counter.
func LoadClassNames(path string) (map[int]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "could not read class names: %s", path)
	}

	classes := make(map[int]string)
	for i, line := range strings.Split(string(data), "\n") {
		name := strings.TrimSpace(line)
		if name == "" {
			continue
		}
		classes[i] = name
	}
	if len(classes) == 0 {
		return nil, errors.Errorf("no class names in %s", path)
	}
	return classes, nil
}

// Detection is a single detector output on one frame
type Detection struct {
	ClassID int
	Score   float32
	Box     image.Rectangle
}

// TrackedDetection is a detection tagged with a persistent track identifier
type TrackedDetection struct {
	Detection
	TrackID uuid.UUID
}

// AppState holds the complete application state
type AppState struct {
	// Playback state
	Paused     bool
	FrameCount int

	// Video recording
	IsRecording        bool
	VideoWriter        *gocv.VideoWriter
	RecordingStartTime time.Time

	// Debug logging
	DebugMode     bool
	DebugLogs     []string
	DebugLogMutex sync.Mutex
}

// DetectorConfig holds the detection model configuration
type DetectorConfig struct {
	ModelPath     string
	InputSize     int
	ConfThreshold float32
	NMSThreshold  float32
	Classes       []int
}

// DefaultDetectorConfig returns the default detection configuration
func DefaultDetectorConfig() DetectorConfig {
	return DetectorConfig{
		ModelPath:     "yolo11n.onnx",
		InputSize:     640,
		ConfThreshold: 0.25,
		NMSThreshold:  0.45,
		Classes:       ClassIDs(VehicleClasses),
	}
}

// TrackerConfig holds tracking configuration constants
type TrackerConfig struct {
	IoUThreshold float64
	MaxLost      int
}

// DefaultTrackerConfig returns the default tracking configuration
func DefaultTrackerConfig() TrackerConfig {
	return TrackerConfig{
		IoUThreshold: 0.3,
		MaxLost:      30,
	}
}

// VideoConfig holds video recording configuration
type VideoConfig struct {
	FPS    float64
	Codecs []string
}

// DefaultVideoConfig returns the default video configuration
func DefaultVideoConfig() VideoConfig {
	return VideoConfig{
		FPS:    30.0,
		Codecs: []string{"H264", "avc1", "x264", "mp4v"},
	}
}

// UIConfig holds UI configuration constants
type UIConfig struct {
	CountFontSize  float64
	TotalFontSize  float64
	HelpFontSize   float64
	StatusFontSize float64
	HelpOffsetY    int
	MaxDebugLogs   int
	DebugFontSize  float64
}

// DefaultUIConfig returns the default UI configuration
func DefaultUIConfig() UIConfig {
	return UIConfig{
		CountFontSize:  0.8,
		TotalFontSize:  0.9,
		HelpFontSize:   0.9,
		StatusFontSize: 1.5,
		HelpOffsetY:    60,
		MaxDebugLogs:   10,
		DebugFontSize:  0.8,
	}
}

// OverlayHook is a logrus hook that mirrors log messages into the on-screen
// debug log buffer when debug mode is enabled.
type OverlayHook struct {
	state   *AppState
	maxLogs int
}

// NewOverlayHook creates a hook capturing the last maxLogs messages
func NewOverlayHook(state *AppState, maxLogs int) *OverlayHook {
	return &OverlayHook{state: state, maxLogs: maxLogs}
}

// Levels implements logrus.Hook
func (h *OverlayHook) Levels() []logrus.Level {
	return logrus.AllLevels
}

// Fire implements logrus.Hook
func (h *OverlayHook) Fire(entry *logrus.Entry) error {
	if !h.state.DebugMode {
		return nil
	}

	h.state.DebugLogMutex.Lock()
	defer h.state.DebugLogMutex.Unlock()

	h.state.DebugLogs = append(h.state.DebugLogs, entry.Message)
	if len(h.state.DebugLogs) > h.maxLogs {
		h.state.DebugLogs = h.state.DebugLogs[1:]
	}
	return nil
}

// SnapshotDebugLogs returns a copy of the current debug logs
func (s *AppState) SnapshotDebugLogs() []string {
	s.DebugLogMutex.Lock()
	defer s.DebugLogMutex.Unlock()

	logs := make([]string, len(s.DebugLogs))
	copy(logs, s.DebugLogs)
	return logs
}
