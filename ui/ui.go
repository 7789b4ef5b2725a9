package ui

import (
	"fmt"
	"image"
	"image/color"

	"github.com/sirupsen/logrus"
	"gocv.io/x/gocv"

	"vehiclecounter/count"
	"vehiclecounter/recording"
	"vehiclecounter/types"
	"vehiclecounter/utils"
)

var (
	Blue   = color.RGBA{B: 255}
	Red    = color.RGBA{R: 255}
	Green  = color.RGBA{G: 255}
	Yellow = color.RGBA{R: 255, G: 255}
	Amber  = color.RGBA{R: 255, G: 215}
	White  = color.RGBA{R: 255, G: 255, B: 255}
	Black  = color.RGBA{R: 0, G: 0, B: 0, A: 120}
)

// classColor picks the box color for a vehicle category
func classColor(classID int) color.RGBA {
	switch classID {
	case 2: // car
		return Green
	case 3: // motorcycle
		return Blue
	case 5: // bus
		return Yellow
	case 7: // truck
		return Red
	}
	return White
}

// DrawDetections draws a labelled bounding box for each tracked detection
func DrawDetections(frame *gocv.Mat, counter *count.Counter, dets []types.TrackedDetection) {
	for _, det := range dets {
		boxColor := classColor(det.ClassID)
		_ = gocv.Rectangle(frame, det.Box, boxColor, 2)

		name, ok := counter.ClassName(det.ClassID)
		if !ok {
			name = fmt.Sprintf("class %d", det.ClassID)
		}
		label := fmt.Sprintf("%s %s %.2f", name, utils.ShortID(det.TrackID), det.Score)
		origin := image.Pt(det.Box.Min.X, det.Box.Min.Y-6)
		if origin.Y < 12 {
			origin.Y = det.Box.Min.Y + 14
		}
		if err := gocv.PutText(frame, label, origin, gocv.FontHersheyPlain, 1.0, boxColor, 1); err != nil {
			logrus.Warnf("Error adding detection label: %v", err)
		}
	}
}

// DrawCounts overlays the running per-category counts and the total
func DrawCounts(frame *gocv.Mat, counter *count.Counter, config types.UIConfig) {
	counts := counter.Counts()

	y := 30
	for _, label := range counter.Labels() {
		text := fmt.Sprintf("%s: %d", utils.Title(label), counts[label])
		if err := gocv.PutText(frame, text, image.Pt(20, y), gocv.FontHersheySimplex, config.CountFontSize, Green, 2); err != nil {
			logrus.Warnf("Error adding count text: %v", err)
		}
		y += 30
	}

	totalText := fmt.Sprintf("Total: %d", counter.Total())
	if err := gocv.PutText(frame, totalText, image.Pt(20, y), gocv.FontHersheySimplex, config.TotalFontSize, Amber, 2); err != nil {
		logrus.Warnf("Error adding total text: %v", err)
	}
}

// DrawStatusMessage draws the pause indicator
func DrawStatusMessage(frame *gocv.Mat, state *types.AppState, config types.UIConfig) {
	if !state.Paused {
		return
	}
	if err := gocv.PutText(frame, "PAUSED", image.Pt(frame.Cols()-140, 30), gocv.FontHersheyPlain, config.StatusFontSize, Yellow, 2); err != nil {
		logrus.Warnf("Error adding status text: %v", err)
	}
}

// DrawRecordingStatus draws the recording status and timer
func DrawRecordingStatus(frame *gocv.Mat, state *types.AppState, config types.UIConfig) {
	if !state.IsRecording {
		return
	}

	duration := recording.GetRecordingDuration(state)
	recordingText := fmt.Sprintf("REC %02d:%02d", int(duration.Minutes()), int(duration.Seconds())%60)

	if err := gocv.PutText(frame, recordingText, image.Pt(frame.Cols()-140, 60), gocv.FontHersheyPlain, config.StatusFontSize, Red, 2); err != nil {
		logrus.Warnf("Error adding recording text: %v", err)
	}
}

// DrawHelpText draws the compact help text in the bottom corner
func DrawHelpText(frame *gocv.Mat, config types.UIConfig) {
	helpY := frame.Rows() - config.HelpOffsetY
	helpText := "Controls: p=pause  v=record  d=debug  q=quit"

	// Small background for readability
	textSize := gocv.GetTextSize(helpText, gocv.FontHersheyPlain, config.HelpFontSize, 1)
	helpRect := image.Rect(5, helpY-5, textSize.X+15, helpY+textSize.Y+5)

	if err := gocv.Rectangle(frame, helpRect, Black, -1); err != nil {
		logrus.Warnf("Error drawing help background: %v", err)
	}

	if err := gocv.PutText(frame, helpText, image.Pt(10, helpY+10), gocv.FontHersheyPlain, config.HelpFontSize, White, 1); err != nil {
		logrus.Warnf("Error adding help text: %v", err)
	}
}

// DrawDebugLogs draws the debug log messages on screen
func DrawDebugLogs(frame *gocv.Mat, state *types.AppState, config types.UIConfig) {
	if !state.DebugMode {
		return
	}

	logs := state.SnapshotDebugLogs()
	if len(logs) == 0 {
		return
	}

	// Calculate position for debug logs (right side of screen)
	frameWidth := frame.Cols()
	startY := 100
	lineHeight := 20
	maxWidth := 400
	padding := 10

	// Draw background for debug logs
	debugHeight := len(logs)*lineHeight + padding*2
	debugRect := image.Rect(frameWidth-maxWidth-padding, startY-padding, frameWidth-padding, startY+debugHeight-padding)

	if err := gocv.Rectangle(frame, debugRect, Black, -1); err != nil {
		logrus.Warnf("Error drawing debug background: %v", err)
	}

	// Draw debug header
	headerText := fmt.Sprintf("Debug Logs (%d):", len(logs))
	if err := gocv.PutText(frame, headerText, image.Pt(frameWidth-maxWidth, startY), gocv.FontHersheyPlain, config.DebugFontSize, Yellow, 1); err != nil {
		logrus.Warnf("Error adding debug header: %v", err)
	}

	// Draw each log message
	for i, logMsg := range logs {
		y := startY + (i+1)*lineHeight

		// Truncate long messages
		if len(logMsg) > 50 {
			logMsg = logMsg[:47] + "..."
		}

		if err := gocv.PutText(frame, logMsg, image.Pt(frameWidth-maxWidth, y), gocv.FontHersheyPlain, config.DebugFontSize, White, 1); err != nil {
			logrus.Warnf("Error adding debug text: %v", err)
		}
	}
}

// RenderFrame renders all UI elements on the frame
func RenderFrame(frame *gocv.Mat, state *types.AppState, counter *count.Counter, dets []types.TrackedDetection, config types.UIConfig) {
	DrawDetections(frame, counter, dets)
	DrawCounts(frame, counter, config)
	DrawStatusMessage(frame, state, config)
	DrawRecordingStatus(frame, state, config)
	DrawHelpText(frame, config)
	DrawDebugLogs(frame, state, config)
}

// PrintStartupInstructions prints the initial control instructions
func PrintStartupInstructions() {
	fmt.Println("Controls:")
	fmt.Println("- Counting starts automatically")
	fmt.Println("- Press 'p' to pause/resume")
	fmt.Println("- Press 'v' to start/stop video recording")
	fmt.Println("- Press 'd' to toggle debug mode (shows last N logs on screen)")
	fmt.Println("- Press 'q' or ESC to quit")
}
