package track

import (
	"sort"

	"github.com/sirupsen/logrus"

	"vehiclecounter/types"
	"vehiclecounter/utils"
)

// Tracker is a multi-object tracker with IoU matching against Kalman-predicted
// positions. Track identifiers persist for the same physical object until the
// track has gone unmatched for MaxLost consecutive frames.
type Tracker struct {
	cfg    types.TrackerConfig
	tracks []*track
}

// NewTracker creates a tracker with the given configuration
func NewTracker(cfg types.TrackerConfig) *Tracker {
	return &Tracker{cfg: cfg}
}

// candidate is a possible detection-to-track assignment
type candidate struct {
	detIdx   int
	trackIdx int
	iou      float64
}

// Update matches one frame of detections against the known tracks and returns
// the detections tagged with their track identifiers. Unmatched detections
// start new tracks; tracks unmatched for more than MaxLost frames are dropped.
func (t *Tracker) Update(dets []types.Detection) []types.TrackedDetection {
	for _, tr := range t.tracks {
		tr.predict()
	}

	candidates := make([]candidate, 0, len(dets)*len(t.tracks))
	for di, det := range dets {
		for ti, tr := range t.tracks {
			iou := utils.IoU(det.Box, tr.predicted)
			if iou >= t.cfg.IoUThreshold {
				candidates = append(candidates, candidate{detIdx: di, trackIdx: ti, iou: iou})
			}
		}
	}
	sort.Slice(candidates, func(i, j int) bool {
		return candidates[i].iou > candidates[j].iou
	})

	// Greedy assignment, best overlap first
	matchedDets := make(map[int]*track, len(dets))
	usedTracks := make(map[int]bool, len(t.tracks))
	for _, c := range candidates {
		if _, ok := matchedDets[c.detIdx]; ok {
			continue
		}
		if usedTracks[c.trackIdx] {
			continue
		}
		matchedDets[c.detIdx] = t.tracks[c.trackIdx]
		usedTracks[c.trackIdx] = true
	}

	seen := make(map[*track]bool, len(dets))
	result := make([]types.TrackedDetection, 0, len(dets))
	for di, det := range dets {
		tr, ok := matchedDets[di]
		if ok {
			if err := tr.observe(det.ClassID, det.Score, det.Box); err != nil {
				logrus.Warnf("Track %s update failed: %v", utils.ShortID(tr.id), err)
			}
		} else {
			tr = newTrack(det.ClassID, det.Score, det.Box)
			t.tracks = append(t.tracks, tr)
			logrus.Debugf("New track %s (class %d)", utils.ShortID(tr.id), det.ClassID)
		}
		seen[tr] = true
		result = append(result, types.TrackedDetection{Detection: det, TrackID: tr.id})
	}

	// Age out tracks that went unmatched for too long
	kept := t.tracks[:0]
	for _, tr := range t.tracks {
		if !seen[tr] {
			tr.miss()
		}
		if tr.lost > t.cfg.MaxLost {
			logrus.Debugf("Dropping track %s after %d lost frames", utils.ShortID(tr.id), tr.lost)
			continue
		}
		kept = append(kept, tr)
	}
	t.tracks = kept

	return result
}

// ActiveTracks returns the number of tracks currently maintained
func (t *Tracker) ActiveTracks() int {
	return len(t.tracks)
}
