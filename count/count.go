package count

import (
	"fmt"
	"io"
	"sort"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"vehiclecounter/types"
	"vehiclecounter/utils"
)

// Counter turns per-frame tracked detections into stable per-category totals.
// Each track ID is counted at most once, so a vehicle visible across many
// consecutive frames contributes a single increment.
type Counter struct {
	classes map[int]string
	counted map[uuid.UUID]string
	counts  map[string]int
}

// New creates a counter over the standard vehicle categories
func New() *Counter {
	return NewWithClasses(types.VehicleClasses)
}

// NewWithClasses creates a counter over a custom class ID to label mapping
func NewWithClasses(classes map[int]string) *Counter {
	counts := make(map[string]int, len(classes))
	for _, label := range classes {
		counts[label] = 0
	}
	return &Counter{
		classes: classes,
		counted: make(map[uuid.UUID]string),
		counts:  counts,
	}
}

// Count registers one detection. It returns true only the first time a track
// ID is seen with an allowed class; every later call with the same track ID is
// a no-op, regardless of the class it arrives with.
func (c *Counter) Count(classID int, trackID uuid.UUID) bool {
	label, ok := c.classes[classID]
	if !ok {
		return false
	}
	if _, seen := c.counted[trackID]; seen {
		return false
	}
	c.counted[trackID] = label
	c.counts[label]++
	return true
}

// Observe counts every detection in a frame and returns how many were new
func (c *Counter) Observe(dets []types.TrackedDetection) int {
	counted := 0
	for _, det := range dets {
		if c.Count(det.ClassID, det.TrackID) {
			counted++
			logrus.Debugf("Counted %s (track %s), total now %d",
				c.counted[det.TrackID], utils.ShortID(det.TrackID), c.Total())
		}
	}
	return counted
}

// ClassName returns the label for a class ID in this counter's category set
func (c *Counter) ClassName(classID int) (string, bool) {
	label, ok := c.classes[classID]
	return label, ok
}

// Counts returns a copy of the per-category totals
func (c *Counter) Counts() map[string]int {
	counts := make(map[string]int, len(c.counts))
	for label, n := range c.counts {
		counts[label] = n
	}
	return counts
}

// Total returns the number of vehicles counted so far
func (c *Counter) Total() int {
	total := 0
	for _, n := range c.counts {
		total += n
	}
	return total
}

// Labels returns the category labels in sorted order
func (c *Counter) Labels() []string {
	labels := make([]string, 0, len(c.counts))
	for label := range c.counts {
		labels = append(labels, label)
	}
	sort.Strings(labels)
	return labels
}

// WriteSummary writes the final count report
func (c *Counter) WriteSummary(w io.Writer) error {
	if _, err := fmt.Fprintln(w, "Vehicle counts:"); err != nil {
		return err
	}
	for _, label := range c.Labels() {
		if _, err := fmt.Fprintf(w, "  %-12s %d\n", utils.Title(label), c.counts[label]); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintf(w, "  %-12s %d\n", "Total", c.Total())
	return err
}
