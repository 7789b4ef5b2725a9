package track

import (
	"image"

	"github.com/google/uuid"
)

// track is a single object followed across frames
type track struct {
	id        uuid.UUID
	classID   int
	score     float32
	box       image.Rectangle
	predicted image.Rectangle
	kf        *kalmanFilter
	lost      int
	hits      int
}

func newTrack(classID int, score float32, box image.Rectangle) *track {
	return &track{
		id:        uuid.New(),
		classID:   classID,
		score:     score,
		box:       box,
		predicted: box,
		kf:        newKalmanFilter(box),
		hits:      1,
	}
}

// predict advances the motion model by one frame
func (t *track) predict() {
	t.predicted = t.kf.predict()
}

// observe feeds a matched detection into the track
func (t *track) observe(classID int, score float32, box image.Rectangle) error {
	t.classID = classID
	t.score = score
	t.box = box
	t.lost = 0
	t.hits++
	return t.kf.update(box)
}

// miss records a frame without a matching detection
func (t *track) miss() {
	t.lost++
}
