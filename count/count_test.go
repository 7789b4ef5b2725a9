package count

import (
	"bytes"
	"image"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vehiclecounter/types"
)

func TestCountOncePerTrack(t *testing.T) {
	c := New()
	id := uuid.New()

	assert.True(t, c.Count(2, id))
	for i := 0; i < 5; i++ {
		assert.False(t, c.Count(2, id))
	}

	assert.Equal(t, 1, c.Counts()["car"])
	assert.Equal(t, 1, c.Total())
}

func TestCountIgnoresUnknownClasses(t *testing.T) {
	c := New()

	// COCO person and traffic light are not vehicles
	assert.False(t, c.Count(0, uuid.New()))
	assert.False(t, c.Count(9, uuid.New()))
	assert.Equal(t, 0, c.Total())
}

func TestCountFirstCategoryWins(t *testing.T) {
	c := New()
	id := uuid.New()

	assert.True(t, c.Count(2, id))
	// Detector flicker: same track re-labelled as truck must not recount
	assert.False(t, c.Count(7, id))

	counts := c.Counts()
	assert.Equal(t, 1, counts["car"])
	assert.Equal(t, 0, counts["truck"])
	assert.Equal(t, 1, c.Total())
}

func TestCountsAreMonotonic(t *testing.T) {
	c := New()

	prevTotal := 0
	prev := c.Counts()
	for i := 0; i < 50; i++ {
		classID := []int{0, 2, 3, 5, 7}[i%5]
		if i%3 == 0 {
			// Re-report an already used track ID sometimes
			c.Count(classID, uuid.Nil)
		} else {
			c.Count(classID, uuid.New())
		}

		counts := c.Counts()
		for label, n := range counts {
			assert.GreaterOrEqual(t, n, prev[label])
			assert.GreaterOrEqual(t, n, 0)
		}
		assert.GreaterOrEqual(t, c.Total(), prevTotal)
		prev = counts
		prevTotal = c.Total()
	}
}

func TestObserve(t *testing.T) {
	c := New()

	carID := uuid.New()
	busID := uuid.New()
	frame := []types.TrackedDetection{
		{Detection: types.Detection{ClassID: 2, Score: 0.9, Box: image.Rect(0, 0, 10, 10)}, TrackID: carID},
		{Detection: types.Detection{ClassID: 5, Score: 0.8, Box: image.Rect(20, 0, 40, 10)}, TrackID: busID},
	}

	assert.Equal(t, 2, c.Observe(frame))
	// Same vehicles on the next frame
	assert.Equal(t, 0, c.Observe(frame))

	counts := c.Counts()
	assert.Equal(t, 1, counts["car"])
	assert.Equal(t, 1, counts["bus"])
	assert.Equal(t, 2, c.Total())
}

func TestWriteSummary(t *testing.T) {
	c := New()
	require.True(t, c.Count(2, uuid.New()))
	require.True(t, c.Count(2, uuid.New()))
	require.True(t, c.Count(7, uuid.New()))

	var buf bytes.Buffer
	require.NoError(t, c.WriteSummary(&buf))

	want := "Vehicle counts:\n" +
		"  Bus          0\n" +
		"  Car          2\n" +
		"  Motorcycle   0\n" +
		"  Truck        1\n" +
		"  Total        3\n"
	assert.Equal(t, want, buf.String())
}

func TestCustomClasses(t *testing.T) {
	c := NewWithClasses(map[int]string{1: "bicycle"})

	assert.True(t, c.Count(1, uuid.New()))
	assert.False(t, c.Count(2, uuid.New()))
	assert.Equal(t, map[string]int{"bicycle": 1}, c.Counts())
}

func TestClassName(t *testing.T) {
	c := NewWithClasses(map[int]string{0: "person", 2: "car"})

	name, ok := c.ClassName(2)
	assert.True(t, ok)
	assert.Equal(t, "car", name)

	_, ok = c.ClassName(7)
	assert.False(t, ok)
}
