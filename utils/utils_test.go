package utils

import (
	"image"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestIoU(t *testing.T) {
	tests := []struct {
		name string
		a    image.Rectangle
		b    image.Rectangle
		want float64
	}{
		{"identical", image.Rect(0, 0, 10, 10), image.Rect(0, 0, 10, 10), 1.0},
		{"disjoint", image.Rect(0, 0, 10, 10), image.Rect(20, 20, 30, 30), 0.0},
		{"touching edges", image.Rect(0, 0, 10, 10), image.Rect(10, 0, 20, 10), 0.0},
		{"half overlap", image.Rect(0, 0, 10, 10), image.Rect(5, 0, 15, 10), 50.0 / 150.0},
		{"contained", image.Rect(0, 0, 10, 10), image.Rect(2, 2, 8, 8), 36.0 / 100.0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, IoU(tt.a, tt.b), 1e-9)
			assert.InDelta(t, tt.want, IoU(tt.b, tt.a), 1e-9)
		})
	}
}

func TestClampRect(t *testing.T) {
	assert.Equal(t, image.Rect(0, 0, 50, 50), ClampRect(image.Rect(-10, -10, 50, 50), 100, 100))
	assert.Equal(t, image.Rect(50, 50, 100, 100), ClampRect(image.Rect(50, 50, 150, 150), 100, 100))
	assert.Equal(t, image.Rect(10, 10, 20, 20), ClampRect(image.Rect(10, 10, 20, 20), 100, 100))

	// Fully outside collapses to an empty rectangle on the boundary
	out := ClampRect(image.Rect(200, 200, 300, 300), 100, 100)
	assert.True(t, out.Empty())
}

func TestShortID(t *testing.T) {
	id := uuid.MustParse("12345678-1234-5678-1234-567812345678")
	assert.Equal(t, "12345678", ShortID(id))
}

func TestTitle(t *testing.T) {
	assert.Equal(t, "Car", Title("car"))
	assert.Equal(t, "Bus", Title("bus"))
	assert.Equal(t, "Truck", Title("Truck"))
	assert.Equal(t, "", Title(""))
}
