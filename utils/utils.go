package utils

import (
	"image"

	"github.com/google/uuid"
)

// IoU computes intersection over union of two rectangles
func IoU(a, b image.Rectangle) float64 {
	inter := a.Intersect(b)
	if inter.Empty() {
		return 0.0
	}
	interArea := float64(inter.Dx() * inter.Dy())
	unionArea := float64(a.Dx()*a.Dy()+b.Dx()*b.Dy()) - interArea
	if unionArea <= 0 {
		return 0.0
	}
	return interArea / unionArea
}

// ClampRect constrains a rectangle to the image bounds
func ClampRect(rect image.Rectangle, imgWidth, imgHeight int) image.Rectangle {
	if rect.Min.X < 0 {
		rect.Min.X = 0
	}
	if rect.Min.Y < 0 {
		rect.Min.Y = 0
	}
	if rect.Max.X > imgWidth {
		rect.Max.X = imgWidth
	}
	if rect.Max.Y > imgHeight {
		rect.Max.Y = imgHeight
	}
	if rect.Max.X < rect.Min.X {
		rect.Max.X = rect.Min.X
	}
	if rect.Max.Y < rect.Min.Y {
		rect.Max.Y = rect.Min.Y
	}
	return rect
}

// ShortID returns the leading segment of a track UUID, for overlay labels
func ShortID(id uuid.UUID) string {
	s := id.String()
	return s[:8]
}

// Title capitalizes the first letter of an ASCII label
func Title(label string) string {
	if label == "" {
		return label
	}
	b := []byte(label)
	if b[0] >= 'a' && b[0] <= 'z' {
		b[0] -= 'a' - 'A'
	}
	return string(b)
}
