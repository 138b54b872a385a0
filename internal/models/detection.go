package models

// RawDetection is a single candidate produced by a detection provider before
// any validation. Coordinates are image pixels; nothing is guaranteed about
// their ordering or bounds.
type RawDetection struct {
	X1         float64
	Y1         float64
	X2         float64
	Y2         float64
	Confidence float64
	ClassID    int
}

// Detection represents one recognized inflorescence in an image. Instances
// are created by the normalizer, satisfy X1<X2 and Y1<Y2, and are immutable
// afterwards. Display name and color are never stored here; they are always
// resolved from the ClassTable by ClassID.
type Detection struct {
	X1         int     `json:"x1"`
	Y1         int     `json:"y1"`
	X2         int     `json:"x2"`
	Y2         int     `json:"y2"`
	Confidence float64 `json:"confidence"`
	ClassID    int     `json:"class_id"`
}

// Width returns the horizontal extent of the bounding box in pixels.
func (d Detection) Width() int {
	return d.X2 - d.X1
}

// Height returns the vertical extent of the bounding box in pixels.
func (d Detection) Height() int {
	return d.Y2 - d.Y1
}
