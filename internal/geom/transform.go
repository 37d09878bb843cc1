package geom

import "math"

// RotatePoint rotates (x, y) about (cx, cy) by angle radians.
func RotatePoint(x, y, cx, cy, angle float64) (float64, float64) {
	if angle == 0 {
		return x, y
	}
	sin, cos := math.Sincos(angle)
	dx, dy := x-cx, y-cy
	return cx + dx*cos - dy*sin, cy + dx*sin + dy*cos
}

// NormalizeBox turns a box with negative extents into its positive-size
// equivalent and reports which axes were flipped.
func NormalizeBox(b BoundingBox) (box BoundingBox, flippedX, flippedY bool) {
	box = b
	if box.W < 0 {
		box.X += box.W
		box.W = -box.W
		flippedX = true
	}
	if box.H < 0 {
		box.Y += box.H
		box.H = -box.H
		flippedY = true
	}
	return box, flippedX, flippedY
}

// RotatedBoxVertices returns the corners of b in nw, ne, se, sw order.
func RotatedBoxVertices(b RotatedBoundingBox) [4]XYCoords {
	c := b.Center()
	corners := [4]XYCoords{
		{X: b.X, Y: b.Y},
		{X: b.X + b.W, Y: b.Y},
		{X: b.X + b.W, Y: b.Y + b.H},
		{X: b.X, Y: b.Y + b.H},
	}
	for i, p := range corners {
		corners[i].X, corners[i].Y = RotatePoint(p.X, p.Y, c.X, c.Y, b.Rotate)
	}
	return corners
}

// SurroundingBoundingBox returns the minimal axis-aligned box enclosing all
// boxes. A single box is returned unchanged, rotation included.
func SurroundingBoundingBox(boxes []RotatedBoundingBox) RotatedBoundingBox {
	switch len(boxes) {
	case 0:
		return RotatedBoundingBox{}
	case 1:
		return boxes[0]
	}

	minX, minY := math.Inf(1), math.Inf(1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)
	for _, b := range boxes {
		for _, v := range RotatedBoxVertices(b) {
			minX = math.Min(minX, v.X)
			minY = math.Min(minY, v.Y)
			maxX = math.Max(maxX, v.X)
			maxY = math.Max(maxY, v.Y)
		}
	}

	return RotatedBoundingBox{
		BoundingBox: BoundingBox{X: minX, Y: minY, W: maxX - minX, H: maxY - minY},
	}
}

// SnapToGrid rounds v to the nearest multiple of size. A non-positive size
// disables snapping.
func SnapToGrid(v, size float64) float64 {
	if size <= 0 {
		return v
	}
	return math.Round(v/size) * size
}

// SnapPointToGrid snaps both axes of p.
func SnapPointToGrid(p XYCoords, size float64) XYCoords {
	return XYCoords{X: SnapToGrid(p.X, size), Y: SnapToGrid(p.Y, size)}
}

// ResizeAspectRatio adjusts a (possibly negative) drag size so that it keeps
// the ratio of origW:origH. The axis with the larger relative change wins and
// the other one is recomputed, keeping its sign.
func ResizeAspectRatio(w, h, origW, origH float64) (float64, float64) {
	if origW <= 0 || origH <= 0 {
		return w, h
	}
	ratio := origW / origH
	if math.Abs(w)/origW >= math.Abs(h)/origH {
		return w, sign(h) * math.Abs(w) / ratio
	}
	return sign(w) * math.Abs(h) * ratio, h
}

func sign(v float64) float64 {
	if v < 0 {
		return -1
	}
	return 1
}
