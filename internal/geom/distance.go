package geom

import "seehuhn.de/go/geom/vec"

func toVec(p XYCoords) vec.Vec2 { return vec.Vec2{X: p.X, Y: p.Y} }

// DistanceToSegment returns the distance from p to the segment a-b. The
// projection of p onto the segment's line is clamped to the segment.
func DistanceToSegment(p, a, b XYCoords) float64 {
	pa := toVec(p).Sub(toVec(a))
	ab := toVec(b).Sub(toVec(a))

	lenSq := ab.Dot(ab)
	if lenSq == 0 {
		return pa.Length()
	}

	t := pa.Dot(ab) / lenSq
	t = max(0, min(1, t))

	closest := toVec(a).Add(ab.Mul(t))
	return toVec(p).Sub(closest).Length()
}

// DistanceToPolyline returns the minimum distance from p to any segment of
// the open polyline pts. A single point degenerates to point distance.
func DistanceToPolyline(p XYCoords, pts []XYCoords) float64 {
	switch len(pts) {
	case 0:
		return 0
	case 1:
		return toVec(p).Sub(toVec(pts[0])).Length()
	}

	best := DistanceToSegment(p, pts[0], pts[1])
	for i := 2; i < len(pts); i++ {
		best = min(best, DistanceToSegment(p, pts[i-1], pts[i]))
	}
	return best
}

// Distance returns the euclidean distance between two points.
func Distance(a, b XYCoords) float64 {
	return toVec(a).Sub(toVec(b)).Length()
}

// PointInPolygon implements the even-odd ray casting rule. The polygon is
// implicitly closed.
func PointInPolygon(p XYCoords, poly []XYCoords) bool {
	inside := false
	for i, j := 0, len(poly)-1; i < len(poly); j, i = i, i+1 {
		a, b := poly[i], poly[j]
		if (a.Y > p.Y) != (b.Y > p.Y) {
			xCross := (b.X-a.X)*(p.Y-a.Y)/(b.Y-a.Y) + a.X
			if p.X < xCross {
				inside = !inside
			}
		}
	}
	return inside
}
