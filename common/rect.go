package common

// Rect is an axis-aligned rectangle in tile units.
type Rect struct {
	X      int `json:"x"`
	Y      int `json:"y"`
	Width  int `json:"w"`
	Height int `json:"h"`
}

func (r Rect) Intersects(other Rect) bool {
	return r.X < other.X+other.Width &&
		r.X+r.Width > other.X &&
		r.Y < other.Y+other.Height &&
		r.Y+r.Height > other.Y
}

// Pixels returns the rectangle scaled to pixel units.
func (r Rect) Pixels() (x, y, w, h float64) {
	return float64(r.X * TileSize), float64(r.Y * TileSize), float64(r.Width * TileSize), float64(r.Height * TileSize)
}
