package common

import "math"

const (
	// TileSize is the edge length of one grid cell in pixels.
	TileSize = 16
	// MapW and MapH are the fixed grid dimensions shared by every section.
	MapW = 512
	MapH = 15
)

func Clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// ToTile converts a pixel coordinate to the nearest tile index. Halves round
// to even.
func ToTile(px float64) int {
	return int(math.RoundToEven(px / TileSize))
}

func InGrid(x, y int) bool {
	return x >= 0 && y >= 0 && x < MapW && y < MapH
}
