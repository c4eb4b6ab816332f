package levels

import (
	"github.com/milk9111/levelc/common"
	"github.com/milk9111/levelc/tileset"
)

// mergeColliders covers every solid cell of the grid with as few rectangles
// as a greedy row-then-column sweep finds.
func mergeColliders(grid *Grid[tileset.Collision], width int) []common.Rect {
	width = common.Clamp(width, 0, common.MapW)
	if width == 0 {
		return nil
	}
	height := common.MapH
	solid := func(x, y int) bool { return grid[y][x] == tileset.CollideSolid }
	visited := make([]bool, width*height)
	index := func(x, y int) int { return y*width + x }

	var out []common.Rect
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			if visited[index(x, y)] || !solid(x, y) {
				continue
			}

			maxW := 0
			for x2 := x; x2 < width; x2++ {
				if visited[index(x2, y)] || !solid(x2, y) {
					break
				}
				maxW++
			}

			maxH := 1
			for y2 := y + 1; y2 < height; y2++ {
				rowOK := true
				for x2 := x; x2 < x+maxW; x2++ {
					if visited[index(x2, y2)] || !solid(x2, y2) {
						rowOK = false
						break
					}
				}
				if !rowOK {
					break
				}
				maxH++
			}

			for yy := y; yy < y+maxH; yy++ {
				for xx := x; xx < x+maxW; xx++ {
					visited[index(xx, yy)] = true
				}
			}
			out = append(out, common.Rect{X: x, Y: y, Width: maxW, Height: maxH})
		}
	}
	return out
}
