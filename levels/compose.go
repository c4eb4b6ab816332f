package levels

import (
	"fmt"
	"math"

	"github.com/milk9111/levelc/common"
	"github.com/milk9111/levelc/scene"
	"github.com/milk9111/levelc/tilemap"
	"github.com/milk9111/levelc/tileset"
)

// layout places a scene's tile layers on the section grid.
type layout struct {
	xOffset, yOffset int
	width            int
	// bottomRow is the source row of the authored ground that thinning
	// drops. Only set when the ground was anchored on terrain.
	bottomRow int
	thin      bool
	groundRow int
}

func (l layout) tile(p scene.Vec2) (int, int) {
	return common.ToTile(p.X) + l.xOffset, common.ToTile(p.Y) + l.yOffset
}

// dominantRow returns the lowest row whose terrain count reaches
// max(minCount, peak/divisor).
func dominantRow(rows map[int]int, minCount, divisor int) (int, bool) {
	peak := 0
	for _, n := range rows {
		peak = max(peak, n)
	}
	if divisor <= 0 {
		divisor = 1
	}
	threshold := max(minCount, peak/divisor)

	best, ok := math.MinInt, false
	for y, n := range rows {
		if n >= threshold && y > best {
			best, ok = y, true
		}
	}
	return best, ok
}

func (c *Compiler) measure(layers ...[]tilemap.Cell) layout {
	minX, maxX, maxY := math.MaxInt, math.MinInt, math.MinInt
	rows := map[int]int{}
	for _, cells := range layers {
		for _, cell := range cells {
			minX = min(minX, cell.X)
			maxX = max(maxX, cell.X)
			maxY = max(maxY, cell.Y)
			if c.tiles.Kind(cell.Source) == tileset.KindTerrain {
				rows[cell.Y]++
			}
		}
	}

	lay := layout{
		xOffset: -minX,
		width:   common.Clamp(maxX-minX+1, 0, common.MapW),
	}
	h := c.rules.Heuristics
	if bottom, ok := dominantRow(rows, h.MinRowCount, h.DensityDivisor); ok {
		// three authored ground rows become two: the lowest is dropped and
		// the one above it lands on the last grid row
		lay.bottomRow = bottom
		lay.thin = true
		lay.yOffset = common.MapH - bottom
		lay.groundRow = bottom - 1 + lay.yOffset
	} else {
		lay.yOffset = common.MapH - 1 - maxY
		lay.groundRow = maxY + lay.yOffset
	}
	return lay
}

// tileLayers decodes the main and decoration layers of a scene.
func (c *Compiler) tileLayers(sc *scene.Scene) (main, deco []tilemap.Cell, err error) {
	names := c.rules.Layers
	var mainNode *scene.Node
	for i := range sc.Nodes {
		n := &sc.Nodes[i]
		if !n.TileData.Set || n.Under(names.ChallengeBranch) {
			continue
		}
		switch {
		case n.Name == names.Decoration:
			cells, derr := tilemap.Decode(n.TileData.V)
			if derr != nil {
				c.log.Warn("decoration layer unreadable", "scene", sc.File, "reason", derr)
				continue
			}
			deco = append(deco, cells...)
		case n.Name == names.Tiles:
			mainNode = n
		case mainNode == nil:
			mainNode = n
		}
	}
	if mainNode == nil {
		return nil, nil, ErrNoTiles
	}
	main, err = tilemap.Decode(mainNode.TileData.V)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %v", ErrNoTiles, err)
	}
	if len(main) == 0 {
		return nil, nil, ErrNoTiles
	}
	return main, deco, nil
}

// paint composites one decoded layer. Decoration only writes cells still at
// their default.
func (c *Compiler) paint(s *Section, lay layout, cells []tilemap.Cell, decoration bool) {
	for _, cell := range cells {
		kind := c.tiles.Kind(cell.Source)
		if lay.thin && kind == tileset.KindTerrain && cell.Y == lay.bottomRow {
			continue
		}
		x, y := cell.X+lay.xOffset, cell.Y+lay.yOffset
		if !common.InGrid(x, y) {
			continue
		}
		if decoration && !s.isDefault(x, y) {
			continue
		}

		if c.tiles.IsSceneSource(cell.Source) {
			c.paintSceneTile(s, x, y, cell)
			continue
		}
		if kind == tileset.KindNone {
			continue
		}

		code := TileAtlas
		if kind == tileset.KindTerrain {
			code = TileGround
			if cell.AtlasX == c.rules.PipeAtlasColumn {
				code = TilePipe
			}
		}
		s.Tiles[y][x] = code
		s.AtlasKind[y][x] = kind
		s.AtlasX[y][x] = uint8(cell.AtlasX)
		s.AtlasY[y][x] = uint8(cell.AtlasY)
		s.Collision[y][x] = c.tiles.Collision(cell.Source, cell.AtlasX, cell.AtlasY)
	}
}

func (c *Compiler) paintSceneTile(s *Section, x, y int, cell tilemap.Cell) {
	id := cell.Alt
	if id <= 0 {
		id = cell.AtlasX + 1
	}
	path, _ := c.tiles.Scene(id)
	code, meta := c.rules.sceneTile(path)
	if code == TileEmpty {
		s.stamp(x, y, TileEmpty, tileset.CollideNone)
		return
	}
	s.stamp(x, y, code, tileset.CollideSolid)
	if code == TileQuestion {
		s.QMeta[y][x] = meta
	}
}

// overlay applies node-driven stamps after the layers: standalone blocks,
// pipe collision columns, the end castle, the flag pole and the spawn.
func (c *Compiler) overlay(s *Section, sc *scene.Scene, lay layout) {
	m := c.rules.Markers
	var spawn, castle *Point
	for i := range sc.Nodes {
		n := &sc.Nodes[i]
		if !n.Instance.Set || !n.Position.Set || n.Under(c.rules.Layers.ChallengeBranch) {
			continue
		}
		res := n.Instance.V
		tx, ty := lay.tile(n.Position.V)

		switch {
		case containsAny(res, m.Player):
			spawn = &Point{tx, ty}
		case containsAny(res, m.Flagpole):
			s.FlagX, s.HasFlag = tx, true
		case containsAny(res, m.Castle):
			castle = &Point{tx, ty}
		case containsAny(res, m.Question):
			s.stamp(tx, ty, TileQuestion, tileset.CollideSolid)
			if common.InGrid(tx, ty) {
				s.QMeta[ty][tx] = c.rules.questionMeta(res)
			}
		case containsAny(res, m.Brick):
			s.stamp(tx, ty, TileBrick, tileset.CollideSolid)
		case c.rules.isPipe(res):
			c.pipeColumn(s, tx, ty)
		}
	}

	if castle != nil {
		for y := castle.Y - 2; y <= castle.Y+2; y++ {
			for x := castle.X - 2; x <= castle.X+2; x++ {
				s.stamp(x, y, TileCastle, tileset.CollideSolid)
			}
		}
	}

	if spawn == nil {
		spawn = &Point{c.rules.Heuristics.FallbackSpawnX, lay.groundRow - 1}
	}
	s.StartX = common.Clamp(spawn.X, 0, common.MapW-1) * common.TileSize
	s.StartY = common.Clamp(spawn.Y, 0, common.MapH-1) * common.TileSize
}

// pipeColumn gives a two-wide pipe collision from its mouth down to the
// ground row, leaving authored pipe tiles alone.
func (c *Compiler) pipeColumn(s *Section, tx, ty int) {
	ground := min(s.groundRow, common.MapH-1)
	for y := ty; y <= ground; y++ {
		for x := tx; x <= tx+1; x++ {
			if common.InGrid(x, y) && s.isDefault(x, y) {
				s.Collision[y][x] = tileset.CollideSolid
			}
		}
	}
}

func background(sc *scene.Scene) Background {
	var primary, secondary, particles scene.Opt[int]
	var clouds scene.Opt[bool]
	for i := range sc.Nodes {
		n := &sc.Nodes[i]
		if !primary.Set {
			primary = n.PrimaryLayer
		}
		if !secondary.Set {
			secondary = n.SecondaryLayer
		}
		if !clouds.Set {
			clouds = n.Clouds
		}
		if !particles.Set {
			particles = n.Particles
		}
	}
	return Background{
		Primary:   primary.Or(0),
		Secondary: secondary.Or(0),
		Clouds:    clouds.Or(false),
		Particles: particles.Or(0),
	}
}

// compose builds a section from a flattened scene.
func (c *Compiler) compose(sc *scene.Scene) (*Section, error) {
	main, deco, err := c.tileLayers(sc)
	if err != nil {
		return nil, err
	}

	lay := c.measure(main, deco)
	s := NewSection()
	s.Scene = sc.File
	s.Width = lay.width
	s.groundRow = lay.groundRow
	s.Theme = c.rules.theme(sc.Music())
	s.Background = background(sc)

	c.paint(s, lay, main, false)
	c.paint(s, lay, deco, true)
	c.overlay(s, sc, lay)
	c.extract(s, sc, lay)
	return s, nil
}
