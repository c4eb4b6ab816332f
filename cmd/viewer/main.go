package main

import (
	"flag"
	"fmt"
	"image/color"
	"log"
	"os"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/milk9111/levelc/common"
	"github.com/milk9111/levelc/emit"
	"github.com/milk9111/levelc/levels"
	"golang.org/x/image/colornames"
)

const (
	screenTilesW = 32
	scrollSpeed  = 4
)

var tileColors = map[levels.TileCode]color.RGBA{
	levels.TileGround:   colornames.Sienna,
	levels.TileBrick:    colornames.Firebrick,
	levels.TileQuestion: colornames.Gold,
	levels.TileUsed:     colornames.Peru,
	levels.TilePipe:     colornames.Forestgreen,
	levels.TileFlag:     colornames.White,
	levels.TileCastle:   colornames.Slategray,
	levels.TileCoin:     colornames.Yellow,
	levels.TileAtlas:    colornames.Darkkhaki,
}

type Viewer struct {
	bundle  *emit.Bundle
	level   int
	section int
	camX    float64
	cell    map[levels.TileCode]*ebiten.Image
	showCol bool
}

func NewViewer(b *emit.Bundle) *Viewer {
	v := &Viewer{bundle: b, cell: map[levels.TileCode]*ebiten.Image{}}
	for code, c := range tileColors {
		img := ebiten.NewImage(common.TileSize-1, common.TileSize-1)
		img.Fill(c)
		v.cell[code] = img
	}
	return v
}

func (v *Viewer) current() *emit.SectionBundle {
	if len(v.bundle.Levels) == 0 {
		return nil
	}
	l := &v.bundle.Levels[v.level]
	if len(l.Sections) == 0 {
		return nil
	}
	return &l.Sections[v.section]
}

func (v *Viewer) Update() error {
	switch {
	case inpututil.IsKeyJustPressed(ebiten.KeyPageDown):
		v.selectLevel(v.level + 1)
	case inpututil.IsKeyJustPressed(ebiten.KeyPageUp):
		v.selectLevel(v.level - 1)
	case inpututil.IsKeyJustPressed(ebiten.KeyN):
		v.selectSection(v.section + 1)
	case inpututil.IsKeyJustPressed(ebiten.KeyP):
		v.selectSection(v.section - 1)
	case inpututil.IsKeyJustPressed(ebiten.KeyC):
		v.showCol = !v.showCol
	}

	s := v.current()
	if s == nil {
		return nil
	}
	if ebiten.IsKeyPressed(ebiten.KeyRight) {
		v.camX += scrollSpeed
	}
	if ebiten.IsKeyPressed(ebiten.KeyLeft) {
		v.camX -= scrollSpeed
	}
	maxX := float64(max(s.Width-screenTilesW, 0) * common.TileSize)
	v.camX = max(0, min(v.camX, maxX))
	return nil
}

func (v *Viewer) selectLevel(i int) {
	n := len(v.bundle.Levels)
	if n == 0 {
		return
	}
	v.level = (i%n + n) % n
	v.section = 0
	v.camX = 0
}

func (v *Viewer) selectSection(i int) {
	if len(v.bundle.Levels) == 0 {
		return
	}
	n := len(v.bundle.Levels[v.level].Sections)
	if n == 0 {
		return
	}
	v.section = (i%n + n) % n
	v.camX = 0
}

func (v *Viewer) Draw(screen *ebiten.Image) {
	screen.Fill(colornames.Cornflowerblue)
	s := v.current()
	if s == nil {
		ebitenutil.DebugPrint(screen, "no levels in bundle")
		return
	}

	for y, row := range s.Tiles {
		for x, code := range row {
			img, ok := v.cell[levels.TileCode(code)]
			if !ok {
				if v.showCol && s.Collision[y][x] != 0 {
					v.outline(screen, float64(x*common.TileSize), float64(y*common.TileSize), common.TileSize, common.TileSize, colornames.Lightgrey)
				}
				continue
			}
			op := &ebiten.DrawImageOptions{}
			op.GeoM.Translate(float64(x*common.TileSize)-v.camX, float64(y*common.TileSize))
			screen.DrawImage(img, op)
		}
	}

	if v.showCol {
		for _, r := range s.Colliders {
			x, y, w, h := r.Pixels()
			v.outline(screen, x, y, w, h, colornames.Red)
		}
	}
	for _, p := range s.Pipes {
		v.outline(screen, float64(p.SrcX*common.TileSize), float64(p.SrcY*common.TileSize), 2*common.TileSize, common.TileSize, colornames.Magenta)
	}
	for _, e := range s.Enemies {
		v.outline(screen, e.X, e.Y, common.TileSize, common.TileSize, colornames.Orange)
	}
	v.outline(screen, float64(s.StartX), float64(s.StartY), common.TileSize, common.TileSize, colornames.Crimson)

	l := v.bundle.Levels[v.level]
	ebitenutil.DebugPrintAt(screen, fmt.Sprintf("%s section %d/%d  %s  width %d  pipes %d  enemies %d",
		l.Name, v.section, len(l.Sections)-1, s.Theme, s.Width, len(s.Pipes), len(s.Enemies)), 4, 4)
	ebitenutil.DebugPrintAt(screen, "PgUp/PgDn level  N/P section  arrows scroll  C colliders", 4, 18)
}

func (v *Viewer) outline(screen *ebiten.Image, x, y, w, h float64, c color.Color) {
	vector.StrokeRect(screen, float32(x-v.camX), float32(y), float32(w), float32(h), 1, c, false)
}

func (v *Viewer) Layout(outsideWidth, outsideHeight int) (int, int) {
	return screenTilesW * common.TileSize, common.MapH * common.TileSize
}

func main() {
	path := flag.String("bundle", "levels_generated.json", "JSON bundle written by levelc build")
	scale := flag.Int("scale", 2, "Window scale")
	flag.Parse()

	f, err := os.Open(*path)
	if err != nil {
		log.Fatal(err)
	}
	bundle, err := emit.ReadJSON(f)
	f.Close()
	if err != nil {
		log.Fatal(err)
	}

	w, h := screenTilesW*common.TileSize, common.MapH*common.TileSize
	ebiten.SetWindowSize(w*(*scale), h*(*scale))
	ebiten.SetWindowTitle("levelc viewer - " + *path)
	if err := ebiten.RunGame(NewViewer(bundle)); err != nil {
		log.Fatal(err)
	}
}
