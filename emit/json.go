package emit

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/milk9111/levelc/common"
	"github.com/milk9111/levelc/levels"
)

// Bundle is the JSON form of a build. Grid rows are trimmed to the section
// width.
type Bundle struct {
	TileSize int           `json:"tile_size"`
	MapW     int           `json:"map_w"`
	MapH     int           `json:"map_h"`
	Levels   []LevelBundle `json:"levels"`
}

type LevelBundle struct {
	Name     string          `json:"name"`
	World    int             `json:"world"`
	Stage    int             `json:"stage"`
	Sections []SectionBundle `json:"sections"`
}

type SectionBundle struct {
	ID         string            `json:"id"`
	Scene      string            `json:"scene"`
	Number     int               `json:"number"`
	Special    bool              `json:"special,omitempty"`
	Width      int               `json:"width"`
	Theme      levels.Theme      `json:"theme"`
	FlagX      int               `json:"flag_x"`
	HasFlag    bool              `json:"has_flag"`
	StartX     int               `json:"start_x"`
	StartY     int               `json:"start_y"`
	Background levels.Background `json:"background"`

	Tiles     [][]int `json:"tiles"`
	AtlasKind [][]int `json:"atlas_kind"`
	AtlasX    [][]int `json:"atlas_x"`
	AtlasY    [][]int `json:"atlas_y"`
	Collision [][]int `json:"collision"`
	QMeta     [][]int `json:"qmeta"`

	Colliders []common.Rect       `json:"colliders"`
	Pipes     []levels.PipeLink   `json:"pipes"`
	Enemies   []levels.EnemySpawn `json:"enemies"`
}

func rows[T ~uint8](g *levels.Grid[T], width int) [][]int {
	out := make([][]int, len(g))
	for y := range g {
		row := make([]int, width)
		for x := 0; x < width; x++ {
			row[x] = int(g[y][x])
		}
		out[y] = row
	}
	return out
}

// NewBundle flattens a build into its JSON form.
func NewBundle(b *levels.Build, project func(string) string) *Bundle {
	out := &Bundle{TileSize: common.TileSize, MapW: common.MapW, MapH: common.MapH}
	for _, l := range b.Levels {
		lb := LevelBundle{Name: l.Name(), World: l.World, Stage: l.Stage}
		for _, s := range l.Sections {
			scene := s.Scene
			if project != nil {
				scene = project(scene)
			}
			w := common.Clamp(s.Width, 0, common.MapW)
			lb.Sections = append(lb.Sections, SectionBundle{
				ID:         s.ID,
				Scene:      scene,
				Number:     s.Number,
				Special:    s.Special,
				Width:      w,
				Theme:      s.Theme,
				FlagX:      s.FlagX,
				HasFlag:    s.HasFlag,
				StartX:     s.StartX,
				StartY:     s.StartY,
				Background: s.Background,
				Tiles:      rows(&s.Tiles, w),
				AtlasKind:  rows(&s.AtlasKind, w),
				AtlasX:     rows(&s.AtlasX, w),
				AtlasY:     rows(&s.AtlasY, w),
				Collision:  rows(&s.Collision, w),
				QMeta:      rows(&s.QMeta, w),
				Colliders:  nonNil(s.Colliders),
				Pipes:      nonNil(s.Pipes),
				Enemies:    nonNil(s.Enemies),
			})
		}
		out.Levels = append(out.Levels, lb)
	}
	return out
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}

// WriteJSON writes the build as an indented JSON bundle.
func WriteJSON(w io.Writer, b *levels.Build, project func(string) string) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(NewBundle(b, project)); err != nil {
		return fmt.Errorf("emit: encode json: %w", err)
	}
	return nil
}

func ReadJSON(r io.Reader) (*Bundle, error) {
	var b Bundle
	if err := json.NewDecoder(r).Decode(&b); err != nil {
		return nil, fmt.Errorf("emit: decode json: %w", err)
	}
	return &b, nil
}
