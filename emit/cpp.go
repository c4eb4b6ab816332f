package emit

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/milk9111/levelc/common"
	"github.com/milk9111/levelc/levels"
)

var themeIdents = map[levels.Theme]string{
	levels.ThemeGhostHouse: "THEME_GHOSTHOUSE",
}

func themeIdent(t levels.Theme) string {
	if id, ok := themeIdents[t]; ok {
		return id
	}
	return "THEME_" + strings.ToUpper(string(t))
}

func enemyIdent(k levels.EnemyKind) string {
	if k == "" {
		return "E_NONE"
	}
	return "E_" + strings.ToUpper(string(k))
}

// enemyParams packs the variant payload into the two generic runtime slots.
func enemyParams(e levels.EnemySpawn) (string, string) {
	switch {
	case e.Platform != nil:
		return fmt.Sprint(e.Platform.Width), "0"
	case e.Elevator != nil:
		if e.Elevator.Loop {
			return "-1", "-1"
		}
		return fmt.Sprintf("%.0f", e.Elevator.Top), fmt.Sprintf("%.0f", e.Elevator.Bottom)
	case e.Rope != nil:
		return fmt.Sprint(e.Rope.Pair), fmt.Sprintf("%.0f", e.Rope.Top)
	case e.Generator != nil:
		return enemyIdent(e.Generator.Spawn), fmt.Sprint(e.Generator.Period)
	}
	return "0", "0"
}

func suffix(s *levels.Section) string {
	return fmt.Sprintf("%d_%d_%d", s.World, s.Stage, s.Number)
}

type cppWriter struct {
	w   *bufio.Writer
	err error
}

func (c *cppWriter) printf(format string, args ...any) {
	if c.err != nil {
		return
	}
	_, c.err = fmt.Fprintf(c.w, format, args...)
}

func writeGrid[T ~uint8](c *cppWriter, name string, g *levels.Grid[T]) {
	c.printf("static const uint8_t %s[MAP_H][MAP_W] = {\n", name)
	for y := range g {
		c.printf("  {")
		for x := range g[y] {
			if x > 0 {
				c.printf(",")
			}
			c.printf("%d", uint8(g[y][x]))
		}
		c.printf("},\n")
	}
	c.printf("};\n\n")
}

// WriteCpp writes the build as C++ static tables against levels.h.
func WriteCpp(w io.Writer, b *levels.Build) error {
	c := &cppWriter{w: bufio.NewWriter(w)}
	c.printf("#include \"levels.h\"\n\n")
	c.printf("static_assert(MAP_W == %d && MAP_H == %d, \"grid size mismatch\");\n\n", common.MapW, common.MapH)

	sections := b.Sections()
	for _, s := range sections {
		sfx := suffix(s)
		writeGrid(c, "map_"+sfx, &s.Tiles)
		writeGrid(c, "atlast_"+sfx, &s.AtlasKind)
		writeGrid(c, "atlasx_"+sfx, &s.AtlasX)
		writeGrid(c, "atlasy_"+sfx, &s.AtlasY)
		writeGrid(c, "collide_"+sfx, &s.Collision)
		writeGrid(c, "qmeta_"+sfx, &s.QMeta)
	}

	for _, s := range sections {
		sfx := suffix(s)
		if len(s.Pipes) > 0 {
			c.printf("static const PipeLink pipes_%s[] = {\n", sfx)
			for _, p := range s.Pipes {
				c.printf("  {%d, %d, %d, %d, %d, %d, %d},\n", p.SrcX, p.SrcY, p.TargetLevel, p.TargetSection, p.TargetX, p.TargetY, p.EnterDir)
			}
			c.printf("};\n\n")
		}
		if len(s.Enemies) > 0 {
			c.printf("static const EnemySpawn enemies_%s[] = {\n", sfx)
			for _, e := range s.Enemies {
				p0, p1 := enemyParams(e)
				c.printf("  {%s, %.1ff, %.1ff, %d, %s, %s},\n", enemyIdent(e.Kind), e.X, e.Y, e.Dir, p0, p1)
			}
			c.printf("};\n\n")
		}
	}

	for _, l := range b.Levels {
		c.printf("static const LevelSectionData sections_%d_%d[] = {\n", l.World, l.Stage)
		for _, s := range l.Sections {
			sfx := suffix(s)
			pipes, enemies := "nullptr", "nullptr"
			if len(s.Pipes) > 0 {
				pipes = "pipes_" + sfx
			}
			if len(s.Enemies) > 0 {
				enemies = "enemies_" + sfx
			}
			c.printf("  {map_%[1]s, atlast_%[1]s, atlasx_%[1]s, atlasy_%[1]s, collide_%[1]s, qmeta_%[1]s, ", sfx)
			c.printf("%d, %d, %s, %d, %t, %d, %d, ", s.Width, common.MapH, themeIdent(s.Theme), s.FlagX, s.HasFlag, s.StartX, s.StartY)
			bg := s.Background
			c.printf("%d, %d, %t, %d, ", bg.Primary, bg.Secondary, bg.Clouds, bg.Particles)
			c.printf("%s, %d, %s, %d},\n", pipes, len(s.Pipes), enemies, len(s.Enemies))
		}
		c.printf("};\n\n")
	}

	c.printf("extern const int g_levelCount = %d;\n", len(b.Levels))
	c.printf("extern const LevelData g_levels[] = {\n")
	for _, l := range b.Levels {
		c.printf("  {\"%s\", %d, %d, sections_%d_%d, %d},\n", l.Name(), l.World, l.Stage, l.World, l.Stage, len(l.Sections))
	}
	c.printf("};\n")

	if c.err != nil {
		return fmt.Errorf("emit: write cpp: %w", c.err)
	}
	if err := c.w.Flush(); err != nil {
		return fmt.Errorf("emit: write cpp: %w", err)
	}
	return nil
}
