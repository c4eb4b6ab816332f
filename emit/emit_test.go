package emit

import (
	"bytes"
	"strings"
	"testing"

	"github.com/milk9111/levelc/levels"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testBuild() *levels.Build {
	main := levels.NewSection()
	main.World, main.Stage, main.Number = 1, 1, 0
	main.ID = "id-main"
	main.Scene = "/project/Scenes/Levels/1-1.tscn"
	main.Width = 3
	main.Theme = levels.ThemeGhostHouse
	main.StartX, main.StartY = 16, 208
	main.Background = levels.Background{Primary: 2, Secondary: 3, Clouds: true, Particles: 5}
	main.Tiles[14][0] = levels.TileGround
	main.AtlasX[14][0], main.AtlasY[14][0] = 0, 0
	main.Pipes = []levels.PipeLink{{SrcX: 2, SrcY: 10, TargetLevel: 0, TargetSection: 1, TargetX: 160, TargetY: 32, EnterDir: 2}}
	main.Enemies = []levels.EnemySpawn{
		{Kind: levels.EnemyGoomba, X: 16, Y: 32, Dir: -1},
		{Kind: levels.EnemyEntityGenerator, Dir: -1, Generator: &levels.GeneratorParams{Spawn: levels.EnemyCheepLeap, Period: 90}},
	}

	sub := levels.NewSection()
	sub.World, sub.Stage, sub.Number = 1, 1, 1
	sub.ID = "id-sub"
	sub.Width = 2

	return &levels.Build{Levels: []*levels.Level{{World: 1, Stage: 1, Sections: []*levels.Section{main, sub}}}}
}

func TestJSONRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	project := func(p string) string { return strings.Replace(p, "/project/", "res://", 1) }
	require.NoError(t, WriteJSON(&buf, testBuild(), project))

	b, err := ReadJSON(&buf)
	require.NoError(t, err)
	assert.Equal(t, 16, b.TileSize)
	require.Len(t, b.Levels, 1)
	lvl := b.Levels[0]
	assert.Equal(t, "1-1", lvl.Name)
	require.Len(t, lvl.Sections, 2)

	s := lvl.Sections[0]
	assert.Equal(t, "res://Scenes/Levels/1-1.tscn", s.Scene)
	assert.Equal(t, levels.ThemeGhostHouse, s.Theme)
	assert.Equal(t, 5, s.Background.Particles)
	require.Len(t, s.Tiles, 15)
	assert.Equal(t, []int{1, 0, 0}, s.Tiles[14])
	assert.Equal(t, []int{0, 255, 255}, s.AtlasX[14])
	assert.Equal(t, testBuild().Levels[0].Sections[0].Pipes, s.Pipes)
	require.Len(t, s.Enemies, 2)
	require.NotNil(t, s.Enemies[1].Generator)
	assert.Equal(t, levels.EnemyCheepLeap, s.Enemies[1].Generator.Spawn)

	empty := lvl.Sections[1]
	assert.NotNil(t, empty.Pipes)
	assert.Empty(t, empty.Pipes)
}

func TestReadJSONInvalid(t *testing.T) {
	_, err := ReadJSON(strings.NewReader("{"))
	assert.Error(t, err)
}

func TestWriteCpp(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteCpp(&buf, testBuild()))
	out := buf.String()

	for _, want := range []string{
		`#include "levels.h"`,
		"static const uint8_t map_1_1_0[MAP_H][MAP_W] = {",
		"static const uint8_t atlast_1_1_1[MAP_H][MAP_W] = {",
		"static const uint8_t qmeta_1_1_0[MAP_H][MAP_W] = {",
		"static const PipeLink pipes_1_1_0[] = {\n  {2, 10, 0, 1, 160, 32, 2},\n};",
		"{E_GOOMBA, 16.0f, 32.0f, -1, 0, 0},",
		"{E_ENTITY_GENERATOR, 0.0f, 0.0f, -1, E_CHEEP_LEAP, 90},",
		"THEME_GHOSTHOUSE",
		"2, 3, true, 5, pipes_1_1_0, 1, enemies_1_1_0, 2},",
		"0, 0, false, 0, nullptr, 0, nullptr, 0},",
		"extern const int g_levelCount = 1;",
		`{"1-1", 1, 1, sections_1_1, 2},`,
	} {
		assert.Contains(t, out, want)
	}
	assert.NotContains(t, out, "pipes_1_1_1")

	rows := strings.Count(out, "\n  {0,") + strings.Count(out, "\n  {1,") + strings.Count(out, "\n  {255,")
	assert.Equal(t, 12*15, rows, "six grids of fifteen rows per section")
}

func TestEnemyParams(t *testing.T) {
	cases := []struct {
		spawn  levels.EnemySpawn
		p0, p1 string
	}{
		{levels.EnemySpawn{Platform: &levels.PlatformParams{Width: 3}}, "3", "0"},
		{levels.EnemySpawn{Elevator: &levels.ElevatorParams{Top: 64, Bottom: 192}}, "64", "192"},
		{levels.EnemySpawn{Elevator: &levels.ElevatorParams{Loop: true}}, "-1", "-1"},
		{levels.EnemySpawn{Rope: &levels.RopeParams{Pair: 2, Top: 80}}, "2", "80"},
		{levels.EnemySpawn{}, "0", "0"},
	}
	for _, c := range cases {
		p0, p1 := enemyParams(c.spawn)
		assert.Equal(t, c.p0, p0)
		assert.Equal(t, c.p1, p1)
	}
}
