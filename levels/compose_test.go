package levels

import (
	"testing"

	"github.com/milk9111/levelc/common"
	"github.com/milk9111/levelc/prefabs"
	"github.com/milk9111/levelc/tileset"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func defaultRuleSet(t *testing.T) *ruleSet {
	t.Helper()
	rules, err := prefabs.DefaultRules()
	require.NoError(t, err)
	rs, err := compileRules(rules)
	require.NoError(t, err)
	return rs
}

func TestDominantRow(t *testing.T) {
	cases := []struct {
		name string
		rows map[int]int
		want int
		ok   bool
	}{
		{"empty", map[int]int{}, 0, false},
		{"lowest dense row", map[int]int{12: 40, 13: 40, 14: 40}, 14, true},
		{"stray tiles below ignored", map[int]int{12: 40, 13: 40, 14: 40, 30: 2}, 14, true},
		{"sparse relative to peak", map[int]int{12: 160, 13: 160, 14: 19}, 13, true},
		{"below minimum count", map[int]int{5: 2, 6: 2}, 0, false},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			got, ok := dominantRow(c.rows, 3, 8)
			assert.Equal(t, c.ok, ok)
			if c.ok {
				assert.Equal(t, c.want, got)
			}
		})
	}
}

func TestPairRopes(t *testing.T) {
	rope := func(name, link string) ropeNode {
		return ropeNode{name: name, link: link, spawn: EnemySpawn{Kind: EnemyPlatformRope, Rope: &RopeParams{Pair: -1}}}
	}

	t.Run("link from either half", func(t *testing.T) {
		out := pairRopes([]ropeNode{rope("A", ""), rope("B", "A"), rope("C", "D"), rope("D", "")})
		pairs := make([]int, len(out))
		for i, sp := range out {
			pairs[i] = sp.Rope.Pair
		}
		assert.Equal(t, []int{0, 0, 1, 1}, pairs)
	})

	t.Run("unlinked ropes get their own pair", func(t *testing.T) {
		out := pairRopes([]ropeNode{rope("A", "missing"), rope("B", "")})
		assert.Equal(t, 0, out[0].Rope.Pair)
		assert.Equal(t, 1, out[1].Rope.Pair)
	})

	t.Run("inputs are not mutated", func(t *testing.T) {
		in := []ropeNode{rope("A", "")}
		pairRopes(in)
		assert.Equal(t, -1, in[0].spawn.Rope.Pair)
	})

	assert.Nil(t, pairRopes(nil))
}

func TestMergeColliders(t *testing.T) {
	var g Grid[tileset.Collision]
	for x := 0; x < 6; x++ {
		g[13][x] = tileset.CollideSolid
		g[14][x] = tileset.CollideSolid
	}
	g[10][2] = tileset.CollideSolid
	g[10][3] = tileset.CollideOneWay

	rects := mergeColliders(&g, 6)
	assert.Equal(t, []common.Rect{
		{X: 2, Y: 10, Width: 1, Height: 1},
		{X: 0, Y: 13, Width: 6, Height: 2},
	}, rects)
	assert.False(t, rects[0].Intersects(rects[1]))
	assert.True(t, rects[1].Intersects(common.Rect{X: 5, Y: 14, Width: 3, Height: 3}))

	assert.Nil(t, mergeColliders(&g, 0))
}

func TestSectionDefaults(t *testing.T) {
	s := NewSection()
	assert.True(t, s.isDefault(0, 0))
	assert.Equal(t, uint8(AtlasUnset), s.AtlasY[common.MapH-1][common.MapW-1])

	s.stamp(-1, 0, TileBrick, tileset.CollideSolid)
	s.stamp(2, 3, TileBrick, tileset.CollideSolid)
	assert.False(t, s.isDefault(2, 3))
	assert.Equal(t, ThemeOverworld, s.Theme)

	s.stamp(4, 5, TileQuestion, tileset.CollideSolid)
	s.QMeta[5][4] = QStar
	s.stamp(4, 5, TileBrick, tileset.CollideSolid)
	assert.Equal(t, TileBrick, s.Tiles[5][4])
	assert.Equal(t, QCoin, s.QMeta[5][4])
}

func TestRuleSetTheme(t *testing.T) {
	rs := defaultRuleSet(t)
	cases := []struct {
		music string
		want  Theme
	}{
		{"", ThemeOverworld},
		{"res://Audio/Music/Overworld.ogg", ThemeOverworld},
		{"res://Audio/Music/Underground.ogg", ThemeUnderground},
		{"res://Audio/Music/CastleWater.ogg", ThemeCastleWater},
		{"res://Audio/Music/Castle.ogg", ThemeCastle},
		{"res://Audio/Music/BowserBattle.ogg", ThemeCastle},
		{"res://Audio/Music/GhostHouse.ogg", ThemeGhostHouse},
		{"res://Audio/Music/CoinHeaven.ogg", ThemeBonus},
		{"res://Audio/Music/Unknown.ogg", ThemeOverworld},
	}
	for _, c := range cases {
		t.Run(c.music, func(t *testing.T) {
			assert.Equal(t, c.want, rs.theme(c.music))
		})
	}
}

func TestScriptVariantsBypassRules(t *testing.T) {
	rs := defaultRuleSet(t)
	for _, res := range []string{
		"res://Scenes/Prefabs/Entities/Enemies/Galoomba.tscn",
		"res://Scenes/Prefabs/Entities/Enemies/ParaTroopa.tscn",
		"res://Scenes/Prefabs/Entities/Enemies/RedParaTroopa.tscn",
	} {
		_, ok := rs.entity(res)
		assert.False(t, ok, res)
	}

	rule, ok := rs.entity("res://Scenes/Prefabs/Entities/Enemies/Goomba.tscn")
	require.True(t, ok)
	assert.Equal(t, EnemyGoomba, rule.kind)
}
