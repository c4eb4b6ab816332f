package tileset

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const tilesFixture = `[gd_scene load_steps=6 format=3 uid="uid://tiles"]

[ext_resource type="Texture2D" path="res://Assets/Sprites/Tilesets/Terrain/Overworld.png" id="1_t"]
[ext_resource type="Texture2D" path="res://Assets/Sprites/Tilesets/Deco/Bushes.png" id="2_d"]
[ext_resource type="Texture2D" path="res://Assets/Sprites/Tilesets/Liquid/Water.png" id="3_l"]
[ext_resource type="Texture2D" path="res://Assets/Sprites/Misc/Unknown.png" id="4_u"]
[ext_resource type="PackedScene" path="res://Scenes/Prefabs/Blocks/BrickBlock.tscn" id="5_b"]
[ext_resource type="PackedScene" path="res://Scenes/Prefabs/Blocks/PowerUpQuestionBlock.tscn" id="6_q"]

[sub_resource type="TileSetAtlasSource" id="TileSetAtlasSource_terrain"]
texture = ExtResource("1_t")
texture_region_size = Vector2i(16, 16)
0:0/0 = 0
0:0/0/physics_layer_0/polygon_0/points = PackedVector2Array(-8, -8, 8, -8, 8, 8, -8, 8)
1:0/0 = 0
1:0/0/physics_layer_0/polygon_0/one_way = true
1:0/0/physics_layer_0/polygon_0/points = PackedVector2Array(-8, -8, 8, -8, 8, 8, -8, 8)
2:0/0 = 0
2:0/0/physics_layer_1/polygon_0/points = PackedVector2Array(-8, -8, 8, -8, 8, 8, -8, 8)

[sub_resource type="TileSetScenesCollectionSource" id="TileSetScenesCollectionSource_s"]
scenes/1/scene = ExtResource("5_b")
scenes/2/scene = ExtResource("6_q")

[sub_resource type="TileSetAtlasSource" id="TileSetAtlasSource_deco"]
texture = ExtResource("2_d")

[sub_resource type="TileSetAtlasSource" id="TileSetAtlasSource_liquid"]
texture = ExtResource("3_l")

[sub_resource type="TileSetAtlasSource" id="TileSetAtlasSource_unknown"]
texture = ExtResource("4_u")

[sub_resource type="TileSet" id="TileSet_main"]
physics_layer_0/collision_layer = 1
physics_layer_1/collision_layer = 4
sources/0 = SubResource("TileSetAtlasSource_terrain")
sources/1 = SubResource("TileSetScenesCollectionSource_s")
sources/2 = SubResource("TileSetAtlasSource_deco")
sources/3 = SubResource("TileSetAtlasSource_liquid")
sources/4 = SubResource("TileSetAtlasSource_unknown")

[node name="Tiles" type="TileMapLayer"]
tile_set = SubResource("TileSet_main")
`

func defaultOptions() Options {
	return Options{
		PhysicsLayer: 0,
		Kinds: []KindPattern{
			{Match: "/Terrain/", Kind: KindTerrain},
			{Match: "/Deco/", Kind: KindDecoration},
			{Match: "/Liquid/", Kind: KindLiquid},
		},
	}
}

func TestParseTileSet(t *testing.T) {
	ts, err := Parse(strings.NewReader(tilesFixture), defaultOptions())
	require.NoError(t, err)

	t.Run("kinds", func(t *testing.T) {
		cases := []struct {
			source int
			want   Kind
		}{
			{0, KindTerrain},
			{1, KindNone},
			{2, KindDecoration},
			{3, KindLiquid},
			{4, KindNone},
			{99, KindNone},
		}
		for _, c := range cases {
			assert.Equal(t, c.want, ts.Kind(c.source), "source %d", c.source)
		}
	})

	t.Run("collision", func(t *testing.T) {
		assert.Equal(t, CollideSolid, ts.Collision(0, 0, 0))
		assert.Equal(t, CollideOneWay, ts.Collision(0, 1, 0), "one-way overrides solid regardless of order")
		assert.Equal(t, CollideNone, ts.Collision(0, 2, 0), "secondary physics layer is ignored")
		assert.Equal(t, CollideNone, ts.Collision(0, 5, 5))
	})

	t.Run("scenes", func(t *testing.T) {
		assert.Equal(t, 1, ts.SceneSource)
		assert.True(t, ts.IsSceneSource(1))
		assert.False(t, ts.IsSceneSource(0))
		p, ok := ts.Scene(2)
		require.True(t, ok)
		assert.Equal(t, "res://Scenes/Prefabs/Blocks/PowerUpQuestionBlock.tscn", p)
		_, ok = ts.Scene(9)
		assert.False(t, ok)
	})
}

func TestParseKind(t *testing.T) {
	k, err := ParseKind("Decoration")
	require.NoError(t, err)
	assert.Equal(t, KindDecoration, k)
	_, err = ParseKind("lava")
	assert.Error(t, err)
	assert.Equal(t, "liquid", KindLiquid.String())
}

func TestNilTileSet(t *testing.T) {
	var ts *TileSet
	assert.Equal(t, KindNone, ts.Kind(0))
	assert.Equal(t, CollideNone, ts.Collision(0, 0, 0))
	assert.False(t, ts.IsSceneSource(0))
}
