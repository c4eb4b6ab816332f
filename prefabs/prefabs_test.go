package prefabs

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/milk9111/levelc/tileset"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultRules(t *testing.T) {
	r, err := DefaultRules()
	require.NoError(t, err)

	assert.Equal(t, 4, r.MaxInheritDepth)
	assert.Equal(t, 0, r.PhysicsLayer)
	assert.Equal(t, 9, r.PipeAtlasColumn)
	assert.Equal(t, HeuristicsSpec{MinRowCount: 3, DensityDivisor: 8, FallbackSpawnX: 3}, r.Heuristics)
	assert.Equal(t, "Decorations", r.Layers.Decoration)
	assert.Equal(t, "ChallengeModeNodes", r.Layers.ChallengeBranch)
	assert.Equal(t, "scripts/entities.tengo", r.EntityScript)
	require.NotEmpty(t, r.Themes)
	assert.Equal(t, "underground", r.Themes[0].Theme)

	var rope *EntitySpec
	for i := range r.Entities {
		if r.Entities[i].Kind == "platform_rope" {
			rope = &r.Entities[i]
		}
	}
	require.NotNil(t, rope)
	require.NotNil(t, rope.Rope)
	assert.Equal(t, 48.0, rope.Rope.Top)
}

func TestLoadRulesOverride(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rules.local.yaml")
	require.NoError(t, os.WriteFile(path, []byte("heuristics:\n  min_row_count: 5\nphysics_layer: 2\n"), 0o644))

	r, err := LoadRules(path)
	require.NoError(t, err)
	assert.Equal(t, 5, r.Heuristics.MinRowCount)
	assert.Equal(t, 8, r.Heuristics.DensityDivisor)
	assert.Equal(t, 2, r.PhysicsLayer)
	assert.NotEmpty(t, r.Entities)

	_, err = LoadRules(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestTileSetOptions(t *testing.T) {
	r, err := DefaultRules()
	require.NoError(t, err)
	opts, err := r.TileSetOptions()
	require.NoError(t, err)
	require.Len(t, opts.Kinds, len(r.AtlasKinds))
	assert.Equal(t, tileset.KindPattern{Match: "/Terrain/", Kind: tileset.KindTerrain}, opts.Kinds[0])

	r.AtlasKinds = append(r.AtlasKinds, AtlasKindSpec{Match: "/Lava/", Kind: "magma"})
	_, err = r.TileSetOptions()
	assert.Error(t, err)
}

func TestEntityScript(t *testing.T) {
	s, err := LoadEntityScript("scripts/entities.tengo")
	require.NoError(t, err)

	cases := []struct {
		resource string
		want     string
	}{
		{"res://Scenes/Prefabs/Entities/Enemies/Galoomba.tscn", "goomba"},
		{"res://Scenes/Prefabs/Entities/Enemies/RedParaTroopa.tscn", "koopa_red"},
		{"res://Scenes/Prefabs/Entities/Enemies/ParaTroopa.tscn", "koopa"},
		{"res://Scenes/Prefabs/Entities/FireBar.tscn", ""},
		{"res://Scenes/Prefabs/Player.tscn", ""},
	}
	for _, c := range cases {
		t.Run(c.resource, func(t *testing.T) {
			got, err := s.Classify(c.resource, "Node")
			require.NoError(t, err)
			assert.Equal(t, c.want, got)
		})
	}

	var none *EntityScript
	got, err := none.Classify("res://x.tscn", "x")
	require.NoError(t, err)
	assert.Empty(t, got)

	_, err = CompileEntityScript([]byte("kind = "))
	assert.Error(t, err)
}

func TestIsSourceFile(t *testing.T) {
	cases := map[string]bool{
		"Scenes/Levels/1-1.tscn": true,
		"Tiles.tres":             true,
		"rules.yaml":             true,
		"scripts/extra.tengo":    true,
		"Assets/Overworld.png":   false,
		"notes.txt":              false,
	}
	for path, want := range cases {
		assert.Equal(t, want, IsSourceFile(path), path)
	}
}

func TestWatcherAddTree(t *testing.T) {
	root := t.TempDir()
	sub := filepath.Join(root, "Scenes", "Levels")
	require.NoError(t, os.MkdirAll(sub, 0o755))

	w, err := NewWatcher()
	require.NoError(t, err)
	defer w.Close()
	require.NoError(t, w.AddTree(root))

	require.NoError(t, os.WriteFile(filepath.Join(sub, "ignored.png"), []byte("x"), 0o644))
	target := filepath.Join(sub, "1-1.tscn")
	require.NoError(t, os.WriteFile(target, []byte("[gd_scene]"), 0o644))

	select {
	case name := <-w.Events:
		assert.Equal(t, target, name)
	case err := <-w.Errors:
		t.Fatalf("watch error: %v", err)
	case <-time.After(2 * time.Second):
		t.Fatal("no event for scene change")
	}
}
