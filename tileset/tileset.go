package tileset

import (
	"fmt"
	"strings"
)

// Kind classifies a visual tile source.
type Kind uint8

const (
	KindNone Kind = iota
	KindTerrain
	KindDecoration
	KindLiquid
)

var kindNames = [...]string{"none", "terrain", "decoration", "liquid"}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("kind(%d)", k)
}

func ParseKind(s string) (Kind, error) {
	for i, name := range kindNames {
		if strings.EqualFold(s, name) {
			return Kind(i), nil
		}
	}
	return KindNone, fmt.Errorf("tileset: unknown tile kind %q", s)
}

// Collision is the player collision class of a tile.
type Collision uint8

const (
	CollideNone Collision = iota
	CollideSolid
	CollideOneWay
)

// KindPattern maps texture paths containing Match to a Kind.
type KindPattern struct {
	Match string
	Kind  Kind
}

type tileKey struct {
	source, x, y int
}

// TileSet holds the lookup tables derived from the shared tile-set
// definition. It is read-only once built.
type TileSet struct {
	// SceneSource is the source index of the scene collection, -1 if none.
	SceneSource int

	kinds     map[int]Kind
	textures  map[int]string
	collision map[tileKey]Collision
	scenes    map[int]string
}

func newTileSet() *TileSet {
	return &TileSet{
		SceneSource: -1,
		kinds:       map[int]Kind{},
		textures:    map[int]string{},
		collision:   map[tileKey]Collision{},
		scenes:      map[int]string{},
	}
}

// Kind returns the classification of a tile source; unknown sources are KindNone.
func (ts *TileSet) Kind(source int) Kind {
	if ts == nil {
		return KindNone
	}
	return ts.kinds[source]
}

// Texture returns the texture path backing an atlas source.
func (ts *TileSet) Texture(source int) string {
	if ts == nil {
		return ""
	}
	return ts.textures[source]
}

// Collision returns the collision class of one atlas tile, CollideNone by default.
func (ts *TileSet) Collision(source, atlasX, atlasY int) Collision {
	if ts == nil {
		return CollideNone
	}
	return ts.collision[tileKey{source, atlasX, atlasY}]
}

// IsSceneSource reports whether source is the scene collection.
func (ts *TileSet) IsSceneSource(source int) bool {
	return ts != nil && ts.SceneSource >= 0 && source == ts.SceneSource
}

// Scene returns the sub-scene resource instanced by a scene-tile id.
func (ts *TileSet) Scene(id int) (string, bool) {
	if ts == nil {
		return "", false
	}
	p, ok := ts.scenes[id]
	return p, ok
}

func (ts *TileSet) setCollision(source, x, y int, c Collision) {
	k := tileKey{source, x, y}
	if ts.collision[k] == CollideOneWay {
		return
	}
	ts.collision[k] = c
}
