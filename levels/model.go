package levels

import (
	"fmt"
	"strings"

	"github.com/milk9111/levelc/common"
	"github.com/milk9111/levelc/tileset"
)

// TileCode is the gameplay classification of a grid cell.
type TileCode uint8

const (
	TileEmpty TileCode = iota
	TileGround
	TileBrick
	TileQuestion
	TileUsed
	TilePipe
	TileFlag
	TileCastle
	TileCoin
	// TileAtlas cells are drawn from the atlas grids and carry no gameplay.
	TileAtlas
)

var tileNames = [...]string{"empty", "ground", "brick", "question", "used", "pipe", "flag", "castle", "coin", "atlas"}

func (t TileCode) String() string {
	if int(t) < len(tileNames) {
		return tileNames[t]
	}
	return fmt.Sprintf("tile(%d)", t)
}

// QMeta is what a question block releases.
type QMeta uint8

const (
	QCoin QMeta = iota
	QPowerUp
	QOneUp
	QStar
)

var qmetaNames = [...]string{"coin", "power_up", "one_up", "star"}

func (q QMeta) String() string {
	if int(q) < len(qmetaNames) {
		return qmetaNames[q]
	}
	return fmt.Sprintf("qmeta(%d)", q)
}

func ParseQMeta(s string) (QMeta, error) {
	for i, name := range qmetaNames {
		if strings.EqualFold(s, name) {
			return QMeta(i), nil
		}
	}
	return QCoin, fmt.Errorf("levels: unknown question meta %q", s)
}

// Theme is the visual and audio theme of a section.
type Theme string

const (
	ThemeOverworld   Theme = "overworld"
	ThemeUnderground Theme = "underground"
	ThemeCastle      Theme = "castle"
	ThemeCastleWater Theme = "castle_water"
	ThemeUnderwater  Theme = "underwater"
	ThemeAirship     Theme = "airship"
	ThemeDesert      Theme = "desert"
	ThemeSnow        Theme = "snow"
	ThemeJungle      Theme = "jungle"
	ThemeBeach       Theme = "beach"
	ThemeGarden      Theme = "garden"
	ThemeMountain    Theme = "mountain"
	ThemeSky         Theme = "sky"
	ThemeAutumn      Theme = "autumn"
	ThemePipeland    Theme = "pipeland"
	ThemeSpace       Theme = "space"
	ThemeVolcano     Theme = "volcano"
	ThemeGhostHouse  Theme = "ghost_house"
	ThemeBonus       Theme = "bonus"
)

var themes = []Theme{
	ThemeOverworld, ThemeUnderground, ThemeCastle, ThemeCastleWater, ThemeUnderwater,
	ThemeAirship, ThemeDesert, ThemeSnow, ThemeJungle, ThemeBeach, ThemeGarden,
	ThemeMountain, ThemeSky, ThemeAutumn, ThemePipeland, ThemeSpace, ThemeVolcano,
	ThemeGhostHouse, ThemeBonus,
}

func ParseTheme(s string) (Theme, error) {
	for _, t := range themes {
		if string(t) == s {
			return t, nil
		}
	}
	return ThemeOverworld, fmt.Errorf("levels: unknown theme %q", s)
}

// EnemyKind tags an entity spawn.
type EnemyKind string

const (
	EnemyGoomba              EnemyKind = "goomba"
	EnemyKoopa               EnemyKind = "koopa"
	EnemyKoopaRed            EnemyKind = "koopa_red"
	EnemyBuzzyBeetle         EnemyKind = "buzzy_beetle"
	EnemyBlooper             EnemyKind = "blooper"
	EnemySpiny               EnemyKind = "spiny"
	EnemyLakitu              EnemyKind = "lakitu"
	EnemyHammerBro           EnemyKind = "hammer_bro"
	EnemyCheepSwim           EnemyKind = "cheep_swim"
	EnemyCheepLeap           EnemyKind = "cheep_leap"
	EnemyBulletBill          EnemyKind = "bullet_bill"
	EnemyBulletCannon        EnemyKind = "bullet_cannon"
	EnemyBowser              EnemyKind = "bowser"
	EnemyPlatformSideways    EnemyKind = "platform_sideways"
	EnemyPlatformVertical    EnemyKind = "platform_vertical"
	EnemyPlatformRope        EnemyKind = "platform_rope"
	EnemyPlatformFalling     EnemyKind = "platform_falling"
	EnemyCastleAxe           EnemyKind = "castle_axe"
	EnemyEntityGenerator     EnemyKind = "entity_generator"
	EnemyEntityGeneratorStop EnemyKind = "entity_generator_stop"
)

// EnemyKinds lists every kind in runtime enum order.
var EnemyKinds = []EnemyKind{
	EnemyGoomba, EnemyKoopa, EnemyKoopaRed, EnemyBuzzyBeetle, EnemyBlooper, EnemySpiny,
	EnemyLakitu, EnemyHammerBro, EnemyCheepSwim, EnemyCheepLeap, EnemyBulletBill,
	EnemyBulletCannon, EnemyBowser, EnemyPlatformSideways, EnemyPlatformVertical,
	EnemyPlatformRope, EnemyPlatformFalling, EnemyCastleAxe, EnemyEntityGenerator,
	EnemyEntityGeneratorStop,
}

func ParseEnemyKind(s string) (EnemyKind, error) {
	for _, k := range EnemyKinds {
		if string(k) == s {
			return k, nil
		}
	}
	return "", fmt.Errorf("levels: unknown enemy kind %q", s)
}

// AtlasUnset marks an atlas coordinate with nothing to draw.
const AtlasUnset = 255

// Grid is one fixed-size per-section layer, indexed [y][x].
type Grid[T any] [common.MapH][common.MapW]T

// Background configures the parallax layers behind a section.
type Background struct {
	Primary   int  `json:"primary"`
	Secondary int  `json:"secondary"`
	Clouds    bool `json:"clouds"`
	Particles int  `json:"particles"`
}

// PipeLink is a resolved pipe. TargetSection is an index into the target
// level's Sections.
type PipeLink struct {
	SrcX          int `json:"src_x"`
	SrcY          int `json:"src_y"`
	TargetLevel   int `json:"target_level"`
	TargetSection int `json:"target_section"`
	TargetX       int `json:"target_x"`
	TargetY       int `json:"target_y"`
	EnterDir      int `json:"enter_dir"`
}

type PlatformParams struct {
	Width int `json:"width"`
}

// ElevatorParams bounds a vertical platform in pixels.
type ElevatorParams struct {
	Top    float64 `json:"top"`
	Bottom float64 `json:"bottom"`
	Loop   bool    `json:"loop,omitempty"`
}

// RopeParams links the two halves of a rope pair.
type RopeParams struct {
	Pair int     `json:"pair"`
	Top  float64 `json:"top"`
}

type GeneratorParams struct {
	Spawn  EnemyKind `json:"spawn"`
	Period int       `json:"period"`
}

// EnemySpawn places one entity. At most one parameter block is set,
// depending on Kind.
type EnemySpawn struct {
	Kind      EnemyKind        `json:"kind"`
	X         float64          `json:"x"`
	Y         float64          `json:"y"`
	Dir       int              `json:"dir"`
	Platform  *PlatformParams  `json:"platform,omitempty"`
	Elevator  *ElevatorParams  `json:"elevator,omitempty"`
	Rope      *RopeParams      `json:"rope,omitempty"`
	Generator *GeneratorParams `json:"generator,omitempty"`
}

// Point is a tile coordinate.
type Point struct {
	X, Y int
}

// pipeEntry is a pipe awaiting resolution.
type pipeEntry struct {
	PipeID         int
	X, Y           int
	TargetLevel    string
	TargetSubLevel int
	EnterDir       int
	Connect        string
}

// Section is one compiled playable area.
type Section struct {
	World  int
	Stage  int
	Number int
	// ID is stable across builds of the same source scene.
	ID      string
	Scene   string
	Special bool

	Width     int
	Tiles     Grid[TileCode]
	AtlasKind Grid[tileset.Kind]
	AtlasX    Grid[uint8]
	AtlasY    Grid[uint8]
	Collision Grid[tileset.Collision]
	QMeta     Grid[QMeta]
	Colliders []common.Rect

	Pipes   []PipeLink
	Enemies []EnemySpawn

	StartX, StartY int
	FlagX          int
	HasFlag        bool
	Theme          Theme
	Background     Background

	entries    []pipeEntry
	exits      map[int]Point
	pipeByName map[string]Point
	groundRow  int
}

// NewSection returns an empty section with unset atlas coordinates.
func NewSection() *Section {
	s := &Section{
		Theme:      ThemeOverworld,
		exits:      map[int]Point{},
		pipeByName: map[string]Point{},
	}
	for y := range s.AtlasX {
		for x := range s.AtlasX[y] {
			s.AtlasX[y][x] = AtlasUnset
			s.AtlasY[y][x] = AtlasUnset
		}
	}
	return s
}

// Name returns the W-S-N label of the section.
func (s *Section) Name() string {
	return fmt.Sprintf("%d-%d-%d", s.World, s.Stage, s.Number)
}

// isDefault reports whether a cell holds neither a gameplay tile nor atlas art.
func (s *Section) isDefault(x, y int) bool {
	return s.Tiles[y][x] == TileEmpty && s.AtlasX[y][x] == AtlasUnset
}

// clearAtlas resets a cell's draw coordinates.
func (s *Section) clearAtlas(x, y int) {
	s.AtlasKind[y][x] = tileset.KindNone
	s.AtlasX[y][x] = AtlasUnset
	s.AtlasY[y][x] = AtlasUnset
}

// stamp writes a gameplay tile that owns the cell. Question metadata is reset;
// callers stamping a question block set it afterwards.
func (s *Section) stamp(x, y int, code TileCode, c tileset.Collision) {
	if !common.InGrid(x, y) {
		return
	}
	s.Tiles[y][x] = code
	s.clearAtlas(x, y)
	s.Collision[y][x] = c
	s.QMeta[y][x] = QCoin
}

// ExitPosition returns the tile an inbound pipe with the given id lands on.
func (s *Section) ExitPosition(pipeID int) (Point, bool) {
	p, ok := s.exits[pipeID]
	return p, ok
}

// Level is every section sharing a (world, stage), ordered by section number.
type Level struct {
	World    int
	Stage    int
	Sections []*Section
}

func (l *Level) Name() string {
	return fmt.Sprintf("%d-%d", l.World, l.Stage)
}

// Build is the output of one batch compile, sorted by (world, stage).
type Build struct {
	Levels []*Level
}

func (b *Build) Level(world, stage int) (*Level, bool) {
	for _, l := range b.Levels {
		if l.World == world && l.Stage == stage {
			return l, true
		}
	}
	return nil, false
}

// Sections returns every section of every level in output order.
func (b *Build) Sections() []*Section {
	var out []*Section
	for _, l := range b.Levels {
		out = append(out, l.Sections...)
	}
	return out
}
