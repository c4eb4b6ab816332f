package prefabs

import (
	"fmt"

	"github.com/milk9111/levelc/tileset"
	"gopkg.in/yaml.v3"
)

// DefaultRulesName is the embedded rules file.
const DefaultRulesName = "rules.yaml"

// LoadSpec decodes a YAML spec from disk or the embedded defaults.
func LoadSpec[T any](filename string) (T, error) {
	var zero T
	data, err := Load(filename)
	if err != nil {
		return zero, fmt.Errorf("prefabs: load %s: %w", filename, err)
	}

	var spec T
	if err := yaml.Unmarshal(data, &spec); err != nil {
		return zero, fmt.Errorf("prefabs: unmarshal %s: %w", filename, err)
	}

	return spec, nil
}

// Rules configures how scenes are recognised and compiled.
type Rules struct {
	MaxInheritDepth int             `yaml:"max_inherit_depth"`
	PhysicsLayer    int             `yaml:"physics_layer"`
	PipeAtlasColumn int             `yaml:"pipe_atlas_column"`
	Heuristics      HeuristicsSpec  `yaml:"heuristics"`
	Layers          LayersSpec      `yaml:"layers"`
	AtlasKinds      []AtlasKindSpec `yaml:"atlas_kinds"`
	Markers         MarkersSpec     `yaml:"markers"`
	SceneTiles      SceneTilesSpec  `yaml:"scene_tiles"`
	Questions       []QuestionSpec  `yaml:"questions"`
	Pipes           PipesSpec       `yaml:"pipes"`
	Themes          []ThemeSpec     `yaml:"themes"`
	Entities        []EntitySpec    `yaml:"entities"`
	EntityScript    string          `yaml:"entity_script"`
}

// HeuristicsSpec holds the ground-anchor thresholds.
type HeuristicsSpec struct {
	MinRowCount    int `yaml:"min_row_count"`
	DensityDivisor int `yaml:"density_divisor"`
	FallbackSpawnX int `yaml:"fallback_spawn_x"`
}

type LayersSpec struct {
	Tiles           string `yaml:"tiles"`
	Decoration      string `yaml:"decoration"`
	ChallengeBranch string `yaml:"challenge_branch"`
}

type AtlasKindSpec struct {
	Match string `yaml:"match"`
	Kind  string `yaml:"kind"`
}

type MarkersSpec struct {
	Player   []string `yaml:"player"`
	Flagpole []string `yaml:"flagpole"`
	Castle   []string `yaml:"castle"`
	Brick    []string `yaml:"brick"`
	Question []string `yaml:"question"`
}

type SceneTilesSpec struct {
	Empty    []string `yaml:"empty"`
	Question []string `yaml:"question"`
	Brick    []string `yaml:"brick"`
	Coin     []string `yaml:"coin"`
}

type QuestionSpec struct {
	Match string `yaml:"match"`
	Meta  string `yaml:"meta"`
}

type PipesSpec struct {
	Areas    []string `yaml:"areas"`
	Teleport []string `yaml:"teleport"`
}

type ThemeSpec struct {
	Match []string `yaml:"match"`
	Theme string   `yaml:"theme"`
}

type EntitySpec struct {
	Match     []string       `yaml:"match"`
	Kind      string         `yaml:"kind"`
	Raise     int            `yaml:"raise"`
	Direction *int           `yaml:"direction"`
	Platform  *PlatformSpec  `yaml:"platform"`
	Elevator  *ElevatorSpec  `yaml:"elevator"`
	Rope      *RopeSpec      `yaml:"rope"`
	Generator *GeneratorSpec `yaml:"generator"`
}

type PlatformSpec struct {
	Width      int    `yaml:"width"`
	SmallWidth int    `yaml:"small_width"`
	SmallMatch string `yaml:"small_match"`
}

type ElevatorSpec struct {
	Travel int  `yaml:"travel"`
	Loop   bool `yaml:"loop"`
}

type RopeSpec struct {
	Top float64 `yaml:"top"`
}

type GeneratorSpec struct {
	Spawn  string `yaml:"spawn"`
	Period int    `yaml:"period"`
}

// DefaultRules returns the embedded rules.
func DefaultRules() (*Rules, error) {
	spec, err := LoadSpec[Rules](DefaultRulesName)
	if err != nil {
		return nil, err
	}
	return &spec, nil
}

// LoadRules loads the embedded defaults and overlays the named file on top.
// Keys absent from the file keep their default values.
func LoadRules(path string) (*Rules, error) {
	rules, err := DefaultRules()
	if err != nil {
		return nil, err
	}
	if path == "" || path == DefaultRulesName {
		return rules, nil
	}
	data, err := Load(path)
	if err != nil {
		return nil, fmt.Errorf("prefabs: load %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, rules); err != nil {
		return nil, fmt.Errorf("prefabs: unmarshal %s: %w", path, err)
	}
	return rules, nil
}

// TileSetOptions converts the atlas rules into tile-set classifier options.
func (r *Rules) TileSetOptions() (tileset.Options, error) {
	opts := tileset.Options{PhysicsLayer: r.PhysicsLayer}
	for _, ak := range r.AtlasKinds {
		kind, err := tileset.ParseKind(ak.Kind)
		if err != nil {
			return tileset.Options{}, fmt.Errorf("prefabs: atlas kind %q: %w", ak.Match, err)
		}
		opts.Kinds = append(opts.Kinds, tileset.KindPattern{Match: ak.Match, Kind: kind})
	}
	return opts, nil
}
