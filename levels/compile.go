package levels

import (
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/milk9111/levelc/prefabs"
	"github.com/milk9111/levelc/scene"
	"github.com/milk9111/levelc/tileset"
)

var (
	// ErrNoTiles is returned for scenes without a readable main tile layer.
	ErrNoTiles = errors.New("levels: no tile layer")
	// ErrNoIdentity is returned for scenes whose file name is not W-S[x].
	ErrNoIdentity = errors.New("levels: no level identity")
)

var identityRe = regexp.MustCompile(`^(\d+)-(\d+)([a-z]?)`)

// ParseIdentity reads (world, stage, section) from a scene file name such as
// 1-2b.tscn. Section 0 is the primary section, a is 1, b is 2.
func ParseIdentity(path string) (world, stage, section int, ok bool) {
	name := filepath.Base(filepath.FromSlash(strings.TrimPrefix(path, "res://")))
	name = strings.TrimSuffix(name, filepath.Ext(name))
	m := identityRe.FindStringSubmatch(name)
	if m == nil {
		return 0, 0, 0, false
	}
	world, _ = strconv.Atoi(m[1])
	stage, _ = strconv.Atoi(m[2])
	if m[3] != "" {
		section = int(m[3][0]-'a') + 1
	}
	return world, stage, section, true
}

// Compiler turns level scenes into sections. The project, tile set and rules
// are read-only and shared by every scene.
type Compiler struct {
	project *scene.Project
	tiles   *tileset.TileSet
	rules   *ruleSet
	script  *prefabs.EntityScript
	log     *slog.Logger
}

func NewCompiler(project *scene.Project, tiles *tileset.TileSet, rules *prefabs.Rules, script *prefabs.EntityScript, log *slog.Logger) (*Compiler, error) {
	if log == nil {
		log = slog.Default()
	}
	rs, err := compileRules(rules)
	if err != nil {
		return nil, fmt.Errorf("levels: rules: %w", err)
	}
	return &Compiler{
		project: project,
		tiles:   tiles,
		rules:   rs,
		script:  script,
		log:     log,
	}, nil
}

// CompileScene loads one scene with its inheritance chain and composes it.
// The returned section has no identity yet.
func (c *Compiler) CompileScene(path string) (*Section, error) {
	sc, err := c.project.Load(path)
	if err != nil {
		return nil, err
	}
	s, err := c.compose(sc)
	if err != nil {
		return nil, fmt.Errorf("levels: compose %s: %w", path, err)
	}
	return s, nil
}

// CompileLevel compiles a scene whose file name carries its identity.
func (c *Compiler) CompileLevel(path string) (*Section, error) {
	world, stage, number, ok := ParseIdentity(path)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNoIdentity, path)
	}
	s, err := c.CompileScene(path)
	if err != nil {
		return nil, err
	}
	s.World, s.Stage, s.Number = world, stage, number
	return s, nil
}

// Compile builds every level scene in paths and resolves their pipes. A
// scene that fails is logged and skipped.
func (c *Compiler) Compile(paths []string) *Build {
	r := newResolver(c)
	for _, path := range paths {
		s, err := c.CompileLevel(path)
		switch {
		case errors.Is(err, ErrNoIdentity):
			c.log.Debug("not a level scene", "scene", path)
			continue
		case err != nil:
			c.log.Warn("section skipped", "scene", path, "reason", err)
			continue
		}
		if !r.add(s) {
			c.log.Warn("duplicate section, keeping first", "scene", path, "section", s.Name())
		}
	}
	return r.resolve()
}

// LevelScenes lists the project scenes below dir in path order.
func LevelScenes(p *scene.Project, dir string) []string {
	if !filepath.IsAbs(dir) {
		dir = filepath.Join(p.Root, dir)
	}
	prefix := filepath.Clean(dir) + string(filepath.Separator)
	var out []string
	for _, s := range p.Scenes() {
		if strings.HasPrefix(s, prefix) {
			out = append(out, s)
		}
	}
	sort.Strings(out)
	return out
}
