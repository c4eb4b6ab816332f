package scene

import (
	"bufio"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

const (
	uidScheme = "uid://"
	resScheme = "res://"

	// DefaultMaxDepth bounds inheritance chains.
	DefaultMaxDepth = 4
)

// ErrUnresolved is returned when a resource reference cannot be mapped to a file.
var ErrUnresolved = errors.New("scene: unresolved reference")

// Project is the read-only addressing context for one scene tree: the
// project root for direct paths and the content-id index for uid references.
type Project struct {
	Root string

	maxDepth int
	uids     map[string]string
	scenes []string
	log    *slog.Logger
}

// NewProject indexes every scene under root by its content id. Inheritance
// chains are flattened at most maxDepth levels deep; a non-positive maxDepth
// selects DefaultMaxDepth.
func NewProject(root string, maxDepth int, log *slog.Logger) (*Project, error) {
	if log == nil {
		log = slog.Default()
	}
	if maxDepth <= 0 {
		maxDepth = DefaultMaxDepth
	}
	p := &Project{
		Root:     root,
		maxDepth: maxDepth,
		uids:     map[string]string{},
		log:      log,
	}

	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if strings.HasPrefix(d.Name(), ".") && path != root {
				return filepath.SkipDir
			}
			return nil
		}
		if filepath.Ext(path) != ".tscn" {
			return nil
		}
		p.scenes = append(p.scenes, path)
		uid, err := readSceneUID(path)
		if err != nil {
			log.Debug("scene uid unreadable", "scene", path, "error", err)
			return nil
		}
		if uid != "" {
			p.uids[uid] = path
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Strings(p.scenes)
	return p, nil
}

// readSceneUID returns the content id from the scene header line.
func readSceneUID(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	sr := bufio.NewScanner(f)
	sr.Buffer(make([]byte, 0, 4096), 1024*1024)
	for sr.Scan() {
		line := strings.TrimSpace(sr.Text())
		if line == "" {
			continue
		}
		if strings.HasPrefix(line, "[gd_scene") {
			uid, _ := headerAttr(line, "uid")
			return uid, nil
		}
		return "", nil
	}
	return "", sr.Err()
}

// Scenes lists every indexed scene file.
func (p *Project) Scenes() []string {
	return p.scenes
}

// Resolve maps a uid:// or res:// reference to a filesystem path.
func (p *Project) Resolve(ref string) (string, error) {
	switch {
	case strings.HasPrefix(ref, uidScheme):
		if path, ok := p.uids[ref]; ok {
			return path, nil
		}
	case strings.HasPrefix(ref, resScheme):
		path := filepath.Join(p.Root, filepath.FromSlash(strings.TrimPrefix(ref, resScheme)))
		if _, err := os.Stat(path); err == nil {
			return path, nil
		}
	}
	return "", ErrUnresolved
}

// ResPath returns the res:// form of a filesystem path inside the project.
func (p *Project) ResPath(path string) string {
	rel, err := filepath.Rel(p.Root, path)
	if err != nil {
		return path
	}
	return resScheme + filepath.ToSlash(rel)
}

// Canonical rewrites a uid:// reference to its res:// path so resource
// patterns can match against it. Unknown references are returned unchanged.
func (p *Project) Canonical(ref string) string {
	if !strings.HasPrefix(ref, uidScheme) {
		return ref
	}
	if path, ok := p.uids[ref]; ok {
		return p.ResPath(path)
	}
	return ref
}

// Load parses a scene and flattens its inheritance chain.
func (p *Project) Load(path string) (*Scene, error) {
	return p.load(path, 0)
}

func (p *Project) load(path string, depth int) (*Scene, error) {
	sc, err := ParseFile(path)
	if err != nil {
		return nil, err
	}
	p.canonicalize(sc)

	if !sc.Inherits.Set {
		return sc, nil
	}
	if depth >= p.maxDepth {
		p.log.Debug("inheritance depth cap reached", "scene", path, "depth", depth)
		return sc, nil
	}

	basePath, err := p.Resolve(sc.Inherits.V)
	if err != nil {
		p.log.Debug("base scene unresolved, not merging", "scene", path, "base", sc.Inherits.V)
		return sc, nil
	}
	base, err := p.load(basePath, depth+1)
	if err != nil {
		return nil, fmt.Errorf("scene: load base %s: %w", basePath, err)
	}

	sc.Nodes = Merge(base.Nodes, sc.Nodes)
	return sc, nil
}

// MaxDepth reports how many inheritance levels Load flattens.
func (p *Project) MaxDepth() int {
	return p.maxDepth
}

func (p *Project) canonicalize(sc *Scene) {
	for i := range sc.Nodes {
		n := &sc.Nodes[i]
		if n.Instance.Set {
			n.Instance.V = p.Canonical(n.Instance.V)
		}
		if n.Music.Set {
			n.Music.V = p.Canonical(n.Music.V)
		}
	}
}
