package levels

import (
	"fmt"
	"log/slog"
	"path"
	"sort"
	"strings"

	"github.com/google/uuid"
	"github.com/lithammer/fuzzysearch/fuzzy"
	"github.com/milk9111/levelc/common"
)

type levelKey struct {
	World, Stage int
}

type specialKey struct {
	levelKey
	Scene string
}

// pendingLink is a resolved pipe still addressed by section number.
type pendingLink struct {
	link   PipeLink
	target levelKey
	number int
}

// resolver links pipes across sections once every level section exists.
type resolver struct {
	c        *Compiler
	levels   map[levelKey]map[int]*Section
	order    []*Section
	specials map[specialKey]*Section
	links    map[*Section][]pendingLink
	known    []string
}

func newResolver(c *Compiler) *resolver {
	return &resolver{
		c:        c,
		levels:   map[levelKey]map[int]*Section{},
		specials: map[specialKey]*Section{},
		links:    map[*Section][]pendingLink{},
	}
}

// add registers a section; the first section with a given identity wins.
func (r *resolver) add(s *Section) bool {
	key := levelKey{s.World, s.Stage}
	secs, ok := r.levels[key]
	if !ok {
		secs = map[int]*Section{}
		r.levels[key] = secs
	}
	if _, dup := secs[s.Number]; dup {
		return false
	}
	secs[s.Number] = s
	r.order = append(r.order, s)
	return true
}

func (r *resolver) resolve() *Build {
	// specials compiled along the way are appended to order and resolved too
	for i := 0; i < len(r.order); i++ {
		s := r.order[i]
		for _, e := range s.entries {
			if pl, ok := r.entry(s, e); ok {
				r.links[s] = append(r.links[s], pl)
			}
		}
	}
	return r.finish()
}

func (r *resolver) entry(s *Section, e pipeEntry) (pendingLink, bool) {
	log := r.c.log.With("section", s.Name(), "pipe", e.PipeID)
	src := PipeLink{SrcX: e.X, SrcY: e.Y, EnterDir: e.EnterDir}

	if e.Connect != "" {
		p, ok := s.pipeByName[e.Connect]
		if !ok {
			log.Debug("pipe dropped", "reason", "connecting pipe not found", "connect", e.Connect)
			return pendingLink{}, false
		}
		src.TargetX, src.TargetY = p.X*common.TileSize, p.Y*common.TileSize
		return pendingLink{link: src, target: levelKey{s.World, s.Stage}, number: s.Number}, true
	}

	if e.TargetLevel == "" {
		log.Debug("pipe dropped", "reason", "no target")
		return pendingLink{}, false
	}
	file, err := r.c.project.Resolve(e.TargetLevel)
	if err != nil {
		r.dangling(log, e.TargetLevel)
		return pendingLink{}, false
	}
	target := r.target(s, file, e)
	if target == nil {
		log.Debug("pipe dropped", "reason", "target section missing", "target", e.TargetLevel)
		return pendingLink{}, false
	}

	p, ok := target.exits[e.PipeID]
	if !ok {
		p = Point{target.StartX / common.TileSize, target.StartY / common.TileSize}
	}
	src.TargetX, src.TargetY = p.X*common.TileSize, p.Y*common.TileSize
	return pendingLink{link: src, target: levelKey{target.World, target.Stage}, number: target.Number}, true
}

// target finds the section a resolved scene file stands for. Scenes without
// a level identity become special sections of the referencing level.
func (r *resolver) target(s *Section, file string, e pipeEntry) *Section {
	world, stage, number, ok := ParseIdentity(file)
	if !ok {
		return r.special(s, file)
	}
	if number == 0 {
		number = e.TargetSubLevel
	}
	return r.levels[levelKey{world, stage}][number]
}

func (r *resolver) special(s *Section, file string) *Section {
	key := specialKey{levelKey{s.World, s.Stage}, r.c.project.ResPath(file)}
	if sec, ok := r.specials[key]; ok {
		return sec
	}
	sec, err := r.c.CompileScene(file)
	if err != nil {
		r.c.log.Warn("special section skipped", "scene", file, "reason", err)
		r.specials[key] = nil
		return nil
	}
	sec.World, sec.Stage = s.World, s.Stage
	sec.Number = r.nextNumber(key.levelKey)
	sec.Special = true
	r.specials[key] = sec
	r.add(sec)
	r.c.log.Debug("special section embedded", "scene", file, "section", sec.Name())
	return sec
}

func (r *resolver) nextNumber(key levelKey) int {
	next := 0
	for n := range r.levels[key] {
		next = max(next, n+1)
	}
	return next
}

func (r *resolver) dangling(log *slog.Logger, ref string) {
	args := []any{"reason", "target unresolved", "target", ref}
	if hint := r.closest(ref); hint != "" {
		args = append(args, "did_you_mean", hint)
	}
	log.Warn("pipe dropped", args...)
}

// closest suggests the project scene whose path best matches a dangling
// res:// reference.
func (r *resolver) closest(ref string) string {
	if !strings.HasPrefix(ref, "res://") {
		return ""
	}
	if r.known == nil {
		for _, s := range r.c.project.Scenes() {
			r.known = append(r.known, r.c.project.ResPath(s))
		}
	}
	name := strings.TrimSuffix(path.Base(ref), path.Ext(ref))
	ranks := fuzzy.RankFindFold(name, r.known)
	if len(ranks) == 0 {
		return ""
	}
	sort.Sort(ranks)
	return ranks[0].Target
}

// finish orders levels and sections and rewrites section numbers in links
// to dense indices.
func (r *resolver) finish() *Build {
	keys := make([]levelKey, 0, len(r.levels))
	for k := range r.levels {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].World != keys[j].World {
			return keys[i].World < keys[j].World
		}
		return keys[i].Stage < keys[j].Stage
	})

	levelIndex := make(map[levelKey]int, len(keys))
	sectionIndex := make(map[levelKey]map[int]int, len(keys))
	b := &Build{}
	for i, k := range keys {
		levelIndex[k] = i
		numbers := make([]int, 0, len(r.levels[k]))
		for n := range r.levels[k] {
			numbers = append(numbers, n)
		}
		sort.Ints(numbers)

		lvl := &Level{World: k.World, Stage: k.Stage}
		sectionIndex[k] = make(map[int]int, len(numbers))
		for j, n := range numbers {
			sectionIndex[k][n] = j
			lvl.Sections = append(lvl.Sections, r.levels[k][n])
		}
		b.Levels = append(b.Levels, lvl)
	}

	for _, s := range r.order {
		s.Pipes = s.Pipes[:0]
		for _, pl := range r.links[s] {
			link := pl.link
			link.TargetLevel = levelIndex[pl.target]
			link.TargetSection = sectionIndex[pl.target][pl.number]
			s.Pipes = append(s.Pipes, link)
		}
		s.ID = sectionID(s, r.c.project.ResPath(s.Scene))
		s.Colliders = mergeColliders(&s.Collision, s.Width)
	}
	return b
}

func sectionID(s *Section, scene string) string {
	name := fmt.Sprintf("%d-%d-%d:%s", s.World, s.Stage, s.Number, scene)
	return uuid.NewSHA1(uuid.NameSpaceURL, []byte(name)).String()
}
