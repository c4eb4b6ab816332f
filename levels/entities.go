package levels

import (
	"strings"

	"github.com/milk9111/levelc/common"
	"github.com/milk9111/levelc/scene"
)

type ropeNode struct {
	name  string
	link  string
	spawn EnemySpawn
}

// extract walks the merged nodes for entity spawns and pipe endpoints.
// Rope platforms are emitted after the walk, once both halves of each pair
// are known.
func (c *Compiler) extract(s *Section, sc *scene.Scene, lay layout) {
	var ropes []ropeNode
	for i := range sc.Nodes {
		n := &sc.Nodes[i]
		if !n.Instance.Set || !n.Position.Set || n.Under(c.rules.Layers.ChallengeBranch) {
			continue
		}
		res := n.Instance.V
		tx, ty := lay.tile(n.Position.V)

		if c.rules.isPipe(res) {
			c.recordPipe(s, n, tx, ty)
			continue
		}

		rule, ok := c.rules.entity(res)
		if !ok {
			rule, ok = c.scriptEntity(sc, n)
		}
		if !ok {
			continue
		}

		sp := c.spawn(rule, n, tx, ty)
		if sp.Rope != nil {
			ropes = append(ropes, ropeNode{name: n.Name, link: n.LinkedPlatform.Or(""), spawn: sp})
			continue
		}
		s.Enemies = append(s.Enemies, sp)
	}
	s.Enemies = append(s.Enemies, pairRopes(ropes)...)
}

// scriptEntity asks the entity script about a prefab no rule matched.
func (c *Compiler) scriptEntity(sc *scene.Scene, n *scene.Node) (*entityRule, bool) {
	if c.script == nil {
		return nil, false
	}
	name, err := c.script.Classify(n.Instance.V, n.Name)
	if err != nil {
		c.log.Warn("entity script failed", "scene", sc.File, "node", n.Path(), "reason", err)
		return nil, false
	}
	if name == "" {
		return nil, false
	}
	kind, err := ParseEnemyKind(name)
	if err != nil {
		c.log.Warn("entity script returned unknown kind", "scene", sc.File, "node", n.Path(), "kind", name)
		return nil, false
	}
	if rule, ok := c.rules.byKind[kind]; ok {
		return rule, true
	}
	return &entityRule{kind: kind}, true
}

func (c *Compiler) spawn(rule *entityRule, n *scene.Node, tx, ty int) EnemySpawn {
	sp := EnemySpawn{
		Kind: rule.kind,
		X:    float64(tx * common.TileSize),
		Y:    float64((ty - rule.Raise) * common.TileSize),
		Dir:  -1,
	}
	if rule.Direction != nil {
		sp.Dir = *rule.Direction
	}

	switch {
	case rule.Platform != nil:
		w := rule.Platform.Width
		if rule.Platform.SmallMatch != "" && strings.Contains(n.Instance.V, rule.Platform.SmallMatch) {
			w = rule.Platform.SmallWidth
		}
		sp.Platform = &PlatformParams{Width: w}
	case rule.Elevator != nil:
		if rule.Elevator.Loop {
			sp.Elevator = &ElevatorParams{Top: 0, Bottom: float64(common.MapH * common.TileSize), Loop: true}
		} else {
			travel := n.Top.Or(float64(rule.Elevator.Travel))
			sp.Elevator = &ElevatorParams{Top: sp.Y - travel, Bottom: sp.Y}
		}
		sp.Dir = n.VerticalDirection.Or(sp.Dir)
	case rule.Rope != nil:
		sp.Rope = &RopeParams{Pair: -1, Top: sp.Y - n.RopeTop.Or(rule.Rope.Top)}
	case rule.Generator != nil:
		sp.Generator = &GeneratorParams{Spawn: rule.spawn, Period: rule.Generator.Period}
	}
	return sp
}

// pairRopes gives linked rope platforms a shared pair id. Either half may
// name the other.
func pairRopes(ropes []ropeNode) []EnemySpawn {
	if len(ropes) == 0 {
		return nil
	}
	byName := make(map[string]int, len(ropes))
	for i, r := range ropes {
		if _, dup := byName[r.name]; !dup {
			byName[r.name] = i
		}
	}

	pair := make([]int, len(ropes))
	for i := range pair {
		pair[i] = -1
	}
	next := 0
	for i, r := range ropes {
		j, linked := byName[r.link]
		linked = linked && r.link != "" && j != i
		if pair[i] < 0 {
			if linked && pair[j] >= 0 {
				pair[i] = pair[j]
			} else {
				pair[i] = next
				next++
			}
		}
		if linked && pair[j] < 0 {
			pair[j] = pair[i]
		}
	}

	out := make([]EnemySpawn, len(ropes))
	for i, r := range ropes {
		sp := r.spawn
		rope := *sp.Rope
		rope.Pair = pair[i]
		sp.Rope = &rope
		out[i] = sp
	}
	return out
}

// recordPipe registers a pipe node as an entry, an exit, or a same-section
// teleport.
func (c *Compiler) recordPipe(s *Section, n *scene.Node, tx, ty int) {
	s.pipeByName[n.Name] = Point{tx, ty}
	pid := n.PipeID.Or(0)
	dir := n.EnterDirection.Or(0)

	if c.rules.isTeleport(n.Instance.V) && n.ConnectingPipe.Set && !n.ExitOnly {
		s.entries = append(s.entries, pipeEntry{
			PipeID:   pid,
			X:        tx,
			Y:        ty,
			EnterDir: dir,
			Connect:  n.ConnectingPipe.V,
		})
		return
	}
	if n.ExitOnly {
		s.exits[pid] = Point{tx, ty}
		return
	}
	s.entries = append(s.entries, pipeEntry{
		PipeID:         pid,
		X:              tx,
		Y:              ty,
		TargetLevel:    n.TargetLevel.Or(""),
		TargetSubLevel: n.TargetSubLevel.Or(0),
		EnterDir:       dir,
	})
}
