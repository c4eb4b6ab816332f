package levels

import (
	"fmt"
	"strings"

	"github.com/milk9111/levelc/prefabs"
)

type questionRule struct {
	match string
	meta  QMeta
}

type themeRule struct {
	match []string
	theme Theme
}

type entityRule struct {
	prefabs.EntitySpec
	kind  EnemyKind
	spawn EnemyKind
}

// ruleSet is prefabs.Rules with every name validated against the closed enums.
type ruleSet struct {
	*prefabs.Rules
	questions []questionRule
	themes    []themeRule
	entities  []*entityRule
	byKind    map[EnemyKind]*entityRule
}

func compileRules(r *prefabs.Rules) (*ruleSet, error) {
	rs := &ruleSet{Rules: r, byKind: map[EnemyKind]*entityRule{}}
	for _, q := range r.Questions {
		meta, err := ParseQMeta(q.Meta)
		if err != nil {
			return nil, err
		}
		rs.questions = append(rs.questions, questionRule{match: q.Match, meta: meta})
	}
	for _, t := range r.Themes {
		theme, err := ParseTheme(t.Theme)
		if err != nil {
			return nil, err
		}
		rs.themes = append(rs.themes, themeRule{match: t.Match, theme: theme})
	}
	for i, e := range r.Entities {
		kind, err := ParseEnemyKind(e.Kind)
		if err != nil {
			return nil, fmt.Errorf("entities[%d]: %w", i, err)
		}
		rule := &entityRule{EntitySpec: e, kind: kind}
		if e.Generator != nil {
			if rule.spawn, err = ParseEnemyKind(e.Generator.Spawn); err != nil {
				return nil, fmt.Errorf("entities[%d] generator: %w", i, err)
			}
		}
		rs.entities = append(rs.entities, rule)
		if _, ok := rs.byKind[kind]; !ok {
			rs.byKind[kind] = rule
		}
	}
	return rs, nil
}

func containsAny(s string, patterns []string) bool {
	for _, p := range patterns {
		if p != "" && strings.Contains(s, p) {
			return true
		}
	}
	return false
}

func (rs *ruleSet) questionMeta(path string) QMeta {
	for _, q := range rs.questions {
		if strings.Contains(path, q.match) {
			return q.meta
		}
	}
	return QCoin
}

// sceneTile maps the sub-scene behind a scene tile to its gameplay code.
// Unknown sub-scenes are plain solid blocks.
func (rs *ruleSet) sceneTile(path string) (TileCode, QMeta) {
	st := rs.SceneTiles
	switch {
	case path == "":
		return TileGround, QCoin
	case containsAny(path, st.Empty):
		return TileEmpty, QCoin
	case containsAny(path, st.Question):
		return TileQuestion, rs.questionMeta(path)
	case containsAny(path, st.Brick):
		return TileBrick, QCoin
	case containsAny(path, st.Coin):
		return TileCoin, QCoin
	}
	return TileGround, QCoin
}

// theme classifies a music resource path; first match wins.
func (rs *ruleSet) theme(music string) Theme {
	if music == "" {
		return ThemeOverworld
	}
	for _, t := range rs.themes {
		if containsAny(music, t.match) {
			return t.theme
		}
	}
	return ThemeOverworld
}

func (rs *ruleSet) entity(resource string) (*entityRule, bool) {
	for _, e := range rs.entities {
		if containsAny(resource, e.Match) {
			return e, true
		}
	}
	return nil, false
}

func (rs *ruleSet) isPipe(resource string) bool {
	return containsAny(resource, rs.Pipes.Areas) || containsAny(resource, rs.Pipes.Teleport)
}

func (rs *ruleSet) isTeleport(resource string) bool {
	return containsAny(resource, rs.Pipes.Teleport)
}
