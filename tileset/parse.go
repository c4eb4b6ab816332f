package tileset

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"regexp"
	"strconv"
	"strings"
)

// Options controls tile-set classification.
type Options struct {
	// PhysicsLayer is the physics layer used for player collision; other
	// layers are ignored.
	PhysicsLayer int
	Kinds        []KindPattern
}

var (
	extIDRe      = regexp.MustCompile(`(?:^|\s)id="([^"]+)"`)
	extPathRe    = regexp.MustCompile(`(?:^|\s)path="([^"]+)"`)
	extUIDRe     = regexp.MustCompile(`(?:^|\s)uid="([^"]+)"`)
	subTypeRe    = regexp.MustCompile(`type="([^"]+)"`)
	extRefRe     = regexp.MustCompile(`ExtResource\(\s*"?([^")\s]+)"?\s*\)`)
	subRefRe     = regexp.MustCompile(`SubResource\(\s*"?([^")\s]+)"?\s*\)`)
	sourceLineRe = regexp.MustCompile(`^sources/(\d+)$`)
	sceneLineRe  = regexp.MustCompile(`^scenes/(\d+)/scene$`)
	physicsRe    = regexp.MustCompile(`^(\d+):(\d+)/\d+/physics_layer_(\d+)/polygon_\d+/(points|one_way)$`)
)

type subResource struct {
	typ     string
	texture string
	scenes  map[int]string
	// physics collected per tile before the source index is known
	physics map[[2]int]Collision
}

// ParseFile reads and classifies a tile-set definition.
func ParseFile(path string, opts Options) (*TileSet, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("tileset: open %s: %w", path, err)
	}
	defer f.Close()
	ts, err := Parse(f, opts)
	if err != nil {
		return nil, fmt.Errorf("tileset: parse %s: %w", path, err)
	}
	return ts, nil
}

// Parse classifies a tile-set definition given as a scene or resource file.
func Parse(r io.Reader, opts Options) (*TileSet, error) {
	ext := map[string]string{}
	subs := map[string]*subResource{}
	sources := map[int]string{}

	var cur *subResource
	sr := bufio.NewScanner(r)
	sr.Buffer(make([]byte, 0, 64*1024), 64*1024*1024)
	for sr.Scan() {
		line := strings.TrimSpace(sr.Text())
		if line == "" {
			continue
		}
		if strings.HasPrefix(line, "[") {
			cur = nil
			switch {
			case strings.HasPrefix(line, "[ext_resource"):
				id := extIDRe.FindStringSubmatch(line)
				if id == nil {
					continue
				}
				if p := extPathRe.FindStringSubmatch(line); p != nil {
					ext[id[1]] = p[1]
				} else if u := extUIDRe.FindStringSubmatch(line); u != nil {
					ext[id[1]] = u[1]
				}
			case strings.HasPrefix(line, "[sub_resource"):
				id := extIDRe.FindStringSubmatch(line)
				if id == nil {
					continue
				}
				typ := ""
				if m := subTypeRe.FindStringSubmatch(line); m != nil {
					typ = m[1]
				}
				cur = &subResource{typ: typ, scenes: map[int]string{}, physics: map[[2]int]Collision{}}
				subs[id[1]] = cur
			}
			continue
		}

		key, value, ok := strings.Cut(line, " = ")
		if !ok {
			continue
		}
		key = strings.TrimSpace(key)
		value = strings.TrimSpace(value)

		if m := sourceLineRe.FindStringSubmatch(key); m != nil {
			if ref := subRefRe.FindStringSubmatch(value); ref != nil {
				idx, _ := strconv.Atoi(m[1])
				sources[idx] = ref[1]
			}
			continue
		}
		if cur == nil {
			continue
		}

		switch {
		case key == "texture":
			if ref := extRefRe.FindStringSubmatch(value); ref != nil {
				cur.texture = ext[ref[1]]
			}
		case sceneLineRe.MatchString(key):
			m := sceneLineRe.FindStringSubmatch(key)
			if ref := extRefRe.FindStringSubmatch(value); ref != nil {
				id, _ := strconv.Atoi(m[1])
				cur.scenes[id] = ext[ref[1]]
			}
		case physicsRe.MatchString(key):
			m := physicsRe.FindStringSubmatch(key)
			layer, _ := strconv.Atoi(m[3])
			if layer != opts.PhysicsLayer {
				continue
			}
			x, _ := strconv.Atoi(m[1])
			y, _ := strconv.Atoi(m[2])
			k := [2]int{x, y}
			switch m[4] {
			case "points":
				if cur.physics[k] != CollideOneWay {
					cur.physics[k] = CollideSolid
				}
			case "one_way":
				if strings.EqualFold(value, "true") {
					cur.physics[k] = CollideOneWay
				}
			}
		}
	}
	if err := sr.Err(); err != nil {
		return nil, err
	}

	ts := newTileSet()
	for idx, subID := range sources {
		sub, ok := subs[subID]
		if !ok {
			continue
		}
		if strings.Contains(sub.typ, "ScenesCollection") {
			if ts.SceneSource < 0 || idx < ts.SceneSource {
				ts.SceneSource = idx
				ts.scenes = sub.scenes
			}
			continue
		}
		ts.textures[idx] = sub.texture
		ts.kinds[idx] = classify(sub.texture, opts.Kinds)
		for k, c := range sub.physics {
			ts.setCollision(idx, k[0], k[1], c)
		}
	}
	return ts, nil
}

func classify(texture string, patterns []KindPattern) Kind {
	if texture == "" {
		return KindNone
	}
	for _, p := range patterns {
		if p.Match != "" && strings.Contains(texture, p.Match) {
			return p.Kind
		}
	}
	return KindNone
}
