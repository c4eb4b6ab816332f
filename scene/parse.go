package scene

import (
	"bufio"
	"bytes"
	"encoding/base64"
	"fmt"
	"io"
	"os"
	"regexp"
	"strconv"
	"strings"
)

// ExtResource is an external resource declaration.
type ExtResource struct {
	ID   string
	UID  string
	Path string
}

// Ref returns the preferred address of the resource: the direct path when
// present, the content id otherwise.
func (e ExtResource) Ref() string {
	if e.Path != "" {
		return e.Path
	}
	return e.UID
}

// Scene is one parsed scene file.
type Scene struct {
	// File is the filesystem path the scene was read from.
	File string
	UID  string
	// Inherits addresses the base scene of an inherited scene.
	Inherits Opt[string]
	Ext      map[string]ExtResource
	Nodes    []Node
}

// Music returns the first music resource declared by any node.
func (s *Scene) Music() string {
	for i := range s.Nodes {
		if s.Nodes[i].Music.Set {
			return s.Nodes[i].Music.V
		}
	}
	return ""
}

var (
	headerAttrRes = map[string]*regexp.Regexp{}
	extRefRe      = regexp.MustCompile(`ExtResource\(\s*"?([^")\s]+)"?\s*\)`)
	nodePathRe    = regexp.MustCompile(`NodePath\(\s*"([^"]*)"\s*\)`)
	vector2Re     = regexp.MustCompile(`^Vector2i?\(\s*([^,]+),\s*([^)]+)\)$`)
	packedQuoted  = regexp.MustCompile(`^PackedByteArray\(\s*"([^"]*)"\s*\)$`)
	packedList    = regexp.MustCompile(`^PackedByteArray\(([^)]*)\)$`)
)

func init() {
	for _, k := range []string{"name", "parent", "type", "uid", "path", "id"} {
		headerAttrRes[k] = regexp.MustCompile(`(?:^|[\s\[])` + k + `="([^"]*)"`)
	}
}

func headerAttr(line, key string) (string, bool) {
	m := headerAttrRes[key].FindStringSubmatch(line)
	if m == nil {
		return "", false
	}
	return m[1], true
}

// ParseFile reads and parses a scene file.
func ParseFile(path string) (*Scene, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("scene: read %s: %w", path, err)
	}
	sc, err := Parse(bytes.NewReader(b))
	if err != nil {
		return nil, fmt.Errorf("scene: parse %s: %w", path, err)
	}
	sc.File = path
	return sc, nil
}

// Parse parses scene text into a flat node list. Instance references are
// resolved through the scene's own external resource table.
func Parse(r io.Reader) (*Scene, error) {
	sc := &Scene{Ext: map[string]ExtResource{}}
	var cur *Node

	sr := bufio.NewScanner(r)
	sr.Buffer(make([]byte, 0, 64*1024), 64*1024*1024)
	lineNo := 0
	for sr.Scan() {
		lineNo++
		line := strings.TrimSpace(sr.Text())
		if line == "" {
			continue
		}

		if strings.HasPrefix(line, "[") {
			cur = nil
			switch {
			case strings.HasPrefix(line, "[gd_scene"):
				sc.UID, _ = headerAttr(line, "uid")
			case strings.HasPrefix(line, "[ext_resource"):
				id, ok := headerAttr(line, "id")
				if !ok {
					continue
				}
				uid, _ := headerAttr(line, "uid")
				path, _ := headerAttr(line, "path")
				sc.Ext[id] = ExtResource{ID: id, UID: uid, Path: path}
			case strings.HasPrefix(line, "[node "):
				cur = sc.parseNodeHeader(line)
			}
			continue
		}

		if cur == nil {
			continue
		}
		key, value, ok := strings.Cut(line, " = ")
		if !ok {
			continue
		}
		if err := sc.applyAttr(cur, strings.TrimSpace(key), strings.TrimSpace(value)); err != nil {
			return nil, fmt.Errorf("line %d: %w", lineNo, err)
		}
	}
	if err := sr.Err(); err != nil {
		return nil, err
	}
	return sc, nil
}

func (sc *Scene) parseNodeHeader(line string) *Node {
	n := Node{}
	n.Name, _ = headerAttr(line, "name")
	n.Parent, _ = headerAttr(line, "parent")
	n.Type, _ = headerAttr(line, "type")

	if i := strings.Index(line, "instance="); i >= 0 {
		if m := extRefRe.FindStringSubmatch(line[i:]); m != nil {
			if ext, ok := sc.Ext[m[1]]; ok {
				if n.Parent == "" {
					// the root instancing a scene means this scene inherits it
					sc.Inherits = Some(ext.Ref())
				} else {
					n.Instance = Some(ext.Ref())
				}
			}
		}
	}

	sc.Nodes = append(sc.Nodes, n)
	return &sc.Nodes[len(sc.Nodes)-1]
}

func (sc *Scene) applyAttr(n *Node, key, value string) error {
	var err error
	switch key {
	case "position":
		var v Vec2
		v, err = parseVector2(value)
		n.Position = Some(v)
	case "tile_map_data":
		var payload string
		payload, err = parsePackedBytes(value)
		n.TileData = Some(payload)
	case "music":
		if ref, ok := sc.extRef(value); ok {
			n.Music = Some(ref)
		}
	case "pipe_id":
		n.PipeID, err = parseInt(value)
	case "exit_only":
		n.ExitOnly = strings.EqualFold(value, "true")
	case "target_level":
		if ref, ok := sc.extRef(value); ok {
			n.TargetLevel = Some(ref)
		} else {
			n.TargetLevel = Some(strings.Trim(value, `"`))
		}
	case "target_sub_level":
		n.TargetSubLevel, err = parseInt(value)
	case "enter_direction":
		n.EnterDirection, err = parseInt(value)
	case "connecting_pipe":
		if name, ok := nodePathName(value); ok {
			n.ConnectingPipe = Some(name)
		}
	case "vertical_direction":
		n.VerticalDirection, err = parseInt(value)
	case "top":
		n.Top, err = parseFloat(value)
	case "linked_platform":
		if name, ok := nodePathName(value); ok {
			n.LinkedPlatform = Some(name)
		}
	case "rope_top":
		n.RopeTop, err = parseFloat(value)
	case "primary_layer":
		n.PrimaryLayer, err = parseInt(value)
	case "second_layer":
		n.SecondaryLayer, err = parseInt(value)
	case "overlay_clouds":
		n.Clouds = Some(strings.EqualFold(value, "true"))
	case "particles":
		n.Particles, err = parseInt(value)
	}
	if err != nil {
		return fmt.Errorf("%s: %w", key, err)
	}
	return nil
}

func (sc *Scene) extRef(value string) (string, bool) {
	m := extRefRe.FindStringSubmatch(value)
	if m == nil {
		return "", false
	}
	ext, ok := sc.Ext[m[1]]
	if !ok {
		return "", false
	}
	return ext.Ref(), true
}

// nodePathName returns the last segment of a NodePath literal.
func nodePathName(value string) (string, bool) {
	m := nodePathRe.FindStringSubmatch(value)
	if m == nil || m[1] == "" {
		return "", false
	}
	p := m[1]
	if i := strings.LastIndex(p, "/"); i >= 0 {
		p = p[i+1:]
	}
	return p, p != ""
}

func parseVector2(value string) (Vec2, error) {
	m := vector2Re.FindStringSubmatch(value)
	if m == nil {
		return Vec2{}, fmt.Errorf("malformed vector %q", value)
	}
	x, err := strconv.ParseFloat(strings.TrimSpace(m[1]), 64)
	if err != nil {
		return Vec2{}, fmt.Errorf("malformed vector %q: %w", value, err)
	}
	y, err := strconv.ParseFloat(strings.TrimSpace(m[2]), 64)
	if err != nil {
		return Vec2{}, fmt.Errorf("malformed vector %q: %w", value, err)
	}
	return Vec2{X: x, Y: y}, nil
}

// parsePackedBytes accepts both the base64 and the comma-separated literal
// forms and always returns base64.
func parsePackedBytes(value string) (string, error) {
	if m := packedQuoted.FindStringSubmatch(value); m != nil {
		return m[1], nil
	}
	m := packedList.FindStringSubmatch(value)
	if m == nil {
		return "", fmt.Errorf("malformed byte array")
	}
	var raw []byte
	for _, f := range strings.Split(m[1], ",") {
		f = strings.TrimSpace(f)
		if f == "" {
			continue
		}
		b, err := strconv.ParseUint(f, 10, 8)
		if err != nil {
			return "", fmt.Errorf("malformed byte array: %w", err)
		}
		raw = append(raw, byte(b))
	}
	return base64.StdEncoding.EncodeToString(raw), nil
}

func parseInt(value string) (Opt[int], error) {
	v, err := strconv.Atoi(value)
	if err != nil {
		return Opt[int]{}, err
	}
	return Some(v), nil
}

func parseFloat(value string) (Opt[float64], error) {
	v, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return Opt[float64]{}, err
	}
	return Some(v), nil
}
