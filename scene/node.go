package scene

// Opt is a field that is unset unless the attribute line was present.
type Opt[T any] struct {
	V   T
	Set bool
}

func Some[T any](v T) Opt[T] {
	return Opt[T]{V: v, Set: true}
}

// Or returns the value when set, fallback otherwise.
func (o Opt[T]) Or(fallback T) T {
	if o.Set {
		return o.V
	}
	return fallback
}

// coalesce returns over when it is set and base otherwise.
func coalesce[T any](base, over Opt[T]) Opt[T] {
	if over.Set {
		return over
	}
	return base
}

type Vec2 struct {
	X, Y float64
}

// Node is one scene-graph element.
type Node struct {
	Name   string
	Parent string
	Type   string
	// Instance is the resource path of the instanced scene, if any.
	Instance Opt[string]
	Position Opt[Vec2]
	TileData Opt[string]
	Music    Opt[string]

	PipeID         Opt[int]
	ExitOnly       bool
	TargetLevel    Opt[string]
	TargetSubLevel Opt[int]
	EnterDirection Opt[int]
	ConnectingPipe Opt[string]

	VerticalDirection Opt[int]
	Top               Opt[float64]
	LinkedPlatform    Opt[string]
	RopeTop           Opt[float64]

	PrimaryLayer   Opt[int]
	SecondaryLayer Opt[int]
	Clouds         Opt[bool]
	Particles      Opt[int]
}

// NodeKey identifies a node within a scene graph. The root is keyed by an
// empty path regardless of its name, since inheriting scenes rename it.
type NodeKey struct {
	Parent string
	Name   string
}

func (n *Node) Key() NodeKey {
	if n.Parent == "" {
		return NodeKey{}
	}
	return NodeKey{Parent: n.Parent, Name: n.Name}
}

// Path returns the node path relative to the scene root.
func (n *Node) Path() string {
	switch n.Parent {
	case "":
		return "."
	case ".":
		return n.Name
	default:
		return n.Parent + "/" + n.Name
	}
}

// Under reports whether the node sits at or below the named top-level branch.
func (n *Node) Under(branch string) bool {
	if branch == "" {
		return false
	}
	p := n.Path()
	return p == branch || len(p) > len(branch) && p[:len(branch)+1] == branch+"/"
}
