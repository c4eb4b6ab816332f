package scene

// MergeNode copies every field explicitly set on over onto a copy of base.
// ExitOnly merges true-wins.
func MergeNode(base, over Node) Node {
	out := base
	if over.Type != "" {
		out.Type = over.Type
	}
	out.Instance = coalesce(base.Instance, over.Instance)
	out.Position = coalesce(base.Position, over.Position)
	out.TileData = coalesce(base.TileData, over.TileData)
	out.Music = coalesce(base.Music, over.Music)

	out.PipeID = coalesce(base.PipeID, over.PipeID)
	out.ExitOnly = base.ExitOnly || over.ExitOnly
	out.TargetLevel = coalesce(base.TargetLevel, over.TargetLevel)
	out.TargetSubLevel = coalesce(base.TargetSubLevel, over.TargetSubLevel)
	out.EnterDirection = coalesce(base.EnterDirection, over.EnterDirection)
	out.ConnectingPipe = coalesce(base.ConnectingPipe, over.ConnectingPipe)

	out.VerticalDirection = coalesce(base.VerticalDirection, over.VerticalDirection)
	out.Top = coalesce(base.Top, over.Top)
	out.LinkedPlatform = coalesce(base.LinkedPlatform, over.LinkedPlatform)
	out.RopeTop = coalesce(base.RopeTop, over.RopeTop)

	out.PrimaryLayer = coalesce(base.PrimaryLayer, over.PrimaryLayer)
	out.SecondaryLayer = coalesce(base.SecondaryLayer, over.SecondaryLayer)
	out.Clouds = coalesce(base.Clouds, over.Clouds)
	out.Particles = coalesce(base.Particles, over.Particles)
	return out
}

// Merge flattens an override node list onto a base node list. Override nodes
// whose key matches a base node are merged into it; the rest are appended.
func Merge(base, override []Node) []Node {
	out := make([]Node, len(base), len(base)+len(override))
	copy(out, base)

	index := make(map[NodeKey]int, len(out))
	for i := range out {
		k := out[i].Key()
		if _, ok := index[k]; !ok {
			index[k] = i
		}
	}

	for _, n := range override {
		k := n.Key()
		if i, ok := index[k]; ok {
			out[i] = MergeNode(out[i], n)
			continue
		}
		index[k] = len(out)
		out = append(out, n)
	}
	return out
}
