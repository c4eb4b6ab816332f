package levels

import (
	"math"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/levelc/common"
)

const (
	probeGravity = 900.0
	probeSize    = 14.0
	probeStep    = 1.0 / 60.0
	// DefaultProbeSteps is four seconds of simulated fall.
	DefaultProbeSteps = 240
)

// ProbeResult is where a body dropped at a section's spawn came to rest.
type ProbeResult struct {
	X, Y float64
	// Landed is false when the body fell below the bottom of the grid.
	Landed bool
}

// ProbeSpawn drops a player-sized body at the spawn point onto the merged
// solid colliders and reports where it ends up.
func ProbeSpawn(s *Section, steps int) ProbeResult {
	if steps <= 0 {
		steps = DefaultProbeSteps
	}
	space := cp.NewSpace()
	space.Iterations = 20
	space.SetGravity(cp.Vector{X: 0, Y: probeGravity})

	for _, r := range s.Colliders {
		x, y, w, h := r.Pixels()
		bb := cp.BB{L: x, B: y, R: x + w, T: y + h}
		shape := cp.NewBox2(space.StaticBody, bb, 0)
		shape.SetFriction(0.9)
		space.AddShape(shape)
	}

	body := cp.NewBody(1, math.Inf(1))
	body.SetPosition(cp.Vector{
		X: float64(s.StartX) + common.TileSize/2,
		Y: float64(s.StartY) + common.TileSize - probeSize/2,
	})
	space.AddBody(body)
	shape := cp.NewBox(body, probeSize, probeSize, 0)
	shape.SetFriction(0.8)
	space.AddShape(shape)

	floor := float64(common.MapH * common.TileSize)
	for i := 0; i < steps; i++ {
		space.Step(probeStep)
		if body.Position().Y-probeSize/2 > floor {
			break
		}
	}

	pos := body.Position()
	return ProbeResult{X: pos.X, Y: pos.Y, Landed: pos.Y-probeSize/2 <= floor}
}
