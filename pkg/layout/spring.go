package layout

import (
	"math"
	"math/rand/v2"

	"github.com/egonet/egonet/pkg/graph"
)

// minSeparation avoids division blow-ups for coincident nodes.
const minSeparation = 0.01

// spring computes a Fruchterman-Reingold force-directed layout.
//
// Nodes repel each other with force k²/d and adjacent nodes attract with
// force d²/k, where d is their current distance and k the optimal spacing.
// Displacement per step is limited by a temperature that cools linearly to
// zero over the iteration count, so the layout settles.
//
// Iteration order is over sorted node IDs and the initial placement is
// seeded, so the result is deterministic for a given graph, k, iteration
// count, and seed.
func spring(g *graph.Graph, k float64, iterations int, seed uint64) Positions {
	ids := g.Nodes()
	n := len(ids)

	switch n {
	case 0:
		return Positions{}
	case 1:
		return Positions{ids[0]: {X: 0.5, Y: 0.5}}
	}

	if k <= 0 {
		k = 1 / math.Sqrt(float64(n))
	}

	rng := rand.New(rand.NewPCG(seed, seed))
	px := make([]float64, n)
	py := make([]float64, n)
	for i := range ids {
		px[i] = rng.Float64()
		py[i] = rng.Float64()
	}

	idx := make(map[string]int, n)
	for i, id := range ids {
		idx[id] = i
	}
	edges := g.Edges()

	// Initial temperature is a tenth of the frame, as in the classic
	// formulation; it cools to zero over the run.
	t := 0.1
	dt := t / float64(iterations+1)

	dx := make([]float64, n)
	dy := make([]float64, n)

	for iter := 0; iter < iterations; iter++ {
		for i := range dx {
			dx[i], dy[i] = 0, 0
		}

		// Repulsion between every pair.
		for i := 0; i < n; i++ {
			for j := i + 1; j < n; j++ {
				ddx := px[i] - px[j]
				ddy := py[i] - py[j]
				d := math.Max(math.Hypot(ddx, ddy), minSeparation)
				f := k * k / (d * d)
				dx[i] += ddx * f
				dy[i] += ddy * f
				dx[j] -= ddx * f
				dy[j] -= ddy * f
			}
		}

		// Attraction along edges.
		for _, e := range edges {
			i, j := idx[e.A], idx[e.B]
			if i == j {
				continue
			}
			ddx := px[i] - px[j]
			ddy := py[i] - py[j]
			d := math.Max(math.Hypot(ddx, ddy), minSeparation)
			f := d / k
			dx[i] -= ddx * f
			dy[i] -= ddy * f
			dx[j] += ddx * f
			dy[j] += ddy * f
		}

		// Move each node, capped by the current temperature.
		for i := 0; i < n; i++ {
			disp := math.Hypot(dx[i], dy[i])
			if disp < minSeparation {
				continue
			}
			scale := math.Min(disp, t) / disp
			px[i] += dx[i] * scale
			py[i] += dy[i] * scale
		}
		t -= dt
	}

	pos := make(Positions, n)
	for i, id := range ids {
		pos[id] = Point{X: px[i], Y: py[i]}
	}
	return rescale(pos)
}
