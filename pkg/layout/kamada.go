package layout

import (
	"math"

	"github.com/egonet/egonet/pkg/graph"
)

// kamadaIterations bounds the stress-majorization loop. The layout converges
// well before this for neighborhood-sized graphs.
const kamadaIterations = 200

// kamadaKawai computes a stress-minimization layout: node distances in the
// drawing approximate their graph-theoretic (BFS) distances.
//
// Nodes start on a circle in sorted-ID order and are iteratively moved by
// SMACOF majorization with weights 1/d², which is deterministic (no random
// initialization involved). Disconnected components are held together by
// treating unreachable pairs as one hop further than the graph's diameter.
func kamadaKawai(g *graph.Graph) Positions {
	ids := g.Nodes()
	n := len(ids)

	switch n {
	case 0:
		return Positions{}
	case 1:
		return Positions{ids[0]: {X: 0.5, Y: 0.5}}
	}

	idx := make(map[string]int, n)
	for i, id := range ids {
		idx[id] = i
	}

	dist := allPairsBFS(g, ids, idx)

	// Circle initialization keeps the layout deterministic.
	px := make([]float64, n)
	py := make([]float64, n)
	for i := range ids {
		angle := 2 * math.Pi * float64(i) / float64(n)
		px[i] = 0.5 + 0.5*math.Cos(angle)
		py[i] = 0.5 + 0.5*math.Sin(angle)
	}

	nx := make([]float64, n)
	ny := make([]float64, n)

	for iter := 0; iter < kamadaIterations; iter++ {
		for i := 0; i < n; i++ {
			var sumX, sumY, sumW float64
			for j := 0; j < n; j++ {
				if i == j {
					continue
				}
				dij := dist[i][j]
				w := 1 / (dij * dij)
				ddx := px[i] - px[j]
				ddy := py[i] - py[j]
				d := math.Hypot(ddx, ddy)
				if d < minSeparation {
					d = minSeparation
				}
				sumX += w * (px[j] + dij*ddx/d)
				sumY += w * (py[j] + dij*ddy/d)
				sumW += w
			}
			nx[i] = sumX / sumW
			ny[i] = sumY / sumW
		}
		copy(px, nx)
		copy(py, ny)
	}

	pos := make(Positions, n)
	for i, id := range ids {
		pos[id] = Point{X: px[i], Y: py[i]}
	}
	return rescale(pos)
}

// allPairsBFS returns the hop-count distance matrix over ids.
// Unreachable pairs get diameter+1 so separate components stay near each
// other instead of flying apart.
func allPairsBFS(g *graph.Graph, ids []string, idx map[string]int) [][]float64 {
	n := len(ids)
	const unreachable = -1

	dist := make([][]float64, n)
	maxFinite := 1.0
	for i, src := range ids {
		row := make([]float64, n)
		for j := range row {
			row[j] = unreachable
		}
		row[i] = 0

		queue := []string{src}
		for len(queue) > 0 {
			cur := queue[0]
			queue = queue[1:]
			for _, nb := range g.Neighbors(cur) {
				j := idx[nb]
				if row[j] != unreachable {
					continue
				}
				row[j] = row[idx[cur]] + 1
				maxFinite = math.Max(maxFinite, row[j])
				queue = append(queue, nb)
			}
		}
		dist[i] = row
	}

	for i := range dist {
		for j := range dist[i] {
			if dist[i][j] == unreachable {
				dist[i][j] = maxFinite + 1
			}
		}
	}
	return dist
}
