package clusterone

import (
	"math/rand"

	"github.com/dd0wney/cluso-cohesion/pkg/graph"
)

// randomGraph builds a reproducible Erdős–Rényi graph with weights in (0,1].
func randomGraph(n int, p float64, seed int64) *graph.Graph {
	rng := rand.New(rand.NewSource(seed))
	b, err := graph.NewBuilder(n)
	if err != nil {
		panic(err)
	}
	for u := 0; u < n; u++ {
		for v := u + 1; v < n; v++ {
			if rng.Float64() < p {
				if err := b.AddEdge(u, v, 1-rng.Float64()); err != nil {
					panic(err)
				}
			}
		}
	}
	return b.Build()
}
