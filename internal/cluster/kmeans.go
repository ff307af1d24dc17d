// Package cluster implements centroid-based partitioning of embedding vectors.
// It is deliberately small: fixed k, deterministic seed, Euclidean distance.
package cluster

import (
	"fmt"
	"math"
	"math/rand"
)

const (
	defaultSeed   = 42
	maxIterations = 100
)

// KMeans partitions vectors into at most k groups and returns, for each input
// vector, the id of its nearest centroid (0..k-1). Ids are assigned in centroid
// order, so for a given input the assignment is fully deterministic.
//
// When there are fewer vectors than k, every vector gets its own cluster and
// the number of distinct ids equals the number of vectors.
func KMeans(vectors [][]float32, k int) ([]int, error) {
	if k < 1 {
		return nil, fmt.Errorf("cluster count must be at least 1, got %d", k)
	}
	if len(vectors) == 0 {
		return []int{}, nil
	}
	dim := len(vectors[0])
	for i, v := range vectors {
		if len(v) != dim {
			return nil, fmt.Errorf("vector %d has dimension %d, expected %d", i, len(v), dim)
		}
	}
	if k > len(vectors) {
		k = len(vectors)
	}

	rng := rand.New(rand.NewSource(defaultSeed))
	centroids := initCentroids(vectors, k, rng)
	assign := make([]int, len(vectors))

	for iter := 0; iter < maxIterations; iter++ {
		changed := false
		for i, v := range vectors {
			best := nearest(v, centroids)
			if assign[i] != best {
				assign[i] = best
				changed = true
			}
		}
		if !changed && iter > 0 {
			break
		}
		recompute(vectors, assign, centroids, rng)
	}
	return assign, nil
}

// initCentroids seeds centroids k-means++ style: first pick is random, each
// following pick favors points far from the centroids chosen so far.
func initCentroids(vectors [][]float32, k int, rng *rand.Rand) [][]float64 {
	centroids := make([][]float64, 0, k)
	first := rng.Intn(len(vectors))
	centroids = append(centroids, toFloat64(vectors[first]))

	for len(centroids) < k {
		dists := make([]float64, len(vectors))
		var total float64
		for i, v := range vectors {
			d := math.MaxFloat64
			for _, c := range centroids {
				if dd := sqDist(v, c); dd < d {
					d = dd
				}
			}
			dists[i] = d
			total += d
		}
		if total == 0 {
			// All remaining points coincide with a centroid; pick any.
			centroids = append(centroids, toFloat64(vectors[rng.Intn(len(vectors))]))
			continue
		}
		target := rng.Float64() * total
		var acc float64
		pick := len(vectors) - 1
		for i, d := range dists {
			acc += d
			if acc >= target {
				pick = i
				break
			}
		}
		centroids = append(centroids, toFloat64(vectors[pick]))
	}
	return centroids
}

func recompute(vectors [][]float32, assign []int, centroids [][]float64, rng *rand.Rand) {
	dim := len(centroids[0])
	counts := make([]int, len(centroids))
	sums := make([][]float64, len(centroids))
	for i := range sums {
		sums[i] = make([]float64, dim)
	}
	for i, v := range vectors {
		c := assign[i]
		counts[c]++
		for j, x := range v {
			sums[c][j] += float64(x)
		}
	}
	for c := range centroids {
		if counts[c] == 0 {
			// Empty cluster: reseed from a random point to keep k groups alive.
			centroids[c] = toFloat64(vectors[rng.Intn(len(vectors))])
			continue
		}
		for j := range centroids[c] {
			centroids[c][j] = sums[c][j] / float64(counts[c])
		}
	}
}

func nearest(v []float32, centroids [][]float64) int {
	best := 0
	bestDist := math.MaxFloat64
	for i, c := range centroids {
		if d := sqDist(v, c); d < bestDist {
			bestDist = d
			best = i
		}
	}
	return best
}

func sqDist(v []float32, c []float64) float64 {
	var sum float64
	for i := range v {
		d := float64(v[i]) - c[i]
		sum += d * d
	}
	return sum
}

func toFloat64(v []float32) []float64 {
	out := make([]float64, len(v))
	for i, x := range v {
		out[i] = float64(x)
	}
	return out
}
