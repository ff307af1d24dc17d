package cluster

import (
	"testing"
)

func TestKMeans_BoundedClusterCount(t *testing.T) {
	vectors := [][]float32{
		{0, 0}, {0.1, 0}, {0, 0.1},
		{10, 10}, {10.1, 10}, {10, 10.1},
	}
	for _, k := range []int{1, 2, 3, 6} {
		assign, err := KMeans(vectors, k)
		if err != nil {
			t.Fatalf("KMeans(k=%d) error = %v", k, err)
		}
		if len(assign) != len(vectors) {
			t.Fatalf("expected %d assignments, got %d", len(vectors), len(assign))
		}
		distinct := map[int]struct{}{}
		for _, c := range assign {
			if c < 0 || c >= k {
				t.Errorf("k=%d: cluster id %d out of range", k, c)
			}
			distinct[c] = struct{}{}
		}
		if len(distinct) > k {
			t.Errorf("k=%d: got %d distinct clusters", k, len(distinct))
		}
	}
}

func TestKMeans_SeparatesObviousGroups(t *testing.T) {
	vectors := [][]float32{
		{0, 0}, {0.2, 0.1}, {0.1, 0.2},
		{50, 50}, {50.2, 50.1}, {50.1, 50.2},
	}
	assign, err := KMeans(vectors, 2)
	if err != nil {
		t.Fatalf("KMeans() error = %v", err)
	}
	if assign[0] != assign[1] || assign[1] != assign[2] {
		t.Errorf("first group split across clusters: %v", assign)
	}
	if assign[3] != assign[4] || assign[4] != assign[5] {
		t.Errorf("second group split across clusters: %v", assign)
	}
	if assign[0] == assign[3] {
		t.Errorf("distant groups merged into one cluster: %v", assign)
	}
}

func TestKMeans_Deterministic(t *testing.T) {
	vectors := [][]float32{
		{1, 2}, {2, 1}, {8, 9}, {9, 8}, {4, 5}, {5, 4},
	}
	first, err := KMeans(vectors, 3)
	if err != nil {
		t.Fatalf("KMeans() error = %v", err)
	}
	for i := 0; i < 5; i++ {
		again, err := KMeans(vectors, 3)
		if err != nil {
			t.Fatalf("KMeans() error = %v", err)
		}
		for j := range first {
			if first[j] != again[j] {
				t.Fatalf("run %d differs at %d: %v vs %v", i, j, first, again)
			}
		}
	}
}

func TestKMeans_MoreClustersThanPoints(t *testing.T) {
	vectors := [][]float32{{1, 1}, {2, 2}}
	assign, err := KMeans(vectors, 6)
	if err != nil {
		t.Fatalf("KMeans() error = %v", err)
	}
	if len(assign) != 2 {
		t.Fatalf("expected 2 assignments, got %d", len(assign))
	}
	for _, c := range assign {
		if c < 0 || c >= 2 {
			t.Errorf("cluster id %d out of range for capped k", c)
		}
	}
}

func TestKMeans_InvalidInput(t *testing.T) {
	if _, err := KMeans([][]float32{{1}}, 0); err == nil {
		t.Error("expected error for k=0")
	}
	if _, err := KMeans([][]float32{{1, 2}, {1}}, 1); err == nil {
		t.Error("expected error for ragged vectors")
	}
	assign, err := KMeans(nil, 3)
	if err != nil {
		t.Fatalf("KMeans(empty) error = %v", err)
	}
	if len(assign) != 0 {
		t.Errorf("expected no assignments for empty input, got %v", assign)
	}
}
