// SPDX-License-Identifier: MIT

// Package ordering: deterministic minimum-degree ordering.
// The elimination graph is kept explicitly as per-vertex neighbor slices;
// eliminating a vertex turns its neighborhood into a clique. This is the
// textbook algorithm rather than an approximate multiple-elimination
// variant: the engine orders the (already singleton-filtered) active
// pattern, where predictability matters more than the last constant factor.

package ordering

// validateGraph checks the CSR-style adjacency arrays for n vertices.
func validateGraph(n int, ptr, ind []int) error {
	if n < 0 || len(ptr) != n+1 || ptr[0] != 0 {
		return ErrBadGraph
	}
	var v int
	for v = 0; v < n; v++ {
		if ptr[v+1] < ptr[v] {
			return ErrBadGraph
		}
	}
	if len(ind) < ptr[n] {
		return ErrBadGraph
	}
	var p int
	for p = 0; p < ptr[n]; p++ {
		if ind[p] < 0 || ind[p] >= n {
			return ErrOutOfRange
		}
	}

	return nil
}

// MinimumDegree computes a fill-reducing elimination order of an undirected
// pattern given in CSR-style adjacency arrays (ptr of length n+1, neighbor
// lists in ind; self loops are ignored, duplicates tolerated).
//
// Implementation:
//   - Stage 1 (Validate): adjacency arrays via validateGraph.
//   - Stage 2 (Prepare): copy neighbor lists, dropping self loops and
//     duplicates, so the elimination graph can be mutated freely.
//   - Stage 3 (Execute): repeatedly eliminate the alive vertex of minimum
//     degree (lowest index on ties), merging its neighborhood into a clique.
//
// Returns:
//   - perm: perm[k] is the vertex eliminated at step k.
//   - iperm: the inverse, iperm[perm[k]] == k.
//
// Errors:
//   - ErrBadGraph, ErrOutOfRange.
//
// Determinism:
//   - The selection scan runs 0..n-1 and strict '<' keeps the lowest index
//     on equal degrees; clique merging appends in neighbor-list order.
//
// Complexity:
//   - O(n^2) selection plus clique-merge work bounded by the fill produced;
//     adequate for the per-pattern, once-per-analysis call site.
func MinimumDegree(n int, ptr, ind []int) (perm, iperm []int, err error) {
	if err = validateGraph(n, ptr, ind); err != nil {
		return nil, nil, err
	}

	// Mutable neighbor lists without self loops or duplicates.
	adj := make([][]int, n)
	mark := make([]int, n) // mark[v] == stamp when v is in the current set
	for i := range mark {
		mark[i] = -1
	}
	var v, p, u int
	for v = 0; v < n; v++ {
		lst := make([]int, 0, ptr[v+1]-ptr[v])
		for p = ptr[v]; p < ptr[v+1]; p++ {
			u = ind[p]
			if u == v || mark[u] == v {
				continue
			}
			mark[u] = v
			lst = append(lst, u)
		}
		adj[v] = lst
	}
	for i := range mark {
		mark[i] = -1
	}

	perm = make([]int, n)
	iperm = make([]int, n)
	alive := make([]bool, n)
	for v = 0; v < n; v++ {
		alive[v] = true
	}

	var k, best, bestDeg, deg, w int
	for k = 0; k < n; k++ {
		// Select the alive vertex of minimum current degree.
		best = -1
		bestDeg = n + 1
		for v = 0; v < n; v++ {
			if !alive[v] {
				continue
			}
			deg = len(adj[v])
			if deg < bestDeg {
				best, bestDeg = v, deg
			}
		}
		perm[k] = best
		iperm[best] = k
		alive[best] = false

		// Merge the neighborhood of the pivot into a clique.
		nbrs := adj[best]
		for _, u = range nbrs {
			if !alive[u] {
				continue
			}
			// Rebuild adj[u]: keep alive neighbors except the pivot, then
			// append the pivot's remaining neighbors not already present.
			lst := adj[u][:0]
			for _, w = range adj[u] {
				if w == best || !alive[w] {
					continue
				}
				mark[w] = u // stamp membership; cleared below
				lst = append(lst, w)
			}
			for _, w = range nbrs {
				if w == u || !alive[w] || mark[w] == u {
					continue
				}
				mark[w] = u
				lst = append(lst, w)
			}
			// Clear stamps touched for vertex u.
			for _, w = range lst {
				mark[w] = -1
			}
			adj[u] = lst
		}
		adj[best] = nil // release pivot storage eagerly
	}

	return perm, iperm, nil
}
