// SPDX-License-Identifier: MIT

// Package ordering: elimination tree and postorder.
// EliminationTree implements Liu's algorithm with path compression over the
// ordered symmetric pattern; Postorder produces the depth-first ordering the
// symbolic analysis relabels columns with.

package ordering

// EliminationTree computes the elimination tree of the symmetric pattern
// under the given ordering: parent[k] is the tree parent of the vertex
// eliminated at step k (in ordered positions), or -1 for a root.
//
// Implementation:
//   - Stage 1 (Validate): adjacency and permutation arguments.
//   - Stage 2 (Execute): Liu's algorithm; for each k and each neighbor with
//     a smaller ordered position, walk the ancestor chain with path
//     compression and graft the root onto k.
//
// Errors:
//   - ErrBadGraph, ErrOutOfRange, ErrBadPermutation.
//
// Determinism: neighbors are scanned in storage order; the result does not
// depend on that order (the tree is unique for a pattern and ordering).
//
// Complexity: near O(nnz * α(n)) with path compression.
func EliminationTree(n int, ptr, ind []int, perm, iperm []int) (parent []int, err error) {
	if err = validateGraph(n, ptr, ind); err != nil {
		return nil, err
	}
	if err = validatePermutation(n, perm, iperm); err != nil {
		return nil, err
	}

	parent = make([]int, n)
	ancestor := make([]int, n)
	var k, v, p, j, r, next int
	for k = 0; k < n; k++ {
		parent[k] = -1
		ancestor[k] = -1
		v = perm[k] // original vertex eliminated at step k
		for p = ptr[v]; p < ptr[v+1]; p++ {
			j = iperm[ind[p]]
			if j >= k {
				continue // only earlier-eliminated neighbors contribute
			}
			// Walk from j to its current root, compressing the path to k.
			r = j
			for ancestor[r] != -1 && ancestor[r] != k {
				next = ancestor[r]
				ancestor[r] = k
				r = next
			}
			if ancestor[r] == -1 {
				ancestor[r] = k
				parent[r] = k
			}
		}
	}

	return parent, nil
}

// Postorder returns a postorder of the forest described by parent (parent[k]
// is the parent position or -1). post[i] is the node visited i-th; children
// and roots are visited in ascending node order, so the result is unique.
//
// Errors:
//   - ErrBadGraph when parent references are out of range or self-referent.
//
// Complexity: O(n).
func Postorder(parent []int) (post []int, err error) {
	n := len(parent)
	// Children lists in ascending order: a single 0..n-1 append pass.
	head := make([]int, n)  // first child or -1
	sib := make([]int, n)   // next sibling or -1
	tail := make([]int, n)  // last child appended, for ascending links
	roots := make([]int, 0) // ascending root list
	var k int
	for k = 0; k < n; k++ {
		head[k], sib[k], tail[k] = -1, -1, -1
	}
	for k = 0; k < n; k++ {
		p := parent[k]
		if p == k || p < -1 || p >= n {
			return nil, ErrBadGraph
		}
		if p == -1 {
			roots = append(roots, k)
			continue
		}
		if head[p] == -1 {
			head[p] = k
		} else {
			sib[tail[p]] = k
		}
		tail[p] = k
	}

	// Iterative depth-first traversal emitting nodes on the way out.
	post = make([]int, 0, n)
	stack := make([]int, 0, n)
	cursor := make([]int, n) // next unvisited child per node
	copy(cursor, head)
	for _, r := range roots {
		stack = append(stack, r)
		for len(stack) > 0 {
			top := stack[len(stack)-1]
			if c := cursor[top]; c != -1 {
				cursor[top] = sib[c]
				stack = append(stack, c)
				continue
			}
			post = append(post, top)
			stack = stack[:len(stack)-1]
		}
	}
	if len(post) != n {
		return nil, ErrBadGraph // a cycle prevented full traversal
	}

	return post, nil
}

// validatePermutation checks that perm and iperm are mutually inverse
// bijections on [0, n).
func validatePermutation(n int, perm, iperm []int) error {
	if len(perm) != n || len(iperm) != n {
		return ErrBadPermutation
	}
	var k int
	for k = 0; k < n; k++ {
		if perm[k] < 0 || perm[k] >= n || iperm[perm[k]] != k {
			return ErrBadPermutation
		}
	}

	return nil
}
