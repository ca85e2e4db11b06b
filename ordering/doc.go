// Package ordering supplies the fill-reducing ordering collaborator of the
// factorization engine: a deterministic minimum-degree ordering over an
// undirected adjacency pattern, the column elimination tree of the ordered
// pattern, and a postorder of that tree.
//
// The engine hands this package the symmetrized pattern of the active
// submatrix (after singleton filtering) and receives back everything the
// symbolic analysis needs to carve the elimination sequence into fronts:
//
//	perm, iperm, err := ordering.MinimumDegree(n, ptr, ind)
//	parent, err := ordering.EliminationTree(n, ptr, ind, perm, iperm)
//	post, err := ordering.Postorder(parent)
//
// Determinism is part of the contract: ties in the degree selection are
// broken by the lowest vertex index, children in the postorder are visited
// in ascending order, and no step consults randomness or map iteration.
// Identical patterns therefore always produce identical orderings, which in
// turn makes the downstream factorization reproducible.
package ordering
