// Package front implements the dense frontal kernel of the multifrontal
// factorization: panel LU of one assembled front with threshold partial
// pivoting, producing the front's L and U blocks and its trailing Schur
// complement in place.
//
// A front arrives as a row-major dense block. Its first npiv columns are the
// pivot columns; its first npiv rows are the fully summed rows, the only
// rows a pivot may be chosen from. The kernel factorizes the pivot columns
// in panels of a configured width:
//
//   - inside a panel, each column is searched for a pivot (threshold rule,
//     optional diagonal preference, lowest-index tie-break), rows are
//     swapped, the column is scaled, and a rank-1 update is applied to the
//     rest of the panel;
//   - when a panel closes, the row block to its right is solved against the
//     panel's unit-lower triangle and the trailing block receives one
//     matrix-matrix update.
//
// The two panel-close operations are where the external dense-kernel
// collaborator (gonum BLAS) comes in. Updates at or below the trivial
// threshold run as plain loops to avoid call overhead; larger ones go to
// blas64; the largest are additionally split into independent column strips
// executed by a bounded task group. Strips are disjoint, so the result is
// identical whatever the worker count.
package front
