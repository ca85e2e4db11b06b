// SPDX-License-Identifier: MIT
// Package front: sentinel error set.

package front

import "errors"

var (
	// ErrNilBlock indicates a nil *Block or nil Config argument.
	ErrNilBlock = errors.New("front: nil block")

	// ErrBadShape is returned when block dimensions, backing length, or the
	// pivot count are inconsistent.
	ErrBadShape = errors.New("front: invalid shape")

	// ErrTooLarge signals a front whose dimension exceeds the dense kernel's
	// safe addressing range.
	ErrTooLarge = errors.New("front: dimension exceeds dense kernel range")
)
