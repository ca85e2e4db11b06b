// SPDX-License-Identifier: MIT

package paru

// Release identification, queryable at run time.
const (
	VersionMajor = 1
	VersionMinor = 0
	VersionPatch = 0
	VersionDate  = "2026-08-30"
)

// Version reports the release as {major, minor, patch} plus its date.
func Version() ([3]int, string) {
	return [3]int{VersionMajor, VersionMinor, VersionPatch}, VersionDate
}
