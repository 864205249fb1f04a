// Package kgeom holds the small geometric value types shared by the detector
// computation packages: qubit positions, plaquette positions, spatial shifts,
// detector coordinates and dense 2D integer grids of plaquette indices.
//
// All types are plain values. Methods never mutate their receiver; shifting
// or cropping returns a new value.
package kgeom
