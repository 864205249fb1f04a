// Package kdetect computes the detectors of a topological QEC computation.
//
// A computation is split into small windows of plaquettes stacked over a few
// rounds. The detectors ending on the central plaquette of each window are
// computed with an external flow matcher, cached in a kdb.Database, and
// reassembled into the detectors of the whole computation.
package kdetect
