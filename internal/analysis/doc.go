// Package analysis provides spectral analysis of recorded trajectories.
//
// The package works on uniformly sampled observable columns:
//
//   - [PowerSpectrum]: magnitude spectrum of a real signal
//   - [DominantFrequency]: strongest oscillation frequency of a signal
//
// # Oscillation Detection
//
// A trapped wave packet sloshing at angular frequency omega shows up as a
// peak at omega/(2 pi) cycles per unit time:
//
//	f, err := analysis.DominantFrequency(traj.Times, column)
package analysis
