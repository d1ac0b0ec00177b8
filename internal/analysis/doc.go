// Package analysis post-processes recorded trajectories.
//
//   - [Period]: orbital period from the first two separation minima
//   - [Periods]: spacing of every consecutive pair of minima
//   - [DominantPeriod]: strongest frequency of a coordinate series
//   - [LyapunovExponent]: largest exponent via renormalised twin runs
//
// Period estimation works on a two-body center-of-mass trajectory:
//
//	period, err := analysis.Period(res.CenterOfMass, cfg.Dt)
//	if errors.Is(err, dynamo.ErrInsufficientData) {
//	    // run was shorter than two orbits
//	}
package analysis
