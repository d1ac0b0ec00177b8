// Package metrics provides per-step observers that summarise a run as a single
// number: conservation drifts for checking integrator quality and
// boundedness checks for spotting escapes.
package metrics
