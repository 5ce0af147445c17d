// Package coordinator runs the marker update and remove cycles against a map engine.
//
// An update cycle reads the viewport from the engine, samples candidates inside it,
// installs them as a new registry generation with accessors bound to that generation,
// invalidates the selection, hands the markers to the engine, and mounts their
// elements. A remove cycle installs an empty generation, invalidates the selection and
// clears the engine.
//
// Cycles are serialised. Background clicks reported by the engine are routed to the
// selection machine independently of any running cycle.
package coordinator
