// Package physics is the rigid-body simulation engine for the sphere arena.
//
// A [World] owns a closed, axis-aligned rectangular boundary with corners at
// (0,0) and (width,height) and a set of dynamic circular [Body] values.
// Contact resolution is delegated to the Box2D solver; this package owns the
// integration policy around it:
//
//   - fixed sub-stepping per draw tick ([World.Update] runs [Params.SubSteps]
//     calls of [World.Step], each advancing 1/SimRate seconds)
//   - fixed solver iteration counts ([VelocityIterations], [PositionIterations])
//   - gravity and body speed clamping
//   - recovery of non-finite body state
//
// # Debug builds
//
// Built with the spheresdebug tag, a non-finite position or velocity panics
// instead of being reset.
//
// # Thread Safety
//
// World is NOT thread-safe. The scene package serializes every mutation.
// Box2D keeps process-global counters, so [World.Step] holds a package-level
// lock and worlds on different goroutines step one at a time.
package physics
