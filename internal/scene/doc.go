// Package scene is the thread-safe entry point to the sphere arena.
//
// A [Scene] ties together the pieces a host needs:
//
//   - an [arena.Manager] that rebuilds the world when the surface changes size
//   - the active [touch.Policy]
//   - a [sensor.Gravity] filter for accelerometer samples
//   - an [orient.Mapper] for the current rotation and surface size
//   - a [snapshot.Publisher] that renderers read from
//
// # Example
//
//	sc, _ := scene.New(scene.DefaultOptions(), logger)
//	sc.Resize(1080, 1920)
//	for range ticker.C {
//		sc.Update()
//	}
//	// on the render goroutine
//	for _, sp := range sc.Sprites() {
//		draw(sp.Position, sp.Radius, sp.Angle)
//	}
//
// # Thread Safety
//
// Every method may be called from any goroutine. Update, the touch methods,
// gravity and resize calls are serialized on one lock. Sprites, BallCount and
// BallRadius only touch the published snapshot and the layout, so a renderer
// never waits for a simulation tick to finish.
package scene
