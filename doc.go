// Package canopy animates and draws large numbers of 2D sprites on
// [Ebitengine], with entities stored in a [donburi] world.
//
// Sprites are entities carrying a [Transform] and a [Sprite]. Their bitmaps
// are packed on first use into one shared texture atlas, and their instance
// records are drawn in as few draw calls as the per-draw capacity allows.
// Entities can carry tween timelines ([AnimationSet]) that a shared [Clock]
// plays, pauses, rewinds or seeks.
//
// # Quick start
//
// The simplest way to get started is [Run], which creates a window and game
// loop for you:
//
//	bitmaps := canopy.NewBitmaps()
//	bitmaps.Add("leaf", leafImage)
//
//	scene, err := canopy.NewScene(canopy.NewEbitenDevice(), bitmaps, canopy.DefaultConfig())
//	if err != nil {
//		log.Fatal(err)
//	}
//	scene.SpawnSprite(canopy.Vec3{X: 100, Y: 80}, canopy.NewSprite("leaf", 32, 32))
//
//	canopy.Run(scene, canopy.RunConfig{
//		Title: "My Game", Width: 640, Height: 480,
//	})
//
// For full control, implement [ebiten.Game] yourself, call [Scene.Tick] from
// Update and [EbitenDevice.DrawTo] from Draw.
//
// # Timelines
//
// A [Sequence] is a contiguous run of [Tween] and [Delay] entries. Entries
// are placed back to back as they are appended:
//
//	seq := canopy.NewSequence[canopy.Transform]().
//		Then(canopy.NewTween[canopy.Transform](canopy.EaseQuadraticIn, 2000, &canopy.PositionX{From: 0, To: 5})).
//		ThenDelay(2000).
//		Then(canopy.NewTween[canopy.Transform](canopy.EaseQuadraticIn, 2000, &canopy.PositionX{From: 5, To: 0}))
//
//	scene.SpawnAnimatedSprite(canopy.Vec3{}, canopy.NewSprite("leaf", 32, 32), canopy.NewAnimationSet(seq))
//
// Sets are cloned on spawn, so one template can drive many entities. Other
// component types are animated by registering them with [RegisterAnimated]
// on [Scene.Animator].
//
// # Playback
//
// The clock mode decides what the apply pass does each tick: Play
// interpolates and advances, Pause does nothing, Reset restores every
// entity's start state and pauses, and the two GoTo modes seek. Commands
// published with [Scene.Publish] are queued as donburi events and applied at
// the end of the tick.
//
// # Frame order
//
// [Scene.Tick] runs transform update, sprite transform sync, sprite texture
// sync, render, animation controller, animation apply and housekeeping, in
// that order. A change made by the apply pass therefore reaches the screen on
// the following tick.
//
// # Errors
//
// A bitmap that does not fit in the atlas is not fatal: the sprite samples a
// magenta placeholder, the failure is logged once per key, and [Scene.Err]
// reports the first such error. Device failures are returned from Tick.
//
// [Ebitengine]: https://ebitengine.org
// [donburi]: https://github.com/yohamta/donburi
package canopy
