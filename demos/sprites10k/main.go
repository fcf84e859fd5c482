// sprites10k spawns 10,000 sprites that drift, spin and pulse on looping
// timelines. With the default per-draw capacity the scene is drawn in three
// instanced batches, which exercises the split upload path.
package main

import (
	"flag"
	"fmt"
	"image"
	"image/color"
	"log"
	"math"
	"math/rand/v2"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/phanxgames/canopy"
	"github.com/pkg/profile"
)

const (
	screenW = 1280
	screenH = 720
	count   = 10_000
)

// disc draws an antialiased filled circle.
func disc(size int, c color.RGBA) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, size, size))
	r := float64(size) / 2
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			d := math.Hypot(float64(x)+0.5-r, float64(y)+0.5-r)
			a := math.Max(0, math.Min(1, r-d))
			img.SetRGBA(x, y, color.RGBA{
				R: uint8(float64(c.R) * a),
				G: uint8(float64(c.G) * a),
				B: uint8(float64(c.B) * a),
				A: uint8(255 * a),
			})
		}
	}
	return img
}

var easings = []canopy.Easing{
	canopy.EaseQuadraticIn,
	canopy.EaseBounceOut,
	canopy.EaseInOutSine,
	canopy.EaseOutBack,
	canopy.EaseOutElastic,
	canopy.EaseInOutCubic,
}

func randomTimeline(x, y float32) canopy.AnimationSet[canopy.Transform] {
	ease := easings[rand.IntN(len(easings))]
	d := float32(1000 + rand.IntN(3000))
	to := canopy.Vec3{
		X: x + (rand.Float32()-0.5)*200,
		Y: y + (rand.Float32()-0.5)*200,
	}
	from := canopy.Vec3{X: x, Y: y}
	drift := canopy.NewSequence[canopy.Transform]().
		Then(canopy.NewTween[canopy.Transform](ease, d, &canopy.Position{From: from, To: to})).
		Then(canopy.NewTween[canopy.Transform](ease, d, &canopy.Position{From: to, To: from}))
	spin := canopy.NewSequence[canopy.Transform]().
		ThenDelay(rand.Float32() * 1000).
		Then(canopy.NewTween[canopy.Transform](canopy.EaseLinear, 2*d, &canopy.RotationZ{From: 0, To: 2 * math.Pi}))
	big := 0.6 + rand.Float32()
	pulse := canopy.NewSequence[canopy.Transform]().
		Then(canopy.NewTween[canopy.Transform](canopy.EaseOutSine, d/2, &canopy.Scale{From: canopy.Vec3One, To: canopy.Vec3{X: big, Y: big, Z: 1}})).
		Then(canopy.NewTween[canopy.Transform](canopy.EaseInSine, d/2, &canopy.Scale{From: canopy.Vec3{X: big, Y: big, Z: 1}, To: canopy.Vec3One}))
	return canopy.NewAnimationSet(drift, spin, pulse)
}

func main() {
	prof := flag.Bool("profile", false, "write a CPU profile to the working directory")
	perDraw := flag.Int("per-draw", 4096, "sprites per instanced draw call")
	debug := flag.Bool("debug", false, "log per-frame stats to stderr")
	flag.Parse()

	if *prof {
		p := profile.Start(profile.CPUProfile, profile.ProfilePath("."), profile.NoShutdownHook)
		defer p.Stop()
	}

	cfg := canopy.DefaultConfig()
	cfg.Batch.SpritesPerDraw = *perDraw
	cfg.Atlas.Width, cfg.Atlas.Height = 512, 512
	cfg.Playback.Loop = true
	cfg.Window.Title = "canopy: 10k sprites"
	cfg.Window.Width, cfg.Window.Height = screenW, screenH
	cfg.ClearColor = canopy.Color{R: 0.06, G: 0.06, B: 0.09, A: 1}
	cfg.Debug = *debug

	bitmaps := canopy.NewBitmaps()
	palette := []color.RGBA{
		{240, 90, 90, 255},
		{90, 200, 120, 255},
		{90, 150, 240, 255},
		{240, 210, 90, 255},
	}
	keys := make([]string, len(palette))
	for i, c := range palette {
		keys[i] = fmt.Sprintf("dot%d", i)
		bitmaps.Add(keys[i], disc(24, c))
	}

	scene, err := canopy.NewScene(canopy.NewEbitenDevice(), bitmaps, cfg)
	if err != nil {
		log.Fatal(err)
	}

	for i := 0; i < count; i++ {
		x := rand.Float32() * screenW
		y := rand.Float32() * screenH
		size := float32(8 + rand.IntN(16))
		sprite := canopy.NewSprite(keys[i%len(keys)], size, size)
		scene.SpawnAnimatedSprite(canopy.Vec3{X: x, Y: y}, sprite, randomTimeline(x, y))
	}

	scene.SetUpdateFunc(func() error {
		if ebiten.IsKeyPressed(ebiten.KeyEscape) {
			return ebiten.Termination
		}
		return nil
	})

	rc := canopy.RunConfigFrom(cfg)
	rc.ShowFPS = true
	if err := canopy.Run(scene, rc); err != nil {
		log.Fatal(err)
	}
}
