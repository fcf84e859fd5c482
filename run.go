package canopy

import (
	"errors"
	"fmt"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
)

// RunConfig configures the window opened by Run.
type RunConfig struct {
	Title   string
	Width   int
	Height  int
	TPS     int
	ShowFPS bool
}

// RunConfigFrom returns the window settings of cfg.
func RunConfigFrom(cfg Config) RunConfig {
	return RunConfig{
		Title:  cfg.Window.Title,
		Width:  cfg.Window.Width,
		Height: cfg.Window.Height,
		TPS:    cfg.Window.TPS,
	}
}

// Run opens a window and ticks scene once per ebiten update until the window
// closes or a tick fails. The scene must draw through an *EbitenDevice.
// Returning ebiten.Termination from the scene's update func ends Run cleanly.
func Run(scene *Scene, cfg RunConfig) error {
	dev, ok := scene.Device().(*EbitenDevice)
	if !ok {
		return fmt.Errorf("canopy: Run needs an *EbitenDevice, scene uses %T", scene.Device())
	}
	if cfg.Width <= 0 || cfg.Height <= 0 {
		return fmt.Errorf("canopy: window size %dx%d: %w", cfg.Width, cfg.Height, ErrInvalidConfig)
	}
	tps := cfg.TPS
	if tps <= 0 {
		tps = ebiten.DefaultTPS
	}
	ebiten.SetWindowTitle(cfg.Title)
	ebiten.SetWindowSize(cfg.Width, cfg.Height)
	ebiten.SetTPS(tps)

	g := &game{
		scene: scene,
		dev:   dev,
		timer: NewFrameTimer(tps),
		cfg:   cfg,
	}
	err := ebiten.RunGame(g)
	if errors.Is(err, ebiten.Termination) {
		return nil
	}
	return err
}

// game adapts a Scene to ebiten.Game.
type game struct {
	scene *Scene
	dev   *EbitenDevice
	timer *FrameTimer
	cfg   RunConfig
}

func (g *game) Update() error {
	if dt, ok := g.timer.Step(time.Now()); ok {
		g.scene.Clock().DT = dt
	}
	return g.scene.Tick()
}

func (g *game) Draw(screen *ebiten.Image) {
	g.dev.DrawTo(screen)
	g.scene.flushScreenshots(screen)
	if g.cfg.ShowFPS {
		c := g.scene.Clock()
		ebitenutil.DebugPrint(screen, fmt.Sprintf("FPS: %.1f\nTPS: %.1f\nt: %.0f/%.0f %s\nsprites: %d draws: %d",
			ebiten.ActualFPS(), ebiten.ActualTPS(),
			c.CurrentTime, c.TotalTime, c.Mode,
			g.scene.Renderer().Stats().Sprites, g.dev.DrawCalls()))
	}
}

func (g *game) Layout(_, _ int) (int, int) {
	return g.cfg.Width, g.cfg.Height
}
