package canopy

import (
	"errors"
	"image/color"
	"testing"
)

func newTestScene(t *testing.T, mutate func(*Config)) (*Scene, *fakeDevice) {
	t.Helper()
	cfg := testConfig(16)
	cfg.Playback.FrameDT = 1000
	if mutate != nil {
		mutate(&cfg)
	}
	bm := NewBitmaps()
	bm.Add("leaf", solidImage(8, 8, color.RGBA{G: 255, A: 255}))
	bm.Add("huge", solidImage(4096, 4, color.RGBA{A: 255}))
	dev := newFakeDevice()
	s, err := NewScene(dev, bm, cfg)
	if err != nil {
		t.Fatal(err)
	}
	return s, dev
}

func tick(t *testing.T, s *Scene, n int) {
	t.Helper()
	for i := 0; i < n; i++ {
		if err := s.Tick(); err != nil {
			t.Fatalf("tick %d: %v", i, err)
		}
	}
}

func TestNewSceneAppliesPlaybackConfig(t *testing.T) {
	s, _ := newTestScene(t, func(c *Config) {
		c.Playback.Loop = true
		c.Playback.Mode = "pause"
	})
	c := s.Clock()
	if c.DT != 1000 || !c.Loop || c.Mode != ModePause {
		t.Errorf("clock = %+v", c)
	}
}

func TestNewSceneRejectsInvalidConfig(t *testing.T) {
	cfg := testConfig(16)
	cfg.Playback.Mode = "sideways"
	if _, err := NewScene(newFakeDevice(), NewBitmaps(), cfg); !errors.Is(err, ErrInvalidConfig) {
		t.Errorf("err = %v", err)
	}
}

func TestSceneAnimatesSpriteRecord(t *testing.T) {
	s, dev := newTestScene(t, nil)
	set := NewAnimationSet(scenarioSequence())
	e := s.SpawnAnimatedSprite(Vec3{}, NewSprite("leaf", 10, 10), set)

	// Tick 1 applies t=0, tick 2 applies t=1000.
	tick(t, s, 2)
	tr := TransformComponent.Get(s.World().Entry(e))
	if !near(tr.Position.X, 1.25, 1e-5) {
		t.Fatalf("x = %v, want 1.25", tr.Position.X)
	}

	// The record picks the change up on the next tick.
	tick(t, s, 1)
	last := dev.draws[len(dev.draws)-1]
	if got := last.records[0].Transform[12]; !near(got, 1.25, 1e-5) {
		t.Errorf("record translation x = %v, want 1.25", got)
	}
	if got := last.records[0].Transform[0]; got != 10 {
		t.Errorf("record scale x = %v, want sprite width 10", got)
	}
	if s.Clock().TotalTime != 6000 {
		t.Errorf("TotalTime = %v", s.Clock().TotalTime)
	}
	if s.Frame() != 3 {
		t.Errorf("Frame = %d", s.Frame())
	}
}

func TestSceneSharedTemplateDoesNotAlias(t *testing.T) {
	s, _ := newTestScene(t, nil)
	set := NewAnimationSet(scenarioSequence())
	a := s.SpawnAnimatedSprite(Vec3{}, NewSprite("leaf", 1, 1), set)
	b := s.SpawnAnimatedSprite(Vec3{}, NewSprite("leaf", 1, 1), set)
	sa := s.TransformAnimations().Get(s.World().Entry(a))
	sb := s.TransformAnimations().Get(s.World().Entry(b))
	if sa.Sequences[0] == sb.Sequences[0] {
		t.Error("entities share a sequence")
	}
}

func TestScenePublishAppliesInHousekeeping(t *testing.T) {
	s, _ := newTestScene(t, nil)
	s.SpawnAnimatedSprite(Vec3{}, NewSprite("leaf", 1, 1), NewAnimationSet(scenarioSequence()))
	s.Publish(PlaybackEvent{Command: CmdPause})
	if s.Clock().Mode != ModePlay {
		t.Fatal("command applied before the tick")
	}
	tick(t, s, 1)
	if s.Clock().Mode != ModePause {
		t.Errorf("mode = %v, want pause", s.Clock().Mode)
	}
	// The tick that processed the command still advanced under Play.
	if s.Clock().CurrentTime != 1000 {
		t.Errorf("CurrentTime = %v", s.Clock().CurrentTime)
	}

	s.Publish(PlaybackEvent{Command: CmdGoToTime, Time: 5000})
	tick(t, s, 1)
	if s.Clock().Mode != ModeGoToTimeWithoutUpdate || s.Clock().CurrentTime != 5000 {
		t.Errorf("clock = %+v", s.Clock())
	}
}

func TestSceneLoopWraps(t *testing.T) {
	s, _ := newTestScene(t, func(c *Config) { c.Playback.Loop = true })
	s.SpawnAnimatedSprite(Vec3{}, NewSprite("leaf", 1, 1), NewAnimationSet(scenarioSequence()))
	// t: 0,1000,...,6000 then 7000 > total, then wrap.
	tick(t, s, 8)
	if s.Clock().CurrentTime != 0 {
		t.Errorf("CurrentTime = %v, want wrapped to 0", s.Clock().CurrentTime)
	}
}

func TestSceneDespawnReusesSlot(t *testing.T) {
	s, _ := newTestScene(t, nil)
	a := s.SpawnSprite(Vec3{}, NewSprite("leaf", 1, 1))
	s.SpawnSprite(Vec3{}, NewSprite("leaf", 1, 1))
	tick(t, s, 1)

	s.Despawn(a)
	s.Despawn(a) // no-op
	c := s.SpawnSprite(Vec3{X: 3}, NewSprite("leaf", 1, 1))
	tick(t, s, 1)

	if i, ok := s.Renderer().Batch().Index(c); !ok || i != 0 {
		t.Errorf("new sprite slot = %d,%v want 0", i, ok)
	}
	if s.Renderer().Batch().Len() != 2 {
		t.Errorf("Len = %d, want 2", s.Renderer().Batch().Len())
	}
}

func TestSceneDespawnThenSpawnRecomputesTotalTime(t *testing.T) {
	s, _ := newTestScene(t, nil)
	short := NewAnimationSet(NewSequence[Transform]().
		Then(NewTween[Transform](EaseQuadraticIn, 1000, &PositionX{From: 0, To: 1})))
	a := s.SpawnAnimatedSprite(Vec3{}, NewSprite("leaf", 1, 1), short)
	tick(t, s, 1)
	if s.Clock().TotalTime != 1000 {
		t.Fatalf("TotalTime = %v, want 1000", s.Clock().TotalTime)
	}

	// Same animated entity count before and after.
	s.Despawn(a)
	long := NewAnimationSet(NewSequence[Transform]().
		Then(NewTween[Transform](EaseQuadraticIn, 9000, &PositionX{From: 0, To: 4})))
	b := s.SpawnAnimatedSprite(Vec3{}, NewSprite("leaf", 1, 1), long)
	tick(t, s, 200)

	c := s.Clock()
	if c.TotalTime != 9000 {
		t.Errorf("TotalTime = %v, want 9000", c.TotalTime)
	}
	if c.CurrentTime != 10000 {
		t.Errorf("CurrentTime = %v, want 10000", c.CurrentTime)
	}
	if x := TransformComponent.Get(s.World().Entry(b)).Position.X; x != 4 {
		t.Errorf("x = %v, want 4", x)
	}
}

func TestSceneDespawnPlainSpriteKeepsTotalTime(t *testing.T) {
	s, _ := newTestScene(t, nil)
	s.SpawnAnimatedSprite(Vec3{}, NewSprite("leaf", 1, 1), NewAnimationSet(scenarioSequence()))
	plain := s.SpawnSprite(Vec3{}, NewSprite("leaf", 1, 1))
	tick(t, s, 1)
	s.Despawn(plain)
	if s.Clock().NeedsRecompute() {
		t.Error("despawning a sprite without timelines invalidated the clock")
	}
}

func TestSceneTextureFailureIsNotFatal(t *testing.T) {
	s, dev := newTestScene(t, nil)
	s.SpawnSprite(Vec3{}, NewSprite("huge", 1, 1))
	s.SpawnSprite(Vec3{}, NewSprite("leaf", 1, 1))
	tick(t, s, 1)

	if !errors.Is(s.Err(), ErrAllocationFailed) {
		t.Errorf("Err = %v", s.Err())
	}
	if len(dev.draws) != 1 || dev.draws[0].instances != 2 {
		t.Errorf("draws = %+v", dev.draws)
	}
	if s.Renderer().Atlas().Uploads() != 1 {
		t.Errorf("uploads = %d, want 1 (leaf only)", s.Renderer().Atlas().Uploads())
	}
}

func TestSceneDeviceErrorIsFatal(t *testing.T) {
	s, dev := newTestScene(t, nil)
	s.SpawnSprite(Vec3{}, NewSprite("leaf", 1, 1))
	boom := errors.New("surface lost")
	dev.failDraw = boom
	if err := s.Tick(); !errors.Is(err, boom) {
		t.Errorf("err = %v", err)
	}
}

func TestSceneUpdateFunc(t *testing.T) {
	s, _ := newTestScene(t, nil)
	calls := 0
	stop := errors.New("stop")
	s.SetUpdateFunc(func() error {
		calls++
		if calls == 2 {
			return stop
		}
		return nil
	})
	tick(t, s, 1)
	if err := s.Tick(); !errors.Is(err, stop) {
		t.Errorf("err = %v", err)
	}
	if s.Frame() != 1 {
		t.Errorf("Frame = %d, want 1", s.Frame())
	}
}

func TestSceneSetDebugMode(t *testing.T) {
	s, _ := newTestScene(t, nil)
	s.SetDebugMode(true)
	if !s.debug {
		t.Error("debug should be true")
	}
	s.SpawnSprite(Vec3{}, NewSprite("leaf", 1, 1))
	tick(t, s, 1)
	s.SetDebugMode(false)
	if s.debug {
		t.Error("debug should be false")
	}
}
