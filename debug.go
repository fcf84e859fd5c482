package canopy

import (
	"fmt"
	"os"
	"time"
)

// debugStats holds per-tick timing and counters.
// Only populated when Scene.debug is true.
type debugStats struct {
	transformTime time.Duration
	syncTime      time.Duration
	renderTime    time.Duration
	animTime      time.Duration

	transforms   int
	spriteSyncs  int
	textureSyncs int
}

// debugLog prints timing and draw-call stats to stderr.
func (s *Scene) debugLog(stats debugStats) {
	if !s.debug {
		return
	}
	total := stats.transformTime + stats.syncTime + stats.renderTime + stats.animTime
	_, _ = fmt.Fprintf(os.Stderr,
		"[canopy] transform: %v | sync: %v | render: %v | anim: %v | total: %v\n",
		stats.transformTime, stats.syncTime, stats.renderTime, stats.animTime, total)
	rs := s.renderer.Stats()
	_, _ = fmt.Fprintf(os.Stderr,
		"[canopy] t=%.1f/%.1fms %s | transforms: %d | synced: %d/%d | sprites: %d | draw calls: %d | uploads: %d\n",
		s.clock.CurrentTime, s.clock.TotalTime, s.clock.Mode,
		stats.transforms, stats.spriteSyncs, stats.textureSyncs,
		rs.Sprites, rs.DrawCalls, rs.Uploads)
	if a := s.renderer.Atlas(); a != nil {
		w, h := a.Size()
		if free := a.FreeArea(); free < w*h/10 {
			_, _ = fmt.Fprintf(os.Stderr, "[canopy] warning: atlas %dx%d has %d free pixels left\n", w, h, free)
		}
	}
}
