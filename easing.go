package canopy

import "github.com/tanema/gween/ease"

// Easing selects the curve that remaps linear tween progress.
type Easing uint8

const (
	EaseQuadraticIn Easing = iota // t²
	EaseBounceOut                 // four-piece quadratic bounce
	EaseLinear                    // no easing
	EaseOutQuad
	EaseInOutQuad
	EaseInCubic
	EaseOutCubic
	EaseInOutCubic
	EaseInSine
	EaseOutSine
	EaseInOutSine
	EaseOutBack
	EaseOutElastic
	EaseInBounce
)

var easingNames = [...]string{
	EaseQuadraticIn: "quadratic-in",
	EaseBounceOut:   "bounce-out",
	EaseLinear:      "linear",
	EaseOutQuad:     "out-quad",
	EaseInOutQuad:   "in-out-quad",
	EaseInCubic:     "in-cubic",
	EaseOutCubic:    "out-cubic",
	EaseInOutCubic:  "in-out-cubic",
	EaseInSine:      "in-sine",
	EaseOutSine:     "out-sine",
	EaseInOutSine:   "in-out-sine",
	EaseOutBack:     "out-back",
	EaseOutElastic:  "out-elastic",
	EaseInBounce:    "in-bounce",
}

// String returns the kebab-case name used in config files.
func (e Easing) String() string {
	if int(e) < len(easingNames) {
		return easingNames[e]
	}
	return "unknown"
}

// ParseEasing returns the Easing for a name produced by Easing.String.
func ParseEasing(name string) (Easing, bool) {
	for i, n := range easingNames {
		if n == name {
			return Easing(i), true
		}
	}
	return EaseLinear, false
}

// gween curves take (t, begin, change, duration); with begin=0, change=1 and
// duration=1 they map a normalized ratio to an eased ratio.
var gweenCurves = map[Easing]ease.TweenFunc{
	EaseOutQuad:    ease.OutQuad,
	EaseInOutQuad:  ease.InOutQuad,
	EaseInCubic:    ease.InCubic,
	EaseOutCubic:   ease.OutCubic,
	EaseInOutCubic: ease.InOutCubic,
	EaseInSine:     ease.InSine,
	EaseOutSine:    ease.OutSine,
	EaseInOutSine:  ease.InOutSine,
	EaseOutBack:    ease.OutBack,
	EaseOutElastic: ease.OutElastic,
	EaseInBounce:   ease.InBounce,
}

// Ease maps t to an eased ratio. t is clamped to [0, 1] first.
func Ease(kind Easing, t float32) float32 {
	p := clamp01(t)
	switch kind {
	case EaseQuadraticIn:
		return p * p
	case EaseBounceOut:
		return bounceOut(p)
	case EaseLinear:
		return p
	}
	if fn, ok := gweenCurves[kind]; ok {
		return fn(p, 0, 1, 1)
	}
	return p
}

func bounceOut(p float32) float32 {
	switch {
	case p < 4.0/11.0:
		return (121 * p * p) / 16
	case p < 8.0/11.0:
		return (363.0/40.0)*p*p - (99.0/10.0)*p + 17.0/5.0
	case p < 9.0/10.0:
		return (4356.0/361.0)*p*p - (35442.0/1805.0)*p + 16061.0/1805.0
	default:
		return (54.0/5.0)*p*p - (513.0/25.0)*p + 268.0/25.0
	}
}
