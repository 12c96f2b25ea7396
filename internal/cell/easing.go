package cell

import (
	"time"

	"github.com/chewxy/math32"

	"gallerywall/internal/geom"
)

// EaseOutQuart decelerates towards t = 1.
func EaseOutQuart(t float32) float32 {
	t = geom.Clamp01(t)
	return 1 - math32.Pow(1-t, 4)
}

// EaseInOutQuart accelerates up to the midpoint and decelerates after it.
func EaseInOutQuart(t float32) float32 {
	t = geom.Clamp01(t)
	if t < 0.5 {
		return 8 * t * t * t * t
	}
	return 1 - math32.Pow(-2*t+2, 4)/2
}

// EaseOutCirc follows a quarter circle, fast at first and flat at the end.
func EaseOutCirc(t float32) float32 {
	t = geom.Clamp01(t) - 1
	return math32.Sqrt(1 - t*t)
}

// progress returns elapsed/total clamped to [0, 1]. A zero total counts as finished.
func progress(elapsed, total time.Duration) float32 {
	if total <= 0 {
		return 1
	}
	return geom.Clamp01(float32(elapsed.Seconds() / total.Seconds()))
}
