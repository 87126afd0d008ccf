package mapview

import "time"

// MountDuration is the length of the intro transition.
const MountDuration = 750 * time.Millisecond

// Animation interpolates between two transforms with cubic in-out easing.
type Animation struct {
	From     Transform
	To       Transform
	Duration time.Duration
}

// MountAnimation is the intro transition from the identity to target.
func MountAnimation(target Transform) Animation {
	return Animation{From: Identity, To: Constrain(Transform{K: clampScale(target.K), X: target.X, Y: target.Y}), Duration: MountDuration}
}

// At returns the transform elapsed into the animation.
func (a Animation) At(elapsed time.Duration) Transform {
	if a.Done(elapsed) {
		return a.To
	}
	if elapsed <= 0 {
		return a.From
	}
	e := easeCubicInOut(float64(elapsed) / float64(a.Duration))
	return Transform{
		K: a.From.K + (a.To.K-a.From.K)*e,
		X: a.From.X + (a.To.X-a.From.X)*e,
		Y: a.From.Y + (a.To.Y-a.From.Y)*e,
	}
}

// Done reports whether the animation has finished at elapsed.
func (a Animation) Done(elapsed time.Duration) bool {
	return a.Duration <= 0 || elapsed >= a.Duration
}

func easeCubicInOut(t float64) float64 {
	t *= 2
	if t <= 1 {
		return t * t * t / 2
	}
	t -= 2
	return (t*t*t + 2) / 2
}
