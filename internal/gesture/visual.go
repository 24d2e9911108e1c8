package gesture

import "math"

// Visual is how a swiped row should be drawn.
type Visual struct {
	Offset          int
	CompleteOpacity float64
	DeleteOpacity   float64
}

// Feedback maps a horizontal displacement to row offset and affordance opacity.
// Opacity grows linearly and saturates at the threshold.
func Feedback(displacement, threshold int) Visual {
	v := Visual{Offset: displacement}
	if threshold <= 0 || displacement == 0 {
		return v
	}
	o := math.Min(math.Abs(float64(displacement))/float64(threshold), 1)
	if displacement > 0 {
		v.CompleteOpacity = o
	} else {
		v.DeleteOpacity = o
	}
	return v
}

// SnapOffset eases an offset back to zero over frames (ease-out cubic).
func SnapOffset(from, frame, frames int) int {
	if frames <= 0 || frame >= frames {
		return 0
	}
	if frame <= 0 {
		return from
	}
	t := float64(frame) / float64(frames)
	remaining := math.Pow(1-t, 3)
	return int(float64(from) * remaining)
}

// ExitOffset slides a row from its release offset out to -width.
func ExitOffset(from, width, frame, frames int) int {
	if frames <= 0 || frame >= frames {
		return -width
	}
	t := float64(frame) / float64(frames)
	eased := t * t
	return from + int(float64(-width-from)*eased)
}
