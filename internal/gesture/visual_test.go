package gesture

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFeedback(t *testing.T) {
	tests := []struct {
		name     string
		dx       int
		complete float64
		delete   float64
	}{
		{"rest", 0, 0, 0},
		{"half right", 40, 0.5, 0},
		{"past threshold right", 200, 1, 0},
		{"quarter left", -20, 0, 0.25},
		{"at threshold left", -80, 0, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := Feedback(tt.dx, 80)
			assert.Equal(t, tt.dx, v.Offset)
			assert.InDelta(t, tt.complete, v.CompleteOpacity, 1e-9)
			assert.InDelta(t, tt.delete, v.DeleteOpacity, 1e-9)
		})
	}
}

func TestSnapOffsetEasesToZero(t *testing.T) {
	assert.Equal(t, 60, SnapOffset(60, 0, 6))
	prev := 60
	for f := 1; f <= 6; f++ {
		got := SnapOffset(60, f, 6)
		assert.LessOrEqual(t, got, prev)
		prev = got
	}
	assert.Equal(t, 0, prev)
	assert.Equal(t, -30, SnapOffset(-30, 0, 4))
	assert.Equal(t, 0, SnapOffset(-30, 4, 4))
}

func TestExitOffset(t *testing.T) {
	assert.Equal(t, -20, ExitOffset(-20, 100, 0, 5))
	assert.Equal(t, -100, ExitOffset(-20, 100, 5, 5))
	assert.Less(t, ExitOffset(-20, 100, 3, 5), -20)
}
