package game

import (
	"math"
	"testing"
)

func TestWheelOrder(t *testing.T) {
	if len(WheelOrder) != 37 {
		t.Fatalf("expected 37 pockets, got %d", len(WheelOrder))
	}
	seen := make(map[int]bool)
	for _, n := range WheelOrder {
		if n < 0 || n > 36 {
			t.Errorf("pocket %d out of range", n)
		}
		if seen[n] {
			t.Errorf("pocket %d appears twice", n)
		}
		seen[n] = true
	}
}

func TestWheelIndex(t *testing.T) {
	if wheelIndex(0) != 0 {
		t.Error("0 sits at the top of the wheel")
	}
	if wheelIndex(17) != 8 {
		t.Errorf("expected 17 at index 8, got %d", wheelIndex(17))
	}
	if wheelIndex(26) != 36 {
		t.Errorf("expected 26 at index 36, got %d", wheelIndex(26))
	}
}

func TestPoseAt(t *testing.T) {
	const rotations = 6.0

	t.Run("endpoints", func(t *testing.T) {
		start := PoseAt(rotations, 17, 0)
		if start.WheelAngle != 0 {
			t.Errorf("wheel should start at rest, got %v", start.WheelAngle)
		}
		if start.BallAngle != 0 {
			t.Errorf("ball should start at rest, got %v", start.BallAngle)
		}
		if start.BallRadius != ballOuterRadius {
			t.Errorf("ball starts on the outer track, got %v", start.BallRadius)
		}

		end := PoseAt(rotations, 17, 1)
		want := rotations*2*math.Pi + (8.0/37.0)*2*math.Pi
		if math.Abs(end.WheelAngle-want) > 1e-9 {
			t.Errorf("wheel should stop on the winning pocket: got %v want %v", end.WheelAngle, want)
		}
		if math.Abs(end.BallAngle-(-ballTravel)) > 1e-9 {
			t.Errorf("ball should complete its travel, got %v", end.BallAngle)
		}
		if end.BallRadius != ballInnerRadius {
			t.Errorf("ball settles on the inner track, got %v", end.BallRadius)
		}
		if math.Abs(end.BallHeight-ballRestHeight) > 1e-9 {
			t.Errorf("bounce decays to zero at the end, height %v", end.BallHeight)
		}
	})

	t.Run("wheel angle is monotonic", func(t *testing.T) {
		prev := -1.0
		for i := 0; i <= 100; i++ {
			pose := PoseAt(rotations, 17, float64(i)/100)
			if pose.WheelAngle < prev {
				t.Fatalf("wheel reversed at p=%v", float64(i)/100)
			}
			prev = pose.WheelAngle
		}
	})

	t.Run("ball drifts inward", func(t *testing.T) {
		prev := ballOuterRadius + 1
		for i := 0; i <= 100; i++ {
			pose := PoseAt(rotations, 17, float64(i)/100)
			if pose.BallRadius > prev {
				t.Fatalf("ball radius grew at p=%v", float64(i)/100)
			}
			prev = pose.BallRadius
		}
	})

	t.Run("bounce only near the end", func(t *testing.T) {
		if pose := PoseAt(rotations, 17, 0.5); pose.BallHeight != ballRestHeight {
			t.Errorf("no bounce mid-spin, height %v", pose.BallHeight)
		}
		bounced := false
		for i := 86; i < 100; i++ {
			if PoseAt(rotations, 17, float64(i)/100).BallHeight != ballRestHeight {
				bounced = true
			}
		}
		if !bounced {
			t.Error("expected a bounce in the final stretch")
		}
	})

	t.Run("progress is clamped", func(t *testing.T) {
		if PoseAt(rotations, 17, -0.5) != PoseAt(rotations, 17, 0) {
			t.Error("negative progress should clamp to 0")
		}
		if PoseAt(rotations, 17, 2) != PoseAt(rotations, 17, 1) {
			t.Error("overshoot should clamp to 1")
		}
	})
}
