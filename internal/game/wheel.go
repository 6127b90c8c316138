package game

import "math"

// WheelOrder is the fixed physical sequence of pockets on a European
// wheel. It matters only for the angular mapping of the animation; the
// winning draw is uniform over values regardless of position.
var WheelOrder = [37]int{
	0, 32, 15, 19, 4, 21, 2, 25, 17, 34, 6, 27, 13, 36, 11, 30, 8, 23,
	10, 5, 24, 16, 33, 1, 20, 14, 31, 9, 22, 18, 29, 7, 28, 12, 35, 3, 26,
}

// PocketColor returns the display color for a pocket: 0 is green, even
// pockets black, odd pockets red. This mirrors the table's observed
// paint scheme, which does not follow the standard red/black layout; it
// is presentational only, since color bets are never evaluated.
func PocketColor(pocket int) string {
	if pocket == 0 {
		return "green"
	}
	if pocket%2 == 0 {
		return "black"
	}
	return "red"
}

// wheelIndex returns the position of a pocket in the physical sequence.
func wheelIndex(pocket int) int {
	for i, n := range WheelOrder {
		if n == pocket {
			return i
		}
	}
	return 0
}

// Ball track radii and travel for the settle curve.
const (
	ballOuterRadius = 0.9
	ballInnerRadius = 0.7
	ballTravel      = 14.4 // total radians the ball sweeps over a spin
	ballRestHeight  = 0.1
	bounceWindow    = 0.15 // bounce applies only in the final 15% of progress
	bounceAmplitude = 0.02
)

// WheelPose is the wheel and ball position at one instant of the spin
// animation.
type WheelPose struct {
	WheelAngle float64 `json:"wheel_angle"`
	BallAngle  float64 `json:"ball_angle"`
	BallRadius float64 `json:"ball_radius"`
	BallHeight float64 `json:"ball_height"`
}

// PoseAt evaluates the spin animation at normalized progress p. It is a
// keyframed curve, not a physics solver: the wheel angle follows a
// quartic ease-out through the randomized rotation count plus the
// winning pocket's angular offset; the ball decelerates as the
// complement of the wheel's easing while drifting from the outer to the
// inner track, with a decaying bounce in the final stretch.
func PoseAt(rotations float64, winning int, p float64) WheelPose {
	if p < 0 {
		p = 0
	}
	if p > 1 {
		p = 1
	}

	eased := easeOutQuart(p)
	target := rotations*2*math.Pi + (float64(wheelIndex(winning))/float64(len(WheelOrder)))*2*math.Pi

	pose := WheelPose{
		WheelAngle: target * eased,
		// Velocity proportional to (1-p)^4, the complement of the
		// wheel's eased progress; integrated in closed form.
		BallAngle:  -ballTravel * (1 - math.Pow(1-p, 5)),
		BallRadius: ballOuterRadius - (ballOuterRadius-ballInnerRadius)*eased,
		BallHeight: ballRestHeight,
	}

	if p > 1-bounceWindow {
		bp := (p - (1 - bounceWindow)) / bounceWindow
		pose.BallHeight += math.Sin(bp*math.Pi*3) * bounceAmplitude * (1 - bp)
	}

	return pose
}

func easeOutQuart(p float64) float64 {
	return 1 - math.Pow(1-p, 4)
}
