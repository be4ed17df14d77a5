package physics

import "math"

func TrayPosition(w, t, a float64) float64 {
	return a * math.Sin(w*t)
}

func TrayVelocity(w, t, a float64) float64 {
	return a * w * math.Cos(w*t)
}

func TrayAcceleration(w, t, a float64) float64 {
	return -a * w * w * math.Sin(w*t)
}

// BallPosition is the free-flight height after elapsed time t from (v, y).
func BallPosition(t, v, y, g float64) float64 {
	return -0.5*g*t*t + v*t + y
}

// BallVelocity is the free-flight velocity after elapsed time t from v.
func BallVelocity(t, v, g float64) float64 {
	return -g*t + v
}

// Restitute returns the post-impact velocity: the velocity relative to the
// tray is reversed and scaled by mu, then the tray velocity is added back.
func Restitute(vBall, vTray, mu float64) float64 {
	return vTray - mu*(vBall-vTray)
}

// Energy is the mechanical energy per unit mass of the ball.
func Energy(y, v, g float64) float64 {
	return 0.5*v*v + g*y
}
