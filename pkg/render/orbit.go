package render

import (
	"math"

	"github.com/KinematicTrees/kinematictrees.github.io/pkg/math3d"
	"github.com/charmbracelet/harmonica"
)

const (
	maxPitch    = math.Pi/2 - 0.01
	minDistance = 1.0
	maxDistance = 30.0
)

// Axis is one orbit angle whose velocity decays to zero on a critically
// damped spring, so drags keep coasting briefly after release.
type Axis struct {
	Position float64
	Velocity float64

	spring harmonica.Spring
	accel  float64
}

// NewAxis creates an axis updated fps times a second.
func NewAxis(fps int) Axis {
	return Axis{spring: harmonica.NewSpring(harmonica.FPS(fps), 4.0, 1.0)}
}

// Update integrates one frame.
func (a *Axis) Update() {
	a.Position += a.Velocity
	a.Velocity, a.accel = a.spring.Update(a.Velocity, a.accel, 0)
}

// Orbit drives a camera around a target point with damped yaw, pitch and
// zoom.
type Orbit struct {
	Yaw, Pitch Axis
	Target     math3d.Vec3

	distance   float64
	distTarget float64
	distVel    float64
	distSpring harmonica.Spring

	fps     int
	initial float64
}

// NewOrbit creates an orbit at distance from the origin.
func NewOrbit(fps int, distance float64) *Orbit {
	o := &Orbit{fps: fps, initial: clampDistance(distance)}
	o.Reset()
	return o
}

// Reset restores the initial view.
func (o *Orbit) Reset() {
	o.Yaw = NewAxis(o.fps)
	o.Pitch = NewAxis(o.fps)
	o.distance = o.initial
	o.distTarget = o.initial
	o.distVel = 0
	o.distSpring = harmonica.NewSpring(harmonica.FPS(o.fps), 6.0, 1.0)
}

// Impulse adds angular velocity in radians per frame.
func (o *Orbit) Impulse(yaw, pitch float64) {
	o.Yaw.Velocity += yaw
	o.Pitch.Velocity += pitch
}

// Zoom moves the distance target by delta.
func (o *Orbit) Zoom(delta float64) {
	o.distTarget = clampDistance(o.distTarget + delta)
}

// Distance returns the current eye distance.
func (o *Orbit) Distance() float64 {
	return o.distance
}

// Update advances every spring one frame.
func (o *Orbit) Update() {
	o.Yaw.Update()
	o.Pitch.Update()
	if o.Pitch.Position > maxPitch || o.Pitch.Position < -maxPitch {
		o.Pitch.Position = math3d.Clamp(o.Pitch.Position, -maxPitch, maxPitch)
		o.Pitch.Velocity = 0
	}
	o.distance, o.distVel = o.distSpring.Update(o.distance, o.distVel, o.distTarget)
}

// Eye returns the camera position.
func (o *Orbit) Eye() math3d.Vec3 {
	cp := math.Cos(o.Pitch.Position)
	off := math3d.V3(
		cp*math.Sin(o.Yaw.Position),
		math.Sin(o.Pitch.Position),
		cp*math.Cos(o.Yaw.Position),
	)
	return o.Target.Add(off.Scale(o.distance))
}

// Apply places c at the eye looking at the target.
func (o *Orbit) Apply(c *Camera) {
	c.SetPosition(o.Eye())
	c.LookAt(o.Target)
}

// LightDir returns a headlight direction, pointing from the target toward
// the eye and slightly above it.
func (o *Orbit) LightDir() math3d.Vec3 {
	d := o.Eye().Sub(o.Target).Normalize()
	return d.Add(math3d.V3(0, 0.3, 0)).Normalize()
}

func clampDistance(d float64) float64 {
	return math3d.Clamp(d, minDistance, maxDistance)
}

// Settled reports whether the orbit has come to rest, so a frame drawn now
// would match the previous one.
func (o *Orbit) Settled() bool {
	const eps = 1e-4
	return math.Abs(o.Yaw.Velocity) < eps &&
		math.Abs(o.Pitch.Velocity) < eps &&
		math.Abs(o.distance-o.distTarget) < eps &&
		math.Abs(o.distVel) < eps
}
