// Package gravity owns the avatar's gravity direction: preview of a candidate
// axis, commit, and the timed reorientation that swings the avatar about its
// head pivot until its up axis opposes the new gravity.
package gravity

import (
	"log/slog"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/pthm-cable/gravwalk/geom"
	"github.com/pthm-cable/gravwalk/scheduler"
)

// completionTolerance lets a run of dt ticks summing to the duration finish.
const completionTolerance = 1e-9

// minSwingAxis is the squared cross-product length below which the pivot
// swing is skipped for a tick.
const minSwingAxis = 1e-4

// Phase is the director state.
type Phase int

const (
	PhaseIdle Phase = iota
	PhasePreviewing
	PhaseReorienting
)

func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhasePreviewing:
		return "previewing"
	case PhaseReorienting:
		return "reorienting"
	}
	return "unknown"
}

// Body is the part of the rigid body the director drives.
type Body interface {
	Position() mgl64.Vec3
	SetPosition(mgl64.Vec3)
	Orientation() mgl64.Quat
	SetOrientation(mgl64.Quat)
	Velocity() mgl64.Vec3
	SetVelocity(mgl64.Vec3)
}

// Pivot supplies the world point the avatar swings about.
type Pivot interface {
	PivotPosition() mgl64.Vec3
}

// IgnoreWindow is notified when a reorientation completes.
type IgnoreWindow interface {
	StartIgnore(d float64)
}

// OffsetPivot is a pivot at a fixed local offset from a body, such as a head.
type OffsetPivot struct {
	Body   Body
	Offset mgl64.Vec3
}

// PivotPosition returns the body position plus the rotated offset.
func (p OffsetPivot) PivotPosition() mgl64.Vec3 {
	if p.Body == nil {
		return mgl64.Vec3{}
	}
	return p.Body.Position().Add(p.Body.Orientation().Rotate(p.Offset))
}

// Params tunes the director.
type Params struct {
	Magnitude           float64 // acceleration along the gravity axis
	ReorientDuration    float64 // seconds
	IgnoreAfterReorient float64 // ground/fall ignore window after completion
	HologramDistance    float64
}

// DefaultParams returns the stock tuning.
func DefaultParams() Params {
	return Params{
		Magnitude:           15,
		ReorientDuration:    0.35,
		IgnoreAfterReorient: 0.4,
		HologramDistance:    1.5,
	}
}

// Hologram is the preview ghost pose.
type Hologram struct {
	Visible     bool
	Axis        Axis
	Position    mgl64.Vec3
	Orientation mgl64.Quat
}

// Director is the gravity state machine.
type Director struct {
	body   Body
	pivot  Pivot
	params Params
	ignore []IgnoreWindow

	current Axis
	pending Axis
	phase   Phase

	elapsed    float64
	start      mgl64.Quat
	target     mgl64.Quat
	pivotPoint mgl64.Vec3

	hologram Hologram
	commits  int
}

// NewDirector creates a director with gravity pointing down. pivot may be nil,
// in which case the avatar swings about its own position.
func NewDirector(body Body, pivot Pivot, params Params, ignore ...IgnoreWindow) *Director {
	return &Director{
		body:    body,
		pivot:   pivot,
		params:  params,
		ignore:  ignore,
		current: AxisDown,
		start:   mgl64.QuatIdent(),
		target:  mgl64.QuatIdent(),
	}
}

// SetParams replaces the tuning. A running reorientation keeps its progress.
func (d *Director) SetParams(p Params) { d.params = p }

// Params returns the current tuning.
func (d *Director) Params() Params { return d.params }

// SetCurrent forces the gravity axis without a maneuver. Used at spawn.
func (d *Director) SetCurrent(a Axis) {
	if a == AxisNone {
		return
	}
	d.current = a
	d.pending = AxisNone
	d.phase = PhaseIdle
	d.hologram = Hologram{}
}

// CurrentDirection returns the unit gravity vector.
func (d *Director) CurrentDirection() mgl64.Vec3 { return d.current.Vec() }

// CurrentAxis returns the gravity axis.
func (d *Director) CurrentAxis() Axis { return d.current }

// Pending returns the previewed or committed axis, or AxisNone.
func (d *Director) Pending() Axis { return d.pending }

// Phase returns the state machine phase.
func (d *Director) Phase() Phase { return d.phase }

// Reorienting reports whether a maneuver is running.
func (d *Director) Reorienting() bool { return d.phase == PhaseReorienting }

// Commits returns how many maneuvers have started.
func (d *Director) Commits() int { return d.commits }

// Progress returns the maneuver progress in [0, 1]; 0 when not reorienting.
func (d *Director) Progress() float64 {
	if d.phase != PhaseReorienting {
		return 0
	}
	if d.params.ReorientDuration <= 0 {
		return 1
	}
	return geom.Clamp01(d.elapsed / d.params.ReorientDuration)
}

// Hologram returns the preview ghost pose.
func (d *Director) Hologram() Hologram { return d.hologram }

// TickVariable samples preview and commit input, then advances a running
// maneuver.
func (d *Director) TickVariable(s scheduler.Step) {
	d.PreviewInput(PreviewAxis(s.Input))
	if s.Input.CommitPressed {
		d.Commit()
	}
	d.Advance(s.DT)
}

// TickFixed applies gravity.
func (d *Director) TickFixed(s scheduler.Step) {
	d.ApplyGravity(s.DT)
}

// PreviewInput selects a candidate axis. It is ignored while reorienting.
func (d *Director) PreviewInput(candidate Axis) {
	if d.phase == PhaseReorienting {
		return
	}
	if candidate == AxisNone || d.body == nil {
		d.phase = PhaseIdle
		d.pending = AxisNone
		d.hologram = Hologram{}
		return
	}

	d.phase = PhasePreviewing
	d.pending = candidate
	up := candidate.Vec().Mul(-1)
	d.hologram = Hologram{
		Visible:     true,
		Axis:        candidate,
		Position:    d.body.Position().Add(up.Mul(d.params.HologramDistance)),
		Orientation: d.targetFor(candidate),
	}
}

// Commit starts a reorientation toward the pending axis. It returns false and
// does nothing unless a preview is active.
func (d *Director) Commit() bool {
	if d.phase != PhasePreviewing || d.pending == AxisNone || d.body == nil {
		return false
	}

	d.start = d.body.Orientation()
	d.target = d.targetFor(d.pending)
	d.pivotPoint = d.body.Position()
	if d.pivot != nil {
		d.pivotPoint = d.pivot.PivotPosition()
	}
	d.phase = PhaseReorienting
	d.elapsed = 0
	d.hologram = Hologram{}
	d.commits++

	slog.Info("gravity reorientation started", "from", d.current, "to", d.pending)
	return true
}

// targetFor returns the orientation whose up opposes axis and whose forward
// is the current forward flattened onto the new floor plane.
func (d *Director) targetFor(axis Axis) mgl64.Quat {
	fwd, _, right := geom.Axes(d.body.Orientation())
	up := axis.Vec().Mul(-1)

	flat := geom.ProjectOnPlane(fwd, up)
	if flat.LenSqr() < minSwingAxis {
		flat = geom.ProjectOnPlane(right, up)
	}
	q, ok := geom.LookRotation(flat, up)
	if !ok {
		// Forward and right both parallel to up cannot happen for an
		// orthonormal frame; keep the current pose.
		return d.body.Orientation()
	}
	return q
}

// Advance moves a running maneuver forward by dt.
func (d *Director) Advance(dt float64) {
	if d.phase != PhaseReorienting || d.body == nil {
		return
	}
	if dt > 0 {
		d.elapsed += dt
	}

	t := 1.0
	if d.params.ReorientDuration > 0 {
		if d.elapsed > d.params.ReorientDuration {
			d.elapsed = d.params.ReorientDuration
		}
		t = d.elapsed / d.params.ReorientDuration
		if t >= 1-completionTolerance {
			t = 1
		}
	}

	next := geom.Slerp(d.start, d.target, t)
	curFwd := d.body.Orientation().Rotate(geom.Forward)
	nextFwd := next.Rotate(geom.Forward)
	if axis := curFwd.Cross(nextFwd); axis.LenSqr() > minSwingAxis {
		pos := geom.RotateAround(d.body.Position(), d.pivotPoint, axis, geom.Angle(curFwd, nextFwd))
		d.body.SetPosition(pos)
	}
	d.body.SetOrientation(next)

	if t >= 1 {
		d.finish()
	}
}

func (d *Director) finish() {
	old := d.current.Vec()
	d.body.SetOrientation(d.target)
	d.body.SetVelocity(d.body.Velocity().Sub(geom.Project(d.body.Velocity(), old)))

	from := d.current
	d.current = d.pending
	d.pending = AxisNone
	d.phase = PhaseIdle
	d.elapsed = 0

	for _, l := range d.ignore {
		if l != nil {
			l.StartIgnore(d.params.IgnoreAfterReorient)
		}
	}
	slog.Info("gravity reorientation finished", "from", from, "to", d.current)
}

// ApplyGravity accelerates the body along the current axis. It runs in every
// phase.
func (d *Director) ApplyGravity(dt float64) {
	if d.body == nil || dt <= 0 {
		return
	}
	g := d.current.Vec().Mul(d.params.Magnitude * dt)
	d.body.SetVelocity(d.body.Velocity().Add(g))
}
