package entity

import (
	gomath "math"

	"github.com/Faultbox/midgard-iso/pkg/math"
)

// Movement tuning.
const (
	DefaultWalkSpeed = 3.0 // tiles per second
	DefaultRunSpeed  = 5.0
	DefaultWalkFPS   = 9.0
	DefaultRunFPS    = 13.0

	walkLean    = 1.5 // pixels
	runLean     = 2.5
	runKickTime = 0.10 // seconds
	runKickLean = 1.5
	snapEpsilon = 0.02 // cells
)

// Collider moves a box through the collision grid.
type Collider interface {
	MoveAndSlide(pos, delta, half math.Vec2) math.Vec2
}

// Intent is one frame of movement input.
type Intent struct {
	Up, Down, Left, Right bool

	// Run is the state of the run toggle key; each press flips running.
	Run bool

	// Steer is a grid direction used when no direction key is held, such as
	// a path being followed.
	Steer math.Vec2
}

// ScreenDir returns the screen-space direction of the held keys.
func (in Intent) ScreenDir() math.Vec2 {
	var d math.Vec2
	if in.Up {
		d.Y--
	}
	if in.Down {
		d.Y++
	}
	if in.Left {
		d.X--
	}
	if in.Right {
		d.X++
	}
	return d
}

// Controller turns input into player movement and walk animation.
type Controller struct {
	WalkSpeed   float32
	RunSpeed    float32
	WalkFPS     float32
	RunFPS      float32
	HalfExtents math.Vec2

	running bool
	wasRun  bool
	moving  bool

	moveVec   math.Vec2
	animTimer float32
	animStep  int
	runKick   float32
}

// NewController creates a controller with the default tuning.
func NewController(half math.Vec2) *Controller {
	return &Controller{
		WalkSpeed:   DefaultWalkSpeed,
		RunSpeed:    DefaultRunSpeed,
		WalkFPS:     DefaultWalkFPS,
		RunFPS:      DefaultRunFPS,
		HalfExtents: half,
	}
}

// Running reports whether the run toggle is on.
func (c *Controller) Running() bool { return c.running }

// Moving reports whether the player moved on the last update.
func (c *Controller) Moving() bool { return c.moving }

// MoveVec returns the unit grid direction of the last update.
func (c *Controller) MoveVec() math.Vec2 { return c.moveVec }

// Update advances p by dt seconds of input in.
func (c *Controller) Update(p *Player, in Intent, dt float32, world Collider) {
	if in.Run && !c.wasRun {
		c.running = !c.running
		if c.moving {
			c.animTimer = 0
			c.animStep = 0
			c.runKick = runKickTime
		}
	}
	c.wasRun = in.Run

	screenDir := in.ScreenDir()
	gridDir := ScreenToGrid(screenDir)
	if gridDir.IsZero() && !in.Steer.IsZero() {
		gridDir = in.Steer.Normalize()
		screenDir = GridToScreen(gridDir)
	}

	moving := !gridDir.IsZero()
	if moving != c.moving {
		c.animTimer = 0
		c.animStep = 0
	}
	c.moving = moving
	c.moveVec = gridDir

	facing := p.Facing
	if moving {
		facing = FacingFor(screenDir, p.Facing)
	}
	c.animate(dt)
	p.SetFrame(facing, c.animStep)
	p.VisualOffset = c.visualOffset(screenDir.Normalize(), dt)

	if !moving {
		return
	}

	speed := c.WalkSpeed
	if c.running {
		speed = c.RunSpeed
	}
	pos := world.MoveAndSlide(p.GridPos, gridDir.Scale(speed*dt), c.HalfExtents)

	// Settle onto the cell center of the axis not being moved along.
	if abs32(gridDir.X) > abs32(gridDir.Y) {
		pos.Y = snapAxis(pos.Y)
	} else {
		pos.X = snapAxis(pos.X)
	}
	p.GridPos = pos
}

func (c *Controller) animate(dt float32) {
	if !c.moving {
		c.animTimer = 0
		c.animStep = 0
		return
	}

	fps := c.WalkFPS
	if c.running {
		fps = c.RunFPS
	}
	if fps <= 0 {
		return
	}

	frameTime := 1 / fps
	c.animTimer += dt
	for c.animTimer >= frameTime {
		c.animTimer -= frameTime
		c.animStep = (c.animStep + 1) % FramesPerDirection
	}
}

// visualOffset returns the lean and step bob of the sprite.
func (c *Controller) visualOffset(screenDir math.Vec2, dt float32) math.Vec2 {
	c.runKick = max(0, c.runKick-dt)
	if !c.moving {
		return math.Vec2{}
	}

	lean, bobAmp := float32(walkLean), float32(1.0)
	if c.running {
		lean, bobAmp = runLean, 1.6
	}
	off := screenDir.Scale(lean)

	bob := [FramesPerDirection]float32{-0.5, 0, 0.5, 0}
	off.Y += bob[c.animStep] * bobAmp

	if c.runKick > 0 {
		off = off.Add(screenDir.Scale(c.runKick / runKickTime * runKickLean))
	}
	return off
}

// snapAxis moves v onto its cell center when it is already very close.
func snapAxis(v float32) float32 {
	center := float32(gomath.Round(float64(v-0.5))) + 0.5
	if abs32(v-center) < snapEpsilon {
		return center
	}
	return v
}
