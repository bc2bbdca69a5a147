package entity

import (
	"testing"

	"github.com/Faultbox/midgard-iso/internal/engine/texture"
	"github.com/Faultbox/midgard-iso/pkg/math"
)

// openWorld applies every move unchanged.
type openWorld struct {
	moves int
}

func (w *openWorld) MoveAndSlide(pos, delta, _ math.Vec2) math.Vec2 {
	w.moves++
	return pos.Add(delta)
}

func createTestPlayer(pos math.Vec2) *Player {
	return NewPlayer(texture.Handle{ID: 1}, DefaultPlayerSize, pos)
}

func TestControllerWalk(t *testing.T) {
	c := NewController(math.Vec2{X: 0.05, Y: 0.05})
	p := createTestPlayer(math.Vec2{X: 2.5, Y: 2.5})
	w := &openWorld{}

	c.Update(p, Intent{Right: true}, 0.1, w)

	// Screen right is grid (+1,-1); 3 tiles/s for 0.1 s.
	step := float32(0.3 / 1.41421356)
	if !approx(p.GridPos.X, 2.5+step) || !approx(p.GridPos.Y, 2.5-step) {
		t.Errorf("GridPos = %v", p.GridPos)
	}
	if p.Facing != FacingRight || !c.Moving() || w.moves != 1 {
		t.Errorf("facing %v, moving %v, moves %d", p.Facing, c.Moving(), w.moves)
	}
	if p.VisualOffset.X <= 0 {
		t.Errorf("walking right should lean right, offset %v", p.VisualOffset)
	}
}

func TestControllerRunToggle(t *testing.T) {
	c := NewController(math.Vec2{})
	p := createTestPlayer(math.Vec2{X: 5.5, Y: 5.5})
	w := &openWorld{}

	presses := []struct {
		run  bool
		want bool
	}{
		{true, true},
		{true, true}, // held, no new press
		{false, true},
		{true, false},
	}

	for i, step := range presses {
		c.Update(p, Intent{Run: step.run}, 0.016, w)
		if c.Running() != step.want {
			t.Errorf("step %d: Running() = %v, want %v", i, c.Running(), step.want)
		}
	}

	c.Update(p, Intent{}, 0.016, w)
	c.Update(p, Intent{Run: true, Down: true}, 0.1, w)
	if !c.Running() {
		t.Fatal("second run press should toggle running on")
	}
	start := math.Vec2{X: 5.5, Y: 5.5}
	if d := p.GridPos.Distance(start); !approx(d, 0.5) {
		t.Errorf("running moved %v tiles in 0.1 s, want 0.5", d)
	}
}

func TestControllerAnimation(t *testing.T) {
	c := NewController(math.Vec2{})
	p := createTestPlayer(math.Vec2{X: 5.5, Y: 5.5})
	w := &openWorld{}

	// 9 fps: 0.25 s covers two frames.
	c.Update(p, Intent{Down: true}, 0.25, w)
	if p.Facing != FacingDown || p.Frame != 2 {
		t.Errorf("facing %v frame %d, want down frame 2", p.Facing, p.Frame)
	}

	c.Update(p, Intent{}, 0.1, w)
	if p.Frame != 0 || c.Moving() || !p.VisualOffset.IsZero() {
		t.Errorf("idle: frame %d, moving %v, offset %v", p.Frame, c.Moving(), p.VisualOffset)
	}
	if w.moves != 1 {
		t.Errorf("idle update moved the player")
	}
}

func TestControllerSteer(t *testing.T) {
	c := NewController(math.Vec2{})
	p := createTestPlayer(math.Vec2{X: 1.5, Y: 2.51})
	p.Facing = FacingLeft

	c.Update(p, Intent{Steer: math.Vec2{X: 2, Y: 0}}, 0.1, &openWorld{})

	if mv := c.MoveVec(); !approx(mv.X, 1) || !approx(mv.Y, 0) {
		t.Errorf("MoveVec() = %v, want (1, 0)", mv)
	}
	if !approx(p.GridPos.X, 1.8) {
		t.Errorf("X = %v, want 1.8", p.GridPos.X)
	}
	// Moving along X settles Y onto the cell center.
	if p.GridPos.Y != 2.5 {
		t.Errorf("Y = %v, want snapped 2.5", p.GridPos.Y)
	}
	// Grid +X is screen down-right, an exact diagonal: facing is kept.
	if p.Facing != FacingLeft {
		t.Errorf("Facing = %v, want left", p.Facing)
	}
}

func TestControllerKeysOverrideSteer(t *testing.T) {
	c := NewController(math.Vec2{})
	p := createTestPlayer(math.Vec2{X: 3.5, Y: 3.5})

	c.Update(p, Intent{Up: true, Steer: math.Vec2{X: 1, Y: 0}}, 0.1, &openWorld{})
	if p.Facing != FacingUp {
		t.Errorf("Facing = %v, want up", p.Facing)
	}
}

func TestSnapAxis(t *testing.T) {
	tests := []struct {
		in, want float32
	}{
		{2.51, 2.5},
		{2.49, 2.5},
		{2.55, 2.55},
		{0.5, 0.5},
	}

	for _, tc := range tests {
		if got := snapAxis(tc.in); got != tc.want {
			t.Errorf("snapAxis(%v) = %v, want %v", tc.in, got, tc.want)
		}
	}
}
