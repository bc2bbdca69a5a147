package camera

import (
	gomath "math"
	"testing"

	"github.com/Faultbox/midgard-iso/pkg/math"
)

func TestWorldToScreen(t *testing.T) {
	c := New(800, 600)
	c.SetPosition(math.Vec2{X: 100, Y: 50})

	got := c.WorldToScreen(math.Vec2{X: 150, Y: 60})
	if got.X != 50 || got.Y != 10 {
		t.Errorf("WorldToScreen() = %v, want (50,10)", got)
	}
	if back := c.ScreenToWorld(got); back.X != 150 || back.Y != 60 {
		t.Errorf("ScreenToWorld() = %v", back)
	}

	c.Move(math.Vec2{X: -100, Y: -50})
	if !c.Position.IsZero() {
		t.Errorf("Move() position = %v", c.Position)
	}
}

func TestFollowDeadZone(t *testing.T) {
	c := New(800, 600)
	c.CenterOn(math.Vec2{X: 400, Y: 300})
	start := c.Position

	// Inside the 32x16 dead zone: no movement.
	c.Follow(math.Vec2{X: 430, Y: 310}, 0.016)
	if c.Position != start {
		t.Errorf("camera moved inside dead zone: %v -> %v", start, c.Position)
	}
}

func TestFollowConverges(t *testing.T) {
	c := New(800, 600)
	target := math.Vec2{X: 1000, Y: 700}

	for i := 0; i < 600; i++ {
		c.Follow(target, 1.0/60)
	}

	center := c.Position.Add(c.Viewport.Scale(0.5))
	d := target.Sub(center)
	if gomath.Abs(float64(d.X)) > float64(c.DeadZone.X)+0.01 || gomath.Abs(float64(d.Y)) > float64(c.DeadZone.Y)+0.01 {
		t.Errorf("target still outside dead zone after 10s: offset %v", d)
	}
}

func TestFollowSnap(t *testing.T) {
	c := New(100, 100)
	c.Smoothing = math.Vec2{}
	c.DeadZone = math.Vec2{}

	c.Follow(math.Vec2{X: 500, Y: -20}, 0.016)
	if c.Position.X != 450 || c.Position.Y != -70 {
		t.Errorf("snap follow position = %v, want (450,-70)", c.Position)
	}
}

func TestVisible(t *testing.T) {
	c := New(100, 100)

	tests := []struct {
		name   string
		r      math.Rect
		margin float32
		want   bool
	}{
		{"inside", math.Rect{Pos: math.Vec2{X: 10, Y: 10}, Size: math.Vec2{X: 5, Y: 5}}, 0, true},
		{"left of view", math.Rect{Pos: math.Vec2{X: -20, Y: 10}, Size: math.Vec2{X: 10, Y: 10}}, 0, false},
		{"within margin", math.Rect{Pos: math.Vec2{X: -20, Y: 10}, Size: math.Vec2{X: 10, Y: 10}}, 16, true},
		{"below view", math.Rect{Pos: math.Vec2{X: 10, Y: 200}, Size: math.Vec2{X: 10, Y: 10}}, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := c.Visible(tt.r, tt.margin); got != tt.want {
				t.Errorf("Visible() = %v, want %v", got, tt.want)
			}
		})
	}

	var unsized Camera2D
	if !unsized.Visible(math.Rect{Pos: math.Vec2{X: 1e6}}, 0) {
		t.Error("camera without viewport should see everything")
	}
}
