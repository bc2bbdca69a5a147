package math

import (
	"testing"
)

func TestVec2Add(t *testing.T) {
	a := Vec2{1, 2}
	b := Vec2{3, 4}
	got := a.Add(b)
	want := Vec2{4, 6}
	if got != want {
		t.Errorf("Vec2.Add() = %v, want %v", got, want)
	}
}

func TestVec2Length(t *testing.T) {
	v := Vec2{3, 4}
	got := v.Length()
	want := float32(5)
	if got != want {
		t.Errorf("Vec2.Length() = %v, want %v", got, want)
	}
}

func TestVec2Normalize(t *testing.T) {
	v := Vec2{3, 4}
	n := v.Normalize()
	l := n.Length()
	if l < 0.999 || l > 1.001 {
		t.Errorf("Vec2.Normalize().Length() = %v, want ~1", l)
	}

	if z := (Vec2{}).Normalize(); !z.IsZero() {
		t.Errorf("zero vector normalized to %v", z)
	}
}

func TestVec2Floor(t *testing.T) {
	tests := []struct {
		v      Vec2
		wx, wy int
	}{
		{Vec2{0.5, 0.5}, 0, 0},
		{Vec2{1.99, 2.0}, 1, 2},
		{Vec2{-0.1, -1.5}, -1, -2},
	}

	for _, tc := range tests {
		x, y := tc.v.Floor()
		if x != tc.wx || y != tc.wy {
			t.Errorf("%v.Floor() = (%d,%d), want (%d,%d)", tc.v, x, y, tc.wx, tc.wy)
		}
	}
}

func TestRectContains(t *testing.T) {
	r := Rect{Pos: Vec2{10, 10}, Size: Vec2{20, 5}}

	if !r.Contains(Vec2{10, 10}) {
		t.Error("top-left corner should be inside")
	}
	if !r.Contains(Vec2{30, 15}) {
		t.Error("bottom-right corner should be inside")
	}
	if r.Contains(Vec2{31, 12}) {
		t.Error("point right of rect should be outside")
	}
	if r.Contains(Vec2{15, 9}) {
		t.Error("point above rect should be outside")
	}
}

func TestRectIntersects(t *testing.T) {
	a := Rect{Pos: Vec2{0, 0}, Size: Vec2{10, 10}}
	b := Rect{Pos: Vec2{5, 5}, Size: Vec2{10, 10}}
	c := Rect{Pos: Vec2{10, 0}, Size: Vec2{5, 5}}

	if !a.Intersects(b) {
		t.Error("overlapping rects should intersect")
	}
	if a.Intersects(c) {
		t.Error("edge-touching rects should not intersect")
	}
}
