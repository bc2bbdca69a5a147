package world

import (
	"testing"

	"github.com/Faultbox/midgard-iso/pkg/math"
)

func TestPathFinder_FindPath_Simple(t *testing.T) {
	// 5x5 map, no obstacles
	m := createTestLevel(5, 5, nil)
	pf := NewPathFinder(m.Map)

	path := pf.FindPath(0, 0, 4, 4)
	if path == nil {
		t.Fatal("expected path, got nil")
	}

	// Path should start at (0,0) and end at (4,4)
	if path[0][0] != 0 || path[0][1] != 0 {
		t.Errorf("path should start at (0,0), got (%d,%d)", path[0][0], path[0][1])
	}

	lastIdx := len(path) - 1
	if path[lastIdx][0] != 4 || path[lastIdx][1] != 4 {
		t.Errorf("path should end at (4,4), got (%d,%d)", path[lastIdx][0], path[lastIdx][1])
	}
}

func TestPathFinder_FindPath_WithObstacle(t *testing.T) {
	// 5x5 map with wall in the middle
	blocked := [][2]int{
		{2, 0}, {2, 1}, {2, 2}, {2, 3},
	}
	m := createTestLevel(5, 5, blocked)
	pf := NewPathFinder(m.Map)

	path := pf.FindPath(0, 2, 4, 2)
	if path == nil {
		t.Fatal("expected path around obstacle, got nil")
	}

	// Verify path doesn't go through blocked cells
	for _, p := range path {
		if p[0] == 2 && p[1] < 4 {
			t.Errorf("path went through blocked cell at (%d,%d)", p[0], p[1])
		}
	}
}

func TestPathFinder_FindPath_NoPath(t *testing.T) {
	// 5x5 map with complete wall
	blocked := [][2]int{
		{2, 0}, {2, 1}, {2, 2}, {2, 3}, {2, 4},
	}
	m := createTestLevel(5, 5, blocked)
	pf := NewPathFinder(m.Map)

	path := pf.FindPath(0, 2, 4, 2)
	if path != nil {
		t.Errorf("expected no path, got %v", path)
	}
}

func TestPathFinder_FindPath_SameStartGoal(t *testing.T) {
	m := createTestLevel(5, 5, nil)
	pf := NewPathFinder(m.Map)

	path := pf.FindPath(2, 2, 2, 2)
	if path == nil || len(path) == 0 {
		t.Fatal("expected path with single node")
	}

	if len(path) != 1 {
		t.Errorf("expected path length 1, got %d", len(path))
	}
}

func TestPathFinder_FindPath_OutOfBounds(t *testing.T) {
	m := createTestLevel(5, 5, nil)
	pf := NewPathFinder(m.Map)

	// Start out of bounds
	path := pf.FindPath(-1, 0, 4, 4)
	if path != nil {
		t.Error("expected nil for out of bounds start")
	}

	// Goal out of bounds
	path = pf.FindPath(0, 0, 10, 10)
	if path != nil {
		t.Error("expected nil for out of bounds goal")
	}
}

func TestPathFinder_FindPath_BlockedGoal(t *testing.T) {
	blocked := [][2]int{{4, 4}}
	m := createTestLevel(5, 5, blocked)
	pf := NewPathFinder(m.Map)

	path := pf.FindPath(0, 0, 4, 4)
	if path != nil {
		t.Error("expected nil for blocked goal")
	}
}

func TestPathFinder_IsWalkable(t *testing.T) {
	blocked := [][2]int{{2, 2}}
	m := createTestLevel(5, 5, blocked)
	pf := NewPathFinder(m.Map)

	if pf.IsWalkable(2, 2) {
		t.Error("expected (2,2) to be blocked")
	}

	if !pf.IsWalkable(0, 0) {
		t.Error("expected (0,0) to be walkable")
	}

	if pf.IsWalkable(-1, 0) {
		t.Error("expected out of bounds to be not walkable")
	}
}

func TestPathFinder_NoDiagonalCornerCutting(t *testing.T) {
	// (1,0) and (0,1) blocked: the only step from (0,0) is the diagonal,
	// which would cut both corners.
	m := createTestLevel(3, 3, [][2]int{{1, 0}, {0, 1}})
	pf := NewPathFinder(m.Map)

	if path := pf.FindPath(0, 0, 2, 2); path != nil {
		t.Errorf("expected no path, got %v", path)
	}
}

func TestPathFinder_NilMap(t *testing.T) {
	pf := NewPathFinder(nil)
	if pf.FindPath(0, 0, 1, 1) != nil || pf.IsWalkable(0, 0) {
		t.Error("nil path finder should find nothing")
	}
}

func TestPathFollower(t *testing.T) {
	m := createTestLevel(5, 1, nil)
	f := NewPathFollower(NewPathFinder(m.Map))

	pos := math.Vec2{X: 0.5, Y: 0.5}
	if !f.MoveTo(pos, 3, 0) {
		t.Fatal("MoveTo() found no path")
	}
	if got := len(f.Remaining()); got != 3 {
		t.Fatalf("remaining waypoints = %d, want 3", got)
	}

	dir := f.Direction(pos)
	if !approx(dir.X, 1) || !approx(dir.Y, 0) {
		t.Errorf("Direction() = %v, want (1, 0)", dir)
	}

	// Standing on the first waypoint moves on to the next one.
	pos = CellCenter(1, 0)
	f.Direction(pos)
	if got := len(f.Remaining()); got != 2 {
		t.Errorf("remaining after arriving = %d, want 2", got)
	}

	f.Direction(CellCenter(2, 0))
	pos = CellCenter(3, 0)
	if dir := f.Direction(pos); !dir.IsZero() || f.Active() {
		t.Errorf("at goal: Direction() = %v, Active() = %v", dir, f.Active())
	}
}

func TestPathFollowerUnreachable(t *testing.T) {
	m := createTestLevel(3, 1, [][2]int{{1, 0}})
	f := NewPathFollower(NewPathFinder(m.Map))

	if f.MoveTo(math.Vec2{X: 0.5, Y: 0.5}, 2, 0) {
		t.Error("MoveTo() through a wall should fail")
	}
	if f.Active() {
		t.Error("follower active after failed MoveTo")
	}
}
