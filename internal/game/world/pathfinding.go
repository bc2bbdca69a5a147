package world

import (
	"container/heap"

	"github.com/Faultbox/midgard-iso/pkg/tmx"
)

// PathNode represents a node in the A* search.
type PathNode struct {
	X, Y   int     // Cell coordinates
	G      float32 // Cost from start
	H      float32 // Heuristic (estimated cost to goal)
	F      float32 // Total cost (G + H)
	Parent *PathNode
	Index  int // Index in heap
}

// PathHeap implements a priority queue for A*.
type PathHeap []*PathNode

func (h PathHeap) Len() int           { return len(h) }
func (h PathHeap) Less(i, j int) bool { return h[i].F < h[j].F }
func (h PathHeap) Swap(i, j int) {
	h[i], h[j] = h[j], h[i]
	h[i].Index = i
	h[j].Index = j
}

func (h *PathHeap) Push(x any) {
	node := x.(*PathNode)
	node.Index = len(*h)
	*h = append(*h, node)
}

func (h *PathHeap) Pop() any {
	old := *h
	n := len(old)
	node := old[n-1]
	old[n-1] = nil
	node.Index = -1
	*h = old[:n-1]
	return node
}

const (
	straightCost = float32(1.0)
	diagonalCost = float32(1.414)
)

// Neighbor offsets. Odd entries are diagonals.
var directions = [8][2]int{
	{0, 1},   // S
	{-1, 1},  // SW
	{-1, 0},  // W
	{-1, -1}, // NW
	{0, -1},  // N
	{1, -1},  // NE
	{1, 0},   // E
	{1, 1},   // SE
}

// PathFinder searches for paths over a map's collision grid.
type PathFinder struct {
	m      *tmx.Map
	width  int
	height int
}

// NewPathFinder creates a path finder for m. It returns nil for a nil map.
func NewPathFinder(m *tmx.Map) *PathFinder {
	if m == nil {
		return nil
	}
	return &PathFinder{m: m, width: m.Width, height: m.Height}
}

// FindPath returns the cells from start to goal inclusive using 8-way A*,
// or nil if no path exists. Diagonal steps may not cut a blocked corner.
func (pf *PathFinder) FindPath(startX, startY, goalX, goalY int) [][2]int {
	if pf == nil {
		return nil
	}
	if !pf.inBounds(startX, startY) || !pf.IsWalkable(goalX, goalY) {
		return nil
	}

	openSet := &PathHeap{}
	heap.Init(openSet)

	closed := make(map[int]bool)
	nodes := make(map[int]*PathNode)

	start := &PathNode{X: startX, Y: startY, H: heuristic(startX, startY, goalX, goalY)}
	start.F = start.H
	heap.Push(openSet, start)
	nodes[pf.key(startX, startY)] = start

	maxIterations := pf.width * pf.height
	for iter := 0; openSet.Len() > 0 && iter < maxIterations; iter++ {
		current := heap.Pop(openSet).(*PathNode)
		if current.X == goalX && current.Y == goalY {
			return reconstructPath(current)
		}
		closed[pf.key(current.X, current.Y)] = true

		for i, dir := range directions {
			nx, ny := current.X+dir[0], current.Y+dir[1]
			if !pf.IsWalkable(nx, ny) || closed[pf.key(nx, ny)] {
				continue
			}

			cost := straightCost
			if i%2 == 1 {
				cost = diagonalCost
				if !pf.IsWalkable(current.X+dir[0], current.Y) ||
					!pf.IsWalkable(current.X, current.Y+dir[1]) {
					continue
				}
			}

			g := current.G + cost
			neighbor, seen := nodes[pf.key(nx, ny)]
			switch {
			case !seen:
				neighbor = &PathNode{
					X:      nx,
					Y:      ny,
					G:      g,
					H:      heuristic(nx, ny, goalX, goalY),
					Parent: current,
				}
				neighbor.F = neighbor.G + neighbor.H
				nodes[pf.key(nx, ny)] = neighbor
				heap.Push(openSet, neighbor)
			case g < neighbor.G:
				neighbor.G = g
				neighbor.F = neighbor.G + neighbor.H
				neighbor.Parent = current
				heap.Fix(openSet, neighbor.Index)
			}
		}
	}

	return nil
}

// IsWalkable reports whether cell (x, y) is inside the map and passable.
func (pf *PathFinder) IsWalkable(x, y int) bool {
	if pf == nil || !pf.inBounds(x, y) {
		return false
	}
	return !pf.m.Blocked(x, y)
}

func (pf *PathFinder) inBounds(x, y int) bool {
	return x >= 0 && x < pf.width && y >= 0 && y < pf.height
}

func (pf *PathFinder) key(x, y int) int {
	return y*pf.width + x
}

// heuristic is the octile distance between two cells.
func heuristic(x1, y1, x2, y2 int) float32 {
	dx := abs(x2 - x1)
	dy := abs(y2 - y1)
	if dx < dy {
		return float32(dx)*diagonalCost + float32(dy-dx)
	}
	return float32(dy)*diagonalCost + float32(dx-dy)
}

func reconstructPath(node *PathNode) [][2]int {
	var path [][2]int
	for ; node != nil; node = node.Parent {
		path = append(path, [2]int{node.X, node.Y})
	}
	for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
		path[i], path[j] = path[j], path[i]
	}
	return path
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
