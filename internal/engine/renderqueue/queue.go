// Package renderqueue collects sprite draw commands for one frame and
// dispatches them back to front.
package renderqueue

import (
	"sort"

	"github.com/Faultbox/midgard-iso/internal/engine/camera"
	"github.com/Faultbox/midgard-iso/internal/engine/texture"
	"github.com/Faultbox/midgard-iso/pkg/math"
)

// Cmd is one sprite draw. Pos is the top-left in world pixels; commands
// with a lower Depth are drawn first.
type Cmd struct {
	Texture texture.Handle
	Pos     math.Vec2
	Size    math.Vec2
	UVMin   math.Vec2
	UVMax   math.Vec2
	Depth   float32
}

// Rasterizer draws a textured quad.
type Rasterizer interface {
	Draw(tex texture.Handle, topLeft, size math.Vec2, cam *camera.Camera2D, uvMin, uvMax math.Vec2)
}

// Queue is a per-frame list of draw commands. It keeps its capacity across
// frames.
type Queue struct {
	cmds []Cmd
}

// New creates a queue with room for n commands.
func New(n int) *Queue {
	return &Queue{cmds: make([]Cmd, 0, n)}
}

// Push appends a command.
func (q *Queue) Push(c Cmd) {
	q.cmds = append(q.cmds, c)
}

// Reserve grows capacity to hold at least n commands.
func (q *Queue) Reserve(n int) {
	if cap(q.cmds) >= n {
		return
	}
	grown := make([]Cmd, len(q.cmds), n)
	copy(grown, q.cmds)
	q.cmds = grown
}

// Clear empties the queue.
func (q *Queue) Clear() {
	q.cmds = q.cmds[:0]
}

// Len returns the number of queued commands.
func (q *Queue) Len() int {
	return len(q.cmds)
}

// Items returns the queued commands. The slice is only valid until the next
// Push or Clear.
func (q *Queue) Items() []Cmd {
	return q.cmds
}

// SortByDepthStable orders commands by ascending Depth. Commands with equal
// Depth keep their push order, so ties never swap between frames.
func (q *Queue) SortByDepthStable() {
	sort.SliceStable(q.cmds, func(i, j int) bool {
		return q.cmds[i].Depth < q.cmds[j].Depth
	})
}

// Dispatch draws every command in queue order.
func (q *Queue) Dispatch(r Rasterizer, cam *camera.Camera2D) {
	for i := range q.cmds {
		c := &q.cmds[i]
		r.Draw(c.Texture, c.Pos, c.Size, cam, c.UVMin, c.UVMax)
	}
}
