package game

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/Faultbox/midgard-iso/internal/engine/camera"
	"github.com/Faultbox/midgard-iso/internal/engine/debug"
	"github.com/Faultbox/midgard-iso/internal/engine/renderqueue"
	"github.com/Faultbox/midgard-iso/internal/engine/tilemap"
	"github.com/Faultbox/midgard-iso/internal/game/entity"
	"github.com/Faultbox/midgard-iso/internal/game/world"
	"github.com/Faultbox/midgard-iso/pkg/iso"
	"github.com/Faultbox/midgard-iso/pkg/math"
)

// FrameInput is the input of one frame, already mapped from devices.
type FrameInput struct {
	Move     entity.Intent
	Interact bool

	// Click is the screen position of a click-to-move request.
	Click   math.Vec2
	Clicked bool
}

// FrameStats counts what one Render drew.
type FrameStats struct {
	Ground    int
	Queued    int
	Overhead  int
	Collision int
}

// Total returns the number of sprites drawn.
func (s FrameStats) Total() int {
	return s.Ground + s.Queued + s.Overhead + s.Collision
}

// Session is the explorable scene: the current level, the player walking it
// and the camera following them. It draws through a Rasterizer and holds no
// GL state.
type Session struct {
	Manager    *world.Manager
	Player     *entity.Player
	Controller *entity.Controller
	Camera     *camera.Camera2D

	// ShowCollision draws Overlay over blocked cells.
	ShowCollision bool
	Overlay       *debug.CollisionOverlay

	// CullMargin is applied to every level entered.
	CullMargin float32

	originY  float32
	follower *world.PathFollower
	queue    *renderqueue.Queue
	clockMs  float64
	log      *zap.Logger
}

// NewSession creates a session drawn through cam whose map cell (0,0) sits
// originY pixels from the top of the view.
func NewSession(mgr *world.Manager, player *entity.Player, cam *camera.Camera2D, originY float32, log *zap.Logger) *Session {
	if log == nil {
		log = zap.NewNop()
	}
	return &Session{
		Manager:    mgr,
		Player:     player,
		Controller: entity.NewController(world.DefaultHalfExtents),
		Camera:     cam,
		CullMargin: tilemap.DefaultCullMargin,
		originY:    originY,
		queue:      renderqueue.New(256),
		log:        log,
	}
}

// Origin returns the map anchor for the current viewport width.
func (s *Session) Origin() math.Vec2 {
	o := iso.MapOrigin(int(s.Camera.Viewport.X))
	o.Y = s.originY
	return o
}

// ClockMs returns the animation clock in milliseconds.
func (s *Session) ClockMs() float64 {
	return s.clockMs
}

// Start loads the map at path and places the player at spawn.
func (s *Session) Start(path, spawn string) error {
	s.Manager.SetOrigin(s.Origin())
	l, err := s.Manager.Load(path)
	if err != nil {
		return fmt.Errorf("loading %s: %w", path, err)
	}
	s.enter(l, l.StartPosition(spawn))
	s.log.Info("map loaded",
		zap.String("path", path),
		zap.String("spawn", spawn),
		zap.Int("width", l.Map.Width),
		zap.Int("height", l.Map.Height),
		zap.Int("tilesets", l.Catalog.Len()))
	return nil
}

func (s *Session) enter(l *world.Level, pos math.Vec2) {
	l.Grid.CullMargin = s.CullMargin
	s.Player.GridPos = pos
	s.follower = world.NewPathFollower(world.NewPathFinder(l.Map))
	s.Camera.CenterOn(s.feet(l))
}

func (s *Session) feet(l *world.Level) math.Vec2 {
	return s.Player.FeetWorld(l.Map.TileWidth, l.Map.TileHeight, l.Grid.Origin)
}

// Resize adapts the camera and map anchor to a new viewport.
func (s *Session) Resize(width, height int) {
	s.Camera.SetViewport(width, height)
	s.Manager.SetOrigin(s.Origin())
}

// Update advances the scene by dt seconds.
func (s *Session) Update(in FrameInput, dt float32) {
	s.clockMs += float64(dt) * 1000

	l := s.Manager.Current()
	if l == nil {
		return
	}

	if s.follower == nil {
		s.follower = world.NewPathFollower(world.NewPathFinder(l.Map))
	}
	if in.Clicked {
		s.walkTo(l, in.Click)
	}

	move := in.Move
	if !move.ScreenDir().IsZero() {
		s.follower.Clear()
	} else if s.follower.Active() {
		move.Steer = s.follower.Direction(s.Player.GridPos)
	}
	s.Controller.Update(s.Player, move, dt, l)

	if in.Interact {
		if next, ok := s.useDoor(l); ok {
			l = next
		}
	}

	s.Camera.Follow(s.feet(l), dt)
}

// walkTo plans a path to the cell under the screen point p.
func (s *Session) walkTo(l *world.Level, p math.Vec2) {
	w := s.Camera.ScreenToWorld(p)
	x, y := iso.GroundToGrid(w, l.Map.TileWidth, l.Map.TileHeight, l.Grid.Origin).Floor()
	if !s.follower.MoveTo(s.Player.GridPos, x, y) {
		s.log.Debug("no path", zap.Int("x", x), zap.Int("y", y))
	}
}

// useDoor enters the door under the player. On failure the current level
// stays loaded.
func (s *Session) useDoor(l *world.Level) (*world.Level, bool) {
	d, ok := l.DoorAtGrid(s.Player.GridPos)
	if !ok {
		return nil, false
	}

	next, pos, err := s.Manager.EnterDoor(d)
	if err != nil {
		s.log.Warn("door failed", zap.String("target", d.TargetMap), zap.Error(err))
		return nil, false
	}
	s.enter(next, pos)
	s.log.Info("entered door",
		zap.String("map", next.Map.Path),
		zap.String("spawn", d.TargetSpawn))
	return next, true
}

// Render draws the current level and the player back to front.
func (s *Session) Render(r renderqueue.Rasterizer) FrameStats {
	var st FrameStats
	l := s.Manager.Current()
	if l == nil {
		return st
	}

	st.Ground = l.Grid.DrawGround(r, l.Resolver, s.Camera, s.clockMs)

	s.queue.Clear()
	l.Grid.AppendOccluders(s.queue, l.Resolver, s.Camera, s.clockMs)
	s.Player.AppendToQueue(s.queue, l.Map.TileWidth, l.Map.TileHeight, l.Grid.Origin)
	s.queue.SortByDepthStable()
	s.queue.Dispatch(r, s.Camera)
	st.Queued = s.queue.Len()

	st.Overhead = l.Grid.DrawOverhead(r, l.Resolver, s.Camera, s.clockMs)

	if s.ShowCollision && s.Overlay != nil {
		st.Collision = s.Overlay.Draw(r, l.Map, l.Map.Width, l.Map.Height, l.Grid.Origin, s.Camera)
	}
	return st
}
