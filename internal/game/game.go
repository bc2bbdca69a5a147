// Package game implements the viewer's main loop.
package game

import (
	"fmt"
	"image"
	"image/color"
	"path"
	"time"

	"go.uber.org/zap"
	"golang.org/x/image/draw"

	"github.com/Faultbox/midgard-iso/internal/assets"
	"github.com/Faultbox/midgard-iso/internal/config"
	"github.com/Faultbox/midgard-iso/internal/engine/camera"
	"github.com/Faultbox/midgard-iso/internal/engine/debug"
	"github.com/Faultbox/midgard-iso/internal/engine/input"
	"github.com/Faultbox/midgard-iso/internal/engine/renderer"
	"github.com/Faultbox/midgard-iso/internal/engine/tiles"
	"github.com/Faultbox/midgard-iso/internal/engine/window"
	"github.com/Faultbox/midgard-iso/internal/game/entity"
	"github.com/Faultbox/midgard-iso/internal/game/world"
	"github.com/Faultbox/midgard-iso/pkg/math"
)

// Title is the window title.
const Title = "Midgard Iso"

// maxFrameTime caps dt so a stall does not teleport the player.
const maxFrameTime = 0.1

// Game is the windowed viewer.
type Game struct {
	config  *config.Config
	log     *zap.Logger
	running bool

	window     *window.Window
	renderer   *renderer.Renderer
	input      *input.Input
	textures   *assets.TextureCache
	session    *Session
	screenshot *debug.Screenshot
	mapPath    string
}

// New creates the window, GL renderer and scene, and loads the configured map.
func New(cfg *config.Config, log *zap.Logger) (*Game, error) {
	if log == nil {
		log = zap.NewNop()
	}
	log.Info("initializing viewer",
		zap.Int("width", cfg.Graphics.Width),
		zap.Int("height", cfg.Graphics.Height),
		zap.String("map", cfg.Map.Path))

	g := &Game{config: cfg, log: log}

	var err error
	g.window, err = window.New(window.Config{
		Title:      Title,
		Width:      cfg.Graphics.Width,
		Height:     cfg.Graphics.Height,
		Fullscreen: cfg.Graphics.Fullscreen,
		VSync:      cfg.Graphics.VSync,
	}, log.Named("window"))
	if err != nil {
		return nil, fmt.Errorf("failed to create window: %w", err)
	}

	// The drawable can differ from the requested size in fullscreen and on
	// high-DPI displays.
	w, h := g.window.Size()

	// Create renderer (AFTER window, since OpenGL context must exist)
	g.renderer, err = renderer.New(renderer.Config{
		Width:      w,
		Height:     h,
		ClearColor: renderer.DefaultClearColor,
	}, log.Named("renderer"))
	if err != nil {
		g.window.Close()
		return nil, fmt.Errorf("failed to create renderer: %w", err)
	}

	g.input = input.New()
	g.textures = assets.NewTextureCache(g.renderer, assets.WithLogger(log.Named("assets")))
	g.screenshot = debug.NewScreenshot(cfg.Render.ScreenshotDir, "isoview")

	if err := g.setupScene(w, h); err != nil {
		g.Close()
		return nil, err
	}

	log.Info("viewer initialized")
	return g, nil
}

func (g *Game) setupScene(w, h int) error {
	cfg := g.config

	cam := camera.New(w, h)
	cam.Smoothing = math.Vec2{X: cfg.Render.CameraSmoothing, Y: cfg.Render.CameraSmoothing}
	cam.DeadZone = math.Vec2{X: cfg.Render.DeadZoneX, Y: cfg.Render.DeadZoneY}

	player, err := g.loadPlayer()
	if err != nil {
		return err
	}

	mgr := world.NewManager(g.textures, math.Vec2{}, world.WithLogger(g.log.Named("world")))
	g.session = NewSession(mgr, player, cam, cfg.Map.OriginY, g.log.Named("session"))
	g.session.Controller.WalkSpeed = cfg.Player.WalkSpeed
	g.session.Controller.RunSpeed = cfg.Player.RunSpeed
	g.session.ShowCollision = cfg.Render.ShowCollision
	g.session.CullMargin = cfg.Render.CullMargin

	if err := g.session.Start(cfg.Map.Path, cfg.Map.Spawn); err != nil {
		return err
	}
	g.updateTitle()

	l := mgr.Current()
	g.session.Overlay, err = debug.NewCollisionOverlay(g.renderer, l.Map.TileWidth, l.Map.TileHeight)
	if err != nil {
		g.log.Warn("collision overlay unavailable", zap.Error(err))
	}
	return nil
}

// loadPlayer loads the player sprite, falling back to a plain marker when
// the texture cannot be read.
func (g *Game) loadPlayer() (*entity.Player, error) {
	pc := g.config.Player
	size := math.Vec2{X: float32(pc.Width), Y: float32(pc.Height)}

	tex, err := g.textures.Load(pc.Texture, true)
	if err != nil {
		g.log.Warn("player texture unavailable, using placeholder",
			zap.String("path", pc.Texture), zap.Error(err))
		tex, err = g.renderer.Upload(placeholder(pc.Width, pc.Height))
		if err != nil {
			return nil, fmt.Errorf("uploading player placeholder: %w", err)
		}
		return entity.NewPlayer(tex, size, math.Vec2{}), nil
	}

	p := entity.NewPlayer(tex, size, math.Vec2{})
	if pc.FrameWidth > 0 && pc.FrameHeight > 0 {
		p.Sheet = tiles.NewSpriteSheet(tex.Width, tex.Height, pc.FrameWidth, pc.FrameHeight, true)
	}
	return p, nil
}

func placeholder(w, h int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, max(w, 1), max(h, 1)))
	draw.Draw(img, img.Bounds(), &image.Uniform{C: color.RGBA{R: 240, G: 200, B: 60, A: 255}}, image.Point{}, draw.Src)
	return img
}

// Run starts the main loop and returns when the window is closed or Esc is
// pressed.
func (g *Game) Run() error {
	g.running = true

	lastTime := time.Now()
	frameCount := 0
	fpsTimer := time.Now()

	var frameBudget time.Duration
	if g.config.Graphics.FPSLimit > 0 {
		frameBudget = time.Second / time.Duration(g.config.Graphics.FPSLimit)
	}

	g.log.Info("starting main loop")

	for g.running {
		frameStart := time.Now()
		dt := min(frameStart.Sub(lastTime).Seconds(), maxFrameTime)
		lastTime = frameStart

		if g.input.Update() {
			g.running = false
			break
		}
		g.handleEvents()

		g.session.Update(g.frameInput(), float32(dt))
		g.updateTitle()

		g.renderer.Begin()
		stats := g.session.Render(g.renderer)
		g.renderer.End()

		if g.input.Pressed(input.KeyScreenshot) {
			g.captureScreenshot()
		}

		g.window.SwapBuffers()

		frameCount++
		if time.Since(fpsTimer) >= time.Second {
			hits, misses := g.textures.Stats()
			g.log.Debug("fps",
				zap.Int("count", frameCount),
				zap.Int("sprites", stats.Total()),
				zap.Float64("dt_ms", dt*1000),
				zap.Int("texture_hits", hits),
				zap.Int("texture_misses", misses))
			frameCount = 0
			fpsTimer = time.Now()
		}

		if frameBudget > 0 {
			if left := frameBudget - time.Since(frameStart); left > 0 {
				time.Sleep(left)
			}
		}
	}

	return nil
}

func (g *Game) handleEvents() {
	if _, _, ok := g.input.Resized(); ok {
		w, h := g.window.Size()
		g.renderer.Resize(w, h)
		g.session.Resize(w, h)
	}
	if g.input.Pressed(input.KeyQuit) {
		g.running = false
	}
	if g.input.Pressed(input.KeyToggleCollision) {
		g.session.ShowCollision = !g.session.ShowCollision
		g.log.Debug("collision overlay", zap.Bool("visible", g.session.ShowCollision))
	}
}

// updateTitle shows the current map's file name in the title bar.
func (g *Game) updateTitle() {
	l := g.session.Manager.Current()
	if l == nil || l.Map.Path == g.mapPath {
		return
	}
	g.mapPath = l.Map.Path
	g.window.SetTitle(Title + " - " + path.Base(l.Map.Path))
}

func (g *Game) frameInput() FrameInput {
	in := FrameInput{
		Move: entity.Intent{
			Up:    g.input.Held(input.KeyUp),
			Down:  g.input.Held(input.KeyDown),
			Left:  g.input.Held(input.KeyLeft),
			Right: g.input.Held(input.KeyRight),
			Run:   g.input.Held(input.KeyRun),
		},
		Interact: g.input.Pressed(input.KeyInteract),
	}
	if x, y, ok := g.input.Clicked(); ok {
		in.Click = math.Vec2{X: float32(x), Y: float32(y)}
		in.Clicked = true
	}
	return in
}

func (g *Game) captureScreenshot() {
	pixels, w, h := g.renderer.ReadPixels()
	file, err := g.screenshot.SaveGLPixels(pixels, w, h)
	if err != nil {
		g.log.Warn("screenshot failed", zap.Error(err))
		return
	}
	g.log.Info("screenshot saved", zap.String("path", file))
}

// Close releases textures, the renderer and the window.
func (g *Game) Close() {
	g.log.Info("closing viewer")

	if g.textures != nil {
		g.textures.Clear()
	}
	if g.renderer != nil {
		g.renderer.Close()
	}
	if g.window != nil {
		g.window.Close()
	}
}
