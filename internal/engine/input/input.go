// Package input handles SDL2 input events.
package input

import (
	"github.com/veandco/go-sdl2/sdl"
)

// EventType identifies an Event.
type EventType int

const (
	EventNone EventType = iota
	EventQuit
	EventWindowResize
	EventKeyDown
	EventKeyUp
	EventMouseDown
)

// Key is a game action key, independent of the SDL scancode it is bound to.
type Key int

const (
	KeyUp Key = iota
	KeyDown
	KeyLeft
	KeyRight
	KeyRun
	KeyInteract
	KeyQuit
	KeyToggleCollision
	KeyScreenshot
	keyCount
)

// DefaultBindings maps each Key to its scancodes.
var DefaultBindings = [keyCount][]sdl.Scancode{
	KeyUp:              {sdl.SCANCODE_W, sdl.SCANCODE_UP},
	KeyDown:            {sdl.SCANCODE_S, sdl.SCANCODE_DOWN},
	KeyLeft:            {sdl.SCANCODE_A, sdl.SCANCODE_LEFT},
	KeyRight:           {sdl.SCANCODE_D, sdl.SCANCODE_RIGHT},
	KeyRun:             {sdl.SCANCODE_LCTRL, sdl.SCANCODE_RCTRL},
	KeyInteract:        {sdl.SCANCODE_E},
	KeyQuit:            {sdl.SCANCODE_ESCAPE},
	KeyToggleCollision: {sdl.SCANCODE_F1},
	KeyScreenshot:      {sdl.SCANCODE_F12},
}

// Event represents a processed input event.
type Event struct {
	Type   EventType
	Key    sdl.Scancode
	Repeat bool
	Width  int
	Height int

	// X and Y are the pointer position of a mouse event in window pixels.
	X, Y int
}

// Input polls SDL events once per frame and answers key queries.
type Input struct {
	events   []Event
	bindings [keyCount][]sdl.Scancode
	state    []uint8
}

// New creates an input handler with the default bindings.
func New() *Input {
	return &Input{
		events:   make([]Event, 0, 16),
		bindings: DefaultBindings,
	}
}

// Update polls SDL events. It returns true if the window was closed.
func (i *Input) Update() bool {
	i.events = i.events[:0]
	quit := false

	for event := sdl.PollEvent(); event != nil; event = sdl.PollEvent() {
		switch e := event.(type) {
		case *sdl.QuitEvent:
			i.events = append(i.events, Event{Type: EventQuit})
			quit = true

		case *sdl.WindowEvent:
			if e.Event == sdl.WINDOWEVENT_RESIZED || e.Event == sdl.WINDOWEVENT_SIZE_CHANGED {
				i.events = append(i.events, Event{
					Type:   EventWindowResize,
					Width:  int(e.Data1),
					Height: int(e.Data2),
				})
			}

		case *sdl.MouseButtonEvent:
			if e.Type == sdl.MOUSEBUTTONDOWN && e.Button == sdl.BUTTON_LEFT {
				i.events = append(i.events, Event{
					Type: EventMouseDown,
					X:    int(e.X),
					Y:    int(e.Y),
				})
			}

		case *sdl.KeyboardEvent:
			typ := EventKeyUp
			if e.Type == sdl.KEYDOWN {
				typ = EventKeyDown
			}
			i.events = append(i.events, Event{
				Type:   typ,
				Key:    e.Keysym.Scancode,
				Repeat: e.Repeat != 0,
			})
		}
	}

	i.state = sdl.GetKeyboardState()
	return quit
}

// Events returns the events from the last Update.
func (i *Input) Events() []Event {
	return i.events
}

// Held reports whether any scancode bound to k is down.
func (i *Input) Held(k Key) bool {
	if k < 0 || k >= keyCount {
		return false
	}
	for _, sc := range i.bindings[k] {
		if int(sc) < len(i.state) && i.state[sc] != 0 {
			return true
		}
	}
	return false
}

// Pressed reports whether k went down this frame, ignoring key repeat.
func (i *Input) Pressed(k Key) bool {
	if k < 0 || k >= keyCount {
		return false
	}
	for _, e := range i.events {
		if e.Type != EventKeyDown || e.Repeat {
			continue
		}
		for _, sc := range i.bindings[k] {
			if e.Key == sc {
				return true
			}
		}
	}
	return false
}

// Resized returns the latest window size reported this frame.
func (i *Input) Resized() (w, h int, ok bool) {
	for _, e := range i.events {
		if e.Type == EventWindowResize {
			w, h, ok = e.Width, e.Height, true
		}
	}
	return w, h, ok
}

// Clicked returns the position of the last left click this frame.
func (i *Input) Clicked() (x, y int, ok bool) {
	for _, e := range i.events {
		if e.Type == EventMouseDown {
			x, y, ok = e.X, e.Y, true
		}
	}
	return x, y, ok
}
