// Package input maps glfw keys to viewer actions.
package input

import (
	"sync"

	"github.com/go-gl/glfw/v3.3/glfw"
)

// Action is a logical viewer command.
type Action int

const (
	ActionForward Action = iota
	ActionBackward
	ActionLeft
	ActionRight
	ActionRaise
	ActionLower
	ActionYawLeft
	ActionYawRight
	ActionPitchUp
	ActionPitchDown
	ActionDepthUp
	ActionDepthDown
	ActionRadiusUp
	ActionRadiusDown
	ActionDig
	ActionFill
	ActionToggleWireframe
	ActionToggleTint
	ActionQuit
	ActionCount
)

// Manager tracks which actions are held and which changed since the last PostUpdate.
type Manager struct {
	mu       sync.RWMutex
	bindings map[glfw.Key][]Action

	held         [ActionCount]bool
	justPressed  [ActionCount]bool
	justReleased [ActionCount]bool
}

// NewManager returns a Manager with the default viewer bindings.
func NewManager() *Manager {
	m := &Manager{bindings: make(map[glfw.Key][]Action)}
	for key, action := range map[glfw.Key]Action{
		glfw.KeyW:            ActionForward,
		glfw.KeyS:            ActionBackward,
		glfw.KeyA:            ActionLeft,
		glfw.KeyD:            ActionRight,
		glfw.KeyE:            ActionRaise,
		glfw.KeyQ:            ActionLower,
		glfw.KeyLeft:         ActionYawLeft,
		glfw.KeyRight:        ActionYawRight,
		glfw.KeyUp:           ActionPitchUp,
		glfw.KeyDown:         ActionPitchDown,
		glfw.KeyEqual:        ActionDepthUp,
		glfw.KeyKPAdd:        ActionDepthUp,
		glfw.KeyMinus:        ActionDepthDown,
		glfw.KeyKPSubtract:   ActionDepthDown,
		glfw.KeyRightBracket: ActionRadiusUp,
		glfw.KeyLeftBracket:  ActionRadiusDown,
		glfw.KeyB:            ActionDig,
		glfw.KeyN:            ActionFill,
		glfw.KeyF:            ActionToggleWireframe,
		glfw.KeyT:            ActionToggleTint,
		glfw.KeyEscape:       ActionQuit,
	} {
		m.Bind(key, action)
	}
	return m
}

// Bind adds an action to a key. A key may drive several actions.
func (m *Manager) Bind(key glfw.Key, action Action) {
	if action < 0 || action >= ActionCount {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.bindings[key] = append(m.bindings[key], action)
}

// Unbind removes every action bound to key.
func (m *Manager) Unbind(key glfw.Key) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.bindings, key)
}

// HandleKey records a key event. Repeat counts as held.
func (m *Manager) HandleKey(key glfw.Key, action glfw.Action) {
	m.mu.Lock()
	defer m.mu.Unlock()
	down := action == glfw.Press || action == glfw.Repeat
	for _, a := range m.bindings[key] {
		if down && !m.held[a] {
			m.justPressed[a] = true
		}
		if !down && m.held[a] {
			m.justReleased[a] = true
		}
		m.held[a] = down
	}
}

// Attach installs the manager as the window's key callback.
func (m *Manager) Attach(window *glfw.Window) {
	window.SetKeyCallback(func(w *glfw.Window, key glfw.Key, scancode int, action glfw.Action, mods glfw.ModifierKey) {
		m.HandleKey(key, action)
	})
}

// PostUpdate clears edge flags. Call once at the end of each frame.
func (m *Manager) PostUpdate() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.justPressed = [ActionCount]bool{}
	m.justReleased = [ActionCount]bool{}
}

func (m *Manager) IsActive(a Action) bool {
	if a < 0 || a >= ActionCount {
		return false
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.held[a]
}

func (m *Manager) JustPressed(a Action) bool {
	if a < 0 || a >= ActionCount {
		return false
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.justPressed[a]
}

func (m *Manager) JustReleased(a Action) bool {
	if a < 0 || a >= ActionCount {
		return false
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.justReleased[a]
}

// Axis returns +1 when only pos is held, -1 when only neg is held and 0 otherwise.
func (m *Manager) Axis(pos, neg Action) float32 {
	var v float32
	if m.IsActive(pos) {
		v++
	}
	if m.IsActive(neg) {
		v--
	}
	return v
}
