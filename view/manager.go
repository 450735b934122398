package view

import (
	"context"
	"sync"
)

// Factory builds a controller for a device id.
type Factory func(deviceID string) *Controller

// Manager hands out one controller per device session. The UI serializes a
// device's actions, so the controller itself is the only writer of its
// state; the manager only guards the map.
type Manager struct {
	factory Factory

	mu   sync.Mutex
	ctls map[string]*Controller
}

func NewManager(factory Factory) *Manager {
	return &Manager{factory: factory, ctls: make(map[string]*Controller)}
}

// Attach returns the device's controller, creating and bootstrapping it on
// first contact.
func (m *Manager) Attach(ctx context.Context, deviceID string) *Controller {
	m.mu.Lock()
	ctl, ok := m.ctls[deviceID]
	if !ok {
		ctl = m.factory(deviceID)
		m.ctls[deviceID] = ctl
	}
	m.mu.Unlock()

	if !ok {
		ctl.Bootstrap(ctx)
	}
	return ctl
}

// Get returns the device's controller, or nil if it never attached.
func (m *Manager) Get(deviceID string) *Controller {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.ctls[deviceID]
}

// Drop forgets a device's controller.
func (m *Manager) Drop(deviceID string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.ctls, deviceID)
}
