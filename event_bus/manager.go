package event_bus

import (
	"errors"
	"sync"

	"github.com/bassbeaver/glifecycle/event_bus/event"
	"github.com/bassbeaver/glifecycle/event_bus/listener"
	"github.com/bassbeaver/glifecycle/scene"
	"github.com/charmbracelet/log"
)

type State int

const (
	Uninitialized State = iota
	Active
	Destroyed
)

func (s State) String() string {
	switch s {
	case Uninitialized:
		return "uninitialized"
	case Active:
		return "active"
	case Destroyed:
		return "destroyed"
	}

	return "unknown"
}

var ErrManagerDestroyed = errors.New("events manager is destroyed")

// Manager is the singleton component backing an EventBus. It lives on an object in the scene
// and is located through the singleton registry. Destroying its object clears every chain
// and the manager can not be used again.
type Manager struct {
	scene.BaseComponent
	state       State
	events      map[event.Tag]parameterlessChain
	paramEvents map[event.ParamTag]parameterChain
	lock        sync.Mutex
	logger      *log.Logger
}

func (m *Manager) State() State {
	m.lock.Lock()
	defer m.lock.Unlock()

	return m.state
}

func (m *Manager) activate() error {
	m.lock.Lock()
	defer m.lock.Unlock()

	switch m.state {
	case Destroyed:
		return ErrManagerDestroyed
	case Uninitialized:
		m.events = make(map[event.Tag]parameterlessChain)
		m.paramEvents = make(map[event.ParamTag]parameterChain)
		m.state = Active
		m.logger.Debug("events manager activated", "object", m.Name())
	}

	return nil
}

func (m *Manager) OnDestroy() {
	m.ClearAll()
}

// ClearAll empties both mappings and moves the manager to the Destroyed state.
func (m *Manager) ClearAll() {
	m.lock.Lock()
	defer m.lock.Unlock()

	m.events = make(map[event.Tag]parameterlessChain)
	m.paramEvents = make(map[event.ParamTag]parameterChain)
	if Destroyed != m.state {
		m.state = Destroyed
		m.logger.Debug("events manager destroyed", "object", m.Name())
	}
}

func (m *Manager) bind(tag event.Tag, listenerObj listener.Listener, priority int) error {
	m.lock.Lock()
	defer m.lock.Unlock()

	if Destroyed == m.state {
		return ErrManagerDestroyed
	}
	m.events[tag] = m.events[tag].appendListener(listenerObj, priority)

	return nil
}

func (m *Manager) bindParam(tag event.ParamTag, listenerObj listener.ParamListener, priority int) error {
	m.lock.Lock()
	defer m.lock.Unlock()

	if Destroyed == m.state {
		return ErrManagerDestroyed
	}
	m.paramEvents[tag] = m.paramEvents[tag].appendListener(listenerObj, priority)

	return nil
}

// unbind reports whether a matching listener was found. A chain left empty is removed.
func (m *Manager) unbind(tag event.Tag, listenerObj listener.Listener) bool {
	m.lock.Lock()
	defer m.lock.Unlock()

	chain, chainExists := m.events[tag]
	if !chainExists {
		return false
	}

	chain, removed := chain.removeFirst(listenerObj.Matches)
	if !removed {
		return false
	}

	if 0 == len(chain) {
		delete(m.events, tag)
	} else {
		m.events[tag] = chain
	}

	return true
}

func (m *Manager) unbindParam(tag event.ParamTag, listenerObj listener.ParamListener) bool {
	m.lock.Lock()
	defer m.lock.Unlock()

	chain, chainExists := m.paramEvents[tag]
	if !chainExists {
		return false
	}

	chain, removed := chain.removeFirst(listenerObj.Matches)
	if !removed {
		return false
	}

	if 0 == len(chain) {
		delete(m.paramEvents, tag)
	} else {
		m.paramEvents[tag] = chain
	}

	return true
}

func (m *Manager) listeners(tag event.Tag) []listener.Listener {
	m.lock.Lock()
	defer m.lock.Unlock()

	return m.events[tag].snapshot()
}

func (m *Manager) paramListeners(tag event.ParamTag) []listener.ParamListener {
	m.lock.Lock()
	defer m.lock.Unlock()

	return m.paramEvents[tag].snapshot()
}

func (m *Manager) hasChain(tag event.Tag) bool {
	m.lock.Lock()
	defer m.lock.Unlock()

	_, chainExists := m.events[tag]

	return chainExists
}

func (m *Manager) hasParamChain(tag event.ParamTag) bool {
	m.lock.Lock()
	defer m.lock.Unlock()

	_, chainExists := m.paramEvents[tag]

	return chainExists
}

//--------------------

func NewManager(logger *log.Logger) *Manager {
	if nil == logger {
		logger = log.Default()
	}

	return &Manager{
		state:  Uninitialized,
		logger: logger,
	}
}
