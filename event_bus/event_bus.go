package event_bus

import (
	"fmt"
	"sort"

	"github.com/bassbeaver/glifecycle/event_bus/event"
	"github.com/bassbeaver/glifecycle/event_bus/listener"
	"github.com/bassbeaver/glifecycle/singleton"
	"github.com/charmbracelet/log"
)

// InvokeObserver is told about every invocation of an event with bound listeners
type InvokeObserver func(eventName string, listenersCount int)

// EventBus dispatches events to listeners kept by the Manager singleton. Every call resolves
// the manager through the registry, so the bus follows the manager's lifecycle: binding or
// invoking without a live manager fails with the registry's error, unbinding only logs.
//
// Invoke runs listeners synchronously, in chain order, on a snapshot of the chain taken
// before the first listener runs. Listeners unbound during an invocation are still called
// by that invocation. A panicking listener stops the invocation: the listeners after it are
// not called. InvokeParamIsolated runs every listener regardless.
type EventBus struct {
	singletons *singleton.Registry
	logger     *log.Logger
	observer   InvokeObserver
}

type ChainInfo struct {
	Event     string   `json:"event"`
	Listeners []string `json:"listeners"`
}

func (b *EventBus) SetObserver(observer InvokeObserver) {
	b.observer = observer
}

func (b *EventBus) manager() (*Manager, error) {
	managerObj, resolveError := singleton.GetInstance[*Manager](b.singletons)
	if nil != resolveError {
		return nil, resolveError
	}

	if activateError := managerObj.activate(); nil != activateError {
		return nil, activateError
	}

	return managerObj, nil
}

// liveManager returns the manager without triggering resolution, nil if there is none.
func (b *EventBus) liveManager() *Manager {
	managerObj, exists := singleton.TryGetInstance[*Manager](b.singletons)
	if !exists || Destroyed == managerObj.State() {
		return nil
	}

	return managerObj
}

// Bind appends listenerObj to the chain of tag. Binding the same listener twice makes it run
// twice per invocation.
func (b *EventBus) Bind(tag event.Tag, listenerObj listener.Listener) error {
	return b.BindWithPriority(tag, listenerObj, 0)
}

// BindWithPriority binds listenerObj ahead of listeners with a greater priority.
func (b *EventBus) BindWithPriority(tag event.Tag, listenerObj listener.Listener, priority int) error {
	managerObj, managerError := b.manager()
	if nil != managerError {
		return managerError
	}

	return managerObj.bind(tag, listenerObj, priority)
}

func (b *EventBus) BindParam(tag event.ParamTag, listenerObj listener.ParamListener) error {
	return b.BindParamWithPriority(tag, listenerObj, 0)
}

func (b *EventBus) BindParamWithPriority(tag event.ParamTag, listenerObj listener.ParamListener, priority int) error {
	managerObj, managerError := b.manager()
	if nil != managerError {
		return managerError
	}

	return managerObj.bindParam(tag, listenerObj, priority)
}

// Unbind removes one occurrence of listenerObj from the chain of tag.
func (b *EventBus) Unbind(tag event.Tag, listenerObj listener.Listener) {
	managerObj := b.liveManager()
	if nil == managerObj {
		b.warnManagerDoesNotExist(tag.String(), listenerObj.Label())
		return
	}

	if !managerObj.unbind(tag, listenerObj) {
		b.warnUnbindMismatch(tag.String(), listenerObj.Label(), managerObj.hasChain(tag))
	}
}

func (b *EventBus) UnbindParam(tag event.ParamTag, listenerObj listener.ParamListener) {
	managerObj := b.liveManager()
	if nil == managerObj {
		b.warnManagerDoesNotExist(tag.String(), listenerObj.Label())
		return
	}

	if !managerObj.unbindParam(tag, listenerObj) {
		b.warnUnbindMismatch(tag.String(), listenerObj.Label(), managerObj.hasParamChain(tag))
	}
}

// Invoke calls every listener of tag. A tag nobody listens to is not an error.
func (b *EventBus) Invoke(tag event.Tag) error {
	managerObj, managerError := b.manager()
	if nil != managerError {
		return managerError
	}

	listeners := managerObj.listeners(tag)
	if 0 == len(listeners) {
		return nil
	}

	b.observe(tag.String(), len(listeners))
	for _, listenerObj := range listeners {
		listenerObj.Call()
	}

	return nil
}

func (b *EventBus) InvokeParam(tag event.ParamTag, parameter interface{}) error {
	managerObj, managerError := b.manager()
	if nil != managerError {
		return managerError
	}

	listeners := managerObj.paramListeners(tag)
	if 0 == len(listeners) {
		return nil
	}

	b.observe(tag.String(), len(listeners))
	for _, listenerObj := range listeners {
		listenerObj.Call(parameter)
	}

	return nil
}

// InvokeParamIsolated calls every listener of tag like InvokeParam, but a panic raised by a
// listener is recovered and handed to onPanic, and the next listener still runs.
func (b *EventBus) InvokeParamIsolated(tag event.ParamTag, parameter interface{}, onPanic func(listenerLabel string, recovered interface{})) error {
	managerObj, managerError := b.manager()
	if nil != managerError {
		return managerError
	}

	listeners := managerObj.paramListeners(tag)
	if 0 == len(listeners) {
		return nil
	}

	b.observe(tag.String(), len(listeners))
	for _, listenerObj := range listeners {
		func() {
			defer func() {
				if recoveredError := recover(); nil != recoveredError && nil != onPanic {
					onPanic(listenerObj.Label(), recoveredError)
				}
			}()

			listenerObj.Call(parameter)
		}()
	}

	return nil
}

// ClearAll empties every chain of the live manager. It belongs to the manager's teardown:
// the manager is Destroyed afterwards.
func (b *EventBus) ClearAll() {
	if managerObj, exists := singleton.TryGetInstance[*Manager](b.singletons); exists {
		managerObj.ClearAll()
	}
}

// Chains is a snapshot of the bound listeners labels, by event name
func (b *EventBus) Chains() []ChainInfo {
	result := make([]ChainInfo, 0)

	managerObj := b.liveManager()
	if nil == managerObj {
		return result
	}

	for _, tag := range event.Tags() {
		listeners := managerObj.listeners(tag)
		if 0 == len(listeners) {
			continue
		}
		labels := make([]string, 0, len(listeners))
		for _, listenerObj := range listeners {
			labels = append(labels, listenerObj.Label())
		}
		result = append(result, ChainInfo{Event: tag.String(), Listeners: labels})
	}

	for _, tag := range event.ParamTags() {
		listeners := managerObj.paramListeners(tag)
		if 0 == len(listeners) {
			continue
		}
		labels := make([]string, 0, len(listeners))
		for _, listenerObj := range listeners {
			labels = append(labels, listenerObj.Label())
		}
		result = append(result, ChainInfo{Event: tag.String(), Listeners: labels})
	}

	sort.SliceStable(result, func(i, j int) bool {
		return result[i].Event < result[j].Event
	})

	return result
}

// ListenersCount is the number of bound listeners over all chains
func (b *EventBus) ListenersCount() int {
	count := 0
	for _, chain := range b.Chains() {
		count += len(chain.Listeners)
	}

	return count
}

func (b *EventBus) observe(eventName string, listenersCount int) {
	if nil != b.observer {
		b.observer(eventName, listenersCount)
	}
}

func (b *EventBus) warnManagerDoesNotExist(eventName, listenerLabel string) {
	b.logger.Warn(
		"events manager does not exist, unsubscribe skipped",
		"event", eventName,
		"listener", listenerLabel,
	)
}

func (b *EventBus) warnUnbindMismatch(eventName, listenerLabel string, chainExists bool) {
	if !chainExists {
		b.logger.Warn(
			fmt.Sprintf("unsubscribe failed, event %s is not a member of the events list", eventName),
			"event", eventName,
			"listener", listenerLabel,
		)
		return
	}

	b.logger.Warn(
		"unsubscribe failed, listener is not bound to event",
		"event", eventName,
		"listener", listenerLabel,
	)
}

//--------------------

func NewEventBus(singletons *singleton.Registry, logger *log.Logger) *EventBus {
	if nil == logger {
		logger = log.Default()
	}

	return &EventBus{
		singletons: singletons,
		logger:     logger,
	}
}
