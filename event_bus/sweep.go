package event_bus

import (
	"fmt"

	"github.com/bassbeaver/glifecycle/event_bus/event"
	"github.com/bassbeaver/glifecycle/event_bus/listener"
)

type ownedListener interface {
	OwnedBy(owner interface{}) bool
	IsDangling() bool
}

type danglingListener struct {
	tag         event.Tag
	listenerObj listener.Listener
}

type danglingParamListener struct {
	tag         event.ParamTag
	listenerObj listener.ParamListener
}

// SweepDanglingHandlers unbinds listeners whose owner is gone without having unsubscribed.
// With a non-nil owner every listener owned by it is removed, with a nil owner every listener
// whose owner reports itself destroyed is. Each removal is logged as a warning. It returns the
// number of removed listeners.
func (b *EventBus) SweepDanglingHandlers(owner interface{}) int {
	managerObj := b.liveManager()
	if nil == managerObj {
		return 0
	}

	isDangling := func(l ownedListener) bool {
		if nil == owner {
			return l.IsDangling()
		}

		return l.OwnedBy(owner)
	}

	removed := 0

	// parameterless
	toUnbind := make([]danglingListener, 0)
	for _, tag := range event.Tags() {
		for _, listenerObj := range managerObj.listeners(tag) {
			if isDangling(listenerObj) {
				toUnbind = append(toUnbind, danglingListener{tag: tag, listenerObj: listenerObj})
			}
		}
	}
	for _, item := range toUnbind {
		if managerObj.unbind(item.tag, item.listenerObj) {
			b.warnDangling(item.tag.String(), item.listenerObj.Label(), item.listenerObj.Owner())
			removed++
		}
	}

	// parameterized
	toUnbindParameterized := make([]danglingParamListener, 0)
	for _, tag := range event.ParamTags() {
		for _, listenerObj := range managerObj.paramListeners(tag) {
			if isDangling(listenerObj) {
				toUnbindParameterized = append(toUnbindParameterized, danglingParamListener{tag: tag, listenerObj: listenerObj})
			}
		}
	}
	for _, item := range toUnbindParameterized {
		if managerObj.unbindParam(item.tag, item.listenerObj) {
			b.warnDangling(item.tag.String(), item.listenerObj.Label(), item.listenerObj.Owner())
			removed++
		}
	}

	return removed
}

func (b *EventBus) warnDangling(eventName, listenerLabel string, owner interface{}) {
	b.logger.Warn(
		"the object owning event listener has been destroyed, but the listener has not been unsubscribed; unsubscribing",
		"event", eventName,
		"listener", listenerLabel,
		"owner", fmt.Sprintf("%T", owner),
	)
}
