package event_bus

import (
	"sort"

	"github.com/bassbeaver/glifecycle/event_bus/listener"
)

type listenersChainElement[L any] struct {
	priority int
	listener L
}

//--------------------

// listenersChain is ordered by priority, elements of equal priority keep registration order
type listenersChain[L any] []*listenersChainElement[L]

func (c listenersChain[L]) Len() int {
	return len(c)
}

func (c listenersChain[L]) Swap(i, j int) {
	c[i], c[j] = c[j], c[i]
}

func (c listenersChain[L]) Less(i, j int) bool {
	return c[i].priority < c[j].priority
}

func (c listenersChain[L]) appendListener(listenerObj L, priority int) listenersChain[L] {
	result := append(c, &listenersChainElement[L]{listener: listenerObj, priority: priority})
	sort.Stable(result)

	return result
}

// removeFirst drops the first element accepted by matches. It reports false if nothing matched.
func (c listenersChain[L]) removeFirst(matches func(L) bool) (listenersChain[L], bool) {
	for i, element := range c {
		if matches(element.listener) {
			result := make(listenersChain[L], 0, len(c)-1)
			result = append(result, c[:i]...)
			result = append(result, c[i+1:]...)

			return result, true
		}
	}

	return c, false
}

func (c listenersChain[L]) snapshot() []L {
	result := make([]L, 0, len(c))
	for _, element := range c {
		result = append(result, element.listener)
	}

	return result
}

//--------------------

type parameterlessChain = listenersChain[listener.Listener]

type parameterChain = listenersChain[listener.ParamListener]
