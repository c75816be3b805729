package diagnostics

import (
	"fmt"

	"github.com/bassbeaver/glifecycle/event_bus"
	"github.com/bassbeaver/glifecycle/scene"
	"github.com/bassbeaver/glifecycle/singleton"
)

type SingletonsSource interface {
	Entries() []singleton.Entry
	Len() int
}

type EventsSource interface {
	Chains() []event_bus.ChainInfo
	ListenersCount() int
	SetObserver(observer event_bus.InvokeObserver)
}

type ObjectsSource interface {
	Objects() []*scene.Object
}

type StoreSource interface {
	Types() map[string]string
}

// Sources is what the server reports on. Every field is required.
type Sources struct {
	Singletons SingletonsSource
	Events     EventsSource
	Objects    ObjectsSource
	Store      StoreSource
}

type ObjectInfo struct {
	ID         string   `json:"id"`
	Name       string   `json:"name"`
	Tags       []string `json:"tags"`
	Active     bool     `json:"active"`
	Parent     string   `json:"parent,omitempty"`
	Components []string `json:"components"`
}

//--------------------

func newObjectInfo(o *scene.Object) ObjectInfo {
	info := ObjectInfo{
		ID:         o.ID.String(),
		Name:       o.Name,
		Tags:       o.Tags,
		Active:     o.Active,
		Components: make([]string, 0),
	}
	if nil == info.Tags {
		info.Tags = make([]string, 0)
	}
	if nil != o.Parent {
		info.Parent = o.Parent.ID.String()
	}
	for _, component := range o.Components() {
		info.Components = append(info.Components, fmt.Sprintf("%T", component))
	}

	return info
}
