package config

import "github.com/bassbeaver/glifecycle/helper"

type EventListenerConfig struct {
	EventName string `mapstructure:"Event"`
	Listener  string
	Priority  int
}

func (c *EventListenerConfig) ListenerAlias() string {
	return helper.GetStringPart(c.Listener, listenerSeparator, 0)
}

func (c *EventListenerConfig) ListenerMethod() string {
	return helper.GetStringPart(c.Listener, listenerSeparator, 1)
}

//--------------------

const listenerSeparator = ":"
