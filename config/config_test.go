package config

import (
	"bytes"
	"strings"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleConfig = `
scene:
  name: level1
  objects:
    - name: Player
      tags: [player]
      components: [health, weapon]
      children:
        - name: Hat
          components: [hat]
event_listeners:
  - Event: ApplicationLaunched
    Listener: scoreKeeper:OnLaunched
    Priority: 10
log:
  level: debug
  format: logfmt
`

func readSample(t *testing.T) *viper.Viper {
	configObj := viper.New()
	configObj.SetConfigType("yaml")
	require.NoError(t, configObj.ReadConfig(strings.NewReader(sampleConfig)))

	return configObj
}

func TestEventListenerConfig(t *testing.T) {
	configObj := readSample(t)

	listeners := make([]EventListenerConfig, 0)
	require.NoError(t, configObj.UnmarshalKey("event_listeners", &listeners))
	require.Len(t, listeners, 1)

	assert.Equal(t, "ApplicationLaunched", listeners[0].EventName)
	assert.Equal(t, "scoreKeeper", listeners[0].ListenerAlias())
	assert.Equal(t, "OnLaunched", listeners[0].ListenerMethod())
	assert.Equal(t, 10, listeners[0].Priority)
}

func TestEventListenerConfigWithoutMethod(t *testing.T) {
	c := EventListenerConfig{Listener: "scoreKeeper"}

	assert.Equal(t, "scoreKeeper", c.ListenerAlias())
	assert.Equal(t, "", c.ListenerMethod())
}

func TestSceneConfig(t *testing.T) {
	configObj := readSample(t)

	sceneConfig := &SceneConfig{}
	require.NoError(t, configObj.UnmarshalKey("scene", sceneConfig))

	assert.Equal(t, "level1", sceneConfig.SceneName())
	require.Len(t, sceneConfig.Objects, 1)
	assert.Equal(t, "Player", sceneConfig.Objects[0].Name)
	assert.Equal(t, []string{"player"}, sceneConfig.Objects[0].Tags)
	assert.Equal(t, []string{"health", "weapon"}, sceneConfig.Objects[0].Components)
	require.Len(t, sceneConfig.Objects[0].Children, 1)
	assert.Equal(t, []string{"hat"}, sceneConfig.Objects[0].Children[0].Components)

	assert.Equal(t, DefaultSceneName, (&SceneConfig{}).SceneName())
}

func TestLogConfig(t *testing.T) {
	configObj := readSample(t)

	logConfig := &LogConfig{}
	require.NoError(t, configObj.UnmarshalKey("log", logConfig))

	buf := &bytes.Buffer{}
	logger := logConfig.NewLogger(buf)
	logger.Debug("frame", "number", 1)

	assert.Contains(t, buf.String(), "level=debug")
	assert.Contains(t, buf.String(), "number=1")
}

func TestLogConfigDefaults(t *testing.T) {
	buf := &bytes.Buffer{}
	logger := (&LogConfig{Level: "verbose"}).NewLogger(buf)
	logger.Debug("hidden")
	logger.Info("shown")

	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "shown")
}
