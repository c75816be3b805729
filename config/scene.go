package config

const DefaultSceneName = "main"

type SceneConfig struct {
	Name    string
	Objects []SceneObjectConfig
}

// SceneObjectConfig describes an object spawned at start. Components are service aliases,
// every service has to produce a scene.Component.
type SceneObjectConfig struct {
	Name       string
	Tags       []string
	Components []string
	Children   []SceneObjectConfig
}

func (c *SceneConfig) SceneName() string {
	if "" == c.Name {
		return DefaultSceneName
	}

	return c.Name
}
