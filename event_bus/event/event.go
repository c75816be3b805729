package event

// Tag names a parameterless event. The set is closed: new tags are added here, never at runtime.
type Tag int

const (
	ApplicationLaunched Tag = iota
	SceneStarted
	ShutdownRequested
)

var tagNames = [...]string{
	ApplicationLaunched: "ApplicationLaunched",
	SceneStarted:        "SceneStarted",
	ShutdownRequested:   "ShutdownRequested",
}

func (t Tag) String() string {
	if t < 0 || int(t) >= len(tagNames) {
		return "Tag(unknown)"
	}

	return tagNames[t]
}

// ParamTag names an event carrying a single parameter.
type ParamTag int

const (
	FrameUpdated ParamTag = iota
	ObjectSpawned
	ObjectDestroyed
	RuntimeError
	ApplicationTermination
)

var paramTagNames = [...]string{
	FrameUpdated:           "FrameUpdated",
	ObjectSpawned:          "ObjectSpawned",
	ObjectDestroyed:        "ObjectDestroyed",
	RuntimeError:           "RuntimeError",
	ApplicationTermination: "ApplicationTermination",
}

func (t ParamTag) String() string {
	if t < 0 || int(t) >= len(paramTagNames) {
		return "ParamTag(unknown)"
	}

	return paramTagNames[t]
}

//--------------------

// Tags lists every parameterless tag in declaration order.
func Tags() []Tag {
	result := make([]Tag, 0, len(tagNames))
	for i := range tagNames {
		result = append(result, Tag(i))
	}

	return result
}

func ParamTags() []ParamTag {
	result := make([]ParamTag, 0, len(paramTagNames))
	for i := range paramTagNames {
		result = append(result, ParamTag(i))
	}

	return result
}
