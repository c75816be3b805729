package event

import "time"

// FrameUpdate is the parameter of FrameUpdated
type FrameUpdate struct {
	Frame uint64
	Delta time.Duration
}

//--------------------

func NewFrameUpdate(frame uint64, delta time.Duration) *FrameUpdate {
	return &FrameUpdate{
		Frame: frame,
		Delta: delta,
	}
}
