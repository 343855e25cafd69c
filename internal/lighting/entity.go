package lighting

import "chosenoffset.com/lumen2d/internal/render"

// Entity is anything the System updates every tick and draws every frame.
type Entity interface {
	Update()
	Draw(dst render.Image, res *Resources)
}

var (
	_ Entity = (*Light)(nil)
	_ Entity = (*Shape)(nil)
)
